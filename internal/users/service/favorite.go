package service

import (
	"context"
	"errors"
	"time"

	userserrors "autobooking/internal/users/errors"
	"autobooking/internal/users/repository"
	"autobooking/pkg/config"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/model"
)

// ProductFinder is the slice of the catalog the favorites service needs: it
// only ever checks that a product exists and fetches it for listing.
type ProductFinder interface {
	GetByID(ctx context.Context, id string) (*model.Product, error)
}

type FavoriteService interface {
	Add(ctx context.Context, userID, productID string) error
	Remove(ctx context.Context, userID, productID string) error
	List(ctx context.Context, userID string) ([]*model.Product, error)
	IsFavorite(ctx context.Context, userID, productID string) (bool, error)
}

type favoriteService struct {
	repo     repository.FavoriteRepository
	users    repository.UserRepository
	products ProductFinder
	cfg      *config.Config
}

func NewFavoriteService(
	repo repository.FavoriteRepository,
	users repository.UserRepository,
	products ProductFinder,
	cfg *config.Config,
) FavoriteService {
	return &favoriteService{
		repo:     repo,
		users:    users,
		products: products,
		cfg:      cfg,
	}
}

func (s *favoriteService) Add(ctx context.Context, userID, productID string) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return translateUserError(err, userID)
	}
	if _, err := s.products.GetByID(ctx, productID); err != nil {
		return err
	}

	favorite := &model.Favorite{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, favorite); err != nil {
		if errors.Is(err, repository.ErrDuplicateFavorite) {
			return apperrors.Conflict("Product is already in favorites")
		}
		s.cfg.Log.Error("Failed to add favorite", "user_id", userID, "product_id", productID, "error", err)
		return apperrors.Internal("Failed to add favorite", err)
	}

	s.cfg.Log.Info("Favorite added", "user_id", userID, "product_id", productID)
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, productID string) error {
	if err := s.repo.Delete(ctx, userID, productID); err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return apperrors.NotFound("Favorite not found")
		}
		s.cfg.Log.Error("Failed to remove favorite", "user_id", userID, "product_id", productID, "error", err)
		return apperrors.Internal("Failed to remove favorite", err)
	}

	s.cfg.Log.Info("Favorite removed", "user_id", userID, "product_id", productID)
	return nil
}

// List resolves a user's favorites to products. Favorites whose product has
// since been deleted are skipped rather than failing the whole listing.
func (s *favoriteService) List(ctx context.Context, userID string) ([]*model.Product, error) {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, translateUserError(err, userID)
	}

	favorites, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list favorites", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve favorites", err)
	}

	products := make([]*model.Product, 0, len(favorites))
	for _, favorite := range favorites {
		product, err := s.products.GetByID(ctx, favorite.ProductID)
		if err != nil {
			if apperrors.AsAppError(err).Code == apperrors.CodeNotFound {
				continue
			}
			return nil, err
		}
		products = append(products, product)
	}

	return products, nil
}

func (s *favoriteService) IsFavorite(ctx context.Context, userID, productID string) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID, productID)
	if err != nil {
		s.cfg.Log.Error("Failed to check favorite", "user_id", userID, "product_id", productID, "error", err)
		return false, apperrors.Internal("Failed to check favorite", err)
	}
	return exists, nil
}
