package service

import (
	"context"
	"errors"

	catalogerrors "autobooking/internal/catalog/errors"
	"autobooking/internal/catalog/repository"
	"autobooking/internal/catalog/validator"
	"autobooking/pkg/config"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/model"
	"autobooking/pkg/sanitizer"
)

type CategoryService interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetAll(ctx context.Context) ([]*model.Category, error)
	Delete(ctx context.Context, id string) error
}

type categoryService struct {
	repo      repository.CategoryRepository
	products  repository.ProductRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewCategoryService(
	repo repository.CategoryRepository,
	products repository.ProductRepository,
	catalogValidator *validator.CatalogValidator,
	cfg *config.Config,
) CategoryService {
	return &categoryService{
		repo:      repo,
		products:  products,
		validator: catalogValidator,
		cfg:       cfg,
	}
}

func (s *categoryService) Create(ctx context.Context, category *model.Category) error {
	category.Name = sanitizer.NormalizeText(category.Name)
	category.Description = sanitizer.NormalizeText(category.Description)

	if err := s.validator.ValidateCategory(category); err != nil {
		s.cfg.Log.Warn("Category validation failed", "name", category.Name, "error", err)
		return apperrors.Validation("Category validation failed", map[string]any{"error": err.Error()})
	}

	// Name uniqueness is case-insensitive; check first for a clean error,
	// the unique index is the backstop.
	if _, err := s.repo.FindByName(ctx, category.Name); err == nil {
		return apperrors.Conflict("A Category with this name already exists")
	} else if !errors.Is(err, catalogerrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check category name", "name", category.Name, "error", err)
		return apperrors.Internal("Failed to create category", err)
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return translateCatalogError(err, "Category", "")
	}

	s.cfg.Log.Info("Category created successfully", "id", category.ID, "name", category.Name)
	return nil
}

func (s *categoryService) GetByID(ctx context.Context, id string) (*model.Category, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Category ID cannot be empty")
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateCatalogError(err, "Category", id)
	}
	return category, nil
}

func (s *categoryService) GetAll(ctx context.Context) ([]*model.Category, error) {
	categories, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list categories", "error", err)
		return nil, apperrors.Internal("Failed to retrieve categories", err)
	}
	return categories, nil
}

// Delete removes a category and detaches it from any products that
// referenced it. Products survive without a category.
func (s *categoryService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Category ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translateCatalogError(err, "Category", id)
	}

	if err := s.products.ClearCategory(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to detach category from products", "category_id", id, "error", err)
		return apperrors.Internal("Failed to detach category from products", err)
	}

	s.cfg.Log.Info("Category deleted", "id", id)
	return nil
}
