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

type FeatureService interface {
	Create(ctx context.Context, feature *model.Feature) error
	GetByID(ctx context.Context, id string) (*model.Feature, error)
	GetAll(ctx context.Context) ([]*model.Feature, error)
	Delete(ctx context.Context, id string) error
}

type featureService struct {
	repo      repository.FeatureRepository
	products  repository.ProductRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
}

func NewFeatureService(
	repo repository.FeatureRepository,
	products repository.ProductRepository,
	catalogValidator *validator.CatalogValidator,
	cfg *config.Config,
) FeatureService {
	return &featureService{
		repo:      repo,
		products:  products,
		validator: catalogValidator,
		cfg:       cfg,
	}
}

func (s *featureService) Create(ctx context.Context, feature *model.Feature) error {
	feature.Name = sanitizer.NormalizeText(feature.Name)

	if err := s.validator.ValidateFeature(feature); err != nil {
		s.cfg.Log.Warn("Feature validation failed", "name", feature.Name, "error", err)
		return apperrors.Validation("Feature validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindByName(ctx, feature.Name); err == nil {
		return apperrors.Conflict("A Feature with this name already exists")
	} else if !errors.Is(err, catalogerrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check feature name", "name", feature.Name, "error", err)
		return apperrors.Internal("Failed to create feature", err)
	}

	if err := s.repo.Create(ctx, feature); err != nil {
		return translateCatalogError(err, "Feature", "")
	}

	s.cfg.Log.Info("Feature created successfully", "id", feature.ID, "name", feature.Name)
	return nil
}

func (s *featureService) GetByID(ctx context.Context, id string) (*model.Feature, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Feature ID cannot be empty")
	}

	feature, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateCatalogError(err, "Feature", id)
	}
	return feature, nil
}

func (s *featureService) GetAll(ctx context.Context) ([]*model.Feature, error) {
	features, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list features", "error", err)
		return nil, apperrors.Internal("Failed to retrieve features", err)
	}
	return features, nil
}

// Delete removes a feature and pulls its ID out of every product that
// listed it.
func (s *featureService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Feature ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translateCatalogError(err, "Feature", id)
	}

	if err := s.products.DetachFeatureFromAll(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to detach feature from products", "feature_id", id, "error", err)
		return apperrors.Internal("Failed to detach feature from products", err)
	}

	s.cfg.Log.Info("Feature deleted", "id", id)
	return nil
}
