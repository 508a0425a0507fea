package service

import (
	"context"
	"errors"
	"fmt"

	catalogerrors "autobooking/internal/catalog/errors"
	"autobooking/internal/catalog/repository"
	"autobooking/internal/catalog/validator"
	"autobooking/pkg/config"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/model"
	"autobooking/pkg/sanitizer"
)

// AvailabilityChecker is the slice of the bookings area the catalog needs
// for date-range product search.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, productID string, start, end model.Date) (bool, error)
}

// BookingCounter guards product deletion: a product with active bookings
// cannot be removed.
type BookingCounter interface {
	CountActiveByProduct(ctx context.Context, productID string) (int64, error)
}

// SearchResult is the payload of a catalog search: the matching products
// plus context for the caller. CategoryName is best-effort enrichment.
type SearchResult struct {
	Results       []*model.Product `json:"results"`
	Count         int              `json:"count"`
	TotalProducts int64            `json:"total_products"`
	CategoryName  string           `json:"category_name,omitempty"`
}

type ProductService interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetAll(ctx context.Context) ([]*model.Product, error)
	GetByCategory(ctx context.Context, categoryID string) ([]*model.Product, error)
	GetByFeature(ctx context.Context, featureID string) ([]*model.Product, error)
	Delete(ctx context.Context, id string) error
	AddFeature(ctx context.Context, productID, featureID string) (*model.Product, error)
	RemoveFeature(ctx context.Context, productID, featureID string) (*model.Product, error)
	Search(ctx context.Context, startDateStr, endDateStr, categoryID string) (*SearchResult, error)
}

type productService struct {
	repo         repository.ProductRepository
	categories   repository.CategoryRepository
	features     repository.FeatureRepository
	availability AvailabilityChecker
	bookings     BookingCounter
	validator    *validator.CatalogValidator
	cfg          *config.Config
}

func NewProductService(
	repo repository.ProductRepository,
	categories repository.CategoryRepository,
	features repository.FeatureRepository,
	availability AvailabilityChecker,
	bookings BookingCounter,
	catalogValidator *validator.CatalogValidator,
	cfg *config.Config,
) ProductService {
	return &productService{
		repo:         repo,
		categories:   categories,
		features:     features,
		availability: availability,
		bookings:     bookings,
		validator:    catalogValidator,
		cfg:          cfg,
	}
}

func (s *productService) Create(ctx context.Context, product *model.Product) error {
	product.Name = sanitizer.NormalizeText(product.Name)
	product.Description = sanitizer.NormalizeText(product.Description)

	if err := s.validator.ValidateProduct(product); err != nil {
		s.cfg.Log.Warn("Product validation failed", "name", product.Name, "error", err)
		return apperrors.Validation("Product validation failed", map[string]any{"error": err.Error()})
	}

	if product.CategoryID != "" {
		if _, err := s.categories.FindByID(ctx, product.CategoryID); err != nil {
			return translateCatalogError(err, "Category", product.CategoryID)
		}
	}

	if err := s.repo.Create(ctx, product); err != nil {
		s.cfg.Log.Error("Failed to create product", "name", product.Name, "error", err)
		return apperrors.Internal("Failed to create product", err)
	}

	s.cfg.Log.Info("Product created successfully",
		"id", product.ID,
		"name", product.Name,
		"price_cents", product.PriceCents,
	)
	return nil
}

func (s *productService) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Product ID cannot be empty")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateCatalogError(err, "Product", id)
	}
	return product, nil
}

func (s *productService) GetAll(ctx context.Context) ([]*model.Product, error) {
	products, err := s.repo.FindAll(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to list products", "error", err)
		return nil, apperrors.Internal("Failed to retrieve products", err)
	}
	return products, nil
}

func (s *productService) GetByCategory(ctx context.Context, categoryID string) ([]*model.Product, error) {
	if categoryID == "" {
		return nil, apperrors.InvalidInput("Category ID cannot be empty")
	}

	products, err := s.repo.FindByCategory(ctx, categoryID)
	if err != nil {
		s.cfg.Log.Error("Failed to list products by category", "category_id", categoryID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve products", err)
	}
	return products, nil
}

func (s *productService) GetByFeature(ctx context.Context, featureID string) ([]*model.Product, error) {
	if featureID == "" {
		return nil, apperrors.InvalidInput("Feature ID cannot be empty")
	}

	if _, err := s.features.FindByID(ctx, featureID); err != nil {
		return nil, translateCatalogError(err, "Feature", featureID)
	}

	products, err := s.repo.FindByFeature(ctx, featureID)
	if err != nil {
		s.cfg.Log.Error("Failed to list products by feature", "feature_id", featureID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve products", err)
	}
	return products, nil
}

// Delete removes a product unless active bookings still reference it.
func (s *productService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Product ID cannot be empty")
	}

	active, err := s.bookings.CountActiveByProduct(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings before product delete", "id", id, "error", err)
		return apperrors.Internal("Failed to check product bookings", err)
	}
	if active > 0 {
		return apperrors.Conflict(fmt.Sprintf(
			"Product has %d active booking(s) and cannot be deleted", active,
		))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translateCatalogError(err, "Product", id)
	}

	s.cfg.Log.Info("Product deleted", "id", id)
	return nil
}

func (s *productService) AddFeature(ctx context.Context, productID, featureID string) (*model.Product, error) {
	if _, err := s.features.FindByID(ctx, featureID); err != nil {
		return nil, translateCatalogError(err, "Feature", featureID)
	}

	if err := s.repo.AddFeature(ctx, productID, featureID); err != nil {
		return nil, translateCatalogError(err, "Product", productID)
	}

	return s.GetByID(ctx, productID)
}

func (s *productService) RemoveFeature(ctx context.Context, productID, featureID string) (*model.Product, error) {
	if _, err := s.features.FindByID(ctx, featureID); err != nil {
		return nil, translateCatalogError(err, "Feature", featureID)
	}

	if err := s.repo.RemoveFeature(ctx, productID, featureID); err != nil {
		return nil, translateCatalogError(err, "Product", productID)
	}

	return s.GetByID(ctx, productID)
}

// Search filters products by optional category and optional availability
// window. Both dates must be supplied together; the result preserves the
// base set's order.
func (s *productService) Search(ctx context.Context, startDateStr, endDateStr, categoryID string) (*SearchResult, error) {
	var startDate, endDate model.Date
	datesGiven := false

	switch {
	case startDateStr != "" && endDateStr != "":
		var err error
		startDate, err = model.ParseDate(startDateStr)
		if err != nil {
			return nil, apperrors.InvalidInput("Invalid date format. Use YYYY-MM-DD")
		}
		endDate, err = model.ParseDate(endDateStr)
		if err != nil {
			return nil, apperrors.InvalidInput("Invalid date format. Use YYYY-MM-DD")
		}
		if startDate.After(endDate) {
			return nil, apperrors.InvalidInput("Start date must be on or before end date")
		}
		datesGiven = true
	case startDateStr != "" || endDateStr != "":
		return nil, apperrors.InvalidInput("Both start and end dates are required for date search")
	}

	var (
		products []*model.Product
		err      error
	)
	if categoryID != "" {
		products, err = s.repo.FindByCategory(ctx, categoryID)
	} else {
		products, err = s.repo.FindAll(ctx)
	}
	if err != nil {
		s.cfg.Log.Error("Failed to search products", "category_id", categoryID, "error", err)
		return nil, apperrors.Internal("Failed to search products", err)
	}

	results := products
	if datesGiven {
		results = make([]*model.Product, 0, len(products))
		for _, product := range products {
			available, err := s.availability.IsAvailable(ctx, product.ID, startDate, endDate)
			if err != nil {
				return nil, err
			}
			if available {
				results = append(results, product)
			}
		}
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count products", "error", err)
		return nil, apperrors.Internal("Failed to count products", err)
	}

	result := &SearchResult{
		Results:       results,
		Count:         len(results),
		TotalProducts: total,
	}

	// Category name enrichment is optional: a missing category must not
	// fail the search.
	if categoryID != "" {
		if category, err := s.categories.FindByID(ctx, categoryID); err == nil {
			result.CategoryName = category.Name
		}
	}

	s.cfg.Log.Debug("Product search completed",
		"category_id", categoryID,
		"dates_given", datesGiven,
		"count", result.Count,
	)
	return result, nil
}

func translateCatalogError(err error, resource, id string) error {
	if errors.Is(err, catalogerrors.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, catalogerrors.ErrInvalidID) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	}
	if errors.Is(err, catalogerrors.ErrDuplicateName) {
		return apperrors.Conflict(fmt.Sprintf("A %s with this name already exists", resource))
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to access %s", resource), err)
}
