package service

import (
	"context"
	"testing"
	"time"

	catalogerrors "autobooking/internal/catalog/errors"
	"autobooking/internal/catalog/validator"
	"autobooking/pkg/config"
	mongotx "autobooking/pkg/db/mongo"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/logger"
	"autobooking/pkg/model"
)

const (
	testProductID  = "64f1b2a3c4d5e6f708192b01"
	testCategoryID = "64f1b2a3c4d5e6f708192b02"
	testFeatureID  = "64f1b2a3c4d5e6f708192b03"
)

// Mock repositories for testing
type mockProductRepository struct {
	createFunc               func(ctx context.Context, product *model.Product) error
	findByIDFunc             func(ctx context.Context, id string) (*model.Product, error)
	findAllFunc              func(ctx context.Context) ([]*model.Product, error)
	findByCategoryFunc       func(ctx context.Context, categoryID string) ([]*model.Product, error)
	findByFeatureFunc        func(ctx context.Context, featureID string) ([]*model.Product, error)
	deleteFunc               func(ctx context.Context, id string) error
	addFeatureFunc           func(ctx context.Context, productID, featureID string) error
	removeFeatureFunc        func(ctx context.Context, productID, featureID string) error
	detachFeatureFromAllFunc func(ctx context.Context, featureID string) error
	clearCategoryFunc        func(ctx context.Context, categoryID string) error
	countFunc                func(ctx context.Context) (int64, error)
}

func (m *mockProductRepository) Create(ctx context.Context, product *model.Product) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, product)
	}
	product.ID = testProductID
	return nil
}

func (m *mockProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Product{ID: id, Name: "Cabin", PriceCents: 10000}, nil
}

func (m *mockProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Product{}, nil
}

func (m *mockProductRepository) FindByCategory(ctx context.Context, categoryID string) ([]*model.Product, error) {
	if m.findByCategoryFunc != nil {
		return m.findByCategoryFunc(ctx, categoryID)
	}
	return []*model.Product{}, nil
}

func (m *mockProductRepository) FindByFeature(ctx context.Context, featureID string) ([]*model.Product, error) {
	if m.findByFeatureFunc != nil {
		return m.findByFeatureFunc(ctx, featureID)
	}
	return []*model.Product{}, nil
}

func (m *mockProductRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockProductRepository) AddFeature(ctx context.Context, productID, featureID string) error {
	if m.addFeatureFunc != nil {
		return m.addFeatureFunc(ctx, productID, featureID)
	}
	return nil
}

func (m *mockProductRepository) RemoveFeature(ctx context.Context, productID, featureID string) error {
	if m.removeFeatureFunc != nil {
		return m.removeFeatureFunc(ctx, productID, featureID)
	}
	return nil
}

func (m *mockProductRepository) DetachFeatureFromAll(ctx context.Context, featureID string) error {
	if m.detachFeatureFromAllFunc != nil {
		return m.detachFeatureFromAllFunc(ctx, featureID)
	}
	return nil
}

func (m *mockProductRepository) ClearCategory(ctx context.Context, categoryID string) error {
	if m.clearCategoryFunc != nil {
		return m.clearCategoryFunc(ctx, categoryID)
	}
	return nil
}

func (m *mockProductRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockProductRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockCategoryRepository struct {
	createFunc     func(ctx context.Context, category *model.Category) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Category, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Category, error)
	findAllFunc    func(ctx context.Context) ([]*model.Category, error)
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, category)
	}
	return nil
}

func (m *mockCategoryRepository) FindByID(ctx context.Context, id string) (*model.Category, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Category{ID: id, Name: "Cabins"}, nil
}

func (m *mockCategoryRepository) FindByName(ctx context.Context, name string) (*model.Category, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockCategoryRepository) FindAll(ctx context.Context) ([]*model.Category, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Category{}, nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockFeatureRepository struct {
	createFunc     func(ctx context.Context, feature *model.Feature) error
	findByIDFunc   func(ctx context.Context, id string) (*model.Feature, error)
	findByNameFunc func(ctx context.Context, name string) (*model.Feature, error)
	findAllFunc    func(ctx context.Context) ([]*model.Feature, error)
	deleteFunc     func(ctx context.Context, id string) error
}

func (m *mockFeatureRepository) Create(ctx context.Context, feature *model.Feature) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, feature)
	}
	return nil
}

func (m *mockFeatureRepository) FindByID(ctx context.Context, id string) (*model.Feature, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Feature{ID: id, Name: "WiFi"}, nil
}

func (m *mockFeatureRepository) FindByName(ctx context.Context, name string) (*model.Feature, error) {
	if m.findByNameFunc != nil {
		return m.findByNameFunc(ctx, name)
	}
	return nil, catalogerrors.ErrNotFound
}

func (m *mockFeatureRepository) FindAll(ctx context.Context) ([]*model.Feature, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx)
	}
	return []*model.Feature{}, nil
}

func (m *mockFeatureRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockAvailabilityChecker struct {
	isAvailableFunc func(ctx context.Context, productID string, start, end model.Date) (bool, error)
}

func (m *mockAvailabilityChecker) IsAvailable(ctx context.Context, productID string, start, end model.Date) (bool, error) {
	if m.isAvailableFunc != nil {
		return m.isAvailableFunc(ctx, productID, start, end)
	}
	return true, nil
}

type mockBookingCounter struct {
	countActiveByProductFunc func(ctx context.Context, productID string) (int64, error)
}

func (m *mockBookingCounter) CountActiveByProduct(ctx context.Context, productID string) (int64, error) {
	if m.countActiveByProductFunc != nil {
		return m.countActiveByProductFunc(ctx, productID)
	}
	return 0, nil
}

func newTestConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

func newTestProductService(
	repo *mockProductRepository,
	categories *mockCategoryRepository,
	features *mockFeatureRepository,
	availability *mockAvailabilityChecker,
	bookings *mockBookingCounter,
) *productService {
	cfg := newTestConfig()
	return &productService{
		repo:         repo,
		categories:   categories,
		features:     features,
		availability: availability,
		bookings:     bookings,
		validator:    validator.NewCatalogValidator(cfg.Log),
		cfg:          cfg,
	}
}

func sampleProducts() []*model.Product {
	return []*model.Product{
		{ID: "64f1b2a3c4d5e6f708192c01", Name: "Cabin A", PriceCents: 10000},
		{ID: "64f1b2a3c4d5e6f708192c02", Name: "Cabin B", PriceCents: 20000},
		{ID: "64f1b2a3c4d5e6f708192c03", Name: "Cabin C", PriceCents: 30000},
	}
}

func TestSearch_NoFilters(t *testing.T) {
	products := sampleProducts()
	service := newTestProductService(
		&mockProductRepository{
			findAllFunc: func(ctx context.Context) ([]*model.Product, error) {
				return products, nil
			},
			countFunc: func(ctx context.Context) (int64, error) {
				return int64(len(products)), nil
			},
		},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	result, err := service.Search(context.Background(), "", "", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("expected 3 results, got %d", result.Count)
	}
	if result.TotalProducts != 3 {
		t.Errorf("expected total 3, got %d", result.TotalProducts)
	}
}

func TestSearch_FiltersByAvailability(t *testing.T) {
	products := sampleProducts()
	service := newTestProductService(
		&mockProductRepository{
			findAllFunc: func(ctx context.Context) ([]*model.Product, error) {
				return products, nil
			},
			countFunc: func(ctx context.Context) (int64, error) {
				return int64(len(products)), nil
			},
		},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{
			isAvailableFunc: func(ctx context.Context, productID string, start, end model.Date) (bool, error) {
				// Cabin B is booked for the requested range.
				return productID != products[1].ID, nil
			},
		},
		&mockBookingCounter{},
	)

	result, err := service.Search(context.Background(), "2030-07-01", "2030-07-05", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 2 {
		t.Fatalf("expected 2 available products, got %d", result.Count)
	}

	// The base listing order must survive the availability filter.
	if result.Results[0].ID != products[0].ID || result.Results[1].ID != products[2].ID {
		t.Errorf("result order not preserved: got %s, %s", result.Results[0].ID, result.Results[1].ID)
	}
	if result.TotalProducts != 3 {
		t.Errorf("expected total 3 regardless of filtering, got %d", result.TotalProducts)
	}
}

func TestSearch_CategoryWithName(t *testing.T) {
	products := sampleProducts()[:1]
	service := newTestProductService(
		&mockProductRepository{
			findByCategoryFunc: func(ctx context.Context, categoryID string) ([]*model.Product, error) {
				return products, nil
			},
			countFunc: func(ctx context.Context) (int64, error) {
				return 3, nil
			},
		},
		&mockCategoryRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
				return &model.Category{ID: id, Name: "Lakeside"}, nil
			},
		},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	result, err := service.Search(context.Background(), "", "", testCategoryID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Count != 1 {
		t.Errorf("expected 1 result, got %d", result.Count)
	}
	if result.CategoryName != "Lakeside" {
		t.Errorf("expected category name Lakeside, got %q", result.CategoryName)
	}
}

func TestSearch_MissingCategoryDoesNotFail(t *testing.T) {
	service := newTestProductService(
		&mockProductRepository{
			findByCategoryFunc: func(ctx context.Context, categoryID string) ([]*model.Product, error) {
				return []*model.Product{}, nil
			},
		},
		&mockCategoryRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Category, error) {
				return nil, catalogerrors.ErrNotFound
			},
		},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	result, err := service.Search(context.Background(), "", "", testCategoryID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.CategoryName != "" {
		t.Errorf("expected empty category name, got %q", result.CategoryName)
	}
}

func TestSearch_DatePairRules(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{"start without end", "2030-07-01", ""},
		{"end without start", "", "2030-07-05"},
		{"malformed start", "July 1st", "2030-07-05"},
		{"malformed end", "2030-07-01", "2030/07/05"},
		{"start after end", "2030-07-10", "2030-07-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := newTestProductService(
				&mockProductRepository{},
				&mockCategoryRepository{},
				&mockFeatureRepository{},
				&mockAvailabilityChecker{},
				&mockBookingCounter{},
			)

			_, err := service.Search(context.Background(), tt.start, tt.end, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if code := apperrors.AsAppError(err).Code; code != apperrors.CodeInvalidInput {
				t.Errorf("expected code %q, got %q", apperrors.CodeInvalidInput, code)
			}
		})
	}
}

func TestSearch_SameDayRange(t *testing.T) {
	service := newTestProductService(
		&mockProductRepository{
			findAllFunc: func(ctx context.Context) ([]*model.Product, error) {
				return sampleProducts(), nil
			},
			countFunc: func(ctx context.Context) (int64, error) {
				return 3, nil
			},
		},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	result, err := service.Search(context.Background(), "2030-07-01", "2030-07-01", "")
	if err != nil {
		t.Fatalf("single-day search must be accepted, got: %v", err)
	}
	if result.Count != 3 {
		t.Errorf("expected 3 results, got %d", result.Count)
	}
}

func TestDelete_RestrictedWithActiveBookings(t *testing.T) {
	deleted := false
	service := newTestProductService(
		&mockProductRepository{
			deleteFunc: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{
			countActiveByProductFunc: func(ctx context.Context, productID string) (int64, error) {
				return 2, nil
			},
		},
	)

	err := service.Delete(context.Background(), testProductID)
	if err == nil {
		t.Fatal("expected conflict for product with active bookings")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("expected code %q, got %q", apperrors.CodeConflict, code)
	}
	if deleted {
		t.Error("product must not be deleted while active bookings exist")
	}
}

func TestDelete_AllowedWithoutActiveBookings(t *testing.T) {
	deleted := false
	service := newTestProductService(
		&mockProductRepository{
			deleteFunc: func(ctx context.Context, id string) error {
				deleted = true
				return nil
			},
		},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	if err := service.Delete(context.Background(), testProductID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !deleted {
		t.Error("expected product to be deleted")
	}
}

func TestCreate_NormalizesAndValidates(t *testing.T) {
	var created *model.Product
	service := newTestProductService(
		&mockProductRepository{
			createFunc: func(ctx context.Context, product *model.Product) error {
				created = product
				return nil
			},
		},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	product := &model.Product{
		Name:        "  Lakeside   Cabin  ",
		Description: "Two   bedrooms",
		PriceCents:  25000,
	}
	if err := service.Create(context.Background(), product); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Name != "Lakeside Cabin" {
		t.Errorf("expected normalized name, got %q", created.Name)
	}
	if created.Description != "Two bedrooms" {
		t.Errorf("expected normalized description, got %q", created.Description)
	}
}

func TestCreate_RejectsNegativePrice(t *testing.T) {
	service := newTestProductService(
		&mockProductRepository{},
		&mockCategoryRepository{},
		&mockFeatureRepository{},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	err := service.Create(context.Background(), &model.Product{
		Name:        "Cabin",
		Description: "A small cabin",
		PriceCents:  -100,
	})
	if err == nil {
		t.Fatal("expected validation error for negative price")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
		t.Errorf("expected code %q, got %q", apperrors.CodeValidation, code)
	}
}

func TestAddFeature_UnknownFeature(t *testing.T) {
	service := newTestProductService(
		&mockProductRepository{},
		&mockCategoryRepository{},
		&mockFeatureRepository{
			findByIDFunc: func(ctx context.Context, id string) (*model.Feature, error) {
				return nil, catalogerrors.ErrNotFound
			},
		},
		&mockAvailabilityChecker{},
		&mockBookingCounter{},
	)

	_, err := service.AddFeature(context.Background(), testProductID, testFeatureID)
	if err == nil {
		t.Fatal("expected error for unknown feature")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
		t.Errorf("expected code %q, got %q", apperrors.CodeNotFound, code)
	}
}
