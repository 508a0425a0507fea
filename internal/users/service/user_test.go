package service

import (
	"context"
	"testing"
	"time"

	userserrors "autobooking/internal/users/errors"
	"autobooking/internal/users/repository"
	"autobooking/internal/users/validator"
	"autobooking/pkg/auth"
	"autobooking/pkg/config"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/logger"
	"autobooking/pkg/model"

	"golang.org/x/crypto/bcrypt"
)

const (
	testUserID    = "64f1b2a3c4d5e6f708192d01"
	testProductID = "64f1b2a3c4d5e6f708192d02"
)

// Mock repositories for testing
type mockUserRepository struct {
	createFunc      func(ctx context.Context, user *model.User) error
	findByIDFunc    func(ctx context.Context, id string) (*model.User, error)
	findByEmailFunc func(ctx context.Context, email string) (*model.User, error)
	findAllFunc     func(ctx context.Context, limit int, offset int64) ([]*model.User, error)
	countFunc       func(ctx context.Context) (int64, error)
	deleteFunc      func(ctx context.Context, id string) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	user.ID = testUserID
	return nil
}

func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Email: "user@example.com"}, nil
}

func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.findByEmailFunc != nil {
		return m.findByEmailFunc(ctx, email)
	}
	return nil, userserrors.ErrNotFound
}

func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.User{}, nil
}

func (m *mockUserRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockFavoriteRepository struct {
	createFunc       func(ctx context.Context, favorite *model.Favorite) error
	deleteFunc       func(ctx context.Context, userID, productID string) error
	findByUserFunc   func(ctx context.Context, userID string) ([]*model.Favorite, error)
	existsFunc       func(ctx context.Context, userID, productID string) (bool, error)
	deleteByUserFunc func(ctx context.Context, userID string) error
}

func (m *mockFavoriteRepository) Create(ctx context.Context, favorite *model.Favorite) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, favorite)
	}
	return nil
}

func (m *mockFavoriteRepository) Delete(ctx context.Context, userID, productID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, userID, productID)
	}
	return nil
}

func (m *mockFavoriteRepository) FindByUser(ctx context.Context, userID string) ([]*model.Favorite, error) {
	if m.findByUserFunc != nil {
		return m.findByUserFunc(ctx, userID)
	}
	return []*model.Favorite{}, nil
}

func (m *mockFavoriteRepository) Exists(ctx context.Context, userID, productID string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, userID, productID)
	}
	return false, nil
}

func (m *mockFavoriteRepository) DeleteByUser(ctx context.Context, userID string) error {
	if m.deleteByUserFunc != nil {
		return m.deleteByUserFunc(ctx, userID)
	}
	return nil
}

type mockProductFinder struct {
	getByIDFunc func(ctx context.Context, id string) (*model.Product, error)
}

func (m *mockProductFinder) GetByID(ctx context.Context, id string) (*model.Product, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return &model.Product{ID: id, Name: "Cabin", PriceCents: 10000}, nil
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
		BcryptCost:   bcrypt.MinCost,
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
	}
}

func newTestUserService(repo *mockUserRepository, favorites *mockFavoriteRepository, adminEmail string) *userService {
	cfg := newTestConfig()
	cfg.AdminEmail = adminEmail
	return &userService{
		repo:      repo,
		favorites: favorites,
		issuer:    auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL),
		validator: validator.NewUserValidator(cfg.Log),
		cfg:       cfg,
	}
}

func registration() *model.RegistrationRequest {
	return &model.RegistrationRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada@Example.com",
		Password:  "correct-horse",
	}
}

func TestRegister_Success(t *testing.T) {
	service := newTestUserService(&mockUserRepository{}, &mockFavoriteRepository{}, "")

	user, err := service.Register(context.Background(), registration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if user.Email != "ada@example.com" {
		t.Errorf("expected normalized email, got %q", user.Email)
	}
	if user.IsAdmin {
		t.Error("expected regular user without admin email configured")
	}
	if user.PasswordHash == "" || user.PasswordHash == "correct-horse" {
		t.Error("expected a hashed password, not empty or plaintext")
	}
}

func TestRegister_AdminBootstrap(t *testing.T) {
	service := newTestUserService(&mockUserRepository{}, &mockFavoriteRepository{}, "ada@example.com")

	user, err := service.Register(context.Background(), registration())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !user.IsAdmin {
		t.Error("expected admin flag for the configured admin email")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	service := newTestUserService(
		&mockUserRepository{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return &model.User{ID: testUserID, Email: email}, nil
			},
		},
		&mockFavoriteRepository{},
		"",
	)

	_, err := service.Register(context.Background(), registration())
	if err == nil {
		t.Fatal("expected conflict for duplicate email")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("expected code %q, got %q", apperrors.CodeConflict, code)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	service := newTestUserService(&mockUserRepository{}, &mockFavoriteRepository{}, "")

	req := registration()
	req.Password = "short"

	_, err := service.Register(context.Background(), req)
	if err == nil {
		t.Fatal("expected validation error for short password")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeValidation {
		t.Errorf("expected code %q, got %q", apperrors.CodeValidation, code)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	service := newTestUserService(
		&mockUserRepository{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return &model.User{ID: testUserID, Email: email, PasswordHash: hash}, nil
			},
		},
		&mockFavoriteRepository{},
		"",
	)

	resp, err := service.Login(context.Background(), &model.LoginRequest{
		Email:    "ada@example.com",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Token == "" {
		t.Error("expected a signed token")
	}
	if resp.User.ID != testUserID {
		t.Errorf("expected user %s, got %s", testUserID, resp.User.ID)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	hash, err := auth.HashPassword("correct-horse", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	service := newTestUserService(
		&mockUserRepository{
			findByEmailFunc: func(ctx context.Context, email string) (*model.User, error) {
				return &model.User{ID: testUserID, Email: email, PasswordHash: hash}, nil
			},
		},
		&mockFavoriteRepository{},
		"",
	)

	_, err = service.Login(context.Background(), &model.LoginRequest{
		Email:    "ada@example.com",
		Password: "wrong",
	})
	if err == nil {
		t.Fatal("expected error for wrong password")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeUnauthorized {
		t.Errorf("expected code %q, got %q", apperrors.CodeUnauthorized, code)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	service := newTestUserService(&mockUserRepository{}, &mockFavoriteRepository{}, "")

	_, err := service.Login(context.Background(), &model.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	if err == nil {
		t.Fatal("expected error for unknown email")
	}
	// Same error as a wrong password, so account existence does not leak.
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeUnauthorized {
		t.Errorf("expected code %q, got %q", apperrors.CodeUnauthorized, code)
	}
}

func TestDelete_RemovesFavorites(t *testing.T) {
	var favoritesDeletedFor string
	service := newTestUserService(
		&mockUserRepository{},
		&mockFavoriteRepository{
			deleteByUserFunc: func(ctx context.Context, userID string) error {
				favoritesDeletedFor = userID
				return nil
			},
		},
		"",
	)

	if err := service.Delete(context.Background(), testUserID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if favoritesDeletedFor != testUserID {
		t.Errorf("expected favorites removed for %s, got %q", testUserID, favoritesDeletedFor)
	}
}

func newTestFavoriteService(repo *mockFavoriteRepository, users *mockUserRepository, products *mockProductFinder) *favoriteService {
	return &favoriteService{
		repo:     repo,
		users:    users,
		products: products,
		cfg:      newTestConfig(),
	}
}

func TestFavoriteAdd_Duplicate(t *testing.T) {
	service := newTestFavoriteService(
		&mockFavoriteRepository{
			createFunc: func(ctx context.Context, favorite *model.Favorite) error {
				return repository.ErrDuplicateFavorite
			},
		},
		&mockUserRepository{},
		&mockProductFinder{},
	)

	err := service.Add(context.Background(), testUserID, testProductID)
	if err == nil {
		t.Fatal("expected conflict for duplicate favorite")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeConflict {
		t.Errorf("expected code %q, got %q", apperrors.CodeConflict, code)
	}
}

func TestFavoriteAdd_UnknownProduct(t *testing.T) {
	service := newTestFavoriteService(
		&mockFavoriteRepository{},
		&mockUserRepository{},
		&mockProductFinder{
			getByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				return nil, apperrors.NotFoundWithID("Product", id)
			},
		},
	)

	err := service.Add(context.Background(), testUserID, testProductID)
	if err == nil {
		t.Fatal("expected error for unknown product")
	}
	if code := apperrors.AsAppError(err).Code; code != apperrors.CodeNotFound {
		t.Errorf("expected code %q, got %q", apperrors.CodeNotFound, code)
	}
}

func TestFavoriteList_SkipsDeletedProducts(t *testing.T) {
	existing := "64f1b2a3c4d5e6f708192d03"
	deleted := "64f1b2a3c4d5e6f708192d04"

	service := newTestFavoriteService(
		&mockFavoriteRepository{
			findByUserFunc: func(ctx context.Context, userID string) ([]*model.Favorite, error) {
				return []*model.Favorite{
					{UserID: userID, ProductID: existing},
					{UserID: userID, ProductID: deleted},
				}, nil
			},
		},
		&mockUserRepository{},
		&mockProductFinder{
			getByIDFunc: func(ctx context.Context, id string) (*model.Product, error) {
				if id == deleted {
					return nil, apperrors.NotFoundWithID("Product", id)
				}
				return &model.Product{ID: id, Name: "Cabin"}, nil
			},
		},
	)

	products, err := service.List(context.Background(), testUserID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
	if products[0].ID != existing {
		t.Errorf("expected product %s, got %s", existing, products[0].ID)
	}
}

func TestFavoriteIsFavorite(t *testing.T) {
	favorited := "64f1b2a3c4d5e6f708192d03"

	service := newTestFavoriteService(
		&mockFavoriteRepository{
			existsFunc: func(ctx context.Context, userID, productID string) (bool, error) {
				return productID == favorited, nil
			},
		},
		&mockUserRepository{},
		&mockProductFinder{},
	)

	got, err := service.IsFavorite(context.Background(), testUserID, favorited)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Error("expected favorited product to be reported as a favorite")
	}

	got, err = service.IsFavorite(context.Background(), testUserID, "64f1b2a3c4d5e6f708192d04")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got {
		t.Error("expected other product not to be reported as a favorite")
	}
}
