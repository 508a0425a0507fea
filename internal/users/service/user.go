package service

import (
	"context"
	"errors"
	"time"

	userserrors "autobooking/internal/users/errors"
	"autobooking/internal/users/repository"
	"autobooking/internal/users/validator"
	"autobooking/pkg/auth"
	"autobooking/pkg/config"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/model"
	"autobooking/pkg/sanitizer"
)

type UserService interface {
	Register(ctx context.Context, req *model.RegistrationRequest) (*model.User, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	repo      repository.UserRepository
	favorites repository.FavoriteRepository
	issuer    *auth.TokenIssuer
	validator *validator.UserValidator
	cfg       *config.Config
}

func NewUserService(
	repo repository.UserRepository,
	favorites repository.FavoriteRepository,
	issuer *auth.TokenIssuer,
	userValidator *validator.UserValidator,
	cfg *config.Config,
) UserService {
	return &userService{
		repo:      repo,
		favorites: favorites,
		issuer:    issuer,
		validator: userValidator,
		cfg:       cfg,
	}
}

// Register creates an account. The admin flag is granted only when the
// normalized email matches the deployment's configured admin email.
func (s *userService) Register(ctx context.Context, req *model.RegistrationRequest) (*model.User, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)
	req.FirstName = sanitizer.NormalizeText(req.FirstName)
	req.LastName = sanitizer.NormalizeText(req.LastName)

	if err := s.validator.ValidateRegistration(req); err != nil {
		s.cfg.Log.Warn("Registration validation failed", "email", req.Email, "error", err)
		return nil, apperrors.Validation("Registration validation failed", map[string]any{"error": err.Error()})
	}

	if _, err := s.repo.FindByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("A user with this email already exists")
	} else if !errors.Is(err, userserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to check email uniqueness", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	hash, err := auth.HashPassword(req.Password, s.cfg.BcryptCost)
	if err != nil {
		s.cfg.Log.Error("Failed to hash password", "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	user := &model.User{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		PasswordHash: hash,
		IsAdmin:      s.cfg.AdminEmail != "" && req.Email == s.cfg.AdminEmail,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, userserrors.ErrDuplicateEmail) {
			return nil, apperrors.Conflict("A user with this email already exists")
		}
		s.cfg.Log.Error("Failed to create user", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to register user", err)
	}

	s.cfg.Log.Info("User registered",
		"id", user.ID,
		"email", user.Email,
		"is_admin", user.IsAdmin,
	)
	return user, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password produce the same error so the endpoint does not leak which
// accounts exist.
func (s *userService) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	req.Email = sanitizer.NormalizeEmail(req.Email)

	if err := s.validator.ValidateLogin(req); err != nil {
		return nil, apperrors.Validation("Login validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("Invalid email or password")
		}
		s.cfg.Log.Error("Failed to look up user for login", "email", req.Email, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	if !auth.VerifyPassword(user.PasswordHash, req.Password) {
		return nil, apperrors.Unauthorized("Invalid email or password")
	}

	token, err := s.issuer.Issue(user.ID, user.Email, user.IsAdmin)
	if err != nil {
		s.cfg.Log.Error("Failed to issue token", "user_id", user.ID, "error", err)
		return nil, apperrors.Internal("Failed to log in", err)
	}

	s.cfg.Log.Info("User logged in", "id", user.ID, "email", user.Email)
	return &model.LoginResponse{Token: token, User: user}, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translateUserError(err, id)
	}
	return user, nil
}

func (s *userService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.User, int64, error) {
	users, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve users", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count users", "error", err)
		return nil, 0, apperrors.Internal("Failed to count users", err)
	}

	return users, total, nil
}

// Delete removes a user and their favorites. Bookings are kept for history.
func (s *userService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return translateUserError(err, id)
	}

	if err := s.favorites.DeleteByUser(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete favorites for user", "user_id", id, "error", err)
		return apperrors.Internal("Failed to delete user favorites", err)
	}

	s.cfg.Log.Info("User deleted", "id", id)
	return nil
}

func translateUserError(err error, id string) error {
	if errors.Is(err, userserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("User", id)
	}
	if errors.Is(err, userserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid User ID format")
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal("Failed to access User", err)
}
