package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "autobooking/internal/bookings/errors"
	"autobooking/internal/bookings/events"
	"autobooking/internal/bookings/repository"
	"autobooking/internal/bookings/validator"
	catalogerrors "autobooking/internal/catalog/errors"
	userserrors "autobooking/internal/users/errors"
	"autobooking/pkg/config"
	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// UserDirectory is the slice of the users area the booking service needs.
type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*model.User, error)
}

// ProductCatalog is the slice of the catalog area the booking service needs.
type ProductCatalog interface {
	FindByID(ctx context.Context, id string) (*model.Product, error)
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	Cancel(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByUser(ctx context.Context, userID string) ([]*model.Booking, error)
	GetByProduct(ctx context.Context, productID string) ([]*model.Booking, error)
	IsAvailable(ctx context.Context, productID string, start, end model.Date) (bool, error)
	UnavailableDates(ctx context.Context, productID string) ([]model.DateRange, error)
}

// allowedTransitions is the booking state machine: pending and confirmed may
// move forward or be cancelled; cancelled and completed are terminal.
var allowedTransitions = map[string]map[string]bool{
	model.BookingPending: {
		model.BookingConfirmed: true,
		model.BookingCancelled: true,
	},
	model.BookingConfirmed: {
		model.BookingCompleted: true,
		model.BookingCancelled: true,
	},
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	users     UserDirectory
	products  ProductCatalog
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	users UserDirectory,
	products ProductCatalog,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		users:     users,
		products:  products,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed", "error", err)
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if req.StartDate.After(req.EndDate) {
		return nil, apperrors.Validation("Start date must be on or before end date", map[string]any{
			"start_date": req.StartDate.String(),
			"end_date":   req.EndDate.String(),
		})
	}

	if req.StartDate.Before(model.Today()) {
		return nil, apperrors.Validation("Bookings cannot start in the past", map[string]any{
			"start_date": req.StartDate.String(),
		})
	}

	user, err := s.users.FindByID(ctx, req.UserID)
	if err != nil {
		return nil, translateLookupError(err, "User", req.UserID)
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, translateLookupError(err, "Product", req.ProductID)
	}

	if !product.HasPrice() {
		return nil, apperrors.InvalidState(fmt.Sprintf("Product %s has no configured price", product.ID))
	}

	// Serialize check-then-insert per product. The transaction alone cannot
	// stop two sessions from both reading "no overlap" and both inserting.
	lockID, err := s.acquireProductLock(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if releaseErr := s.releaseProductLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	days := req.StartDate.DaysUntil(req.EndDate) + 1
	booking := &model.Booking{
		UserID:          user.ID,
		ProductID:       product.ID,
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		TotalPriceCents: product.PriceCents * int64(days),
		Status:          model.BookingPending,
	}

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindActiveOverlapping(sessCtx, product.ID, req.StartDate, req.EndDate)
		if err != nil {
			return apperrors.Internal("Failed to check existing bookings", err)
		}
		if len(existing) > 0 {
			conflicting := existing[0]
			return apperrors.Conflict(fmt.Sprintf(
				"Product is already booked from %s to %s",
				conflicting.StartDate, conflicting.EndDate,
			))
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"user_id", req.UserID,
			"product_id", req.ProductID,
			"error", err,
		)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"user_id", booking.UserID,
		"product_id", booking.ProductID,
		"start_date", booking.StartDate.String(),
		"end_date", booking.EndDate.String(),
		"total_price_cents", booking.TotalPriceCents,
	)
	s.publisher.Publish(ctx, events.TypeBookingCreated, eventFor(booking))

	return booking, nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	switch booking.Status {
	case model.BookingCancelled:
		return apperrors.Conflict("Booking is already cancelled")
	case model.BookingCompleted:
		return apperrors.Conflict("Cannot cancel a completed booking")
	}

	if err := s.repo.UpdateStatus(ctx, id, booking.Status, model.BookingCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return translateStatusUpdateError(err, id)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id)
	booking.Status = model.BookingCancelled
	s.publisher.Publish(ctx, events.TypeBookingCancelled, eventFor(booking))

	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, id string, status string) (*model.Booking, error) {
	if err := s.validator.ValidateStatus(status); err != nil {
		return nil, apperrors.Validation("Invalid booking status", map[string]any{"error": err.Error()})
	}

	booking, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !allowedTransitions[booking.Status][status] {
		return nil, apperrors.Conflict(fmt.Sprintf(
			"Cannot transition booking from %s to %s", booking.Status, status,
		))
	}

	if err := s.repo.UpdateStatus(ctx, id, booking.Status, status); err != nil {
		s.cfg.Log.Error("Failed to update booking status", "id", id, "status", status, "error", err)
		return nil, translateStatusUpdateError(err, id)
	}

	s.cfg.Log.Info("Booking status updated", "id", id, "from", booking.Status, "to", status)
	booking.Status = status
	s.publisher.Publish(ctx, events.TypeBookingStatusChanged, eventFor(booking))

	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

func (s *bookingService) GetByUser(ctx context.Context, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

func (s *bookingService) GetByProduct(ctx context.Context, productID string) ([]*model.Booking, error) {
	if productID == "" {
		return nil, apperrors.InvalidInput("Product ID cannot be empty")
	}

	bookings, err := s.repo.FindByProduct(ctx, productID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings by product", "product_id", productID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) acquireProductLock(ctx context.Context, productID string) (string, error) {
	lockID := fmt.Sprintf("booking_lock_%s", productID)

	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(s.cfg.BookingLockTTL),
	}

	_, err := s.lockRepo.Create(ctx, lock)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This product is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}

	return lockID, nil
}

func (s *bookingService) releaseProductLock(ctx context.Context, lockID string) error {
	return s.lockRepo.Delete(ctx, lockID)
}

func translateStatusUpdateError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrStatusChanged) {
		return apperrors.Conflict("Booking was updated by another request. Please retry.")
	}
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	return apperrors.Internal("Failed to update booking status", err)
}

func translateLookupError(err error, resource, id string) error {
	if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, catalogerrors.ErrNotFound) {
		return apperrors.NotFoundWithID(resource, id)
	}
	if errors.Is(err, userserrors.ErrInvalidID) || errors.Is(err, catalogerrors.ErrInvalidID) {
		return apperrors.InvalidInput(fmt.Sprintf("Invalid %s ID format", resource))
	}
	if apperrors.IsAppError(err) {
		return err
	}
	return apperrors.Internal(fmt.Sprintf("Failed to look up %s", resource), err)
}

func eventFor(b *model.Booking) events.BookingEvent {
	return events.BookingEvent{
		BookingID:       b.ID,
		UserID:          b.UserID,
		ProductID:       b.ProductID,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		Status:          b.Status,
		TotalPriceCents: b.TotalPriceCents,
	}
}
