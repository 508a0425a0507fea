package service

import (
	"context"

	apperrors "autobooking/pkg/errors"
	"autobooking/pkg/model"
)

// Overlaps reports whether two inclusive date ranges share at least one
// calendar day. Boundaries collide: a booking ending on day D and one
// starting on day D overlap. There is no same-day turnover.
func Overlaps(start1, end1, start2, end2 model.Date) bool {
	return !start1.After(end2) && !end1.Before(start2)
}

// IsAvailable reports whether the product has no active booking overlapping
// the inclusive [start, end] range. Pending, confirmed and completed
// bookings all block; cancelled ones never do.
func (s *bookingService) IsAvailable(ctx context.Context, productID string, start, end model.Date) (bool, error) {
	existing, err := s.repo.FindActiveOverlapping(ctx, productID, start, end)
	if err != nil {
		return false, apperrors.Internal("Failed to check product availability", err)
	}
	return len(existing) == 0, nil
}

// UnavailableDates returns one inclusive date range per active booking of
// the product, ordered by start date.
func (s *bookingService) UnavailableDates(ctx context.Context, productID string) ([]model.DateRange, error) {
	bookings, err := s.repo.FindActiveByProduct(ctx, productID)
	if err != nil {
		return nil, apperrors.Internal("Failed to retrieve active bookings", err)
	}

	ranges := make([]model.DateRange, 0, len(bookings))
	for _, b := range bookings {
		ranges = append(ranges, model.DateRange{
			StartDate: b.StartDate,
			EndDate:   b.EndDate,
		})
	}
	return ranges, nil
}
