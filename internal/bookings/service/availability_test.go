package service

import (
	"context"
	"testing"
	"time"

	"autobooking/pkg/model"
)

func date(day int) model.Date {
	return model.NewDate(2030, time.June, day)
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name     string
		start1   model.Date
		end1     model.Date
		start2   model.Date
		end2     model.Date
		overlaps bool
	}{
		{"identical ranges", date(1), date(5), date(1), date(5), true},
		{"contained range", date(1), date(10), date(3), date(5), true},
		{"partial overlap", date(1), date(5), date(4), date(8), true},
		{"end touches start", date(1), date(5), date(5), date(9), true},
		{"start touches end", date(5), date(9), date(1), date(5), true},
		{"single shared day", date(3), date(3), date(3), date(3), true},
		{"adjacent days do not overlap", date(1), date(5), date(6), date(9), false},
		{"fully before", date(1), date(3), date(10), date(12), false},
		{"fully after", date(10), date(12), date(1), date(3), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Overlaps(tt.start1, tt.end1, tt.start2, tt.end2)
			if got != tt.overlaps {
				t.Errorf("Overlaps(%s, %s, %s, %s) = %v, want %v",
					tt.start1, tt.end1, tt.start2, tt.end2, got, tt.overlaps)
			}

			// Overlap is symmetric.
			if rev := Overlaps(tt.start2, tt.end2, tt.start1, tt.end1); rev != got {
				t.Errorf("Overlaps is not symmetric for %s-%s vs %s-%s", tt.start1, tt.end1, tt.start2, tt.end2)
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	service := newTestService(
		&mockBookingRepository{
			findActiveOverlappingFunc: func(ctx context.Context, productID string, start, end model.Date) ([]*model.Booking, error) {
				return []*model.Booking{}, nil
			},
		},
		&mockLockRepository{},
		&mockUserDirectory{},
		&mockProductCatalog{},
		nil,
	)

	available, err := service.IsAvailable(context.Background(), testProductID, date(1), date(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !available {
		t.Error("expected product to be available with no overlapping bookings")
	}
}

func TestIsAvailable_Blocked(t *testing.T) {
	service := newTestService(
		&mockBookingRepository{
			findActiveOverlappingFunc: func(ctx context.Context, productID string, start, end model.Date) ([]*model.Booking, error) {
				return []*model.Booking{{ID: testBookingID, Status: model.BookingPending}}, nil
			},
		},
		&mockLockRepository{},
		&mockUserDirectory{},
		&mockProductCatalog{},
		nil,
	)

	available, err := service.IsAvailable(context.Background(), testProductID, date(1), date(5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if available {
		t.Error("expected product to be unavailable with an overlapping booking")
	}
}

func TestUnavailableDates(t *testing.T) {
	service := newTestService(
		&mockBookingRepository{
			findActiveByProductFunc: func(ctx context.Context, productID string) ([]*model.Booking, error) {
				return []*model.Booking{
					{StartDate: date(1), EndDate: date(3), Status: model.BookingConfirmed},
					{StartDate: date(10), EndDate: date(12), Status: model.BookingPending},
				}, nil
			},
		},
		&mockLockRepository{},
		&mockUserDirectory{},
		&mockProductCatalog{},
		nil,
	)

	ranges, err := service.UnavailableDates(context.Background(), testProductID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}
	if !ranges[0].StartDate.Equal(date(1)) || !ranges[0].EndDate.Equal(date(3)) {
		t.Errorf("unexpected first range: %s - %s", ranges[0].StartDate, ranges[0].EndDate)
	}
	if !ranges[1].StartDate.Equal(date(10)) || !ranges[1].EndDate.Equal(date(12)) {
		t.Errorf("unexpected second range: %s - %s", ranges[1].StartDate, ranges[1].EndDate)
	}
}

func TestUnavailableDates_Empty(t *testing.T) {
	service := newTestService(
		&mockBookingRepository{},
		&mockLockRepository{},
		&mockUserDirectory{},
		&mockProductCatalog{},
		nil,
	)

	ranges, err := service.UnavailableDates(context.Background(), testProductID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ranges) != 0 {
		t.Errorf("expected no ranges, got %d", len(ranges))
	}
}
