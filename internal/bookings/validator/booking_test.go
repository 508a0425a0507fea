package validator

import (
	"testing"
	"time"

	"autobooking/pkg/logger"
	"autobooking/pkg/model"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	}))
}

func TestValidateRequest_Valid(t *testing.T) {
	v := newValidator()

	err := v.ValidateRequest(&model.BookingRequest{
		UserID:    "64f1b2a3c4d5e6f708192a3b",
		ProductID: "64f1b2a3c4d5e6f708192a3c",
		StartDate: model.NewDate(2030, time.May, 1),
		EndDate:   model.NewDate(2030, time.May, 4),
	})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestValidateRequest_MissingIDs(t *testing.T) {
	v := newValidator()

	err := v.ValidateRequest(&model.BookingRequest{
		StartDate: model.NewDate(2030, time.May, 1),
		EndDate:   model.NewDate(2030, time.May, 4),
	})
	if err == nil {
		t.Fatal("expected error for missing IDs")
	}
}

func TestValidateRequest_MalformedObjectID(t *testing.T) {
	v := newValidator()

	err := v.ValidateRequest(&model.BookingRequest{
		UserID:    "not-an-object-id",
		ProductID: "64f1b2a3c4d5e6f708192a3c",
		StartDate: model.NewDate(2030, time.May, 1),
		EndDate:   model.NewDate(2030, time.May, 4),
	})
	if err == nil {
		t.Fatal("expected error for malformed user ID")
	}
}

func TestValidateRequest_MissingDates(t *testing.T) {
	v := newValidator()

	err := v.ValidateRequest(&model.BookingRequest{
		UserID:    "64f1b2a3c4d5e6f708192a3b",
		ProductID: "64f1b2a3c4d5e6f708192a3c",
	})
	if err == nil {
		t.Fatal("expected error for missing dates")
	}

	errs, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(errs) != 2 {
		t.Errorf("expected 2 errors, got %d", len(errs))
	}
}

func TestValidateStatus(t *testing.T) {
	v := newValidator()

	for _, status := range []string{
		model.BookingPending, model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted,
	} {
		if err := v.ValidateStatus(status); err != nil {
			t.Errorf("expected %q to be valid, got: %v", status, err)
		}
	}

	for _, status := range []string{"", "archived", "PENDING", "done"} {
		if err := v.ValidateStatus(status); err == nil {
			t.Errorf("expected %q to be rejected", status)
		}
	}
}
