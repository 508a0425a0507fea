package validator

import (
	"errors"
	"fmt"
	"strings"

	"autobooking/pkg/logger"
	"autobooking/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	return &BookingValidator{
		validate: validator.New(),
		logger:   log,
	}
}

// ValidateRequest checks the creation payload's shape: IDs present and well
// formed, both dates supplied. Date ordering and past-date rules are the
// booking service's responsibility so their error kinds stay distinct.
func (v *BookingValidator) ValidateRequest(req *model.BookingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return translateValidationErrors(validationErrs)
		}
		return err
	}

	var errs ValidationErrors
	if req.StartDate.IsZero() {
		errs = append(errs, ValidationError{Field: "StartDate", Message: "start_date is required"})
	}
	if req.EndDate.IsZero() {
		errs = append(errs, ValidationError{Field: "EndDate", Message: "end_date is required"})
	}
	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ValidateStatus checks a requested status value against the known set.
func (v *BookingValidator) ValidateStatus(status string) error {
	switch status {
	case model.BookingPending, model.BookingConfirmed, model.BookingCancelled, model.BookingCompleted:
		return nil
	}
	return ValidationErrors{
		ValidationError{
			Field:   "Status",
			Message: fmt.Sprintf("status must be one of: pending, confirmed, cancelled, completed; got %q", status),
		},
	}
}

func translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
