package validator

import (
	"errors"
	"fmt"
	"roomly/pkg/dateutil"
	"roomly/pkg/logger"
	"roomly/pkg/model"
	"strings"
	"time"

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

type RoomValidator struct {
	validate    *validator.Validate
	horizonDays int
	logger      *logger.Logger
}

func NewRoomValidator(horizonDays int, log *logger.Logger) *RoomValidator {
	return &RoomValidator{
		validate:    validator.New(),
		horizonDays: horizonDays,
		logger:      log,
	}
}

func (v *RoomValidator) Validate(room *model.Room) error {
	if err := v.validate.Struct(room); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *RoomValidator) ValidateSeed(req *model.SeedAvailabilityRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if dateutil.Day(req.EndDate).Before(dateutil.Day(req.StartDate)) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not precede start_date",
			},
		}
	}

	return nil
}

// ValidateSearch checks an availability search window: ordered, not in the
// past and inside the booking horizon.
func (v *RoomValidator) ValidateSearch(start, end time.Time, quantity int) error {
	if quantity < 1 {
		return ValidationErrors{
			ValidationError{Field: "Quantity", Message: "quantity must be at least 1"},
		}
	}

	startDay := dateutil.Day(start)
	endDay := dateutil.Day(end)

	if endDay.Before(startDay) {
		return ValidationErrors{
			ValidationError{Field: "EndDate", Message: "end must not precede start"},
		}
	}

	today := dateutil.Day(time.Now())
	horizon := today.AddDate(0, 0, v.horizonDays)
	if endDay.After(horizon) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: fmt.Sprintf("end exceeds booking horizon of %d days", v.horizonDays),
			},
		}
	}

	return nil
}

func (v *RoomValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
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
