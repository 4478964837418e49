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

type ReservationValidator struct {
	validate    *validator.Validate
	horizonDays int
	logger      *logger.Logger
}

func NewReservationValidator(horizonDays int, log *logger.Logger) *ReservationValidator {
	return &ReservationValidator{
		validate:    validator.New(),
		horizonDays: horizonDays,
		logger:      log,
	}
}

// Validate runs before any side effect. A request rejected here has touched
// neither the ledger nor the booking collection.
func (v *ReservationValidator) Validate(req *model.ReservationRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	start := dateutil.Day(req.StartDate)
	end := dateutil.Day(req.EndDate)

	if end.Before(start) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: "end_date must not precede start_date",
			},
		}
	}

	today := dateutil.Day(time.Now())
	if start.Before(today) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartDate",
				Message: "start_date cannot be in the past",
			},
		}
	}

	horizon := today.AddDate(0, 0, v.horizonDays)
	if end.After(horizon) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndDate",
				Message: fmt.Sprintf("end_date exceeds booking horizon of %d days", v.horizonDays),
			},
		}
	}

	return nil
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
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
