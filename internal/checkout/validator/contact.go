package validator

import (
	"errors"
	"fmt"
	"regexp"
	"storefront/pkg/model"

	"github.com/go-playground/validator/v10"
)

const (
	// FormRejectedMessage is shown when the contact form fails local checks.
	FormRejectedMessage = "Please fill all required fields correctly!"

	phoneTag = "phone10"
)

var rePhone10 = regexp.MustCompile(`^[0-9]{10}$`)

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
	return fmt.Sprintf("validation failed: %d error(s)", len(v))
}

// Field returns the message recorded for field, or "".
func (v ValidationErrors) Field(field string) string {
	for _, e := range v {
		if e.Field == field {
			return e.Message
		}
	}
	return ""
}

type ContactValidator struct {
	validate *validator.Validate
}

func NewContactValidator() *ContactValidator {
	v := validator.New()

	// ASCII digits only; no country code, spaces or separators.
	if err := v.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return rePhone10.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("failed to register %s validator: %v", phoneTag, err))
	}

	return &ContactValidator{
		validate: v,
	}
}

// Validate checks the draft as the customer typed it. The phone must not be
// trimmed beforehand.
func (v *ContactValidator) Validate(draft *model.BookingDraft) error {
	if err := v.validate.Struct(draft); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return nil
}

func (v *ContactValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message(err),
		})
	}

	return validationErrors
}

func message(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", err.Field())
	case phoneTag:
		return "Phone must be exactly 10 digits"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", err.Field(), err.Param())
	default:
		return fmt.Sprintf("%s is invalid", err.Field())
	}
}
