package flow

import (
	"fmt"
	checkouterrors "storefront/internal/checkout/errors"
	"storefront/internal/checkout/validator"
	"storefront/pkg/model"
	"strings"
)

// BookingContext is what the detail page hands to checkout: the
// experience and the slot the customer picked.
type BookingContext struct {
	Experience model.Experience `json:"experience"`
	Slot       model.Slot       `json:"slot"`
}

func (bc BookingContext) Validate() error {
	var errs validator.ValidationErrors

	if strings.TrimSpace(bc.Experience.ID) == "" {
		errs = append(errs, validator.ValidationError{Field: "Experience.ID", Message: "experience id is required"})
	}
	if strings.TrimSpace(bc.Experience.Title) == "" {
		errs = append(errs, validator.ValidationError{Field: "Experience.Title", Message: "experience title is required"})
	}
	if bc.Experience.Price < 0 {
		errs = append(errs, validator.ValidationError{Field: "Experience.Price", Message: "price cannot be negative"})
	}
	if strings.TrimSpace(bc.Slot.ID) == "" {
		errs = append(errs, validator.ValidationError{Field: "Slot.ID", Message: "slot id is required"})
	}
	if !bc.Slot.Available {
		errs = append(errs, validator.ValidationError{Field: "Slot.Available", Message: "slot is not available"})
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", checkouterrors.ErrInvalidBookingContext, errs)
	}
	return nil
}
