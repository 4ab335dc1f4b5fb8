package flow

import "storefront/pkg/model"

type State string

const (
	StateEditing       State = "editing"
	StateApplyingPromo State = "applying_promo"
	StateSubmitting    State = "submitting"
	StateSucceeded     State = "succeeded"
	StateFailed        State = "failed"
)

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

func (s State) Transient() bool {
	return s == StateApplyingPromo || s == StateSubmitting
}

func (s State) Valid() bool {
	switch s {
	case StateEditing, StateApplyingPromo, StateSubmitting, StateSucceeded, StateFailed:
		return true
	default:
		return false
	}
}

const (
	InvalidPromoMessage  = "Invalid promo code!"
	BookingFailedMessage = "Something went wrong with booking."
)

// Outcome is what the result page renders.
type Outcome struct {
	Success bool                       `json:"success"`
	Booking *model.BookingConfirmation `json:"booking,omitempty"`
	Error   string                     `json:"error,omitempty"`
}

// Confirmed reports whether the result page should show the confirmation.
func (o *Outcome) Confirmed() bool {
	return o != nil && o.Success && o.Booking != nil
}

// Snapshot is the serialisable form of a Flow, stored between requests.
type Snapshot struct {
	Booking      BookingContext     `json:"booking"`
	Draft        model.BookingDraft `json:"draft"`
	State        State              `json:"state"`
	Discount     int64              `json:"discount"`
	AppliedPromo string             `json:"applied_promo,omitempty"`
	PromoMessage string             `json:"promo_message,omitempty"`
	Error        string             `json:"error,omitempty"`
	FieldErrors  map[string]string  `json:"field_errors,omitempty"`
	Outcome      *Outcome           `json:"outcome,omitempty"`
}

// Total is the payable amount recorded in the snapshot.
func (s Snapshot) Total() int64 {
	return payable(s.Booking.Experience.Price, s.Discount)
}
