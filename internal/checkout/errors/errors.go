package errors

import "errors"

var (
	ErrEmptyPromoCode = errors.New("promo code is empty")

	ErrPromoInFlight = errors.New("promo validation already in flight")

	ErrSubmissionInFlight = errors.New("booking submission already in flight")

	ErrFlowClosed = errors.New("checkout already finished")

	ErrInvalidBookingContext = errors.New("invalid booking context")

	ErrSessionNotFound = errors.New("checkout session not found")
)
