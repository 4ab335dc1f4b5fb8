package model

import (
	"bytes"
	"encoding/json"
)

const (
	// DefaultGuestName is sent when the customer leaves the name blank.
	DefaultGuestName = "user1"

	TicketsPerBooking = 1
)

// BookingDraft holds the checkout form. It only ever lives inside a
// checkout session.
type BookingDraft struct {
	Name      string `json:"name" validate:"max=100"`
	Email     string `json:"email" validate:"required,max=254"`
	Phone     string `json:"phone" validate:"required,phone10"`
	PromoCode string `json:"promo_code" validate:"max=64"`
}

type BookingUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// BookingRequest is the body of POST /bookings.
type BookingRequest struct {
	ExperienceID string      `json:"experienceId"`
	Slot         string      `json:"slot"`
	User         BookingUser `json:"user"`
	TotalPrice   int64       `json:"totalPrice"`
	PromoCode    string      `json:"promoCode"`
	NumTickets   int         `json:"numTickets"`
}

// BookingConfirmation is the success payload of POST /bookings. The API
// may return nested experience and slot objects or bare ids.
type BookingConfirmation struct {
	ID                 string           `json:"_id,omitempty"`
	BookingID          string           `json:"bookingId,omitempty"`
	ConfirmationNumber string           `json:"confirmationNumber,omitempty"`
	Message            string           `json:"message,omitempty"`
	Status             string           `json:"status,omitempty"`
	User               *BookingUser     `json:"user,omitempty"`
	Experience         *BookedReference `json:"experience,omitempty"`
	Slot               *BookedSlot      `json:"slot,omitempty"`
	TotalPrice         int64            `json:"totalPrice"`
	PromoCode          string           `json:"promoCode,omitempty"`
}

// Reference returns the best identifier the API gave for the booking.
func (b *BookingConfirmation) Reference() string {
	switch {
	case b.BookingID != "":
		return b.BookingID
	case b.ConfirmationNumber != "":
		return b.ConfirmationNumber
	default:
		return b.ID
	}
}

type BookedReference struct {
	ID    string `json:"_id,omitempty"`
	Title string `json:"title,omitempty"`
	Name  string `json:"name,omitempty"`
}

func (r *BookedReference) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*r = BookedReference{ID: id}
		return nil
	}
	type plain BookedReference
	return json.Unmarshal(data, (*plain)(r))
}

func (r *BookedReference) DisplayTitle() string {
	if r == nil {
		return ""
	}
	if r.Title != "" {
		return r.Title
	}
	return r.Name
}

type BookedSlot struct {
	ID   string `json:"_id,omitempty"`
	Date string `json:"date,omitempty"`
	Time string `json:"time,omitempty"`
}

func (s *BookedSlot) UnmarshalJSON(data []byte) error {
	if id, ok := bareID(data); ok {
		*s = BookedSlot{ID: id}
		return nil
	}
	type plain BookedSlot
	return json.Unmarshal(data, (*plain)(s))
}

func bareID(data []byte) (string, bool) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '"' {
		return "", false
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return "", false
	}
	return id, true
}
