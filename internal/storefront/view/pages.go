package view

import (
	"storefront/internal/checkout/flow"
	"storefront/pkg/model"
)

const SelectSlotMessage = "Please select a slot before booking."

type HomePage struct {
	Experiences []model.Experience
}

type DetailsPage struct {
	Experience model.Experience
	Carousel   Carousel
	Picker     *SlotPicker
	Selected   *model.Slot
	Message    string
}

// NewDetailsPage applies the slot and image picked via query parameters.
// An invalid slot index leaves nothing selected.
func NewDetailsPage(exp model.Experience, slot, img int) DetailsPage {
	page := DetailsPage{
		Experience: exp,
		Carousel:   NewCarousel(exp.Images, img),
		Picker:     NewSlotPicker(exp.Slots),
	}
	if page.Picker.Select(slot) {
		s, _ := page.Picker.Selected()
		page.Selected = &s
	}
	return page
}

type CheckoutPage struct {
	SessionID string
	Snapshot  flow.Snapshot
	CanSubmit bool
}

type MessagePage struct {
	Message string
}

type ResultPage struct {
	Confirmed bool
	Reference string
	Name      string
	Title     string
	Date      string
	Time      string
	Amount    int64
	Email     string
	Error     string
}

// NewResultPage prefers the names the Booking API echoed back. The slot is
// shown as the customer saw it on the detail page.
func NewResultPage(snap *flow.Snapshot) ResultPage {
	if snap == nil || snap.Outcome == nil {
		return ResultPage{Error: flow.BookingFailedMessage}
	}

	outcome := snap.Outcome
	if !outcome.Confirmed() {
		msg := outcome.Error
		if msg == "" {
			msg = flow.BookingFailedMessage
		}
		return ResultPage{Error: msg}
	}

	b := outcome.Booking
	page := ResultPage{
		Confirmed: true,
		Reference: b.Reference(),
		Name:      firstNonEmpty(userName(b.User), snap.Draft.Name, model.DefaultGuestName),
		Title:     firstNonEmpty(b.Experience.DisplayTitle(), snap.Booking.Experience.Title),
		Date:      snap.Booking.Slot.Date,
		Time:      snap.Booking.Slot.Time,
		Amount:    b.TotalPrice,
		Email:     snap.Draft.Email,
	}

	if b.Slot != nil {
		page.Date = firstNonEmpty(page.Date, b.Slot.Date)
		page.Time = firstNonEmpty(page.Time, b.Slot.Time)
	}
	if b.User != nil && b.User.Email != "" {
		page.Email = b.User.Email
	}
	if page.Amount == 0 {
		page.Amount = snap.Total()
	}

	return page
}

func userName(u *model.BookingUser) string {
	if u == nil {
		return ""
	}
	return u.Name
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
