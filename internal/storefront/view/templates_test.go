package view

import (
	"net/http"
	"net/http/httptest"
	"storefront/internal/checkout/flow"
	"storefront/pkg/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func render(t *testing.T, page string, data any) string {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, newTestRenderer(t).Render(rec, http.StatusOK, page, data))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	return rec.Body.String()
}

func testExperience() model.Experience {
	return model.Experience{
		ID:          "exp_1",
		Title:       "Sunset Kayaking",
		Description: "Paddle at dusk",
		Images:      []string{"https://img/1.jpg", "https://img/2.jpg"},
		Price:       123456,
		Location:    "Goa",
		Duration:    "2 hours",
		Rating:      4,
		Slots: []model.Slot{
			{ID: "s1", Date: "Nov 2, 2025", Time: "09:00", Available: true},
			{ID: "s2", Date: "Nov 2, 2025", Time: "11:00", Available: false},
		},
	}
}

func TestRender_Home(t *testing.T) {
	body := render(t, PageHome, HomePage{Experiences: []model.Experience{testExperience()}})

	assert.Contains(t, body, "Top Experiences Around India")
	assert.Contains(t, body, "Sunset Kayaking")
	assert.Contains(t, body, "₹1,23,456")
	assert.Contains(t, body, "⭐ 4.0")
	assert.Contains(t, body, `href="/experiences/exp_1"`)
}

func TestRender_HomeEmpty(t *testing.T) {
	body := render(t, PageHome, HomePage{})

	assert.Contains(t, body, "No experiences available right now.")
}

func TestRender_DetailsWithSelection(t *testing.T) {
	body := render(t, PageDetails, NewDetailsPage(testExperience(), 0, 1))

	assert.Contains(t, body, "Back to Experiences")
	assert.Contains(t, body, "Price Per Person")
	assert.Contains(t, body, "Selected: Nov 2, 2025 at 09:00")
	assert.Contains(t, body, `name="slot" value="0"`)
	assert.Contains(t, body, "(Sold out)")
	assert.Contains(t, body, "https://img/2.jpg")
}

func TestRender_DetailsNoSlots(t *testing.T) {
	exp := testExperience()
	exp.Slots = nil
	exp.Images = exp.Images[:1]

	body := render(t, PageDetails, NewDetailsPage(exp, 0, 0))

	assert.Contains(t, body, "No available slots found.")
	assert.NotContains(t, body, `name="slot"`)
	assert.NotContains(t, body, `class="dots"`)
}

func TestRender_DetailsMessage(t *testing.T) {
	page := NewDetailsPage(testExperience(), NoSelection, 0)
	page.Message = SelectSlotMessage

	body := render(t, PageDetails, page)

	assert.Contains(t, body, SelectSlotMessage)
}

func TestRender_Checkout(t *testing.T) {
	exp := testExperience()
	exp.Price = 2000
	snap := flow.Snapshot{
		Booking:  flow.BookingContext{Experience: exp, Slot: exp.Slots[0]},
		Draft:    model.BookingDraft{Email: "a@b.c", Phone: "12345"},
		State:    flow.StateEditing,
		Discount: 300,
		Error:    "Please fill all required fields correctly!",
		FieldErrors: map[string]string{
			"Phone": "Phone must be exactly 10 digits",
		},
	}

	body := render(t, PageCheckout, CheckoutPage{SessionID: "sid", Snapshot: snap, CanSubmit: true})

	assert.Contains(t, body, "Discount applied: ₹300")
	assert.Contains(t, body, "Total Payable")
	assert.Contains(t, body, "₹1,700")
	assert.Contains(t, body, "Phone must be exactly 10 digits")
	assert.Contains(t, body, `action="/checkout/sid/confirm"`)
	assert.Contains(t, body, "Confirm Booking")
}

func TestRender_CheckoutSubmitting(t *testing.T) {
	exp := testExperience()
	snap := flow.Snapshot{Booking: flow.BookingContext{Experience: exp, Slot: exp.Slots[0]}}

	body := render(t, PageCheckout, CheckoutPage{SessionID: "sid", Snapshot: snap, CanSubmit: false})

	assert.Contains(t, body, "Booking...")
	assert.NotContains(t, body, "Discount applied")
}

func TestRender_ResultPages(t *testing.T) {
	ok := render(t, PageResult, ResultPage{Confirmed: true, Name: "Asha", Title: "Kayaking", Amount: 1700})
	assert.Contains(t, ok, "Booking Confirmed!")
	assert.Contains(t, ok, "₹1,700")

	failed := render(t, PageResult, ResultPage{Error: "Slot no longer available"})
	assert.Contains(t, failed, "Booking Failed")
	assert.Contains(t, failed, "Slot no longer available")
}

func TestRender_EscapesContent(t *testing.T) {
	exp := testExperience()
	exp.Title = `<script>alert(1)</script>`

	body := render(t, PageHome, HomePage{Experiences: []model.Experience{exp}})

	assert.NotContains(t, body, "<script>alert(1)</script>")
}

func TestRender_UnknownPage(t *testing.T) {
	err := newTestRenderer(t).Render(httptest.NewRecorder(), http.StatusOK, "missing", nil)

	assert.Error(t, err)
}
