package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	catalogerrors "storefront/internal/catalog/errors"
	"storefront/internal/checkout/events"
	"storefront/internal/checkout/flow"
	"storefront/internal/checkout/session"
	"storefront/internal/checkout/validator"
	"storefront/internal/storefront/view"
	"storefront/pkg/client"
	"storefront/pkg/logger"
	"storefront/pkg/model"

	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ────────────────────────────────────────────────
// Fakes
// ────────────────────────────────────────────────

type fakeCatalog struct {
	experiences map[string]model.Experience
}

func (c *fakeCatalog) List(ctx context.Context) []model.Experience {
	out := make([]model.Experience, 0, len(c.experiences))
	for _, exp := range c.experiences {
		out = append(out, exp)
	}
	return out
}

func (c *fakeCatalog) Get(ctx context.Context, id string) (*model.Experience, error) {
	exp, ok := c.experiences[id]
	if !ok {
		return nil, catalogerrors.ErrExperienceNotFound
	}
	return &exp, nil
}

type fakeAPI struct {
	mu       sync.Mutex
	bookings []model.BookingRequest
	failWith error
}

func (a *fakeAPI) ValidatePromo(ctx context.Context, req model.PromoRequest) (*model.PromoResult, error) {
	if req.Code != "SAVE300" {
		return nil, &client.APIError{StatusCode: http.StatusBadRequest, Message: "Promo code expired"}
	}
	return &model.PromoResult{Code: req.Code, Discount: 300, FinalPrice: req.CurrentPrice - 300}, nil
}

func (a *fakeAPI) CreateBooking(ctx context.Context, req model.BookingRequest) (*model.BookingConfirmation, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.bookings = append(a.bookings, req)
	if a.failWith != nil {
		return nil, a.failWith
	}
	return &model.BookingConfirmation{ID: "bk_1", TotalPrice: req.TotalPrice}, nil
}

func (a *fakeAPI) calls() []model.BookingRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.BookingRequest(nil), a.bookings...)
}

type fakePublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *fakePublisher) PublishBookingOutcome(ctx context.Context, eventType string, event events.BookingOutcome) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) published() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

// ────────────────────────────────────────────────
// Harness
// ────────────────────────────────────────────────

type harness struct {
	router    *httprouter.Router
	store     *session.MemoryStore
	api       *fakeAPI
	publisher *fakePublisher
}

func kayaking() model.Experience {
	return model.Experience{
		ID:       "exp_1",
		Title:    "Sunset Kayaking",
		Images:   []string{"https://img/1.jpg"},
		Price:    2000,
		Location: "Goa",
		Duration: "2 hours",
		Rating:   4.5,
		Slots: []model.Slot{
			{ID: "s1", Date: "Nov 2, 2025", Time: "09:00", Available: true},
			{ID: "s2", Date: "Nov 2, 2025", Time: "11:00", Available: false},
		},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	store := session.NewMemoryStore(time.Hour, time.Minute)
	t.Cleanup(func() { _ = store.Close() })

	h := &harness{
		router:    httprouter.New(),
		store:     store,
		api:       &fakeAPI{},
		publisher: &fakePublisher{},
	}

	NewStorefrontHandler(Dependencies{
		Catalog:   &fakeCatalog{experiences: map[string]model.Experience{"exp_1": kayaking()}},
		Renderer:  renderer,
		Sessions:  store,
		API:       h.api,
		Validator: validator.NewContactValidator(),
		Publisher: h.publisher,
		Log:       logger.Nop(),
	}).RegisterRoutes(h.router)

	return h
}

func (h *harness) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func (h *harness) post(t *testing.T, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

// startCheckout books slot 0 of exp_1 and returns the session id.
func (h *harness) startCheckout(t *testing.T) string {
	t.Helper()
	w := h.post(t, "/checkout", url.Values{"experience_id": {"exp_1"}, "slot": {"0"}, "img": {"0"}})
	require.Equal(t, http.StatusSeeOther, w.Code)

	loc := w.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/checkout/"), loc)
	sid := strings.TrimPrefix(loc, "/checkout/")
	require.True(t, session.ValidID(sid))
	return sid
}

func contactForm(phone string) url.Values {
	return url.Values{
		"name":  {""},
		"email": {"asha@example.com"},
		"phone": {phone},
	}
}

// ────────────────────────────────────────────────
// Listing and details
// ────────────────────────────────────────────────

func TestHome(t *testing.T) {
	h := newHarness(t)

	w := h.get(t, "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Sunset Kayaking")
	assert.Contains(t, w.Body.String(), "₹2,000")
}

func TestDetails(t *testing.T) {
	h := newHarness(t)

	w := h.get(t, "/experiences/exp_1?slot=0")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Selected: Nov 2, 2025 at 09:00")
}

func TestDetails_InvalidQueryFallsBack(t *testing.T) {
	h := newHarness(t)

	w := h.get(t, "/experiences/exp_1?slot=abc&img=-3")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Selected:")
}

func TestDetails_NotFound(t *testing.T) {
	h := newHarness(t)

	w := h.get(t, "/experiences/missing")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ExperienceNotFoundMessage)
}

func TestDetails_SlotErrorMessage(t *testing.T) {
	h := newHarness(t)

	w := h.get(t, "/experiences/exp_1?error=slot")

	assert.Contains(t, w.Body.String(), view.SelectSlotMessage)
}

func TestUnknownRoute(t *testing.T) {
	h := newHarness(t)

	w := h.get(t, "/nope/nope")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), PageNotFoundMessage)
}

// ────────────────────────────────────────────────
// Starting a checkout
// ────────────────────────────────────────────────

func TestStartCheckout_RequiresSlot(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{name: "no slot", form: url.Values{"experience_id": {"exp_1"}, "img": {"0"}}},
		{name: "sold out slot", form: url.Values{"experience_id": {"exp_1"}, "slot": {"1"}, "img": {"0"}}},
		{name: "out of range", form: url.Values{"experience_id": {"exp_1"}, "slot": {"7"}, "img": {"0"}}},
		{name: "garbage", form: url.Values{"experience_id": {"exp_1"}, "slot": {"x"}, "img": {"0"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)

			w := h.post(t, "/checkout", tt.form)

			assert.Equal(t, http.StatusSeeOther, w.Code)
			assert.Equal(t, "/experiences/exp_1?error=slot&img=0", w.Header().Get("Location"))
		})
	}
}

func TestStartCheckout_UnknownExperience(t *testing.T) {
	h := newHarness(t)

	w := h.post(t, "/checkout", url.Values{"experience_id": {"gone"}, "slot": {"0"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), ExperienceNotFoundMessage)
}

func TestCheckoutPage(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	w := h.get(t, "/checkout/"+sid)

	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Sunset Kayaking")
	assert.Contains(t, body, "Nov 2, 2025")
	assert.Contains(t, body, "Total Payable")
	assert.Contains(t, body, "Confirm Booking")
}

func TestCheckoutPage_NoBooking(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/checkout", "/checkout/not-a-session", "/checkout/" + session.NewID()} {
		w := h.get(t, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "No booking data found.", path)
	}
}

// ────────────────────────────────────────────────
// Promo codes
// ────────────────────────────────────────────────

func TestApplyPromo(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	form := contactForm("98765")
	form.Set("promo_code", " SAVE300 ")
	w := h.post(t, "/checkout/"+sid+"/promo", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/"+sid, w.Header().Get("Location"))

	page := h.get(t, "/checkout/"+sid).Body.String()
	assert.Contains(t, page, "Discount applied: ₹300")
	assert.Contains(t, page, "₹1,700")
	assert.Contains(t, page, `value="98765"`, "typed contact details survive the round trip")
}

func TestApplyPromo_Rejected(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	form := contactForm("")
	form.Set("promo_code", "OLD")
	h.post(t, "/checkout/"+sid+"/promo", form)

	snap, err := h.store.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.Discount)
	assert.Equal(t, "Promo code expired", snap.Error)
	assert.Contains(t, h.get(t, "/checkout/"+sid).Body.String(), "Promo code expired")
}

func TestApplyPromo_Blank(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	w := h.post(t, "/checkout/"+sid+"/promo", contactForm("9876543210"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	snap, err := h.store.Get(context.Background(), sid)
	require.NoError(t, err)
	assert.Equal(t, flow.StateEditing, snap.State)
	assert.Equal(t, "9876543210", snap.Draft.Phone)
}

// ────────────────────────────────────────────────
// Confirming
// ────────────────────────────────────────────────

func TestConfirm_Success(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	form := contactForm("9876543210")
	form.Set("promo_code", "SAVE300")
	h.post(t, "/checkout/"+sid+"/promo", form)

	w := h.post(t, "/checkout/"+sid+"/confirm", form)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/result/"+sid, w.Header().Get("Location"))

	calls := h.api.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, int64(1700), calls[0].TotalPrice)
	assert.Equal(t, model.DefaultGuestName, calls[0].User.Name)
	assert.Equal(t, "SAVE300", calls[0].PromoCode)
	assert.Equal(t, "s1", calls[0].Slot)

	result := h.get(t, "/result/"+sid)
	assert.Equal(t, http.StatusOK, result.Code)
	assert.Contains(t, result.Body.String(), "Booking Confirmed!")
	assert.Contains(t, result.Body.String(), "₹1,700")
	assert.Contains(t, result.Body.String(), "asha@example.com")

	assert.Equal(t, []string{events.EventBookingConfirmed}, h.publisher.published())
}

func TestConfirm_InvalidContact(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	w := h.post(t, "/checkout/"+sid+"/confirm", contactForm("12345"))

	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/"+sid, w.Header().Get("Location"))
	assert.Empty(t, h.api.calls())
	assert.Empty(t, h.publisher.published())

	page := h.get(t, "/checkout/"+sid).Body.String()
	assert.Contains(t, page, validator.FormRejectedMessage)
	assert.Contains(t, page, "Phone must be exactly 10 digits")
}

func TestConfirm_BookingFailed(t *testing.T) {
	h := newHarness(t)
	h.api.failWith = &client.APIError{StatusCode: http.StatusConflict, Message: "Slot no longer available"}
	sid := h.startCheckout(t)

	w := h.post(t, "/checkout/"+sid+"/confirm", contactForm("9876543210"))
	require.Equal(t, http.StatusSeeOther, w.Code)

	result := h.get(t, "/result/"+sid).Body.String()
	assert.Contains(t, result, "Booking Failed")
	assert.Contains(t, result, "Slot no longer available")
	assert.Equal(t, []string{events.EventBookingFailed}, h.publisher.published())
}

func TestConfirm_FailureWithoutMessage(t *testing.T) {
	h := newHarness(t)
	h.api.failWith = errors.New("connection reset")
	sid := h.startCheckout(t)

	h.post(t, "/checkout/"+sid+"/confirm", contactForm("9876543210"))

	assert.Contains(t, h.get(t, "/result/"+sid).Body.String(), flow.BookingFailedMessage)
}

func TestConfirm_OnlyOnce(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)
	form := contactForm("9876543210")

	h.post(t, "/checkout/"+sid+"/confirm", form)
	again := h.post(t, "/checkout/"+sid+"/confirm", form)

	assert.Equal(t, http.StatusSeeOther, again.Code)
	assert.Equal(t, "/result/"+sid, again.Header().Get("Location"))
	assert.Len(t, h.api.calls(), 1)

	page := h.get(t, "/checkout/"+sid)
	assert.Equal(t, http.StatusSeeOther, page.Code, "a finished checkout shows its result")
}

func TestConfirm_WhileAnotherRequestHoldsTheLock(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	_, ok, err := h.store.Lock(context.Background(), sid)
	require.NoError(t, err)
	require.True(t, ok)

	page := h.get(t, "/checkout/"+sid).Body.String()
	assert.Contains(t, page, "Booking...")

	w := h.post(t, "/checkout/"+sid+"/confirm", contactForm("9876543210"))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/checkout/"+sid, w.Header().Get("Location"))
	assert.Empty(t, h.api.calls())
}

func TestConfirm_ReleasesLock(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	h.post(t, "/checkout/"+sid+"/confirm", contactForm("1"))

	locked, err := h.store.Locked(context.Background(), sid)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestConfirm_UnknownSession(t *testing.T) {
	h := newHarness(t)

	w := h.post(t, "/checkout/"+session.NewID()+"/confirm", contactForm("9876543210"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "No booking data found.")
	assert.Empty(t, h.api.calls())
}

// ────────────────────────────────────────────────
// Result
// ────────────────────────────────────────────────

func TestResult_WithoutOutcome(t *testing.T) {
	h := newHarness(t)
	sid := h.startCheckout(t)

	for _, path := range []string{"/result/" + sid, "/result/" + session.NewID(), "/result/junk"} {
		w := h.get(t, path)
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.Contains(t, w.Body.String(), "Booking Failed", path)
	}
}
