package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"storefront/pkg/model"
)

// BookingAPI is an in-process stand-in for the Booking API.
type BookingAPI struct {
	*httptest.Server

	mu          sync.Mutex
	experiences map[string]ExperienceFixture
	promos      map[string]int64
	bookings    []model.BookingRequest
	rejectWith  string
}

type ExperienceFixture struct {
	Experience model.ExperiencePayload
	Slots      []model.SlotPayload
}

func NewBookingAPI(t *testing.T, fixtures ...ExperienceFixture) *BookingAPI {
	t.Helper()

	api := &BookingAPI{
		experiences: make(map[string]ExperienceFixture),
		promos:      map[string]int64{"SAVE300": 300},
	}
	for _, f := range fixtures {
		api.experiences[f.Experience.ID] = f
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /experiences", api.list)
	mux.HandleFunc("GET /experiences/{id}", api.get)
	mux.HandleFunc("POST /promo/validate", api.validatePromo)
	mux.HandleFunc("POST /bookings", api.createBooking)

	api.Server = httptest.NewServer(mux)
	t.Cleanup(api.Close)
	return api
}

// RejectBookings makes every following booking fail with message.
func (a *BookingAPI) RejectBookings(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rejectWith = message
}

func (a *BookingAPI) Bookings() []model.BookingRequest {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]model.BookingRequest(nil), a.bookings...)
}

func (a *BookingAPI) list(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	out := make([]model.ExperiencePayload, 0, len(a.experiences))
	for _, f := range a.experiences {
		out = append(out, f.Experience)
	}
	a.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (a *BookingAPI) get(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	f, ok := a.experiences[r.PathValue("id")]
	a.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Experience not found"})
		return
	}

	exp := f.Experience
	writeJSON(w, http.StatusOK, model.ExperienceDetailPayload{Experience: &exp, AvailableSlots: f.Slots})
}

func (a *BookingAPI) validatePromo(w http.ResponseWriter, r *http.Request) {
	var req model.PromoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	a.mu.Lock()
	discount, ok := a.promos[req.Code]
	a.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid promo code"})
		return
	}

	writeJSON(w, http.StatusOK, model.PromoResult{
		Discount:   discount,
		FinalPrice: req.CurrentPrice - discount,
		Message:    "Promo applied",
	})
}

func (a *BookingAPI) createBooking(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Invalid request"})
		return
	}

	a.mu.Lock()
	a.bookings = append(a.bookings, req)
	reject := a.rejectWith
	a.mu.Unlock()

	if reject != "" {
		writeJSON(w, http.StatusConflict, map[string]string{"message": reject})
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"_id":        "bk_1",
		"user":       req.User,
		"experience": req.ExperienceID,
		"slot":       req.Slot,
		"totalPrice": req.TotalPrice,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
