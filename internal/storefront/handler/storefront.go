package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	catalogerrors "storefront/internal/catalog/errors"
	"storefront/internal/catalog/service"
	checkouterrors "storefront/internal/checkout/errors"
	"storefront/internal/checkout/events"
	"storefront/internal/checkout/flow"
	"storefront/internal/checkout/session"
	"storefront/internal/checkout/validator"
	"storefront/internal/storefront/view"
	apperrors "storefront/pkg/errors"
	httputil "storefront/pkg/http"
	"storefront/pkg/logger"
	"storefront/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const (
	ExperienceNotFoundMessage = "Experience details not found."
	PageNotFoundMessage       = "Page not found."
	GenericErrorMessage       = "Something went wrong. Please try again."

	// slotErrorParam marks a detail page redirect after Book Now was pressed
	// without a usable slot.
	slotErrorParam = "error"
	slotErrorValue = "slot"
)

type Dependencies struct {
	Catalog   service.CatalogService
	Renderer  *view.Renderer
	Sessions  session.Store
	API       flow.API
	Validator flow.ContactValidator
	Publisher events.Publisher
	Log       *logger.Logger
}

type StorefrontHandler struct {
	catalog   service.CatalogService
	renderer  *view.Renderer
	sessions  session.Store
	api       flow.API
	validator flow.ContactValidator
	publisher events.Publisher
	log       *logger.Logger
}

func NewStorefrontHandler(deps Dependencies) *StorefrontHandler {
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &StorefrontHandler{
		catalog:   deps.Catalog,
		renderer:  deps.Renderer,
		sessions:  deps.Sessions,
		api:       deps.API,
		validator: deps.Validator,
		publisher: publisher,
		log:       deps.Log,
	}
}

func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	experiences := h.catalog.List(r.Context())
	h.render(w, r, http.StatusOK, view.PageHome, view.HomePage{Experiences: experiences})
}

// Details renders one experience. ?slot= and ?img= carry the selection and
// the carousel position; invalid values fall back to none and the first
// image.
func (h *StorefrontHandler) Details(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	exp, err := h.catalog.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.renderError(w, r, "Details", fetchError(err))
		return
	}

	slot := queryIndexOr(r, "slot", view.NoSelection)
	img := queryIndexOr(r, "img", 0)

	page := view.NewDetailsPage(*exp, slot, img)
	if r.URL.Query().Get(slotErrorParam) == slotErrorValue {
		page.Message = view.SelectSlotMessage
	}

	h.render(w, r, http.StatusOK, view.PageDetails, page)
}

func (h *StorefrontHandler) NoBooking(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.render(w, r, http.StatusOK, view.PageNoBooking, nil)
}

// StartCheckout handles Book Now. The experience is fetched again so the
// checkout starts from current data, then a session is created for it.
func (h *StorefrontHandler) StartCheckout(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, "StartCheckout", apperrors.InvalidInput("invalid checkout form: "+err.Error()))
		return
	}

	experienceID := r.PostFormValue("experience_id")
	if experienceID == "" {
		h.renderError(w, r, "StartCheckout", apperrors.NotFound(ExperienceNotFoundMessage))
		return
	}
	img, _, _ := httputil.FormIndex(r, "img")

	slotIndex, ok, err := httputil.FormIndex(r, "slot")
	if err != nil || !ok {
		httputil.SeeOther(w, r, selectSlotURL(experienceID, img))
		return
	}

	exp, err := h.catalog.Get(r.Context(), experienceID)
	if err != nil {
		h.renderError(w, r, "StartCheckout", fetchError(err))
		return
	}

	picker := view.NewSlotPicker(exp.Slots)
	if !picker.Select(slotIndex) {
		httputil.SeeOther(w, r, selectSlotURL(experienceID, img))
		return
	}
	slot, _ := picker.Selected()

	f, err := flow.New(r.Context(), flow.BookingContext{Experience: *exp, Slot: slot}, h.api, h.validator, h.log)
	if err != nil {
		h.renderError(w, r, "StartCheckout", apperrors.Validation("cannot start checkout for slot "+slot.ID, err))
		return
	}
	defer f.Close()

	sid := session.NewID()
	if err := h.sessions.Save(r.Context(), sid, f.Snapshot()); err != nil {
		h.renderError(w, r, "StartCheckout", storeError(err))
		return
	}

	h.log.Info("Checkout started",
		"session_id", sid,
		"experience_id", exp.ID,
		"slot_id", slot.ID,
	)
	httputil.SeeOther(w, r, checkoutURL(sid))
}

func (h *StorefrontHandler) Checkout(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := ps.ByName("sid")
	snap, ok := h.loadSession(w, r, "Checkout", sid)
	if !ok {
		return
	}

	if snap.State.Terminal() {
		httputil.SeeOther(w, r, resultURL(sid))
		return
	}

	locked, err := h.sessions.Locked(r.Context(), sid)
	if err != nil {
		h.log.Warn("Failed to read submit lock", "handler", "Checkout", "session_id", sid, "error", err)
	}

	h.render(w, r, http.StatusOK, view.PageCheckout, view.CheckoutPage{
		SessionID: sid,
		Snapshot:  *snap,
		CanSubmit: snap.State == flow.StateEditing && !locked,
	})
}

// ApplyPromo validates the posted promo code. The rest of the form is kept
// so nothing typed so far is lost.
func (h *StorefrontHandler) ApplyPromo(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := ps.ByName("sid")
	f, release, ok := h.acquire(w, r, "ApplyPromo", sid)
	if !ok {
		return
	}
	defer release()

	if err := f.SetDraft(draftFromForm(r)); err != nil {
		h.redirectAfter(w, r, sid, err)
		return
	}

	err := f.ApplyPromo(r.Context(), r.PostFormValue("promo_code"))
	switch {
	case err == nil, errors.Is(err, checkouterrors.ErrEmptyPromoCode):
	default:
		h.log.Warn("Promo code not applied", "handler", "ApplyPromo", "session_id", sid, "error", err)
	}

	if err := h.save(r, sid, f); err != nil {
		h.renderError(w, r, "ApplyPromo", storeError(err))
		return
	}
	httputil.SeeOther(w, r, checkoutURL(sid))
}

// Confirm submits the booking. Once the request is sent the customer
// leaving does not abort it; the outcome is stored and published either
// way.
func (h *StorefrontHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := ps.ByName("sid")
	f, release, ok := h.acquire(w, r, "Confirm", sid)
	if !ok {
		return
	}
	defer release()

	if err := f.SetDraft(draftFromForm(r)); err != nil {
		h.redirectAfter(w, r, sid, err)
		return
	}

	ctx := context.WithoutCancel(r.Context())
	outcome, err := f.Confirm(ctx)
	if err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			h.log.Error("Booking not submitted", "handler", "Confirm", "session_id", sid, "error", err)
		}
		if saveErr := h.save(r, sid, f); saveErr != nil {
			h.renderError(w, r, "Confirm", storeError(saveErr))
			return
		}
		h.redirectAfter(w, r, sid, err)
		return
	}

	snap := f.Snapshot()
	if err := h.sessions.Save(ctx, sid, snap); err != nil {
		h.log.Error("Failed to store booking outcome",
			"handler", "Confirm",
			"session_id", sid,
			"confirmed", outcome.Confirmed(),
			"error", err,
		)
	}

	if eventType, event, ok := events.NewBookingOutcome(sid, snap); ok {
		h.publisher.PublishBookingOutcome(ctx, eventType, event)
	}

	httputil.SeeOther(w, r, resultURL(sid))
}

// Result shows the outcome of a checkout. Without one, the failure page is
// shown.
func (h *StorefrontHandler) Result(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sid := ps.ByName("sid")

	var snap *flow.Snapshot
	if session.ValidID(sid) {
		var err error
		snap, err = h.sessions.Get(r.Context(), sid)
		if err != nil && !errors.Is(err, checkouterrors.ErrSessionNotFound) {
			h.log.Error("Failed to load checkout session", "handler", "Result", "session_id", sid, "error", err)
		}
	}

	h.render(w, r, http.StatusOK, view.PageResult, view.NewResultPage(snap))
}

func (h *StorefrontHandler) notFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.renderError(w, r, "NotFound", apperrors.NotFound(PageNotFoundMessage))
	})
}

// acquire takes the session's submit lock, then loads and restores the
// flow. When ok is false a response has already been written.
func (h *StorefrontHandler) acquire(w http.ResponseWriter, r *http.Request, handler, sid string) (*flow.Flow, func(), bool) {
	if err := r.ParseForm(); err != nil {
		h.renderError(w, r, handler, apperrors.InvalidInput("invalid checkout form: "+err.Error()))
		return nil, nil, false
	}

	if !session.ValidID(sid) {
		h.render(w, r, http.StatusOK, view.PageNoBooking, nil)
		return nil, nil, false
	}

	token, locked, err := h.sessions.Lock(r.Context(), sid)
	if err != nil {
		h.renderError(w, r, handler, storeError(err))
		return nil, nil, false
	}
	if !locked {
		h.log.Info("Checkout busy", "handler", handler, "session_id", sid)
		httputil.SeeOther(w, r, checkoutURL(sid))
		return nil, nil, false
	}

	unlock := func() {
		if err := h.sessions.Unlock(context.WithoutCancel(r.Context()), sid, token); err != nil {
			h.log.Error("Failed to release submit lock", "handler", handler, "session_id", sid, "error", err)
		}
	}

	snap, ok := h.loadSession(w, r, handler, sid)
	if !ok {
		unlock()
		return nil, nil, false
	}

	// The flow outlives a disconnected client; release ends it.
	f, err := flow.Restore(context.WithoutCancel(r.Context()), *snap, h.api, h.validator, h.log.With("session_id", sid))
	if err != nil {
		unlock()
		h.log.Error("Stored checkout is unusable", "handler", handler, "session_id", sid, "error", err)
		h.render(w, r, http.StatusOK, view.PageNoBooking, nil)
		return nil, nil, false
	}

	return f, func() {
		f.Close()
		unlock()
	}, true
}

// loadSession renders the no-booking page for unknown or expired ids.
func (h *StorefrontHandler) loadSession(w http.ResponseWriter, r *http.Request, handler, sid string) (*flow.Snapshot, bool) {
	if !session.ValidID(sid) {
		h.render(w, r, http.StatusOK, view.PageNoBooking, nil)
		return nil, false
	}

	snap, err := h.sessions.Get(r.Context(), sid)
	if errors.Is(err, checkouterrors.ErrSessionNotFound) {
		h.render(w, r, http.StatusOK, view.PageNoBooking, nil)
		return nil, false
	}
	if err != nil {
		h.renderError(w, r, handler, storeError(err))
		return nil, false
	}
	return snap, true
}

func (h *StorefrontHandler) save(r *http.Request, sid string, f *flow.Flow) error {
	return h.sessions.Save(context.WithoutCancel(r.Context()), sid, f.Snapshot())
}

// redirectAfter sends a finished checkout to its result and anything else
// back to the checkout page.
func (h *StorefrontHandler) redirectAfter(w http.ResponseWriter, r *http.Request, sid string, err error) {
	if errors.Is(err, checkouterrors.ErrFlowClosed) {
		httputil.SeeOther(w, r, resultURL(sid))
		return
	}
	httputil.SeeOther(w, r, checkoutURL(sid))
}

// renderError shows the not-found page for missing resources and the
// generic error page for everything else. Details stay in the logs.
func (h *StorefrontHandler) renderError(w http.ResponseWriter, r *http.Request, handler string, err *apperrors.AppError) {
	if err.ServerSide() {
		h.log.Error("Request failed", "handler", handler, "path", r.URL.Path, "code", err.Code, "error", err)
	} else {
		h.log.Info("Request rejected", "handler", handler, "path", r.URL.Path, "code", err.Code, "error", err)
	}

	if err.Code == apperrors.CodeNotFound {
		h.render(w, r, err.StatusCode(), view.PageNotFound, view.MessagePage{Message: err.Message})
		return
	}
	h.render(w, r, err.StatusCode(), view.PageError, view.MessagePage{Message: GenericErrorMessage})
}

func fetchError(err error) *apperrors.AppError {
	if errors.Is(err, catalogerrors.ErrExperienceNotFound) {
		return apperrors.NotFound(ExperienceNotFoundMessage)
	}
	return apperrors.BadGateway("failed to load experience", err)
}

func storeError(err error) *apperrors.AppError {
	return apperrors.Unavailable("checkout sessions", err)
}

func (h *StorefrontHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	if err := h.renderer.Render(w, status, page, data); err != nil {
		h.log.Error("failed to render page", "page", page, "path", r.URL.Path, "operation", "Render", "error", err)
		http.Error(w, GenericErrorMessage, http.StatusInternalServerError)
	}
}

func draftFromForm(r *http.Request) model.BookingDraft {
	return model.BookingDraft{
		Name:      r.PostFormValue("name"),
		Email:     r.PostFormValue("email"),
		Phone:     r.PostFormValue("phone"),
		PromoCode: r.PostFormValue("promo_code"),
	}
}

func queryIndexOr(r *http.Request, key string, fallback int) int {
	v, ok, err := httputil.QueryIndex(r, key)
	if err != nil || !ok {
		return fallback
	}
	return v
}

func experienceURL(id string) string {
	return "/experiences/" + url.PathEscape(id)
}

func selectSlotURL(experienceID string, img int) string {
	q := url.Values{}
	q.Set("img", strconv.Itoa(img))
	q.Set(slotErrorParam, slotErrorValue)
	return experienceURL(experienceID) + "?" + q.Encode()
}

func checkoutURL(sid string) string {
	return "/checkout/" + sid
}

func resultURL(sid string) string {
	return "/result/" + sid
}
