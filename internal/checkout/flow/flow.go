package flow

import (
	"context"
	"errors"
	"fmt"
	checkouterrors "storefront/internal/checkout/errors"
	"storefront/internal/checkout/validator"
	"storefront/pkg/client"
	"storefront/pkg/logger"
	"storefront/pkg/model"
	"storefront/pkg/sanitizer"
	"sync"
)

// API is the part of the Booking API a checkout talks to.
type API interface {
	ValidatePromo(ctx context.Context, req model.PromoRequest) (*model.PromoResult, error)
	CreateBooking(ctx context.Context, req model.BookingRequest) (*model.BookingConfirmation, error)
}

type ContactValidator interface {
	Validate(draft *model.BookingDraft) error
}

// Flow is one checkout: editing the draft, applying promo codes and
// submitting exactly one booking.
//
// A Flow owns a lifetime context. Close cancels it; any API call still
// running is aborted and its response is dropped without touching state.
type Flow struct {
	mu sync.Mutex

	ctx    context.Context
	cancel context.CancelFunc

	api       API
	validator ContactValidator
	log       *logger.Logger

	booking      BookingContext
	draft        model.BookingDraft
	state        State
	discount     int64
	appliedPromo string
	promoMessage string
	errMessage   string
	fieldErrors  map[string]string
	outcome      *Outcome
}

// New starts a checkout for bc. bc must name an available slot of an
// experience with an id, a title and a non-negative price.
func New(ctx context.Context, bc BookingContext, api API, v ContactValidator, log *logger.Logger) (*Flow, error) {
	return Restore(ctx, Snapshot{Booking: bc, State: StateEditing}, api, v, log)
}

// Restore rebuilds a flow from a stored snapshot. A transient state left
// behind by an interrupted request comes back as editing.
func Restore(ctx context.Context, snap Snapshot, api API, v ContactValidator, log *logger.Logger) (*Flow, error) {
	if err := snap.Booking.Validate(); err != nil {
		return nil, err
	}

	state := snap.State
	if state == "" || state.Transient() {
		state = StateEditing
	}
	if !state.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", checkouterrors.ErrInvalidBookingContext, snap.State)
	}

	lifetime, cancel := context.WithCancel(ctx)

	return &Flow{
		ctx:          lifetime,
		cancel:       cancel,
		api:          api,
		validator:    v,
		log:          log.With("experience_id", snap.Booking.Experience.ID, "slot_id", snap.Booking.Slot.ID),
		booking:      snap.Booking,
		draft:        snap.Draft,
		state:        state,
		discount:     sanitizer.NonNegative(snap.Discount),
		appliedPromo: snap.AppliedPromo,
		promoMessage: snap.PromoMessage,
		errMessage:   snap.Error,
		fieldErrors:  copyFieldErrors(snap.FieldErrors),
		outcome:      snap.Outcome,
	}, nil
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	return Snapshot{
		Booking:      f.booking,
		Draft:        f.draft,
		State:        f.state,
		Discount:     f.discount,
		AppliedPromo: f.appliedPromo,
		PromoMessage: f.promoMessage,
		Error:        f.errMessage,
		FieldErrors:  copyFieldErrors(f.fieldErrors),
		Outcome:      f.outcome,
	}
}

// Close ends the flow's lifetime. It is safe to call more than once.
func (f *Flow) Close() {
	f.cancel()
}

func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Flow) Discount() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.discount
}

// Total is max(price - discount, 0).
func (f *Flow) Total() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return payable(f.booking.Experience.Price, f.discount)
}

// CanSubmit reports whether Confirm would send a request right now.
func (f *Flow) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == StateEditing && f.ctx.Err() == nil
}

func (f *Flow) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMessage
}

func (f *Flow) Outcome() *Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// SetDraft replaces the contact form. The name is whitespace-normalized and
// the email and promo code are trimmed. The phone is kept exactly as typed so
// padding fails the 10 digit check.
func (f *Flow) SetDraft(draft model.BookingDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkIdle(); err != nil {
		return err
	}

	f.draft = model.BookingDraft{
		Name:      sanitizer.NormalizeName(draft.Name),
		Email:     sanitizer.NormalizeEmail(draft.Email),
		Phone:     draft.Phone,
		PromoCode: sanitizer.NormalizePromoCode(draft.PromoCode),
	}
	return nil
}

// ApplyPromo validates code against the experience price. A blank code is
// a no-op returning ErrEmptyPromoCode. A rejected code is not an error: the
// discount drops to zero and Error carries the message to show.
func (f *Flow) ApplyPromo(ctx context.Context, code string) error {
	code = sanitizer.NormalizePromoCode(code)

	f.mu.Lock()
	if err := f.checkIdle(); err != nil {
		f.mu.Unlock()
		return err
	}
	if code == "" {
		f.mu.Unlock()
		return checkouterrors.ErrEmptyPromoCode
	}

	f.draft.PromoCode = code
	f.state = StateApplyingPromo
	req := model.PromoRequest{Code: code, CurrentPrice: f.booking.Experience.Price}
	f.mu.Unlock()

	callCtx, release := f.bind(ctx)
	res, err := f.api.ValidatePromo(callCtx, req)
	release()

	f.mu.Lock()
	defer f.mu.Unlock()

	if dropErr := f.dropped(ctx); dropErr != nil {
		f.log.Info("Discarding promo response", "code", code, "reason", dropErr)
		return dropErr
	}

	f.state = StateEditing

	if err != nil {
		f.discount = 0
		f.appliedPromo = ""
		f.promoMessage = ""
		f.errMessage = client.MessageOf(err, InvalidPromoMessage)
		f.log.Warn("Promo code rejected",
			"code", code,
			"error", err,
		)
		return nil
	}

	f.discount = sanitizer.NonNegative(res.Discount)
	f.appliedPromo = code
	f.promoMessage = res.Message
	f.errMessage = ""
	f.log.Info("Promo code applied",
		"code", code,
		"discount", f.discount,
		"total", payable(f.booking.Experience.Price, f.discount),
	)
	return nil
}

// Confirm submits the booking. Contact details are checked locally first;
// on failure the returned error is validator.ValidationErrors and nothing
// is sent. Otherwise the flow ends in succeeded or failed and the returned
// Outcome says which.
func (f *Flow) Confirm(ctx context.Context) (*Outcome, error) {
	f.mu.Lock()
	if err := f.checkIdle(); err != nil {
		f.mu.Unlock()
		return nil, err
	}

	draft := f.draft
	if err := f.validator.Validate(&draft); err != nil {
		f.errMessage = validator.FormRejectedMessage
		f.fieldErrors = fieldErrorsOf(err)
		f.mu.Unlock()
		f.log.Info("Booking rejected by local validation", "error", err)
		return nil, err
	}
	f.fieldErrors = nil
	f.errMessage = ""

	req := model.BookingRequest{
		ExperienceID: f.booking.Experience.ID,
		Slot:         f.booking.Slot.ID,
		User: model.BookingUser{
			Name:  sanitizer.NameOrDefault(draft.Name, model.DefaultGuestName),
			Email: draft.Email,
			Phone: draft.Phone,
		},
		TotalPrice: payable(f.booking.Experience.Price, f.discount),
		PromoCode:  draft.PromoCode,
		NumTickets: model.TicketsPerBooking,
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	callCtx, release := f.bind(ctx)
	booking, err := f.api.CreateBooking(callCtx, req)
	release()

	f.mu.Lock()
	defer f.mu.Unlock()

	if dropErr := f.dropped(ctx); dropErr != nil {
		f.log.Warn("Discarding booking response", "reason", dropErr)
		return nil, dropErr
	}

	if err != nil {
		f.state = StateFailed
		f.outcome = &Outcome{Error: client.MessageOf(err, BookingFailedMessage)}
		f.log.Error("Booking failed",
			"total", req.TotalPrice,
			"promo_code", req.PromoCode,
			"error", err,
		)
		return f.outcome, nil
	}

	f.state = StateSucceeded
	f.outcome = &Outcome{Success: true, Booking: booking}
	f.log.Info("Booking confirmed",
		"booking_id", booking.Reference(),
		"total", req.TotalPrice,
	)
	return f.outcome, nil
}

// checkIdle must be called with mu held.
func (f *Flow) checkIdle() error {
	if f.ctx.Err() != nil || f.state.Terminal() {
		return checkouterrors.ErrFlowClosed
	}
	switch f.state {
	case StateSubmitting:
		return checkouterrors.ErrSubmissionInFlight
	case StateApplyingPromo:
		return checkouterrors.ErrPromoInFlight
	}
	return nil
}

// dropped reports why a response must be discarded, or nil. A discarded
// response leaves the flow editable. Must be called with mu held.
func (f *Flow) dropped(ctx context.Context) error {
	if err := f.ctx.Err(); err != nil {
		f.state = StateEditing
		return err
	}
	if err := ctx.Err(); err != nil {
		f.state = StateEditing
		return err
	}
	return nil
}

// bind derives a context for one API call that ends with either ctx or the
// flow's lifetime.
func (f *Flow) bind(ctx context.Context) (context.Context, func()) {
	callCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(f.ctx, cancel)
	return callCtx, func() {
		stop()
		cancel()
	}
}

func payable(price, discount int64) int64 {
	return sanitizer.NonNegative(price - discount)
}

func fieldErrorsOf(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field] = e.Message
	}
	return out
}

func copyFieldErrors(in map[string]string) map[string]string {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
