// Package editor orchestrates create, update and delete of a single accrual
// or redemption entry against the remote ledger. One editor serves one
// screen session; there is never more than one in-progress entry.
package editor

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/events"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/points"
)

// State is the editor's position in the entry lifecycle.
type State int

const (
	StateEmpty State = iota
	StatePopulated
	StateEditing
	StateSubmitting
	StateSubmittingUpdate
	StateSubmittingDelete
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StatePopulated:
		return "populated"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmittingUpdate:
		return "submitting update"
	case StateSubmittingDelete:
		return "submitting delete"
	default:
		return "unknown"
	}
}

var (
	// ErrNotConfirmed means the user declined the yes/no gate; no network
	// call was made and the form is untouched.
	ErrNotConfirmed = errors.New("action not confirmed")
	// ErrNothingToSubmit means the form has not been populated yet.
	ErrNothingToSubmit = errors.New("nothing to submit")
	// ErrNoEntryLoaded means update/delete was requested without loading a
	// persisted entry first.
	ErrNoEntryLoaded = errors.New("no entry loaded")
)

// ConfirmFunc is the user's yes/no gate ahead of every mutation. A nil
// ConfirmFunc treats every action as confirmed; callers that gate elsewhere
// (for example the gateway's confirmed request field) rely on that.
type ConfirmFunc func(action string) bool

// Ledger is the mutation surface of the remote API.
type Ledger interface {
	CreateEntry(ctx context.Context, e models.LedgerEntry) (models.LedgerEntry, error)
	UpdateEntry(ctx context.Context, e models.LedgerEntry) error
	DeleteEntry(ctx context.Context, kind models.EntryKind, id int64) error
}

// Publisher receives domain events after successful mutations.
type Publisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

type form struct {
	kind          models.EntryKind
	loyaltyNumber string
	amount        decimal.Decimal
	amountOK      bool
	pts           decimal.Decimal
	ptsOK         bool
	date          time.Time
	narration     string
}

// Editor is the per-session entry state machine.
type Editor struct {
	ledger    Ledger
	publisher Publisher
	confirm   ConfirmFunc
	sctx      models.SessionContext

	accrual    models.RateSnapshot
	redemption models.RateSnapshot

	state   State
	form    form
	entryID int64

	customer     *models.LoyaltyCustomer
	loadedPoints int64
	baseline     int64
	hasBaseline  bool
}

func New(ledger Ledger, sctx models.SessionContext, confirm ConfirmFunc) *Editor {
	return &Editor{ledger: ledger, sctx: sctx, confirm: confirm}
}

// SetPublisher wires an optional domain event publisher.
func (e *Editor) SetPublisher(p Publisher) { e.publisher = p }

// SetRates installs the session's rate snapshots. Unloaded snapshots leave
// derived fields uncomputable, which Validate reports.
func (e *Editor) SetRates(accrual, redemption models.RateSnapshot) {
	e.accrual = accrual
	e.redemption = redemption
}

// SetCustomer installs the looked-up customer. While editing, the baseline
// balance is recomputed against the freshly resolved balance.
func (e *Editor) SetCustomer(c models.LoyaltyCustomer) {
	e.customer = &c
	if e.state == StateEditing {
		e.computeBaseline()
	}
}

// ClearCustomer drops the customer snapshot, e.g. after a not-found lookup.
func (e *Editor) ClearCustomer() {
	e.customer = nil
	e.hasBaseline = false
}

func (e *Editor) State() State           { return e.state }
func (e *Editor) Kind() models.EntryKind { return e.form.kind }
func (e *Editor) EntryID() int64         { return e.entryID }
func (e *Editor) LoyaltyNumber() string  { return e.form.loyaltyNumber }

// ComputedPoints returns the current point value of the form, derived for
// accruals, entered for redemptions. ok is false until it is computable.
func (e *Editor) ComputedPoints() (decimal.Decimal, bool) {
	return e.form.pts, e.form.ptsOK
}

// ComputedAmount is the currency counterpart of ComputedPoints.
func (e *Editor) ComputedAmount() (decimal.Decimal, bool) {
	return e.form.amount, e.form.amountOK
}

// AvailableBalance is the balance submissions are judged against: the
// pre-transaction baseline while editing, the customer's live balance
// otherwise. ok is false when no customer is resolved.
func (e *Editor) AvailableBalance() (int64, bool) {
	if e.state == StateEditing {
		return e.baseline, e.hasBaseline
	}
	if e.customer == nil {
		return 0, false
	}
	return e.customer.Balance, true
}

// PopulateAccrual fills the form for a new accrual. amount is raw input;
// points are derived from the accrual rate when possible.
func (e *Editor) PopulateAccrual(loyaltyNumber, amount string, date time.Time, narration string) {
	e.resetForm()
	e.form.kind = models.KindAccrual
	e.form.loyaltyNumber = loyaltyNumber
	e.form.date = date
	e.form.narration = narration
	e.state = StatePopulated
	e.setAmountInput(amount)
}

// PopulateRedemption fills the form for a new redemption. pts is raw input;
// the payout amount is derived from the redemption rate when possible.
func (e *Editor) PopulateRedemption(loyaltyNumber, pts string, date time.Time, narration string) {
	e.resetForm()
	e.form.kind = models.KindRedemption
	e.form.loyaltyNumber = loyaltyNumber
	e.form.date = date
	e.form.narration = narration
	e.state = StatePopulated
	e.setPointsInput(pts)
}

// Load moves the editor into EDITING over a persisted entry picked from
// search results. The baseline balance undoes the entry's own effect: an
// accrual's points are subtracted back out, a redemption's added back in, so
// the displayed balance is balance-as-if-this-entry-had-not-happened.
func (e *Editor) Load(row models.EntryRow) {
	e.form = form{
		kind:          row.Kind,
		loyaltyNumber: row.LoyaltyNumber,
		amount:        row.Amount,
		amountOK:      true,
		pts:           decimal.NewFromInt(row.Points),
		ptsOK:         true,
		date:          row.Date,
		narration:     row.Narration,
	}
	e.entryID = row.ID
	e.loadedPoints = row.Points
	e.state = StateEditing
	e.computeBaseline()
}

func (e *Editor) computeBaseline() {
	e.hasBaseline = false
	if e.customer == nil {
		return
	}
	switch e.form.kind {
	case models.KindAccrual:
		e.baseline = e.customer.Balance - e.loadedPoints
	case models.KindRedemption:
		e.baseline = e.customer.Balance + e.loadedPoints
	default:
		return
	}
	e.hasBaseline = true
}

// SetAmount re-enters the amount field. For accruals the point value is
// re-derived; a redemption's amount is derived, not entered, so there the
// call only overwrites the raw value.
func (e *Editor) SetAmount(amount string) {
	if e.state != StatePopulated && e.state != StateEditing {
		return
	}
	e.setAmountInput(amount)
}

// SetPoints re-enters the point field; a redemption's payout amount is
// re-derived from it.
func (e *Editor) SetPoints(pts string) {
	if e.state != StatePopulated && e.state != StateEditing {
		return
	}
	e.setPointsInput(pts)
}

func (e *Editor) SetNarration(narration string) { e.form.narration = narration }
func (e *Editor) SetDate(date time.Time)        { e.form.date = date }

func (e *Editor) setAmountInput(amount string) {
	e.form.amount, e.form.amountOK = points.ParseAmount(amount)
	if e.form.kind == models.KindAccrual {
		e.form.pts, e.form.ptsOK = decimal.Zero, false
		if e.form.amountOK {
			e.form.pts, e.form.ptsOK = points.AmountToPoints(e.form.amount, e.accrual)
		}
	}
}

func (e *Editor) setPointsInput(pts string) {
	e.form.pts, e.form.ptsOK = points.ParseAmount(pts)
	if e.form.kind == models.KindRedemption {
		e.form.amount, e.form.amountOK = decimal.Zero, false
		if e.form.ptsOK {
			e.form.amount, e.form.amountOK = points.PointsToAmount(e.form.pts, e.redemption)
		}
	}
}

// SubmitCreate validates, gates on confirmation and issues exactly one
// create call. Success resets the form to EMPTY; failure leaves the form
// populated so the user can correct and retry.
func (e *Editor) SubmitCreate(ctx context.Context) (models.LedgerEntry, error) {
	if e.state != StatePopulated {
		return models.LedgerEntry{}, ErrNothingToSubmit
	}
	if errs := e.Validate(); len(errs) > 0 {
		return models.LedgerEntry{}, errs
	}
	if !e.confirmed("create") {
		return models.LedgerEntry{}, ErrNotConfirmed
	}

	entry := e.buildEntry()
	entry.ID = 0
	e.state = StateSubmitting
	created, err := e.ledger.CreateEntry(ctx, entry)
	if err != nil {
		e.state = StatePopulated
		return models.LedgerEntry{}, err
	}

	eventType := events.PointsAccrued
	if created.Kind == models.KindRedemption {
		eventType = events.PointsRedeemed
	}
	e.publish(ctx, eventType, mutationEvent(created))
	e.Reset()
	return created, nil
}

// SubmitUpdate replaces the loaded entry. Redemption edits additionally
// enforce points <= available balance against the pre-transaction baseline;
// that violation is local and never reaches the server.
func (e *Editor) SubmitUpdate(ctx context.Context) (models.LedgerEntry, error) {
	if e.state != StateEditing || e.entryID == 0 {
		return models.LedgerEntry{}, ErrNoEntryLoaded
	}
	errs := e.Validate()
	if e.form.kind == models.KindRedemption && e.hasBaseline && e.form.ptsOK &&
		e.form.pts.GreaterThan(decimal.NewFromInt(e.baseline)) {
		errs = append(errs, FieldError{Field: "points", Message: "exceeds available balance"})
	}
	if len(errs) > 0 {
		return models.LedgerEntry{}, errs
	}
	if !e.confirmed("update") {
		return models.LedgerEntry{}, ErrNotConfirmed
	}

	entry := e.buildEntry()
	e.state = StateSubmittingUpdate
	if err := e.ledger.UpdateEntry(ctx, entry); err != nil {
		e.state = StateEditing
		return models.LedgerEntry{}, err
	}

	e.publish(ctx, events.EntryUpdated, mutationEvent(entry))
	e.Reset()
	return entry, nil
}

// SubmitDelete removes the loaded entry. Irreversible; requires a persisted
// ID, which is checked before anything else happens.
func (e *Editor) SubmitDelete(ctx context.Context) error {
	if e.entryID == 0 || e.state != StateEditing {
		return ErrNoEntryLoaded
	}
	if !e.confirmed("delete") {
		return ErrNotConfirmed
	}

	kind, id := e.form.kind, e.entryID
	e.state = StateSubmittingDelete
	if err := e.ledger.DeleteEntry(ctx, kind, id); err != nil {
		e.state = StateEditing
		return err
	}

	e.publish(ctx, events.EntryDeleted, events.EntryDeletedEvent{
		EntryID:   id,
		Kind:      string(kind),
		GroupCode: e.sctx.GroupCode,
	})
	e.Reset()
	return nil
}

// Reset clears the form back to EMPTY. The customer snapshot is dropped too:
// after a mutation it is stale and must be re-resolved.
func (e *Editor) Reset() {
	e.resetForm()
	e.customer = nil
	e.state = StateEmpty
}

func (e *Editor) resetForm() {
	e.form = form{}
	e.entryID = 0
	e.loadedPoints = 0
	e.baseline = 0
	e.hasBaseline = false
}

func (e *Editor) confirmed(action string) bool {
	if e.confirm == nil {
		return true
	}
	return e.confirm(action)
}

func (e *Editor) buildEntry() models.LedgerEntry {
	return models.LedgerEntry{
		ID:            e.entryID,
		Kind:          e.form.kind,
		LoyaltyNumber: e.form.loyaltyNumber,
		Amount:        e.form.amount.Round(2),
		Points:        e.form.pts.IntPart(),
		Date:          e.form.date,
		CompanyCode:   e.sctx.CompanyCode,
		GroupCode:     e.sctx.GroupCode,
		Narration:     strings.TrimSpace(e.form.narration),
	}
}

func mutationEvent(entry models.LedgerEntry) events.PointsMutationEvent {
	return events.PointsMutationEvent{
		EntryID:       entry.ID,
		Kind:          string(entry.Kind),
		LoyaltyNumber: entry.LoyaltyNumber,
		GroupCode:     entry.GroupCode,
		Points:        entry.Points,
		Amount:        entry.Amount.StringFixed(2),
	}
}

func (e *Editor) publish(ctx context.Context, eventType string, data any) {
	if e.publisher == nil {
		return
	}
	if err := e.publisher.Publish(ctx, events.PointsEventsStream, eventType, data); err != nil {
		log.Printf("Failed to publish %s event: %v", eventType, err)
	}
}
