// Package session ties the workflow components together for one screen
// activation: rates are fetched, an editor and a searcher are built, and
// customer lookups are applied with stale results discarded.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/editor"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/lookup"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/rates"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/search"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/upstream"
)

// ErrSuperseded means a lookup response arrived after the input had already
// moved on; the result was discarded, nothing was applied.
var ErrSuperseded = errors.New("lookup superseded by newer input")

// Backend is the full upstream surface a session needs.
type Backend interface {
	editor.Ledger
	lookup.SummaryFetcher
	SearchEntries(ctx context.Context, kind models.EntryKind, groupCode, term string, page, pageSize int) ([]models.EntryRow, error)
}

// Session is the per-screen-activation owner of the workflow state. It is
// rebuilt on every screen focus; nothing survives across sessions.
type Session struct {
	sctx       models.SessionContext
	backend    Backend
	provider   rates.Provider
	resolver   *lookup.Resolver
	searchOpts []search.Option

	Editor   *editor.Editor
	Searcher *search.Searcher

	accrual    models.RateSnapshot
	redemption models.RateSnapshot

	mu            sync.Mutex
	pendingLookup string
	customer      *models.LoyaltyCustomer
}

// Options configure the session's editor and searcher.
type Options struct {
	Confirm       editor.ConfirmFunc
	Publisher     editor.Publisher
	SearchOptions []search.Option
}

func New(sctx models.SessionContext, backend Backend, provider rates.Provider, opts Options) *Session {
	s := &Session{
		sctx:     sctx,
		backend:  backend,
		provider: provider,
		resolver: lookup.NewResolver(backend, sctx),
	}
	s.Editor = editor.New(backend, sctx, opts.Confirm)
	if opts.Publisher != nil {
		s.Editor.SetPublisher(opts.Publisher)
	}
	s.searchOpts = opts.SearchOptions
	return s
}

// Activate performs the screen-activation work for one entry direction:
// exactly one fetch attempt per rate direction, then a fresh searcher bound
// to that direction. A failed rate fetch leaves the snapshots unloaded,
// which blocks dependent computations until the screen is re-activated.
func (s *Session) Activate(ctx context.Context, kind models.EntryKind) error {
	if !kind.Valid() {
		return fmt.Errorf("unknown entry kind %q", kind)
	}

	var fetchErr error
	accrual, err := s.provider.AccrualRate(ctx, s.sctx.GroupCode)
	if err != nil {
		fetchErr = err
		accrual = models.RateSnapshot{}
	}
	redemption, err := s.provider.RedemptionRate(ctx, s.sctx.GroupCode)
	if err != nil {
		fetchErr = err
		redemption = models.RateSnapshot{}
	}
	s.accrual, s.redemption = accrual, redemption
	s.Editor.Reset()
	s.Editor.SetRates(accrual, redemption)

	if s.Searcher != nil {
		s.Searcher.Close()
	}
	s.Searcher = search.New(ctx, func(ctx context.Context, term string, page, pageSize int) ([]models.EntryRow, error) {
		return s.backend.SearchEntries(ctx, kind, s.sctx.GroupCode, term, page, pageSize)
	}, s.searchOpts...)

	s.mu.Lock()
	s.pendingLookup = ""
	s.customer = nil
	s.mu.Unlock()

	return fetchErr
}

// Rates returns the snapshots fetched on activation.
func (s *Session) Rates() (accrual, redemption models.RateSnapshot) {
	return s.accrual, s.redemption
}

// Customer returns the currently applied customer snapshot, if any.
func (s *Session) Customer() (models.LoyaltyCustomer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.customer == nil {
		return models.LoyaltyCustomer{}, false
	}
	return *s.customer, true
}

// LookupCustomer resolves a typed or scanned loyalty number and applies the
// result to the editor. If the input changes before the response arrives the
// stale result is discarded. A not-found response clears the name/balance
// display but leaves the session editable for a fresh number.
func (s *Session) LookupCustomer(ctx context.Context, loyaltyNumber string) (models.LoyaltyCustomer, error) {
	s.mu.Lock()
	s.pendingLookup = loyaltyNumber
	s.mu.Unlock()

	cust, err := s.resolver.Resolve(ctx, loyaltyNumber)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pendingLookup != loyaltyNumber {
		return models.LoyaltyCustomer{}, ErrSuperseded
	}
	if err != nil {
		if upstream.IsNotFound(err) {
			s.customer = nil
			s.Editor.ClearCustomer()
		}
		return models.LoyaltyCustomer{}, err
	}
	s.customer = &cust
	s.Editor.SetCustomer(cust)
	return cust, nil
}

// SelectEntry feeds a search result row into the editor's editing flow.
func (s *Session) SelectEntry(row models.EntryRow) {
	s.Editor.Load(row)
}
