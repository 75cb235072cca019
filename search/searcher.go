// Package search implements the debounced, page-by-page search feeding the
// entry editor's pick-an-existing-entry flow.
package search

import (
	"context"
	"sync"
	"time"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

// DefaultDelay is the debounce window: a new term restarts it, and only the
// term that survives the full window is searched.
const DefaultDelay = 400 * time.Millisecond

// DefaultPageSize matches the report tables' page length.
const DefaultPageSize = 20

// FetchFunc fetches one page of results for a term. The searcher binds kind
// and group code outside; see session.Session.
type FetchFunc func(ctx context.Context, term string, page, pageSize int) ([]models.EntryRow, error)

// UpdateFunc is invoked with a copy of the result buffer every time a page
// is applied.
type UpdateFunc func(models.SearchPage)

// Searcher owns the result buffer of one search box. Each keystroke replaces
// the single pending timer; responses are applied in term-issue order and
// stale ones are discarded, so the buffer only ever reflects the most recent
// term even when an older response arrives later.
type Searcher struct {
	ctx      context.Context
	fetch    FetchFunc
	delay    time.Duration
	pageSize int
	onUpdate UpdateFunc

	mu          sync.Mutex
	timer       *time.Timer
	seq         int64 // bumped on every accepted term; tags requests
	term        string
	page        models.SearchPage
	inflightSeq int64 // nonzero while a fetch for that term is in flight
	lastErr     error
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithDelay overrides the debounce window (tests use a short one).
func WithDelay(d time.Duration) Option {
	return func(s *Searcher) { s.delay = d }
}

// WithPageSize overrides the page length.
func WithPageSize(n int) Option {
	return func(s *Searcher) { s.pageSize = n }
}

// WithUpdateFunc registers a callback fired after each applied page.
func WithUpdateFunc(fn UpdateFunc) Option {
	return func(s *Searcher) { s.onUpdate = fn }
}

// New creates a Searcher. ctx bounds all fetches the searcher issues.
func New(ctx context.Context, fetch FetchFunc, opts ...Option) *Searcher {
	s := &Searcher{
		ctx:      ctx,
		fetch:    fetch,
		delay:    DefaultDelay,
		pageSize: DefaultPageSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetTerm registers a new search term. The previous pending timer, if any,
// is cancelled; the request fires only if no newer term arrives within the
// debounce window.
func (s *Searcher) SetTerm(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.term = term
	s.seq++
	seq := s.seq
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() {
		s.run(seq, 1)
	})
}

// LoadMore fetches the next page of the current term. It is a no-op when the
// last page has been reached, when a fetch for this query is already in
// flight, or before any term has been searched.
func (s *Searcher) LoadMore() {
	s.mu.Lock()
	if s.seq == 0 || s.inflightSeq == s.seq || s.page.IsLastPage {
		s.mu.Unlock()
		return
	}
	seq, next := s.seq, s.page.PageNumber+1
	s.mu.Unlock()

	go s.run(seq, next)
}

// Page returns a copy of the accumulated result buffer.
func (s *Searcher) Page() models.SearchPage {
	s.mu.Lock()
	defer s.mu.Unlock()
	page := s.page
	page.Items = append([]models.EntryRow(nil), s.page.Items...)
	return page
}

// Err returns the error of the most recent applied fetch, if any.
func (s *Searcher) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Close cancels any pending debounce timer.
func (s *Searcher) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
}

func (s *Searcher) run(seq int64, page int) {
	s.mu.Lock()
	// Superseded terms never fetch; a second fetch for the same term is
	// ignored. A fetch for an older term may still be in flight here — its
	// response is discarded on arrival, not awaited.
	if seq != s.seq || s.inflightSeq == seq {
		s.mu.Unlock()
		return
	}
	s.inflightSeq = seq
	term, pageSize := s.term, s.pageSize
	s.mu.Unlock()

	items, err := s.fetch(s.ctx, term, page, pageSize)

	s.mu.Lock()
	if s.inflightSeq == seq {
		s.inflightSeq = 0
	}
	if seq != s.seq {
		// A newer term was entered while this request was in flight.
		s.mu.Unlock()
		return
	}
	if err != nil {
		s.lastErr = err
		s.mu.Unlock()
		return
	}
	s.lastErr = nil
	if page == 1 {
		s.page = models.SearchPage{Items: items, PageNumber: 1, PageSize: pageSize}
	} else {
		s.page.Items = append(s.page.Items, items...)
		s.page.PageNumber = page
	}
	s.page.IsLastPage = len(items) < pageSize
	applied := s.page
	applied.Items = append([]models.EntryRow(nil), s.page.Items...)
	onUpdate := s.onUpdate
	s.mu.Unlock()

	if onUpdate != nil {
		onUpdate(applied)
	}
}
