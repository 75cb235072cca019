package query

import (
	"context"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/lookup"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/rates"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SearchBackend is the upstream read surface the query service needs beyond
// rates.
type SearchBackend interface {
	lookup.SummaryFetcher
	SearchEntries(ctx context.Context, kind models.EntryKind, groupCode, term string, page, pageSize int) ([]models.EntryRow, error)
}

// GroupRates pairs the two rate snapshots a screen activation needs.
type GroupRates struct {
	Accrual    models.RateSnapshot `json:"accrual"`
	Redemption models.RateSnapshot `json:"redemption"`
}

// PointsQueryService serves the read side: rates, customer summaries and
// paginated entry search. Everything is a pass-through to the upstream API;
// the rate provider may be cache-decorated.
type PointsQueryService struct {
	provider rates.Provider
	backend  SearchBackend
}

func NewPointsQueryService(provider rates.Provider, backend SearchBackend) *PointsQueryService {
	return &PointsQueryService{provider: provider, backend: backend}
}

// Rates fetches both direction snapshots for a group, one attempt each.
func (s *PointsQueryService) Rates(q cqrs.GetRatesQuery) (GroupRates, error) {
	ctx := context.Background()
	accrual, err := s.provider.AccrualRate(ctx, q.GroupCode)
	if err != nil {
		return GroupRates{}, err
	}
	redemption, err := s.provider.RedemptionRate(ctx, q.GroupCode)
	if err != nil {
		return GroupRates{}, err
	}
	return GroupRates{Accrual: accrual, Redemption: redemption}, nil
}

// Customer resolves a loyalty number. Malformed numbers fail locally with
// lookup.ErrInvalidLoyaltyNumber before any network traffic.
func (s *PointsQueryService) Customer(q cqrs.ResolveCustomerQuery) (models.LoyaltyCustomer, error) {
	if !lookup.ValidLoyaltyNumber(q.LoyaltyNumber) {
		return models.LoyaltyCustomer{}, lookup.ErrInvalidLoyaltyNumber
	}
	return s.backend.CustomerSummary(context.Background(), q.LoyaltyNumber, q.GroupCode)
}

// Search fetches one page of entry candidates. The debounce that collapses
// keystrokes lives in the session core on the device; the gateway serves
// each page request it actually receives.
func (s *PointsQueryService) Search(q cqrs.SearchEntriesQuery) (models.SearchPage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	pageSize := q.PageSize
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	items, err := s.backend.SearchEntries(context.Background(), q.Kind, q.GroupCode, q.Term, page, pageSize)
	if err != nil {
		return models.SearchPage{}, err
	}
	return models.SearchPage{
		Items:      items,
		PageNumber: page,
		PageSize:   pageSize,
		IsLastPage: len(items) < pageSize,
	}, nil
}
