package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// The upstream API speaks plain JSON numbers for amounts.
	decimal.MarshalJSONWithoutQuotes = true
}

// EntryKind distinguishes the two directions a ledger entry can take.
type EntryKind string

const (
	KindAccrual    EntryKind = "accrual"
	KindRedemption EntryKind = "redemption"
)

// Valid reports whether k is one of the two known kinds.
func (k EntryKind) Valid() bool {
	return k == KindAccrual || k == KindRedemption
}

// SessionContext scopes every workflow call to one company and merchant
// group. It is passed explicitly rather than read from ambient state.
type SessionContext struct {
	CompanyCode string `json:"companyCode"`
	GroupCode   string `json:"groupCode"`
}

// RateSnapshot is the exchange ratio in force for one merchant group and one
// direction: ReferenceAmount of currency corresponds to ReferencePoints
// points. A snapshot with ReferencePoints == 0 has not been loaded yet and
// blocks any computation that would use it as a divisor.
type RateSnapshot struct {
	ReferenceAmount decimal.Decimal `json:"referenceAmount"`
	ReferencePoints int64           `json:"referencePoints"`
}

// Loaded reports whether the snapshot is usable for conversions.
func (s RateSnapshot) Loaded() bool {
	return s.ReferencePoints > 0
}

// UnitValue returns the currency value of a single point. The second return
// is false when the snapshot is not loaded or degenerate.
func (s RateSnapshot) UnitValue() (decimal.Decimal, bool) {
	if !s.Loaded() {
		return decimal.Zero, false
	}
	unit := s.ReferenceAmount.Div(decimal.NewFromInt(s.ReferencePoints))
	if unit.Sign() <= 0 {
		return decimal.Zero, false
	}
	return unit, true
}

// LoyaltyCustomer is the server's view of a customer at lookup time. Balance
// is authoritative only upstream; this copy is valid until the next mutation.
type LoyaltyCustomer struct {
	LoyaltyNumber string `json:"loyaltyNumber"`
	Name          string `json:"customerName"`
	Balance       int64  `json:"balance"`
}

// LedgerEntry is one accrual or redemption against a customer's balance.
// ID is zero until the entry has been persisted upstream.
type LedgerEntry struct {
	ID            int64           `json:"id,omitempty"`
	Kind          EntryKind       `json:"kind"`
	LoyaltyNumber string          `json:"loyaltyNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Points        int64           `json:"points"`
	Date          time.Time       `json:"date"`
	CompanyCode   string          `json:"companyCode"`
	GroupCode     string          `json:"groupCode"`
	Narration     string          `json:"narration,omitempty"`
}

// Persisted reports whether the entry carries a server-assigned ID.
func (e LedgerEntry) Persisted() bool {
	return e.ID != 0
}

// EntryRow is a search result row: the entry plus the customer name the
// report tables display alongside it.
type EntryRow struct {
	LedgerEntry
	CustomerName string `json:"customerName,omitempty"`
}

// SearchPage is the accumulated result buffer of a paginated search.
// IsLastPage is inferred: a page shorter than PageSize ends the result set.
type SearchPage struct {
	Items      []EntryRow `json:"items"`
	PageNumber int        `json:"pageNumber"`
	PageSize   int        `json:"pageSize"`
	IsLastPage bool       `json:"isLastPage"`
}
