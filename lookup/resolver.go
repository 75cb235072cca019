// Package lookup resolves a loyalty identifier, typed or scanned, to the
// customer's name and balance.
package lookup

import (
	"context"
	"errors"
	"regexp"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

// ErrInvalidLoyaltyNumber is a local validation failure; it never reaches
// the network.
var ErrInvalidLoyaltyNumber = errors.New("loyalty number must be 3-20 alphanumeric characters")

var loyaltyNumberPattern = regexp.MustCompile(`^[A-Za-z0-9]{3,20}$`)

// ValidLoyaltyNumber reports whether s is a well-formed loyalty number.
func ValidLoyaltyNumber(s string) bool {
	return loyaltyNumberPattern.MatchString(s)
}

// SummaryFetcher is the upstream surface the resolver needs.
type SummaryFetcher interface {
	CustomerSummary(ctx context.Context, loyaltyNumber, groupCode string) (models.LoyaltyCustomer, error)
}

// Resolver validates loyalty numbers and resolves them within one merchant
// group. Concurrent resolves are independent; callers discard stale results
// when the input has moved on (see session.Session).
type Resolver struct {
	client SummaryFetcher
	sctx   models.SessionContext
}

func NewResolver(client SummaryFetcher, sctx models.SessionContext) *Resolver {
	return &Resolver{client: client, sctx: sctx}
}

// Resolve returns the customer snapshot for loyaltyNumber. A malformed
// number fails locally with ErrInvalidLoyaltyNumber; an unknown number
// surfaces the upstream not-found error unchanged so callers can distinguish
// it from server failures.
func (r *Resolver) Resolve(ctx context.Context, loyaltyNumber string) (models.LoyaltyCustomer, error) {
	if !ValidLoyaltyNumber(loyaltyNumber) {
		return models.LoyaltyCustomer{}, ErrInvalidLoyaltyNumber
	}
	return r.client.CustomerSummary(ctx, loyaltyNumber, r.sctx.GroupCode)
}
