// Package rates fetches the point-value exchange rates for a merchant group.
package rates

import (
	"context"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	redisx "github.com/dikshitechnologies/LoyaltyPoints-sub000/redis"
)

// Provider yields the two rate snapshots for a group. Each call is a single
// fetch attempt; callers that get an error must treat the rates as unknown
// and disable dependent computations until they retry.
type Provider interface {
	AccrualRate(ctx context.Context, groupCode string) (models.RateSnapshot, error)
	RedemptionRate(ctx context.Context, groupCode string) (models.RateSnapshot, error)
}

// HTTPProvider reads rates straight from the upstream API, once per call.
type HTTPProvider struct {
	client Provider
}

// NewHTTPProvider wraps the upstream client (which already satisfies
// Provider) so gateway wiring has a named type to decorate.
func NewHTTPProvider(client Provider) *HTTPProvider {
	return &HTTPProvider{client: client}
}

func (p *HTTPProvider) AccrualRate(ctx context.Context, groupCode string) (models.RateSnapshot, error) {
	return p.client.AccrualRate(ctx, groupCode)
}

func (p *HTTPProvider) RedemptionRate(ctx context.Context, groupCode string) (models.RateSnapshot, error) {
	return p.client.RedemptionRate(ctx, groupCode)
}

// CachedProvider decorates a Provider with a short-TTL Redis cache. Only the
// gateway uses this; the session core always fetches fresh on activation.
type CachedProvider struct {
	next  Provider
	cache *redisx.ViewCache[models.RateSnapshot]
}

func NewCachedProvider(next Provider, cache *redisx.ViewCache[models.RateSnapshot]) *CachedProvider {
	return &CachedProvider{next: next, cache: cache}
}

func (p *CachedProvider) AccrualRate(ctx context.Context, groupCode string) (models.RateSnapshot, error) {
	return p.rate(ctx, "rate:accrual:"+groupCode, groupCode, p.next.AccrualRate)
}

func (p *CachedProvider) RedemptionRate(ctx context.Context, groupCode string) (models.RateSnapshot, error) {
	return p.rate(ctx, "rate:redemption:"+groupCode, groupCode, p.next.RedemptionRate)
}

func (p *CachedProvider) rate(ctx context.Context, key, groupCode string, fetch func(context.Context, string) (models.RateSnapshot, error)) (models.RateSnapshot, error) {
	if cached, ok := p.cache.Get(ctx, key); ok {
		return *cached, nil
	}
	snap, err := fetch(ctx, groupCode)
	if err != nil {
		return models.RateSnapshot{}, err
	}
	p.cache.Set(ctx, key, &snap)
	return snap, nil
}
