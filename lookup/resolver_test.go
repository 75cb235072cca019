package lookup

import (
	"context"
	"errors"
	"testing"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/upstream"
)

type mockSummaryFetcher struct {
	calls   int
	fetchFn func(loyaltyNumber, groupCode string) (models.LoyaltyCustomer, error)
}

func (m *mockSummaryFetcher) CustomerSummary(ctx context.Context, loyaltyNumber, groupCode string) (models.LoyaltyCustomer, error) {
	m.calls++
	if m.fetchFn != nil {
		return m.fetchFn(loyaltyNumber, groupCode)
	}
	return models.LoyaltyCustomer{}, errors.New("not configured")
}

func TestValidLoyaltyNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"CUST123", true},
		{"abc", true},
		{"A1B2C3D4E5F6G7H8I9J0", true},
		{"", false},
		{"ab", false},
		{"A1B2C3D4E5F6G7H8I9J0X", false},
		{"CUST 123", false},
		{"CUST-123", false},
	}
	for _, tt := range tests {
		if got := ValidLoyaltyNumber(tt.in); got != tt.want {
			t.Errorf("ValidLoyaltyNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestResolveInvalidNumberStaysLocal(t *testing.T) {
	fetcher := &mockSummaryFetcher{}
	r := NewResolver(fetcher, models.SessionContext{GroupCode: "GRP1"})

	_, err := r.Resolve(context.Background(), "x!")
	if !errors.Is(err, ErrInvalidLoyaltyNumber) {
		t.Fatalf("expected ErrInvalidLoyaltyNumber, got %v", err)
	}
	if fetcher.calls != 0 {
		t.Fatalf("validation failure must not reach the network; %d calls made", fetcher.calls)
	}
}

func TestResolveSuccess(t *testing.T) {
	fetcher := &mockSummaryFetcher{
		fetchFn: func(loyaltyNumber, groupCode string) (models.LoyaltyCustomer, error) {
			if groupCode != "GRP1" {
				t.Errorf("group code = %q", groupCode)
			}
			return models.LoyaltyCustomer{LoyaltyNumber: loyaltyNumber, Name: "Asha", Balance: 120}, nil
		},
	}
	r := NewResolver(fetcher, models.SessionContext{GroupCode: "GRP1"})

	cust, err := r.Resolve(context.Background(), "CUST123")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if cust.Name != "Asha" || cust.Balance != 120 {
		t.Fatalf("unexpected customer %+v", cust)
	}
}

func TestResolveNotFoundPassesThrough(t *testing.T) {
	notFound := &upstream.Error{Kind: upstream.KindNotFound, Op: "customer summary", Status: 404}
	fetcher := &mockSummaryFetcher{
		fetchFn: func(string, string) (models.LoyaltyCustomer, error) {
			return models.LoyaltyCustomer{}, notFound
		},
	}
	r := NewResolver(fetcher, models.SessionContext{GroupCode: "GRP1"})

	_, err := r.Resolve(context.Background(), "CUST999")
	if !upstream.IsNotFound(err) {
		t.Fatalf("expected not-found to pass through, got %v", err)
	}
}
