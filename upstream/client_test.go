package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

func TestAccrualRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Ratefixing/Addpointfix/GRP1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok" {
			t.Errorf("unexpected auth header %q", got)
		}
		json.NewEncoder(w).Encode(map[string]any{"amount": 100, "point": 10})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "tok")
	snap, err := c.AccrualRate(context.Background(), "GRP1")
	if err != nil {
		t.Fatalf("AccrualRate: %v", err)
	}
	if !snap.ReferenceAmount.Equal(decimal.NewFromInt(100)) || snap.ReferencePoints != 10 {
		t.Fatalf("unexpected snapshot %+v", snap)
	}
	if !snap.Loaded() {
		t.Fatal("snapshot should report loaded")
	}
}

func TestRedemptionRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Ratefixing/Redeempoints/GRP1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"fpointVal": 50, "point": 5})
	}))
	defer srv.Close()

	snap, err := NewClient(srv.URL, "").RedemptionRate(context.Background(), "GRP1")
	if err != nil {
		t.Fatalf("RedemptionRate: %v", err)
	}
	unit, ok := snap.UnitValue()
	if !ok || !unit.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("unit value = %s ok=%v, want 10", unit, ok)
	}
}

func TestCustomerSummary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/Register/points-summary/CUST123/GRP1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"customerName": "Asha", "balance": 120})
	}))
	defer srv.Close()

	cust, err := NewClient(srv.URL, "").CustomerSummary(context.Background(), "CUST123", "GRP1")
	if err != nil {
		t.Fatalf("CustomerSummary: %v", err)
	}
	if cust.LoyaltyNumber != "CUST123" || cust.Name != "Asha" || cust.Balance != 120 {
		t.Fatalf("unexpected customer %+v", cust)
	}
}

func TestSearchEntriesPaths(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 7, "loyaltyNumber": "CUST123", "customerName": "Asha", "amount": 250, "points": 25, "date": "2026-08-01"},
		})
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "")

	rows, err := c.SearchEntries(context.Background(), models.KindAccrual, "GRP1", "ash", 2, 20)
	if err != nil {
		t.Fatalf("SearchEntries accrual: %v", err)
	}
	if gotPath != "/AddPoints/SearchCustomersWithPoints/GRP1" {
		t.Errorf("accrual path = %s", gotPath)
	}
	if gotQuery != "page=2&pageSize=20&searchTerm=ash" {
		t.Errorf("accrual query = %s", gotQuery)
	}
	if len(rows) != 1 || rows[0].ID != 7 || rows[0].Kind != models.KindAccrual || rows[0].CustomerName != "Asha" {
		t.Fatalf("unexpected rows %+v", rows)
	}
	if rows[0].Date.Format("2006-01-02") != "2026-08-01" {
		t.Errorf("date not parsed: %v", rows[0].Date)
	}

	if _, err := c.SearchEntries(context.Background(), models.KindRedemption, "GRP1", "", 1, 20); err != nil {
		t.Fatalf("SearchEntries redemption: %v", err)
	}
	if gotPath != "/RedeemPoints/SearchRedeemPoints/GRP1" {
		t.Errorf("redemption path = %s", gotPath)
	}
}

func TestCreateEntryRoutesByKind(t *testing.T) {
	tests := []struct {
		kind models.EntryKind
		path string
	}{
		{models.KindAccrual, "/AddPoints/newPoints"},
		{models.KindRedemption, "/RedeemPoints/RedeemPoints"},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			var gotBody entryWire
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != tt.path {
					t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
				}
				json.NewDecoder(r.Body).Decode(&gotBody)
				json.NewEncoder(w).Encode(map[string]any{"id": 42})
			}))
			defer srv.Close()

			entry := models.LedgerEntry{
				Kind:          tt.kind,
				LoyaltyNumber: "CUST123",
				Amount:        decimal.NewFromInt(250),
				Points:        25,
				Date:          time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
				CompanyCode:   "CMP",
				GroupCode:     "GRP1",
				Narration:     "August promo",
			}
			created, err := NewClient(srv.URL, "").CreateEntry(context.Background(), entry)
			if err != nil {
				t.Fatalf("CreateEntry: %v", err)
			}
			if created.ID != 42 {
				t.Fatalf("expected server id 42, got %d", created.ID)
			}
			if gotBody.LoyaltyNumber != "CUST123" || gotBody.Points != 25 || gotBody.Date != "2026-08-01" {
				t.Fatalf("unexpected body %+v", gotBody)
			}
		})
	}
}

func TestUpdateAndDeleteRouting(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	c := NewClient(srv.URL, "")

	entry := models.LedgerEntry{ID: 9, Kind: models.KindAccrual, Date: time.Now()}
	if err := c.UpdateEntry(context.Background(), entry); err != nil {
		t.Fatalf("UpdateEntry: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/AddPoints/updatePoints/9" {
		t.Errorf("accrual update routed to %s %s", gotMethod, gotPath)
	}

	entry.Kind = models.KindRedemption
	if err := c.UpdateEntry(context.Background(), entry); err != nil {
		t.Fatalf("UpdateEntry redemption: %v", err)
	}
	if gotPath != "/RedeemPoints/UpdateRedeem/9" {
		t.Errorf("redemption update routed to %s", gotPath)
	}

	if err := c.DeleteEntry(context.Background(), models.KindAccrual, 9); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if gotMethod != http.MethodDelete || gotPath != "/AddPoints/deletePoints/9" {
		t.Errorf("accrual delete routed to %s %s", gotMethod, gotPath)
	}

	if err := c.DeleteEntry(context.Background(), models.KindRedemption, 9); err != nil {
		t.Fatalf("DeleteEntry redemption: %v", err)
	}
	if gotPath != "/RedeemPoints/DeleteRedeem/9" {
		t.Errorf("redemption delete routed to %s", gotPath)
	}

	if err := c.UpdateEntry(context.Background(), models.LedgerEntry{Kind: models.KindAccrual}); err == nil {
		t.Error("update without id must fail locally")
	}
	if err := c.DeleteEntry(context.Background(), models.KindAccrual, 0); err == nil {
		t.Error("delete without id must fail locally")
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		status int
		kind   Kind
	}{
		{400, KindBadRequest},
		{401, KindUnauthorized},
		{404, KindNotFound},
		{409, KindConflict},
		{500, KindServer},
		{501, KindServer},
		{418, KindUnknown},
	}
	for _, tt := range tests {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))
		_, err := NewClient(srv.URL, "").AccrualRate(context.Background(), "GRP1")
		srv.Close()
		if err == nil {
			t.Errorf("status %d: expected error", tt.status)
			continue
		}
		if got := KindOf(err); got != tt.kind {
			t.Errorf("status %d mapped to %v, want %v", tt.status, got, tt.kind)
		}
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening any more

	_, err := NewClient(srv.URL, "").AccrualRate(context.Background(), "GRP1")
	if KindOf(err) != KindNetwork {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestMalformedBaseURL(t *testing.T) {
	_, err := NewClient("://not-a-url", "").AccrualRate(context.Background(), "GRP1")
	if err == nil {
		t.Fatal("expected error")
	}
	if KindOf(err) != KindUnknown {
		t.Fatalf("expected unknown error, got kind %v", KindOf(err))
	}
}
