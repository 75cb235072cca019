// Package upstream is the REST client for the remote loyalty API. The
// contract is fixed: paths, payload shapes and the status-to-error mapping
// all belong to the server and are reproduced here verbatim.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

const dateLayout = "2006-01-02"

// Client talks to the loyalty API. All calls are single-shot: no retries,
// timeout handling is delegated to the embedded http.Client.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient constructs a client for the API at baseURL. token, when
// non-empty, is sent as a bearer token on every request.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AccrualRate fetches the amount-per-point ratio used when adding points.
func (c *Client) AccrualRate(ctx context.Context, groupCode string) (models.RateSnapshot, error) {
	var out struct {
		Amount decimal.Decimal `json:"amount"`
		Point  int64           `json:"point"`
	}
	err := c.do(ctx, http.MethodGet, "Ratefixing/Addpointfix/"+url.PathEscape(groupCode), nil, nil, &out)
	if err != nil {
		return models.RateSnapshot{}, err
	}
	return models.RateSnapshot{ReferenceAmount: out.Amount, ReferencePoints: out.Point}, nil
}

// RedemptionRate fetches the point-per-amount ratio used when redeeming.
func (c *Client) RedemptionRate(ctx context.Context, groupCode string) (models.RateSnapshot, error) {
	var out struct {
		FpointVal decimal.Decimal `json:"fpointVal"`
		Point     int64           `json:"point"`
	}
	err := c.do(ctx, http.MethodGet, "Ratefixing/Redeempoints/"+url.PathEscape(groupCode), nil, nil, &out)
	if err != nil {
		return models.RateSnapshot{}, err
	}
	return models.RateSnapshot{ReferenceAmount: out.FpointVal, ReferencePoints: out.Point}, nil
}

// CustomerSummary resolves a loyalty number to the customer's name and
// current balance within a merchant group.
func (c *Client) CustomerSummary(ctx context.Context, loyaltyNumber, groupCode string) (models.LoyaltyCustomer, error) {
	var out struct {
		CustomerName string `json:"customerName"`
		Balance      int64  `json:"balance"`
	}
	path := "Register/points-summary/" + url.PathEscape(loyaltyNumber) + "/" + url.PathEscape(groupCode)
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return models.LoyaltyCustomer{}, err
	}
	return models.LoyaltyCustomer{
		LoyaltyNumber: loyaltyNumber,
		Name:          out.CustomerName,
		Balance:       out.Balance,
	}, nil
}

type entryRowWire struct {
	ID            int64           `json:"id"`
	LoyaltyNumber string          `json:"loyaltyNumber"`
	CustomerName  string          `json:"customerName"`
	Amount        decimal.Decimal `json:"amount"`
	Points        int64           `json:"points"`
	Date          string          `json:"date"`
	Narration     string          `json:"narration"`
}

// SearchEntries fetches one page of accrual or redemption candidates
// matching term. The server returns a bare array; an empty or short page
// signals the end of the result set to the caller.
func (c *Client) SearchEntries(ctx context.Context, kind models.EntryKind, groupCode, term string, page, pageSize int) ([]models.EntryRow, error) {
	var path string
	switch kind {
	case models.KindAccrual:
		path = "AddPoints/SearchCustomersWithPoints/" + url.PathEscape(groupCode)
	case models.KindRedemption:
		path = "RedeemPoints/SearchRedeemPoints/" + url.PathEscape(groupCode)
	default:
		return nil, &Error{Kind: KindUnknown, Op: "search entries", Err: fmt.Errorf("unknown entry kind %q", kind)}
	}
	query := url.Values{}
	query.Set("searchTerm", term)
	query.Set("page", strconv.Itoa(page))
	query.Set("pageSize", strconv.Itoa(pageSize))

	var wire []entryRowWire
	if err := c.do(ctx, http.MethodGet, path, query, nil, &wire); err != nil {
		return nil, err
	}
	rows := make([]models.EntryRow, 0, len(wire))
	for _, w := range wire {
		date, _ := parseDate(w.Date)
		rows = append(rows, models.EntryRow{
			LedgerEntry: models.LedgerEntry{
				ID:            w.ID,
				Kind:          kind,
				LoyaltyNumber: w.LoyaltyNumber,
				Amount:        w.Amount,
				Points:        w.Points,
				Date:          date,
				GroupCode:     groupCode,
				Narration:     w.Narration,
			},
			CustomerName: w.CustomerName,
		})
	}
	return rows, nil
}

type entryWire struct {
	LoyaltyNumber string          `json:"loyaltyNumber"`
	Amount        decimal.Decimal `json:"amount"`
	Points        int64           `json:"points"`
	Date          string          `json:"date"`
	CompanyCode   string          `json:"companyCode"`
	GroupCode     string          `json:"groupCode"`
	Narration     string          `json:"narration"`
}

func toWire(e models.LedgerEntry) entryWire {
	return entryWire{
		LoyaltyNumber: e.LoyaltyNumber,
		Amount:        e.Amount,
		Points:        e.Points,
		Date:          e.Date.Format(dateLayout),
		CompanyCode:   e.CompanyCode,
		GroupCode:     e.GroupCode,
		Narration:     e.Narration,
	}
}

// CreateEntry persists a new entry and returns it with the server-assigned
// ID filled in.
func (c *Client) CreateEntry(ctx context.Context, e models.LedgerEntry) (models.LedgerEntry, error) {
	var path string
	switch e.Kind {
	case models.KindAccrual:
		path = "AddPoints/newPoints"
	case models.KindRedemption:
		path = "RedeemPoints/RedeemPoints"
	default:
		return models.LedgerEntry{}, &Error{Kind: KindUnknown, Op: "create entry", Err: fmt.Errorf("unknown entry kind %q", e.Kind)}
	}
	var out struct {
		ID int64 `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, path, nil, toWire(e), &out); err != nil {
		return models.LedgerEntry{}, err
	}
	e.ID = out.ID
	return e, nil
}

// UpdateEntry replaces the persisted entry identified by e.ID.
func (c *Client) UpdateEntry(ctx context.Context, e models.LedgerEntry) error {
	if e.ID == 0 {
		return &Error{Kind: KindUnknown, Op: "update entry", Err: fmt.Errorf("entry has no id")}
	}
	var path string
	switch e.Kind {
	case models.KindAccrual:
		path = "AddPoints/updatePoints/" + strconv.FormatInt(e.ID, 10)
	case models.KindRedemption:
		path = "RedeemPoints/UpdateRedeem/" + strconv.FormatInt(e.ID, 10)
	default:
		return &Error{Kind: KindUnknown, Op: "update entry", Err: fmt.Errorf("unknown entry kind %q", e.Kind)}
	}
	return c.do(ctx, http.MethodPut, path, nil, toWire(e), nil)
}

// DeleteEntry removes the persisted entry. Irreversible.
func (c *Client) DeleteEntry(ctx context.Context, kind models.EntryKind, id int64) error {
	if id == 0 {
		return &Error{Kind: KindUnknown, Op: "delete entry", Err: fmt.Errorf("entry has no id")}
	}
	var path string
	switch kind {
	case models.KindAccrual:
		path = "AddPoints/deletePoints/" + strconv.FormatInt(id, 10)
	case models.KindRedemption:
		path = "RedeemPoints/DeleteRedeem/" + strconv.FormatInt(id, 10)
	default:
		return &Error{Kind: KindUnknown, Op: "delete entry", Err: fmt.Errorf("unknown entry kind %q", kind)}
	}
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	op := method + " " + path
	target := c.baseURL + "/" + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindUnknown, Op: op, Err: err}
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Kind: KindUnknown, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError(op, resp.StatusCode)
	}
	if out == nil {
		return nil
	}
	// An empty 200 body is fine: some mutation endpoints return no payload.
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return &Error{Kind: KindUnknown, Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
