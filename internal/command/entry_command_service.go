package command

import (
	"context"
	"fmt"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/cqrs"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/editor"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/lookup"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
	"github.com/dikshitechnologies/LoyaltyPoints-sub000/rates"
)

// EntryCommandService drives the entry editor for stateless gateway
// requests: each command builds a fresh editor, feeds it the request's
// fields and submits. The confirmation gate is satisfied by the request's
// Confirmed flag, so an unconfirmed command never reaches the upstream API.
type EntryCommandService struct {
	ledger    editor.Ledger
	provider  rates.Provider
	customers lookup.SummaryFetcher
	publisher editor.Publisher
}

func NewEntryCommandService(ledger editor.Ledger, provider rates.Provider, customers lookup.SummaryFetcher, publisher editor.Publisher) *EntryCommandService {
	return &EntryCommandService{
		ledger:    ledger,
		provider:  provider,
		customers: customers,
		publisher: publisher,
	}
}

func (s *EntryCommandService) newEditor(ctx context.Context, sctx models.SessionContext, kind models.EntryKind, confirmed bool) (*editor.Editor, error) {
	var accrual, redemption models.RateSnapshot
	var err error
	switch kind {
	case models.KindAccrual:
		accrual, err = s.provider.AccrualRate(ctx, sctx.GroupCode)
	case models.KindRedemption:
		redemption, err = s.provider.RedemptionRate(ctx, sctx.GroupCode)
	default:
		return nil, fmt.Errorf("unknown entry kind %q", kind)
	}
	if err != nil {
		return nil, fmt.Errorf("rates unavailable: %w", err)
	}

	ed := editor.New(s.ledger, sctx, func(string) bool { return confirmed })
	if s.publisher != nil {
		ed.SetPublisher(s.publisher)
	}
	ed.SetRates(accrual, redemption)
	return ed, nil
}

func (s *EntryCommandService) Create(cmd cqrs.CreateEntryCommand) (models.LedgerEntry, error) {
	ctx := context.Background()
	ed, err := s.newEditor(ctx, cmd.Session, cmd.Kind, cmd.Confirmed)
	if err != nil {
		return models.LedgerEntry{}, err
	}
	switch cmd.Kind {
	case models.KindAccrual:
		ed.PopulateAccrual(cmd.LoyaltyNumber, cmd.Amount, cmd.Date, cmd.Narration)
	case models.KindRedemption:
		ed.PopulateRedemption(cmd.LoyaltyNumber, cmd.Points, cmd.Date, cmd.Narration)
	}
	return ed.SubmitCreate(ctx)
}

func (s *EntryCommandService) Update(cmd cqrs.UpdateEntryCommand) (models.LedgerEntry, error) {
	ctx := context.Background()
	ed, err := s.newEditor(ctx, cmd.Session, cmd.Kind, cmd.Confirmed)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	// Redemption edits are judged against the customer's pre-transaction
	// balance, so the live balance has to be resolved first.
	if cmd.Kind == models.KindRedemption {
		cust, err := s.customers.CustomerSummary(ctx, cmd.LoyaltyNumber, cmd.Session.GroupCode)
		if err != nil {
			return models.LedgerEntry{}, err
		}
		ed.SetCustomer(cust)
	}

	ed.Load(models.EntryRow{LedgerEntry: models.LedgerEntry{
		ID:            cmd.ID,
		Kind:          cmd.Kind,
		LoyaltyNumber: cmd.LoyaltyNumber,
		Points:        cmd.PreviousPoints,
		Date:          cmd.Date,
	}})
	switch cmd.Kind {
	case models.KindAccrual:
		ed.SetAmount(cmd.Amount)
	case models.KindRedemption:
		ed.SetPoints(cmd.Points)
	}
	ed.SetDate(cmd.Date)
	ed.SetNarration(cmd.Narration)
	return ed.SubmitUpdate(ctx)
}

func (s *EntryCommandService) Delete(cmd cqrs.DeleteEntryCommand) error {
	ctx := context.Background()
	ed := editor.New(s.ledger, cmd.Session, func(string) bool { return cmd.Confirmed })
	if s.publisher != nil {
		ed.SetPublisher(s.publisher)
	}
	ed.Load(models.EntryRow{LedgerEntry: models.LedgerEntry{
		ID:   cmd.ID,
		Kind: cmd.Kind,
	}})
	return ed.SubmitDelete(ctx)
}
