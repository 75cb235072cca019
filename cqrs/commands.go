package cqrs

import (
	"time"

	"github.com/dikshitechnologies/LoyaltyPoints-sub000/models"
)

// CreateEntryCommand creates a new accrual or redemption. Amount and Points
// are raw form input; which one drives the computation depends on Kind
// (accrual derives points from amount, redemption derives amount from
// points). Confirmed carries the user's yes/no gate.
type CreateEntryCommand struct {
	Session       models.SessionContext
	Kind          models.EntryKind
	LoyaltyNumber string
	Amount        string
	Points        string
	Date          time.Time
	Narration     string
	Confirmed     bool
}

// UpdateEntryCommand edits a persisted entry. PreviousPoints is the point
// value the entry carried when it was loaded; it is needed to reconstruct
// the pre-transaction balance baseline.
type UpdateEntryCommand struct {
	Session        models.SessionContext
	ID             int64
	Kind           models.EntryKind
	LoyaltyNumber  string
	PreviousPoints int64
	Amount         string
	Points         string
	Date           time.Time
	Narration      string
	Confirmed      bool
}

type DeleteEntryCommand struct {
	Session   models.SessionContext
	ID        int64
	Kind      models.EntryKind
	Confirmed bool
}

type LoginCommand struct {
	DeviceID string
	Passcode string
}

type RefreshTokenCommand struct {
	Token string
}
