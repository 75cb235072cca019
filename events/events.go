package events

import "time"

// Event types
const (
	PointsAccrued  = "points.accrued"
	PointsRedeemed = "points.redeemed"
	EntryUpdated   = "entry.updated"
	EntryDeleted   = "entry.deleted"
)

// Stream names
const (
	PointsEventsStream = "points.events"
)

// Base event structure
type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// PointsMutationEvent is published after an accrual or redemption is
// accepted upstream. Amount is the 2dp currency value as a string.
type PointsMutationEvent struct {
	EntryID       int64  `json:"entryId"`
	Kind          string `json:"kind"`
	LoyaltyNumber string `json:"loyaltyNumber"`
	GroupCode     string `json:"groupCode"`
	Points        int64  `json:"points"`
	Amount        string `json:"amount"`
}

// EntryDeletedEvent is published after a persisted entry is removed.
type EntryDeletedEvent struct {
	EntryID   int64  `json:"entryId"`
	Kind      string `json:"kind"`
	GroupCode string `json:"groupCode"`
}
