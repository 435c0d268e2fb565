package models

import (
	"time"

	"github.com/google/uuid"
)

// BidEntry is one accepted bid in the append-only ledger. Entries are never
// mutated or deleted; an admin cancellation only recomputes the current
// leader from the remaining entries.
type BidEntry struct {
	ID         uuid.UUID `json:"id"`
	UserID     uuid.UUID `json:"user_id"`
	TeamID     uuid.UUID `json:"team_id"`
	TeamName   string    `json:"team_name"`
	BidderName string    `json:"bidder_name"`
	Amount     int64     `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}
