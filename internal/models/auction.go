package models

import (
	"time"

	"github.com/google/uuid"
)

// AuctionPhase defines the lifecycle phase of the live auction.
type AuctionPhase string

const (
	AuctionPhaseIdle    AuctionPhase = "IDLE"
	AuctionPhaseRunning AuctionPhase = "RUNNING"
	AuctionPhasePaused  AuctionPhase = "PAUSED"
)

// ItemRef is the snapshot of the actress currently under the hammer.
type ItemRef struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	BasePrice int64     `json:"base_price"`
	ImageURL  string    `json:"image_url"`
}

// TeamRef identifies a team participating in the running auction.
type TeamRef struct {
	TeamID    uuid.UUID `json:"team_id"`
	TeamName  string    `json:"team_name"`
	OwnerName string    `json:"owner_name"`
}

// AuctionState is the single live auction document. There is exactly one
// instance at a time; all mutations go through the engine's transactions.
//
// Invariants:
//   - HighestBid == item base price until the first bid; bidder fields are nil
//     until then.
//   - Phase == RUNNING implies PausedRemainingSec == nil.
//   - CurrentItem == nil implies Phase == IDLE and HighestBid == 0.
type AuctionState struct {
	Phase               AuctionPhase `json:"phase"`
	CurrentItem         *ItemRef     `json:"current_item,omitempty"`
	HighestBid          int64        `json:"highest_bid"`
	HighestBidderUserID *uuid.UUID   `json:"highest_bidder_user_id,omitempty"`
	HighestBidderTeamID *uuid.UUID   `json:"highest_bidder_team_id,omitempty"`
	HighestBidderName   *string      `json:"highest_bidder_name,omitempty"`

	// DurationSec is the total allotted countdown; it grows with every
	// accepted bid and explicit extension. StartTime anchors the current run
	// segment; remaining time is always derived from the pair, never stored.
	DurationSec int       `json:"duration_sec"`
	StartTime   time.Time `json:"start_time"`

	PausedRemainingSec *int    `json:"paused_remaining_sec,omitempty"`
	PausedBy           *string `json:"paused_by,omitempty"`

	BidCount    int       `json:"bid_count"`
	ActiveTeams []TeamRef `json:"active_teams"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IdleAuctionState returns the reset state between auctions.
func IdleAuctionState() AuctionState {
	return AuctionState{
		Phase:       AuctionPhaseIdle,
		ActiveTeams: []TeamRef{},
	}
}

// IsActive reports whether the countdown is running.
func (s *AuctionState) IsActive() bool {
	return s.Phase == AuctionPhaseRunning
}
