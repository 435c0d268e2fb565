package engine

import (
	"github.com/google/uuid"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

const (
	// DefaultDurationSec is the countdown used when the admin starts an
	// auction without choosing one.
	DefaultDurationSec = 30
	// BidExtensionSec is the anti-snipe extension: every accepted bid adds
	// exactly this many seconds to the total allotted duration.
	BidExtensionSec = 3

	// recentBidWindow bounds how far back CancelBid looks for the previous
	// leader.
	recentBidWindow = 10
)

// StartAuctionRequest asks the engine to put one actress under the hammer.
type StartAuctionRequest struct {
	ActressID   uuid.UUID `json:"actress_id"`
	DurationSec int       `json:"duration_sec"`
}

// PlaceBidRequest carries one owner's bid and their identity.
type PlaceBidRequest struct {
	Amount     int64     `json:"amount"`
	UserID     uuid.UUID `json:"user_id"`
	TeamID     uuid.UUID `json:"team_id"`
	TeamName   string    `json:"team_name"`
	BidderName string    `json:"bidder_name"`
}

// Settlement describes the outcome of an ended auction.
type Settlement struct {
	Item   models.ItemRef `json:"item"`
	Sold   bool           `json:"sold"`
	TeamID *uuid.UUID     `json:"team_id,omitempty"`
	Price  int64          `json:"price"`
}
