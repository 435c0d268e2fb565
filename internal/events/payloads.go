package events

import (
	"time"
)

// Event types pushed to observers on every committed auction change.
const (
	TypeAuctionStarted  = "AuctionStarted"
	TypeBidPlaced       = "BidPlaced"
	TypeAuctionPaused   = "AuctionPaused"
	TypeAuctionResumed  = "AuctionResumed"
	TypeAuctionExtended = "AuctionExtended"
	TypeBidCancelled    = "BidCancelled"
	TypeAuctionSettled  = "AuctionSettled"
	TypeItemReturned    = "ItemReturned"
)

// AuctionStartedPayload is the payload for an AuctionStarted event.
type AuctionStartedPayload struct {
	ItemID      string    `json:"item_id"`
	ItemName    string    `json:"item_name"`
	Category    string    `json:"category"`
	BasePrice   int64     `json:"base_price"`
	DurationSec int       `json:"duration_sec"`
	StartedAt   time.Time `json:"started_at"`
	TeamCount   int       `json:"team_count"`
}

// BidPlacedPayload is the payload for a BidPlaced event.
type BidPlacedPayload struct {
	BidID       string    `json:"bid_id"`
	ItemID      string    `json:"item_id"`
	TeamID      string    `json:"team_id"`
	TeamName    string    `json:"team_name"`
	BidderName  string    `json:"bidder_name"`
	Amount      int64     `json:"amount"`
	BidCount    int       `json:"bid_count"`
	DurationSec int       `json:"duration_sec"`
	PlacedAt    time.Time `json:"placed_at"`
}

// AuctionPausedPayload is the payload for an AuctionPaused event.
type AuctionPausedPayload struct {
	ItemID       string    `json:"item_id"`
	PausedBy     string    `json:"paused_by"`
	RemainingSec int       `json:"remaining_sec"`
	PausedAt     time.Time `json:"paused_at"`
}

// AuctionResumedPayload is the payload for an AuctionResumed event.
type AuctionResumedPayload struct {
	ItemID       string    `json:"item_id"`
	RemainingSec int       `json:"remaining_sec"`
	ResumedAt    time.Time `json:"resumed_at"`
}

// AuctionExtendedPayload is the payload for an AuctionExtended event.
type AuctionExtendedPayload struct {
	ItemID      string    `json:"item_id"`
	AddedSec    int       `json:"added_sec"`
	DurationSec int       `json:"duration_sec"`
	ExtendedAt  time.Time `json:"extended_at"`
}

// BidCancelledPayload is the payload for a BidCancelled event.
type BidCancelledPayload struct {
	CancelledBidID string    `json:"cancelled_bid_id"`
	ItemID         string    `json:"item_id"`
	HighestBid     int64     `json:"highest_bid"`
	LeaderName     *string   `json:"leader_name,omitempty"`
	CancelledAt    time.Time `json:"cancelled_at"`
}

// AuctionSettledPayload is the payload for an AuctionSettled event. Sold is
// false when the item returned to the pool without bids.
type AuctionSettledPayload struct {
	ItemID    string    `json:"item_id"`
	ItemName  string    `json:"item_name"`
	Sold      bool      `json:"sold"`
	TeamID    *string   `json:"team_id,omitempty"`
	TeamName  *string   `json:"team_name,omitempty"`
	Price     int64     `json:"price"`
	SettledAt time.Time `json:"settled_at"`
}

// ItemReturnedPayload is the payload for an ItemReturned event, emitted when
// an already-settled item is reverted back to the pool.
type ItemReturnedPayload struct {
	ItemID     string    `json:"item_id"`
	TeamID     string    `json:"team_id"`
	Refund     int64     `json:"refund"`
	ReturnedAt time.Time `json:"returned_at"`
}
