package models

import (
	"time"

	"github.com/google/uuid"
)

// MinBasePrice is the floor for an actress base price, in rupees.
const MinBasePrice int64 = 100_000

// Actress represents an item in the auction pool.
type Actress struct {
	ID            uuid.UUID  `json:"id"`
	Name          string     `json:"name"`
	Category      Category   `json:"category"`
	BasePrice     int64      `json:"base_price"`
	CurrentPrice  int64      `json:"current_price"`
	ImageURL      string     `json:"image_url"`
	IsAvailable   bool       `json:"is_available"`
	IsOnAuction   bool       `json:"is_on_auction"`
	TeamID        *uuid.UUID `json:"team_id,omitempty"`
	FinalPrice    *int64     `json:"final_price,omitempty"`
	PurchasePrice *int64     `json:"purchase_price,omitempty"`
	SoldAt        *time.Time `json:"sold_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Sold reports whether the actress has been settled to a team.
func (a *Actress) Sold() bool {
	return a.TeamID != nil && a.PurchasePrice != nil
}
