package models

import (
	"time"

	"github.com/google/uuid"
)

// DefaultBudget is the starting purse for a newly created team, in rupees.
const DefaultBudget int64 = 1_000_000

// Team represents a franchise controlled by one owner.
type Team struct {
	ID               uuid.UUID  `json:"id"`
	Name             string     `json:"name"`
	Budget           int64      `json:"budget"`
	RemainingPurse   int64      `json:"remaining_purse"`
	MaxActresses     int        `json:"max_actresses"`
	CurrentActresses int        `json:"current_actresses"`
	OwnerID          *uuid.UUID `json:"owner_id,omitempty"`
	OwnerName        *string    `json:"owner_name,omitempty"`
	IsActive         bool       `json:"is_active"`
	CreatedAt        time.Time  `json:"created_at"`
}

// BudgetUsed is the amount the team has spent so far.
func (t *Team) BudgetUsed() int64 {
	return t.Budget - t.RemainingPurse
}
