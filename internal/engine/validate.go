package engine

import (
	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

// ValidateBid is the owner-console precheck run before submitting a bid.
// The same rules are re-checked inside the bid transaction; this exists so
// clients can reject obviously bad bids without a round trip.
func ValidateBid(amount, remainingPurse, currentHighest int64) error {
	if amount <= currentHighest {
		return ErrBidTooLow
	}
	if amount > remainingPurse {
		return ErrInsufficientBudget
	}
	return nil
}

// ValidateCategoryQuota checks the roster bound and the per-category cap for
// a team about to bid on an item of the given category.
func ValidateCategoryQuota(category models.Category, rosterSize, categoryCount, maxActresses int) error {
	if rosterSize >= maxActresses {
		return ErrRosterFull
	}
	if quota, ok := category.Quota(); ok && categoryCount >= quota {
		return ErrCategoryQuotaExceeded
	}
	return nil
}
