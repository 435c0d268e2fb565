package engine

import (
	"errors"
	"testing"

	"github.com/peterldowns/testy/check"

	"github.com/Breezy-Bae/ddl.github.io/internal/models"
)

func TestValidateBid(t *testing.T) {
	check.Nil(t, ValidateBid(150_000, 1_000_000, 100_000))
	// Equal to the highest bid is not enough.
	check.True(t, errors.Is(ValidateBid(100_000, 1_000_000, 100_000), ErrBidTooLow))
	check.True(t, errors.Is(ValidateBid(90_000, 1_000_000, 100_000), ErrBidTooLow))
	check.True(t, errors.Is(ValidateBid(150_000, 120_000, 100_000), ErrInsufficientBudget))
	// Spending the entire remaining purse is allowed.
	check.Nil(t, ValidateBid(120_000, 120_000, 100_000))
}

func TestValidateCategoryQuota(t *testing.T) {
	check.Nil(t, ValidateCategoryQuota(models.CategoryGlobalGlam, 5, 1, 14))
	check.True(t, errors.Is(ValidateCategoryQuota(models.CategoryGlobalGlam, 5, 2, 14), ErrCategoryQuotaExceeded))
	// Blockbuster Queens carries a higher cap.
	check.Nil(t, ValidateCategoryQuota(models.CategoryBlockbusterQueens, 5, 3, 14))
	check.True(t, errors.Is(ValidateCategoryQuota(models.CategoryBlockbusterQueens, 5, 4, 14), ErrCategoryQuotaExceeded))
	// A full roster rejects regardless of category headroom.
	check.True(t, errors.Is(ValidateCategoryQuota(models.CategoryGenZ, 14, 0, 14), ErrRosterFull))
}
