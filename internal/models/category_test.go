package models

import (
	"testing"

	"github.com/peterldowns/testy/check"
)

func TestCategoryQuotas(t *testing.T) {
	quota, ok := CategoryBlockbusterQueens.Quota()
	check.True(t, ok)
	check.Equal(t, 4, quota)

	for _, c := range []Category{CategoryGlobalGlam, CategoryDramaDiva, CategoryNextGenStars, CategoryTimelessIcons, CategoryGenZ} {
		quota, ok := c.Quota()
		check.True(t, ok)
		check.Equal(t, 2, quota)
	}

	_, ok = Category("Unknown").Quota()
	check.Equal(t, false, ok)
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories() {
		check.True(t, c.Valid())
	}
	check.Equal(t, false, Category("").Valid())
}
