package models

// Category is the closed set of categories an actress can belong to.
type Category string

const (
	CategoryBlockbusterQueens Category = "Blockbuster Queens"
	CategoryGlobalGlam        Category = "Global Glam"
	CategoryDramaDiva         Category = "Drama Diva"
	CategoryNextGenStars      Category = "Next-Gen Stars"
	CategoryTimelessIcons     Category = "Timeless Icons"
	CategoryGenZ              Category = "Gen-Z"
)

// categoryQuotas caps how many actresses of a category a single team may hold.
var categoryQuotas = map[Category]int{
	CategoryBlockbusterQueens: 4,
	CategoryGlobalGlam:        2,
	CategoryDramaDiva:         2,
	CategoryNextGenStars:      2,
	CategoryTimelessIcons:     2,
	CategoryGenZ:              2,
}

// Categories returns all known categories in display order.
func Categories() []Category {
	return []Category{
		CategoryBlockbusterQueens,
		CategoryGlobalGlam,
		CategoryDramaDiva,
		CategoryNextGenStars,
		CategoryTimelessIcons,
		CategoryGenZ,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	_, ok := categoryQuotas[c]
	return ok
}

// Quota returns the per-team cap for the category. ok is false when the
// category has no defined cap.
func (c Category) Quota() (int, bool) {
	quota, ok := categoryQuotas[c]
	return quota, ok
}
