package quiz

import "strings"

// Categories lists the quiz categories in presentation order. The order
// is fixed; traversal always walks it round-robin from the user's
// current position.
var Categories = []string{
	"Affaires internationales",
	"Économie",
	"Environnement",
	"Éducation",
	"Santé",
	"Justice",
	"Culture",
	"Technologie",
}

// CategoryIndex returns the position of name in Categories, matching
// case-insensitively, or -1 when name is not a known category.
func CategoryIndex(name string) int {
	for i, c := range Categories {
		if strings.EqualFold(c, name) {
			return i
		}
	}
	return -1
}

// IsCategory reports whether name is a known category.
func IsCategory(name string) bool {
	return CategoryIndex(name) >= 0
}
