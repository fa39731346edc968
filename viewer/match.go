package viewer

import (
	"strings"

	"recipeviewer/models"
)

// AllCategories is the sentinel option value that disables the category filter.
const AllCategories = ""

// AllCategoriesLabel is shown for the AllCategories option.
const AllCategoriesLabel = "All categories"

// Matches reports whether q is, case-insensitively, a substring of the
// record's title, description, space-joined tags or any ingredient item.
// The empty query matches everything.
func Matches(r models.Recipe, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if contains(string(r.Title), q) {
		return true
	}
	if contains(string(r.Description), q) {
		return true
	}
	if contains(strings.Join(r.Tags, " "), q) {
		return true
	}
	for _, ing := range r.Ingredients {
		if contains(string(ing.Item), q) {
			return true
		}
	}
	return false
}

func contains(s, lowerQ string) bool {
	return strings.Contains(strings.ToLower(s), lowerQ)
}

// Filter keeps, in order, the records that match q and belong to category.
// An AllCategories category keeps every category.
func Filter(recipes []models.Recipe, q, category string) []models.Recipe {
	q = strings.TrimSpace(q)
	out := make([]models.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if !Matches(r, q) {
			continue
		}
		if category != AllCategories && string(r.Category) != category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// CategoryOption is one entry of the category selector.
type CategoryOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// CategoryOptions returns the AllCategories sentinel followed by every
// distinct non-empty category in first-seen order.
func CategoryOptions(recipes []models.Recipe) []CategoryOption {
	opts := []CategoryOption{{Value: AllCategories, Label: AllCategoriesLabel}}
	seen := map[string]struct{}{}
	for _, r := range recipes {
		c := string(r.Category)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		opts = append(opts, CategoryOption{Value: c, Label: c})
	}
	return opts
}

// NewestFirst returns a reversed copy of recipes; input order is file order.
func NewestFirst(recipes []models.Recipe) []models.Recipe {
	out := make([]models.Recipe, len(recipes))
	for i, r := range recipes {
		out[len(recipes)-1-i] = r
	}
	return out
}
