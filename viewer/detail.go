package viewer

import (
	"net/url"
	"strconv"
	"strings"

	"recipeviewer/models"
)

// NotFoundMessage is shown when the detail view cannot resolve a recipe.
const NotFoundMessage = "Recipe not found."

// Resolve finds the recipe named by the query parameters. A slug parameter
// takes exclusive precedence: when present, id is never consulted even if the
// slug matches nothing. Otherwise id is parsed as a number.
func Resolve(recipes []models.Recipe, params url.Values) (models.Recipe, bool) {
	if slug := params.Get("slug"); slug != "" {
		for _, r := range recipes {
			if r.Slug == slug {
				return r, true
			}
		}
		return models.Recipe{}, false
	}
	raw := params.Get("id")
	if raw == "" {
		return models.Recipe{}, false
	}
	id, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return models.Recipe{}, false
	}
	for _, r := range recipes {
		if float64(r.ID) == id {
			return r, true
		}
	}
	return models.Recipe{}, false
}

type IngredientLine struct {
	Qty  string `json:"qty,omitempty"`
	Item string `json:"item"`
}

// Bold reports whether the quantity is present and shown emphasised.
func (l IngredientLine) Bold() bool { return l.Qty != "" }

// DetailModel is everything the host needs to paint one recipe.
type DetailModel struct {
	Title       string           `json:"title"`
	Meta        string           `json:"meta"`
	Tags        []string         `json:"tags"`
	Description string           `json:"description"`
	Image       string           `json:"image,omitempty"`
	PrepTime    string           `json:"prepTime"`
	CookTime    string           `json:"cookTime"`
	Difficulty  string           `json:"difficulty"`
	Ingredients []IngredientLine `json:"ingredients"`
	Steps       []string         `json:"steps"`
	Notes       string           `json:"notes,omitempty"`
	Self        NavigationIntent `json:"self"`
}

func (m DetailModel) HasImage() bool { return m.Image != "" }
func (m DetailModel) HasNotes() bool { return m.Notes != "" }

func NewDetailModel(r models.Recipe) DetailModel {
	m := DetailModel{
		Title:       string(r.Title),
		Meta:        MetaLine(r),
		Tags:        append([]string{}, r.Tags...),
		Description: string(r.Description),
		Image:       SafeImageSource(r.ImageData),
		PrepTime:    orPlaceholder(r.PrepTime),
		CookTime:    orPlaceholder(r.CookTime),
		Difficulty:  orPlaceholder(r.Difficulty),
		Ingredients: make([]IngredientLine, 0, len(r.Ingredients)),
		Steps:       append([]string{}, r.Steps...),
		Notes:       string(r.Notes),
		Self:        IntentFor(r),
	}
	for _, ing := range r.Ingredients {
		m.Ingredients = append(m.Ingredients, IngredientLine{Qty: string(ing.Qty), Item: string(ing.Item)})
	}
	return m
}
