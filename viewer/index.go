package viewer

import (
	"errors"
	"fmt"
	"strings"

	"recipeviewer/models"
)

// MaxCardTags is how many tags a card shows; the detail view shows all.
const MaxCardTags = 4

var ErrNoSuchCard = errors.New("no such card")

type Thumbnail struct {
	Src string `json:"src,omitempty"`
	Alt string `json:"alt,omitempty"`
}

// Placeholder reports whether the card has no image and shows a blank block.
func (t Thumbnail) Placeholder() bool { return t.Src == "" }

// SafeImageSource returns src if it is an embedded raster image or an http(s)
// URL, and "" otherwise. SVG data URIs are refused since they can carry script.
func SafeImageSource(src string) string {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "data:image/") && !strings.HasPrefix(lower, "data:image/svg"):
		return src
	case strings.HasPrefix(lower, "https://"), strings.HasPrefix(lower, "http://"):
		return src
	}
	return ""
}

type Card struct {
	Thumbnail   Thumbnail        `json:"thumbnail"`
	Title       string           `json:"title"`
	Meta        string           `json:"meta"`
	Tags        []string         `json:"tags"`
	Description string           `json:"description"`
	Target      NavigationIntent `json:"target"`
}

func NewCard(r models.Recipe) Card {
	tags := r.Tags
	if len(tags) > MaxCardTags {
		tags = tags[:MaxCardTags]
	}
	return Card{
		Thumbnail:   Thumbnail{Src: SafeImageSource(r.ImageData), Alt: string(r.Title)},
		Title:       string(r.Title),
		Meta:        MetaLine(r),
		Tags:        append([]string{}, tags...),
		Description: string(r.Description),
		Target:      IntentFor(r),
	}
}

// IndexModel is everything the host needs to paint the index view.
type IndexModel struct {
	State      State            `json:"state"`
	Query      string           `json:"query"`
	Category   string           `json:"category"`
	Categories []CategoryOption `json:"categories"`
	Cards      []Card           `json:"cards"`
	Empty      bool             `json:"empty"`
}

// IndexView owns the newest-first recipe list and the two live controls.
// Every control change is a full synchronous filter and re-render.
type IndexView struct {
	recipes    []models.Recipe
	categories []CategoryOption
	query      string
	category   string
	shown      []models.Recipe
	model      IndexModel
}

// NewIndexView expects recipes already in display (newest-first) order and
// renders once with empty controls.
func NewIndexView(recipes []models.Recipe) *IndexView {
	v := &IndexView{
		recipes:    recipes,
		categories: CategoryOptions(recipes),
	}
	v.render()
	return v
}

func (v *IndexView) SetQuery(q string) IndexModel {
	v.query = q
	v.render()
	return v.model
}

func (v *IndexView) SetCategory(c string) IndexModel {
	v.category = c
	v.render()
	return v.model
}

func (v *IndexView) Model() IndexModel { return v.model }

// Select returns where activating the i-th visible card navigates to.
func (v *IndexView) Select(i int) (NavigationIntent, error) {
	if i < 0 || i >= len(v.shown) {
		return NavigationIntent{}, fmt.Errorf("select card %d of %d: %w", i, len(v.shown), ErrNoSuchCard)
	}
	return IntentFor(v.shown[i]), nil
}

func (v *IndexView) render() {
	v.shown = Filter(v.recipes, v.query, v.category)

	opts := make([]CategoryOption, len(v.categories))
	for i, o := range v.categories {
		o.Selected = o.Value == v.category
		opts[i] = o
	}

	m := IndexModel{
		Query:      v.query,
		Category:   v.category,
		Categories: opts,
		Cards:      []Card{},
	}
	if len(v.shown) == 0 {
		m.State = StateEmpty
		m.Empty = true
		v.model = m
		return
	}
	m.State = StateRendered
	for _, r := range v.shown {
		m.Cards = append(m.Cards, NewCard(r))
	}
	v.model = m
}
