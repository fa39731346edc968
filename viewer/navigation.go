package viewer

import (
	"net/url"
	"strconv"

	"recipeviewer/models"
)

type NavKind string

const (
	NavSlug NavKind = "slug"
	NavID   NavKind = "id"
)

// NavigationIntent is what selecting a card asks the host to do: open the
// detail view for the recipe identified by Kind=Value.
type NavigationIntent struct {
	Kind  NavKind `json:"kind"`
	Value string  `json:"value"`
}

// IntentFor prefers the slug and falls back to the numeric id.
func IntentFor(r models.Recipe) NavigationIntent {
	if r.Slug != "" {
		return NavigationIntent{Kind: NavSlug, Value: r.Slug}
	}
	return NavigationIntent{Kind: NavID, Value: strconv.FormatInt(r.ID, 10)}
}

// Query encodes the intent as a URL query string, e.g. "slug=pad-thai".
func (n NavigationIntent) Query() string {
	return string(n.Kind) + "=" + url.QueryEscape(n.Value)
}

// URL joins the intent's query onto path.
func (n NavigationIntent) URL(path string) string {
	return path + "?" + n.Query()
}
