package viewer

import (
	"time"

	"recipeviewer/models"
)

// Placeholder stands in for absent detail fields and an absent timestamp.
const Placeholder = "—"

const metaSep = " • "

// MetaLine renders "category • totalTime • Serves N". Missing category and
// time render empty; missing servings render "-".
func MetaLine(r models.Recipe) string {
	servings := string(r.Servings)
	if servings == "" {
		servings = "-"
	}
	return string(r.Category) + metaSep + string(r.TotalTime) + metaSep + "Serves " + servings
}

func orPlaceholder(t models.Text) string {
	if t == "" {
		return Placeholder
	}
	return string(t)
}

// TimeFormat controls how the dataset generation timestamp is displayed.
type TimeFormat struct {
	Layout   string
	Location *time.Location
}

// DefaultTimeFormat mimics an en-US locale date-time in the local zone.
var DefaultTimeFormat = TimeFormat{Layout: "1/2/2006, 3:04:05 PM", Location: time.Local}

// LastUpdate formats meta.generatedAt, or Placeholder when it is absent.
func (f TimeFormat) LastUpdate(meta models.Meta) string {
	if meta.GeneratedAt == nil || meta.GeneratedAt.IsZero() {
		return Placeholder
	}
	layout := f.Layout
	if layout == "" {
		layout = DefaultTimeFormat.Layout
	}
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return meta.GeneratedAt.In(loc).Format(layout)
}
