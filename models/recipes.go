package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Text is a display string that tolerates numbers and booleans in the source
// JSON, so "servings": 4 and "servings": "4" decode the same way.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return err
		}
		*t = Text(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		*t = Text(n.String())
	}
	return nil
}

func (t Text) String() string { return string(t) }

type Ingredient struct {
	Qty  Text `json:"qty,omitempty" firestore:"qty"`
	Item Text `json:"item" firestore:"item"`
}

type Recipe struct {
	ID          int64        `json:"id" firestore:"id"`
	Slug        string       `json:"slug,omitempty" firestore:"slug"`
	Title       Text         `json:"title,omitempty" firestore:"title"`
	Description Text         `json:"description,omitempty" firestore:"description"`
	Category    Text         `json:"category,omitempty" firestore:"category"`
	TotalTime   Text         `json:"totalTime,omitempty" firestore:"totalTime"`
	PrepTime    Text         `json:"prepTime,omitempty" firestore:"prepTime"`
	CookTime    Text         `json:"cookTime,omitempty" firestore:"cookTime"`
	Difficulty  Text         `json:"difficulty,omitempty" firestore:"difficulty"`
	Servings    Text         `json:"servings,omitempty" firestore:"servings"`
	Notes       Text         `json:"notes,omitempty" firestore:"notes"`
	Tags        []string     `json:"tags" firestore:"tags"`
	Ingredients []Ingredient `json:"ingredients" firestore:"ingredients"`
	Steps       []string     `json:"steps" firestore:"steps"`
	ImageData   string       `json:"imageData,omitempty" firestore:"imageData"`
}

// Normalize makes sure slices are never nil so encoded output stays stable.
func (r *Recipe) Normalize() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Ingredients == nil {
		r.Ingredients = []Ingredient{}
	}
	if r.Steps == nil {
		r.Steps = []string{}
	}
}

type Meta struct {
	GeneratedAt *time.Time `json:"generatedAt"`
	Version     string     `json:"version"`
	// UnparsedGeneratedAt holds a generatedAt value no layout understood.
	// GeneratedAt is nil in that case.
	UnparsedGeneratedAt string `json:"-"`
}

// timestampLayouts are tried in order for string generatedAt values.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339, zoneless date-times (read as UTC),
// bare dates and epoch milliseconds.
func ParseTimestamp(raw json.RawMessage) (time.Time, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}, false
	}
	if raw[0] != '"' {
		var ms json.Number
		if err := json.Unmarshal(raw, &ms); err != nil {
			return time.Time{}, false
		}
		f, err := ms.Float64()
		if err != nil {
			return time.Time{}, false
		}
		return time.UnixMilli(int64(f)).UTC(), true
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON never fails on generatedAt: it is display-only, so a value
// that does not parse is kept in UnparsedGeneratedAt instead.
func (m *Meta) UnmarshalJSON(data []byte) error {
	var aux struct {
		GeneratedAt json.RawMessage `json:"generatedAt"`
		Version     Text            `json:"version"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*m = Meta{Version: string(aux.Version)}
	if t, ok := ParseTimestamp(aux.GeneratedAt); ok {
		m.GeneratedAt = &t
	} else if raw := bytes.TrimSpace(aux.GeneratedAt); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			s = string(raw)
		}
		m.UnparsedGeneratedAt = s
	}
	return nil
}

type Dataset struct {
	Meta    Meta     `json:"meta"`
	Recipes []Recipe `json:"recipes"`
}

// Normalize fills in an empty recipe list and normalizes every record.
func (d *Dataset) Normalize() {
	if d.Recipes == nil {
		d.Recipes = []Recipe{}
	}
	for i := range d.Recipes {
		d.Recipes[i].Normalize()
	}
}
