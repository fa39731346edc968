// Package render paints viewer models as HTML pages.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"recipeviewer/viewer"
)

// Document is the set of element ids a page template carries. It implements
// viewer.DocumentAccessor so the core picks the view the page was built for.
type Document map[string]struct{}

func (d Document) HasElement(id string) bool {
	_, ok := d[id]
	return ok
}

func newDocument(ids ...string) Document {
	d := Document{}
	for _, id := range ids {
		d[id] = struct{}{}
	}
	return d
}

var (
	IndexDocument  = newDocument(viewer.IndexMarker, viewer.LastUpdateMarker, "search", "categoryFilter", "empty")
	DetailDocument = newDocument(viewer.DetailMarker, viewer.LastUpdateMarker)
)

// Paths the pages link to.
type Paths struct {
	Index  string
	Detail string
	Thumb  string
}

var DefaultPaths = Paths{Index: "/", Detail: "/recipe", Thumb: "/thumb"}

type Renderer struct {
	paths  Paths
	index  *template.Template
	detail *template.Template
}

func New(paths Paths) *Renderer {
	funcs := template.FuncMap{
		"imgsrc": imageSource,
		"href": func(n viewer.NavigationIntent) string {
			return n.URL(paths.Detail)
		},
		"cardsrc": func(c viewer.Card) template.URL {
			if Resizable(c.Thumbnail.Src) {
				return template.URL(c.Target.URL(paths.Thumb))
			}
			return imageSource(c.Thumbnail.Src)
		},
	}
	base := template.Must(template.New("base").Funcs(funcs).Parse(layoutTmpl))
	return &Renderer{
		paths:  paths,
		index:  template.Must(template.Must(base.Clone()).Parse(indexTmpl)),
		detail: template.Must(template.Must(base.Clone()).Parse(detailTmpl)),
	}
}

type page struct {
	Title string
	Paths Paths
	View  viewer.ViewState
	Index viewer.IndexModel
}

// Index paints an index-mode view state.
func (r *Renderer) Index(w io.Writer, vs viewer.ViewState) error {
	if vs.Mode != viewer.ModeIndex || vs.Index == nil {
		return fmt.Errorf("render index: view state is in %q mode", vs.Mode)
	}
	return r.execute(w, r.index, page{Title: "Recipes", Paths: r.paths, View: vs, Index: vs.Index.Model()})
}

// Detail paints a detail-mode view state, including the not-found state.
func (r *Renderer) Detail(w io.Writer, vs viewer.ViewState) error {
	if vs.Mode != viewer.ModeDetail {
		return fmt.Errorf("render detail: view state is in %q mode", vs.Mode)
	}
	title := "Recipe not found"
	if vs.Detail != nil {
		title = vs.Detail.Title
	}
	return r.execute(w, r.detail, page{Title: title, Paths: r.paths, View: vs})
}

// execute renders into a buffer first so a failing template never leaves a
// half-written page behind.
func (r *Renderer) execute(w io.Writer, t *template.Template, p page) error {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		return fmt.Errorf("execute template: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// imageSource marks a source that passed viewer.SafeImageSource as trusted.
func imageSource(src string) template.URL {
	return template.URL(viewer.SafeImageSource(src))
}

// Resizable reports whether src is an embedded image the thumbnail endpoint
// can decode.
func Resizable(src string) bool {
	lower := strings.ToLower(src)
	return strings.HasPrefix(lower, "data:image/png;base64,") ||
		strings.HasPrefix(lower, "data:image/jpeg;base64,") ||
		strings.HasPrefix(lower, "data:image/jpg;base64,")
}
