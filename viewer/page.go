// Package viewer holds the recipe browser's behaviour: matching, filtering,
// lookup and the view models for the index and detail pages. It knows
// nothing about HTML; a host adapter paints the models.
package viewer

import (
	"context"
	"net/url"

	"recipeviewer/models"
)

// Element ids whose presence in the host document selects a view.
const (
	IndexMarker      = "cardGrid"
	DetailMarker     = "recipe"
	LastUpdateMarker = "lastUpdate"
)

type State string

const (
	StateInit     State = "INIT"
	StateLoading  State = "LOADING"
	StateRendered State = "RENDERED"
	StateEmpty    State = "EMPTY"
	StateNotFound State = "NOT_FOUND"
	// StateIdle is reached when the document has neither view marker.
	StateIdle State = "IDLE"
)

type Mode string

const (
	ModeNone   Mode = ""
	ModeIndex  Mode = "index"
	ModeDetail Mode = "detail"
)

// DocumentAccessor answers which marker elements the host page carries.
type DocumentAccessor interface {
	HasElement(id string) bool
}

// LocationAccessor exposes the current page's query parameters.
type LocationAccessor interface {
	Query() url.Values
}

// DatasetLoader is satisfied by *loader.Loader.
type DatasetLoader interface {
	Load(ctx context.Context) models.Dataset
}

// Values adapts url.Values to LocationAccessor.
type Values url.Values

func (v Values) Query() url.Values { return url.Values(v) }

// ViewState is the outcome of a page load.
type ViewState struct {
	State   State
	Mode    Mode
	Version string
	// LastUpdate is set only when the document has the LastUpdateMarker.
	LastUpdate     string
	ShowLastUpdate bool
	Index          *IndexView
	Detail         *DetailModel
	Message        string
	// Trace records every state the page passed through, in order.
	Trace []State
}

func (s *ViewState) enter(st State) {
	s.State = st
	s.Trace = append(s.Trace, st)
}

// Page bundles the collaborators InitPage needs. The zero TimeFormat uses
// DefaultTimeFormat.
type Page struct {
	Loader DatasetLoader
	Time   TimeFormat
}

// InitPage loads the dataset once and activates the view the document asks
// for. The index view wins if both markers are present.
func (p Page) InitPage(ctx context.Context, doc DocumentAccessor, loc LocationAccessor) ViewState {
	vs := ViewState{}
	vs.enter(StateInit)
	vs.enter(StateLoading)

	ds := p.Loader.Load(ctx)
	recipes := NewestFirst(ds.Recipes)
	vs.Version = ds.Meta.Version

	if doc.HasElement(LastUpdateMarker) {
		vs.ShowLastUpdate = true
		vs.LastUpdate = p.Time.LastUpdate(ds.Meta)
	}

	switch {
	case doc.HasElement(IndexMarker):
		vs.Mode = ModeIndex
		vs.Index = NewIndexView(recipes)
		vs.enter(vs.Index.Model().State)
	case doc.HasElement(DetailMarker):
		vs.Mode = ModeDetail
		r, ok := Resolve(recipes, loc.Query())
		if !ok {
			vs.Message = NotFoundMessage
			vs.enter(StateNotFound)
			break
		}
		m := NewDetailModel(r)
		vs.Detail = &m
		vs.enter(StateRendered)
	default:
		vs.enter(StateIdle)
	}
	return vs
}

// InitPage is Page{Loader: l}.InitPage with the default time format.
func InitPage(ctx context.Context, doc DocumentAccessor, loc LocationAccessor, l DatasetLoader) ViewState {
	return Page{Loader: l}.InitPage(ctx, doc, loc)
}

// SetQuery and SetCategory forward a control change to the index view and
// keep State in step with the re-render.
func (s *ViewState) SetQuery(q string) {
	if s.Index == nil {
		return
	}
	s.enter(s.Index.SetQuery(q).State)
}

func (s *ViewState) SetCategory(c string) {
	if s.Index == nil {
		return
	}
	s.enter(s.Index.SetCategory(c).State)
}
