package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"recipeviewer/render"
	"recipeviewer/viewer"

	"go.uber.org/zap"
)

// Deps is what every handler needs: the page bootstrap, the HTML adapter,
// a logger and the metric collectors.
type Deps struct {
	Page        viewer.Page
	Renderer    *render.Renderer
	Logger      *zap.Logger
	Metrics     *Metrics
	ThumbHeight uint
}

// IndexPage serves the card grid. Each request is one page load: the dataset
// is fetched once, then the q and category controls are applied.
func IndexPage(d *Deps, w http.ResponseWriter, r *http.Request) {
	vs := loadIndex(d, r)

	var buf bytes.Buffer
	if err := d.Renderer.Index(&buf, vs); err != nil {
		d.Logger.Error("Failed to render index page", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	d.Metrics.observeRender(vs)
	writeHTML(d, w, http.StatusOK, buf.Bytes())
}

// RecipePage serves one recipe, or the not-found article with a 404.
func RecipePage(d *Deps, w http.ResponseWriter, r *http.Request) {
	vs := d.Page.InitPage(r.Context(), render.DetailDocument, viewer.Values(r.URL.Query()))

	var buf bytes.Buffer
	if err := d.Renderer.Detail(&buf, vs); err != nil {
		d.Logger.Error("Failed to render recipe page", zap.Error(err))
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}
	d.Metrics.observeRender(vs)

	status := http.StatusOK
	if vs.State == viewer.StateNotFound {
		status = http.StatusNotFound
	}
	writeHTML(d, w, status, buf.Bytes())
}

// GetRecipes returns the filtered index model as JSON.
func GetRecipes(d *Deps, w http.ResponseWriter, r *http.Request) {
	vs := loadIndex(d, r)
	d.Metrics.observeRender(vs)
	writeJSON(d, w, http.StatusOK, vs.Index.Model())
}

// GetCategories returns the category selector options as JSON.
func GetCategories(d *Deps, w http.ResponseWriter, r *http.Request) {
	vs := d.Page.InitPage(r.Context(), render.IndexDocument, viewer.Values(r.URL.Query()))
	writeJSON(d, w, http.StatusOK, vs.Index.Model().Categories)
}

// GetRecipe returns one recipe's detail model as JSON.
func GetRecipe(d *Deps, w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	if query.Get("slug") == "" && query.Get("id") == "" {
		writeError(d, w, http.StatusBadRequest, "missing 'slug' or 'id' query parameter")
		return
	}
	vs := d.Page.InitPage(r.Context(), render.DetailDocument, viewer.Values(query))
	d.Metrics.observeRender(vs)
	if vs.Detail == nil {
		writeError(d, w, http.StatusNotFound, "No matching recipe found")
		return
	}
	writeJSON(d, w, http.StatusOK, vs.Detail)
}

func loadIndex(d *Deps, r *http.Request) viewer.ViewState {
	query := r.URL.Query()
	vs := d.Page.InitPage(r.Context(), render.IndexDocument, viewer.Values(query))
	if q := query.Get("q"); q != "" {
		vs.SetQuery(q)
	}
	if c := query.Get("category"); c != "" {
		vs.SetCategory(c)
	}
	return vs
}

func writeHTML(d *Deps, w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		d.Logger.Warn("Failed to write response", zap.Error(err))
	}
}

func writeJSON(d *Deps, w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		d.Logger.Error("Failed to encode response", zap.Error(err))
		http.Error(w, "encode error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		d.Logger.Warn("Failed to write response", zap.Error(err))
	}
}

func writeError(d *Deps, w http.ResponseWriter, status int, msg string) {
	writeJSON(d, w, status, map[string]string{"error": msg})
}
