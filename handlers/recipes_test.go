package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"recipeviewer/loader"
	"recipeviewer/models"
	"recipeviewer/render"
	"recipeviewer/viewer"

	"github.com/PuerkitoBio/goquery"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func pngDataURI(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 120, B: 40, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
}

func writeDataset(t *testing.T, ds models.Dataset) string {
	t.Helper()
	b, err := json.Marshal(ds)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "recipes.json")
	require.NoError(t, os.WriteFile(path, b, 0o644))
	return path
}

func testRecipes(t *testing.T) []models.Recipe {
	return []models.Recipe{
		{
			ID: 1, Slug: "banana-bread", Title: "Banana Bread", Category: "Baking",
			Tags:        []string{"sweet"},
			Ingredients: []models.Ingredient{{Qty: "3", Item: "bananas"}},
			ImageData:   pngDataURI(t, 40, 20),
		},
		{
			ID: 7, Slug: "pad-thai", Title: "Pad Thai", Category: "Noodles",
			Tags:        []string{"a", "b", "c", "d", "e", "f"},
			Ingredients: []models.Ingredient{{Item: "rice noodles"}},
			Steps:       []string{"Soak.", "Fry."},
		},
		{ID: 9, Title: "Plain Rice", ImageData: "https://cdn.example/rice.jpg"},
	}
}

type testServer struct {
	handler  http.Handler
	registry *prometheus.Registry
	metrics  *Metrics
}

func newTestServer(t *testing.T, path string) *testServer {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	d := &Deps{
		Page: viewer.Page{
			Loader: loader.New(loader.FileSource{Path: path}, zap.NewNop(), loader.WithMetrics(reg)),
		},
		Renderer:    render.New(render.DefaultPaths),
		Logger:      zap.NewNop(),
		Metrics:     metrics,
		ThumbHeight: 10,
	}
	return &testServer{handler: NewRouter(d, []string{"*"}), registry: reg, metrics: metrics}
}

func (s *testServer) get(t *testing.T, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func document(t *testing.T, rec *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	return doc
}

func cardTitles(doc *goquery.Document) []string {
	var out []string
	doc.Find("#cardGrid .card h3").Each(func(_ int, s *goquery.Selection) {
		out = append(out, s.Text())
	})
	return out
}

func TestIndexPageNewestFirst(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Meta: models.Meta{Version: "1"}, Recipes: testRecipes(t)}))

	rec := srv.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	doc := document(t, rec)
	assert.Equal(t, []string{"Plain Rice", "Pad Thai", "Banana Bread"}, cardTitles(doc))
	assert.Equal(t, 4, doc.Find(`a[href="/recipe?slug=pad-thai"] .pill`).Length())
}

func TestIndexPageFilters(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	doc := document(t, srv.get(t, "/?q=RICE"))
	assert.Equal(t, []string{"Plain Rice", "Pad Thai"}, cardTitles(doc))

	doc = document(t, srv.get(t, "/index.html?q=rice&category=Noodles"))
	assert.Equal(t, []string{"Pad Thai"}, cardTitles(doc))

	doc = document(t, srv.get(t, "/?q=rice&category=Baking"))
	assert.Empty(t, cardTitles(doc))
	_, hidden := doc.Find("#empty").Attr("hidden")
	assert.False(t, hidden)
}

func TestIndexPageFallbackDataset(t *testing.T) {
	srv := newTestServer(t, filepath.Join(t.TempDir(), "missing.json"))

	rec := srv.get(t, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	doc := document(t, rec)
	_, hidden := doc.Find("#empty").Attr("hidden")
	assert.False(t, hidden)
	assert.Equal(t, viewer.Placeholder, doc.Find("#lastUpdate").Text())
	assert.Equal(t, 1.0, testutil.ToFloat64(srv.metrics.renders.WithLabelValues("index", "EMPTY")))
}

func TestRecipePage(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/recipe?id=7")
	require.Equal(t, http.StatusOK, rec.Code)
	doc := document(t, rec)
	assert.Equal(t, "Pad Thai", doc.Find("#recipe h2").Text())
	assert.Equal(t, 6, doc.Find("#recipe .pill").Length())

	rec = srv.get(t, "/recipe.html?slug=banana-bread")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Banana Bread", document(t, rec).Find("#recipe h2").Text())
}

func TestRecipePageNotFound(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/recipe?slug=nope&id=7")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, viewer.NotFoundMessage, document(t, rec).Find("#recipe p").Text())
}

func TestGetRecipesJSON(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/api/recipes?category=Baking")
	require.Equal(t, http.StatusOK, rec.Code)

	var m viewer.IndexModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, viewer.StateRendered, m.State)
	require.Len(t, m.Cards, 1)
	assert.Equal(t, "Banana Bread", m.Cards[0].Title)
	assert.Equal(t, viewer.NavigationIntent{Kind: viewer.NavSlug, Value: "banana-bread"}, m.Cards[0].Target)
}

func TestGetCategoriesJSON(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/api/categories")
	require.Equal(t, http.StatusOK, rec.Code)

	var opts []viewer.CategoryOption
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	require.Len(t, opts, 3)
	assert.Equal(t, "All categories", opts[0].Label)
	assert.Equal(t, "Noodles", opts[1].Value)
	assert.Equal(t, "Baking", opts[2].Value)
}

func TestGetRecipeJSON(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/api/recipe?slug=pad-thai")
	require.Equal(t, http.StatusOK, rec.Code)
	var m viewer.DetailModel
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, "Pad Thai", m.Title)
	assert.Equal(t, viewer.Placeholder, m.Difficulty)

	rec = srv.get(t, "/api/recipe?id=404")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"No matching recipe found"}`, rec.Body.String())

	rec = srv.get(t, "/api/recipe")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestThumbnailHandler(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/thumb?slug=banana-bread")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dy())
	assert.Equal(t, 20, img.Bounds().Dx())

	assert.Equal(t, http.StatusNotFound, srv.get(t, "/thumb?id=7").Code)
	assert.Equal(t, http.StatusNotFound, srv.get(t, "/thumb?slug=nope").Code)
	assert.Equal(t, http.StatusUnsupportedMediaType, srv.get(t, "/thumb?id=9").Code)
}

func TestThumbnailCaching(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/thumb?slug=banana-bread")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, ThumbCacheControl, rec.Header().Get("Cache-Control"))
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.True(t, strings.HasPrefix(etag, `"`) && strings.HasSuffix(etag, `"`))

	req := httptest.NewRequest(http.MethodGet, "/thumb?slug=banana-bread", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotModified, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
	assert.Equal(t, etag, rec.Header().Get("ETag"))

	req = httptest.NewRequest(http.MethodGet, "/thumb?slug=banana-bread", nil)
	req.Header.Set("If-None-Match", `"stale"`)
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Empty(t, srv.get(t, "/thumb?slug=nope").Header().Get("Cache-Control"))
}

func TestThumbETagVariesWithHeight(t *testing.T) {
	assert.Equal(t, thumbETag("data:image/png;base64,AAAA", 10), thumbETag("data:image/png;base64,AAAA", 10))
	assert.NotEqual(t, thumbETag("data:image/png;base64,AAAA", 10), thumbETag("data:image/png;base64,AAAA", 20))
	assert.NotEqual(t, thumbETag("data:image/png;base64,AAAA", 10), thumbETag("data:image/png;base64,BBBB", 10))
}

func TestIndexCardUsesThumbnailRoute(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	doc := document(t, srv.get(t, "/"))
	assert.Equal(t, "/thumb?slug=banana-bread", doc.Find(`a[href="/recipe?slug=banana-bread"] img`).AttrOr("src", ""))
	assert.Equal(t, "https://cdn.example/rice.jpg", doc.Find(`a[href="/recipe?id=9"] img`).AttrOr("src", ""))
}

func TestRequestID(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))

	rec := srv.get(t, "/api/categories")
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)

	req := httptest.NewRequest(http.MethodGet, "/nowhere", nil)
	req.Header.Set(RequestIDHeader, "1b4e28ba-2fa1-11d2-883f-0016d3cca427")
	rec = httptest.NewRecorder()
	srv.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "1b4e28ba-2fa1-11d2-883f-0016d3cca427", rec.Header().Get(RequestIDHeader))
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, writeDataset(t, models.Dataset{Recipes: testRecipes(t)}))
	srv.get(t, "/")
	srv.get(t, "/recipe?slug=nope")

	rec := srv.get(t, "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `recipeviewer_page_renders_total{mode="detail",state="NOT_FOUND"} 1`), body)
	assert.Contains(t, body, `recipeviewer_dataset_loads_total{outcome="ok"} 2`)
	assert.Contains(t, body, `route="/recipe"`)
}

func TestThumbnailAspectRatio(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 300, 200))
	out := Thumbnail(img, 100)
	assert.Equal(t, image.Rect(0, 0, 150, 100), out.Bounds())
}

func TestDecodeDataURI(t *testing.T) {
	raw, err := decodeDataURI("data:image/png;base64,aGVsbG8=")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(raw))

	_, err = decodeDataURI("data:image/png,hello")
	assert.ErrorIs(t, err, errNotDataURI)
}

func TestHandlersWithoutMetrics(t *testing.T) {
	d := &Deps{
		Page:     viewer.Page{Loader: loader.New(loader.FileSource{Path: "missing.json"}, nil)},
		Renderer: render.New(render.DefaultPaths),
		Logger:   zap.NewNop(),
	}
	rec := httptest.NewRecorder()
	IndexPage(d, rec, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(context.Background()))
	assert.Equal(t, http.StatusOK, rec.Code)
}
