package handlers

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

// NewRouter wires every route onto a gorilla router and wraps it with
// request logging and CORS.
func NewRouter(d *Deps, allowedOrigins []string) http.Handler {
	r := mux.NewRouter()

	page := func(h func(*Deps, http.ResponseWriter, *http.Request)) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) { h(d, w, r) }
	}

	r.HandleFunc("/", page(IndexPage)).Methods("GET")
	r.HandleFunc("/index.html", page(IndexPage)).Methods("GET")
	r.HandleFunc("/recipe", page(RecipePage)).Methods("GET")
	r.HandleFunc("/recipe.html", page(RecipePage)).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/recipes", page(GetRecipes)).Methods("GET")
	api.HandleFunc("/recipe", page(GetRecipe)).Methods("GET")
	api.HandleFunc("/categories", page(GetCategories)).Methods("GET")

	r.HandleFunc("/thumb", page(ThumbnailHandler)).Methods("GET")

	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics.Handler()).Methods("GET")
	}

	logged := requestLogger(d)
	r.Use(logged)
	r.NotFoundHandler = logged(http.NotFoundHandler())
	r.MethodNotAllowedHandler = logged(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}))

	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	})
	return c.Handler(r)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func requestLogger(d *Deps) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			id := r.Header.Get(RequestIDHeader)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if cur := mux.CurrentRoute(r); cur != nil {
				if tmpl, err := cur.GetPathTemplate(); err == nil {
					route = tmpl
				}
			}
			elapsed := time.Since(start)
			d.Metrics.observeRequest(route, rec.status, elapsed)
			d.Logger.Info("Handled request",
				zap.String("request_id", id),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("elapsed", elapsed))
		})
	}
}
