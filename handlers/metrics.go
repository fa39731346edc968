package handlers

import (
	"net/http"
	"strconv"
	"time"

	"recipeviewer/viewer"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	renders  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	gatherer prometheus.Gatherer
}

func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		renders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipeviewer_page_renders_total",
			Help: "Page renders by view mode and final view state.",
		}, []string{"mode", "state"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "recipeviewer_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status code.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "code"}),
		gatherer: reg,
	}
	reg.MustRegister(m.renders, m.duration)
	return m
}

func (m *Metrics) observeRender(vs viewer.ViewState) {
	if m == nil {
		return
	}
	m.renders.WithLabelValues(string(vs.Mode), string(vs.State)).Inc()
}

func (m *Metrics) observeRequest(route string, code int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.duration.WithLabelValues(route, strconv.Itoa(code)).Observe(elapsed.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
