// Package loader fetches the recipe dataset. Loading never fails observably:
// any problem is logged and replaced by an empty fallback dataset.
package loader

import (
	"context"
	"time"

	"recipeviewer/models"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// FallbackVersion is the meta.version of the dataset substituted on failure.
const FallbackVersion = "0"

// Source retrieves one copy of the dataset.
type Source interface {
	Fetch(ctx context.Context) (*models.Dataset, error)
}

// Fallback returns the empty, well-formed dataset used when loading fails.
func Fallback() models.Dataset {
	return models.Dataset{
		Meta:    models.Meta{GeneratedAt: nil, Version: FallbackVersion},
		Recipes: []models.Recipe{},
	}
}

type Loader struct {
	source Source
	logger *zap.Logger
	loads  *prometheus.CounterVec
}

type Option func(*Loader)

// WithMetrics counts load outcomes on the given registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(l *Loader) {
		l.loads = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recipeviewer_dataset_loads_total",
			Help: "Dataset loads by outcome (ok, fallback).",
		}, []string{"outcome"})
		reg.MustRegister(l.loads)
	}
}

func New(source Source, logger *zap.Logger, opts ...Option) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Loader{source: source, logger: logger}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load performs a single fetch. It is total: on any error the failure is
// logged as a warning and Fallback() is returned.
func (l *Loader) Load(ctx context.Context) models.Dataset {
	start := time.Now()
	ds, err := l.source.Fetch(ctx)
	if err == nil && ds == nil {
		err = errEmptyDataset
	}
	if err != nil {
		l.logger.Warn("Failed to load recipes dataset, using empty fallback",
			zap.Error(err),
			zap.Duration("elapsed", time.Since(start)))
		l.count("fallback")
		return Fallback()
	}
	ds.Normalize()
	if ds.Meta.UnparsedGeneratedAt != "" {
		l.logger.Warn("Ignoring unparseable meta.generatedAt",
			zap.String("generatedAt", ds.Meta.UnparsedGeneratedAt))
	}
	l.logger.Debug("Loaded recipes dataset",
		zap.Int("recipes", len(ds.Recipes)),
		zap.String("version", ds.Meta.Version),
		zap.Duration("elapsed", time.Since(start)))
	l.count("ok")
	return *ds
}

func (l *Loader) count(outcome string) {
	if l.loads != nil {
		l.loads.WithLabelValues(outcome).Inc()
	}
}
