package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"recipeviewer/config"
	"recipeviewer/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"
)

var errEmptyDataset = errors.New("source returned no dataset")

// DefaultPath is the fixed relative location of the dataset file.
const DefaultPath = "Data/recipes.json"

func decode(r io.Reader) (*models.Dataset, error) {
	var ds *models.Dataset
	if err := json.NewDecoder(r).Decode(&ds); err != nil {
		return nil, fmt.Errorf("decode dataset: %w", err)
	}
	if ds == nil {
		return nil, errEmptyDataset
	}
	return ds, nil
}

// FileSource reads the dataset from disk on every Fetch.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) (*models.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := s.Path
	if path == "" {
		path = DefaultPath
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()
	return decode(f)
}

// HTTPSource fetches the dataset over HTTP, asking every cache on the way
// to stay out of it.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Fetch(ctx context.Context) (*models.Dataset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Accept", "application/json")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch dataset: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch dataset: unexpected status %s", resp.Status)
	}
	return decode(resp.Body)
}

// NewSource picks the Source named by cfg.Source. The returned closer
// releases any client the source holds and is never nil.
func NewSource(ctx context.Context, cfg config.DataConfig) (Source, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Source {
	case config.SourceFile, "":
		return FileSource{Path: cfg.Path}, noop, nil
	case config.SourceHTTP:
		return HTTPSource{URL: cfg.URL}, noop, nil
	case config.SourceFirestore:
		var opts []option.ClientOption
		if cfg.CredentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
		}
		client, err := firestore.NewClient(ctx, cfg.FirestoreProject, opts...)
		if err != nil {
			return nil, noop, fmt.Errorf("create firestore client: %w", err)
		}
		return NewFirestoreSource(client, cfg.FirestoreCollection), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown data source %q", cfg.Source)
	}
}
