package loader

import (
	"context"
	"fmt"
	"sort"
	"time"

	"recipeviewer/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// FirestoreVersion is reported as meta.version for Firestore-backed datasets.
const FirestoreVersion = "firestore"

// FirestoreSource reads every document of a collection as a recipe, oldest id
// first, so the viewer's newest-first reversal works the same as for files.
// Ordering happens client-side: a server-side OrderBy("id") would silently
// drop documents that lack the field.
type FirestoreSource struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreSource(client *firestore.Client, collection string) *FirestoreSource {
	return &FirestoreSource{client: client, collection: collection}
}

func (s *FirestoreSource) Fetch(ctx context.Context) (*models.Dataset, error) {
	iter := s.client.Collection(s.collection).Documents(ctx)
	defer iter.Stop()

	ds := &models.Dataset{Meta: models.Meta{Version: FirestoreVersion}}
	var latest time.Time
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("iterate %s: %w", s.collection, err)
		}

		var recipe models.Recipe
		if err := doc.DataTo(&recipe); err != nil {
			return nil, fmt.Errorf("decode document %s: %w", doc.Ref.ID, err)
		}
		ds.Recipes = append(ds.Recipes, recipe)

		if doc.UpdateTime.After(latest) {
			latest = doc.UpdateTime
		}
	}
	sortByID(ds.Recipes)
	if !latest.IsZero() {
		ds.Meta.GeneratedAt = &latest
	}
	return ds, nil
}

// sortByID orders recipes by ascending id, keeping documents without one
// (id 0) first in iteration order.
func sortByID(recipes []models.Recipe) {
	sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].ID < recipes[j].ID })
}
