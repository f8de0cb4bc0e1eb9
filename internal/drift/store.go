//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -destination=mock_store.gen.go -package=drift -source=store.go ReleaseStore,Catalog

package drift

import (
	"context"

	"release-tracker/internal/catalog"
	"release-tracker/internal/models"
)

// ReleaseStore supplies the recorded releases of one application. An
// application without releases yields an empty slice and a nil error.
type ReleaseStore interface {
	FetchReleases(ctx context.Context, application string) ([]models.Release, error)
}

// Catalog is the read-only application list and deployment matrix a run is evaluated against.
type Catalog interface {
	catalog.Matrix
	Applications() []string
}
