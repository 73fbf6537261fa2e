// Package artifacts provides read access to the trained model artifacts:
// one scaler and an ensemble of model blobs per precursor type.  Backends
// are object storage (minio) for deployments and the local filesystem for
// development and tests.
package artifacts

import (
	"context"
	"io"
)

// Store fetches named artifact objects.  Object names are slash-separated
// paths relative to the store root, e.g.
// "partial_charge/scaler.json" or "partial_charge/model_3.json".
type Store interface {
	// Fetch returns the object's contents.  A missing object yields an
	// ArtifactNotFound error.
	Fetch(ctx context.Context, name string) (io.ReadCloser, error)

	// Exists reports whether the object is present.
	Exists(ctx context.Context, name string) (bool, error)

	// Close releases backend resources.
	Close() error
}
