package ports

import (
	"context"

	"github.com/alexisbeaulieu97/cgwt/internal/domain"
)

// DirectoryClassifier classifies a filesystem path into the directory states
// internal/app.Controller dispatches on. internal/prober.Prober implements
// this; internal/app depends on the interface to stay testable without a
// real git checkout on disk.
type DirectoryClassifier interface {
	Classify(ctx context.Context, path string) (domain.DirectoryState, error)
}
