package interfaces

import (
	"context"
	"io/fs"

	"github.com/m-mizutani/airlift/pkg/domain/model"
)

// AssetFetcher streams a remote file to a local path, reporting progress
// per received chunk
type AssetFetcher interface {
	// Fetch downloads url into path, created with mode when non-zero. The
	// file is flushed and fully closed before Fetch returns.
	Fetch(ctx context.Context, url, path string, mode fs.FileMode, onProgress model.ProgressFunc) error
}

// Notifier posts a one-line summary to an external messaging surface
type Notifier interface {
	Notify(ctx context.Context, msg string) error
}
