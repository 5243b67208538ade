package interfaces

import (
	"context"

	"github.com/m-mizutani/airlift/pkg/domain/model"
)

// DownloadUseCase orchestrates one asset download: staging in a private
// workspace, streaming with progress, then atomic placement
type DownloadUseCase interface {
	// Download runs one acquisition. The destination path either receives
	// the complete file or stays untouched.
	Download(ctx context.Context, req *model.DownloadRequest) (*model.DownloadResult, error)
}

// SyncUseCase applies a manifest of artifacts sequentially
type SyncUseCase interface {
	// Sync downloads every artifact in the manifest, continuing past
	// individual failures and returning them joined
	Sync(ctx context.Context, manifest *model.Manifest) error
}

// ProgressSurface renders user-visible progress for one download. The
// rendering strategy (terminal bar, log lines, nothing) is chosen by the
// calling layer.
type ProgressSurface interface {
	// Report is called with the absolute percentage complete and the
	// increment since the previous call
	Report(percent, increment float64)

	// Finish renders the terminal state of the surface
	Finish()
}

// ProgressFactory builds a ProgressSurface for one download labeled with
// title
type ProgressFactory func(ctx context.Context, title string) ProgressSurface
