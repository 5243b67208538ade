package usecase

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/utils/fsutil"
	"github.com/m-mizutani/airlift/pkg/utils/validate"
)

type downloadUseCase struct {
	fetcher  interfaces.AssetFetcher
	progress interfaces.ProgressFactory
}

// DownloadOption is a functional option for the download use case
type DownloadOption func(*downloadUseCase)

// WithProgressFactory sets how per-download progress surfaces are built.
// The default surface renders nothing.
func WithProgressFactory(factory interfaces.ProgressFactory) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.progress = factory
	}
}

// NewDownload creates the download orchestration: private workspace,
// streamed fetch with progress, then atomic placement
func NewDownload(fetcher interfaces.AssetFetcher, opts ...DownloadOption) interfaces.DownloadUseCase {
	uc := &downloadUseCase{
		fetcher:  fetcher,
		progress: nopProgressFactory,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Download runs one acquisition. The destination path either receives
// the complete file atomically or stays untouched.
func (uc *downloadUseCase) Download(ctx context.Context, req *model.DownloadRequest) (*model.DownloadResult, error) {
	if err := validate.Struct(req); err != nil {
		return nil, goerr.Wrap(err, "invalid download request", goerr.V("url", req.URL), goerr.V("dest", req.Dest))
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	logger := ctxlog.From(ctx).With(slog.String("download_id", id))
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Starting download",
		slog.String("url", req.URL),
		slog.String("dest", req.Dest),
	)

	surface := uc.progress(ctx, req.ProgressTitle())
	defer surface.Finish()

	startedAt := time.Now()
	var received int64

	err := fsutil.WithWorkspace(ctx, func(dir string) error {
		// Reuse the destination's base name so the staged file keeps any
		// meaningful extension.
		staged := filepath.Join(dir, filepath.Base(req.Dest))

		// Increments are re-derived from absolute progress each call, so
		// they always sum to the current percentage without accumulating
		// per-chunk rounding error.
		var lastPercent float64
		onProgress := func(got, total int64) {
			received = got

			percent := 100.0
			if total > 0 {
				percent = float64(got) / float64(total) * 100.0
			}
			surface.Report(percent, percent-lastPercent)
			lastPercent = percent
		}

		if err := uc.fetcher.Fetch(ctx, req.URL, staged, req.Mode, onProgress); err != nil {
			return err
		}

		return fsutil.Place(staged, req.Dest)
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to download asset",
			goerr.V("url", req.URL),
			goerr.V("dest", req.Dest),
		)
	}

	result := &model.DownloadResult{
		Dest:    req.Dest,
		Bytes:   received,
		Elapsed: time.Since(startedAt),
	}

	logger.Info("Download completed",
		slog.String("dest", result.Dest),
		slog.Int64("size_bytes", result.Bytes),
		slog.Duration("elapsed", result.Elapsed),
	)

	return result, nil
}

type nopSurface struct{}

func (nopSurface) Report(percent, increment float64) {}
func (nopSurface) Finish()                           {}

func nopProgressFactory(ctx context.Context, title string) interfaces.ProgressSurface {
	return nopSurface{}
}
