package fsutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// WithWorkspace creates a private staging directory under the
// symlink-resolved system temporary root, runs fn with its path, and
// always removes the directory afterward. Removal is best-effort:
// failures are logged through the context logger, never returned, so
// they cannot mask fn's outcome.
//
// Each call creates its own uniquely named directory, so concurrent
// callers never collide on staging paths.
func WithWorkspace(ctx context.Context, fn func(dir string) error) error {
	tmpRoot, err := filepath.EvalSymlinks(os.TempDir())
	if err != nil {
		return goerr.Wrap(err, "failed to resolve temporary root", goerr.V("tmp_root", os.TempDir()))
	}

	dir := filepath.Join(tmpRoot, "airlift-"+uuid.NewString())
	if err := os.Mkdir(dir, 0700); err != nil {
		return goerr.Wrap(err, "failed to create workspace directory", goerr.V("dir", dir))
	}

	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			ctxlog.From(ctx).Warn("failed to remove workspace directory",
				"dir", dir,
				"error", err,
			)
		}
	}()

	return fn(dir)
}
