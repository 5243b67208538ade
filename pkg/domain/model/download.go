package model

import (
	"io/fs"
	"path/filepath"
	"time"
)

// DownloadRequest describes one asset download. It is constructed per
// invocation and not retained afterward.
type DownloadRequest struct {
	// ID correlates log lines of one download operation. Empty means the
	// orchestration assigns one.
	ID string

	// Title labels the progress surface. Empty means the base name of
	// Dest is used.
	Title string

	// URL is the asset download URL.
	URL string `validate:"required,url"`

	// Dest is the final destination path. The path never observes a
	// partially written file.
	Dest string `validate:"required"`

	// Mode is the permission mode for the downloaded file. Zero means
	// the platform default applies.
	Mode fs.FileMode
}

// ProgressTitle returns the label shown on the progress surface
func (x *DownloadRequest) ProgressTitle() string {
	if x.Title != "" {
		return x.Title
	}
	return filepath.Base(x.Dest)
}

// DownloadResult reports a completed download
type DownloadResult struct {
	Dest    string
	Bytes   int64
	Elapsed time.Duration
}

// ProgressFunc is invoked synchronously once per received chunk with the
// bytes received so far and the total reported by the server. received
// is monotonically non-decreasing and never exceeds total under
// well-behaved servers.
type ProgressFunc func(received, total int64)
