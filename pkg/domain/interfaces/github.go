package interfaces

import (
	"context"

	"github.com/m-mizutani/airlift/pkg/domain/model"
)

// ReleaseSource defines operations for fetching release metadata from a
// hosted release API
type ReleaseSource interface {
	// FetchRelease fetches metadata for the release identified by tag
	FetchRelease(ctx context.Context, repo model.Repository, tag string) (*model.Release, error)

	// FetchLatestRelease fetches metadata for the latest published release
	FetchLatestRelease(ctx context.Context, repo model.Repository) (*model.Release, error)
}
