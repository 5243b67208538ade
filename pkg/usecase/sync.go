package usecase

import (
	"context"
	"errors"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/utils/validate"
)

type syncUseCase struct {
	source   interfaces.ReleaseSource
	download interfaces.DownloadUseCase
}

// NewSync creates the manifest sync use case
func NewSync(source interfaces.ReleaseSource, download interfaces.DownloadUseCase) interfaces.SyncUseCase {
	return &syncUseCase{
		source:   source,
		download: download,
	}
}

// Sync downloads every artifact in the manifest sequentially. A failing
// artifact does not stop the rest; failures are returned joined after
// the full pass.
func (uc *syncUseCase) Sync(ctx context.Context, manifest *model.Manifest) error {
	logger := ctxlog.From(ctx)

	// Validate all entries up front so a typo at the end of the file
	// doesn't surface after earlier artifacts were already installed.
	for i := range manifest.Artifacts {
		if err := validate.Struct(&manifest.Artifacts[i]); err != nil {
			return goerr.Wrap(err, "invalid manifest artifact",
				goerr.V("index", i),
				goerr.V("asset", manifest.Artifacts[i].Asset),
			)
		}
	}

	var errs []error
	for i := range manifest.Artifacts {
		artifact := &manifest.Artifacts[i]

		if err := uc.syncArtifact(ctx, artifact); err != nil {
			logger.Error("Failed to sync artifact",
				"repo", artifact.Repository().String(),
				"asset", artifact.Asset,
				"dest", artifact.Dest,
				"error", err,
			)
			errs = append(errs, goerr.Wrap(err, "failed to sync artifact",
				goerr.V("repo", artifact.Repository().String()),
				goerr.V("asset", artifact.Asset),
				goerr.V("dest", artifact.Dest),
			))
			continue
		}

		logger.Info("Synced artifact",
			"repo", artifact.Repository().String(),
			"asset", artifact.Asset,
			"dest", artifact.Dest,
		)
	}

	return errors.Join(errs...)
}

func (uc *syncUseCase) syncArtifact(ctx context.Context, artifact *model.ArtifactSpec) error {
	repo := artifact.Repository()

	var release *model.Release
	var err error
	if artifact.Tag == "" {
		release, err = uc.source.FetchLatestRelease(ctx, repo)
	} else {
		release, err = uc.source.FetchRelease(ctx, repo, artifact.Tag)
	}
	if err != nil {
		return err
	}

	asset, err := release.MatchAsset(artifact.Asset)
	if err != nil {
		return err
	}

	mode, err := artifact.FileMode()
	if err != nil {
		return err
	}

	_, err = uc.download.Download(ctx, &model.DownloadRequest{
		Title: asset.Name,
		URL:   asset.DownloadURL,
		Dest:  artifact.Dest,
		Mode:  mode,
	})
	return err
}
