package cli

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strconv"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/cli/config"
	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/infra/fetch"
	"github.com/m-mizutani/airlift/pkg/usecase"
	"github.com/m-mizutani/airlift/pkg/utils/async"
)

func cmdGet() *cli.Command {
	var (
		githubCfg config.GitHub
		notifyCfg config.Notify

		owner        string
		repo         string
		tag          string
		assetPattern string
		output       string
		modeStr      string
		progressKind string
		rateLimit    int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "owner",
			Usage:       "Repository owner",
			Required:    true,
			Destination: &owner,
			Sources:     cli.EnvVars("AIRLIFT_OWNER"),
		},
		&cli.StringFlag{
			Name:        "repo",
			Usage:       "Repository name",
			Required:    true,
			Destination: &repo,
			Sources:     cli.EnvVars("AIRLIFT_REPO"),
		},
		&cli.StringFlag{
			Name:        "tag",
			Usage:       "Release tag (empty for the latest release)",
			Destination: &tag,
		},
		&cli.StringFlag{
			Name:        "asset",
			Aliases:     []string{"a"},
			Usage:       "Asset name or glob pattern",
			Required:    true,
			Destination: &assetPattern,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "Destination path for the downloaded asset",
			Required:    true,
			Destination: &output,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "Octal permission mode for the downloaded file (e.g. 0755)",
			Destination: &modeStr,
		},
		&cli.Int64Flag{
			Name:        "rate-limit",
			Usage:       "Download rate limit in bytes per second (0 for unlimited)",
			Destination: &rateLimit,
		},
		&cli.StringFlag{
			Name:        "progress",
			Usage:       "Progress surface (bar, log, none)",
			Value:       "bar",
			Destination: &progressKind,
		},
	}
	flags = append(flags, githubCfg.Flags()...)
	flags = append(flags, notifyCfg.Flags()...)

	return &cli.Command{
		Name:    "get",
		Aliases: []string{"g"},
		Usage:   "Download a release asset and install it atomically",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			factory, err := progressFactory(progressKind)
			if err != nil {
				return err
			}

			mode, err := parseMode(modeStr)
			if err != nil {
				return err
			}

			repository := model.Repository{Owner: owner, Name: repo}
			release, err := fetchRelease(ctx, githubCfg.Configure(), repository, tag)
			if err != nil {
				return err
			}

			asset, err := release.MatchAsset(assetPattern)
			if err != nil {
				return err
			}

			logger.Info("Selected asset",
				slog.String("release", release.Name),
				slog.String("asset", asset.Name),
			)

			uc := usecase.NewDownload(
				fetch.New(fetch.WithRateLimit(int(rateLimit))),
				usecase.WithProgressFactory(factory),
			)

			result, err := uc.Download(ctx, &model.DownloadRequest{
				Title: asset.Name,
				URL:   asset.DownloadURL,
				Dest:  output,
				Mode:  mode,
			})

			notifyResult(ctx, notifyCfg.Configure(), asset.Name, output, err)

			if err != nil {
				return err
			}

			logger.Info("Installed asset",
				slog.String("dest", result.Dest),
				slog.Int64("size_bytes", result.Bytes),
				slog.Duration("elapsed", result.Elapsed),
			)
			return nil
		},
	}
}

// fetchRelease resolves a tag to release metadata, using the latest
// published release when tag is empty
func fetchRelease(ctx context.Context, source interfaces.ReleaseSource, repo model.Repository, tag string) (*model.Release, error) {
	if tag == "" {
		return source.FetchLatestRelease(ctx, repo)
	}
	return source.FetchRelease(ctx, repo, tag)
}

// parseMode parses an octal permission string. Empty means no explicit
// mode.
func parseMode(s string) (fs.FileMode, error) {
	if s == "" {
		return 0, nil
	}

	mode, err := strconv.ParseUint(s, 8, 32)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid permission mode", goerr.V("mode", s))
	}

	return fs.FileMode(mode), nil
}

// notifyResult posts a one-line summary when a notifier is configured.
// The post runs on a detached context and is waited on before the
// process exits; its own failure is only logged.
func notifyResult(ctx context.Context, notifier interfaces.Notifier, asset, dest string, downloadErr error) {
	if notifier == nil {
		return
	}

	msg := fmt.Sprintf("airlift: installed %s to %s", asset, dest)
	if downloadErr != nil {
		msg = fmt.Sprintf("airlift: failed to install %s to %s: %v", asset, dest, downloadErr)
	}

	<-async.Dispatch(ctx, func(ctx context.Context) error {
		return notifier.Notify(ctx, msg)
	})
}
