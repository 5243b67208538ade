package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/cli/config"
	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/infra/fetch"
	"github.com/m-mizutani/airlift/pkg/usecase"
	"github.com/m-mizutani/airlift/pkg/utils/async"
)

func cmdSync() *cli.Command {
	var (
		githubCfg config.GitHub
		notifyCfg config.Notify

		manifestPath string
		progressKind string
		rateLimit    int64
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "manifest",
			Aliases:     []string{"f"},
			Usage:       "Path to the TOML artifact manifest",
			Required:    true,
			Destination: &manifestPath,
			Sources:     cli.EnvVars("AIRLIFT_MANIFEST"),
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
		Name:  "sync",
		Usage: "Download all artifacts listed in a manifest",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			factory, err := progressFactory(progressKind)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(manifestPath)
			if err != nil {
				return goerr.Wrap(err, "failed to read manifest", goerr.V("path", manifestPath))
			}

			manifest, err := model.ParseManifest(data)
			if err != nil {
				return err
			}

			// A manifest-level endpoint wins over flags so the file stays
			// self-contained.
			if manifest.GitHub.Endpoint != "" {
				githubCfg.Endpoint = manifest.GitHub.Endpoint
			}

			downloadUC := usecase.NewDownload(
				fetch.New(fetch.WithRateLimit(int(rateLimit))),
				usecase.WithProgressFactory(factory),
			)
			syncUC := usecase.NewSync(githubCfg.Configure(), downloadUC)

			syncErr := syncUC.Sync(ctx, manifest)

			if notifier := notifyCfg.Configure(); notifier != nil {
				msg := fmt.Sprintf("airlift: synced %d artifacts from %s", len(manifest.Artifacts), manifestPath)
				if syncErr != nil {
					msg = fmt.Sprintf("airlift: sync of %s failed: %v", manifestPath, syncErr)
				}
				<-async.Dispatch(ctx, func(ctx context.Context) error {
					return notifier.Notify(ctx, msg)
				})
			}

			return syncErr
		},
	}
}
