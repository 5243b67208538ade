package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/airlift/pkg/cli/config"
	"github.com/m-mizutani/airlift/pkg/domain/model"
)

func cmdInfo() *cli.Command {
	var (
		githubCfg config.GitHub

		owner string
		repo  string
		tag   string
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
	}
	flags = append(flags, githubCfg.Flags()...)

	return &cli.Command{
		Name:    "info",
		Aliases: []string{"i"},
		Usage:   "Show release metadata as JSON",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repository := model.Repository{Owner: owner, Name: repo}
			release, err := fetchRelease(ctx, githubCfg.Configure(), repository, tag)
			if err != nil {
				return err
			}

			data, err := json.MarshalIndent(release, "", "  ")
			if err != nil {
				return goerr.Wrap(err, "failed to encode release metadata")
			}

			fmt.Fprintln(os.Stdout, string(data))
			return nil
		},
	}
}
