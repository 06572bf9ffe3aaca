package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/cpimport/cpimport/pkg/cli/config"
	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/domain/types"
	"github.com/cpimport/cpimport/pkg/infra/fetch"
	"github.com/cpimport/cpimport/pkg/infra/helper"
	"github.com/cpimport/cpimport/pkg/infra/ims"
	"github.com/cpimport/cpimport/pkg/usecase"
)

func cmdImport() *cli.Command {
	var (
		srcCfg      config.Source
		targetCfg   config.Target
		imsCfg      config.IMS
		helperCfg   config.Helper
		profilePath string
		failOnError bool
	)

	flags := append(srcCfg.Flags(), targetCfg.Flags()...)
	flags = append(flags, imsCfg.Flags()...)
	flags = append(flags, helperCfg.Flags()...)
	flags = append(flags,
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to a TOML profile supplying defaults",
			Destination: &profilePath,
			Sources:     cli.EnvVars("CPIMPORT_CONFIG"),
		},
		&cli.BoolFlag{
			Name:        "fail-on-error",
			Usage:       "Exit non-zero on pipeline errors instead of reporting them in the result",
			Destination: &failOnError,
			Sources:     cli.EnvVars("CPIMPORT_FAIL_ON_ERROR"),
		},
	)

	return &cli.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Download, extract and upload a content package",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if profilePath != "" {
				profile, err := config.LoadProfile(profilePath)
				if err != nil {
					return err
				}
				profile.Apply(&srcCfg, &targetCfg, &imsCfg, &helperCfg)
			}

			if srcCfg.DownloadURL == "" {
				return goerr.New("download URL is required (--download-url or profile)")
			}
			if targetCfg.URL == "" {
				return goerr.New("upload target is required (--target or profile)")
			}
			if imsCfg.CredentialsPath == "" {
				return goerr.New("service credentials are required (--credentials or profile)")
			}

			// Credential failures terminate immediately: nothing in the
			// pipeline can continue without a token.
			creds, err := ims.LoadCredentials(imsCfg.CredentialsPath)
			if err != nil {
				return err
			}

			var imsOpts []ims.Option
			if imsCfg.BaseURL != "" {
				imsOpts = append(imsOpts, ims.WithBaseURL(imsCfg.BaseURL))
			}
			var helperOpts []helper.Option
			if helperCfg.Bin != "" {
				helperOpts = append(helperOpts, helper.WithBin(helperCfg.Bin))
			}

			importer := usecase.NewImporter(
				fetch.New(),
				ims.New(creds, imsOpts...),
				helper.New(helperOpts...),
				usecase.WithProgress(progressPrinter()),
			)

			result, err := importer.Import(ctx, &model.ImportRequest{
				DownloadURL:   srcCfg.DownloadURL,
				TargetURL:     targetCfg.URL,
				MountpointURL: targetCfg.MountpointURL,
			})
			if err != nil {
				if goerr.HasTag(err, types.ErrTagTokenFetch) {
					return err
				}

				// Pipeline errors are surfaced to the workflow as a
				// result with an error message; the workflow decides
				// whether to halt.
				logger.Warn("Import pipeline failed", "error", err)
				if result == nil {
					result = &model.ImportResult{}
				}
				result.ErrorMessage = err.Error()
				if werr := writeResult(os.Stdout, result); werr != nil {
					return werr
				}
				if failOnError {
					return err
				}
				return nil
			}

			return writeResult(os.Stdout, result)
		},
	}
}
