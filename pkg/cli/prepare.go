package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/cpimport/cpimport/pkg/cli/config"
	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/infra/fetch"
	"github.com/cpimport/cpimport/pkg/usecase"
)

func cmdPrepare() *cli.Command {
	var (
		srcCfg      config.Source
		failOnError bool
	)

	flags := append(srcCfg.Flags(),
		&cli.BoolFlag{
			Name:        "fail-on-error",
			Usage:       "Exit non-zero on pipeline errors instead of reporting them in the result",
			Destination: &failOnError,
			Sources:     cli.EnvVars("CPIMPORT_FAIL_ON_ERROR"),
		},
	)

	return &cli.Command{
		Name:    "prepare",
		Aliases: []string{"p"},
		Usage:   "Download and extract an import archive without uploading",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := ctxlog.From(ctx)

			if srcCfg.DownloadURL == "" {
				return goerr.New("download URL is required (--download-url)")
			}

			importer := usecase.NewImporter(
				fetch.New(),
				nil, // no token exchange in prepare
				nil, // no upload in prepare
				usecase.WithProgress(progressPrinter()),
			)

			result, err := importer.Prepare(ctx, srcCfg.DownloadURL)
			if err != nil {
				logger.Warn("Prepare pipeline failed", "error", err)
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
