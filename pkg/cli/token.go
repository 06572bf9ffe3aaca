package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/cpimport/cpimport/pkg/cli/config"
	"github.com/cpimport/cpimport/pkg/infra/ims"
)

func cmdToken() *cli.Command {
	var imsCfg config.IMS

	return &cli.Command{
		Name:  "token",
		Usage: "Exchange service credentials for a bearer token",
		Flags: imsCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if imsCfg.CredentialsPath == "" {
				return goerr.New("service credentials are required (--credentials)")
			}

			creds, err := ims.LoadCredentials(imsCfg.CredentialsPath)
			if err != nil {
				return err
			}

			var opts []ims.Option
			if imsCfg.BaseURL != "" {
				opts = append(opts, ims.WithBaseURL(imsCfg.BaseURL))
			}

			token, err := ims.New(creds, opts...).AccessToken(ctx)
			if err != nil {
				return err
			}

			// The token goes to stdout only, never through the logger
			fmt.Fprintln(os.Stdout, token.Value)
			return nil
		},
	}
}
