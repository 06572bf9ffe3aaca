package cli

import (
	"context"
	"encoding/json"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/cpimport/cpimport/pkg/cli/config"
	"github.com/cpimport/cpimport/pkg/domain/model"
)

func cmdMountpoint() *cli.Command {
	var targetCfg config.Target

	return &cli.Command{
		Name:  "mountpoint",
		Usage: "Classify a mountpoint URL into its backing store",
		Flags: targetCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			if targetCfg.MountpointURL == "" {
				return goerr.New("mountpoint URL is required (--mountpoint)")
			}

			mount, err := model.ParseMountpoint(targetCfg.MountpointURL)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(mount)
		},
	}
}
