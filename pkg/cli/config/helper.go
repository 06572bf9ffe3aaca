package config

import "github.com/urfave/cli/v3"

// Helper holds upload helper CLI configuration
type Helper struct {
	Bin string
}

// Flags returns CLI flags for upload helper configuration
func (c *Helper) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "helper-bin",
			Usage:       "Upload helper binary (resolved from PATH when empty)",
			Destination: &c.Bin,
			Sources:     cli.EnvVars("CPIMPORT_HELPER_BIN"),
		},
	}
}
