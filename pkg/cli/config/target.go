package config

import "github.com/urfave/cli/v3"

// Target holds upload target configuration
type Target struct {
	URL           string
	MountpointURL string
}

// Flags returns CLI flags for upload target configuration
func (c *Target) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "target",
			Usage:       "Upload target URL passed to the helper CLI",
			Destination: &c.URL,
			Sources:     cli.EnvVars("CPIMPORT_TARGET"),
		},
		&cli.StringFlag{
			Name:        "mountpoint",
			Usage:       "Mountpoint URL to classify before upload",
			Destination: &c.MountpointURL,
			Sources:     cli.EnvVars("CPIMPORT_MOUNTPOINT"),
		},
	}
}
