package config

import "github.com/urfave/cli/v3"

// Source holds import source configuration
type Source struct {
	DownloadURL string
}

// Flags returns CLI flags for import source configuration. The URL is not
// marked required here because a profile file may supply it; commands
// validate presence after merging.
func (c *Source) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "download-url",
			Usage:       "Archive URL produced by the content-transfer service",
			Destination: &c.DownloadURL,
			Sources:     cli.EnvVars("CPIMPORT_DOWNLOAD_URL"),
		},
	}
}
