package config

import "github.com/urfave/cli/v3"

// IMS holds token service configuration
type IMS struct {
	CredentialsPath string
	BaseURL         string
}

// Flags returns CLI flags for token service configuration
func (c *IMS) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "credentials",
			Usage:       "Path to the service credentials JSON file",
			Destination: &c.CredentialsPath,
			Sources:     cli.EnvVars("CPIMPORT_CREDENTIALS"),
		},
		&cli.StringFlag{
			Name:        "token-endpoint",
			Usage:       "Token service base URL (production endpoint when empty)",
			Destination: &c.BaseURL,
			Sources:     cli.EnvVars("CPIMPORT_TOKEN_ENDPOINT"),
		},
	}
}
