package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Profile is an optional TOML file supplying defaults for import runs, so
// CI workflows can keep everything but the per-run download URL in one
// committed file. Explicit flags and environment variables win over
// profile values.
type Profile struct {
	DownloadURL   string `toml:"download_url"`
	Target        string `toml:"target"`
	Mountpoint    string `toml:"mountpoint"`
	Credentials   string `toml:"credentials"`
	HelperBin     string `toml:"helper_bin"`
	TokenEndpoint string `toml:"token_endpoint"`
}

// LoadProfile reads and parses a profile file
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read profile", goerr.V("path", path))
	}

	var p Profile
	if err := toml.Unmarshal(data, &p); err != nil {
		return nil, goerr.Wrap(err, "failed to parse profile", goerr.V("path", path))
	}

	return &p, nil
}

// Apply fills unset fields of the given configs from the profile. Nil
// configs are skipped so commands only merge the concerns they carry.
func (p *Profile) Apply(src *Source, target *Target, ims *IMS, helper *Helper) {
	if src != nil && src.DownloadURL == "" {
		src.DownloadURL = p.DownloadURL
	}
	if target != nil {
		if target.URL == "" {
			target.URL = p.Target
		}
		if target.MountpointURL == "" {
			target.MountpointURL = p.Mountpoint
		}
	}
	if ims != nil {
		if ims.CredentialsPath == "" {
			ims.CredentialsPath = p.Credentials
		}
		if ims.BaseURL == "" {
			ims.BaseURL = p.TokenEndpoint
		}
	}
	if helper != nil && helper.Bin == "" {
		helper.Bin = p.HelperBin
	}
}
