package model

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/types"
)

// MountpointType identifies the backing store behind a mountpoint URL
type MountpointType string

const (
	MountpointSharePoint  MountpointType = "sharepoint"
	MountpointGoogleDrive MountpointType = "google-drive"
)

// Mountpoint is a classified mountpoint descriptor
type Mountpoint struct {
	Type MountpointType `json:"type"`

	// SharePoint fields
	SiteURL string `json:"site_url,omitempty"` // https://<tenant>.sharepoint.com/sites/<name>
	Root    string `json:"root,omitempty"`     // Document path below the site

	// Google Drive fields
	FolderID string `json:"folder_id,omitempty"`
}

var (
	sharepointSiteRe = regexp.MustCompile(`^(https?://[^/]+/sites/[^/]+)(/.*)?$`)
	driveFolderRe    = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)
)

// unsupportedStores are backing stores we recognize but deliberately reject
var unsupportedStores = []string{"dropbox", "box.com", "onedrive"}

// ParseMountpoint classifies a mountpoint URL into one of the supported
// backing stores. Recognized-but-unsupported stores are rejected with a
// descriptive error instead of being attempted. A SharePoint URL without a
// /sites/<name>/ segment is a format error; no partial descriptor is
// returned in that case.
func ParseMountpoint(raw string) (*Mountpoint, error) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, goerr.New("mountpoint is not a well-formed URL",
			goerr.V("url", raw),
			goerr.T(types.ErrTagUnsupportedMountpoint))
	}

	lower := strings.ToLower(raw)
	for _, store := range unsupportedStores {
		if strings.Contains(lower, store) {
			return nil, goerr.New("mountpoint backing store is not supported",
				goerr.V("store", store),
				goerr.V("url", raw),
				goerr.T(types.ErrTagUnsupportedMountpoint))
		}
	}

	switch {
	case strings.Contains(lower, "sharepoint"):
		m := sharepointSiteRe.FindStringSubmatch(raw)
		if m == nil {
			return nil, goerr.New("sharepoint mountpoint must contain a /sites/<name>/ segment",
				goerr.V("url", raw),
				goerr.T(types.ErrTagUnsupportedMountpoint))
		}
		root := m[2]
		if root == "" {
			root = "/"
		}
		return &Mountpoint{
			Type:    MountpointSharePoint,
			SiteURL: m[1],
			Root:    root,
		}, nil

	case strings.Contains(strings.ToLower(u.Host), "drive.google.com"):
		m := driveFolderRe.FindStringSubmatch(raw)
		if m == nil {
			return nil, goerr.New("google drive mountpoint must reference a folder",
				goerr.V("url", raw),
				goerr.T(types.ErrTagUnsupportedMountpoint))
		}
		return &Mountpoint{
			Type:     MountpointGoogleDrive,
			FolderID: m[1],
		}, nil

	default:
		return nil, goerr.New("mountpoint backing store is not recognized",
			goerr.V("url", raw),
			goerr.T(types.ErrTagUnsupportedMountpoint))
	}
}
