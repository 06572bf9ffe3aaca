package usecase

import (
	"archive/zip"
	"io"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/types"
)

// filterDeclRe matches a single-line self-closing filter declaration. The
// manifest is machine-written with one declaration per line, so a
// line-oriented match is sufficient; attribute-order variations and
// multi-line declarations are intentionally not recognized.
var filterDeclRe = regexp.MustCompile(`^\s*<filter root="([^"]*)"></filter>\s*$`)

// ScanPackageFilters reads the filter manifest from the content package at
// pkgPath and returns the declared content roots in manifest order,
// duplicates preserved. Returns types.ErrManifestNotFound when the package
// carries no manifest entry.
func ScanPackageFilters(pkgPath string) ([]string, error) {
	zr, err := zip.OpenReader(pkgPath)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open content package",
			goerr.V("path", pkgPath),
			goerr.T(types.ErrTagExtraction))
	}
	defer zr.Close()

	var manifest *zip.File
	for _, f := range zr.File {
		if f.Name == types.PackageFilterEntry {
			manifest = f
			break
		}
	}
	if manifest == nil {
		return nil, types.ErrManifestNotFound
	}

	rc, err := manifest.Open()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open filter manifest",
			goerr.V("entry", types.PackageFilterEntry))
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read filter manifest",
			goerr.V("entry", types.PackageFilterEntry))
	}

	var paths []string
	for _, line := range strings.Split(string(data), "\n") {
		if m := filterDeclRe.FindStringSubmatch(line); m != nil {
			paths = append(paths, m[1])
		}
	}

	return paths, nil
}
