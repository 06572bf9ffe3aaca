package usecase

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/domain/types"
)

// nestedPackageWindow bounds how deep into the archive the content-package
// detection looks. The transfer service writes the package zip as one of
// the first entries of the archive; compatibility depends on this exact
// window, so do not widen it.
const nestedPackageWindow = 3

// progressStep is the granularity of extraction progress events in percent
const progressStep = 20

// ExtractArchive materializes every entry of the archive at src under the
// dest directory, one entry at a time, in central-directory order.
// Directory entries are created idempotently; file entries overwrite
// same-named files. A failure on any entry aborts the remaining ones.
func ExtractArchive(src, dest string, onProgress model.ProgressFunc) (*model.ExtractionResult, error) {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open archive",
			goerr.V("path", src),
			goerr.T(types.ErrTagExtraction))
	}
	defer zr.Close()

	result := &model.ExtractionResult{EntryCount: len(zr.File)}
	nextMark := progressStep

	for i, entry := range zr.File {
		if err := extractEntry(entry, dest); err != nil {
			return nil, goerr.Wrap(err, "failed to extract entry",
				goerr.V("entry", entry.Name),
				goerr.T(types.ErrTagExtraction))
		}

		if result.PackagePath == "" && isNestedPackage(i, entry.Name) {
			result.PackagePath = entry.Name
		}

		done := i + 1
		pct := done * 100 / len(zr.File)
		if onProgress != nil && pct >= nextMark {
			onProgress(model.Progress{Done: done, Total: len(zr.File), Percent: pct})
			nextMark = (pct/progressStep)*progressStep + progressStep
		}
	}

	return result, nil
}

// isNestedPackage reports whether the entry at index idx is the content
// package candidate: only the first nestedPackageWindow entries are
// considered, and only a .zip suffix (case-insensitive) qualifies. This is
// a deliberate heuristic matching what the transfer service produces; swap
// the policy here if the service ever changes.
func isNestedPackage(idx int, name string) bool {
	return idx < nestedPackageWindow && strings.HasSuffix(strings.ToLower(name), ".zip")
}

// extractEntry materializes a single archive entry under destDir
func extractEntry(entry *zip.File, destDir string) error {
	// Security check: prevent path traversal attacks
	destPath := filepath.Join(destDir, entry.Name)
	if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
		return goerr.New("entry path escapes destination",
			goerr.V("entry", entry.Name),
			goerr.V("dest", destPath))
	}

	if entry.FileInfo().IsDir() {
		return os.MkdirAll(destPath, 0o755)
	}

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return goerr.Wrap(err, "failed to create parent directories",
			goerr.V("dir", filepath.Dir(destPath)))
	}

	rc, err := entry.Open()
	if err != nil {
		return goerr.Wrap(err, "failed to open entry in archive")
	}
	defer rc.Close()

	// Archives written by tools that record no permissions yield mode 0
	mode := entry.FileInfo().Mode().Perm()
	if mode == 0 {
		mode = 0o644
	}

	destFile, err := os.OpenFile(destPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode)
	if err != nil {
		return goerr.Wrap(err, "failed to create destination file",
			goerr.V("path", destPath))
	}
	defer destFile.Close()

	if _, err := io.Copy(destFile, rc); err != nil {
		return goerr.Wrap(err, "failed to copy entry content",
			goerr.V("path", destPath))
	}

	return nil
}
