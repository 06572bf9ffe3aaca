package usecase

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/interfaces"
	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/domain/types"
)

type importer struct {
	fetcher       interfaces.Fetcher
	tokens        interfaces.TokenSource
	uploader      interfaces.Uploader
	workspaceRoot string
	onProgress    model.ProgressFunc
}

// Option is a functional option for importer configuration
type Option func(*importer)

// WithProgress sets a receiver for extraction progress events
func WithProgress(fn model.ProgressFunc) Option {
	return func(uc *importer) {
		uc.onProgress = fn
	}
}

// WithWorkspaceRoot overrides the directory under which per-run workspaces
// are created. Defaults to the system temp directory.
func WithWorkspaceRoot(dir string) Option {
	return func(uc *importer) {
		uc.workspaceRoot = dir
	}
}

// NewImporter creates a new instance of ContentImporter
func NewImporter(fetcher interfaces.Fetcher, tokens interfaces.TokenSource, uploader interfaces.Uploader, opts ...Option) interfaces.ContentImporter {
	uc := &importer{
		fetcher:  fetcher,
		tokens:   tokens,
		uploader: uploader,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// ValidateDownloadURL rejects a download URL before any network access: it
// must carry the content-transfer service marker and parse as a URL.
func ValidateDownloadURL(raw string) error {
	if !strings.Contains(raw, types.SourceURLMarker) {
		return goerr.New("download URL does not originate from the content-transfer service",
			goerr.V("url", raw),
			goerr.V("marker", types.SourceURLMarker),
			goerr.T(types.ErrTagDownload))
	}

	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return goerr.New("download URL is not well-formed",
			goerr.V("url", raw),
			goerr.T(types.ErrTagDownload))
	}

	return nil
}

// Prepare downloads the import archive, extracts it into a fresh workspace
// and scans the detected content package for declared content paths. The
// stages run strictly sequentially; the first failure aborts the rest. The
// downloaded archive file is removed on every exit path, while the
// extracted contents directory is preserved for downstream consumption.
func (uc *importer) Prepare(ctx context.Context, downloadURL string) (*model.ImportResult, error) {
	logger := ctxlog.From(ctx)

	if err := ValidateDownloadURL(downloadURL); err != nil {
		return nil, err
	}

	root := uc.workspaceRoot
	if root == "" {
		root = os.TempDir()
	}
	workspace := filepath.Join(root, types.AppName+"-"+uuid.NewString())
	contents := filepath.Join(workspace, "contents")
	if err := os.MkdirAll(contents, 0o700); err != nil {
		return nil, goerr.Wrap(err, "failed to create workspace",
			goerr.V("workspace", workspace))
	}

	result := &model.ImportResult{
		Workspace:   workspace,
		ContentsDir: contents,
	}

	archivePath := filepath.Join(workspace, "import.zip")
	defer func() {
		// The archive is disposable once extraction has run or failed.
		// Cleanup failures are logged, never escalated.
		if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
			logger.Warn("Failed to remove downloaded archive",
				"path", archivePath,
				"error", err,
			)
		}
	}()

	if err := uc.fetcher.Download(ctx, downloadURL, archivePath); err != nil {
		return result, err
	}

	logger.Info("Downloaded import archive",
		"url", downloadURL,
		"path", archivePath,
	)

	extraction, err := ExtractArchive(archivePath, contents, uc.onProgress)
	if err != nil {
		return result, err
	}

	result.EntryCount = extraction.EntryCount
	result.PackagePath = extraction.PackagePath

	logger.Info("Extracted import archive",
		"entry_count", extraction.EntryCount,
		"package_path", extraction.PackagePath,
		"contents_dir", contents,
	)

	if extraction.PackagePath == "" {
		logger.Warn("No content package detected within archive")
		return result, nil
	}

	paths, err := ScanPackageFilters(filepath.Join(contents, extraction.PackagePath))
	if err != nil {
		if errors.Is(err, types.ErrManifestNotFound) {
			// Soft by design: the workflow can still consume the
			// extracted contents without a content-path list.
			logger.Warn("Content package has no filter manifest, continuing without content paths",
				"package", extraction.PackagePath,
			)
			return result, nil
		}
		return result, err
	}

	result.ContentPaths = paths

	logger.Info("Scanned content package manifest",
		"package", extraction.PackagePath,
		"content_path_count", len(paths),
	)

	return result, nil
}

// Import runs Prepare and then uploads the detected content package to the
// target through the helper CLI. The mountpoint, when given, is validated
// before any download so unsupported backing stores fail fast.
func (uc *importer) Import(ctx context.Context, req *model.ImportRequest) (*model.ImportResult, error) {
	logger := ctxlog.From(ctx)

	var mount *model.Mountpoint
	if req.MountpointURL != "" {
		m, err := model.ParseMountpoint(req.MountpointURL)
		if err != nil {
			return nil, err
		}
		mount = m
	}

	result, err := uc.Prepare(ctx, req.DownloadURL)
	if err != nil {
		return result, err
	}
	if mount != nil {
		result.MountpointType = mount.Type
	}

	if result.PackagePath == "" {
		return result, goerr.New("archive contains no content package to upload",
			goerr.T(types.ErrTagUpload))
	}

	token, err := uc.tokens.AccessToken(ctx)
	if err != nil {
		return result, err
	}

	upload := &model.UploadRequest{
		ZipPath:   filepath.Join(result.ContentsDir, result.PackagePath),
		TargetURL: req.TargetURL,
		Token:     token.Value,
	}
	mapping := filepath.Join(result.ContentsDir, types.AssetMappingFile)
	if _, err := os.Stat(mapping); err == nil {
		upload.AssetMappingPath = mapping
	}

	if err := uc.uploader.Upload(ctx, upload); err != nil {
		return result, err
	}

	result.Uploaded = true

	logger.Info("Uploaded content package",
		"package", result.PackagePath,
		"target", req.TargetURL,
	)

	return result, nil
}
