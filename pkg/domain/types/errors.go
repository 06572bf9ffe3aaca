package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify pipeline failures so the command boundary can decide
// how to surface them. Token failures terminate the process; everything
// else is reported back to the calling workflow as an error message.
var (
	ErrTagDownload              = goerr.NewTag("download")
	ErrTagExtraction            = goerr.NewTag("extraction")
	ErrTagUnsupportedMountpoint = goerr.NewTag("unsupported_mountpoint")
	ErrTagTokenFetch            = goerr.NewTag("token_fetch")
	ErrTagUpload                = goerr.NewTag("upload")
)

// ErrManifestNotFound is soft: when the content package carries no filter
// manifest the pipeline logs and continues without content paths.
var ErrManifestNotFound = goerr.New("filter manifest not found in content package")
