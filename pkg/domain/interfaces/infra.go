package interfaces

import (
	"context"

	"github.com/cpimport/cpimport/pkg/domain/model"
)

// Fetcher defines operations for downloading import archives
type Fetcher interface {
	// Download fetches the archive at src and writes it to the dest file
	// path, verifying the result is a well-formed zip archive
	Download(ctx context.Context, src, dest string) error
}

// TokenSource defines operations for obtaining upload bearer tokens
type TokenSource interface {
	// AccessToken exchanges the configured service credentials for a
	// bearer token
	AccessToken(ctx context.Context) (*model.Token, error)
}

// Uploader defines operations for handing a content package to the
// content-management target
type Uploader interface {
	// Upload pushes the content package described by req to its target
	Upload(ctx context.Context, req *model.UploadRequest) error
}
