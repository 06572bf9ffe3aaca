package interfaces

import (
	"context"

	"github.com/cpimport/cpimport/pkg/domain/model"
)

// ContentImporter defines the import pipeline operations
type ContentImporter interface {
	// Prepare downloads, extracts and scans an import archive. The
	// returned result carries the workspace path as soon as the workspace
	// exists, even when err is non-nil, so callers can report partial
	// state to the workflow.
	Prepare(ctx context.Context, downloadURL string) (*model.ImportResult, error)

	// Import runs Prepare and then uploads the detected content package
	// to the target through the helper CLI
	Import(ctx context.Context, req *model.ImportRequest) (*model.ImportResult, error)
}
