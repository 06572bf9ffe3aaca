package helper

import (
	"bufio"
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/interfaces"
	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/domain/types"
)

// DefaultBin is the upload helper binary resolved from PATH
const DefaultBin = "aem-import-helper"

type runner struct {
	bin string
}

// Option is a functional option for runner configuration
type Option func(*runner)

// WithBin overrides the helper binary path
func WithBin(bin string) Option {
	return func(r *runner) {
		r.bin = bin
	}
}

// New creates an Uploader that shells out to the import helper CLI
func New(opts ...Option) interfaces.Uploader {
	r := &runner{bin: DefaultBin}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Upload invokes the helper CLI for one content package. The bearer token
// is passed as a Secret argument so the logged command line carries a mask
// in its place. A non-zero exit surfaces as an upload failure carrying the
// helper's last stderr line.
func (r *runner) Upload(ctx context.Context, req *model.UploadRequest) error {
	logger := ctxlog.From(ctx)

	args := []Arg{
		Plain("upload"),
		Plain("--zip"), Plain(req.ZipPath),
		Plain("--target"), Plain(req.TargetURL),
		Plain("--token"), Secret(req.Token),
	}
	if req.AssetMappingPath != "" {
		args = append(args,
			Plain("--asset-mapping"), Plain(req.AssetMappingPath),
		)
	}
	command := NewCommand(r.bin, args...)

	logger.Info("Invoking upload helper", "command", command.Redacted())

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, r.bin, command.Args()...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return goerr.Wrap(err, "upload helper failed",
			goerr.V("command", command.Redacted()),
			goerr.V("stderr", lastLine(&stderr)),
			goerr.T(types.ErrTagUpload))
	}

	return nil
}

// lastLine returns the final non-empty line of the helper's stderr, which
// is where it prints its failure reason
func lastLine(buf *bytes.Buffer) string {
	var last string
	scanner := bufio.NewScanner(buf)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			last = line
		}
	}
	return last
}
