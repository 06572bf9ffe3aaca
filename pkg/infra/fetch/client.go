package fetch

import (
	"archive/zip"
	"context"
	"io"
	"net/http"
	"os"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/cpimport/cpimport/pkg/domain/interfaces"
	"github.com/cpimport/cpimport/pkg/domain/types"
)

type client struct {
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient overrides the HTTP client, mostly for tests
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// New creates a new archive fetcher. No retries and no explicit timeout:
// a failed or stalled attempt surfaces to the caller as-is.
func New(opts ...Option) interfaces.Fetcher {
	c := &client{
		httpClient: cleanhttp.DefaultClient(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Download fetches the archive at src and writes it to dest, then verifies
// the written file opens as a zip archive. An HTTP error status or a
// corrupt download both surface as download failures.
func (c *client) Download(ctx context.Context, src, dest string) error {
	logger := ctxlog.From(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to create download request",
			goerr.V("url", src),
			goerr.T(types.ErrTagDownload))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to download archive",
			goerr.V("url", src),
			goerr.T(types.ErrTagDownload))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return goerr.New("unexpected status code while downloading archive",
			goerr.V("url", src),
			goerr.V("status", resp.StatusCode),
			goerr.T(types.ErrTagDownload))
	}

	out, err := os.Create(dest)
	if err != nil {
		return goerr.Wrap(err, "failed to create archive file",
			goerr.V("path", dest),
			goerr.T(types.ErrTagDownload))
	}

	written, err := io.Copy(out, resp.Body)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return goerr.Wrap(err, "failed to write archive file",
			goerr.V("path", dest),
			goerr.T(types.ErrTagDownload))
	}

	// An incomplete or non-zip body should fail here, not later in the
	// extractor.
	zr, err := zip.OpenReader(dest)
	if err != nil {
		return goerr.Wrap(err, "downloaded file is not a valid archive",
			goerr.V("url", src),
			goerr.V("path", dest),
			goerr.T(types.ErrTagDownload))
	}
	if err := zr.Close(); err != nil {
		return goerr.Wrap(err, "failed to close archive",
			goerr.V("path", dest),
			goerr.T(types.ErrTagDownload))
	}

	logger.Debug("Downloaded archive",
		"url", src,
		"path", dest,
		"size_bytes", written,
	)

	return nil
}
