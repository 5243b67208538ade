package fetch

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/time/rate"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/domain/types"
)

const (
	// bodySnippetLimit bounds how much of an error response body is kept
	// for diagnostics
	bodySnippetLimit = 4096

	chunkSize = 32 * 1024
)

type client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
}

// Option is a functional option for client configuration
type Option func(*client)

// WithHTTPClient replaces the HTTP client used for downloads
func WithHTTPClient(httpClient *http.Client) Option {
	return func(x *client) {
		x.httpClient = httpClient
	}
}

// WithRateLimit throttles the download to bytesPerSec with a token
// bucket. Zero or negative disables throttling.
func WithRateLimit(bytesPerSec int) Option {
	return func(x *client) {
		if bytesPerSec <= 0 {
			return
		}
		burst := bytesPerSec
		if burst < chunkSize {
			burst = chunkSize
		}
		x.limiter = rate.NewLimiter(rate.Limit(bytesPerSec), burst)
	}
}

// New creates a streaming asset fetcher. No timeout is set on the
// default HTTP client; callers that want one pass their own via
// WithHTTPClient.
func New(opts ...Option) interfaces.AssetFetcher {
	x := &client{
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Fetch downloads url into path. The server must report the body size
// via Content-Length; its absence fails before the file is created.
// onProgress is invoked synchronously once per received chunk. The file
// is synced and fully closed before Fetch returns, so the caller may
// move it immediately. On failure the partial file stays at path, which
// is expected to live inside a private workspace.
func (x *client) Fetch(ctx context.Context, url, path string, mode fs.FileMode, onProgress model.ProgressFunc) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return goerr.Wrap(err, "failed to build download request", goerr.V("url", url))
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to request asset",
			goerr.T(types.TagTransfer),
			goerr.V("url", url),
		)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		return goerr.New("unexpected status from asset host",
			goerr.T(types.TagRemote),
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.V("headers", resp.Header),
			goerr.V("body", string(body)),
		)
	}

	// resp.ContentLength is -1 when the header is absent or invalid
	total := resp.ContentLength
	if total < 0 {
		return goerr.New("asset response has no valid content-length",
			goerr.T(types.TagPrecondition),
			goerr.V("url", url),
			goerr.V("content_length", resp.Header.Get("Content-Length")),
		)
	}

	perm := fs.FileMode(0666)
	if mode != 0 {
		perm = mode
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		return goerr.Wrap(err, "failed to create staged file",
			goerr.T(types.TagTransfer),
			goerr.V("path", path),
		)
	}

	received, err := x.stream(ctx, resp.Body, file, total, onProgress)
	if err != nil {
		file.Close()
		return goerr.Wrap(err, "failed to stream asset body",
			goerr.T(types.TagTransfer),
			goerr.V("url", url),
			goerr.V("path", path),
			goerr.V("received", received),
			goerr.V("total", total),
		)
	}

	if received != total {
		file.Close()
		return goerr.New("asset body ended short of content-length",
			goerr.T(types.TagTransfer),
			goerr.V("url", url),
			goerr.V("received", received),
			goerr.V("total", total),
		)
	}

	if err := file.Sync(); err != nil {
		file.Close()
		return goerr.Wrap(err, "failed to sync staged file",
			goerr.T(types.TagTransfer),
			goerr.V("path", path),
		)
	}

	if err := file.Close(); err != nil {
		return goerr.Wrap(err, "failed to close staged file",
			goerr.T(types.TagTransfer),
			goerr.V("path", path),
		)
	}

	return nil
}

func (x *client) stream(ctx context.Context, body io.Reader, file *os.File, total int64, onProgress model.ProgressFunc) (int64, error) {
	var received int64
	buf := make([]byte, chunkSize)

	for {
		n, readErr := body.Read(buf)
		if n > 0 {
			if x.limiter != nil {
				if err := x.limiter.WaitN(ctx, n); err != nil {
					return received, goerr.Wrap(err, "rate limiter interrupted")
				}
			}

			if _, err := file.Write(buf[:n]); err != nil {
				return received, goerr.Wrap(err, "failed to write chunk")
			}

			received += int64(n)
			if onProgress != nil {
				onProgress(received, total)
			}
		}

		if readErr == io.EOF {
			return received, nil
		}
		if readErr != nil {
			return received, goerr.Wrap(readErr, "failed to read chunk")
		}
	}
}
