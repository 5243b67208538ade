package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/domain/types"
)

const (
	defaultEndpoint = "https://api.github.com"

	// bodySnippetLimit bounds how much of a response body is kept for
	// diagnostics
	bodySnippetLimit = 4096
)

type client struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// Option is a functional option for client configuration
type Option func(*client)

// WithEndpoint replaces the release API endpoint, e.g. for GitHub
// Enterprise or a test server
func WithEndpoint(endpoint string) Option {
	return func(x *client) {
		x.endpoint = strings.TrimRight(endpoint, "/")
	}
}

// WithToken attaches a bearer token to release API requests. The token
// is never sent to asset download hosts.
func WithToken(token string) Option {
	return func(x *client) {
		x.token = token
	}
}

// WithHTTPClient replaces the HTTP client used for API requests
func WithHTTPClient(httpClient *http.Client) Option {
	return func(x *client) {
		x.httpClient = httpClient
	}
}

// New creates a release metadata client for a GitHub-compatible API
func New(opts ...Option) interfaces.ReleaseSource {
	x := &client{
		endpoint:   defaultEndpoint,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// FetchRelease fetches metadata for the release identified by tag
func (x *client) FetchRelease(ctx context.Context, repo model.Repository, tag string) (*model.Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/tags/%s", x.endpoint, repo.Owner, repo.Name, tag)
	return x.fetch(ctx, url)
}

// FetchLatestRelease fetches metadata for the latest published release
func (x *client) FetchLatestRelease(ctx context.Context, repo model.Repository) (*model.Release, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", x.endpoint, repo.Owner, repo.Name)
	return x.fetch(ctx, url)
}

func (x *client) fetch(ctx context.Context, url string) (*model.Release, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build release API request", goerr.V("url", url))
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if x.token != "" {
		req.Header.Set("Authorization", "Bearer "+x.token)
	}

	resp, err := x.httpClient.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request release API", goerr.V("url", url))
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, bodySnippetLimit))
		return nil, goerr.New("unexpected status from release API",
			goerr.T(types.TagRemote),
			goerr.V("url", url),
			goerr.V("status", resp.StatusCode),
			goerr.V("headers", resp.Header),
			goerr.V("body", string(snippet)),
		)
	}

	// The payload must be read whole: real release bodies (full asset
	// objects, release notes) routinely exceed any snippet cap, and only
	// the diagnostic values are bounded.
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read release API response", goerr.V("url", url))
	}

	return parseRelease(url, body)
}

// bodySnippet bounds a payload kept as an error value
func bodySnippet(body []byte) string {
	if len(body) > bodySnippetLimit {
		return string(body[:bodySnippetLimit])
	}
	return string(body)
}

// releaseBody mirrors the bounded subset of the API payload. Pointer
// fields distinguish absent keys from zero values so a malformed payload
// never becomes a zero-valued Release.
type releaseBody struct {
	Name        *string     `json:"name"`
	ID          *int64      `json:"id"`
	PublishedAt *string     `json:"published_at"`
	Assets      []assetBody `json:"assets"`
}

type assetBody struct {
	Name        *string `json:"name"`
	DownloadURL *string `json:"browser_download_url"`
}

func parseRelease(url string, body []byte) (*model.Release, error) {
	malformed := func(field string) error {
		return goerr.New("malformed release payload",
			goerr.T(types.TagRemote),
			goerr.V("url", url),
			goerr.V("missing_field", field),
			goerr.V("body", bodySnippet(body)),
		)
	}

	var raw releaseBody
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse release payload",
			goerr.T(types.TagRemote),
			goerr.V("url", url),
			goerr.V("body", bodySnippet(body)),
		)
	}

	switch {
	case raw.Name == nil:
		return nil, malformed("name")
	case raw.ID == nil:
		return nil, malformed("id")
	case raw.PublishedAt == nil:
		return nil, malformed("published_at")
	case raw.Assets == nil:
		return nil, malformed("assets")
	}

	release := &model.Release{
		Name:        *raw.Name,
		ID:          *raw.ID,
		PublishedAt: *raw.PublishedAt,
		Assets:      make([]model.Asset, 0, len(raw.Assets)),
	}

	for i, asset := range raw.Assets {
		if asset.Name == nil {
			return nil, malformed(fmt.Sprintf("assets[%d].name", i))
		}
		if asset.DownloadURL == nil {
			return nil, malformed(fmt.Sprintf("assets[%d].browser_download_url", i))
		}
		release.Assets = append(release.Assets, model.Asset{
			Name:        *asset.Name,
			DownloadURL: *asset.DownloadURL,
		})
	}

	return release, nil
}
