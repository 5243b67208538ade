package github_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/airlift/pkg/domain/model"
	"github.com/m-mizutani/airlift/pkg/domain/types"
	githubinfra "github.com/m-mizutani/airlift/pkg/infra/github"
)

func newFakeAPI(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()

	router := chi.NewRouter()
	router.Get("/repos/{owner}/{repo}/releases/tags/{tag}", handler)
	router.Get("/repos/{owner}/{repo}/releases/latest", handler)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestClient_FetchRelease(t *testing.T) {
	repo := model.Repository{Owner: "m-mizutani", Name: "airlift"}

	t.Run("parses the bounded subset", func(t *testing.T) {
		var gotAccept string
		server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			gotAccept = r.Header.Get("Accept")
			gt.Equal(t, chi.URLParam(r, "tag"), "v1.2.3")

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{
				"name": "v1.2.3",
				"id": 42,
				"published_at": "2021-01-01T00:00:00Z",
				"tarball_url": "ignored",
				"prerelease": false,
				"assets": [
					{"name": "tool-linux", "browser_download_url": "https://x/tool-linux", "size": 123}
				]
			}`))
		})

		client := githubinfra.New(githubinfra.WithEndpoint(server.URL))
		release, err := client.FetchRelease(context.Background(), repo, "v1.2.3")
		gt.NoError(t, err)

		gt.Equal(t, gotAccept, "application/vnd.github.v3+json")
		gt.Equal(t, release.Name, "v1.2.3")
		gt.Equal(t, release.ID, int64(42))
		gt.Equal(t, release.PublishedAt, "2021-01-01T00:00:00Z")
		gt.Equal(t, len(release.Assets), 1)
		gt.Equal(t, release.Assets[0].Name, "tool-linux")
		gt.Equal(t, release.Assets[0].DownloadURL, "https://x/tool-linux")
	})

	t.Run("payload larger than the diagnostic snippet cap parses whole", func(t *testing.T) {
		// Real release bodies carry full asset objects, uploader blocks
		// and release notes well past 4KB; all of it is ignored but none
		// of it may be cut off before parsing.
		notes := strings.Repeat("changelog entry; ", 600)
		server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprintf(w, `{
				"name": "v1.2.3",
				"id": 42,
				"published_at": "2021-01-01T00:00:00Z",
				"body": %q,
				"assets": [
					{"name": "tool-linux", "browser_download_url": "https://x/tool-linux"}
				]
			}`, notes)
		})

		client := githubinfra.New(githubinfra.WithEndpoint(server.URL))
		release, err := client.FetchRelease(context.Background(), repo, "v1.2.3")
		gt.NoError(t, err)
		gt.Equal(t, release.ID, int64(42))
		gt.Equal(t, len(release.Assets), 1)
		gt.Equal(t, release.Assets[0].Name, "tool-linux")
	})

	t.Run("sends bearer token when configured", func(t *testing.T) {
		var gotAuth string
		server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.Write([]byte(`{"name":"v1","id":1,"published_at":"2021-01-01T00:00:00Z","assets":[]}`))
		})

		client := githubinfra.New(
			githubinfra.WithEndpoint(server.URL),
			githubinfra.WithToken("ghp_secret"),
		)
		_, err := client.FetchRelease(context.Background(), repo, "v1")
		gt.NoError(t, err)
		gt.Equal(t, gotAuth, "Bearer ghp_secret")
	})

	t.Run("404 yields a remote error with the status", func(t *testing.T) {
		server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"message": "Not Found"}`, http.StatusNotFound)
		})

		client := githubinfra.New(githubinfra.WithEndpoint(server.URL))
		release, err := client.FetchRelease(context.Background(), repo, "v9.9.9")
		gt.Error(t, err)
		gt.Value(t, release).Nil()
		gt.True(t, types.IsRemote(err))
		gt.String(t, err.Error()).Contains("unexpected status")
	})

	t.Run("missing field yields a remote error, not a zero value", func(t *testing.T) {
		cases := map[string]string{
			"no id":           `{"name":"v1","published_at":"2021-01-01T00:00:00Z","assets":[]}`,
			"no name":         `{"id":1,"published_at":"2021-01-01T00:00:00Z","assets":[]}`,
			"no published_at": `{"name":"v1","id":1,"assets":[]}`,
			"no assets":       `{"name":"v1","id":1,"published_at":"2021-01-01T00:00:00Z"}`,
			"asset w/o url":   `{"name":"v1","id":1,"published_at":"2021-01-01T00:00:00Z","assets":[{"name":"tool"}]}`,
			"mistyped id":     `{"name":"v1","id":"42","published_at":"2021-01-01T00:00:00Z","assets":[]}`,
		}

		for name, body := range cases {
			t.Run(name, func(t *testing.T) {
				server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
					w.Write([]byte(body))
				})

				client := githubinfra.New(githubinfra.WithEndpoint(server.URL))
				release, err := client.FetchRelease(context.Background(), repo, "v1")
				gt.Error(t, err)
				gt.Value(t, release).Nil()
				gt.True(t, types.IsRemote(err))
			})
		}
	})

	t.Run("broken JSON yields a remote error", func(t *testing.T) {
		server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"name": `))
		})

		client := githubinfra.New(githubinfra.WithEndpoint(server.URL))
		_, err := client.FetchRelease(context.Background(), repo, "v1")
		gt.Error(t, err)
		gt.True(t, types.IsRemote(err))
	})
}

func TestClient_FetchLatestRelease(t *testing.T) {
	repo := model.Repository{Owner: "m-mizutani", Name: "airlift"}

	var gotPath string
	server := newFakeAPI(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"name":"v2.0.0","id":7,"published_at":"2022-02-02T00:00:00Z","assets":[]}`))
	})

	client := githubinfra.New(githubinfra.WithEndpoint(server.URL))
	release, err := client.FetchLatestRelease(context.Background(), repo)
	gt.NoError(t, err)
	gt.Equal(t, gotPath, "/repos/m-mizutani/airlift/releases/latest")
	gt.Equal(t, release.Name, "v2.0.0")
}
