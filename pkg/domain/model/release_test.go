package model_test

import (
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/airlift/pkg/domain/model"
)

func testRelease() *model.Release {
	return &model.Release{
		Name:        "v1.2.3",
		ID:          42,
		PublishedAt: "2021-01-01T00:00:00Z",
		Assets: []model.Asset{
			{Name: "tool-linux-amd64", DownloadURL: "https://x/tool-linux-amd64"},
			{Name: "tool-linux-arm64", DownloadURL: "https://x/tool-linux-arm64"},
			{Name: "tool-darwin-arm64", DownloadURL: "https://x/tool-darwin-arm64"},
		},
	}
}

func TestRelease_FindAsset(t *testing.T) {
	release := testRelease()

	t.Run("exact match", func(t *testing.T) {
		asset, err := release.FindAsset("tool-linux-arm64")
		gt.NoError(t, err)
		gt.Equal(t, asset.DownloadURL, "https://x/tool-linux-arm64")
	})

	t.Run("no match", func(t *testing.T) {
		asset, err := release.FindAsset("tool-windows-amd64")
		gt.Error(t, err)
		gt.Value(t, asset).Nil()
	})
}

func TestRelease_MatchAsset(t *testing.T) {
	release := testRelease()

	t.Run("exact name works as pattern", func(t *testing.T) {
		asset, err := release.MatchAsset("tool-darwin-arm64")
		gt.NoError(t, err)
		gt.Equal(t, asset.Name, "tool-darwin-arm64")
	})

	t.Run("glob returns first match in API order", func(t *testing.T) {
		asset, err := release.MatchAsset("tool-linux-*")
		gt.NoError(t, err)
		gt.Equal(t, asset.Name, "tool-linux-amd64")
	})

	t.Run("no match", func(t *testing.T) {
		asset, err := release.MatchAsset("*.deb")
		gt.Error(t, err)
		gt.Value(t, asset).Nil()
	})

	t.Run("invalid pattern", func(t *testing.T) {
		_, err := release.MatchAsset("tool-[")
		gt.Error(t, err)
	})
}

func TestRepository_String(t *testing.T) {
	repo := model.Repository{Owner: "m-mizutani", Name: "airlift"}
	gt.Equal(t, repo.String(), "m-mizutani/airlift")
}
