package model

import (
	"path"

	"github.com/m-mizutani/goerr/v2"
)

// Repository identifies a repository on the release API
type Repository struct {
	Owner string
	Name  string
}

// String returns the owner/name form used in API paths and logs
func (x Repository) String() string {
	return x.Owner + "/" + x.Name
}

// Release is the bounded subset of release metadata this tool consumes.
// It is immutable once fetched and owned by the caller that requested it.
type Release struct {
	Name        string  `json:"name"`
	ID          int64   `json:"id"`
	PublishedAt string  `json:"published_at"`
	Assets      []Asset `json:"assets"`
}

// Asset is a single downloadable file attached to a release
type Asset struct {
	Name        string `json:"name"`
	DownloadURL string `json:"browser_download_url"`
}

// FindAsset returns the asset whose name exactly matches name
func (x *Release) FindAsset(name string) (*Asset, error) {
	for i := range x.Assets {
		if x.Assets[i].Name == name {
			return &x.Assets[i], nil
		}
	}

	return nil, goerr.New("asset not found in release",
		goerr.V("asset", name),
		goerr.V("release", x.Name),
		goerr.V("available", x.AssetNames()),
	)
}

// MatchAsset returns the first asset whose name matches the glob
// pattern, in the order the API listed them. An exact name is a valid
// pattern, so callers can pass either.
func (x *Release) MatchAsset(pattern string) (*Asset, error) {
	for i := range x.Assets {
		ok, err := path.Match(pattern, x.Assets[i].Name)
		if err != nil {
			return nil, goerr.Wrap(err, "invalid asset pattern", goerr.V("pattern", pattern))
		}
		if ok {
			return &x.Assets[i], nil
		}
	}

	return nil, goerr.New("no asset matches pattern",
		goerr.V("pattern", pattern),
		goerr.V("release", x.Name),
		goerr.V("available", x.AssetNames()),
	)
}

// AssetNames returns the names of all assets in API order
func (x *Release) AssetNames() []string {
	names := make([]string, 0, len(x.Assets))
	for _, a := range x.Assets {
		names = append(names, a.Name)
	}
	return names
}
