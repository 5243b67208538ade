package model

import (
	"io/fs"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// Manifest is a declarative list of artifacts to install, loaded from a
// TOML file by the sync command.
type Manifest struct {
	GitHub    ManifestGitHub `toml:"github"`
	Artifacts []ArtifactSpec `toml:"artifact"`
}

// ManifestGitHub overrides release API settings for all artifacts in
// the manifest
type ManifestGitHub struct {
	Endpoint string `toml:"endpoint"`
}

// ArtifactSpec describes one artifact in a manifest
type ArtifactSpec struct {
	Owner string `toml:"owner" validate:"required"`
	Repo  string `toml:"repo" validate:"required"`
	// Tag selects the release. Empty means the latest release.
	Tag string `toml:"tag"`
	// Asset is an exact name or glob pattern matched against the
	// release's asset names.
	Asset string `toml:"asset" validate:"required"`
	Dest  string `toml:"dest" validate:"required"`
	// Mode is an octal permission string such as "0755". Empty means the
	// platform default.
	Mode string `toml:"mode"`
}

// Repository returns the artifact's repository identifier
func (x *ArtifactSpec) Repository() Repository {
	return Repository{Owner: x.Owner, Name: x.Repo}
}

// FileMode parses the optional octal mode string. Zero means no
// explicit mode was requested.
func (x *ArtifactSpec) FileMode() (fs.FileMode, error) {
	if x.Mode == "" {
		return 0, nil
	}

	mode, err := strconv.ParseUint(x.Mode, 8, 32)
	if err != nil {
		return 0, goerr.Wrap(err, "invalid mode in manifest", goerr.V("mode", x.Mode))
	}

	return fs.FileMode(mode), nil
}

// ParseManifest decodes TOML manifest data. Decoding failures surface
// before any download starts.
func ParseManifest(data []byte) (*Manifest, error) {
	var manifest Manifest
	if err := toml.Unmarshal(data, &manifest); err != nil {
		return nil, goerr.Wrap(err, "failed to parse manifest")
	}

	if len(manifest.Artifacts) == 0 {
		return nil, goerr.New("manifest has no artifacts")
	}

	return &manifest, nil
}
