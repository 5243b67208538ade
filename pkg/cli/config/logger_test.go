package config_test

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/airlift/pkg/cli/config"
)

func TestLogger_Configure(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		format  string
		wantErr bool
	}{
		{name: "Valid level: debug", level: "debug", format: "json"},
		{name: "Valid level: DEBUG (case insensitive)", level: "DEBUG", format: "json"},
		{name: "Valid level: info", level: "info", format: "json"},
		{name: "Valid level: warn", level: "warn", format: "json"},
		{name: "Valid level: error", level: "error", format: "json"},
		{name: "Invalid level: invalid", level: "invalid", format: "json", wantErr: true},
		{name: "Invalid level: empty string", level: "", format: "json", wantErr: true},
		{name: "Valid format: console", level: "info", format: "console"},
		{name: "Valid format: text", level: "info", format: "text"},
		{name: "Valid format: JSON (case insensitive)", level: "info", format: "JSON"},
		{name: "Invalid format: yaml", level: "info", format: "yaml", wantErr: true},
		{name: "Invalid format: empty string", level: "info", format: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Logger{
				Level:  tt.level,
				Format: tt.format,
			}

			logger, err := cfg.Configure()
			if tt.wantErr {
				gt.Error(t, err)
				return
			}

			gt.NoError(t, err)
			gt.Value(t, logger).NotNil()

			// Verify logger can be used
			logger.Info("test log message")
		})
	}
}

// captureStderr routes os.Stderr through a pipe while fn runs and
// returns everything written to it. Configure() binds handlers to
// os.Stderr, so the swap must happen before the logger is built.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()

	orig := os.Stderr
	r, w, err := os.Pipe()
	gt.NoError(t, err)

	os.Stderr = w
	defer func() { os.Stderr = orig }()

	fn()

	gt.NoError(t, w.Close())
	out, err := io.ReadAll(r)
	gt.NoError(t, err)
	return string(out)
}

func TestLogger_Configure_RedactsSecrets(t *testing.T) {
	for _, format := range []string{"json", "text"} {
		t.Run("format: "+format, func(t *testing.T) {
			githubCfg := &config.GitHub{
				Endpoint: "https://api.github.com",
				Token:    "ghp_super_secret_token",
			}

			out := captureStderr(t, func() {
				cfg := &config.Logger{Level: "debug", Format: format}
				logger, err := cfg.Configure()
				gt.NoError(t, err)

				logger.Debug("loaded github config", "github", githubCfg)
			})

			// The record is emitted with the plain fields intact, but the
			// token tagged as a secret never reaches the output
			gt.String(t, out).Contains("loaded github config")
			gt.String(t, out).Contains("api.github.com")
			gt.True(t, !strings.Contains(out, "ghp_super_secret_token"))
		})
	}
}
