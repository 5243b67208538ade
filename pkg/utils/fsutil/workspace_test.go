package fsutil_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/airlift/pkg/utils/fsutil"
)

func TestWithWorkspace(t *testing.T) {
	ctx := context.Background()

	t.Run("directory exists during scope and is removed after", func(t *testing.T) {
		var captured string

		err := fsutil.WithWorkspace(ctx, func(dir string) error {
			captured = dir

			info, err := os.Stat(dir)
			gt.NoError(t, err)
			gt.True(t, info.IsDir())

			// The directory is writable for staging
			return os.WriteFile(filepath.Join(dir, "staged"), []byte("data"), 0600)
		})
		gt.NoError(t, err)
		gt.Value(t, captured).NotEqual("")

		_, statErr := os.Stat(captured)
		gt.True(t, os.IsNotExist(statErr))
	})

	t.Run("scope error passes through and directory is still removed", func(t *testing.T) {
		scopeErr := errors.New("scope failed")
		var captured string

		err := fsutil.WithWorkspace(ctx, func(dir string) error {
			captured = dir
			return scopeErr
		})
		gt.True(t, errors.Is(err, scopeErr))

		_, statErr := os.Stat(captured)
		gt.True(t, os.IsNotExist(statErr))
	})

	t.Run("concurrent workspaces never collide", func(t *testing.T) {
		seen := make(chan string, 2)

		for range 2 {
			go func() {
				_ = fsutil.WithWorkspace(ctx, func(dir string) error {
					seen <- dir
					return nil
				})
			}()
		}

		first := <-seen
		second := <-seen
		gt.Value(t, first).NotEqual(second)
	})
}
