package fsutil

import (
	"errors"
	"io"
	"os"
	"syscall"

	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/airlift/pkg/domain/types"
)

// rename is swappable for tests that simulate a cross-device move
var rename = os.Rename

// Place moves the staged file to dest. It tries an atomic rename first;
// when staged and dest live on different devices it falls back to
// copying the contents and deleting the staged file. The fallback is not
// atomic across a crash, but dest never holds a partial file: a failed
// copy removes the incomplete destination before returning.
func Place(staged, dest string) error {
	err := rename(staged, dest)
	if err == nil {
		return nil
	}

	if !isCrossDevice(err) {
		return goerr.Wrap(err, "failed to rename staged file",
			goerr.T(types.TagPlacement),
			goerr.V("staged", staged),
			goerr.V("dest", dest),
		)
	}

	return copyThenDelete(staged, dest)
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return errors.Is(linkErr.Err, syscall.EXDEV)
}

// copyThenDelete replicates the staged file at dest with the staged
// file's permission bits, then removes the staged file.
func copyThenDelete(staged, dest string) error {
	wrap := func(err error, msg string) error {
		return goerr.Wrap(err, msg,
			goerr.T(types.TagPlacement),
			goerr.V("staged", staged),
			goerr.V("dest", dest),
		)
	}

	info, err := os.Stat(staged)
	if err != nil {
		return wrap(err, "failed to stat staged file")
	}

	src, err := os.Open(staged)
	if err != nil {
		return wrap(err, "failed to open staged file")
	}
	defer src.Close()

	dst, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return wrap(err, "failed to create destination file")
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dest)
		return wrap(err, "failed to copy staged file to destination")
	}

	if err := dst.Close(); err != nil {
		os.Remove(dest)
		return wrap(err, "failed to close destination file")
	}

	if err := os.Remove(staged); err != nil {
		return wrap(err, "failed to remove staged file after copy")
	}

	return nil
}
