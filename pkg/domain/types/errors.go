package types

import "github.com/m-mizutani/goerr/v2"

// Error tags classify failures in the acquisition pipeline. Diagnostic
// context (URL, status, paths, byte counts) travels as goerr values on
// the error itself.
var (
	// TagRemote marks a non-success HTTP status or an unparseable payload
	// from the release API or the asset host.
	TagRemote = goerr.NewTag("remote")

	// TagPrecondition marks a download rejected before any bytes are
	// written, such as a missing or invalid Content-Length header.
	TagPrecondition = goerr.NewTag("precondition")

	// TagTransfer marks a failure while streaming bytes to the staged
	// file or closing it.
	TagTransfer = goerr.NewTag("transfer")

	// TagPlacement marks a failure while moving the staged file to its
	// final destination.
	TagPlacement = goerr.NewTag("placement")
)

// IsRemote reports whether err is tagged as a remote failure.
func IsRemote(err error) bool { return goerr.HasTag(err, TagRemote) }

// IsPrecondition reports whether err is tagged as a precondition failure.
func IsPrecondition(err error) bool { return goerr.HasTag(err, TagPrecondition) }

// IsTransfer reports whether err is tagged as a transfer failure.
func IsTransfer(err error) bool { return goerr.HasTag(err, TagTransfer) }

// IsPlacement reports whether err is tagged as a placement failure.
func IsPlacement(err error) bool { return goerr.HasTag(err, TagPlacement) }
