package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch executes a handler function asynchronously with panic
// recovery. The handler receives a context detached from the caller's
// cancellation but keeping its values, so a finished or cancelled
// primary operation does not abort an in-flight notification.
//
// The returned channel is closed when the handler finishes. Callers that
// are about to exit may wait on it; callers in a long-lived process can
// ignore it.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) <-chan struct{} {
	newCtx := context.WithoutCancel(ctx)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("panic in async handler",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(newCtx); err != nil {
			ctxlog.From(newCtx).Error("error in async handler", "error", err)
		}
	}()

	return done
}
