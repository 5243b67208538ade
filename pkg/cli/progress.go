package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/airlift/pkg/domain/interfaces"
)

const (
	barWidth = 30

	// logStep is the percentage interval between progress log lines
	logStep = 10.0
)

// progressFactory maps a --progress flag value to a surface constructor
func progressFactory(kind string) (interfaces.ProgressFactory, error) {
	switch kind {
	case "bar":
		return func(ctx context.Context, title string) interfaces.ProgressSurface {
			return &barSurface{title: title, out: color.Error}
		}, nil

	case "log":
		return func(ctx context.Context, title string) interfaces.ProgressSurface {
			return &logSurface{ctx: ctx, title: title, next: logStep}
		}, nil

	case "none":
		return func(ctx context.Context, title string) interfaces.ProgressSurface {
			return silentSurface{}
		}, nil

	default:
		return nil, goerr.New("invalid progress surface", goerr.V("progress", kind))
	}
}

// barSurface renders an in-place progress bar on stderr
type barSurface struct {
	title   string
	out     io.Writer
	percent float64
}

func (x *barSurface) Report(percent, increment float64) {
	x.percent = percent
	x.render()
}

// Finish terminates the in-place line at the last reported percentage.
// Finish also runs on failure paths, so it must not pretend the
// download completed.
func (x *barSurface) Finish() {
	x.render()
	fmt.Fprintln(x.out)
}

func (x *barSurface) render() {
	filled := int(x.percent / 100 * barWidth)
	if filled > barWidth {
		filled = barWidth
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	fmt.Fprintf(x.out, "\r%s [%s] %5.1f%%", color.CyanString(x.title), bar, x.percent)
}

// logSurface emits a log line roughly every logStep percent, for
// environments without a terminal
type logSurface struct {
	ctx   context.Context
	title string
	next  float64
}

func (x *logSurface) Report(percent, increment float64) {
	if percent < x.next {
		return
	}

	ctxlog.From(x.ctx).Info("Download progress",
		"title", x.title,
		"percent", fmt.Sprintf("%.1f", percent),
	)

	for x.next <= percent {
		x.next += logStep
	}
}

func (x *logSurface) Finish() {
	ctxlog.From(x.ctx).Info("Download finished", "title", x.title)
}

// silentSurface renders nothing
type silentSurface struct{}

func (silentSurface) Report(percent, increment float64) {}
func (silentSurface) Finish()                           {}
