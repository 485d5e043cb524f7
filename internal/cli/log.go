// Package cli implements the nodegroup command-line interface.
//
// Commands read pair files, group the identifiers they mention into
// connected components, and write the groups as text, JSON, or diagrams.
// The CLI is built using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - group: Partition identifiers from a pair file into groups
//   - render: Draw the pair graph with its groups as DOT, SVG, PNG, or PDF
//   - convert: Turn a CSV table of identifiers into a pair file
//   - parse: Validate and inspect single identifiers or pairs
//   - serve: Expose parsing and grouping over HTTP
//   - cache: Inspect and clear the result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so pipeline stages log under the same
// settings.
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// logTimeFormat prints wall-clock time with hundredths, e.g. "14:32:01.45".
const logTimeFormat = "15:04:05.00"

// newLogger returns a logger writing to w at level. Debug loggers also
// report the caller, which helps when tracing cache and render hooks.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		ReportCaller:    level <= log.DebugLevel,
		TimeFormat:      logTimeFormat,
		Level:           level,
	})
}

// progress times one CLI stage (loading pairs, grouping) and logs its
// outcome with the elapsed duration as a structured field.
type progress struct {
	logger *log.Logger
	stage  string
	start  time.Time
}

func newProgress(l *log.Logger, stage string) *progress {
	return &progress{logger: l, stage: stage, start: time.Now()}
}

// done logs the formatted message with "stage" and "elapsed" fields,
// e.g. `Loaded 42 pairs stage=load elapsed=3ms`.
func (p *progress) done(format string, args ...any) {
	p.logger.Info(fmt.Sprintf(format, args...),
		"stage", p.stage,
		"elapsed", time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

// withLogger attaches l to ctx for the commands and pipeline stages below.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when none is set.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
