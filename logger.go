package gfxpipe

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/gogpu/gfxpipe/abi"
)

// nopHandler drops every record. Enabled reports false, so disabled log
// calls return before any attribute is evaluated.
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

// loggerPtr holds the logger shared by all pipelines.
var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(slog.New(nopHandler{}))
}

// SetLogger routes gfxpipe and abi log output to l. Until it is called
// nothing is logged; nil restores that. It may be called while pipelines
// are being ingested.
//
// Levels:
//   - [slog.LevelDebug]: ingestion stage transitions, container layout
//   - [slog.LevelInfo]: pipelines becoming ready
//   - [slog.LevelWarn]: ingestion failures
//
// Example:
//
//	gfxpipe.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = slog.New(nopHandler{})
	}
	loggerPtr.Store(l)
	abi.SetLogger(l)
}

// Logger returns the logger set by SetLogger.
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
