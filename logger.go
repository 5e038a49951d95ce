package virtualarray

import (
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
)

// Logger - Wraps slog.Logger with virtual array specific events and consistent field names.
// Page level events are logged at debug level, lifecycle events at info level and failures at error level.
type Logger struct {
	*slog.Logger
}

// NewLogger - Returns a Logger using handler, a nil handler gives a text handler to stderr at info level
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger - Returns a Logger writing JSON to stderr from level and up
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger - Returns a Logger writing human-readable text to stderr from level and up
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger - Returns a Logger that discards everything, this is the default
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithArray - Returns a Logger tagging every record with the array name
func (L *Logger) WithArray(name string) *Logger {
	return &Logger{
		Logger: L.Logger.With("array", name),
	}
}

// LogCreate - Logs the creation of a virtual array
func (L *Logger) LogCreate(info Info, err error) {
	if err != nil {
		L.Error("create failed", "error", err)
		return
	}
	L.Info("virtual array created", info.logAttrs()...)
}

// LogOpen - Logs the opening of an existing virtual array
func (L *Logger) LogOpen(info Info, err error) {
	if err != nil {
		L.Error("open failed", "error", err)
		return
	}
	L.Info("virtual array opened", info.logAttrs()...)
}

// LogLoad - Logs a page made resident, fromDisk is false for never written pages
func (L *Logger) LogLoad(pageIndex int64, fromDisk bool) {
	L.Debug("page loaded",
		"page", pageIndex,
		"from_disk", fromDisk,
	)
}

// LogEvict - Logs a page dropped from the resident set
func (L *Logger) LogEvict(pageIndex int64, dirty bool, err error) {
	if err != nil {
		L.Error("page write back failed",
			"page", pageIndex,
			"error", err,
		)
		return
	}
	L.Debug("page evicted",
		"page", pageIndex,
		"written_back", dirty,
	)
}

// LogFlush - Logs an explicit or closing flush
func (L *Logger) LogFlush(dirtyPages int, err error) {
	if err != nil {
		L.Error("flush failed",
			"dirty_pages", dirtyPages,
			"error", err,
		)
		return
	}
	L.Debug("flush completed",
		"dirty_pages", dirtyPages,
	)
}

// LogClose - Logs the closing of a virtual array
func (L *Logger) LogClose(err error) {
	if err != nil {
		L.Error("close failed", "error", err)
		return
	}
	L.Info("virtual array closed")
}

// logAttrs - Returns Info as log attributes with sizes in human-readable form
func (I Info) logAttrs() []any {
	return []any{
		"array_size", I.ArraySize,
		"elements_per_page", I.ElementsPerPage,
		"pages", I.NumberOfPages,
		"page_size", humanize.IBytes(uint64(I.PageByteSize)),
		"buffer_size", I.BufferSize,
		"file_size", humanize.IBytes(uint64(I.FileSize)),
	}
}
