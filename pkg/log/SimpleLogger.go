// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

const (
	FormatJSONL = "jsonl"
	FormatText  = "text"
)

// SimpleLogger writes one structured message per call.
// Messages with an "err" field are logged at the error level.
type SimpleLogger struct {
	logger *slog.Logger
}

type SimpleLoggerOptions struct {
	// Format is either jsonl or text.
	Format string
	Debug  bool
}

func (l *SimpleLogger) attrs(fields []map[string]interface{}) ([]slog.Attr, bool) {
	keys := []string{}
	values := map[string]interface{}{}
	for _, f := range fields {
		for k, v := range f {
			if _, ok := values[k]; !ok {
				keys = append(keys, k)
			}
			values[k] = v
		}
	}
	sort.Strings(keys)
	attrs := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, values[k]))
	}
	_, hasError := values["err"]
	return attrs, hasError
}

func (l *SimpleLogger) Log(msg string, fields ...map[string]interface{}) error {
	attrs, hasError := l.attrs(fields)
	level := slog.LevelInfo
	if hasError {
		level = slog.LevelError
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
	return nil
}

// Debug logs the message only if debug messages are enabled.
func (l *SimpleLogger) Debug(msg string, fields ...map[string]interface{}) error {
	attrs, _ := l.attrs(fields)
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	return nil
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// NewSimpleLogger returns a logger writing JSON lines to w.
func NewSimpleLogger(w io.Writer) *SimpleLogger {
	l, _ := NewSimpleLoggerWithOptions(w, &SimpleLoggerOptions{Format: FormatJSONL})
	return l
}

func NewSimpleLoggerWithOptions(w io.Writer, options *SimpleLoggerOptions) (*SimpleLogger, error) {
	level := slog.LevelInfo
	if options.Debug {
		level = slog.LevelDebug
	}
	var handler slog.Handler
	switch options.Format {
	case "", FormatJSONL:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	case FormatText:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.DateTime,
			NoColor:    !isTerminal(w),
		})
	default:
		return nil, fmt.Errorf("unknown log format %q, expecting %q or %q", options.Format, FormatJSONL, FormatText)
	}
	return &SimpleLogger{logger: slog.New(handler)}, nil
}
