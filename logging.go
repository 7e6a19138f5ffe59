package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/slog"
)

// LogHandler writes plain-text records with keyed attrs, e.g. a Route
// call's outcome logged as `direction=forward rounds=4 paths=2`, the
// same tags metrics.Collector attaches to its query counters/histograms.
type LogHandler struct {
	h   slog.Handler
	mu  *sync.Mutex
	out io.Writer
}

func NewLogHandler(o io.Writer, opts *slog.HandlerOptions) *LogHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &LogHandler{
		out: o,
		h: slog.NewTextHandler(o, &slog.HandlerOptions{
			Level:       opts.Level,
			AddSource:   opts.AddSource,
			ReplaceAttr: nil,
		}),
		mu: &sync.Mutex{},
	}
}

// ParseLogLevel maps the server.log-level config string to a slog
// level, defaulting to Info for an empty or unrecognized value so a
// typo in the YAML degrades to the normal verbosity rather than
// silently muting the process.
func ParseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (h *LogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.h.Enabled(ctx, level)
}

func (h *LogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandler{h: h.h.WithAttrs(attrs), out: h.out, mu: h.mu}
}

func (h *LogHandler) WithGroup(name string) slog.Handler {
	return &LogHandler{h: h.h.WithGroup(name), out: h.out, mu: h.mu}
}

func (h *LogHandler) Handle(ctx context.Context, r slog.Record) error {
	formattedTime := r.Time.Format("2006/01/02 15:04:05")

	strs := []string{formattedTime, r.Level.String(), r.Message}

	if r.NumAttrs() != 0 {
		r.Attrs(func(a slog.Attr) bool {
			strs = append(strs, fmt.Sprintf("%s=%s", a.Key, a.Value.String()))
			return true
		})
	}
	strs = append(strs, "\n")

	result := strings.Join(strs, " ")
	b := []byte(result)

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.out.Write(b)

	return err
}
