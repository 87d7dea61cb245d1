package debug

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// handler formats slog records as debug log lines: the record level is the
// category column, attributes follow the message as key=value pairs.
type handler struct {
	attrs []slog.Attr
	group string
}

func newHandler(attrs []slog.Attr) *handler {
	return &handler{attrs: attrs}
}

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	mu.Lock()
	defer mu.Unlock()
	return target(level) != nil
}

// target picks the writer for a record at level. Caller holds mu.
func target(level slog.Level) io.Writer {
	switch {
	case enabled && file != nil:
		return file
	case level >= slog.LevelError:
		return errOut
	}
	return nil
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value.Any())
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", h.key(a.Key), a.Value.Any())
		return true
	})

	mu.Lock()
	defer mu.Unlock()
	w := target(r.Level)
	if w == nil {
		return nil
	}
	writeLine(w, strings.ToLower(r.Level.String()), b.String())
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	for _, a := range attrs {
		merged = append(merged, slog.Attr{Key: h.key(a.Key), Value: a.Value})
	}
	return &handler{attrs: merged, group: h.group}
}

func (h *handler) WithGroup(name string) slog.Handler {
	if h.group != "" {
		name = h.group + "." + name
	}
	return &handler{attrs: h.attrs, group: name}
}

func (h *handler) key(k string) string {
	if h.group == "" {
		return k
	}
	return h.group + "." + k
}
