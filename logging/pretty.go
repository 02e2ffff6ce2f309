// Package logging holds the slog handler used for human readable output.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/fatih/color"
)

type PrettyHandlerOptions struct {
	SlogOpts slog.HandlerOptions
}

// PrettyHandler writes one line per record: time, colored level, message
// and the record's attributes as a JSON object.  Attributes inside groups
// are flattened to dotted keys, eg "walk.cache.size".
type PrettyHandler struct {
	opts   PrettyHandlerOptions
	out    io.Writer
	mu     *sync.Mutex
	fields map[string]any // from WithAttrs
	prefix string         // from WithGroup
}

func NewPrettyHandler(out io.Writer, opts PrettyHandlerOptions) *PrettyHandler {
	return &PrettyHandler{opts: opts, out: out, mu: &sync.Mutex{}}
}

// New returns a logger writing through a PrettyHandler at the given level.
func New(out io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(NewPrettyHandler(out, PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{Level: level},
	}))
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelInfo
	if h.opts.SlogOpts.Level != nil {
		minLevel = h.opts.SlogOpts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	level := r.Level.String() + ":"
	switch {
	case r.Level >= slog.LevelError:
		level = color.RedString(level)
	case r.Level >= slog.LevelWarn:
		level = color.YellowString(level)
	case r.Level >= slog.LevelInfo:
		level = color.BlueString(level)
	default:
		level = color.MagentaString(level)
	}

	fields := make(map[string]any, len(h.fields)+r.NumAttrs())
	for k, v := range h.fields {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		addAttr(fields, h.prefix, a)
		return true
	})

	parts := []string{level, color.CyanString(r.Message)}
	if !r.Time.IsZero() {
		parts = append([]string{r.Time.Format("[15:04:05.000]")}, parts...)
	}
	if len(fields) > 0 {
		b, err := json.Marshal(fields)
		if err != nil {
			return fmt.Errorf("encoding log attributes: %w", err)
		}
		parts = append(parts, color.WhiteString(string(b)))
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, strings.Join(parts, " ")+"\n")
	return err
}

func addAttr(fields map[string]any, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range v.Group() {
			addAttr(fields, prefix, ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	if err, ok := v.Any().(error); ok {
		fields[prefix+a.Key] = err.Error()
		return
	}
	fields[prefix+a.Key] = v.Any()
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := *h
	out.fields = make(map[string]any, len(h.fields)+len(attrs))
	for k, v := range h.fields {
		out.fields[k] = v
	}
	for _, a := range attrs {
		addAttr(out.fields, h.prefix, a)
	}
	return &out
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	out := *h
	out.prefix = h.prefix + name + "."
	return &out
}
