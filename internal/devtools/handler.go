// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package devtools

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// probeHandler tees every record into a Probe before passing it on.
type probeHandler struct {
	next   slog.Handler
	probe  *Probe
	attrs  []slog.Attr
	groups []string
}

// Hook returns a log hook that captures records into p.
func (p *Probe) Hook(next slog.Handler) slog.Handler {
	return &probeHandler{next: next, probe: p}
}

// Enabled captures every level; the wrapped handler still applies its own
// level when the record is forwarded.
func (h *probeHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *probeHandler) Handle(ctx context.Context, r slog.Record) error {
	rec := Record{
		Time:    r.Time,
		Level:   r.Level.String(),
		Message: r.Message,
	}
	if r.NumAttrs() > 0 || len(h.attrs) > 0 {
		rec.Attrs = make(map[string]any, r.NumAttrs()+len(h.attrs))
		prefix := strings.Join(h.groups, ".")
		for _, a := range h.attrs {
			addAttr(rec.Attrs, "", a)
		}
		r.Attrs(func(a slog.Attr) bool {
			addAttr(rec.Attrs, prefix, a)
			return true
		})
	}
	h.probe.Record(rec)

	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *probeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	prefix := strings.Join(h.groups, ".")
	prefixed := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	prefixed = append(prefixed, h.attrs...)
	for _, a := range attrs {
		if prefix != "" {
			a.Key = prefix + "." + a.Key
		}
		prefixed = append(prefixed, a)
	}
	return &probeHandler{next: h.next.WithAttrs(attrs), probe: h.probe, attrs: prefixed, groups: h.groups}
}

func (h *probeHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	groups := append(append([]string(nil), h.groups...), name)
	return &probeHandler{next: h.next.WithGroup(name), probe: h.probe, attrs: h.attrs, groups: groups}
}

func addAttr(dst map[string]any, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	switch {
	case prefix == "":
	case key == "":
		key = prefix
	default:
		key = prefix + "." + key
	}
	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			addAttr(dst, key, ga)
		}
		return
	}
	dst[key] = plain(a.Value.Any())
}

// plain converts values that do not survive JSON encoding as-is.
func plain(v any) any {
	switch t := v.(type) {
	case error:
		return t.Error()
	case time.Duration:
		return t.String()
	case fmt.Stringer:
		return t.String()
	default:
		return v
	}
}
