// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package builder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/specialistvlad/deskboot/internal/manifest"
)

// ErrConsumed is returned when a Builder that has already been run is run again.
var ErrConsumed = errors.New("builder has already been consumed by a run loop")

// Unit is the interface every startup unit implements.
type Unit interface {
	// Name identifies the unit in diagnostics. It must be unique per Builder.
	Name() string
	// Attach contributes the unit's hooks to the builder. It must not fail.
	Attach(b *Builder)
}

// RunLoop is the long-lived event loop a Builder is handed to.
type RunLoop interface {
	Run(ctx context.Context, b *Builder, m *manifest.Manifest) error
}

// LogHook wraps the run loop's root log handler.
type LogHook func(next slog.Handler) slog.Handler

// Route is an HTTP handler contributed by a unit.
type Route struct {
	Pattern string
	Handler http.Handler
}

// Service is a background function contributed by a unit. Run must return
// when ctx is cancelled.
type Service struct {
	Name string
	Run  func(ctx context.Context) error
}

// Builder accumulates attached units and their hooks.
type Builder struct {
	units    []string
	attached map[string]struct{}
	logHooks []LogHook
	routes   []Route
	services []Service
	values   map[any]any
	consumed bool
}

// New returns an empty Builder.
func New() *Builder {
	return &Builder{
		attached: make(map[string]struct{}),
		values:   make(map[any]any),
	}
}

// Plugin attaches u and returns the builder for chaining.
func (b *Builder) Plugin(u Unit) *Builder {
	b.mustBeOpen()
	name := u.Name()
	if _, exists := b.attached[name]; exists {
		panic(fmt.Sprintf("unit with name '%s' already attached", name))
	}
	b.attached[name] = struct{}{}
	b.units = append(b.units, name)
	u.Attach(b)
	return b
}

// Units returns the names of attached units in attach order.
func (b *Builder) Units() []string {
	out := make([]string, len(b.units))
	copy(out, b.units)
	return out
}

// Has reports whether a unit with the given name is attached.
func (b *Builder) Has(name string) bool {
	_, ok := b.attached[name]
	return ok
}

// HookLogger registers a log handler wrapper.
func (b *Builder) HookLogger(h LogHook) {
	b.mustBeOpen()
	b.logHooks = append(b.logHooks, h)
}

// Route registers an HTTP handler.
func (b *Builder) Route(pattern string, h http.Handler) {
	b.mustBeOpen()
	b.routes = append(b.routes, Route{Pattern: pattern, Handler: h})
}

// Service registers a background function.
func (b *Builder) Service(name string, run func(ctx context.Context) error) {
	b.mustBeOpen()
	b.services = append(b.services, Service{Name: name, Run: run})
}

// Provide publishes a value under key.
func (b *Builder) Provide(key, value any) {
	b.mustBeOpen()
	b.values[key] = value
}

// Lookup returns the value published under key.
func (b *Builder) Lookup(key any) (any, bool) {
	v, ok := b.values[key]
	return v, ok
}

// WrapHandler applies every log hook, in attach order, so the first attached
// hook sees records first.
func (b *Builder) WrapHandler(h slog.Handler) slog.Handler {
	for i := len(b.logHooks) - 1; i >= 0; i-- {
		h = b.logHooks[i](h)
	}
	return h
}

// Routes returns the registered routes in attach order.
func (b *Builder) Routes() []Route {
	out := make([]Route, len(b.routes))
	copy(out, b.routes)
	return out
}

// Services returns the registered services in attach order.
func (b *Builder) Services() []Service {
	out := make([]Service, len(b.services))
	copy(out, b.services)
	return out
}

// Consumed reports whether the builder has been handed to a run loop.
func (b *Builder) Consumed() bool { return b.consumed }

// Run hands the builder to loop. A Builder can be run once; later calls
// return ErrConsumed without touching loop.
func (b *Builder) Run(ctx context.Context, loop RunLoop, m *manifest.Manifest) error {
	if b.consumed {
		return ErrConsumed
	}
	b.consumed = true
	return loop.Run(ctx, b, m)
}

func (b *Builder) mustBeOpen() {
	if b.consumed {
		panic("builder: cannot modify a builder after it has been run")
	}
}
