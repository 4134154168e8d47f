// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sequencer

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/ctxlog"
	"github.com/specialistvlad/deskboot/internal/manifest"
)

// State is a step of the bootstrap lifecycle.
type State int

const (
	Unstarted State = iota
	Composing
	Running
	Aborted
)

func (s State) String() string {
	switch s {
	case Unstarted:
		return "unstarted"
	case Composing:
		return "composing"
	case Running:
		return "running"
	case Aborted:
		return "aborted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrAlreadyStarted is returned by a second Bootstrap on the same Sequencer.
var ErrAlreadyStarted = errors.New("bootstrap sequence already started")

// StartupError is the fatal failure of the run loop.
type StartupError struct {
	Err error
}

func (e *StartupError) Error() string {
	return fmt.Sprintf("error while running application: %v", e.Err)
}

func (e *StartupError) Unwrap() error { return e.Err }

// Sequencer composes the startup units and starts the run loop.
type Sequencer struct {
	mode  buildmode.Mode
	loop  builder.RunLoop
	units func(buildmode.Mode) []builder.Unit

	mu    sync.Mutex
	state State
}

// Option customises a Sequencer.
type Option func(*Sequencer)

// WithUnits replaces the unit selection function. Tests use it to observe
// attachment; the default is UnitsFor.
func WithUnits(fn func(buildmode.Mode) []builder.Unit) Option {
	return func(s *Sequencer) { s.units = fn }
}

// New returns a Sequencer for mode that will hand its builder to loop.
func New(mode buildmode.Mode, loop builder.RunLoop, opts ...Option) *Sequencer {
	s := &Sequencer{mode: mode, loop: loop, units: UnitsFor}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Sequencer) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Sequencer) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
}

// Bootstrap composes a fresh builder and runs it. It blocks for as long as
// the run loop does. m is passed through to the run loop untouched.
func (s *Sequencer) Bootstrap(ctx context.Context, m *manifest.Manifest) error {
	s.mu.Lock()
	if s.state != Unstarted {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.state = Composing
	s.mu.Unlock()

	logger := ctxlog.FromContext(ctx)
	logger.Debug("Composing startup units.", "build_mode", s.mode.String())

	b := attach(builder.New(), s.units(s.mode))
	logger.Info("🧩 Startup units attached.", "build_mode", s.mode.String(), "units", b.Units())

	s.setState(Running)
	logger.Debug("Handing builder to run loop.")
	if err := b.Run(ctx, s.loop, m); err != nil {
		s.setState(Aborted)
		logger.Error("Run loop failed.", "error", err)
		return &StartupError{Err: err}
	}

	logger.Debug("Run loop returned.")
	return nil
}
