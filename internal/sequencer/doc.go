// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package sequencer is the application bootstrap sequence.
//
// It creates a fresh builder, attaches the startup units selected by the
// build mode, in a fixed order, and hands the builder to a run loop exactly
// once:
//
//	Unstarted -> Composing -> Running
//	                            |
//	                            +-> Aborted (run loop failed)
//
// Unit selection is a pure function of the build mode (UnitsFor). Debug
// builds attach devtools-core and then devtools-app-bridge; release builds
// attach nothing. Nothing read at runtime changes that.
//
// A run loop failure is never retried or rolled back. Bootstrap returns it as
// a *StartupError and the process entry point treats that as fatal.
package sequencer
