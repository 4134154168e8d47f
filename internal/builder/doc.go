// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package builder provides the application Builder: an ordered accumulator of
// startup units that is assembled once and then handed, by value of its
// pointer, to a run loop.
//
// A Unit contributes optional behaviour by calling the Builder's hook methods
// from its Attach method:
//
//   - HookLogger wraps the root slog.Handler the run loop installs.
//   - Route mounts an HTTP handler on the shell router.
//   - Service registers a background function the run loop supervises.
//   - Provide publishes a keyed value other units can Lookup later.
//
// The Builder records units in attach order and refuses a second unit with the
// same name. Run consumes the Builder: it can be run exactly once, and nothing
// can be attached afterwards.
package builder
