// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package shell is the default run loop a Builder is handed to. It is a
// headless application shell: it serves the frontend assets and the routes
// units contributed, supervises unit services, and blocks until its context
// is cancelled.
//
// The bootstrap sequencer treats it as an opaque collaborator. Everything
// here can be replaced by any other builder.RunLoop implementation.
package shell
