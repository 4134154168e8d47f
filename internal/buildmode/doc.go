// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package buildmode exposes the build flavour the binary was compiled with.
//
// The mode is selected with the `debug` build tag:
//
//	go build -tags debug ./cmd/cli   # Debug
//	go build ./cmd/cli               # Release
//
// It is a compile-time constant. Nothing read at runtime (flags, environment,
// configuration files) can change it, which keeps the set of startup units a
// function of the binary alone.
package buildmode
