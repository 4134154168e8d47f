// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package config loads the runtime settings of the shell: where it listens,
// how it logs, and which manifest it loads. Values come from defaults, an
// optional config file, and DESKBOOT_* environment variables, in increasing
// order of precedence. Command-line flags are applied on top by the cli
// package.
//
// The build mode is deliberately not configurable here.
package config
