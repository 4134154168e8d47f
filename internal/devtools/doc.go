// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
//
// Package devtools provides the debug-only startup units.
//
// Core ("devtools-core") installs a Probe: a log handler hook that keeps a
// bounded ring of recent records, fans them out to subscribers and counts
// them in a private Prometheus registry. It serves /__devtools/logs and
// /__devtools/metrics.
//
// AppBridge ("devtools-app-bridge") exposes the probe to an external devtools
// client over socket.io at /__devtools/socket.io. It must be attached after
// Core: it resolves the probe when the run loop starts its service, and idles
// with a warning when no Core was attached.
//
// Tail is the matching client used by `deskboot devtools tail`.
package devtools
