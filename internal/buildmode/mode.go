// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package buildmode

// Mode is the build flavour of the running binary.
type Mode int

const (
	// Release is the default production build.
	Release Mode = iota
	// Debug is a development build carrying diagnostic units.
	Debug
)

// String returns the lowercase name of the mode.
func (m Mode) String() string {
	switch m {
	case Debug:
		return "debug"
	case Release:
		return "release"
	default:
		return "unknown"
	}
}

// IsDebug reports whether m is Debug.
func (m Mode) IsDebug() bool { return m == Debug }
