// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package sequencer

import (
	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/devtools"
)

// UnitsFor returns the ordered startup units for mode. Every call returns
// freshly constructed units.
func UnitsFor(mode buildmode.Mode) []builder.Unit {
	if !mode.IsDebug() {
		return nil
	}
	// The bridge streams what the core captures, so the core goes first.
	return []builder.Unit{
		devtools.NewCore(),
		devtools.NewAppBridge(),
	}
}

// Compose runs the composition phase alone: a fresh builder with the units
// for mode attached in order.
func Compose(mode buildmode.Mode) *builder.Builder {
	return attach(builder.New(), UnitsFor(mode))
}

func attach(b *builder.Builder, units []builder.Unit) *builder.Builder {
	for _, u := range units {
		b = b.Plugin(u)
	}
	return b
}
