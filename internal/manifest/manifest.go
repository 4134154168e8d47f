// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package manifest

import "fmt"

const (
	defaultVersion = "0.0.0"
	defaultWidth   = 800
	defaultHeight  = 600
)

// Manifest is the fully decoded and validated application manifest.
type Manifest struct {
	App     App      `json:"app"`
	Build   Build    `json:"build"`
	Windows []Window `json:"windows" validate:"unique=Label,dive"`

	// Source is the file the manifest was loaded from. Empty for Default().
	Source string `json:"-"`
}

// App identifies the application.
type App struct {
	ProductName string `json:"productName" validate:"required"`
	Identifier  string `json:"identifier" validate:"required,hostname_rfc1123"`
	Version     string `json:"version" validate:"required,semver"`
}

// Build points the shell at the frontend assets.
type Build struct {
	FrontendDist string `json:"frontendDist,omitempty"`
	DevURL       string `json:"devUrl,omitempty" validate:"omitempty,url"`
}

// Window describes one window the shell presents.
type Window struct {
	Label      string `json:"label" validate:"required"`
	Title      string `json:"title"`
	Width      int    `json:"width" validate:"gt=0"`
	Height     int    `json:"height" validate:"gt=0"`
	Resizable  bool   `json:"resizable"`
	Fullscreen bool   `json:"fullscreen"`
}

// Default returns the manifest used when no manifest file is configured.
func Default() *Manifest {
	return &Manifest{
		App: App{
			ProductName: "deskboot",
			Identifier:  "dev.deskboot.app",
			Version:     defaultVersion,
		},
		Windows: []Window{{
			Label:     "main",
			Title:     "deskboot",
			Width:     defaultWidth,
			Height:    defaultHeight,
			Resizable: true,
		}},
	}
}

// Window returns the window with the given label.
func (m *Manifest) Window(label string) (Window, bool) {
	for _, w := range m.Windows {
		if w.Label == label {
			return w, true
		}
	}
	return Window{}, false
}

// String returns a short human-readable summary.
func (m *Manifest) String() string {
	return fmt.Sprintf("%s %s (%s), %d window(s)", m.App.ProductName, m.App.Version, m.App.Identifier, len(m.Windows))
}
