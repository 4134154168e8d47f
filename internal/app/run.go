// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/deskboot/internal/ctxlog"
	"github.com/specialistvlad/deskboot/internal/manifest"
	"github.com/specialistvlad/deskboot/internal/sequencer"
)

// Run loads the manifest and starts the bootstrap sequence. It blocks until
// the run loop returns.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	m, err := a.loadManifest(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("🚀 Starting application.", "manifest", m.String(), "build_mode", a.mode.String())

	seq := sequencer.New(a.mode, a.loop)
	if err := seq.Bootstrap(ctx, m); err != nil {
		return err
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) loadManifest(ctx context.Context) (*manifest.Manifest, error) {
	if a.config.ManifestPath == "" {
		a.logger.Warn("No manifest configured, using defaults.")
		return manifest.Default(), nil
	}
	m, err := manifest.Load(ctx, a.config.ManifestPath, a.mode)
	if err != nil {
		return nil, fmt.Errorf("failed to load manifest: %w", err)
	}
	return m, nil
}
