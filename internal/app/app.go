// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/config"
	"github.com/specialistvlad/deskboot/internal/shell"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	handler slog.Handler
	logger  *slog.Logger
	config  *config.Config
	mode    buildmode.Mode
	loop    builder.RunLoop
}

// NewApp is the constructor for the main application. The returned App logs
// to outW with its own isolated logger and runs the default shell loop.
func NewApp(outW io.Writer, cfg *config.Config) *App {
	handler := newHandler(cfg.Log.Level, cfg.Log.Format, outW)
	logger := slog.New(handler)
	logger.Debug("Logger configured successfully.", "build_mode", buildmode.Current.String())

	return &App{
		outW:    outW,
		handler: handler,
		logger:  logger,
		config:  cfg,
		mode:    buildmode.Current,
		loop: shell.New(shell.Options{
			Addr:            cfg.Server.Addr,
			ReadTimeout:     cfg.Server.ReadTimeout,
			WriteTimeout:    cfg.Server.WriteTimeout,
			ShutdownTimeout: cfg.Server.ShutdownTimeout,
			Handler:         handler,
		}),
	}
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// Mode returns the build mode the app bootstraps with.
func (a *App) Mode() buildmode.Mode {
	return a.mode
}
