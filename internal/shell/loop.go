// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/ctxlog"
	"github.com/specialistvlad/deskboot/internal/manifest"
	"golang.org/x/sync/errgroup"
)

const defaultShutdownTimeout = 5 * time.Second

// Options configures a Loop.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Handler is the root log handler; builder log hooks wrap it. When nil
	// the handler of the context logger is used.
	Handler slog.Handler

	// OnListen, when set, is called with the bound address once the
	// listener is open.
	OnListen func(addr net.Addr)
}

// Loop implements builder.RunLoop.
type Loop struct {
	opts Options
}

// New returns a Loop with the given options.
func New(opts Options) *Loop {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultShutdownTimeout
	}
	return &Loop{opts: opts}
}

// Run serves until ctx is cancelled or a component fails. It returns nil
// after a graceful shutdown.
func (l *Loop) Run(ctx context.Context, b *builder.Builder, m *manifest.Manifest) error {
	if m == nil {
		return errors.New("no manifest supplied to the shell")
	}

	base := l.opts.Handler
	if base == nil {
		base = ctxlog.FromContext(ctx).Handler()
	}
	logger := slog.New(b.WrapHandler(base)).With("app", m.App.Identifier)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Shell run loop starting.", "units", b.Units(), "windows", len(m.Windows))

	dist, err := resolveDist(m)
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", l.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to bind shell listener on %s: %w", l.opts.Addr, err)
	}

	srv := &http.Server{
		Handler:      newRouter(logger, b, m, dist),
		ReadTimeout:  l.opts.ReadTimeout,
		WriteTimeout: l.opts.WriteTimeout,
		BaseContext:  func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("🪟 Shell listening", "address", "http://"+ln.Addr().String(), "product", m.App.ProductName)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("shell server failed: %w", err)
		}
		return nil
	})

	for _, svc := range b.Services() {
		g.Go(func() error {
			svcCtx, svcLogger := ctxlog.With(gctx, "service", svc.Name)
			svcLogger.Debug("Service starting.")
			if err := svc.Run(svcCtx); err != nil {
				return fmt.Errorf("service %s failed: %w", svc.Name, err)
			}
			svcLogger.Debug("Service stopped.")
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		return l.shutdown(logger, srv)
	})

	if l.opts.OnListen != nil {
		l.opts.OnListen(ln.Addr())
	}

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("🏁 Shell stopped.")
	return nil
}

func (l *Loop) shutdown(logger *slog.Logger, srv *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), l.opts.ShutdownTimeout)
	defer cancel()

	logger.Info("Shutting down shell...")
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Shell shutdown failed", "error", err)
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Debug("Shell shut down gracefully.")
	return nil
}

// resolveDist returns the absolute frontend directory, or "" when the
// manifest does not configure one. Relative paths are resolved against the
// manifest file.
func resolveDist(m *manifest.Manifest) (string, error) {
	dist := m.Build.FrontendDist
	if dist == "" {
		return "", nil
	}
	if !filepath.IsAbs(dist) && m.Source != "" {
		dist = filepath.Join(filepath.Dir(m.Source), dist)
	}
	info, err := os.Stat(dist)
	if err != nil {
		return "", fmt.Errorf("frontend dist %s: %w", dist, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("frontend dist %s: not a directory", dist)
	}
	return dist, nil
}
