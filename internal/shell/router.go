// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package shell

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/manifest"
)

// newRouter builds the shell router.
//
// Routes:
//   - GET /health - liveness probe
//   - GET /api/manifest - application identity and windows
//   - GET /api/windows/{label} - a single window
//   - every route contributed by attached units, without request logging
//   - the frontend dist directory, or a redirect to the dev server
func newRouter(logger *slog.Logger, b *builder.Builder, m *manifest.Manifest, dist string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	// Unit routes are not request-logged: the devtools bridge streams every
	// log record to its clients, so logging its own requests never settles.
	for _, rt := range b.Routes() {
		logger.Debug("Mounting unit route.", "pattern", rt.Pattern)
		r.Handle(rt.Pattern, rt.Handler)
	}

	r.Group(func(r chi.Router) {
		r.Use(requestLogger(logger))

		r.Get("/health", healthHandler(logger))
		r.Get("/api/manifest", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, m)
		})
		r.Get("/api/windows/{label}", func(w http.ResponseWriter, r *http.Request) {
			win, ok := m.Window(chi.URLParam(r, "label"))
			if !ok {
				http.NotFound(w, r)
				return
			}
			writeJSON(w, http.StatusOK, win)
		})

		switch {
		case dist != "":
			r.Handle("/*", http.FileServer(http.Dir(dist)))
		case m.Build.DevURL != "":
			r.Get("/", func(w http.ResponseWriter, r *http.Request) {
				http.Redirect(w, r, m.Build.DevURL, http.StatusTemporaryRedirect)
			})
		}
	})

	return r
}

// healthHandler logs each probe and answers OK.
func healthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Health check endpoint hit.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "OK")
	}
}

// requestLogger logs request start at DEBUG and completion at INFO.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := middleware.GetReqID(r.Context())

			logger.Debug("Request started",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			logger.Info("Request completed",
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).String(),
			)
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
