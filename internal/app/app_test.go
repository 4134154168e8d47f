// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/specialistvlad/deskboot/internal/builder"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/config"
	"github.com/specialistvlad/deskboot/internal/manifest"
	"github.com/specialistvlad/deskboot/internal/sequencer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

type stubLoop struct {
	err   error
	runs  int
	units []string
	m     *manifest.Manifest
}

func (l *stubLoop) Run(_ context.Context, b *builder.Builder, m *manifest.Manifest) error {
	l.runs++
	l.units = b.Units()
	l.m = m
	return l.err
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Addr: "127.0.0.1:0", ShutdownTimeout: time.Second},
		Log:    config.LogConfig{Level: "debug", Format: "text"},
	}
}

// SetupAppTest creates a new app instance with a stub run loop.
func SetupAppTest(t *testing.T, cfg *config.Config, loop builder.RunLoop) (*App, *SafeBuffer) {
	t.Helper()

	logBuffer := &SafeBuffer{}
	testApp := NewApp(logBuffer, cfg)
	if loop != nil {
		testApp.loop = loop
	}

	t.Cleanup(func() {
		if os.Getenv("DESKBOOT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}

func TestRun_DefaultManifest(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	loop := &stubLoop{}
	testApp, logs := SetupAppTest(t, testConfig(), loop)

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, 1, loop.runs)
	require.NotNil(t, loop.m)
	assert.Equal(t, "dev.deskboot.app", loop.m.App.Identifier)
	assert.Contains(t, logs.String(), "No manifest configured")
	assert.Equal(t, buildmode.Current, testApp.Mode())
}

func TestRun_UnitsFollowBuildMode(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		mode buildmode.Mode
		want []string
	}{
		{mode: buildmode.Release, want: []string{}},
		{mode: buildmode.Debug, want: []string{"devtools-core", "devtools-app-bridge"}},
	}

	for _, tc := range testCases {
		t.Run(tc.mode.String(), func(t *testing.T) {
			t.Parallel()

			loop := &stubLoop{}
			testApp, _ := SetupAppTest(t, testConfig(), loop)
			testApp.mode = tc.mode

			require.NoError(t, testApp.Run(context.Background()))
			assert.Equal(t, tc.want, loop.units)
		})
	}
}

func TestRun_LoadsManifestFile(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "deskboot.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
app {
  product_name = "Shortcut Trainer"
  identifier   = "com.example.shortcuts"
}
`), 0600))
	cfg := testConfig()
	cfg.ManifestPath = path
	loop := &stubLoop{}
	testApp, _ := SetupAppTest(t, cfg, loop)

	// --- Act ---
	err := testApp.Run(context.Background())

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "Shortcut Trainer", loop.m.App.ProductName)
}

func TestRun_ManifestErrorStopsBeforeRunLoop(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.ManifestPath = filepath.Join(t.TempDir(), "missing.hcl")
	loop := &stubLoop{}
	testApp, _ := SetupAppTest(t, cfg, loop)

	err := testApp.Run(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load manifest")
	assert.Zero(t, loop.runs)
}

func TestRun_RunLoopFailureIsStartupError(t *testing.T) {
	t.Parallel()

	loop := &stubLoop{err: errors.New("window creation failed")}
	testApp, logs := SetupAppTest(t, testConfig(), loop)

	err := testApp.Run(context.Background())

	var startupErr *sequencer.StartupError
	require.ErrorAs(t, err, &startupErr)
	assert.Contains(t, err.Error(), "window creation failed")
	assert.Contains(t, logs.String(), "Run loop failed.")
}

func TestRun_ShellStopsOnCancelledContext(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	testApp, logs := SetupAppTest(t, testConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	err := testApp.Run(ctx)

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "Shell stopped.")
}

func TestNewHandler_LevelsAndFormats(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := slog.New(newHandler("warn", "json", buf))
	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)
}
