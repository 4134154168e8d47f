// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(ctx context.Context, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd := NewRootCmd(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	return out.String(), err
}

func TestRoot_Flags(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name         string
		args         []string
		expectCode   int
		expectOutput string
	}{
		{
			name:         "Help flag prints usage",
			args:         []string{"-h"},
			expectOutput: "Usage:",
		},
		{
			name:       "Unknown flag is a usage error",
			args:       []string{"--this-is-not-a-valid-flag"},
			expectCode: 2,
		},
		{
			name:       "Invalid log level returns an error",
			args:       []string{"--log-level=foo"},
			expectCode: 2,
		},
		{
			name:       "Invalid log format returns an error",
			args:       []string{"--log-format=yaml"},
			expectCode: 2,
		},
		{
			name:       "Positional arguments are a usage error",
			args:       []string{"extra"},
			expectCode: 2,
		},
		{
			name:       "Missing config file is a usage error",
			args:       []string{"--config", "/nonexistent/deskboot.yaml"},
			expectCode: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// --- Act ---
			out, err := execute(context.Background(), tc.args...)

			// --- Assert ---
			switch tc.expectCode {
			case 0:
				require.NoError(t, err)
			default:
				require.Error(t, err)
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr), "Expected error to be of type ExitError")
				assert.Equal(t, tc.expectCode, exitErr.Code)
			}
			if tc.expectOutput != "" {
				assert.Contains(t, out, tc.expectOutput)
			}
		})
	}
}

func TestRoot_RunsShellUntilCancelled(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// --- Act ---
	out, err := execute(ctx, "--addr", "127.0.0.1:0", "--log-level", "debug")

	// --- Assert ---
	require.NoError(t, err)
	assert.Contains(t, out, "Startup units attached.")
	assert.Contains(t, out, "Shell stopped.")
}

func TestRoot_BadManifestFailsStartup(t *testing.T) {
	t.Parallel()

	_, err := execute(context.Background(), "--addr", "127.0.0.1:0", "--manifest", filepath.Join(t.TempDir(), "missing.hcl"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load manifest")
}

func TestRootOptions_FlagsOverrideConfig(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	path := filepath.Join(t.TempDir(), "deskboot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("log:\n  level: warn\nserver:\n  addr: 127.0.0.1:7000\n"), 0600))
	cmd := NewRootCmd(&bytes.Buffer{})
	require.NoError(t, cmd.ParseFlags([]string{"--config", path, "--addr", "127.0.0.1:8000"}))

	// --- Act ---
	opts := &rootOptions{}
	opts.configFile, _ = cmd.Flags().GetString("config")
	opts.logLevel, _ = cmd.Flags().GetString("log-level")
	opts.logFormat, _ = cmd.Flags().GetString("log-format")
	opts.addr, _ = cmd.Flags().GetString("addr")
	cfg, err := opts.load(cmd)

	// --- Assert ---
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.Log.Level, "unset flags keep the config file value")
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Addr, "explicit flags win")
}

func TestPrintUnits(t *testing.T) {
	t.Parallel()

	t.Run("release", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		printUnits(out, buildmode.Release)
		assert.Contains(t, out.String(), "Build mode: release")
		assert.Contains(t, out.String(), "No startup units attached.")
	})

	t.Run("debug", func(t *testing.T) {
		t.Parallel()
		out := &bytes.Buffer{}
		printUnits(out, buildmode.Debug)
		s := out.String()
		assert.Contains(t, s, "Build mode: debug")
		coreAt := bytes.Index(out.Bytes(), []byte("devtools-core"))
		bridgeAt := bytes.Index(out.Bytes(), []byte("devtools-app-bridge"))
		require.NotEqual(t, -1, coreAt)
		require.NotEqual(t, -1, bridgeAt)
		assert.Less(t, coreAt, bridgeAt, "core is listed before the bridge")
		assert.Contains(t, s, "3 route(s), 1 service(s) contributed.")
	})
}

func TestSubcommands_ExtraArgumentsAreUsageErrors(t *testing.T) {
	t.Parallel()

	for _, args := range [][]string{
		{"units", "extra"},
		{"devtools", "tail", "extra"},
		{"manifest", "validate", "a.hcl", "b.hcl"},
	} {
		_, err := execute(context.Background(), args...)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr, "args %v", args)
		assert.Equal(t, 2, exitErr.Code, "args %v", args)
	}
}

func TestUnitsCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(context.Background(), "units")

	require.NoError(t, err)
	assert.Contains(t, out, "Build mode: "+buildmode.Current.String())
}

func TestManifestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "good.hcl")
	require.NoError(t, os.WriteFile(good, []byte(`
app {
  product_name = "Shortcut Trainer"
  identifier   = "com.example.shortcuts"
  version      = "1.2.3"
}
build {
  frontend_dist = "./dist"
}
window "main" {
  width  = 1024
  height = 768
}
`), 0600))
	bad := filepath.Join(dir, "bad.hcl")
	require.NoError(t, os.WriteFile(bad, []byte(`app { product_name = "" }`), 0600))

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		out, err := execute(context.Background(), "manifest", "validate", good)
		require.NoError(t, err)
		assert.Contains(t, out, "Shortcut Trainer 1.2.3 (com.example.shortcuts), 1 window(s)")
		assert.Contains(t, out, "1024x768")
		assert.Contains(t, out, "Frontend dist: ./dist")
	})

	t.Run("invalid", func(t *testing.T) {
		t.Parallel()
		_, err := execute(context.Background(), "manifest", "validate", bad)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
	})

	t.Run("missing argument", func(t *testing.T) {
		t.Parallel()
		_, err := execute(context.Background(), "manifest", "validate")
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})
}

func TestDevtoolsTail_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := execute(context.Background(), "devtools", "tail", "--url", "not-a-url")

	require.Error(t, err)
}
