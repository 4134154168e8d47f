// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/specialistvlad/deskboot/internal/app"
	"github.com/specialistvlad/deskboot/internal/buildmode"
	"github.com/specialistvlad/deskboot/internal/config"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(format string, args ...any) error {
	return &ExitError{Code: 2, Message: fmt.Sprintf(format, args...)}
}

// usageArgs turns a positional argument check failure into a usage error.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError("%s", err.Error())
		}
		return nil
	}
}

// rootOptions holds the values of the root command's flags.
type rootOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	manifest   string
	addr       string
}

// NewRootCmd builds the deskboot command tree writing to outW.
func NewRootCmd(outW io.Writer) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "deskboot",
		Short: "deskboot - desktop application shell",
		Long: `deskboot starts the application shell: it attaches the startup units of
this build (` + buildmode.Current.String() + `) and runs the shell until it is interrupted.`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load(cmd)
			if err != nil {
				return err
			}
			return app.NewApp(outW, cfg).Run(cmd.Context())
		},
	}
	root.SetOut(outW)
	root.SetErr(outW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError("%s", err.Error())
	})

	flags := root.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a config file (YAML, TOML or JSON).")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log output format. Options: 'text' or 'json'.")
	root.Flags().StringVar(&opts.manifest, "manifest", "", "Path to the application manifest (.hcl).")
	root.Flags().StringVar(&opts.addr, "addr", "", "Address the shell listens on, e.g. 127.0.0.1:1430.")

	root.AddCommand(newUnitsCmd(outW))
	root.AddCommand(newManifestCmd(outW))
	root.AddCommand(newDevtoolsCmd(outW))

	return root
}

// load resolves configuration: file and environment first, then any flag
// the user set explicitly.
func (o *rootOptions) load(cmd *cobra.Command) (*config.Config, error) {
	if err := validateLogFlags(o.logLevel, o.logFormat); err != nil {
		return nil, err
	}

	cfg, err := config.Load(o.configFile)
	if err != nil {
		return nil, usageError("%s", err.Error())
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = strings.ToLower(o.logLevel)
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = strings.ToLower(o.logFormat)
	}
	if cmd.Flags().Changed("manifest") {
		cfg.ManifestPath = o.manifest
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = o.addr
	}

	if err := cfg.Validate(); err != nil {
		return nil, usageError("%s", err.Error())
	}
	return cfg, nil
}

func validateLogFlags(level, format string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
	default:
		return usageError("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	switch strings.ToLower(format) {
	case "text", "json":
	default:
		return usageError("invalid log-format: must be 'text' or 'json'")
	}
	return nil
}
