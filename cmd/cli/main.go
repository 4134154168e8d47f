package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/specialistvlad/deskboot/internal/cli"
	"github.com/specialistvlad/deskboot/internal/sequencer"
)

// main is the entrypoint for the deskboot shell.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Args[1:])
	stop()

	os.Exit(exitCode(err, os.Stderr))
}

// run encapsulates the main application logic for easier testing and error handling.
func run(ctx context.Context, outW io.Writer, args []string) error {
	root := cli.NewRootCmd(outW)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// exitCode reports err on errW and maps it to the process exit status.
func exitCode(err error, errW io.Writer) int {
	if err == nil {
		return 0
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}

	var startupErr *sequencer.StartupError
	if errors.As(err, &startupErr) {
		fmt.Fprintf(errW, "fatal: %v\n", startupErr)
		return 1
	}

	fmt.Fprintf(errW, "Error: %v\n", err)
	return 1
}
