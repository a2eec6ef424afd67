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

	"github.com/vk/serialgraph/internal/app"
	"github.com/vk/serialgraph/internal/cli"
)

// exitNotSerializable is returned with -strict when a schedule has a cycle.
const exitNotSerializable = 3

// main is the entrypoint for the serialgraph application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Stdout, os.Stderr, os.Args[1:])
	stop()
	os.Exit(exitCode(err, os.Stderr))
}

// exitCode maps an error returned by run to a process exit code, printing it.
func exitCode(err error, errW io.Writer) int {
	if err == nil {
		return 0
	}
	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		fmt.Fprintln(errW, exitErr.Message)
		return exitErr.Code
	}
	fmt.Fprintln(errW, err)
	if errors.Is(err, app.ErrNotSerializable) {
		return exitNotSerializable
	}
	return 1
}

// run encapsulates the main application logic for easier testing and error
// handling. Reports are written to outW, usage text and logs to errW.
func run(ctx context.Context, outW, errW io.Writer, args []string) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, errW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// Turn a startup panic into a regular error so the exit path stays the same.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	serialgraphApp := app.NewApp(outW, errW, appConfig)
	return serialgraphApp.Run(ctx)
}
