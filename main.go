// Package main is the entry point for the azdhooks application.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/devantler-tech/azdhooks/internal/buildmeta"
	"github.com/devantler-tech/azdhooks/pkg/cli/cmd"
	"github.com/devantler-tech/azdhooks/pkg/svc/hook"
	"github.com/devantler-tech/azdhooks/pkg/utils/notify"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	exitCode := runSafely(ctx, os.Args[1:], runWithArgs, os.Stderr)

	stop()

	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

//nolint:nonamedreturns // Named return simplifies panic recovery logic.
func runSafely(
	ctx context.Context,
	args []string,
	runner func(context.Context, []string) int,
	errWriter io.Writer,
) (exitCode int) {
	defer func() {
		if r := recover(); r != nil {
			notify.NewLogger(notify.WithOutput(errWriter)).
				Exception(fmt.Sprintf("panic recovered: %v", r), string(debug.Stack()))

			exitCode = 1
		}
	}()

	exitCode = runner(ctx, args)

	return exitCode
}

func runWithArgs(ctx context.Context, args []string) int {
	rootCmd := cmd.NewRootCmd(buildmeta.Version, buildmeta.Commit, buildmeta.Date)
	rootCmd.SetArgs(args)

	err := cmd.Execute(ctx, rootCmd)
	if err != nil {
		var exitErr *hook.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.Code
		}

		notify.NewLogger(notify.WithOutput(rootCmd.ErrOrStderr())).Error(err.Error())

		return 1
	}

	return 0
}
