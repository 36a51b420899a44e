// File: cmd/browserless/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/xkilldash9x/browserless-go/cmd"
	"github.com/xkilldash9x/browserless-go/internal/observability"
)

// osExit is swapped out in tests.
var osExit = os.Exit

func main() {
	defer handlePanic()

	// SIGINT and SIGTERM cancel in-flight requests.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	osExit(exitCode(cmd.Execute(ctx)))
}

// exitCode maps the result of a run onto the process status. An interrupted
// run exits cleanly; cmd.Execute has already logged real failures.
func exitCode(err error) int {
	switch {
	case err == nil, errors.Is(err, context.Canceled):
		return 0
	default:
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
}

// handlePanic flushes buffered logs and reports the stack before exiting.
func handlePanic() {
	if r := recover(); r != nil {
		observability.Sync()
		fmt.Fprintf(os.Stderr, "panic: %v\n\n%s\n", r, debug.Stack())
		osExit(2)
	}
}
