package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// Exit codes for storefront commands.
const (
	ExitFailure     = 1
	ExitInterrupted = 130
)

// ReportExit writes err for the named storefront command to w and returns the
// status the process should exit with. A nil err writes nothing and returns 0.
// Runs stopped by SIGINT or SIGTERM surface as context.Canceled and map to
// ExitInterrupted.
func ReportExit(w io.Writer, command string, err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintf(w, "%s: interrupted\n", command)
		return ExitInterrupted
	}
	fmt.Fprintf(w, "%s: %v\n", command, err)
	return ExitFailure
}

// ExitOnError terminates a storefront command when err is non-nil.
func ExitOnError(command string, err error) {
	if code := ReportExit(os.Stderr, command, err); code != 0 {
		os.Exit(code)
	}
}
