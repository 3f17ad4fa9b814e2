// Package errors formats command failures for the terminal and terminates
// the process after recording them in the log.
package errors

import (
	"fmt"
	"io"
	"os"

	"github.com/julianstephens/sitelit/internal/logger"
)

// Format prefixes err with "Error: ". A nil error formats as "".
func Format(err error) string {
	if err == nil {
		return ""
	}
	return "Error: " + err.Error()
}

var (
	stderr io.Writer = os.Stderr
	exit             = os.Exit
)

// Fatal logs err, releases the log file, prints the formatted message and
// exits with status 1. It does nothing for a nil error.
func Fatal(err error) {
	if err == nil {
		return
	}
	logger.Error("command failed", "error", err)
	logger.Close()
	fmt.Fprintln(stderr, Format(err))
	exit(1)
}
