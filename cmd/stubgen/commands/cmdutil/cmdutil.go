// Package cmdutil provides shared CLI utilities for stubgen commands.
package cmdutil

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// StdinIndicator is the conventional Unix indicator to read from stdin.
const StdinIndicator = "-"

// IsStdin returns true if the given path indicates stdin should be used.
func IsStdin(path string) bool {
	return path == StdinIndicator
}

// ArgAt returns args[index] or defaultVal when the index is out of range.
func ArgAt(args []string, index int, defaultVal string) string {
	if index < 0 || index >= len(args) {
		return defaultVal
	}
	return args[index]
}

// FormatErrors renders errs as a numbered list with the index column right aligned.
func FormatErrors(errs []error) string {
	var sb strings.Builder
	indexWidth := len(strconv.Itoa(len(errs)))

	for i, err := range errs {
		fmt.Fprintf(&sb, "%*d. %s\n", indexWidth, i+1, err.Error())
	}

	return sb.String()
}

// ReportElapsed prints how long action took, rounded to the millisecond.
func ReportElapsed(w io.Writer, action string, elapsed time.Duration) {
	roundedElapsed := elapsed.Round(time.Millisecond)
	if roundedElapsed < time.Millisecond {
		roundedElapsed = time.Millisecond
	}

	fmt.Fprintf(w, "%s completed in %s\n", action, roundedElapsed)
}

// Die prints an error to stderr and exits with code 1.
func Die(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}
