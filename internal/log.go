// Package internal has helpers shared across the typescore CLI.
package internal

import (
	"fmt"
	"os"
)

// FatalError logs an error and exits the program.
func FatalError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// Warning logs a warning.
func Warning(msg string) {
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}

// Warningf logs a formatted warning.
func Warningf(format string, args ...any) {
	Warning(fmt.Sprintf(format, args...))
}

// Info logs a progress message to stderr, keeping stdout clean for output.
func Info(msg string) {
	fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// Infof logs a formatted progress message.
func Infof(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
