package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Completeness label constants.
const (
	CompleteValue = "Complete" // 100% typed surface
	StrongValue   = "Strong"   // Mostly typed
	PartialValue  = "Partial"  // Large untyped gaps
	WeakValue     = "Weak"     // Little to no typing
)

// Color variables for console output.
var (
	CompleteColor = color.New(color.FgGreen, color.Bold)
	StrongColor   = color.New(color.FgCyan)
	PartialColor  = color.New(color.FgYellow)
	WeakColor     = color.New(color.FgRed, color.Bold)
)

// GetPlainLabel returns a plain text label for a completeness score.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(score float64) string {
	switch {
	case score >= 100:
		return CompleteValue
	case score >= 80:
		return StrongValue
	case score >= 50:
		return PartialValue
	default:
		return WeakValue
	}
}

// GetColorLabel returns a colored text label for console output (table).
// It uses GetPlainLabel to determine the string, and then applies the appropriate color.
func GetColorLabel(score float64) string {
	text := GetPlainLabel(score)

	switch text {
	case CompleteValue:
		return CompleteColor.Sprint(text)
	case StrongValue:
		return StrongColor.Sprint(text)
	case PartialValue:
		return PartialColor.Sprint(text)
	default: // "Weak"
		return WeakColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for score history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".typescore_history.db"
	}
	return filepath.Join(homeDir, ".typescore_history.db")
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
