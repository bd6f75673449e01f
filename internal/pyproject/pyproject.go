// Package pyproject extracts typing-check toggles from pyproject.toml documents.
package pyproject

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pytyped/typescore/schema"
)

// ParseCheckFlags decodes a pyproject.toml document and extracts the typing
// check toggles. Every check starts enabled; a check is disabled only when
// its key is explicitly set to false (boolean, or the string "false" in any
// casing) somewhere in the document's tables. Unknown keys are ignored.
func ParseCheckFlags(doc []byte) (schema.CheckFlags, error) {
	flags := schema.AllChecksEnabled()

	var root map[string]any
	if err := toml.Unmarshal(doc, &root); err != nil {
		return flags, fmt.Errorf("parsing pyproject document: %w", err)
	}

	walk(root, &flags)
	return flags, nil
}

// walk descends nested tables looking for explicitly disabled checks.
func walk(table map[string]any, flags *schema.CheckFlags) {
	for key, value := range table {
		if nested, ok := value.(map[string]any); ok {
			walk(nested, flags)
			continue
		}
		if isFalse(value) {
			disable(strings.ToLower(key), flags)
		}
	}
}

func disable(key string, flags *schema.CheckFlags) {
	switch key {
	case "mypy":
		flags.Mypy = false
	case "pyright":
		flags.Pyright = false
	case "type_check_samples":
		flags.Samples = false
	case "verifytypes":
		flags.Verifytypes = false
	}
}

func isFalse(value any) bool {
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return strings.EqualFold(v, "false")
	}
	return false
}
