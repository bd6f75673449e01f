// main holds the entry logic for the typescore CLI.
package main

import (
	"github.com/pytyped/typescore/cmd"
	"github.com/pytyped/typescore/internal"
	"github.com/pytyped/typescore/internal/histstore"
)

func main() {
	err := cmd.Execute()
	histstore.CloseHistory()
	if err != nil {
		internal.FatalError("command failed", err)
	}
}
