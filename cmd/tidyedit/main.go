// Package main is the entry point for the tidyedit CLI.
package main

import (
	"os"

	"github.com/jmylchreest/tidyedit/cmd/tidyedit/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
