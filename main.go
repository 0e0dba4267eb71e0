package main

import (
	"os"

	"github.com/temirov/xapkconv/cmd/cli"
	"github.com/temirov/xapkconv/internal/ui"
)

const (
	exitErrorTemplateConstant = "Error: %v"
)

// main executes the xapkconv command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		ui.NewStatusPrinter(os.Stderr).Errorf(exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
