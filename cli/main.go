// Command psyker renders and runs queries for a .psyker schema.
package main

import (
	"os"

	"github.com/satishbabariya/psyker-go/cli/commands"
	"github.com/satishbabariya/psyker-go/cli/internal/ui"
)

func main() {
	if err := commands.Execute(); err != nil {
		ui.PrintError("%v", err)
		os.Exit(1)
	}
}
