// Command stirgen generates G-code that stirs resin with a printer's
// toolhead.
package main

import (
	"os"

	"github.com/roach88/stirgen/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	os.Exit(cli.GetExitCode(err))
}
