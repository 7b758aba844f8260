// Command tradepatch compiles trade rules and simulates them against offers.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tradepatch/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// Errors from cobra itself (unknown flags, bad args) are not reported by commands.
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
