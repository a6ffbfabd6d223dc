// Command starterkit bootstraps an OpenDataZurich data project container.
package main

import (
	"fmt"
	"os"

	"github.com/opendatazurich/starterkit/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
