// Command pandata converts tabular data files between formats.
package main

import (
	"fmt"
	"os"

	"github.com/vegasq/pandata/internal/cli"
)

func main() {
	if err := cli.Execute(os.Args[1:], cli.StdStreams()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
