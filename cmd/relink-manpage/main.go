package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra/doc"

	"github.com/arthur-debert/relink/cmd/relink"
)

// Writes the root man page to stdout for packaging
func main() {
	rootCmd := relink.NewRootCmd()

	if err := doc.GenMan(rootCmd, relink.ManHeader(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error generating man page: %v\n", err)
		os.Exit(1)
	}
}
