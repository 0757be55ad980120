package main

import (
	"fmt"
	"os"

	"github.com/arthur-debert/relink/cmd/relink"
	"github.com/arthur-debert/relink/pkg/errors"
	"github.com/arthur-debert/relink/pkg/ui/styles"
)

func main() {
	rootCmd := relink.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Render("Error", fmt.Sprintf("Error: %v", err)))

		// Cobra usage errors carry no code
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			fmt.Fprintln(os.Stderr, styles.Render("Muted", relink.MsgUsageHint))
		} else if path, ok := errors.GetErrorDetails(err)["path"].(string); ok && path != "" {
			fmt.Fprintln(os.Stderr, styles.Render("ErrorDetail", "path: "+path))
		}

		os.Exit(1)
	}
}
