// Command mustache renders a Mustache template against a JSON or YAML data
// context, resolving partials from a directory if one is given.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintln(os.Stderr, "mustache: logger init:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := newRootCommand(logger).Execute(); err != nil {
		os.Exit(1)
	}
}
