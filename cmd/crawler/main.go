// Command crawler is the operator-facing entry point for the
// frontier-driven document-discovery engine.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rohmanhakim/frontier-crawler/internal/cli"
)

func main() {
	err := cli.Execute()
	if err == nil {
		os.Exit(0)
	}

	fmt.Fprintln(os.Stderr, err)
	if errors.Is(err, cli.ErrRootFailed) {
		os.Exit(2)
	}
	os.Exit(1)
}
