// Command notemap reconstructs symbolic scores from music page detections.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/notemap/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
