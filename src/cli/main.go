package main

import (
	"os"

	"github.com/NullVoxPopuli/ember-build-scenario-tester/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
