package main

import (
	"fmt"
	"os"

	"github.com/relayvision/visionlog/cmd/do/cmd"
)

func main() {
	cmd.Reexec()

	if err := cmd.RootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
