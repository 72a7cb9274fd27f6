package main

import (
	"os"

	"github.com/chartwright/flowgraph/internal/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
