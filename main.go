package main

import (
	"os"

	"github.com/martinemde/cobalt/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
