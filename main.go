package main

import (
	"os"

	"github.com/cwillem/submap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
