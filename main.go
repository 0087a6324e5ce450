package main

import (
	"os"

	"github.com/omrilahav/cursor-for-designers/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
