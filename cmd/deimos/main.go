package main

import (
	"os"

	"github.com/zeusync/deimos/cmd/deimos/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
