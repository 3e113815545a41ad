package main

import (
	"os"

	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
