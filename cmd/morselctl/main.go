package main

import (
	"os"

	"morsel-dashboard/internal/cli"
)

var version = "dev"

func main() {
	cli.Version = version
	if err := cli.Execute(os.Stdout, os.Stderr); err != nil {
		os.Exit(1)
	}
}
