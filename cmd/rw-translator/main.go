// Package main is the entry point for the rw-translator CLI.
package main

import (
	"os"

	"rw-translator/internal/cli"
)

// Set via -ldflags at build time.
var version = "dev"

func main() {
	os.Exit(cli.Execute(version))
}
