// Package main provides the entry point for the salat CLI.
package main

import (
	"github.com/msharif/salat-cli-go/internal/cli"
)

func main() {
	cli.Execute()
}
