// Package main provides the entry point for the tg-tldr CLI.
package main

import (
	"os"

	"github.com/Shadow-sword/tg-tldr/cmd/tg-tldr/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
