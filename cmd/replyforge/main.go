// Package main is the entry point for the replyforge CLI.
package main

import (
	"os"

	"github.com/replyforge/replyforge/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
