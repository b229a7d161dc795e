// Package main provides the entry point for the wbkit CLI tool.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/kulturarv/wikibasekit/internal/cmd"
)

// version is populated by the build.
var version = "dev"

func main() {
	// Load .env if present; environment variables already set win.
	_ = godotenv.Load()

	if err := cmd.Execute(version); err != nil {
		os.Exit(1)
	}
}
