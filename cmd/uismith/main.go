// Package main is the entry point for the uismith CLI.
//
// Usage:
//
//	uismith [flags] <command> [args]
//
// Commands:
//
//	serve     - Run the generation server (SSE, WebSocket, playground)
//	gen       - Generate an interface once and write it to disk
//	models    - List the configured provider/model routes
//	version   - Show version information
package main

import (
	"fmt"
	"os"

	"github.com/uismith/uismith/cmd/uismith/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
