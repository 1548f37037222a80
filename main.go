// ABOUTME: Entry point for the reicrm gateway, MCP server and CLI
// ABOUTME: Hands off to the cobra command tree
package main

import (
	"os"

	"github.com/harperreed/reicrm/cli"
)

func main() {
	os.Exit(cli.Execute())
}
