// Command alchemy is the command-line front end of the prompt analyzer and
// optimizer. It also serves the same operations over MCP for editor agents.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
