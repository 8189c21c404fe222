// ./main.go
package main

import (
	"github.com/instaflow-labs/instaflow-cli/cmd"
)

// main is the entry point for the InstaFlow CLI. All argument parsing,
// configuration loading, and dispatch happens in the cmd package.
func main() {
	cmd.Execute()
}
