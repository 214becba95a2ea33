// The main package for the chi-events executable.
package main

import "github.com/ekulkisnek/chi-events-pro/cmd"

// main defers all execution to the Cobra CLI.
func main() {
	cmd.Execute()
}
