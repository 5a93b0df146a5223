// Command dfr is a minimal CLI run surface over a compiled dataflow
// program: run-available, run-tick, and run-async, via a cobra root
// command with persistent flags and subcommands under cmd/.
package main

import "github.com/joeycumines/go-dataflow/cmd/dfr/cmd"

func main() {
	cmd.Execute()
}
