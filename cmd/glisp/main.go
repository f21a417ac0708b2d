// Command glisp is the command-line front end: run scripts with the
// tree-walking evaluator, or ahead-of-time compile them to a native binary
// via the code generator and host Go toolchain (spec.md §6).
package main

import (
	"os"

	"github.com/glisp-lang/glisp/cmd/glisp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
