package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/pkg/engine"
)

var runCmd = &cobra.Command{
	Use:   "run <script.lisp> [args...]",
	Short: "Interpret a script with the tree-walking evaluator",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		scriptArgs := args[1:]

		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("glisp run: %w", err)
		}

		e := engine.New(
			engine.WithLibraryDir(libraryDirFor(flagLibraryDir, path)),
			engine.WithMaxRecursionDepth(flagMaxDepth),
			engine.WithOptimizeSpeed(flagSpeed),
		)
		e.SetCommandLineArgs(scriptArgs)

		v, err := e.Interpret(string(src))
		if err != nil {
			return fmt.Errorf("glisp run: %w", err)
		}
		if !runtime.IsNil(v) {
			fmt.Println(runtime.Print(v, false))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// libraryDirFor defaults load/require's search directory to the script's own
// directory when --library-dir was not given, the same sibling-directory
// convention spec.md §6 describes.
func libraryDirFor(explicit, scriptPath string) string {
	if explicit != "" {
		return explicit
	}
	return dirOf(scriptPath)
}
