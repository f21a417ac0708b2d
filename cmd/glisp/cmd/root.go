// Package cmd holds the glisp CLI's cobra commands, grounded on the
// teacher's cmd/dwscript/cmd package layout: a root command carrying shared
// persistent flags, with run and compile as subcommands.
package cmd

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	flagLibraryDir string
	flagMaxDepth   int
	flagSpeed      int
	flagVerbose    bool

	log = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "glisp",
	Short: "glisp interprets and compiles the glisp Lisp dialect",
	Long: `glisp is an interpreter and ahead-of-time compiler for a small,
case-insensitive Lisp dialect. Run a script directly with "glisp run", or
produce a standalone native binary with "glisp compile".`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			log.SetLevel(logrus.DebugLevel)
		}
	},
}

// Execute runs the root command, returning any error it produced so main
// can set the process exit status.
func Execute() error {
	return rootCmd.Execute()
}

// dirOf returns path's containing directory, or "." if path has none.
func dirOf(path string) string {
	dir := filepath.Dir(path)
	if dir == "" {
		return "."
	}
	return dir
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLibraryDir, "library-dir", "", "base directory load/require resolve relative paths against")
	rootCmd.PersistentFlags().IntVar(&flagMaxDepth, "max-depth", 10000, "recursion guard depth (0 disables it)")
	rootCmd.PersistentFlags().IntVar(&flagSpeed, "speed", 1, "initial (optimize (speed N)) level")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}
