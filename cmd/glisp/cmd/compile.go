package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/glisp-lang/glisp/internal/hostcompile"
	"github.com/glisp-lang/glisp/internal/reader"
	"github.com/glisp-lang/glisp/pkg/engine"
)

var (
	flagOutput     string
	flagEmitSource bool
	flagPackageZip string
	flagReplaceDir string
)

var compileCmd = &cobra.Command{
	Use:   "compile <script.lisp>",
	Short: "Ahead-of-time compile a script to a native binary",
	Long: `compile lowers a script into a standalone Go program (the code
generator, spec.md §4.4) and builds it with the host Go toolchain, producing
a native binary that should behave identically to "glisp run" on the same
script (spec.md §8's generator-correctness property).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		src, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("glisp compile: %w", err)
		}

		e := engine.New(
			engine.WithLibraryDir(libraryDirFor(flagLibraryDir, path)),
			engine.WithMaxRecursionDepth(flagMaxDepth),
			engine.WithOptimizeSpeed(flagSpeed),
		)

		source, err := e.Generate(string(src))
		if err != nil {
			return fmt.Errorf("glisp compile: %w", err)
		}

		if flagEmitSource {
			fmt.Println(source)
			return nil
		}

		replaceDir := flagReplaceDir
		if replaceDir == "" {
			replaceDir = findModuleRoot()
		}
		opts := hostcompile.Options{ReplaceDir: replaceDir}
		if flagOutput == "" {
			base := filepath.Base(path)
			flagOutput = trimExt(base)
		}
		opts.BinaryName = flagOutput

		if flagPackageZip != "" {
			manifest := hostcompile.Manifest{
				Version:             reader.LanguageVersion,
				ImplementationTitle: reader.LanguageName,
				MainEntry:           "main",
				RuntimeClasspath:    "pkg/genruntime",
			}
			res, err := hostcompile.Package(source, flagPackageZip, manifest, opts)
			if err != nil {
				return fmt.Errorf("glisp compile: %w", err)
			}
			fmt.Printf("packaged %s (%d bytes, %s)\n", flagPackageZip, res.Size, res.Duration)
			return nil
		}

		res, err := hostcompile.Build(source, opts)
		if err != nil {
			return fmt.Errorf("glisp compile: %w", err)
		}
		dest, err := filepath.Abs(flagOutput)
		if err != nil {
			res.Cleanup()
			return fmt.Errorf("glisp compile: %w", err)
		}
		if err := copyFile(res.BinaryPath, dest); err != nil {
			res.Cleanup()
			return fmt.Errorf("glisp compile: %w", err)
		}
		if err := res.Cleanup(); err != nil {
			return fmt.Errorf("glisp compile: %w", err)
		}
		fmt.Printf("wrote %s (%d bytes, built in %s)\n", dest, res.Size, res.Duration)
		return nil
	},
}

func init() {
	compileCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output binary path (default: script name without extension)")
	compileCmd.Flags().BoolVar(&flagEmitSource, "emit-source", false, "print the generated Go source instead of building it")
	compileCmd.Flags().StringVar(&flagPackageZip, "package", "", "zip the binary and a manifest to this path instead of writing the binary")
	compileCmd.Flags().StringVar(&flagReplaceDir, "replace-dir", "", "local checkout directory for the glisp module (for pkg/genruntime resolution)")
	rootCmd.AddCommand(compileCmd)
}

// findModuleRoot walks up from the working directory looking for this
// module's own go.mod, so a compiled program can locally `replace` its
// pkg/genruntime dependency without the caller having to know where glisp
// itself is checked out — the common case when "glisp compile" is run from
// inside (or below) the glisp checkout.
func findModuleRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil && strings.Contains(string(data), "module github.com/glisp-lang/glisp\n") {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func trimExt(name string) string {
	ext := filepath.Ext(name)
	return name[:len(name)-len(ext)]
}

func copyFile(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, 0o755)
}
