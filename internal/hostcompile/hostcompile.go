// Package hostcompile is the thin adapter spec.md §4.4 calls the "host
// compiler glue": it writes code-generator output to a temporary module
// directory and shells out to the Go toolchain — this repository's host
// compiler — to build or run it. Grounded on the teacher's
// cmd/dwscript/cmd/compile.go (reads a script, produces an on-disk
// artifact, reports size/timing) and cmd/dwscript-wasm/main.go (in-process
// compile-and-run glue), retargeted from DWScript's own bytecode format to
// an actual `go build` invocation, since this generator's "host language" is
// Go itself (SPEC_FULL.md §4.5).
package hostcompile

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

// Result reports what a Build produced (spec.md §5: "the code generator's
// temporary class directory must be scheduled for deletion at process
// exit" — callers are expected to defer Cleanup).
type Result struct {
	// Dir is the temporary module directory the source was written to.
	Dir string
	// BinaryPath is the compiled executable's path after a successful Build.
	BinaryPath string
	// Size is BinaryPath's size in bytes.
	Size int64
	// Duration is how long the `go build` invocation took.
	Duration time.Duration
}

// Cleanup removes the temporary module directory. Callers should defer it
// immediately after a successful Build call (spec.md §5's process-exit
// deletion contract); Run and Package remove the directory themselves
// before returning.
func (r *Result) Cleanup() error {
	if r.Dir == "" {
		return nil
	}
	return os.RemoveAll(r.Dir)
}

// Options configures how generated source is built.
type Options struct {
	// ModulePath is the module path declared in the temporary module's
	// go.mod. It must be distinct from the running program's own module so
	// `go build` does not confuse the two.
	ModulePath string
	// RequireModule/RequireVersion/ReplaceDir pin the generated module's
	// dependency on this repository's pkg/genruntime seam to a local
	// checkout via a `replace` directive, since the generated program has
	// no other way to reach an unpublished module.
	RequireModule  string
	RequireVersion string
	ReplaceDir     string
	// GoVersion is the `go` directive line in the generated go.mod.
	GoVersion string
	// BinaryName is the compiled executable's base name (no extension).
	BinaryName string
}

func (o Options) withDefaults() Options {
	if o.ModulePath == "" {
		o.ModulePath = "glisp-generated/program"
	}
	if o.RequireModule == "" {
		o.RequireModule = "github.com/glisp-lang/glisp"
	}
	if o.RequireVersion == "" {
		o.RequireVersion = "v0.0.0"
	}
	if o.GoVersion == "" {
		o.GoVersion = "1.24"
	}
	if o.BinaryName == "" {
		o.BinaryName = "glisp-program"
	}
	return o
}

// Build writes source (the output of internal/codegen.Generate) into a
// fresh temporary module directory, wires a go.mod that replaces the
// genruntime dependency with a local checkout, and invokes `go build`.
func Build(source string, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	dir, err := os.MkdirTemp("", "glisp-build-*")
	if err != nil {
		return nil, fmt.Errorf("hostcompile: cannot create temp dir: %w", err)
	}
	res := &Result{Dir: dir}

	if err := os.WriteFile(filepath.Join(dir, "main.go"), []byte(source), 0o644); err != nil {
		res.Cleanup()
		return nil, fmt.Errorf("hostcompile: cannot write generated source: %w", err)
	}

	goMod := fmt.Sprintf("module %s\n\ngo %s\n\nrequire %s %s\n",
		opts.ModulePath, opts.GoVersion, opts.RequireModule, opts.RequireVersion)
	if opts.ReplaceDir != "" {
		goMod += fmt.Sprintf("\nreplace %s => %s\n", opts.RequireModule, opts.ReplaceDir)
	}
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte(goMod), 0o644); err != nil {
		res.Cleanup()
		return nil, fmt.Errorf("hostcompile: cannot write go.mod: %w", err)
	}

	binPath := filepath.Join(dir, opts.BinaryName)
	start := time.Now()
	cmd := exec.Command("go", "build", "-o", binPath, ".")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	res.Duration = time.Since(start)
	if err != nil {
		res.Cleanup()
		return nil, fmt.Errorf("hostcompile: go build failed: %w\n%s", err, out)
	}

	info, err := os.Stat(binPath)
	if err != nil {
		res.Cleanup()
		return nil, fmt.Errorf("hostcompile: compiled binary missing: %w", err)
	}
	res.BinaryPath = binPath
	res.Size = info.Size()
	return res, nil
}

// Run builds source and executes the resulting binary, returning its
// standard output. It is the `go run`-equivalent path for the embedder's
// Run (pkg/engine, SPEC_FULL.md §4.7).
func Run(source string, args []string, opts Options) (stdout string, err error) {
	res, err := Build(source, opts)
	if err != nil {
		return "", err
	}
	defer res.Cleanup()

	cmd := exec.Command(res.BinaryPath, args...)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("hostcompile: generated program exited with error: %w", err)
	}
	return string(out), nil
}

// Manifest is the metadata packaged alongside a compiled artifact (spec.md
// §6: "a manifest whose attributes are: version string, implementation
// title, main-class entry, and a classpath reference to the runtime library
// archive").
type Manifest struct {
	Version             string
	ImplementationTitle string
	MainEntry           string
	RuntimeClasspath    string
}

// Package builds source and zips the resulting binary plus a MANIFEST.txt
// into archivePath (spec.md §4.4: "optionally package the directory into an
// archive with a manifest naming the main class").
func Package(source string, archivePath string, manifest Manifest, opts Options) (*Result, error) {
	res, err := Build(source, opts)
	if err != nil {
		return nil, err
	}
	defer res.Cleanup()

	f, err := os.Create(archivePath)
	if err != nil {
		return nil, fmt.Errorf("hostcompile: cannot create archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	if err := addFileToZip(zw, res.BinaryPath, filepath.Base(res.BinaryPath)); err != nil {
		zw.Close()
		return nil, err
	}
	manifestText := fmt.Sprintf(
		"Version: %s\nImplementation-Title: %s\nMain-Entry: %s\nRuntime-Classpath: %s\n",
		manifest.Version, manifest.ImplementationTitle, manifest.MainEntry, manifest.RuntimeClasspath,
	)
	w, err := zw.Create("MANIFEST.txt")
	if err != nil {
		zw.Close()
		return nil, fmt.Errorf("hostcompile: cannot write manifest: %w", err)
	}
	if _, err := io.WriteString(w, manifestText); err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("hostcompile: cannot finalize archive: %w", err)
	}

	return res, nil
}

func addFileToZip(zw *zip.Writer, path, name string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("hostcompile: cannot open %s: %w", path, err)
	}
	defer f.Close()
	w, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("hostcompile: cannot add %s to archive: %w", name, err)
	}
	_, err = io.Copy(w, f)
	return err
}
