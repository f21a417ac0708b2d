package codegen

import (
	"io"
	"os"
	"path/filepath"

	"github.com/glisp-lang/glisp/internal/reader"
	"github.com/glisp-lang/glisp/internal/runtime"
)

// loadLispForms reads and parses every top-level form of the file at path
// (resolved against loadDir when relative), mirroring interp.loadFile's path
// resolution but returning unevaluated forms for the generator to inline.
func loadLispForms(path, loadDir string) ([]runtime.Value, error) {
	full := path
	if !filepath.IsAbs(path) && loadDir != "" {
		full = filepath.Join(loadDir, path)
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, runtime.NewIOError("cannot open "+full+": "+err.Error(), runtime.Position{})
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, runtime.NewIOError("cannot read "+full+": "+err.Error(), runtime.Position{})
	}
	text, err := reader.DecodeSource(data)
	if err != nil {
		return nil, runtime.NewIOError("cannot decode "+full+": "+err.Error(), runtime.Position{})
	}

	r := reader.New(text, full)
	forms, err := r.ReadAll()
	if err != nil {
		return nil, runtime.NewIOError(err.Error(), runtime.Position{})
	}
	return forms, nil
}
