package interp

import (
	"io"
	"os"
	"path/filepath"

	"github.com/glisp-lang/glisp/internal/reader"
	"github.com/glisp-lang/glisp/internal/runtime"
)

// loadFile opens path (resolved against LoadDir when relative), reads every
// form, and evaluates them in sequence, returning the last value. The file
// handle is closed on every exit path, success or failure.
func (ip *Interp) loadFile(path string, env *runtime.Env) (result runtime.Value, err error) {
	full := path
	if !filepath.IsAbs(path) && ip.LoadDir != "" {
		full = filepath.Join(ip.LoadDir, path)
	}

	f, openErr := os.Open(full)
	if openErr != nil {
		return nil, runtime.NewIOError("cannot open "+full+": "+openErr.Error(), runtime.Position{})
	}
	defer f.Close()

	data, readErr := io.ReadAll(f)
	if readErr != nil {
		return nil, runtime.NewIOError("cannot read "+full+": "+readErr.Error(), runtime.Position{})
	}
	text, decErr := reader.DecodeSource(data)
	if decErr != nil {
		return nil, runtime.NewIOError("cannot decode "+full+": "+decErr.Error(), runtime.Position{})
	}

	r := reader.New(text, full)
	var last runtime.Value = runtime.Nil
	for {
		form, rerr := r.Read()
		if rerr != nil {
			return nil, runtime.NewIOError(rerr.Error(), runtime.Position{})
		}
		if form == nil && r.AtEOF() {
			break
		}
		v, eerr := ip.Eval(form, env)
		if eerr != nil {
			return nil, eerr
		}
		last = v
	}
	return last, nil
}
