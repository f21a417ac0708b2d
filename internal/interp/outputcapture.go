package interp

import (
	"strings"

	"github.com/glisp-lang/glisp/internal/builtins"
	"github.com/glisp-lang/glisp/internal/runtime"
)

// evalWithOutputToString evaluates body with write/writeln/lnwrite
// redirected into a string buffer, returning the captured text (spec.md §5
// supplemented feature, grounded on the teacher's in-memory output sink used
// for embedding/testing).
func (ip *Interp) evalWithOutputToString(body runtime.Value, env *runtime.Env) (runtime.Value, error) {
	var buf strings.Builder
	prev := builtins.SetOutput(&buf)
	defer builtins.SetOutput(prev)

	items, ok := runtime.ToSlice(body)
	if !ok {
		return nil, runtime.NewMalformedForm("improper with-output-to-string body", runtime.Position{})
	}
	for _, f := range items {
		if _, err := ip.Eval(f, env); err != nil {
			return nil, err
		}
	}
	return runtime.NewString(buf.String()), nil
}
