package builtins

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/glisp-lang/glisp/internal/runtime"
)

var (
	outputMu sync.Mutex
	output   io.Writer = os.Stdout
)

// SetOutput redirects the destination used by write/writeln/lnwrite,
// returning the previous writer so callers (with-output-to-string in the
// interp package) can restore it.
func SetOutput(w io.Writer) io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	prev := output
	output = w
	return prev
}

func currentOutput() io.Writer {
	outputMu.Lock()
	defer outputMu.Unlock()
	return output
}

func registerIO(env *runtime.Env) {
	def(env, "write", 1, 2, func(a []runtime.Value) (runtime.Value, error) {
		return writeValue(a, false)
	})
	def(env, "writeln", 1, 2, func(a []runtime.Value) (runtime.Value, error) {
		return writeValue(a, true)
	})
	def(env, "lnwrite", 1, 2, func(a []runtime.Value) (runtime.Value, error) {
		fmt.Fprintln(currentOutput())
		return writeValue(a, false)
	})
	def(env, "read", 0, 1, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.Nil, runtime.NewNotImplemented("read from stdin is not supported in this embedding", runtime.Position{})
	})
}

// writeValue implements write/writeln/lnwrite's `(value &optional
// escape-atoms)` signature (spec.md §4.3): escape-atoms defaults to true,
// meaning atoms print in read syntax unless the caller passes nil.
func writeValue(a []runtime.Value, newline bool) (runtime.Value, error) {
	escape := true
	if len(a) == 2 {
		escape = runtime.Truthy(a[1])
	}
	w := currentOutput()
	fmt.Fprint(w, runtime.Print(a[0], escape))
	if newline {
		fmt.Fprintln(w)
	}
	return a[0], nil
}
