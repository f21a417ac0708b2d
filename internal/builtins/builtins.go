// Package builtins registers the primitive library (spec.md §4.3) into a
// global environment: the data-oriented primitives that need no access to
// the evaluator itself (lists, arithmetic, predicates, equality, strings,
// characters, I/O, time). The control/meta primitives that call back into
// the evaluator (apply, eval, trace, macroexpand-1) are registered
// separately by the interp package, which alone can see *interp.Interp
// without an import cycle.
package builtins

import (
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// Register installs every primitive in this package into env (normally the
// interpreter's global environment).
func Register(env *runtime.Env) {
	registerListOps(env)
	registerArithmetic(env)
	registerPredicates(env)
	registerEquality(env)
	registerStringsChars(env)
	registerIO(env)
	registerTime(env)
	registerSystemInfo(env)
}

func def(env *runtime.Env, name string, min, max int, fn func([]runtime.Value) (runtime.Value, error)) {
	sym := symtab.Intern(name)
	env.Define(sym, &runtime.Primitive{Name: name, MinArgs: min, MaxArgs: max, Fn: fn})
}
