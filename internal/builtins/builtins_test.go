package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// newTestEnv returns a fresh global environment with every primitive in this
// package registered, independent of internal/interp (this package must
// register primitives without depending on the evaluator, per its own
// doc comment).
func newTestEnv(t *testing.T) *runtime.Env {
	t.Helper()
	env := runtime.NewEnv()
	Register(env)
	return env
}

// call looks up name as a primitive in env and invokes it with args, first
// checking its documented arity the way the evaluator's Apply does, so a
// deliberately wrong-arity call surfaces as an ArityError rather than a
// panic from Fn indexing past the end of args.
func call(t *testing.T, env *runtime.Env, name string, args ...runtime.Value) (runtime.Value, error) {
	t.Helper()
	v, ok := env.Get(symtab.Intern(name))
	if !ok {
		t.Fatalf("primitive %q not registered", name)
	}
	prim, ok := v.(*runtime.Primitive)
	if !ok {
		t.Fatalf("%q is not a primitive: %T", name, v)
	}
	if err := prim.CheckArity(len(args)); err != nil {
		return nil, err
	}
	return prim.Fn(args)
}

func num(n float64) runtime.Value { return runtime.Double(n) }
func long(n int64) runtime.Value  { return runtime.Long(n) }
