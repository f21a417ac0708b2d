package builtins

import "github.com/glisp-lang/glisp/internal/runtime"

func registerEquality(env *runtime.Env) {
	def(env, "eq", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue(runtime.Eq(a[0], a[1])), nil
	})
	def(env, "eql", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue(runtime.Eql(a[0], a[1])), nil
	})
	def(env, "equal", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue(runtime.Equal(a[0], a[1])), nil
	})
}
