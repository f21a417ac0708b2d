package builtins

import (
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

func registerPredicates(env *runtime.Env) {
	def(env, "symbolp", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		if runtime.IsNil(a[0]) {
			return runtime.BoolValue(true), nil
		}
		_, ok := a[0].(*symtab.Symbol)
		return runtime.BoolValue(ok), nil
	})
	def(env, "numberp", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.BoolValue(isNumber(a[0])), nil
	})
	def(env, "integerp", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		_, ok := a[0].(runtime.Long)
		return runtime.BoolValue(ok), nil
	})
	def(env, "floatp", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		_, ok := a[0].(runtime.Double)
		return runtime.BoolValue(ok), nil
	})
	def(env, "stringp", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		_, ok := a[0].(*runtime.String)
		return runtime.BoolValue(ok), nil
	})
	def(env, "characterp", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		_, ok := a[0].(runtime.Character)
		return runtime.BoolValue(ok), nil
	})
}

func isNumber(v runtime.Value) bool {
	switch v.(type) {
	case runtime.Long, runtime.Double:
		return true
	}
	return false
}
