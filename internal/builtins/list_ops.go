package builtins

import "github.com/glisp-lang/glisp/internal/runtime"

func registerListOps(env *runtime.Env) {
	def(env, "car", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.Car(a[0]), nil })
	def(env, "cdr", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.Cdr(a[0]), nil })
	def(env, "cons", 2, 2, func(a []runtime.Value) (runtime.Value, error) { return runtime.NewCons(a[0], a[1]), nil })

	def(env, "rplaca", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		c, ok := a[0].(*runtime.Cons)
		if !ok {
			return nil, runtime.NewTypeError("rplaca requires a cons", runtime.Position{})
		}
		c.Car = a[1]
		return c, nil
	})
	def(env, "rplacd", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		c, ok := a[0].(*runtime.Cons)
		if !ok {
			return nil, runtime.NewTypeError("rplacd requires a cons", runtime.Position{})
		}
		c.Cdr = a[1]
		return c, nil
	})

	def(env, "list", 0, -1, func(a []runtime.Value) (runtime.Value, error) { return runtime.FromSlice(a), nil })
	def(env, "list*", 1, -1, func(a []runtime.Value) (runtime.Value, error) {
		return runtime.FromSliceDotted(a[:len(a)-1], a[len(a)-1]), nil
	})

	def(env, "append", 0, -1, func(a []runtime.Value) (runtime.Value, error) {
		if len(a) == 0 {
			return runtime.Nil, nil
		}
		var result runtime.Value = a[len(a)-1]
		for i := len(a) - 2; i >= 0; i-- {
			items, ok := runtime.ToSlice(a[i])
			if !ok {
				return nil, runtime.NewTypeError("append requires proper lists for all but the last argument", runtime.Position{})
			}
			result = runtime.FromSliceDotted(items, result)
		}
		return result, nil
	})

	def(env, "assoc", 2, 2, func(a []runtime.Value) (runtime.Value, error) { return assocWith(a[0], a[1], runtime.Equal) })
	def(env, "assq", 2, 2, func(a []runtime.Value) (runtime.Value, error) { return assocWith(a[0], a[1], runtime.Eq) })

	def(env, "null", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.IsNil(a[0])), nil })
	def(env, "not", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.IsNil(a[0])), nil })
	def(env, "consp", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.ConsP(a[0])), nil })
	def(env, "listp", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.ListP(a[0])), nil })
	def(env, "atom", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return runtime.BoolValue(!runtime.ConsP(a[0])), nil })
}

func assocWith(key, alist runtime.Value, match func(a, b runtime.Value) bool) (runtime.Value, error) {
	items, ok := runtime.ToSlice(alist)
	if !ok {
		return nil, runtime.NewTypeError("assoc/assq requires a proper list", runtime.Position{})
	}
	for _, item := range items {
		pair, ok := item.(*runtime.Cons)
		if !ok {
			continue
		}
		if match(pair.Car, key) {
			return pair, nil
		}
	}
	return runtime.Nil, nil
}
