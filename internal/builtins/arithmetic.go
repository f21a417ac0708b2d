package builtins

import (
	"math"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func toFloat(v runtime.Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.Long:
		return float64(n), true
	case runtime.Double:
		return float64(n), true
	}
	return 0, false
}

func isDouble(v runtime.Value) bool {
	_, ok := v.(runtime.Double)
	return ok
}

func numericResult(result float64, anyDouble bool) (runtime.Value, error) {
	if math.IsNaN(result) || math.IsInf(result, 0) {
		if anyDouble {
			return nil, runtime.NewArithmeticError("arithmetic result is NaN or infinite", runtime.Position{})
		}
	}
	if anyDouble {
		return runtime.Double(result), nil
	}
	if result != math.Trunc(result) {
		return nil, runtime.NewArithmeticError("integer arithmetic overflow or non-integral result", runtime.Position{})
	}
	return runtime.Long(int64(result)), nil
}

// fold left-folds op over args and always returns a Double, regardless of
// operand type (spec.md's Scenario 1: `(+ 1 2 3 (* 4 5 6))` => `126.0` from
// all-Long operands). `+`, `*`, and binary `-` use this; `/` folds in its own
// loop with a zero-divisor check but likewise always returns a Double, as
// does unary `-`. `1+`/`1-` must not,
// since they preserve their operand's type (Scenario 5's `stak` benchmark
// needs `1-` to stay integral) — they use foldPreserveType instead.
func fold(args []runtime.Value, identity float64, op func(a, b float64) float64) (runtime.Value, error) {
	acc := identity
	for _, a := range args {
		f, ok := toFloat(a)
		if !ok {
			return nil, runtime.NewTypeError("arithmetic requires numbers", runtime.Position{})
		}
		acc = op(acc, f)
	}
	if math.IsNaN(acc) || math.IsInf(acc, 0) {
		return nil, runtime.NewArithmeticError("arithmetic result is NaN or infinite", runtime.Position{})
	}
	return runtime.Double(acc), nil
}

// foldPreserveType is fold's integer-contagion sibling: the result widens to
// Double only if some operand already was one, otherwise it stays Long.
func foldPreserveType(args []runtime.Value, identity float64, op func(a, b float64) float64) (runtime.Value, error) {
	acc := identity
	anyDouble := false
	for _, a := range args {
		f, ok := toFloat(a)
		if !ok {
			return nil, runtime.NewTypeError("arithmetic requires numbers", runtime.Position{})
		}
		anyDouble = anyDouble || isDouble(a)
		acc = op(acc, f)
	}
	return numericResult(acc, anyDouble)
}

func registerArithmetic(env *runtime.Env) {
	def(env, "+", 0, -1, func(a []runtime.Value) (runtime.Value, error) {
		return fold(a, 0, func(x, y float64) float64 { return x + y })
	})
	def(env, "*", 0, -1, func(a []runtime.Value) (runtime.Value, error) {
		return fold(a, 1, func(x, y float64) float64 { return x * y })
	})
	def(env, "-", 1, -1, func(a []runtime.Value) (runtime.Value, error) {
		if len(a) == 1 {
			f, ok := toFloat(a[0])
			if !ok {
				return nil, runtime.NewTypeError("- requires a number", runtime.Position{})
			}
			return runtime.Double(-f), nil
		}
		return fold(a[1:], mustFloat(a[0]), func(x, y float64) float64 { return x - y })
	})
	def(env, "/", 1, -1, func(a []runtime.Value) (runtime.Value, error) {
		if len(a) == 1 {
			f, ok := toFloat(a[0])
			if !ok {
				return nil, runtime.NewTypeError("/ requires a number", runtime.Position{})
			}
			if f == 0 {
				return nil, runtime.NewArithmeticError("division by zero", runtime.Position{})
			}
			return runtime.Double(1 / f), nil
		}
		acc := mustFloat(a[0])
		for _, x := range a[1:] {
			f, ok := toFloat(x)
			if !ok {
				return nil, runtime.NewTypeError("/ requires numbers", runtime.Position{})
			}
			if f == 0 {
				return nil, runtime.NewArithmeticError("division by zero", runtime.Position{})
			}
			acc /= f
		}
		if math.IsNaN(acc) || math.IsInf(acc, 0) {
			return nil, runtime.NewArithmeticError("arithmetic result is NaN or infinite", runtime.Position{})
		}
		return runtime.Double(acc), nil
	})

	def(env, "=", 1, -1, chain(func(a, b float64) bool { return a == b }))
	def(env, "<", 1, -1, chain(func(a, b float64) bool { return a < b }))
	def(env, "<=", 1, -1, chain(func(a, b float64) bool { return a <= b }))
	def(env, ">", 1, -1, chain(func(a, b float64) bool { return a > b }))
	def(env, ">=", 1, -1, chain(func(a, b float64) bool { return a >= b }))
	def(env, "/=", 1, -1, func(a []runtime.Value) (runtime.Value, error) {
		vals := make([]float64, len(a))
		for i, x := range a {
			f, ok := toFloat(x)
			if !ok {
				return nil, runtime.NewTypeError("/= requires numbers", runtime.Position{})
			}
			vals[i] = f
		}
		for i := 0; i < len(vals); i++ {
			for j := i + 1; j < len(vals); j++ {
				if vals[i] == vals[j] {
					return runtime.Nil, nil
				}
			}
		}
		return runtime.BoolValue(true), nil
	})

	def(env, "1+", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return foldPreserveType(a, 1, func(x, y float64) float64 { return x + y }) })
	def(env, "1-", 1, 1, func(a []runtime.Value) (runtime.Value, error) { return foldPreserveType(a, -1, func(x, y float64) float64 { return x + y }) })

	def(env, "mod", 2, 2, func(a []runtime.Value) (runtime.Value, error) { return modOp(a[0], a[1]) })
	def(env, "rem", 2, 2, func(a []runtime.Value) (runtime.Value, error) { return remOp(a[0], a[1]) })

	def(env, "signum", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		f, ok := toFloat(a[0])
		if !ok {
			return nil, runtime.NewTypeError("signum requires a number", runtime.Position{})
		}
		sign := 0.0
		if f > 0 {
			sign = 1
		} else if f < 0 {
			sign = -1
		}
		if isDouble(a[0]) {
			return runtime.Double(sign), nil
		}
		return runtime.Long(int64(sign)), nil
	})

	def(env, "sqrt", 1, 1, math1(math.Sqrt))
	def(env, "log", 1, 1, math1(math.Log))
	def(env, "log10", 1, 1, math1(math.Log10))
	def(env, "exp", 1, 1, math1(math.Exp))
	def(env, "expt", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		base, ok1 := toFloat(a[0])
		exp, ok2 := toFloat(a[1])
		if !ok1 || !ok2 {
			return nil, runtime.NewTypeError("expt requires numbers", runtime.Position{})
		}
		result := math.Pow(base, exp)
		if !isDouble(a[0]) && !isDouble(a[1]) && exp >= 0 {
			return numericResult(result, false)
		}
		return runtime.Double(result), nil
	})

	def(env, "round", 1, 2, roundingOp(math.Round, false))
	def(env, "floor", 1, 2, roundingOp(math.Floor, false))
	def(env, "ceiling", 1, 2, roundingOp(math.Ceil, false))
	def(env, "truncate", 1, 2, roundingOp(math.Trunc, false))
	def(env, "fround", 1, 2, roundingOp(math.Round, true))
	def(env, "ffloor", 1, 2, roundingOp(math.Floor, true))
	def(env, "fceiling", 1, 2, roundingOp(math.Ceil, true))
	def(env, "ftruncate", 1, 2, roundingOp(math.Trunc, true))
}

func mustFloat(v runtime.Value) float64 {
	f, _ := toFloat(v)
	return f
}

func math1(f func(float64) float64) func([]runtime.Value) (runtime.Value, error) {
	return func(a []runtime.Value) (runtime.Value, error) {
		x, ok := toFloat(a[0])
		if !ok {
			return nil, runtime.NewTypeError("requires a number", runtime.Position{})
		}
		return runtime.Double(f(x)), nil
	}
}

func chain(cmp func(a, b float64) bool) func([]runtime.Value) (runtime.Value, error) {
	return func(a []runtime.Value) (runtime.Value, error) {
		prev, ok := toFloat(a[0])
		if !ok {
			return nil, runtime.NewTypeError("comparison requires numbers", runtime.Position{})
		}
		for _, x := range a[1:] {
			cur, ok := toFloat(x)
			if !ok {
				return nil, runtime.NewTypeError("comparison requires numbers", runtime.Position{})
			}
			if !cmp(prev, cur) {
				return runtime.Nil, nil
			}
			prev = cur
		}
		return runtime.BoolValue(true), nil
	}
}

func modOp(a, b runtime.Value) (runtime.Value, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, runtime.NewTypeError("mod requires numbers", runtime.Position{})
	}
	if bf == 0 {
		return nil, runtime.NewArithmeticError("mod by zero", runtime.Position{})
	}
	result := af - math.Floor(af/bf)*bf
	return numericResult(result, isDouble(a) || isDouble(b))
}

func remOp(a, b runtime.Value) (runtime.Value, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, runtime.NewTypeError("rem requires numbers", runtime.Position{})
	}
	if bf == 0 {
		return nil, runtime.NewArithmeticError("rem by zero", runtime.Position{})
	}
	return numericResult(math.Mod(af, bf), isDouble(a) || isDouble(b))
}

// roundingOp implements round/floor/ceiling/truncate (asDouble=false,
// returning an integer) and fround/ffloor/fceiling/ftruncate (asDouble=true),
// each accepting either a single value or a two-arg dividing form x/y.
func roundingOp(f func(float64) float64, asDouble bool) func([]runtime.Value) (runtime.Value, error) {
	return func(a []runtime.Value) (runtime.Value, error) {
		x, ok := toFloat(a[0])
		if !ok {
			return nil, runtime.NewTypeError("requires a number", runtime.Position{})
		}
		if len(a) == 2 {
			y, ok := toFloat(a[1])
			if !ok {
				return nil, runtime.NewTypeError("requires a number", runtime.Position{})
			}
			if y == 0 {
				return nil, runtime.NewArithmeticError("division by zero", runtime.Position{})
			}
			x = x / y
		}
		result := f(x)
		if asDouble {
			return runtime.Double(result), nil
		}
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return nil, runtime.NewArithmeticError("rounding result is NaN or infinite", runtime.Position{})
		}
		return runtime.Long(int64(result)), nil
	}
}
