package genruntime

import (
	"math"

	"github.com/glisp-lang/glisp/internal/runtime"
)

// Car and Cdr expose the pair accessors for the code generator's open-coded
// `car`/`cdr` call sites (spec.md §4.4: "recognized primitive operators are
// emitted as inline expressions... the fallback is a call through the
// runtime registry").
func Car(v Value) Value { return runtime.Car(v) }
func Cdr(v Value) Value { return runtime.Cdr(v) }

func toFloat(v Value) (float64, bool) {
	switch n := v.(type) {
	case runtime.Long:
		return float64(n), true
	case runtime.Double:
		return float64(n), true
	default:
		return 0, false
	}
}

func isDouble(v Value) bool {
	_, ok := v.(runtime.Double)
	return ok
}

// NumAdd implements the open-coded `1+`/`1-` lowering: adds delta (1 or -1)
// to v, widening to Double only if v already is one.
func NumAdd(v Value, delta float64) (Value, error) {
	f, ok := toFloat(v)
	if !ok {
		return nil, runtime.NewTypeError("1+/1- require a number", runtime.Position{})
	}
	result := f + delta
	if isDouble(v) {
		return runtime.Double(result), nil
	}
	return runtime.Long(int64(result)), nil
}

// NumFold implements the open-coded `+`/`-`/`*`/`/` lowering: left-folds op
// over args and always widens to Double, regardless of operand type
// (spec.md's Scenario 1: `(+ 1 2 3 (* 4 5 6))` => `126.0` from all-Long
// operands). 1+/1- do not go through NumFold — they use NumAdd instead,
// which preserves the operand's type. Mirrors
// internal/interp/opencode.go's arithFold/arith2 and
// internal/builtins/arithmetic.go's fold, which this generator code must
// agree with for spec.md §8's generator-correctness property.
func NumFold(op string, args []Value) (Value, error) {
	var identity float64
	var fn func(a, b float64) float64
	switch op {
	case "+":
		identity, fn = 0, func(a, b float64) float64 { return a + b }
	case "*":
		identity, fn = 1, func(a, b float64) float64 { return a * b }
	case "-":
		identity, fn = 0, func(a, b float64) float64 { return a - b }
	case "/":
		identity, fn = 1, func(a, b float64) float64 { return a / b }
	default:
		return nil, runtime.NewInternal("unknown open-coded arithmetic operator " + op)
	}
	if len(args) == 0 {
		return runtime.Double(identity), nil
	}
	acc := args[0]
	if op == "-" && len(args) == 1 {
		f, ok := toFloat(acc)
		if !ok {
			return nil, runtime.NewTypeError(op+" requires numbers", runtime.Position{})
		}
		return finishArith(-f)
	}
	if op == "/" && len(args) == 1 {
		f, ok := toFloat(acc)
		if !ok {
			return nil, runtime.NewTypeError(op+" requires numbers", runtime.Position{})
		}
		return finishArith(1 / f)
	}
	accF, ok := toFloat(acc)
	if !ok {
		return nil, runtime.NewTypeError(op+" requires numbers", runtime.Position{})
	}
	for _, a := range args[1:] {
		af, ok := toFloat(a)
		if !ok {
			return nil, runtime.NewTypeError(op+" requires numbers", runtime.Position{})
		}
		accF = fn(accF, af)
	}
	return finishArith(accF)
}

func finishArith(f float64) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, runtime.NewArithmeticError("arithmetic result is NaN or infinite", runtime.Position{})
	}
	return runtime.Double(f), nil
}
