package interp

import (
	"errors"
	"math"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

var errNotNumeric = errors.New("not a number")

// openCodeSet maps the operator symbols the fast path recognizes to their
// handler. It is populated at init so the dispatch itself is a single map
// lookup rather than a long symbol-identity switch (spec.md §4.2:
// "open-coding: recognize a fixed set of operator symbols ... and produce
// the result directly on already-evaluated arguments").
var openCodeSet map[*symtab.Symbol]func([]runtime.Value) (runtime.Value, error)

func init() {
	openCodeSet = map[*symtab.Symbol]func([]runtime.Value) (runtime.Value, error){
		symtab.Intern("+"):    ocAdd,
		symtab.Intern("-"):    ocSub,
		symtab.Intern("*"):    ocMul,
		symtab.Intern("/"):    ocDiv,
		symtab.Intern("="):    ocChain(func(a, b float64) bool { return a == b }),
		symtab.Intern("/="):   ocNotEqual,
		symtab.Intern("<"):    ocChain(func(a, b float64) bool { return a < b }),
		symtab.Intern("<="):   ocChain(func(a, b float64) bool { return a <= b }),
		symtab.Intern(">"):    ocChain(func(a, b float64) bool { return a > b }),
		symtab.Intern(">="):   ocChain(func(a, b float64) bool { return a >= b }),
		symtab.Intern("car"):  oc1(func(a runtime.Value) (runtime.Value, error) { return runtime.Car(a), nil }),
		symtab.Intern("cdr"):  oc1(func(a runtime.Value) (runtime.Value, error) { return runtime.Cdr(a), nil }),
		symtab.Intern("cons"): oc2(func(a, b runtime.Value) (runtime.Value, error) { return runtime.NewCons(a, b), nil }),
		symtab.Intern("eq"):   oc2(func(a, b runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.Eq(a, b)), nil }),
		symtab.Intern("eql"):  oc2(func(a, b runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.Eql(a, b)), nil }),
		symtab.Intern("null"): oc1(func(a runtime.Value) (runtime.Value, error) { return runtime.BoolValue(runtime.IsNil(a)), nil }),
		symtab.Intern("1+"):   oc1(ocIncr(1)),
		symtab.Intern("1-"):   oc1(ocIncr(-1)),
		symtab.Intern("append"): ocAppend,
		symtab.Intern("list"):   ocList,
		symtab.Intern("list*"):  ocListStar,
		symtab.Intern("mod"):    oc2(ocMod),
		symtab.Intern("rem"):    oc2(ocRem),
	}
}

// openCode attempts the fast path for headSym applied to already-evaluated
// args. ok is false when headSym is not a recognized operator at all (the
// evaluator should fall through to ordinary application, which still
// resolves the symbol through the environment so user redefinitions win).
func openCode(headSym *symtab.Symbol, args []runtime.Value) (runtime.Value, bool) {
	fn, ok := openCodeSet[headSym]
	if !ok {
		return nil, false
	}
	v, err := fn(args)
	if err != nil {
		return nil, false
	}
	if v == notHandled {
		return nil, false
	}
	return v, true
}

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

func oc1(f func(runtime.Value) (runtime.Value, error)) func([]runtime.Value) (runtime.Value, error) {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 1 {
			return notHandled, nil
		}
		return f(args[0])
	}
}

func oc2(f func(a, b runtime.Value) (runtime.Value, error)) func([]runtime.Value) (runtime.Value, error) {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) != 2 {
			return notHandled, nil
		}
		return f(args[0], args[1])
	}
}

func ocIncr(delta int64) func(runtime.Value) (runtime.Value, error) {
	return func(a runtime.Value) (runtime.Value, error) {
		switch n := a.(type) {
		case runtime.Long:
			return runtime.Long(int64(n) + delta), nil
		case runtime.Double:
			return runtime.Double(float64(n) + float64(delta)), nil
		}
		return nil, errNotNumeric
	}
}

func ocAdd(args []runtime.Value) (runtime.Value, error) { return arithFold(args, 0, func(a, b float64) float64 { return a + b }) }
func ocMul(args []runtime.Value) (runtime.Value, error) { return arithFold(args, 1, func(a, b float64) float64 { return a * b }) }

func ocSub(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return notHandled, nil
	}
	if len(args) == 1 {
		return negate(args[0])
	}
	acc := args[0]
	for _, a := range args[1:] {
		r, err := arith2(acc, a, func(x, y float64) float64 { return x - y })
		if err != nil {
			return nil, err
		}
		acc = r
	}
	return acc, nil
}

func ocDiv(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return notHandled, nil
	}
	if len(args) == 1 {
		f, ok := toFloat(args[0])
		if !ok {
			return nil, errNotNumeric
		}
		if f == 0 {
			return nil, runtime.NewArithmeticError("division by zero", runtime.Position{})
		}
		return runtime.Double(1 / f), nil
	}
	acc := args[0]
	for _, a := range args[1:] {
		af, ok := toFloat(a)
		if ok && af == 0 {
			if _, aIsLong := acc.(runtime.Long); aIsLong {
				if aInt, aIsLong2 := a.(runtime.Long); aIsLong2 && aInt == 0 {
					return nil, runtime.NewArithmeticError("division by zero", runtime.Position{})
				}
			}
		}
		r, err := arith2(acc, a, func(x, y float64) float64 { return x / y })
		if err != nil {
			return nil, err
		}
		acc = r
	}
	return acc, nil
}

// negate handles unary `-`, which (like the rest of +/-/*//) always widens
// to Double regardless of its operand's type. 1+/1- go through ocIncr
// instead, which preserves the operand's type.
func negate(v runtime.Value) (runtime.Value, error) {
	f, ok := toFloat(v)
	if !ok {
		return nil, errNotNumeric
	}
	return runtime.Double(-f), nil
}

// arithFold folds +/* over a variadic arg list and always returns a Double,
// regardless of operand type — spec.md's Scenario 1: `(+ 1 2 3 (* 4 5 6))`
// => `126.0` from all-Long operands. 1+/1- must not use this path; they
// preserve their operand's type via ocIncr instead.
func arithFold(args []runtime.Value, identity float64, op func(a, b float64) float64) (runtime.Value, error) {
	acc := identity
	for _, a := range args {
		f, ok := toFloat(a)
		if !ok {
			return nil, errNotNumeric
		}
		acc = op(acc, f)
	}
	if math.IsNaN(acc) || math.IsInf(acc, 0) {
		return nil, runtime.NewArithmeticError("arithmetic result is NaN or infinite", runtime.Position{})
	}
	return runtime.Double(acc), nil
}

// arith2 is the pairwise fold step for ocSub/ocDiv, which (unlike ocAdd/
// ocMul's arithFold) need to thread an accumulator through arith2 one pair
// at a time since - and / are not associative. The result always widens to
// Double, matching arithFold.
func arith2(a, b runtime.Value, op func(x, y float64) float64) (runtime.Value, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, errNotNumeric
	}
	result := op(af, bf)
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return nil, runtime.NewArithmeticError("arithmetic result is NaN or infinite", runtime.Position{})
	}
	return runtime.Double(result), nil
}

func ocChain(cmp func(a, b float64) bool) func([]runtime.Value) (runtime.Value, error) {
	return func(args []runtime.Value) (runtime.Value, error) {
		if len(args) < 1 {
			return notHandled, nil
		}
		prev, ok := toFloat(args[0])
		if !ok {
			return nil, errNotNumeric
		}
		for _, a := range args[1:] {
			cur, ok := toFloat(a)
			if !ok {
				return nil, errNotNumeric
			}
			if !cmp(prev, cur) {
				return runtime.Nil, nil
			}
			prev = cur
		}
		return runtime.BoolValue(true), nil
	}
}

func ocNotEqual(args []runtime.Value) (runtime.Value, error) {
	for i := 0; i < len(args); i++ {
		fi, ok := toFloat(args[i])
		if !ok {
			return nil, errNotNumeric
		}
		for j := i + 1; j < len(args); j++ {
			fj, ok := toFloat(args[j])
			if !ok {
				return nil, errNotNumeric
			}
			if fi == fj {
				return runtime.Nil, nil
			}
		}
	}
	return runtime.BoolValue(true), nil
}

func ocAppend(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return runtime.Nil, nil
	}
	var result runtime.Value = args[len(args)-1]
	for i := len(args) - 2; i >= 0; i-- {
		items, ok := runtime.ToSlice(args[i])
		if !ok {
			return notHandled, nil
		}
		result = runtime.FromSliceDotted(items, result)
	}
	return result, nil
}

func ocList(args []runtime.Value) (runtime.Value, error) {
	return runtime.FromSlice(args), nil
}

func ocListStar(args []runtime.Value) (runtime.Value, error) {
	if len(args) == 0 {
		return notHandled, nil
	}
	return runtime.FromSliceDotted(args[:len(args)-1], args[len(args)-1]), nil
}

func ocMod(a, b runtime.Value) (runtime.Value, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, errNotNumeric
	}
	if bf == 0 {
		return nil, runtime.NewArithmeticError("mod by zero", runtime.Position{})
	}
	result := af - math.Floor(af/bf)*bf
	if isDouble(a) || isDouble(b) {
		return runtime.Double(result), nil
	}
	return runtime.Long(int64(result)), nil
}

func ocRem(a, b runtime.Value) (runtime.Value, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, errNotNumeric
	}
	if bf == 0 {
		return nil, runtime.NewArithmeticError("rem by zero", runtime.Position{})
	}
	result := math.Mod(af, bf)
	if isDouble(a) || isDouble(b) {
		return runtime.Double(result), nil
	}
	return runtime.Long(int64(result)), nil
}
