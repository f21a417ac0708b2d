// Package runtime implements the language's value model and environment
// (spec.md §3, §4.2). Value and Environment live in one package — not a
// stylistic choice but a structural one: a Cons created by lambda carries an
// optional captured *Env (that is what makes it a Closure rather than a plain
// list, spec.md §3), and an Env's bindings hold Values. Splitting the two
// would create an import cycle, so this package follows the teacher's
// internal/interp/runtime package, which bundles Environment alongside
// Value, primitives, objects, and records for the identical reason.
package runtime

import (
	"fmt"
	"strconv"

	"github.com/glisp-lang/glisp/internal/symtab"
)

// Value is any S-expression value: Nil, Symbol, Long, Double, Character,
// String, Cons, Primitive, or ArraySlice (spec.md §3).
type Value interface {
	// Type returns a short uppercase tag for the value's kind, used by
	// predicates (symbolp, numberp, ...) and in error messages.
	Type() string
}

// NilValue is the unique value of Nil: the empty list and the boolean false.
// It also backs the interned "nil" symbol's evaluated result (spec.md §3:
// "the nil symbol prints as nil and, when evaluated, yields the empty
// list").
type NilValue struct{}

// Nil is the sole NilValue instance.
var Nil Value = NilValue{}

func (NilValue) Type() string { return "NIL" }

// IsNil reports whether v is the empty list / false value.
func IsNil(v Value) bool {
	_, ok := v.(NilValue)
	return ok || v == nil
}

// Truthy reports whether v counts as true in a conditional position: every
// value except Nil is true.
func Truthy(v Value) bool { return !IsNil(v) }

// BoolValue converts a Go bool to the language's true/false representation:
// true is the symbol t, false is Nil.
func BoolValue(b bool) Value {
	if b {
		return symtab.Intern("t")
	}
	return Nil
}

// Long is a 64-bit integer value.
type Long int64

func (Long) Type() string { return "LONG" }

// Double is an IEEE-754 double value.
type Double float64

func (Double) Type() string { return "DOUBLE" }

// Character is a Unicode code point value.
type Character rune

func (Character) Type() string { return "CHARACTER" }

// String is an immutable string value. Reader literals are interned so that
// string= can fast-path on pointer equality before falling back to content
// comparison.
type String struct {
	Value string
}

func (*String) Type() string { return "STRING" }

// NewString wraps s as a String value without interning (runtime-constructed
// strings, e.g. from string concatenation, need not be interned).
func NewString(s string) *String { return &String{Value: s} }

// stringTable interns reader string literals so that structurally identical
// literals compare pointer-equal, mirroring how Symbol interning works.
var stringTable = make(map[string]*String)

// InternString returns the canonical *String for s as read by the reader.
func InternString(s string) *String {
	if v, ok := stringTable[s]; ok {
		return v
	}
	v := &String{Value: s}
	stringTable[s] = v
	return v
}

// Primitive is a built-in callable. It receives the list of already-evaluated
// arguments and returns one value. MinArgs/MaxArgs describe its documented
// arity; MaxArgs of -1 means variadic. The evaluator and code generator both
// consult these bounds to raise ArityError uniformly (spec.md §8: "calling
// with a wrong number of args yields an ArityError, never a crash").
type Primitive struct {
	Name    string
	MinArgs int
	MaxArgs int // -1 = unbounded
	Fn      func(args []Value) (Value, error)
}

func (*Primitive) Type() string { return "PRIMITIVE" }

// CheckArity validates n (the call-site argument count) against p's
// documented bounds, returning an ArityError if out of range.
func (p *Primitive) CheckArity(n int) error {
	if n < p.MinArgs || (p.MaxArgs >= 0 && n > p.MaxArgs) {
		return &ArityError{Name: p.Name, Got: n, Min: p.MinArgs, Max: p.MaxArgs}
	}
	return nil
}

// ArraySlice is a view over a contiguous array of values presented as a
// list, used as a fast cdr when passing varargs (spec.md §3). It must be
// iterable and indexable like a cons list: Car is Items[0], Cdr is the
// ArraySlice starting at Items[1] (or Nil once exhausted).
type ArraySlice struct {
	Items []Value
}

func (*ArraySlice) Type() string { return "ARRAY-SLICE" }

// Car returns the first element, or Nil if empty.
func (a *ArraySlice) Car() Value {
	if len(a.Items) == 0 {
		return Nil
	}
	return a.Items[0]
}

// Cdr returns the tail view, or Nil once the slice is exhausted.
func (a *ArraySlice) Cdr() Value {
	if len(a.Items) <= 1 {
		return Nil
	}
	return &ArraySlice{Items: a.Items[1:]}
}

// FormatNumber renders a Long or Double the way the reader would re-parse
// it: integers print bare, doubles always carry a decimal point or an
// exponent (spec.md §8
// scenario 1: "(+ 1 2 3 (* 4 5 6))" → "126.0").
func FormatNumber(v Value) string {
	switch n := v.(type) {
	case Long:
		return strconv.FormatInt(int64(n), 10)
	case Double:
		s := strconv.FormatFloat(float64(n), 'g', -1, 64)
		for _, r := range s {
			if r == '.' || r == 'e' || r == 'E' {
				return s
			}
		}
		return s + ".0"
	default:
		return fmt.Sprintf("%v", v)
	}
}
