package runtime

import "github.com/glisp-lang/glisp/internal/symtab"

// Cons is a mutable pair. A list is Nil or a Cons chain terminated by Nil
// (proper) or any non-cons (dotted). Two optional fields turn a plain list
// into richer values without adding new Go types: Pos carries reader
// source-position metadata (ignored by equality/structural operations), and
// Env, when non-nil, marks this Cons as a Closure — spec.md §3: "a cons
// whose car is the lambda symbol, cdr is (params body...), plus a non-null
// captured environment (this marks the value as a lexical closure vs. a
// plain list)."
type Cons struct {
	Car Value
	Cdr Value

	Pos Position
	Env *Env

	// Closure marks this Cons as a lambda-produced closure rather than plain
	// list data. Env is the captured lexical environment for an ordinary
	// closure, or nil for a `lambda dynamic` closure, which looks its free
	// variables up in the caller's dynamic environment at call time instead
	// of a captured one — so Env alone cannot distinguish "plain list" from
	// "dynamic closure."
	Closure bool
}

func (*Cons) Type() string { return "CONS" }

// NewCons allocates a fresh pair.
func NewCons(car, cdr Value) *Cons { return &Cons{Car: car, Cdr: cdr} }

// IsClosure reports whether c was produced by lambda.
func (c *Cons) IsClosure() bool { return c != nil && c.Closure }

// Car returns the car of v: car(nil) = nil, and String/Symbol/ArraySlice
// behave as a first-element view (spec.md §3).
func Car(v Value) Value {
	switch x := v.(type) {
	case NilValue:
		return Nil
	case *Cons:
		return x.Car
	case *ArraySlice:
		return x.Car()
	case *String:
		if x.Value == "" {
			return Nil
		}
		return Character([]rune(x.Value)[0])
	case *symtab.Symbol:
		return x
	}
	if v == nil {
		return Nil
	}
	return v
}

// Cdr returns the cdr of v: cdr(nil) = nil, and String/Symbol/ArraySlice
// behave as a tail view (spec.md §3).
func Cdr(v Value) Value {
	switch x := v.(type) {
	case NilValue:
		return Nil
	case *Cons:
		return x.Cdr
	case *ArraySlice:
		return x.Cdr()
	case *String:
		r := []rune(x.Value)
		if len(r) <= 1 {
			return Nil
		}
		return NewString(string(r[1:]))
	}
	return Nil
}

// ListP reports whether v is Nil or a Cons (a "list" in the loose sense used
// by the listp predicate, including dotted lists).
func ListP(v Value) bool {
	if IsNil(v) {
		return true
	}
	_, ok := v.(*Cons)
	return ok
}

// ConsP reports whether v is specifically a Cons (not Nil).
func ConsP(v Value) bool {
	_, ok := v.(*Cons)
	return ok
}

// ProperListP reports whether v is Nil or a Cons chain terminated by Nil
// with no cycle.
func ProperListP(v Value) bool {
	slow, fast := v, v
	for {
		if IsNil(fast) {
			return true
		}
		fc, ok := fast.(*Cons)
		if !ok {
			return false
		}
		fast = fc.Cdr
		if IsNil(fast) {
			return true
		}
		fc2, ok := fast.(*Cons)
		if !ok {
			return false
		}
		fast = fc2.Cdr
		slow = slow.(*Cons).Cdr
		if slow == fast {
			return false // cycle
		}
	}
}

// ToSlice collects a proper list into a Go slice. It returns ok=false if v is
// not a proper, non-cyclic list.
func ToSlice(v Value) (items []Value, ok bool) {
	slow, fast := v, v
	for {
		if IsNil(fast) {
			return items, true
		}
		fc, isCons := fast.(*Cons)
		if !isCons {
			return nil, false
		}
		items = append(items, fc.Car)
		fast = fc.Cdr

		// slow advances one cell for every two fast steps, so it is caught
		// up with inside any cycle.
		if len(items)%2 == 0 {
			slow = slow.(*Cons).Cdr
			if slow == fast {
				return nil, false // cycle
			}
		}
	}
}

// FromSlice builds a proper list from items, terminated by Nil.
func FromSlice(items []Value) Value {
	var result Value = Nil
	for i := len(items) - 1; i >= 0; i-- {
		result = NewCons(items[i], result)
	}
	return result
}

// FromSliceDotted builds a list from items, terminated by tail instead of
// Nil (used for dotted parameter lists and list*).
func FromSliceDotted(items []Value, tail Value) Value {
	result := tail
	for i := len(items) - 1; i >= 0; i-- {
		result = NewCons(items[i], result)
	}
	return result
}

// Length returns the number of elements in a proper list, or -1 if v is not
// one.
func Length(v Value) int {
	items, ok := ToSlice(v)
	if !ok {
		return -1
	}
	return len(items)
}

// Eq reports reference identity (spec.md §3: "eq is reference identity").
func Eq(a, b Value) bool {
	if IsNil(a) && IsNil(b) {
		return true
	}
	switch x := a.(type) {
	case *symtab.Symbol:
		y, ok := b.(*symtab.Symbol)
		return ok && x == y
	case *Cons:
		y, ok := b.(*Cons)
		return ok && x == y
	case *String:
		y, ok := b.(*String)
		return ok && x == y
	case *Primitive:
		y, ok := b.(*Primitive)
		return ok && x == y
	case *ArraySlice:
		y, ok := b.(*ArraySlice)
		return ok && x == y
	case Long:
		y, ok := b.(Long)
		return ok && x == y
	case Double:
		y, ok := b.(Double)
		return ok && x == y
	case Character:
		y, ok := b.(Character)
		return ok && x == y
	}
	return false
}

// Eql reports eq OR value equality for numbers of the same type and for
// characters (spec.md §3).
func Eql(a, b Value) bool {
	if Eq(a, b) {
		return true
	}
	switch x := a.(type) {
	case Long:
		y, ok := b.(Long)
		return ok && x == y
	case Double:
		y, ok := b.(Double)
		return ok && x == y
	case Character:
		y, ok := b.(Character)
		return ok && x == y
	}
	return false
}

// Equal reports structural recursion over conses plus eql at leaves and
// string content equality (spec.md §3). It tolerates cyclic cons graphs by
// bounding recursion depth against a seen-pair set.
func Equal(a, b Value) bool {
	return equalSeen(a, b, make(map[[2]*Cons]bool))
}

func equalSeen(a, b Value, seen map[[2]*Cons]bool) bool {
	ac, aIsCons := a.(*Cons)
	bc, bIsCons := b.(*Cons)
	if aIsCons && bIsCons {
		key := [2]*Cons{ac, bc}
		if seen[key] {
			return true // already comparing this pair further up the recursion: treat as equal to break the cycle
		}
		seen[key] = true
		return equalSeen(ac.Car, bc.Car, seen) && equalSeen(ac.Cdr, bc.Cdr, seen)
	}
	if aIsCons != bIsCons {
		return false
	}
	as, aIsStr := a.(*String)
	bs, bIsStr := b.(*String)
	if aIsStr && bIsStr {
		return as.Value == bs.Value
	}
	if aIsStr != bIsStr {
		return false
	}
	return Eql(a, b)
}
