package reader

import (
	"errors"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// errSpliceHere is the error qqExpand reports for a bare ,@x where a single
// value (not a list splice) is expected, e.g. `(a . ,@b)`.
var errSpliceHere = errors.New("can't splice here")

// Bawden-style quasiquote expander: rewrites the raw form read inside a
// backquote (where comma/comma-at have already been turned into literal
// (unquote x)/(unquote-splice x) conses) into ordinary list/list*/append/cons
// construction forms, with optimizedAppend simplifying the common cases so
// that adjacent elements merge into one list/list*/cons form rather than a
// chain of appends: a fully-constant template such as `(1 2 3) expands to
// (list (quote 1) (quote 2) (quote 3)).

var (
	symQuote         = symtab.Intern("quote")
	symQuasiquote    = symtab.Intern("quasiquote")
	symUnquote       = symtab.Intern("unquote")
	symUnquoteSplice = symtab.Intern("unquote-splice")
	symList          = symtab.Intern("list")
	symListStar      = symtab.Intern("list*")
	symAppend        = symtab.Intern("append")
	symCons          = symtab.Intern("cons")
)

// taggedArg reports whether v is (head arg) — a proper 2-element list headed
// by head — and if so returns arg.
func taggedArg(v runtime.Value, head *symtab.Symbol) (runtime.Value, bool) {
	c, ok := v.(*runtime.Cons)
	if !ok {
		return nil, false
	}
	sym, ok := c.Car.(*symtab.Symbol)
	if !ok || sym != head {
		return nil, false
	}
	rest, ok := c.Cdr.(*runtime.Cons)
	if !ok {
		return nil, false
	}
	if !runtime.IsNil(rest.Cdr) {
		return nil, false
	}
	return rest.Car, true
}

// headIs reports whether v is a proper list whose first element is head
// (regardless of arity), e.g. (list a b c) or (list* a b).
func headIs(v runtime.Value, head *symtab.Symbol) bool {
	c, ok := v.(*runtime.Cons)
	if !ok {
		return false
	}
	sym, ok := c.Car.(*symtab.Symbol)
	return ok && sym == head
}

func qqExpand(form runtime.Value) (runtime.Value, error) {
	if runtime.IsNil(form) {
		return runtime.Nil, nil
	}
	if arg, ok := taggedArg(form, symUnquote); ok {
		return arg, nil
	}
	if _, ok := taggedArg(form, symUnquoteSplice); ok {
		return nil, errSpliceHere
	}
	if arg, ok := taggedArg(form, symQuasiquote); ok {
		inner, err := qqExpand(arg)
		if err != nil {
			return nil, err
		}
		return qqExpand(inner)
	}
	c, ok := form.(*runtime.Cons)
	if !ok {
		return quoteForm(form), nil
	}
	head, err := qqExpandList(c.Car)
	if err != nil {
		return nil, err
	}
	if runtime.IsNil(c.Cdr) {
		return head, nil
	}
	rest, err := qqExpand(c.Cdr)
	if err != nil {
		return nil, err
	}
	return optimizedAppend(head, rest), nil
}

func qqExpandList(a runtime.Value) (runtime.Value, error) {
	if arg, ok := taggedArg(a, symUnquote); ok {
		return runtime.NewCons(symList, runtime.NewCons(arg, runtime.Nil)), nil
	}
	if arg, ok := taggedArg(a, symUnquoteSplice); ok {
		return arg, nil
	}
	if arg, ok := taggedArg(a, symQuasiquote); ok {
		inner, err := qqExpand(arg)
		if err != nil {
			return nil, err
		}
		expanded, err := qqExpand(inner)
		if err != nil {
			return nil, err
		}
		return runtime.NewCons(symList, runtime.NewCons(expanded, runtime.Nil)), nil
	}
	expanded, err := qqExpand(a)
	if err != nil {
		return nil, err
	}
	return runtime.NewCons(symList, runtime.NewCons(expanded, runtime.Nil)), nil
}

// optimizedAppend implements the pattern-driven simplification from the
// quasiquote expansion rules.
func optimizedAppend(lhs, rhs runtime.Value) runtime.Value {
	if x, ok := taggedArg(lhs, symList); ok {
		if ys, ok := lhsListArgs(rhs, symList); ok {
			return runtime.NewCons(symList, runtime.NewCons(x, ys))
		}
		if ys, ok := lhsListArgs(rhs, symListStar); ok {
			return runtime.NewCons(symListStar, runtime.NewCons(x, ys))
		}
		// (list* x rhs) with exactly two elements is just (cons x rhs).
		return runtime.NewCons(symCons, runtime.NewCons(x, runtime.NewCons(rhs, runtime.Nil)))
	}
	if x, ok := taggedArg(rhs, symList); ok {
		// (cons x nil), with x itself constant, is the one-element list (x) —
		// append lhs to a single quoted list instead of consing at runtime.
		if inner, ok := taggedArg(x, symQuote); ok {
			return runtime.NewCons(symAppend, runtime.NewCons(lhs,
				runtime.NewCons(runtime.NewCons(symQuote, runtime.NewCons(runtime.NewCons(inner, runtime.Nil), runtime.Nil)), runtime.Nil)))
		}
		return runtime.NewCons(symAppend, runtime.NewCons(lhs,
			runtime.NewCons(runtime.NewCons(symCons, runtime.NewCons(x, runtime.NewCons(runtime.Nil, runtime.Nil))), runtime.Nil)))
	}
	return runtime.NewCons(symAppend, runtime.NewCons(lhs, runtime.NewCons(rhs, runtime.Nil)))
}

// lhsListArgs returns the argument list of a (head a b c…) form when v is
// headed by head, for splicing into an optimizedAppend result.
func lhsListArgs(v runtime.Value, head *symtab.Symbol) (runtime.Value, bool) {
	if !headIs(v, head) {
		return nil, false
	}
	c := v.(*runtime.Cons)
	return c.Cdr, true
}
