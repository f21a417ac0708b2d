package runtime

import "github.com/glisp-lang/glisp/internal/symtab"

// unassignedValue is the sentinel letrec installs for each binding before
// its initializer has run (spec.md §4.2: "look up in env; error if unbound
// or bound to the sentinel unassigned (used during letrec binding)").
type unassignedValue struct{}

func (unassignedValue) Type() string { return "UNASSIGNED" }

// Unassigned is the sole unassignedValue instance.
var Unassigned Value = unassignedValue{}

// IsUnassigned reports whether v is the letrec placeholder.
func IsUnassigned(v Value) bool {
	_, ok := v.(unassignedValue)
	return ok
}

// Env is an association list of (symbol . value) cells with front-insertion
// semantics (spec.md §3, §9). Each frame's bindings are themselves a cons
// chain of binding cells — a binding cell is a *Cons whose Car is the bound
// *symtab.Symbol and whose Cdr is the current value, so setq and dynamic-let
// can mutate a single cell's Cdr in place rather than rebuilding the chain.
//
// The global frame is a single *Env shared by every closure that has ever
// captured it; Define on that frame mutates its vars field, so the mutation
// is visible through every existing reference without needing any extra
// indirection (spec.md §3: "front insertion that preserves the list
// header's identity, so captured references remain valid"). Lexical
// extension (lambda application, let/let*/letrec/labels) instead allocates
// a brand new child *Env — non-destructive, so a closure's captured chain
// stays an immutable spine (spec.md §3, §9).
type Env struct {
	vars  Value // Nil or a Cons chain of binding cells, newest first
	outer *Env
}

// NewEnv creates a root environment with no outer scope (the global
// environment of a fresh engine instance).
func NewEnv() *Env {
	return &Env{vars: Nil}
}

// NewChild creates a new environment enclosed by e — non-destructive lexical
// extension (spec.md §3).
func (e *Env) NewChild() *Env {
	return &Env{vars: Nil, outer: e}
}

// Outer returns the enclosing environment, or nil for the root.
func (e *Env) Outer() *Env { return e.outer }

// lookupCell searches e's own frame (not outer scopes) for sym's binding
// cell by reference identity.
func (e *Env) lookupCell(sym *symtab.Symbol) *Cons {
	node := e.vars
	for {
		c, ok := node.(*Cons)
		if !ok {
			return nil
		}
		binding := c.Car.(*Cons)
		if binding.Car == Value(sym) {
			return binding
		}
		node = c.Cdr
	}
}

// Lookup searches e and its outer chain for sym's binding cell.
func (e *Env) Lookup(sym *symtab.Symbol) (*Cons, bool) {
	for cur := e; cur != nil; cur = cur.outer {
		if binding := cur.lookupCell(sym); binding != nil {
			return binding, true
		}
	}
	return nil, false
}

// Get looks up sym's current value (spec.md §4.2 dispatch: "if a symbol,
// look up in env; error if unbound or bound to the sentinel unassigned").
func (e *Env) Get(sym *symtab.Symbol) (Value, bool) {
	binding, ok := e.Lookup(sym)
	if !ok {
		return nil, false
	}
	return binding.Cdr, true
}

// Define binds sym to val in e's own frame: mutates the existing binding
// cell if one is already present there, otherwise front-inserts a fresh one
// (spec.md §4.2 define: "if sym already bound at the global, mutate; else
// prepend").
func (e *Env) Define(sym *symtab.Symbol, val Value) {
	if binding := e.lookupCell(sym); binding != nil {
		binding.Cdr = val
		return
	}
	binding := NewCons(Value(sym), val)
	e.vars = NewCons(binding, e.vars)
}

// Set mutates an existing binding's value, searching e then its outer
// chain, and reports whether sym was found (spec.md §4.2 setq: "mutate
// existing binding cells; error on unknown symbol").
func (e *Env) Set(sym *symtab.Symbol, val Value) bool {
	binding, ok := e.Lookup(sym)
	if !ok {
		return false
	}
	binding.Cdr = val
	return true
}

// Bind installs sym -> val as a brand-new binding cell in e's own frame
// unconditionally, returning the cell. Used by lambda/let/letrec parameter
// binding, where a fresh frame can never already contain the name.
func (e *Env) Bind(sym *symtab.Symbol, val Value) *Cons {
	binding := NewCons(Value(sym), val)
	e.vars = NewCons(binding, e.vars)
	return binding
}

// GlobalBindingCell finds or creates, in the outermost (root) frame, the
// binding cell for sym — used by "let dynamic" to locate the cell it will
// temporarily rplacd and later restore.
func (e *Env) GlobalBindingCell(sym *symtab.Symbol) *Cons {
	root := e
	for root.outer != nil {
		root = root.outer
	}
	if binding := root.lookupCell(sym); binding != nil {
		return binding
	}
	return root.Bind(sym, Unassigned)
}
