// Package genruntime is the support library linked into every artifact
// produced by internal/codegen (spec.md §4.4: generated code "exposes a
// body() entry point... getValue(name), getFunction(name)..."). Generated
// source is compiled as an independent Go module (internal/hostcompile
// shells out to `go build` in a temporary module directory), so it cannot
// import this repository's internal/ packages directly; genruntime is the
// public seam that re-exports exactly the pieces generated code needs —
// value construction, a shared evaluator instance for primitive/closure
// dispatch, and the tail-call trampoline record — without re-implementing
// the evaluator a second time.
package genruntime

import (
	"fmt"

	"github.com/glisp-lang/glisp/internal/interp"
	"github.com/glisp-lang/glisp/internal/reader"
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// Value is any language value (spec.md §3). Generated code never constructs
// the underlying runtime types by hand except through the constructors
// below, keeping internal/runtime's concrete representation free to evolve.
type Value = runtime.Value

// Nil is the empty-list/false value.
var Nil = runtime.Nil

// Long, Double, Ch, and Str construct the corresponding literal kinds.
func Long(n int64) Value    { return runtime.Long(n) }
func Double(f float64) Value { return runtime.Double(f) }
func Ch(r rune) Value       { return runtime.Character(r) }
func Str(s string) Value    { return runtime.NewString(s) }

// Sym interns a symbol by name against the process-wide symbol table, so a
// symbol constructed by generated code is reference-identical to the same
// name read or interned anywhere else in the process.
func Sym(name string) *symtab.Symbol { return symtab.Intern(name) }

// Cons builds a pair. FromSlice/FromSliceDotted build proper and dotted
// lists from a Go slice, mirroring the reader's own list construction.
func Cons(car, cdr Value) Value                { return runtime.NewCons(car, cdr) }
func FromSlice(items []Value) Value            { return runtime.FromSlice(items) }
func FromSliceDotted(items []Value, tl Value) Value { return runtime.FromSliceDotted(items, tl) }

// Truthy reports whether v is true in a conditional position.
func Truthy(v Value) bool { return runtime.Truthy(v) }

// Bool converts a Go bool to the language's t/nil representation.
func Bool(b bool) Value { return runtime.BoolValue(b) }

// Engine bundles the shared evaluator instance that generated code dispatches
// non-open-coded calls through: primitive lookup, closure application, and
// arity checking all reuse the exact same code path the tree-walking
// evaluator uses, so generated and interpreted programs agree by
// construction rather than by parallel re-implementation (spec.md §8's
// generator-correctness property).
type Engine struct {
	Interp *interp.Interp
}

// NewEngine creates a fresh evaluator with a populated global environment
// (every primitive registered, spec.md §4.3).
func NewEngine() *Engine {
	return &Engine{Interp: interp.New()}
}

// Global returns the shared global environment generated global-slot
// initializers define their symbols into, so getValue/getFunction can find
// them by the same name a program could `setq` or `eval` against.
func (e *Engine) Global() *runtime.Env { return e.Interp.Global }

// Pending is the tail-call trampoline record (spec.md §4.4): a call emitted
// in tail position returns one of these instead of recursing, so a chain of
// tail calls of arbitrary length runs in bounded Go stack space once driven
// by Trampoline.
type Pending struct {
	Fn   Value
	Args []Value
}

func (*Pending) Type() string { return "PENDING-CALL" }

// Trampoline drives a chain of Pending records to a concrete value, calling
// back into the shared evaluator for each hop.
func (e *Engine) Trampoline(v Value, err error) (Value, error) {
	for err == nil {
		p, ok := v.(*Pending)
		if !ok {
			return v, nil
		}
		v, err = e.Call(p.Fn, p.Args)
	}
	return nil, err
}

// Call invokes fn (a primitive, an interpreted closure, or a generated
// GoClosure) with already-evaluated args — the funcall shape (spec.md §4.4);
// used at every non-tail call site and as the trampoline's driver.
func (e *Engine) Call(fn Value, args []Value) (Value, error) {
	if gc, ok := fn.(*GoClosure); ok {
		return gc.Fn(args)
	}
	return e.Interp.Apply(fn, args)
}

// Tail builds the tail-call shape for a call site statically determined to
// be in tail position (spec.md §4.4: "the static position... of the
// enclosing lambda/cond/if/let body chain").
func Tail(fn Value, args []Value) Value { return &Pending{Fn: fn, Args: args} }

// GoClosure adapts a native Go function compiled from a `lambda` form into a
// callable Value, so the shared evaluator's Apply can invoke generated
// closures exactly like interpreted ones (e.g. when a generated closure
// value escapes to a primitive such as `apply` or a `funcall`-style callback).
type GoClosure struct {
	Name string
	Fn   func(args []Value) (Value, error)
}

func (*GoClosure) Type() string { return "PRIMITIVE" }

// Quote parses src (the printed form of a quoted literal, produced once at
// code-generation time by runtime.Print) back into a Value at program
// startup. The generator's constant pool (spec.md §4.4) is keyed by this
// exact source text and deduplicated before emission; parsing it at init
// time rather than hand-walking nested Cons-constructor calls is the
// generator's way of exploiting the reader round-trip invariant (spec.md
// §8: "printing v with escapes and reparsing yields a value equal to v") to
// guarantee the constant reconstructs faithfully, including numbers,
// strings, and nested structure.
func Quote(src string) Value {
	v, err := reader.New(src, "<constant-pool>").Read()
	if err != nil {
		panic(fmt.Sprintf("genruntime: malformed constant pool entry %q: %v", src, err))
	}
	return v
}

// GetValue looks up name in the global environment, the embedder-facing
// contract for reading a top-level binding out of a compiled artifact
// (spec.md §6: "getValue(name) returns the current value bound to a global
// symbol or fails with 'not bound'").
func (e *Engine) GetValue(name string) (Value, error) {
	sym := symtab.Intern(name)
	v, ok := e.Interp.Global.Get(sym)
	if !ok {
		return nil, runtime.NewUnbound(name, runtime.Position{})
	}
	return v, nil
}

// GetFunction looks up name and returns it as a callable Value, failing if
// the binding is not a primitive or closure (spec.md §6: "an adapter over a
// primitive or closure").
func (e *Engine) GetFunction(name string) (Value, error) {
	v, err := e.GetValue(name)
	if err != nil {
		return nil, err
	}
	switch v.(type) {
	case *runtime.Primitive, *GoClosure:
		return v, nil
	case *runtime.Cons:
		if v.(*runtime.Cons).IsClosure() {
			return v, nil
		}
	}
	return nil, runtime.NewTypeError(name+" is not callable", runtime.Position{})
}

// CommandLineArgumentList is the mutable slot `main` assigns before running
// body() (spec.md §4.4: "a mutable slot for *command-line-argument-list*
// set by main"); the command-line-arguments primitive reads it back as an
// ordinary list value (SPEC_FULL.md §5).
var CommandLineArgumentList Value = runtime.Nil

// SetCommandLineArgs converts argv into a proper list and installs it both
// as CommandLineArgumentList and as the *command-line-argument-list*
// global, so programs can read it via either the generated slot or the
// ordinary global-variable path the interpreter uses.
func (e *Engine) SetCommandLineArgs(argv []string) {
	items := make([]Value, len(argv))
	for i, a := range argv {
		items[i] = runtime.NewString(a)
	}
	CommandLineArgumentList = runtime.FromSlice(items)
	e.Interp.Global.Define(symtab.Intern("*command-line-argument-list*"), CommandLineArgumentList)
}
