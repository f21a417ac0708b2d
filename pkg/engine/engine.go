// Package engine is the embedder-facing API (spec.md §6, SPEC_FULL.md §4.7):
// Interpret a source string directly, read back top-level bindings, or
// Generate/Run an ahead-of-time compiled artifact for the same program.
// Grounded on how the teacher's cmd/dwscript/cmd/run.go wires
// lexer→parser→semantic→interp into one call; glisp wires
// lexer→reader→interp (and, for Generate, lexer→reader→codegen).
package engine

import (
	"fmt"

	"github.com/glisp-lang/glisp/internal/builtins"
	"github.com/glisp-lang/glisp/internal/codegen"
	"github.com/glisp-lang/glisp/internal/hostcompile"
	"github.com/glisp-lang/glisp/internal/interp"
	"github.com/glisp-lang/glisp/internal/reader"
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// Value is any language value returned to an embedder.
type Value = runtime.Value

// Engine owns one shared evaluator instance: every Interpret call extends
// the same global environment, so definitions made by one call are visible
// to the next, matching spec.md §5's "global environment is process-wide".
type Engine struct {
	ip *interp.Interp
}

// Option configures a new Engine. It wraps interp.Option so engine callers
// never need to import internal/interp themselves.
type Option func(*[]interp.Option)

// WithLibraryDir sets the directory `load`/`require` consult after a
// script's own sibling directory (spec.md §6).
func WithLibraryDir(dir string) Option {
	return func(opts *[]interp.Option) { *opts = append(*opts, interp.WithLoadDir(dir)) }
}

// WithMaxRecursionDepth overrides the evaluator's recursion guard (0
// disables it).
func WithMaxRecursionDepth(n int) Option {
	return func(opts *[]interp.Option) { *opts = append(*opts, interp.WithMaxDepth(n)) }
}

// WithOptimizeSpeed sets the initial `declaim (optimize (speed N))` level a
// fresh Engine starts at, consulted by both the open-coding evaluator fast
// path and the code generator's inlining decisions (SPEC_FULL.md §4.4).
func WithOptimizeSpeed(n int) Option {
	return func(opts *[]interp.Option) {
		*opts = append(*opts, func(i *interp.Interp) { i.Speed = n })
	}
}

// New creates an Engine with a populated global environment.
func New(opts ...Option) *Engine {
	var ipOpts []interp.Option
	for _, opt := range opts {
		opt(&ipOpts)
	}
	return &Engine{ip: interp.New(ipOpts...)}
}

// SetCommandLineArgs fills `*command-line-argument-list*` for scripts run by
// Interpret, mirroring what generated programs do at startup via
// genruntime.SetCommandLineArgs (spec.md §4.4).
func (e *Engine) SetCommandLineArgs(argv []string) {
	builtins.SetCommandLineArgs(e.ip.Global, argv)
}

// Interpret reads and evaluates every top-level form in src in sequence,
// returning the value of the last one (spec.md §6's interpretExpression
// entry point).
func (e *Engine) Interpret(src string) (Value, error) {
	r := reader.New(src, "")
	forms, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	var last Value = runtime.Nil
	for _, f := range forms {
		v, err := e.ip.Eval(f, e.ip.Global)
		if err != nil {
			return nil, err
		}
		last = v
	}
	return last, nil
}

// GetValue returns the current value bound to a global symbol, or fails
// with an Unbound error (spec.md §6).
func (e *Engine) GetValue(name string) (Value, error) {
	sym := symtab.Intern(name)
	v, ok := e.ip.Global.Get(sym)
	if !ok {
		return nil, runtime.NewUnbound(name, runtime.Position{})
	}
	return v, nil
}

// GetFunction returns a callable adapter over a primitive or closure
// (spec.md §6); it is valid only until the environment is rebuilt.
func (e *Engine) GetFunction(name string) (Value, error) {
	v, err := e.GetValue(name)
	if err != nil {
		return nil, err
	}
	switch x := v.(type) {
	case *runtime.Primitive:
		return v, nil
	case *runtime.Cons:
		if x.IsClosure() {
			return v, nil
		}
	}
	return nil, fmt.Errorf("engine: %q is not callable", name)
}

// Generate reads src and lowers its forms into a standalone Go program
// (internal/codegen), returning the formatted source text.
func (e *Engine) Generate(src string) (string, error) {
	r := reader.New(src, "")
	forms, err := r.ReadAll()
	if err != nil {
		return "", err
	}
	gen := codegen.New(e.ip)
	return gen.Generate("main", forms)
}

// RunOptions configures how a Generate()d program is compiled and executed.
type RunOptions struct {
	hostcompile.Options
	Args []string
}

// Run generates src, builds it with the host Go toolchain, and executes the
// resulting binary, returning its standard output (spec.md §4.4's
// generator-correctness property: this should equal Interpret's printed
// output byte-for-byte for any program without `fatal` or wall-clock side
// effects).
func (e *Engine) Run(src string, opts RunOptions) (string, error) {
	source, err := e.Generate(src)
	if err != nil {
		return "", err
	}
	return hostcompile.Run(source, opts.Args, opts.Options)
}
