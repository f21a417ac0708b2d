// Package codegen is the ahead-of-time Go-source generator (spec.md §4.4,
// SPEC_FULL.md §4.5: "host language is Go itself"). It walks the same form
// stream the tree-walking evaluator would, in two passes: pass 1 inlines
// `load`/`require`, registers `defmacro` with the shared evaluator, applies
// `declaim (optimize (speed N))`, and flattens `progn`; pass 2 lowers the
// remaining top-level forms into a linear sequence of Go statements that,
// compiled and run, reproduce the same final value and output byte sequence
// as interpreting the same program (spec.md §8's generator-correctness
// property). It is grounded on the teacher's two-stage
// internal/bytecode.Compiler (constant pool, per-scope local-slot
// allocation, a single Compile entry point walking a statement list),
// retargeted from bytecode emission to Go source-text emission.
package codegen

import (
	"fmt"
	"go/format"

	"github.com/glisp-lang/glisp/internal/interp"
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// Generator turns a stream of top-level forms into a standalone Go program
// source. One Generator is used per compilation unit; it shares its
// evaluator instance with the embedder so `defmacro` forms encountered in
// pass 1 are immediately available to later forms and to files `load`ed
// during generation (spec.md §9: "Macro definitions encountered in pass 1
// are registered with the in-process evaluator").
type Generator struct {
	ip    *interp.Interp
	speed int

	idents  *identScope
	pool    *constPool
	globals map[*symtab.Symbol]string // symbol -> mangled package-level Go var name
	order   []*symtab.Symbol          // globals in first-declared order

	referenced map[*symtab.Symbol]bool // free global symbol references seen during lowering
	funcs      []string                // extra top-level Go func/var declarations (compiled lambdas)

	warnings []string
}

// New creates a Generator sharing ip's macro table and global primitive
// registry, so a symbol already bound to a primitive in ip.Global is
// recognized as "known" without needing its own global slot.
func New(ip *interp.Interp) *Generator {
	return &Generator{
		ip:         ip,
		speed:      ip.Speed,
		idents:     newIdentScope(),
		pool:       newConstPool(),
		globals:    make(map[*symtab.Symbol]string),
		referenced: make(map[*symtab.Symbol]bool),
	}
}

// Warnings returns advisory messages accumulated during generation (e.g. a
// `cond` clause following a `t` default, spec.md §4.4: "warn if forms follow
// a default clause").
func (g *Generator) Warnings() []string { return g.warnings }

// Generate lowers forms (already read from source, not yet macro-expanded)
// into a complete, formatted Go program in package pkgName.
func (g *Generator) Generate(pkgName string, forms []runtime.Value) (string, error) {
	flat, err := g.flattenTop(forms)
	if err != nil {
		return "", err
	}

	// Pre-declare every top-level define/defun target so forward references
	// and mutual recursion between top-level functions resolve (spec.md
	// §4.4 pass 1: "recognizing define/defun (emit a global slot...)").
	for _, f := range flat {
		sym, _, isDefLike := defTarget(f)
		if isDefLike {
			g.declareGlobal(sym)
		}
	}

	fb := &funcBuilder{g: g}
	sc := newLexScope(nil)
	var lastExpr string
	for i, f := range flat {
		tail := false // top-level forms run to completion; body() is not itself a tail call site
		expr, err := g.lowerForm(f, sc, fb, tail)
		if err != nil {
			return "", err
		}
		if i == len(flat)-1 {
			lastExpr = expr
		} else if expr != "" && expr != "genruntime.Nil" {
			fb.emit("_ = %s", expr)
		}
	}
	if lastExpr == "" {
		lastExpr = "genruntime.Nil"
	}

	if err := g.checkUnresolved(); err != nil {
		return "", err
	}

	src := g.assemble(pkgName, fb, lastExpr)
	formatted, err := format.Source([]byte(src))
	if err != nil {
		// Emit the unformatted source rather than fail outright: a
		// formatting hiccup should not hide a real generation result from
		// the caller, who may want to inspect it.
		return src, fmt.Errorf("codegen: generated source did not gofmt cleanly: %w", err)
	}
	return string(formatted), nil
}

// declareGlobal assigns (if not already assigned) a mangled package-level Go
// variable name to sym.
func (g *Generator) declareGlobal(sym *symtab.Symbol) string {
	if name, ok := g.globals[sym]; ok {
		return name
	}
	name := "G" + mangle(sym.Name())
	g.globals[sym] = name
	g.order = append(g.order, sym)
	return name
}

// defTarget reports whether f is a top-level `(define sym ...)` or
// `(defun name ...)` form, and if so its target symbol.
func defTarget(f runtime.Value) (*symtab.Symbol, runtime.Value, bool) {
	cons, ok := f.(*runtime.Cons)
	if !ok {
		return nil, nil, false
	}
	head, ok := cons.Car.(*symtab.Symbol)
	if !ok {
		return nil, nil, false
	}
	switch head.Name() {
	case "define", "defun":
		if sym, ok := runtime.Car(cons.Cdr).(*symtab.Symbol); ok {
			return sym, cons.Cdr, true
		}
	}
	return nil, nil, false
}

// checkUnresolved fails generation if any global symbol reference seen
// during lowering is neither a global this unit defines nor already bound
// in the shared evaluator's environment (a primitive or a binding from a
// previously loaded file), matching spec.md §4.4's "unknown symbols... fail
// at generation time" and the forward-reference tracking spec.md describes
// for pass 1.
func (g *Generator) checkUnresolved() error {
	for sym := range g.referenced {
		if _, ok := g.globals[sym]; ok {
			continue
		}
		if _, ok := g.ip.Global.Get(sym); ok {
			continue
		}
		return runtime.NewUnbound(sym.Name(), runtime.Position{})
	}
	return nil
}
