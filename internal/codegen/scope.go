package codegen

import (
	"fmt"
	"strings"

	"github.com/glisp-lang/glisp/internal/symtab"
)

// lexScope tracks the Go identifier a local binding compiles to, mirroring
// the evaluator's environment chain (internal/runtime.Env) but at code
// generation time: no values are stored, only the mangled Go variable name
// each lexical symbol maps to.
type lexScope struct {
	vars   map[*symtab.Symbol]string
	parent *lexScope
}

func newLexScope(parent *lexScope) *lexScope {
	return &lexScope{vars: make(map[*symtab.Symbol]string), parent: parent}
}

func (s *lexScope) bind(sym *symtab.Symbol, ident string) { s.vars[sym] = ident }

func (s *lexScope) lookup(sym *symtab.Symbol) (string, bool) {
	for c := s; c != nil; c = c.parent {
		if ident, ok := c.vars[sym]; ok {
			return ident, true
		}
	}
	return "", false
}

// funcBuilder accumulates the Go statements for one function body (the
// trampoline-driven func a `lambda` compiles to, or the top-level body()
// function). Nested control-flow forms (if/cond) open native Go if/else
// blocks by emitting bracketed statement groups directly into lines, rather
// than spawning a separate builder per branch, so that a `return` inside a
// branch exits the enclosing Go function exactly once as intended.
type funcBuilder struct {
	g     *Generator
	lines []string
}

func (fb *funcBuilder) emit(format string, args ...interface{}) {
	fb.lines = append(fb.lines, fmt.Sprintf(format, args...))
}

func (fb *funcBuilder) tmp(base string) string { return fb.g.idents.fresh(base) }

func (fb *funcBuilder) body() string { return strings.Join(fb.lines, "\n") }
