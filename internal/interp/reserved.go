// Package interp is the tree-walking evaluator (spec.md §4.2): special-form
// dispatch by reserved-symbol reference identity, closures with proper tail
// calls via a single rebinding loop, macro expansion, and a fast open-coding
// path for a fixed set of primitive operators. It is grounded on the
// teacher's internal/interp evaluator idiom (an Interpreter struct carrying
// its environment plus adapter-style per-concern files) generalized from
// DWScript's AST-node dispatch to S-expression head-symbol dispatch.
package interp

import "github.com/glisp-lang/glisp/internal/symtab"

// Reserved special-form and keyword symbols. Matching is by pointer
// identity against these interned symbols, never by string comparison
// (spec.md §4.2: "operator recognized by reference identity").
var (
	symQuote              = symtab.Intern("quote")
	symLambda             = symtab.Intern("lambda")
	symDynamic            = symtab.Intern("dynamic")
	symSetq               = symtab.Intern("setq")
	symDefine             = symtab.Intern("define")
	symDefun              = symtab.Intern("defun")
	symDefmacro           = symtab.Intern("defmacro")
	symIf                 = symtab.Intern("if")
	symCond               = symtab.Intern("cond")
	symT                  = symtab.Intern("t")
	symProgn              = symtab.Intern("progn")
	symLabels             = symtab.Intern("labels")
	symLet                = symtab.Intern("let")
	symLetStar            = symtab.Intern("let*")
	symLetrec             = symtab.Intern("letrec")
	symLoad               = symtab.Intern("load")
	symRequire            = symtab.Intern("require")
	symProvide            = symtab.Intern("provide")
	symDeclaim            = symtab.Intern("declaim")
	symOptimize           = symtab.Intern("optimize")
	symSpeed              = symtab.Intern("speed")
	symEval               = symtab.Intern("eval")
	symApply              = symtab.Intern("apply")
	symNil                = symtab.Intern("nil")
	symWithOutputToString = symtab.Intern("with-output-to-string")
)

// reservedWords lists every symbol a binding site (lambda param, let
// binding, define/defun/defmacro/setq target) must reject.
var reservedWords = []string{
	"quote", "lambda", "dynamic", "setq", "define", "defun", "defmacro",
	"if", "cond", "t", "progn", "labels", "let", "let*", "letrec",
	"load", "require", "provide", "declaim", "optimize", "speed",
	"nil", "with-output-to-string",
}

func init() {
	symtab.Default.Reserve(reservedWords...)
}

// IsReserved reports whether sym is a reserved word that may not be used as
// a binding-site target.
func IsReserved(sym *symtab.Symbol) bool {
	return symtab.Default.IsReserved(sym)
}
