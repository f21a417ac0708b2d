package codegen

import (
	"fmt"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

var (
	symQuote   = symtab.Intern("quote")
	symLambda  = symtab.Intern("lambda")
	symDynamic = symtab.Intern("dynamic")
	symSetq    = symtab.Intern("setq")
	symDefine  = symtab.Intern("define")
	symDefun   = symtab.Intern("defun")
	symIf      = symtab.Intern("if")
	symCond    = symtab.Intern("cond")
	symT       = symtab.Intern("t")
	symLet     = symtab.Intern("let")
	symLetStar = symtab.Intern("let*")
	symLetrec  = symtab.Intern("letrec")
	symLabels  = symtab.Intern("labels")
	symNil     = symtab.Intern("nil")
)

// lowerForm lowers one form into zero or more Go statements emitted into fb
// plus a returned Go expression naming its value. tail is true only when
// form occupies the static tail position of the enclosing lambda/let/if/cond
// body chain (spec.md §4.4): in that position alone, a non-primitive call
// compiles to the trampoline's "pending call" shape instead of invoking
// immediately.
func (g *Generator) lowerForm(form runtime.Value, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	if runtime.IsNil(form) {
		return "genruntime.Nil", nil
	}

	if sym, ok := form.(*symtab.Symbol); ok {
		return g.lowerSymbolRef(sym, sc)
	}

	cons, isCons := form.(*runtime.Cons)
	if !isCons {
		return g.lowerLiteral(form)
	}
	if cons.IsClosure() {
		return "", runtime.NewMalformedForm("cannot generate code for a runtime-constructed closure literal", runtime.Position{})
	}

	head, headIsSym := cons.Car.(*symtab.Symbol)
	if headIsSym {
		switch head {
		case symQuote:
			return g.lowerQuote(runtime.Car(cons.Cdr)), nil
		case symIf:
			return g.lowerIf(cons.Cdr, sc, fb, tail)
		case symCond:
			return g.lowerCond(cons.Cdr, sc, fb, tail)
		case symLambda:
			return g.lowerLambda(cons.Cdr, sc, fb)
		case symSetq:
			return g.lowerSetq(cons.Cdr, sc, fb)
		case symDefine:
			return g.lowerDefine(cons.Cdr, sc, fb)
		case symDefun:
			return g.lowerDefun(cons.Cdr, sc, fb)
		case symProgn:
			return g.lowerBodySequence(cons.Cdr, sc, fb, tail)
		case symLet, symLetStar, symLetrec:
			return g.lowerLet(head, cons.Cdr, sc, fb, tail)
		case symLabels:
			return g.lowerLabels(cons.Cdr, sc, fb, tail)
		}
		if head.Name() == "load" || head.Name() == "require" || head.Name() == "provide" {
			return "", runtime.NewMalformedForm(head.Name()+" is only legal as a top-level form", runtime.Position{})
		}
	}

	return g.lowerCall(cons, sc, fb, tail)
}

func (g *Generator) lowerLiteral(v runtime.Value) (string, error) {
	switch x := v.(type) {
	case runtime.Long:
		return fmt.Sprintf("genruntime.Long(%d)", int64(x)), nil
	case runtime.Double:
		return fmt.Sprintf("genruntime.Double(%s)", goFloatLiteral(float64(x))), nil
	case runtime.Character:
		return fmt.Sprintf("genruntime.Ch(%d)", int32(x)), nil
	case *runtime.String:
		return fmt.Sprintf("genruntime.Str(%s)", goStringLiteral(x.Value)), nil
	default:
		// Any other self-evaluating atom (e.g. a runtime-constructed value
		// reachable only via a macro expansion) round-trips through the
		// constant pool, reusing the reader round-trip invariant exactly as
		// quote does.
		return g.lowerQuote(v), nil
	}
}

func (g *Generator) lowerQuote(v runtime.Value) string {
	idx := g.pool.intern(v)
	return slotName(idx)
}

func (g *Generator) lowerSymbolRef(sym *symtab.Symbol, sc *lexScope) (string, error) {
	if sym == symNil {
		return "genruntime.Nil", nil
	}
	if sym == symT {
		return `genruntime.Sym("t")`, nil
	}
	if ident, ok := sc.lookup(sym); ok {
		return ident, nil
	}
	g.referenced[sym] = true
	if name, ok := g.globals[sym]; ok {
		return name, nil
	}
	// Not a local, not one of this unit's own globals: resolve through the
	// shared evaluator's environment at program startup (a primitive, or a
	// binding contributed by a previously generated/loaded unit).
	return fmt.Sprintf("mustGlobal(%s)", goStringLiteral(sym.Name())), nil
}

// lowerBodySequence lowers a (possibly empty) list of forms as a body: every
// form but the last is evaluated for effect only; the last is lowered with
// tail propagated from the caller.
func (g *Generator) lowerBodySequence(body runtime.Value, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	items, ok := runtime.ToSlice(body)
	if !ok {
		return "", runtime.NewMalformedForm("improper body", runtime.Position{})
	}
	if len(items) == 0 {
		return "genruntime.Nil", nil
	}
	for _, f := range items[:len(items)-1] {
		expr, err := g.lowerForm(f, sc, fb, false)
		if err != nil {
			return "", err
		}
		fb.emit("_ = %s", expr)
	}
	return g.lowerForm(items[len(items)-1], sc, fb, tail)
}

func (g *Generator) lowerIf(operands runtime.Value, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	items, ok := runtime.ToSlice(operands)
	if !ok || len(items) < 2 || len(items) > 3 {
		return "", runtime.NewMalformedForm("if requires (if cond then [else])", runtime.Position{})
	}
	testExpr, err := g.lowerForm(items[0], sc, fb, false)
	if err != nil {
		return "", err
	}
	result := fb.tmp("ifresult")
	fb.emit("var %s genruntime.Value", result)
	fb.emit("if genruntime.Truthy(%s) {", testExpr)
	thenExpr, err := g.lowerForm(items[1], sc, fb, tail)
	if err != nil {
		return "", err
	}
	fb.emit("%s = %s", result, thenExpr)
	fb.emit("} else {")
	if len(items) == 3 {
		elseExpr, err := g.lowerForm(items[2], sc, fb, tail)
		if err != nil {
			return "", err
		}
		fb.emit("%s = %s", result, elseExpr)
	} else {
		fb.emit("%s = genruntime.Nil", result)
	}
	fb.emit("}")
	return result, nil
}

func (g *Generator) lowerCond(operands runtime.Value, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	clauses, ok := runtime.ToSlice(operands)
	if !ok {
		return "", runtime.NewMalformedForm("malformed cond", runtime.Position{})
	}
	if len(clauses) == 0 {
		return "genruntime.Nil", nil
	}
	result := fb.tmp("condresult")
	fb.emit("var %s genruntime.Value", result)
	matched := fb.tmp("condmatched")
	fb.emit("%s := false", matched)

	for i, clause := range clauses {
		parts, ok := runtime.ToSlice(clause)
		if !ok || len(parts) == 0 {
			return "", runtime.NewMalformedForm("malformed cond clause", runtime.Position{})
		}
		if sym, ok := parts[0].(*symtab.Symbol); ok && sym == symT {
			if i != len(clauses)-1 {
				g.warnings = append(g.warnings, "cond: form(s) follow a default (t) clause and are unreachable")
			}
			fb.emit("if !%s {", matched)
			expr, err := g.lowerBodySequence(runtime.FromSlice(parts[1:]), sc, fb, tail)
			if err != nil {
				return "", err
			}
			fb.emit("%s = %s", result, expr)
			fb.emit("%s = true", matched)
			fb.emit("}")
			continue
		}
		testExpr, err := g.lowerForm(parts[0], sc, fb, false)
		if err != nil {
			return "", err
		}
		fb.emit("if !%s && genruntime.Truthy(%s) {", matched, testExpr)
		if len(parts) == 1 {
			fb.emit("%s = %s", result, testExpr)
		} else {
			expr, err := g.lowerBodySequence(runtime.FromSlice(parts[1:]), sc, fb, tail)
			if err != nil {
				return "", err
			}
			fb.emit("%s = %s", result, expr)
		}
		fb.emit("%s = true", matched)
		fb.emit("}")
	}
	fb.emit("if !%s { %s = genruntime.Nil }", matched, result)
	return result, nil
}

func goFloatLiteral(f float64) string {
	return fmt.Sprintf("%g", f)
}

func goStringLiteral(s string) string {
	return fmt.Sprintf("%q", s)
}
