package codegen

import (
	"fmt"
	"strings"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// paramShape is the parsed parameter list of a lambda/labels binding:
// either a single symbol bound to the whole argument list, or a fixed
// prefix plus an optional dotted-tail rest symbol (spec.md §4.4: "parameter
// binding mirrors the evaluator's zip, including dotted tails").
type paramShape struct {
	all   *symtab.Symbol
	fixed []*symtab.Symbol
	rest  *symtab.Symbol
}

func parseParamShape(params runtime.Value) (paramShape, error) {
	if sym, ok := params.(*symtab.Symbol); ok {
		return paramShape{all: sym}, nil
	}
	var shape paramShape
	cur := params
	for {
		c, ok := cur.(*runtime.Cons)
		if !ok {
			break
		}
		sym, ok := c.Car.(*symtab.Symbol)
		if !ok {
			return shape, runtime.NewMalformedForm("lambda parameter must be a symbol", runtime.Position{})
		}
		shape.fixed = append(shape.fixed, sym)
		cur = c.Cdr
	}
	if sym, ok := cur.(*symtab.Symbol); ok {
		shape.rest = sym
	}
	return shape, nil
}

// lowerLambda compiles a `lambda` form into a Go closure literal wrapped in
// a *genruntime.GoClosure, returned as an inline expression. The closure's
// own Go function body is built in a fresh funcBuilder (it is a distinct Go
// function), and its final value is driven through the trampoline exactly
// once (spec.md §4.4: "the trampoline loop, applied at the top of each
// function's body").
func (g *Generator) lowerLambda(operands runtime.Value, sc *lexScope, outer *funcBuilder) (string, error) {
	if sym, ok := runtime.Car(operands).(*symtab.Symbol); ok && sym == symDynamic {
		return "", runtime.NewNotImplemented("lambda dynamic is not supported by the ahead-of-time code generator", runtime.Position{})
	}
	params := runtime.Car(operands)
	body := runtime.Cdr(operands)

	shape, err := parseParamShape(params)
	if err != nil {
		return "", err
	}

	child := newLexScope(sc)
	inner := &funcBuilder{g: g}

	if shape.all != nil {
		restVar := g.idents.fresh(shape.all.Name())
		inner.emit("%s := genruntime.FromSlice(args)", restVar)
		child.bind(shape.all, restVar)
	} else {
		for i, sym := range shape.fixed {
			child.bind(sym, fmt.Sprintf("args[%d]", i))
		}
		if shape.rest != nil {
			restVar := g.idents.fresh(shape.rest.Name())
			inner.emit("%s := genruntime.FromSlice(args[%d:])", restVar, len(shape.fixed))
			child.bind(shape.rest, restVar)
		}
	}

	tailExpr, err := g.lowerBodySequence(body, child, inner, true)
	if err != nil {
		return "", err
	}
	inner.emit("return eng.Trampoline(%s, nil)", tailExpr)

	fnVar := outer.tmp("lambda")
	outer.emit("%s := &genruntime.GoClosure{Name: %q, Fn: func(args []genruntime.Value) (genruntime.Value, error) {",
		fnVar, fmt.Sprintf("lambda@%d", len(g.order)+g.idents.counts["anon"]))
	outer.lines = append(outer.lines, inner.lines...)
	outer.emit("}}")
	return fnVar, nil
}

// lowerCall lowers an ordinary function application. Arguments are always
// evaluated eagerly (non-tail); only the call itself may be in tail
// position, in which case it compiles to the trampoline's pending-call
// shape instead of invoking synchronously (spec.md §4.4's funcall/tailcall
// shapes).
func (g *Generator) lowerCall(cons *runtime.Cons, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	args, ok := runtime.ToSlice(cons.Cdr)
	if !ok {
		return "", runtime.NewMalformedForm("improper call form", runtime.Position{})
	}

	if headSym, ok := cons.Car.(*symtab.Symbol); ok && g.speed >= 1 {
		if expr, handled, err := g.lowerOpenCoded(headSym, args, sc, fb); handled || err != nil {
			return expr, err
		}
	}

	calleeExpr, err := g.lowerForm(cons.Car, sc, fb, false)
	if err != nil {
		return "", err
	}
	argExprs := make([]string, len(args))
	for i, a := range args {
		expr, err := g.lowerForm(a, sc, fb, false)
		if err != nil {
			return "", err
		}
		argExprs[i] = expr
	}
	argsLiteral := fmt.Sprintf("[]genruntime.Value{%s}", strings.Join(argExprs, ", "))

	if tail {
		return fmt.Sprintf("genruntime.Tail(%s, %s)", calleeExpr, argsLiteral), nil
	}

	resVar := fb.tmp("call")
	errVar := fb.tmp("err")
	fb.emit("%s, %s := eng.Call(%s, %s)", resVar, errVar, calleeExpr, argsLiteral)
	fb.emit("if %s != nil { return nil, %s }", errVar, errVar)
	return resVar, nil
}

// lowerOpenCoded inlines a small set of primitive operators directly as Go
// expressions when the optimizer speed level is at least 1 (spec.md §4.4:
// "recognized primitive operators are emitted as inline expressions"),
// mirroring part of the interpreter's own open-coding fast path
// (internal/interp/opencode.go): the operators handled here are a subset of
// the ones the interpreter open-codes. Anything not recognized here falls
// through to the generic runtime-registry call.
func (g *Generator) lowerOpenCoded(head *symtab.Symbol, args []runtime.Value, sc *lexScope, fb *funcBuilder) (string, bool, error) {
	lower := func(v runtime.Value) (string, error) { return g.lowerForm(v, sc, fb, false) }

	switch head.Name() {
	case "cons":
		if len(args) != 2 {
			return "", false, nil
		}
		a, err := lower(args[0])
		if err != nil {
			return "", true, err
		}
		b, err := lower(args[1])
		if err != nil {
			return "", true, err
		}
		return fmt.Sprintf("genruntime.Cons(%s, %s)", a, b), true, nil

	case "car", "cdr":
		if len(args) != 1 {
			return "", false, nil
		}
		a, err := lower(args[0])
		if err != nil {
			return "", true, err
		}
		fn := "genruntime.Car"
		if head.Name() == "cdr" {
			fn = "genruntime.Cdr"
		}
		return fmt.Sprintf("%s(%s)", fn, a), true, nil

	case "1+", "1-":
		if len(args) != 1 {
			return "", false, nil
		}
		a, err := lower(args[0])
		if err != nil {
			return "", true, err
		}
		v := fb.tmp("incr")
		errv := fb.tmp("err")
		delta := "1"
		if head.Name() == "1-" {
			delta = "-1"
		}
		fb.emit("%s, %s := genruntime.NumAdd(%s, %s)", v, errv, a, delta)
		fb.emit("if %s != nil { return nil, %s }", errv, errv)
		return v, true, nil

	case "+", "-", "*", "/":
		if len(args) < 1 {
			return "", false, nil
		}
		exprs := make([]string, len(args))
		for i, a := range args {
			e, err := lower(a)
			if err != nil {
				return "", true, err
			}
			exprs[i] = e
		}
		v := fb.tmp("arith")
		errv := fb.tmp("err")
		fb.emit("%s, %s := genruntime.NumFold(%q, []genruntime.Value{%s})", v, errv, head.Name(), strings.Join(exprs, ", "))
		fb.emit("if %s != nil { return nil, %s }", errv, errv)
		return v, true, nil
	}
	return "", false, nil
}

func (g *Generator) lowerSetq(operands runtime.Value, sc *lexScope, fb *funcBuilder) (string, error) {
	items, ok := runtime.ToSlice(operands)
	if !ok || len(items)%2 != 0 || len(items) == 0 {
		return "", runtime.NewMalformedForm("setq requires symbol/value pairs", runtime.Position{})
	}
	var last string
	for i := 0; i < len(items); i += 2 {
		sym, ok := items[i].(*symtab.Symbol)
		if !ok {
			return "", runtime.NewMalformedForm("setq target must be a symbol", runtime.Position{})
		}
		expr, err := g.lowerForm(items[i+1], sc, fb, false)
		if err != nil {
			return "", err
		}
		if ident, ok := sc.lookup(sym); ok {
			fb.emit("%s = %s", ident, expr)
			last = ident
			continue
		}
		target := g.declareGlobal(sym)
		fb.emit("%s = %s", target, expr)
		fb.emit("eng.Global().Define(genruntime.Sym(%q), %s)", sym.Name(), target)
		last = target
	}
	return last, nil
}

func (g *Generator) lowerDefine(operands runtime.Value, sc *lexScope, fb *funcBuilder) (string, error) {
	items, ok := runtime.ToSlice(operands)
	if !ok || len(items) < 1 || len(items) > 2 {
		return "", runtime.NewMalformedForm("define requires (define name [value])", runtime.Position{})
	}
	sym, ok := items[0].(*symtab.Symbol)
	if !ok {
		return "", runtime.NewMalformedForm("define target must be a symbol", runtime.Position{})
	}
	target := g.declareGlobal(sym)
	var expr string = "genruntime.Nil"
	if len(items) == 2 {
		var err error
		expr, err = g.lowerForm(items[1], sc, fb, false)
		if err != nil {
			return "", err
		}
	}
	fb.emit("%s = %s", target, expr)
	fb.emit("eng.Global().Define(genruntime.Sym(%q), %s)", sym.Name(), target)
	return target, nil
}

func (g *Generator) lowerDefun(operands runtime.Value, sc *lexScope, fb *funcBuilder) (string, error) {
	items, ok := runtime.ToSlice(operands)
	if !ok || len(items) < 2 {
		return "", runtime.NewMalformedForm("defun requires (defun name params body...)", runtime.Position{})
	}
	sym, ok := items[0].(*symtab.Symbol)
	if !ok {
		return "", runtime.NewMalformedForm("defun name must be a symbol", runtime.Position{})
	}
	target := g.declareGlobal(sym)
	lambdaOperands := runtime.NewCons(items[1], runtime.FromSlice(items[2:]))
	expr, err := g.lowerLambda(lambdaOperands, sc, fb)
	if err != nil {
		return "", err
	}
	fb.emit("%s = %s", target, expr)
	fb.emit("eng.Global().Define(genruntime.Sym(%q), %s)", sym.Name(), target)
	return target, nil
}
