package codegen

import (
	"strings"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

type letBinding struct {
	sym  *symtab.Symbol
	form runtime.Value
}

func parseLetBindings(bindingList runtime.Value) ([]letBinding, error) {
	items, ok := runtime.ToSlice(bindingList)
	if !ok {
		return nil, runtime.NewMalformedForm("malformed let bindings", runtime.Position{})
	}
	out := make([]letBinding, 0, len(items))
	for _, item := range items {
		var sym *symtab.Symbol
		var form runtime.Value = runtime.Nil
		if s, ok := item.(*symtab.Symbol); ok {
			sym = s
		} else {
			parts, ok := runtime.ToSlice(item)
			if !ok || len(parts) < 1 || len(parts) > 2 {
				return nil, runtime.NewMalformedForm("malformed let binding", runtime.Position{})
			}
			sym, ok = parts[0].(*symtab.Symbol)
			if !ok {
				return nil, runtime.NewMalformedForm("let binding target must be a symbol", runtime.Position{})
			}
			if len(parts) == 2 {
				form = parts[1]
			}
		}
		out = append(out, letBinding{sym: sym, form: form})
	}
	return out, nil
}

// lowerLet compiles let/let*/letrec (the non-dynamic, unnamed case; named
// let and the dynamic variants are not supported by the generator, spec.md
// §9's open question on apply notwithstanding — see DESIGN.md). `let`
// evaluates every init form in the outer scope before binding any of them;
// `let*` binds each in turn, visible to the next; `letrec` pre-declares all
// names as Go vars so mutually referencing initializers (almost always
// lambdas) can close over one another.
func (g *Generator) lowerLet(kind *symtab.Symbol, operands runtime.Value, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	if sym, ok := runtime.Car(operands).(*symtab.Symbol); ok {
		if sym == symDynamic {
			return "", runtime.NewNotImplemented("dynamic let is not supported by the ahead-of-time code generator; interpret this form instead", runtime.Position{})
		}
		return "", runtime.NewNotImplemented("named let is not supported by the ahead-of-time code generator; interpret this form instead", runtime.Position{})
	}

	specs, err := parseLetBindings(runtime.Car(operands))
	if err != nil {
		return "", err
	}
	body := runtime.Cdr(operands)
	child := newLexScope(sc)

	switch kind {
	case symLet:
		exprs := make([]string, len(specs))
		for i, b := range specs {
			e, err := g.lowerForm(b.form, sc, fb, false)
			if err != nil {
				return "", err
			}
			exprs[i] = e
		}
		for i, b := range specs {
			v := g.idents.fresh(b.sym.Name())
			fb.emit("%s := %s", v, exprs[i])
			child.bind(b.sym, v)
		}

	case symLetStar:
		for _, b := range specs {
			e, err := g.lowerForm(b.form, child, fb, false)
			if err != nil {
				return "", err
			}
			v := g.idents.fresh(b.sym.Name())
			fb.emit("%s := %s", v, e)
			child.bind(b.sym, v)
		}

	case symLetrec:
		names := make([]string, len(specs))
		for i, b := range specs {
			names[i] = g.idents.fresh(b.sym.Name())
			child.bind(b.sym, names[i])
		}
		fb.emit("var %s genruntime.Value", strings.Join(names, ", "))
		for i, b := range specs {
			e, err := g.lowerForm(b.form, child, fb, false)
			if err != nil {
				return "", err
			}
			fb.emit("%s = %s", names[i], e)
		}
	}

	return g.lowerBodySequence(body, child, fb, tail)
}

// lowerLabels compiles `labels`: every binding is a named lambda, visible to
// every other binding's body (spec.md §4.4: "a self-referential record
// whose fields are the local functions"), compiled here as a set of
// forward-declared Go vars each assigned a GoClosure whose body can
// reference its siblings.
func (g *Generator) lowerLabels(operands runtime.Value, sc *lexScope, fb *funcBuilder, tail bool) (string, error) {
	defs, ok := runtime.ToSlice(runtime.Car(operands))
	if !ok {
		return "", runtime.NewMalformedForm("malformed labels bindings", runtime.Position{})
	}
	body := runtime.Cdr(operands)
	child := newLexScope(sc)

	names := make([]string, len(defs))
	params := make([]runtime.Value, len(defs))
	bodies := make([]runtime.Value, len(defs))

	for i, def := range defs {
		parts, ok := runtime.ToSlice(def)
		if !ok || len(parts) < 2 {
			return "", runtime.NewMalformedForm("malformed labels binding", runtime.Position{})
		}
		sym, ok := parts[0].(*symtab.Symbol)
		if !ok {
			return "", runtime.NewMalformedForm("labels name must be a symbol", runtime.Position{})
		}
		names[i] = g.idents.fresh(sym.Name())
		child.bind(sym, names[i])
		params[i] = parts[1]
		bodies[i] = runtime.FromSlice(parts[2:])
	}

	fb.emit("var %s genruntime.Value", strings.Join(names, ", "))
	for i := range defs {
		lambdaOperands := runtime.NewCons(params[i], bodies[i])
		expr, err := g.lowerLambda(lambdaOperands, child, fb)
		if err != nil {
			return "", err
		}
		fb.emit("%s = %s", names[i], expr)
	}

	return g.lowerBodySequence(body, child, fb, tail)
}
