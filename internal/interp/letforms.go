package interp

import (
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

func isLetFamily(sym *symtab.Symbol) bool {
	return sym == symLet || sym == symLetStar || sym == symLetrec
}

// parsedLet is the decomposed shape of a let/let*/letrec form, after peeling
// off an optional named-let symbol and/or the `dynamic` marker.
type parsedLet struct {
	name     *symtab.Symbol // nil unless named-let
	dynamic  bool
	bindings []bindingSpec
	body     runtime.Value
}

type bindingSpec struct {
	sym  *symtab.Symbol
	form runtime.Value
}

func parseLet(operands runtime.Value) (*parsedLet, error) {
	p := &parsedLet{}

	if sym, ok := runtime.Car(operands).(*symtab.Symbol); ok && sym != symDynamic {
		if !IsReserved(sym) {
			p.name = sym
			operands = runtime.Cdr(operands)
		}
	}
	if sym, ok := runtime.Car(operands).(*symtab.Symbol); ok && sym == symDynamic {
		p.dynamic = true
		operands = runtime.Cdr(operands)
	}

	bindingList := runtime.Car(operands)
	p.body = runtime.Cdr(operands)

	items, ok := runtime.ToSlice(bindingList)
	if !ok {
		return nil, runtime.NewMalformedForm("malformed let bindings", runtime.Position{})
	}
	seen := make(map[*symtab.Symbol]bool)
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
		if IsReserved(sym) {
			return nil, runtime.NewMalformedForm("cannot bind reserved word "+sym.Name(), runtime.Position{})
		}
		if seen[sym] {
			return nil, runtime.NewMalformedForm("duplicate let binding "+sym.Name(), runtime.Position{})
		}
		seen[sym] = true
		p.bindings = append(p.bindings, bindingSpec{sym: sym, form: form})
	}
	return p, nil
}

// evalLet handles let/let*/letrec, their named and dynamic variants. It
// returns the body's tail form/env for the caller's trampoline loop, plus
// any unwind entries a dynamic variant installed.
func (ip *Interp) evalLet(kind *symtab.Symbol, operands runtime.Value, env *runtime.Env) (runtime.Value, *runtime.Env, []unwindEntry, error) {
	p, err := parseLet(operands)
	if err != nil {
		return nil, nil, nil, err
	}

	if p.dynamic {
		return ip.evalDynamicLet(kind, p, env)
	}

	child := env.NewChild()

	switch kind {
	case symLet:
		values := make([]runtime.Value, len(p.bindings))
		for i, b := range p.bindings {
			v, err := ip.Eval(b.form, env)
			if err != nil {
				return nil, nil, nil, err
			}
			values[i] = v
		}
		for i, b := range p.bindings {
			child.Bind(b.sym, values[i])
		}
	case symLetStar:
		for _, b := range p.bindings {
			v, err := ip.Eval(b.form, child)
			if err != nil {
				return nil, nil, nil, err
			}
			child.Bind(b.sym, v)
		}
	case symLetrec:
		for _, b := range p.bindings {
			child.Bind(b.sym, runtime.Unassigned)
		}
		for _, b := range p.bindings {
			v, err := ip.Eval(b.form, child)
			if err != nil {
				return nil, nil, nil, err
			}
			child.Set(b.sym, v)
		}
	}

	if p.name != nil {
		params := runtime.FromSlice(symsToValues(p.bindings))
		fn := runtime.NewCons(symLambda, runtime.NewCons(params, p.body))
		fn.Env = child
		fn.Closure = true
		child.Bind(p.name, fn)
	}

	next, nenv, res, done, err := ip.evalBodyTail(p.body, child)
	if err != nil {
		return nil, nil, nil, err
	}
	if done {
		return runtime.NewCons(symQuote, runtime.NewCons(res, runtime.Nil)), child, nil, nil
	}
	return next, nenv, nil, nil
}

func symsToValues(bindings []bindingSpec) []runtime.Value {
	out := make([]runtime.Value, len(bindings))
	for i, b := range bindings {
		out[i] = b.sym
	}
	return out
}

// evalDynamicLet mutates the global binding cells in place for the duration
// of the body, returning unwind entries the caller's Eval frame restores on
// every exit path (spec.md §4.2).
func (ip *Interp) evalDynamicLet(kind *symtab.Symbol, p *parsedLet, env *runtime.Env) (runtime.Value, *runtime.Env, []unwindEntry, error) {
	var unwinds []unwindEntry

	evalEnv := env
	for _, b := range p.bindings {
		var v runtime.Value
		var err error
		switch kind {
		case symLetrec:
			cell := env.GlobalBindingCell(b.sym)
			unwinds = append(unwinds, unwindEntry{cell: cell, old: cell.Cdr})
			cell.Cdr = runtime.Unassigned
			v, err = ip.Eval(b.form, env)
		case symLetStar:
			v, err = ip.Eval(b.form, evalEnv)
		default:
			v, err = ip.Eval(b.form, env)
		}
		if err != nil {
			for i := len(unwinds) - 1; i >= 0; i-- {
				unwinds[i].cell.Cdr = unwinds[i].old
			}
			return nil, nil, nil, err
		}
		cell := env.GlobalBindingCell(b.sym)
		if kind != symLetrec {
			unwinds = append(unwinds, unwindEntry{cell: cell, old: cell.Cdr})
		}
		cell.Cdr = v
	}

	if p.name != nil {
		params := runtime.FromSlice(symsToValues(p.bindings))
		fn := runtime.NewCons(symLambda, runtime.NewCons(params, p.body))
		fn.Closure = true // dynamic: Env stays nil
		cell := env.GlobalBindingCell(p.name)
		unwinds = append(unwinds, unwindEntry{cell: cell, old: cell.Cdr})
		cell.Cdr = fn
	}

	return runtime.NewCons(symProgn, p.body), ip.Global, unwinds, nil
}

// evalLoad reads and evaluates every form from the referenced file.
func (ip *Interp) evalLoad(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	path, ok := runtime.Car(operands).(*runtime.String)
	if !ok {
		return nil, runtime.NewMalformedForm("load expects a string path", runtime.Position{})
	}
	return ip.loadFile(path.Value, env)
}

// evalRequire loads path (or a conventional name-derived path) unless name
// is already in the modules set, then checks that loading called `provide`.
func (ip *Interp) evalRequire(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	name, ok := runtime.Car(operands).(*symtab.Symbol)
	if !ok {
		return nil, runtime.NewMalformedForm("require expects a symbol name", runtime.Position{})
	}
	if ip.Modules[name.Name()] {
		return name, nil
	}
	path := name.Name() + ".lisp"
	if ps, ok := runtime.Car(runtime.Cdr(operands)).(*runtime.String); ok {
		path = ps.Value
	}
	if _, err := ip.loadFile(path, env); err != nil {
		return nil, err
	}
	if !ip.Modules[name.Name()] {
		return nil, runtime.NewIOError("module "+name.Name()+" did not provide itself", runtime.Position{})
	}
	return name, nil
}
