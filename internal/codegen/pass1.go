package codegen

import (
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

var (
	symProgn    = symtab.Intern("progn")
	symLoad     = symtab.Intern("load")
	symRequire  = symtab.Intern("require")
	symProvide  = symtab.Intern("provide")
	symDeclaim  = symtab.Intern("declaim")
	symOptimize = symtab.Intern("optimize")
	symSpeed    = symtab.Intern("speed")
	symDefmacro = symtab.Intern("defmacro")
)

// flattenTop implements pass 1 (spec.md §4.4): it fully macro-expands each
// top-level form, then recognizes and consumes `progn` (flattened in
// place), `load`/`require`/`provide` (inlined or tracked, never emitted),
// `declaim` (adjusts g.speed), and `defmacro` (registered with the shared
// evaluator, not emitted); every other form is appended to the returned
// stream for pass 2 to lower.
func (g *Generator) flattenTop(forms []runtime.Value) ([]runtime.Value, error) {
	var out []runtime.Value
	for _, f := range forms {
		expanded, err := g.ip.MacroExpand(f)
		if err != nil {
			return nil, err
		}
		flat, err := g.flattenOne(expanded)
		if err != nil {
			return nil, err
		}
		out = append(out, flat...)
	}
	return out, nil
}

func (g *Generator) flattenOne(f runtime.Value) ([]runtime.Value, error) {
	cons, ok := f.(*runtime.Cons)
	if !ok || cons.IsClosure() {
		return []runtime.Value{f}, nil
	}
	head, headIsSym := cons.Car.(*symtab.Symbol)
	if !headIsSym {
		return []runtime.Value{f}, nil
	}

	switch head {
	case symProgn:
		items, ok := runtime.ToSlice(cons.Cdr)
		if !ok {
			return nil, runtime.NewMalformedForm("malformed progn", runtime.Position{})
		}
		return g.flattenTop(items)

	case symDefmacro:
		if _, err := g.ip.Eval(f, g.ip.Global); err != nil {
			return nil, err
		}
		return nil, nil

	case symDeclaim:
		g.applyDeclaim(cons.Cdr)
		return nil, nil

	case symLoad:
		s, ok := runtime.Car(cons.Cdr).(*runtime.String)
		if !ok {
			return nil, runtime.NewMalformedForm("load expects a string path", runtime.Position{})
		}
		loaded, err := g.readFile(s.Value)
		if err != nil {
			return nil, err
		}
		return g.flattenTop(loaded)

	case symRequire:
		// Mirrors interp.evalRequire exactly: name is a literal (unevaluated)
		// symbol, an optional second literal string overrides the
		// name-derived path, and loading the file must call `provide` on the
		// same name or the require fails.
		name, ok := runtime.Car(cons.Cdr).(*symtab.Symbol)
		if !ok {
			return nil, runtime.NewMalformedForm("require expects a symbol name", runtime.Position{})
		}
		if g.ip.Modules[name.Name()] {
			return nil, nil
		}
		path := name.Name() + ".lisp"
		if ps, ok := runtime.Car(runtime.Cdr(cons.Cdr)).(*runtime.String); ok {
			path = ps.Value
		}
		loaded, err := g.readFile(path)
		if err != nil {
			return nil, err
		}
		flat, err := g.flattenTop(loaded)
		if err != nil {
			return nil, err
		}
		if !g.ip.Modules[name.Name()] {
			return nil, runtime.NewIOError("module "+name.Name()+" did not provide itself", runtime.Position{})
		}
		return flat, nil

	case symProvide:
		// Mirrors interp.symProvide's bookkeeping effect: mark the module
		// satisfied so an enclosing require succeeds. Nothing needs to be
		// emitted — g.ip.Modules is generation-time bookkeeping only, never
		// observed by the generated program itself.
		name, ok := runtime.Car(cons.Cdr).(*symtab.Symbol)
		if !ok {
			return nil, runtime.NewMalformedForm("provide expects a symbol", runtime.Position{})
		}
		g.ip.Modules[name.Name()] = true
		return nil, nil
	}

	return []runtime.Value{f}, nil
}

func (g *Generator) applyDeclaim(operands runtime.Value) {
	items, ok := runtime.ToSlice(operands)
	if !ok {
		return
	}
	for _, item := range items {
		parts, ok := runtime.ToSlice(item)
		if !ok || len(parts) < 1 {
			continue
		}
		head, ok := parts[0].(*symtab.Symbol)
		if !ok || head != symOptimize {
			continue
		}
		for _, sub := range parts[1:] {
			subParts, ok := runtime.ToSlice(sub)
			if !ok || len(subParts) != 2 {
				continue
			}
			key, ok := subParts[0].(*symtab.Symbol)
			if !ok || key != symSpeed {
				continue
			}
			if n, ok := subParts[1].(runtime.Long); ok {
				g.speed = int(n)
			}
		}
	}
}

// readFile reads and parses every form of a `load`/`require`d file, resolved
// against the shared evaluator's LoadDir exactly as interp.loadFile does,
// except the forms are returned unevaluated for pass 2 to lower.
func (g *Generator) readFile(path string) ([]runtime.Value, error) {
	return loadLispForms(path, g.ip.LoadDir)
}
