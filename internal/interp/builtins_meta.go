package interp

import (
	"fmt"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// registerMeta installs the control/meta primitives (spec.md §4.3: apply,
// eval, trace, untrace, macroexpand-1, gensym, fatal) that need access to the
// evaluator itself and so cannot live in the data-only internal/builtins
// package without an import cycle.
func (ip *Interp) registerMeta() {
	def := func(name string, min, max int, fn func([]runtime.Value) (runtime.Value, error)) {
		sym := symtab.Intern(name)
		ip.Global.Define(sym, &runtime.Primitive{Name: name, MinArgs: min, MaxArgs: max, Fn: fn})
	}

	def("apply", 2, -1, func(a []runtime.Value) (runtime.Value, error) {
		fn := a[0]
		spread := a[1 : len(a)-1]
		tail, ok := runtime.ToSlice(a[len(a)-1])
		if !ok {
			return nil, runtime.NewTypeError("apply requires a proper list as its final argument", runtime.Position{})
		}
		args := append(append([]runtime.Value{}, spread...), tail...)
		return ip.Apply(fn, args)
	})

	def("eval", 1, 2, func(a []runtime.Value) (runtime.Value, error) {
		env := ip.Global
		return ip.Eval(a[0], env)
	})

	def("trace", 0, -1, func(a []runtime.Value) (runtime.Value, error) {
		for _, v := range a {
			sym, ok := v.(*symtab.Symbol)
			if !ok {
				return nil, runtime.NewTypeError("trace requires symbols", runtime.Position{})
			}
			ip.Traced[sym] = true
		}
		return runtime.Nil, nil
	})

	def("untrace", 0, -1, func(a []runtime.Value) (runtime.Value, error) {
		if len(a) == 0 {
			ip.Traced = make(map[*symtab.Symbol]bool)
			return runtime.Nil, nil
		}
		for _, v := range a {
			sym, ok := v.(*symtab.Symbol)
			if !ok {
				return nil, runtime.NewTypeError("untrace requires symbols", runtime.Position{})
			}
			delete(ip.Traced, sym)
		}
		return runtime.Nil, nil
	})

	def("macroexpand-1", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		expanded, _, err := ip.MacroExpand1(a[0])
		return expanded, err
	})

	def("gensym", 0, 1, func(a []runtime.Value) (runtime.Value, error) {
		prefix := "G"
		if len(a) == 1 {
			s, ok := a[0].(*runtime.String)
			if !ok {
				return nil, runtime.NewTypeError("gensym requires a string prefix", runtime.Position{})
			}
			prefix = s.Value
		}
		ip.gensymCounter++
		return symtab.Uninterned(fmt.Sprintf("%s%d", prefix, ip.gensymCounter)), nil
	})

	def("fatal", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		s, ok := a[0].(*runtime.String)
		if !ok {
			return nil, runtime.NewTypeError("fatal requires a string message", runtime.Position{})
		}
		return nil, runtime.NewInternal(s.Value)
	})
}

// MacroExpand1 performs one step of macro expansion on form if its head is a
// registered macro, exported so callers outside this package (the code
// generator's pass 1, spec.md §4.4) can expand top-level forms the same way
// the macroexpand-1 primitive and the evaluator's own dispatch do, without
// duplicating the lookup logic.
func (ip *Interp) MacroExpand1(form runtime.Value) (expanded runtime.Value, expandedAny bool, err error) {
	cons, ok := form.(*runtime.Cons)
	if !ok || cons.IsClosure() {
		return form, false, nil
	}
	headSym, ok := cons.Car.(*symtab.Symbol)
	if !ok {
		return form, false, nil
	}
	macro, ok := ip.Macros[headSym]
	if !ok {
		return form, false, nil
	}
	expanded, err = ip.expandMacro(macro, cons.Cdr)
	if err != nil {
		return nil, false, err
	}
	return expanded, true, nil
}

// MacroExpand repeatedly applies MacroExpand1 until form's head is no longer
// a macro, the full-expansion counterpart pass-1 code generation needs
// before lowering a top-level form (spec.md §9: "forbid using a macro before
// its definition within the same compilation unit" implies full expansion,
// not a single step, is what generation observes).
func (ip *Interp) MacroExpand(form runtime.Value) (runtime.Value, error) {
	for {
		next, did, err := ip.MacroExpand1(form)
		if err != nil {
			return nil, err
		}
		if !did {
			return form, nil
		}
		form = next
	}
}
