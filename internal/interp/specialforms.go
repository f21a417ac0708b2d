package interp

import (
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// makeLambda builds a closure value from the operand list of a `lambda`/
// `lambda dynamic` form: (params body...) or (dynamic params body...).
func (ip *Interp) makeLambda(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	dynamic := false
	if sym, ok := runtime.Car(operands).(*symtab.Symbol); ok && sym == symDynamic {
		dynamic = true
		operands = runtime.Cdr(operands)
	}
	params := runtime.Car(operands)
	body := runtime.Cdr(operands)

	if err := validateParamList(params); err != nil {
		return nil, err
	}

	closureEnv := env
	if dynamic {
		closureEnv = nil
	}
	c := runtime.NewCons(symLambda, runtime.NewCons(params, body))
	c.Env = closureEnv
	c.Closure = true
	return c, nil
}

func validateParamList(params runtime.Value) error {
	if sym, ok := params.(*symtab.Symbol); ok {
		if IsReserved(sym) {
			return runtime.NewMalformedForm("cannot bind reserved word "+sym.Name(), runtime.Position{})
		}
		return nil
	}
	seen := make(map[*symtab.Symbol]bool)
	cur := params
	for {
		c, ok := cur.(*runtime.Cons)
		if !ok {
			break
		}
		sym, ok := c.Car.(*symtab.Symbol)
		if !ok {
			return runtime.NewMalformedForm("lambda parameter must be a symbol", runtime.Position{})
		}
		if IsReserved(sym) {
			return runtime.NewMalformedForm("cannot bind reserved word "+sym.Name(), runtime.Position{})
		}
		if seen[sym] {
			return runtime.NewMalformedForm("duplicate parameter "+sym.Name(), runtime.Position{})
		}
		seen[sym] = true
		cur = c.Cdr
	}
	if sym, ok := cur.(*symtab.Symbol); ok && IsReserved(sym) {
		return runtime.NewMalformedForm("cannot bind reserved word "+sym.Name(), runtime.Position{})
	}
	return nil
}

// evalSetq evaluates (sym1 form1 sym2 form2 ...) pairs left to right,
// mutating existing binding cells; the value of the last assignment is
// returned.
func (ip *Interp) evalSetq(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	items, ok := runtime.ToSlice(operands)
	if !ok || len(items)%2 != 0 || len(items) == 0 {
		return nil, runtime.NewMalformedForm("setq requires symbol/form pairs", runtime.Position{})
	}
	var result runtime.Value = runtime.Nil
	for i := 0; i < len(items); i += 2 {
		sym, ok := items[i].(*symtab.Symbol)
		if !ok {
			return nil, runtime.NewMalformedForm("setq target must be a symbol", runtime.Position{})
		}
		if IsReserved(sym) {
			return nil, runtime.NewMalformedForm("cannot setq reserved word "+sym.Name(), runtime.Position{})
		}
		v, err := ip.Eval(items[i+1], env)
		if err != nil {
			return nil, err
		}
		if !env.Set(sym, v) {
			return nil, runtime.NewUnbound(sym.Name(), runtime.Position{})
		}
		result = v
	}
	return result, nil
}

// evalDefine evaluates (sym form): if sym is already bound in the global
// frame, mutate; else prepend. Returns sym.
func (ip *Interp) evalDefine(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	sym, ok := runtime.Car(operands).(*symtab.Symbol)
	if !ok {
		return nil, runtime.NewMalformedForm("define target must be a symbol", runtime.Position{})
	}
	if IsReserved(sym) {
		return nil, runtime.NewMalformedForm("cannot define reserved word "+sym.Name(), runtime.Position{})
	}
	formOperand := runtime.Car(runtime.Cdr(operands))
	v, err := ip.Eval(formOperand, env)
	if err != nil {
		return nil, err
	}
	ip.Global.Define(sym, v)
	return sym, nil
}

// evalDefun rewrites (sym (params...) body...) to
// (define sym (lambda (params...) body...)), per spec.md §4.2.
func (ip *Interp) evalDefun(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	sym := runtime.Car(operands)
	rest := runtime.Cdr(operands)
	lambdaForm := runtime.NewCons(symLambda, rest)
	defineForm := runtime.NewCons(sym, runtime.NewCons(lambdaForm, runtime.Nil))
	return ip.evalDefine(defineForm, env)
}

// evalDefmacro installs (or, with no body, uninstalls) a macro closure.
func (ip *Interp) evalDefmacro(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	sym, ok := runtime.Car(operands).(*symtab.Symbol)
	if !ok {
		return nil, runtime.NewMalformedForm("defmacro target must be a symbol", runtime.Position{})
	}
	rest := runtime.Cdr(operands)
	if runtime.IsNil(rest) {
		delete(ip.Macros, sym)
		return sym, nil
	}
	closure, err := ip.makeLambda(rest, env)
	if err != nil {
		return nil, err
	}
	ip.Macros[sym] = closure.(*runtime.Cons)
	return sym, nil
}

// expandMacro applies a macro's closure to the unevaluated argument list.
func (ip *Interp) expandMacro(macro *runtime.Cons, rawArgs runtime.Value) (runtime.Value, error) {
	args, ok := runtime.ToSlice(rawArgs)
	if !ok {
		return nil, runtime.NewMalformedForm("improper macro argument list", runtime.Position{})
	}
	return ip.Apply(macro, args)
}

// evalIf returns the branch to continue evaluating in tail position.
func (ip *Interp) evalIf(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	items, ok := runtime.ToSlice(operands)
	if !ok || len(items) < 2 || len(items) > 3 {
		return nil, runtime.NewMalformedForm("if requires (if cond then [else])", runtime.Position{})
	}
	test, err := ip.Eval(items[0], env)
	if err != nil {
		return nil, err
	}
	if runtime.Truthy(test) {
		return items[1], nil
	}
	if len(items) == 3 {
		return items[2], nil
	}
	return runtime.Nil, nil
}

// evalCond returns the body of the first matching clause (wrapped in progn)
// for tail continuation, or Nil if none match.
func (ip *Interp) evalCond(operands runtime.Value, env *runtime.Env) (runtime.Value, error) {
	clauses, ok := runtime.ToSlice(operands)
	if !ok {
		return nil, runtime.NewMalformedForm("malformed cond", runtime.Position{})
	}
	for _, clause := range clauses {
		parts, ok := runtime.ToSlice(clause)
		if !ok || len(parts) == 0 {
			return nil, runtime.NewMalformedForm("malformed cond clause", runtime.Position{})
		}
		test, err := ip.Eval(parts[0], env)
		if err != nil {
			return nil, err
		}
		if runtime.Truthy(test) {
			if len(parts) == 1 {
				return runtime.NewCons(symQuote, runtime.NewCons(test, runtime.Nil)), nil
			}
			return runtime.NewCons(symProgn, runtime.FromSlice(parts[1:])), nil
		}
	}
	return runtime.Nil, nil
}

// evalLabels extends env with mutually-recursive local functions, all of
// whose closures see every name, then returns the body for tail evaluation.
func (ip *Interp) evalLabels(operands runtime.Value, env *runtime.Env) (runtime.Value, *runtime.Env, error) {
	defs, ok := runtime.ToSlice(runtime.Car(operands))
	if !ok {
		return nil, nil, runtime.NewMalformedForm("malformed labels bindings", runtime.Position{})
	}
	body := runtime.Cdr(operands)
	child := env.NewChild()

	for _, def := range defs {
		parts, ok := runtime.ToSlice(def)
		if !ok || len(parts) < 2 {
			return nil, nil, runtime.NewMalformedForm("malformed labels binding", runtime.Position{})
		}
		sym, ok := parts[0].(*symtab.Symbol)
		if !ok {
			return nil, nil, runtime.NewMalformedForm("labels name must be a symbol", runtime.Position{})
		}
		params := parts[1]
		lambdaBody := runtime.FromSlice(parts[2:])
		closure := runtime.NewCons(symLambda, runtime.NewCons(params, lambdaBody))
		closure.Env = child
		closure.Closure = true
		child.Bind(sym, closure)
	}

	next, nenv, res, done, err := ip.evalBodyTail(body, child)
	if err != nil {
		return nil, nil, err
	}
	if done {
		return runtime.NewCons(symQuote, runtime.NewCons(res, runtime.Nil)), child, nil
	}
	return next, nenv, nil
}

// evalDeclaim handles `(declaim (optimize (speed n)) ...)`; every other
// declaim form is a no-op.
func (ip *Interp) evalDeclaim(operands runtime.Value) {
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
				ip.Speed = int(n)
			}
		}
	}
}
