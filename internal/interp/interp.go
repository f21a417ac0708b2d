package interp

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/glisp-lang/glisp/internal/builtins"
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// notHandledT is the open-coding sentinel (spec.md §4.2): when the fast path
// does not recognize the operator/argument shape it returns this value and
// the evaluator falls through to the general application path.
type notHandledT struct{}

func (notHandledT) Type() string { return "NOT-HANDLED" }

var notHandled runtime.Value = notHandledT{}

// unwindEntry is one (binding-cell . old-value) pair installed by a dynamic
// let, restored in reverse order on every exit path (spec.md §4.2).
type unwindEntry struct {
	cell *runtime.Cons
	old  runtime.Value
}

// Interp is the evaluator's shared state: the global environment, the macro
// table, the `require`/`provide` module set, the open-coding speed level set
// by `declaim`, and the set of traced function symbols.
type Interp struct {
	Global  *runtime.Env
	Macros  map[*symtab.Symbol]*runtime.Cons
	Modules map[string]bool
	Traced  map[*symtab.Symbol]bool
	Speed   int
	Log     *logrus.Logger

	// LoadDir is the base directory `load`/`require` resolve relative paths
	// against.
	LoadDir string

	callDepth     int
	maxDepth      int
	gensymCounter int
}

// Option configures an Interp at construction.
type Option func(*Interp)

// WithLogger overrides the default logrus logger.
func WithLogger(l *logrus.Logger) Option { return func(i *Interp) { i.Log = l } }

// WithMaxDepth sets the recursion guard (0 disables the check).
func WithMaxDepth(n int) Option { return func(i *Interp) { i.maxDepth = n } }

// WithLoadDir sets the base directory `load`/`require` resolve paths against.
func WithLoadDir(dir string) Option { return func(i *Interp) { i.LoadDir = dir } }

// New creates an Interp with an empty global environment.
func New(opts ...Option) *Interp {
	i := &Interp{
		Global:   runtime.NewEnv(),
		Macros:   make(map[*symtab.Symbol]*runtime.Cons),
		Modules:  make(map[string]bool),
		Traced:   make(map[*symtab.Symbol]bool),
		Speed:    1,
		Log:      defaultLogger(),
		maxDepth: 10000,
	}
	for _, opt := range opts {
		opt(i)
	}
	builtins.Register(i.Global)
	i.registerMeta()
	i.Global.Define(symNil, runtime.Nil)
	return i
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	return l
}

func wrapForm(err error, form runtime.Value) error {
	if err == nil {
		return nil
	}
	return runtime.WrapInForm(err, runtime.Print(form, true))
}

func formPos(form runtime.Value) runtime.Position {
	if c, ok := form.(*runtime.Cons); ok {
		return c.Pos
	}
	return runtime.Position{}
}

// Eval evaluates form in env with proper tail calls: the loop rebinds
// form/env itself whenever the next step is a tail position (spec.md §4.2),
// rather than recursing, so a long chain of tail calls runs in constant Go
// stack space.
func (ip *Interp) Eval(form runtime.Value, env *runtime.Env) (runtime.Value, error) {
	ip.callDepth++
	if ip.maxDepth > 0 && ip.callDepth > ip.maxDepth {
		ip.callDepth--
		return nil, runtime.NewInternal("recursion depth exceeded")
	}
	defer func() { ip.callDepth-- }()

	var unwinds []unwindEntry
	defer func() {
		for i := len(unwinds) - 1; i >= 0; i-- {
			unwinds[i].cell.Cdr = unwinds[i].old
		}
	}()

	for {
		if runtime.IsNil(form) {
			return runtime.Nil, nil
		}

		sym, isSym := form.(*symtab.Symbol)
		if isSym {
			v, ok := env.Get(sym)
			if !ok {
				return nil, runtime.NewUnbound(sym.Name(), runtime.Position{})
			}
			if runtime.IsUnassigned(v) {
				return nil, runtime.NewUnbound(sym.Name(), runtime.Position{})
			}
			return v, nil
		}

		cons, isCons := form.(*runtime.Cons)
		if !isCons {
			return form, nil
		}
		if cons.IsClosure() {
			return cons, nil
		}

		head := cons.Car
		headSym, headIsSym := head.(*symtab.Symbol)

		if headIsSym {
			switch headSym {
			case symQuote:
				return runtime.Car(cons.Cdr), nil

			case symLambda:
				return ip.makeLambda(cons.Cdr, env)

			case symSetq:
				v, err := ip.evalSetq(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil

			case symDefine:
				v, err := ip.evalDefine(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil

			case symDefun:
				v, err := ip.evalDefun(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil

			case symDefmacro:
				v, err := ip.evalDefmacro(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil

			case symIf:
				next, err := ip.evalIf(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				form = next
				continue

			case symCond:
				next, err := ip.evalCond(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				form = next
				continue

			case symProgn:
				next, nenv, res, done, err := ip.evalBodyTail(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				if done {
					return res, nil
				}
				form, env = next, nenv
				continue

			case symLabels:
				next, nenv, err := ip.evalLabels(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				form, env = next, nenv
				continue

			case symLoad:
				v, err := ip.evalLoad(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil

			case symRequire:
				v, err := ip.evalRequire(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil

			case symProvide:
				name, ok := runtime.Car(cons.Cdr).(*symtab.Symbol)
				if !ok {
					return nil, wrapForm(runtime.NewMalformedForm("provide expects a symbol", formPos(form)), form)
				}
				ip.Modules[name.Name()] = true
				return name, nil

			case symDeclaim:
				ip.evalDeclaim(cons.Cdr)
				return runtime.Nil, nil

			case symWithOutputToString:
				v, err := ip.evalWithOutputToString(cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				return v, nil
			}

			if isLetFamily(headSym) {
				next, nenv, newUnwinds, err := ip.evalLet(headSym, cons.Cdr, env)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				unwinds = append(unwinds, newUnwinds...)
				form, env = next, nenv
				continue
			}

			if macro, ok := ip.Macros[headSym]; ok {
				expanded, err := ip.expandMacro(macro, cons.Cdr)
				if err != nil {
					return nil, wrapForm(err, form)
				}
				form = expanded
				continue
			}
		}

		// Ordinary application.
		fn, err := ip.Eval(head, env)
		if err != nil {
			return nil, err
		}
		argForms, ok := runtime.ToSlice(cons.Cdr)
		if !ok {
			return nil, wrapForm(runtime.NewMalformedForm("improper argument list", formPos(form)), form)
		}
		args := make([]runtime.Value, len(argForms))
		for idx, af := range argForms {
			av, aerr := ip.Eval(af, env)
			if aerr != nil {
				return nil, aerr
			}
			args[idx] = av
		}

		if headIsSym && ip.Speed >= 1 {
			if v, ok := openCode(headSym, args); ok {
				return v, nil
			}
		}

		if headIsSym && ip.Traced[headSym] {
			ip.Log.WithField("call", runtime.Print(form, true)).Debug("trace: enter")
		}

		next, nenv, res, done, aerr := ip.applyTail(fn, args)
		if aerr != nil {
			return nil, wrapForm(aerr, form)
		}
		if done {
			return res, nil
		}
		form, env = next, nenv
	}
}

// applyTail applies fn to already-evaluated args. For a closure it returns
// the body's tail form and extended environment instead of recursing.
func (ip *Interp) applyTail(fn runtime.Value, args []runtime.Value) (nextForm runtime.Value, nextEnv *runtime.Env, result runtime.Value, done bool, err error) {
	switch f := fn.(type) {
	case *runtime.Primitive:
		if aerr := f.CheckArity(len(args)); aerr != nil {
			return nil, nil, nil, true, aerr
		}
		v, perr := f.Fn(args)
		return nil, nil, v, true, perr
	case *runtime.Cons:
		if !f.IsClosure() {
			return nil, nil, nil, true, runtime.NewTypeError(fmt.Sprintf("%s is not a function", runtime.Print(fn, true)), runtime.Position{})
		}
		next, nenv, res, bdone, err := ip.bindClosureArgs(f, args)
		if err != nil {
			return nil, nil, nil, true, err
		}
		if bdone {
			return nil, nil, res, true, nil
		}
		return next, nenv, nil, false, nil
	default:
		return nil, nil, nil, true, runtime.NewTypeError(fmt.Sprintf("%s is not a function", runtime.Print(fn, true)), runtime.Position{})
	}
}

// Apply is the public, non-tail entry point used by the `apply` primitive.
func (ip *Interp) Apply(fn runtime.Value, args []runtime.Value) (runtime.Value, error) {
	next, nenv, res, done, err := ip.applyTail(fn, args)
	if err != nil {
		return nil, err
	}
	if done {
		return res, nil
	}
	return ip.Eval(next, nenv)
}

// bindClosureArgs zips params against args in a fresh child of the closure's
// captured environment (or the current global for a dynamic-lambda, whose
// captured Env is nil) and returns the body's tail form for the caller to
// continue evaluating in the same loop.
func (ip *Interp) bindClosureArgs(closure *runtime.Cons, args []runtime.Value) (next runtime.Value, nenv *runtime.Env, result runtime.Value, done bool, err error) {
	lambdaForm, ok := closure.Cdr.(*runtime.Cons)
	if !ok {
		return nil, nil, nil, true, runtime.NewMalformedForm("malformed closure", runtime.Position{})
	}
	params := lambdaForm.Car
	body := lambdaForm.Cdr

	base := closure.Env
	if base == nil {
		base = ip.Global
	}
	child := base.NewChild()

	if err := zipParams(params, args, child); err != nil {
		return nil, nil, nil, true, err
	}

	return ip.evalBodyTail(body, child)
}

// evalBodyTail evaluates every form in body except the last (which is
// returned, unevaluated, for tail continuation by the caller). An empty
// body evaluates to Nil immediately (done=true).
func (ip *Interp) evalBodyTail(body runtime.Value, env *runtime.Env) (next runtime.Value, nenv *runtime.Env, result runtime.Value, done bool, err error) {
	items, ok := runtime.ToSlice(body)
	if !ok {
		return nil, nil, nil, true, runtime.NewMalformedForm("improper body", runtime.Position{})
	}
	if len(items) == 0 {
		return nil, nil, runtime.Nil, true, nil
	}
	for _, f := range items[:len(items)-1] {
		if _, err := ip.Eval(f, env); err != nil {
			return nil, nil, nil, true, err
		}
	}
	return items[len(items)-1], env, nil, false, nil
}

// zipParams binds params against args in env, honoring a trailing dotted
// symbol (variadic) and plain-symbol parameter lists (spec.md §4.2).
func zipParams(params runtime.Value, args []runtime.Value, env *runtime.Env) error {
	if sym, ok := params.(*symtab.Symbol); ok {
		env.Bind(sym, runtime.FromSlice(args))
		return nil
	}

	idx := 0
	cur := params
	seen := make(map[*symtab.Symbol]bool)
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
		if idx >= len(args) {
			return &runtime.ArityError{Name: "lambda", Got: len(args), Min: idx + 1, Max: -1}
		}
		env.Bind(sym, args[idx])
		idx++
		cur = c.Cdr
	}
	if sym, ok := cur.(*symtab.Symbol); ok {
		env.Bind(sym, runtime.FromSlice(args[idx:]))
		return nil
	}
	if !runtime.IsNil(cur) {
		return runtime.NewMalformedForm("malformed lambda parameter list", runtime.Position{})
	}
	if idx != len(args) {
		return &runtime.ArityError{Name: "lambda", Got: len(args), Min: idx, Max: idx}
	}
	return nil
}
