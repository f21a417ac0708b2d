package builtins

import (
	"github.com/glisp-lang/glisp/internal/reader"
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// symCommandLineArgs names the mutable global slot spec.md §4.4 reserves for
// the command-line front end to fill in before running a script.
var symCommandLineArgs = symtab.Intern("*command-line-argument-list*")

// registerSystemInfo installs the introspection primitives SPEC_FULL.md §5
// adds beyond spec.md's explicit primitive list: `*features*`, a read-only
// list of the reader's #+/#- feature keywords, and `command-line-arguments`,
// which reads the `*command-line-argument-list*` slot `main` sets (a slot
// nothing could previously read was dead weight).
func registerSystemInfo(env *runtime.Env) {
	names := reader.FeatureNames()
	items := make([]runtime.Value, len(names))
	for i, n := range names {
		items[i] = symtab.Intern(n)
	}
	env.Define(symtab.Intern("*features*"), runtime.FromSlice(items))
	env.Define(symCommandLineArgs, runtime.Nil)

	def(env, "command-line-arguments", 0, 0, func(a []runtime.Value) (runtime.Value, error) {
		v, _ := env.Get(symCommandLineArgs)
		if v == nil {
			return runtime.Nil, nil
		}
		return v, nil
	})
}

// SetCommandLineArgs fills the `*command-line-argument-list*` slot with argv
// as a list of strings, called by the command-line front end before running
// a script (spec.md §4.4).
func SetCommandLineArgs(env *runtime.Env, argv []string) {
	items := make([]runtime.Value, len(argv))
	for i, a := range argv {
		items[i] = runtime.NewString(a)
	}
	env.Define(symCommandLineArgs, runtime.FromSlice(items))
}
