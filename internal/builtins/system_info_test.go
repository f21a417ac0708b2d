package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

func TestFeaturesListIsPopulated(t *testing.T) {
	env := newTestEnv(t)
	v, ok := env.Get(symtab.Intern("*features*"))
	if !ok {
		t.Fatal("*features* is not bound")
	}
	items, ok := runtime.ToSlice(v)
	if !ok || len(items) == 0 {
		t.Fatalf("*features* must be a non-empty proper list, got %#v", v)
	}
	for _, it := range items {
		if _, ok := it.(*symtab.Symbol); !ok {
			t.Fatalf("every *features* entry must be a symbol, got %#v", it)
		}
	}
}

func TestCommandLineArgumentsDefaultsToNil(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "command-line-arguments")
	if err != nil {
		t.Fatalf("command-line-arguments error: %v", err)
	}
	if !runtime.IsNil(v) {
		t.Fatalf("expected Nil before SetCommandLineArgs, got %#v", v)
	}
}

func TestSetCommandLineArgsIsObservedByThePrimitive(t *testing.T) {
	env := newTestEnv(t)
	SetCommandLineArgs(env, []string{"a", "b"})

	v, err := call(t, env, "command-line-arguments")
	if err != nil {
		t.Fatalf("command-line-arguments error: %v", err)
	}
	if got := runtime.Print(v, true); got != `("a" "b")` {
		t.Fatalf("got %q, want %q", got, `("a" "b")`)
	}
}
