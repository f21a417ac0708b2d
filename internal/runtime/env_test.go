package runtime

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/symtab"
)

func TestDefineThenLookup(t *testing.T) {
	env := NewEnv()
	sym := symtab.Intern("x")

	env.Define(sym, Long(42))
	v, ok := env.Get(sym)
	if !ok || v != Value(Long(42)) {
		t.Fatalf("expected x=42, got %v ok=%v", v, ok)
	}
}

func TestDefineVisibleToAlreadyCapturedEnv(t *testing.T) {
	global := NewEnv()
	sym := symtab.Intern("late")

	// A closure captures the global env before the define happens.
	captured := global

	if _, ok := captured.Get(sym); ok {
		t.Fatal("symbol should not exist yet")
	}

	global.Define(sym, Long(7))

	v, ok := captured.Get(sym)
	if !ok || v != Value(Long(7)) {
		t.Fatal("define on the global frame must be visible through a previously captured reference")
	}
}

func TestChildEnvShadowsWithoutMutatingParent(t *testing.T) {
	global := NewEnv()
	sym := symtab.Intern("n")
	global.Define(sym, Long(1))

	child := global.NewChild()
	child.Bind(sym, Long(2))

	v, _ := child.Get(sym)
	if v != Value(Long(2)) {
		t.Fatalf("child scope should shadow with 2, got %v", v)
	}
	v, _ = global.Get(sym)
	if v != Value(Long(1)) {
		t.Fatalf("parent scope must be untouched, got %v", v)
	}
}

func TestSetMutatesExistingBindingAcrossScopes(t *testing.T) {
	global := NewEnv()
	sym := symtab.Intern("g")
	global.Define(sym, Long(1))

	child := global.NewChild()
	if !child.Set(sym, Long(99)) {
		t.Fatal("set should find the binding in an outer scope")
	}

	v, _ := global.Get(sym)
	if v != Value(Long(99)) {
		t.Fatalf("set must mutate the binding cell in place, got %v", v)
	}
}

func TestSetUnknownSymbolFails(t *testing.T) {
	env := NewEnv()
	if env.Set(symtab.Intern("nope"), Long(1)) {
		t.Fatal("set on an unbound symbol must report failure")
	}
}

func TestDynamicUnwindRestoresGlobal(t *testing.T) {
	global := NewEnv()
	sym := symtab.Intern("*g*")
	global.Define(sym, Long(1))

	cell := global.GlobalBindingCell(sym)
	old := cell.Cdr
	cell.Cdr = Long(2) // simulate "let dynamic" installing a new value

	v, _ := global.Get(sym)
	if v != Value(Long(2)) {
		t.Fatalf("expected dynamic value visible during body, got %v", v)
	}

	cell.Cdr = old // unwind
	v, _ = global.Get(sym)
	if v != Value(Long(1)) {
		t.Fatalf("expected restoration to 1 after unwind, got %v", v)
	}
}
