package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestArithmeticAddAlwaysWidensToDoubleWhenAllLong(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "+", long(1), long(2), long(3))
	if err != nil {
		t.Fatalf("+ error: %v", err)
	}
	if got, ok := v.(runtime.Double); !ok || got != 6 {
		t.Fatalf("got %#v, want Double(6)", v)
	}
}

func TestArithmeticAddWidensMixedOperands(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "+", long(1), num(2.5))
	if err != nil {
		t.Fatalf("+ error: %v", err)
	}
	if got, ok := v.(runtime.Double); !ok || got != 3.5 {
		t.Fatalf("got %#v, want Double(3.5)", v)
	}
}

func TestArithmeticDivideByZeroIsArithmeticError(t *testing.T) {
	env := newTestEnv(t)
	if _, err := call(t, env, "/", long(1), long(0)); err == nil {
		t.Fatal("expected an ArithmeticError dividing by zero, got nil")
	}
}

func TestArithmeticComparisonChain(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "<", long(1), long(2), long(3))
	if err != nil {
		t.Fatalf("< error: %v", err)
	}
	if !runtime.Truthy(v) {
		t.Fatalf("expected 1 < 2 < 3 to be true, got %#v", v)
	}

	v, err = call(t, env, "<", long(1), long(3), long(2))
	if err != nil {
		t.Fatalf("< error: %v", err)
	}
	if runtime.Truthy(v) {
		t.Fatalf("expected 1 < 3 < 2 to be false, got %#v", v)
	}
}

func TestArithmeticWrongArityIsArityError(t *testing.T) {
	env := newTestEnv(t)
	if _, err := call(t, env, "mod", long(1)); err == nil {
		t.Fatal("expected an error calling mod with one argument (wants 2)")
	}
}

func TestArithmetic1PlusAnd1Minus(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "1+", long(4))
	if err != nil {
		t.Fatalf("1+ error: %v", err)
	}
	if got, ok := v.(runtime.Long); !ok || got != 5 {
		t.Fatalf("got %#v, want Long(5)", v)
	}

	v, err = call(t, env, "1-", long(4))
	if err != nil {
		t.Fatalf("1- error: %v", err)
	}
	if got, ok := v.(runtime.Long); !ok || got != 3 {
		t.Fatalf("got %#v, want Long(3)", v)
	}
}
