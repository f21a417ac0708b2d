package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestEqDistinguishesEqlCons(t *testing.T) {
	env := newTestEnv(t)
	a := runtime.NewCons(long(1), long(2))
	b := runtime.NewCons(long(1), long(2))

	if v, err := call(t, env, "eq", a, a); err != nil || !runtime.Truthy(v) {
		t.Fatalf("eq on the same cons must be true: v=%#v err=%v", v, err)
	}
	if v, err := call(t, env, "eq", a, b); err != nil || runtime.Truthy(v) {
		t.Fatalf("eq on structurally-equal but distinct conses must be false: v=%#v err=%v", v, err)
	}
	if v, err := call(t, env, "equal", a, b); err != nil || !runtime.Truthy(v) {
		t.Fatalf("equal on structurally-equal conses must be true: v=%#v err=%v", v, err)
	}
}

func TestEqlComparesNumbersByValueAndTag(t *testing.T) {
	env := newTestEnv(t)
	if v, err := call(t, env, "eql", long(1), long(1)); err != nil || !runtime.Truthy(v) {
		t.Fatalf("eql on equal Longs must be true: v=%#v err=%v", v, err)
	}
	if v, err := call(t, env, "eql", long(1), num(1.0)); err != nil || runtime.Truthy(v) {
		t.Fatalf("eql must distinguish Long(1) from Double(1.0): v=%#v err=%v", v, err)
	}
}
