package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestListOpsCarCdrCons(t *testing.T) {
	env := newTestEnv(t)
	pair, err := call(t, env, "cons", long(1), long(2))
	if err != nil {
		t.Fatalf("cons error: %v", err)
	}
	if got := runtime.Print(pair, true); got != "(1 . 2)" {
		t.Fatalf("got %q, want %q", got, "(1 . 2)")
	}

	car, err := call(t, env, "car", pair)
	if err != nil {
		t.Fatalf("car error: %v", err)
	}
	if got, ok := car.(runtime.Long); !ok || got != 1 {
		t.Fatalf("car: got %#v, want Long(1)", car)
	}
}

func TestListOpsRplacaMutatesInPlace(t *testing.T) {
	env := newTestEnv(t)
	pair := runtime.NewCons(long(1), long(2))
	if _, err := call(t, env, "rplaca", pair, long(9)); err != nil {
		t.Fatalf("rplaca error: %v", err)
	}
	if got := runtime.Print(pair, true); got != "(9 . 2)" {
		t.Fatalf("got %q, want %q", got, "(9 . 2)")
	}
}

func TestListOpsListAndListStar(t *testing.T) {
	env := newTestEnv(t)
	lst, err := call(t, env, "list", long(1), long(2), long(3))
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if got := runtime.Print(lst, true); got != "(1 2 3)" {
		t.Fatalf("got %q, want %q", got, "(1 2 3)")
	}

	dotted, err := call(t, env, "list*", long(1), long(2), long(3))
	if err != nil {
		t.Fatalf("list* error: %v", err)
	}
	if got := runtime.Print(dotted, true); got != "(1 2 . 3)" {
		t.Fatalf("got %q, want %q", got, "(1 2 . 3)")
	}
}

func TestListOpsAppend(t *testing.T) {
	env := newTestEnv(t)
	a := runtime.FromSlice([]runtime.Value{long(1), long(2)})
	b := runtime.FromSlice([]runtime.Value{long(3), long(4)})
	out, err := call(t, env, "append", a, b)
	if err != nil {
		t.Fatalf("append error: %v", err)
	}
	if got := runtime.Print(out, true); got != "(1 2 3 4)" {
		t.Fatalf("got %q, want %q", got, "(1 2 3 4)")
	}
}

func TestListOpsPredicates(t *testing.T) {
	env := newTestEnv(t)
	if v, err := call(t, env, "null", runtime.Nil); err != nil || !runtime.Truthy(v) {
		t.Fatalf("null on Nil: v=%#v err=%v", v, err)
	}
	if v, err := call(t, env, "consp", runtime.NewCons(long(1), runtime.Nil)); err != nil || !runtime.Truthy(v) {
		t.Fatalf("consp on a cons: v=%#v err=%v", v, err)
	}
	if v, err := call(t, env, "atom", long(1)); err != nil || !runtime.Truthy(v) {
		t.Fatalf("atom on a number: v=%#v err=%v", v, err)
	}
}

func TestListOpsAssocFindsByEqual(t *testing.T) {
	env := newTestEnv(t)
	alist := runtime.FromSlice([]runtime.Value{
		runtime.NewCons(runtime.NewString("a"), long(1)),
		runtime.NewCons(runtime.NewString("b"), long(2)),
	})
	found, err := call(t, env, "assoc", runtime.NewString("b"), alist)
	if err != nil {
		t.Fatalf("assoc error: %v", err)
	}
	if got := runtime.Print(found, true); got != `("b" . 2)` {
		t.Fatalf("got %q, want %q", got, `("b" . 2)`)
	}
}
