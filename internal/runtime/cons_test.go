package runtime

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/symtab"
)

func TestCarCdrOfNil(t *testing.T) {
	if !IsNil(Car(Nil)) {
		t.Error("car(nil) must be nil")
	}
	if !IsNil(Cdr(Nil)) {
		t.Error("cdr(nil) must be nil")
	}
}

func TestListRoundTrip(t *testing.T) {
	items := []Value{Long(1), Long(2), Long(3)}
	list := FromSlice(items)

	got, ok := ToSlice(list)
	if !ok || len(got) != 3 {
		t.Fatalf("expected proper 3-element list, got %v ok=%v", got, ok)
	}
	for i, v := range got {
		if v != items[i] {
			t.Errorf("index %d: got %v want %v", i, v, items[i])
		}
	}
}

func TestDottedListIsNotProper(t *testing.T) {
	dotted := NewCons(Long(1), Long(2))
	if ProperListP(dotted) {
		t.Error("(1 . 2) must not be a proper list")
	}
	if _, ok := ToSlice(dotted); ok {
		t.Error("ToSlice must reject a dotted list")
	}
}

func TestEqIsReferenceIdentity(t *testing.T) {
	a := NewCons(Long(1), Nil)
	b := NewCons(Long(1), Nil)
	if Eq(a, b) {
		t.Error("structurally-equal but distinct conses must not be eq")
	}
	if !Eq(a, a) {
		t.Error("a cons must be eq to itself")
	}
}

func TestEqlNumbersAndChars(t *testing.T) {
	if !Eql(Long(3), Long(3)) {
		t.Error("equal-valued longs must be eql")
	}
	if Eql(Long(3), Double(3.0)) {
		t.Error("a long and a double must not be eql even with equal value (different tag)")
	}
	if !Eql(Character('a'), Character('a')) {
		t.Error("equal characters must be eql")
	}
}

func TestEqualStructural(t *testing.T) {
	a := FromSlice([]Value{Long(1), NewString("x"), Long(2)})
	b := FromSlice([]Value{Long(1), NewString("x"), Long(2)})
	if !Equal(a, b) {
		t.Error("structurally identical lists must be equal")
	}
	c := FromSlice([]Value{Long(1), NewString("y"), Long(2)})
	if Equal(a, c) {
		t.Error("lists differing in a leaf string must not be equal")
	}
}

func TestEqualToleratesCycles(t *testing.T) {
	a := NewCons(Long(1), Nil)
	a.Cdr = a // a = (1 . a), a cyclic cons
	if !Equal(a, a) {
		t.Error("a cyclic cons must be equal to itself without looping forever")
	}
}

func TestInternSymbolIdentityThroughRuntime(t *testing.T) {
	a := symtab.Intern("foo")
	b := symtab.Intern("FOO")
	if !Eq(Value(a), Value(b)) {
		t.Error("case-insensitively equal symbols must be eq")
	}
}
