package symtab

import "testing"

func TestInternCaseInsensitiveIdentity(t *testing.T) {
	tab := NewTable()

	a := tab.Intern("DEFUN")
	b := tab.Intern("defun")
	c := tab.Intern("DeFun")

	if a != b || b != c {
		t.Fatalf("expected reference identity across casings, got distinct symbols: %p %p %p", a, b, c)
	}
	if a.Name() != "DEFUN" {
		t.Fatalf("expected first-seen casing %q, got %q", "DEFUN", a.Name())
	}
}

func TestInternDistinctNames(t *testing.T) {
	tab := NewTable()
	if tab.Intern("foo") == tab.Intern("bar") {
		t.Fatal("distinct names must not intern to the same symbol")
	}
}

func TestUninternedIsDistinctFromIntern(t *testing.T) {
	tab := NewTable()
	gensym := Uninterned("g")
	if gensym == tab.Intern("g") {
		t.Fatal("Uninterned symbol must not be reference-equal to an interned symbol of the same name")
	}

	other := Uninterned("g")
	if gensym == other {
		t.Fatal("two calls to Uninterned must never produce the same *Symbol")
	}
	if gensym.Name() != "g" {
		t.Fatalf("expected name %q, got %q", "g", gensym.Name())
	}
}

func TestReservedWords(t *testing.T) {
	tab := NewTable()
	tab.Reserve("lambda", "let", "setq")

	if !tab.IsReserved(tab.Intern("Lambda")) {
		t.Fatal("expected lambda to be reserved regardless of casing")
	}
	if tab.IsReserved(tab.Intern("my-var")) {
		t.Fatal("my-var must not be reserved")
	}
}
