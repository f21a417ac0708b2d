package runtime

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/symtab"
)

func TestPrintNumbers(t *testing.T) {
	if got := Print(Long(126), true); got != "126" {
		t.Errorf("Print(Long(126)) = %q", got)
	}
	if got := Print(Double(126), true); got != "126.0" {
		t.Errorf("Print(Double(126)) = %q, want 126.0", got)
	}
}

func TestPrintList(t *testing.T) {
	list := FromSlice([]Value{Long(1), Long(2), Long(3)})
	if got := Print(list, true); got != "(1 2 3)" {
		t.Errorf("Print(list) = %q", got)
	}
}

func TestPrintDottedList(t *testing.T) {
	dotted := NewCons(Long(1), Long(2))
	if got := Print(dotted, true); got != "(1 . 2)" {
		t.Errorf("Print(dotted) = %q, want (1 . 2)", got)
	}
}

func TestPrintEscapesSymbolNeedingBars(t *testing.T) {
	sym := symtab.Intern("has space")
	if got := Print(sym, true); got != "|has space|" {
		t.Errorf("Print(sym) = %q, want |has space|", got)
	}
	if got := Print(sym, false); got != "has space" {
		t.Errorf("Print(sym, false) = %q, want bare name", got)
	}
}

func TestPrintCircularList(t *testing.T) {
	c := NewCons(Long(1), Nil)
	c.Cdr = c
	got := Print(c, true)
	if got != "(1 . #<circular>)" {
		t.Errorf("Print(circular) = %q", got)
	}
}

func TestPrintCharacterNamed(t *testing.T) {
	if got := Print(Character('\n'), true); got != "#\\Newline" {
		t.Errorf("Print(newline char) = %q", got)
	}
	if got := Print(Character('a'), true); got != "#\\a" {
		t.Errorf("Print(char a) = %q", got)
	}
}

func TestPrintStringEscaping(t *testing.T) {
	if got := Print(NewString("a\"b"), true); got != `"a\"b"` {
		t.Errorf("Print(string) = %q", got)
	}
}
