package reader

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func readOne(t *testing.T, src string) runtime.Value {
	t.Helper()
	r := New(src, "")
	v, err := r.Read()
	if err != nil {
		t.Fatalf("Read(%q) error: %v", src, err)
	}
	return v
}

func TestReadAtoms(t *testing.T) {
	if got := runtime.Print(readOne(t, "42"), true); got != "42" {
		t.Errorf("got %q", got)
	}
	if got := runtime.Print(readOne(t, "3.5"), true); got != "3.5" {
		t.Errorf("got %q", got)
	}
	if got := runtime.Print(readOne(t, "foo"), true); got != "foo" {
		t.Errorf("got %q", got)
	}
}

func TestReadList(t *testing.T) {
	v := readOne(t, "(+ 1 2)")
	if got := runtime.Print(v, true); got != "(+ 1 2)" {
		t.Errorf("got %q", got)
	}
}

func TestReadDottedPair(t *testing.T) {
	v := readOne(t, "(1 . 2)")
	if got := runtime.Print(v, true); got != "(1 . 2)" {
		t.Errorf("got %q", got)
	}
}

func TestReadQuote(t *testing.T) {
	v := readOne(t, "'x")
	if got := runtime.Print(v, true); got != "(quote x)" {
		t.Errorf("got %q", got)
	}
}

func TestQuasiquoteConstantExpandsToListOfQuotes(t *testing.T) {
	// `(1 2 3) has no unquotes at all, so the whole template is just one
	// atom-after-atom cons chain of (quote N) forms under (list ...).
	v := readOne(t, "`(1 2 3)")
	got := runtime.Print(v, true)
	want := "(list (quote 1) (quote 2) (quote 3))"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestQuasiquoteUnquote(t *testing.T) {
	v := readOne(t, "`(a ,b c)")
	got := runtime.Print(v, true)
	want := "(list (quote a) b (quote c))"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestQuasiquoteUnquoteSplice(t *testing.T) {
	v := readOne(t, "`(a ,@b)")
	got := runtime.Print(v, true)
	want := "(cons (quote a) b)"
	if got != want {
		t.Errorf("got %q want %q", got, want)
	}
}

func TestQuasiquoteSoleUnquote(t *testing.T) {
	v := readOne(t, "`,x")
	got := runtime.Print(v, true)
	if got != "x" {
		t.Errorf("got %q want x", got)
	}
}

func TestUnquoteOutsideBackquoteIsError(t *testing.T) {
	r := New(",x", "")
	if _, err := r.Read(); err == nil {
		t.Fatal("expected a reader error for a bare unquote")
	}
}

func TestUnexpectedCloseParenIsError(t *testing.T) {
	r := New(")", "")
	if _, err := r.Read(); err == nil {
		t.Fatal("expected a reader error for an unmatched )")
	}
}

func TestFeaturePlusIncludesKnownFeature(t *testing.T) {
	v := readOne(t, "#+glisp (hello)")
	if got := runtime.Print(v, true); got != "(hello)" {
		t.Errorf("got %q", got)
	}
}

func TestFeatureMinusExcludesKnownFeature(t *testing.T) {
	r := New("#-glisp (hello) (world)", "")
	v, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got := runtime.Print(v, true); got != "(world)" {
		t.Errorf("#-glisp should have skipped (hello), got %q", got)
	}
}

func TestFeatureAndOr(t *testing.T) {
	v := readOne(t, "#+(and glisp ieee-floating-point) (ok)")
	if got := runtime.Print(v, true); got != "(ok)" {
		t.Errorf("got %q", got)
	}
	r := New("#+(or nonexistent glisp) (ok)", "")
	v, err := r.Read()
	if err != nil {
		t.Fatal(err)
	}
	if got := runtime.Print(v, true); got != "(ok)" {
		t.Errorf("got %q", got)
	}
}

func TestReadAllMultipleForms(t *testing.T) {
	r := New("1 2 3", "")
	forms, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(forms) != 3 {
		t.Fatalf("expected 3 forms, got %d", len(forms))
	}
}

func TestSourcePositionAttached(t *testing.T) {
	v := readOne(t, "(a b)")
	c, ok := v.(*runtime.Cons)
	if !ok {
		t.Fatal("expected a cons")
	}
	if !c.Pos.HasPosition() {
		t.Error("expected the outer list cons to carry a source position")
	}
}
