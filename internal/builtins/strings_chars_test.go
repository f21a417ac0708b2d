package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestStringsCharsRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	list, err := call(t, env, "string->list", runtime.NewString("ab"))
	if err != nil {
		t.Fatalf("string->list error: %v", err)
	}
	if got := runtime.Print(list, true); got != `(#\a #\b)` {
		t.Fatalf("got %q, want %q", got, `(#\a #\b)`)
	}

	back, err := call(t, env, "list->string", list)
	if err != nil {
		t.Fatalf("list->string error: %v", err)
	}
	s, ok := back.(*runtime.String)
	if !ok || s.Value != "ab" {
		t.Fatalf("got %#v, want String(\"ab\")", back)
	}
}

func TestCharCodeCodeChar(t *testing.T) {
	env := newTestEnv(t)
	code, err := call(t, env, "char-code", runtime.Character('A'))
	if err != nil {
		t.Fatalf("char-code error: %v", err)
	}
	if got, ok := code.(runtime.Long); !ok || got != 65 {
		t.Fatalf("got %#v, want Long(65)", code)
	}

	ch, err := call(t, env, "code-char", long(65))
	if err != nil {
		t.Fatalf("code-char error: %v", err)
	}
	if got, ok := ch.(runtime.Character); !ok || got != 'A' {
		t.Fatalf("got %#v, want Character('A')", ch)
	}
}

func TestFormatDirectives(t *testing.T) {
	env := newTestEnv(t)
	out, err := call(t, env, "format",
		runtime.NewString("~A and ~S~%total ~D~~"),
		runtime.NewString("raw"), runtime.NewString("quoted"), long(3),
	)
	if err != nil {
		t.Fatalf("format error: %v", err)
	}
	s, ok := out.(*runtime.String)
	if !ok {
		t.Fatalf("format result is not a string: %#v", out)
	}
	want := "raw and \"quoted\"\ntotal 3~"
	if s.Value != want {
		t.Fatalf("got %q, want %q", s.Value, want)
	}
}

func TestStringEqualityIgnoresNothingButValue(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "string=", runtime.NewString("abc"), runtime.NewString("abc"))
	if err != nil {
		t.Fatalf("string= error: %v", err)
	}
	if !runtime.Truthy(v) {
		t.Fatal("expected equal strings to compare equal")
	}
}
