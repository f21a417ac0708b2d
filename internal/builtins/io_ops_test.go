package builtins

import (
	"bytes"
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestWriteEscapesAtomsByDefault(t *testing.T) {
	env := newTestEnv(t)
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	if _, err := call(t, env, "write", runtime.NewString("hi")); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if got := buf.String(); got != `"hi"` {
		t.Fatalf("got %q, want %q", got, `"hi"`)
	}
}

func TestWriteEscapeAtomsFalseSuppressesEscaping(t *testing.T) {
	env := newTestEnv(t)
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	if _, err := call(t, env, "write", runtime.NewString("hi"), runtime.Nil); err != nil {
		t.Fatalf("write error: %v", err)
	}
	if got := buf.String(); got != "hi" {
		t.Fatalf("got %q, want %q", got, "hi")
	}
}

func TestWritelnAppendsNewline(t *testing.T) {
	env := newTestEnv(t)
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	if _, err := call(t, env, "writeln", long(1)); err != nil {
		t.Fatalf("writeln error: %v", err)
	}
	if got := buf.String(); got != "1\n" {
		t.Fatalf("got %q, want %q", got, "1\n")
	}
}

func TestLnwritePrependsNewline(t *testing.T) {
	env := newTestEnv(t)
	var buf bytes.Buffer
	prev := SetOutput(&buf)
	defer SetOutput(prev)

	if _, err := call(t, env, "lnwrite", runtime.NewString("x"), runtime.Nil); err != nil {
		t.Fatalf("lnwrite error: %v", err)
	}
	if got := buf.String(); got != "\nx" {
		t.Fatalf("got %q, want %q", got, "\nx")
	}
}

func TestReadFromStdinIsNotImplemented(t *testing.T) {
	env := newTestEnv(t)
	if _, err := call(t, env, "read"); err == nil {
		t.Fatal("expected read (no stdin support in this embedding) to return an error")
	}
}
