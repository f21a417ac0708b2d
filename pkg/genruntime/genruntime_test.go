package genruntime

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestQuoteRoundTripsReaderOutput(t *testing.T) {
	src := runtime.Print(FromSlice([]Value{Long(1), Str("two"), Sym("three")}), true)
	v := Quote(src)
	if got := runtime.Print(v, true); got != src {
		t.Fatalf("Quote(%q) printed back as %q", src, got)
	}
}

func TestQuotePanicsOnMalformedSource(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected Quote to panic on malformed constant-pool source")
		}
	}()
	Quote("(unterminated")
}

func TestTrampolineDrivesChainOfPendingCalls(t *testing.T) {
	e := NewEngine()

	double := &GoClosure{Name: "double", Fn: func(args []Value) (Value, error) {
		f, _ := toFloat(args[0])
		return runtime.Long(int64(f * 2)), nil
	}}

	v, err := e.Trampoline(Tail(double, []Value{Long(21)}), nil)
	if err != nil {
		t.Fatalf("Trampoline error: %v", err)
	}
	if got, ok := v.(runtime.Long); !ok || got != 42 {
		t.Fatalf("got %#v, want Long(42)", v)
	}
}

func TestTrampolinePassesThroughNonPendingValue(t *testing.T) {
	e := NewEngine()
	v, err := e.Trampoline(Long(7), nil)
	if err != nil {
		t.Fatalf("Trampoline error: %v", err)
	}
	if got, ok := v.(runtime.Long); !ok || got != 7 {
		t.Fatalf("got %#v, want Long(7)", v)
	}
}

func TestNumFoldMatchesVariadicDivisionSemantics(t *testing.T) {
	v, err := NumFold("/", []Value{Double(8), Double(4), Double(0.5)})
	if err != nil {
		t.Fatalf("NumFold error: %v", err)
	}
	if got, ok := v.(runtime.Double); !ok || got != 4 {
		t.Fatalf("got %#v, want Double(4)", v)
	}
}

func TestNumFoldRejectsDivisionByZero(t *testing.T) {
	if _, err := NumFold("/", []Value{Long(5), Long(0)}); err == nil {
		t.Fatal("expected an error dividing by zero")
	}
}

func TestNumAddWidensToDoubleWhenInputIsDouble(t *testing.T) {
	v, err := NumAdd(Double(1.5), 1)
	if err != nil {
		t.Fatalf("NumAdd error: %v", err)
	}
	if got, ok := v.(runtime.Double); !ok || got != 2.5 {
		t.Fatalf("got %#v, want Double(2.5)", v)
	}
}
