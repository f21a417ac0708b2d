package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestInternalTimeUnitsPerSecond(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "internal-time-units-per-second")
	if err != nil {
		t.Fatalf("internal-time-units-per-second error: %v", err)
	}
	if got, ok := v.(runtime.Long); !ok || got != 1_000_000_000 {
		t.Fatalf("got %#v, want Long(1e9)", v)
	}
}

func TestGetInternalRealTimeIsMonotonicallyNonDecreasing(t *testing.T) {
	env := newTestEnv(t)
	first, err := call(t, env, "get-internal-real-time")
	if err != nil {
		t.Fatalf("get-internal-real-time error: %v", err)
	}
	second, err := call(t, env, "get-internal-real-time")
	if err != nil {
		t.Fatalf("get-internal-real-time error: %v", err)
	}
	a, _ := first.(runtime.Long)
	b, _ := second.(runtime.Long)
	if b < a {
		t.Fatalf("expected non-decreasing ticks, got %d then %d", a, b)
	}
}

func TestSleepZeroReturnsImmediately(t *testing.T) {
	env := newTestEnv(t)
	if _, err := call(t, env, "sleep", long(0)); err != nil {
		t.Fatalf("sleep error: %v", err)
	}
}

func TestGetDecodedTimeShape(t *testing.T) {
	env := newTestEnv(t)
	v, err := call(t, env, "get-decoded-time")
	if err != nil {
		t.Fatalf("get-decoded-time error: %v", err)
	}
	items, ok := runtime.ToSlice(v)
	if !ok || len(items) != 9 {
		t.Fatalf("expected a 9-element list (sec min hour day month year weekday dst tz), got %#v", v)
	}
}
