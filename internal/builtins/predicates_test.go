package builtins

import (
	"testing"

	"github.com/glisp-lang/glisp/internal/runtime"
)

func TestTypePredicates(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		pred string
		v    runtime.Value
		want bool
	}{
		{"symbolp", runtime.Nil, true}, // nil counts as a symbol
		{"symbolp", long(1), false},
		{"numberp", long(1), true},
		{"numberp", num(1.5), true},
		{"numberp", runtime.NewString("x"), false},
		{"integerp", long(1), true},
		{"integerp", num(1.0), false},
		{"floatp", num(1.0), true},
		{"floatp", long(1), false},
		{"stringp", runtime.NewString("x"), true},
		{"stringp", long(1), false},
		{"characterp", runtime.Character('a'), true},
		{"characterp", runtime.NewString("a"), false},
	}

	for _, c := range cases {
		got, err := call(t, env, c.pred, c.v)
		if err != nil {
			t.Fatalf("%s(%#v) error: %v", c.pred, c.v, err)
		}
		if runtime.Truthy(got) != c.want {
			t.Errorf("%s(%#v) = %v, want %v", c.pred, c.v, runtime.Truthy(got), c.want)
		}
	}
}
