package codegen

import (
	"fmt"
	"strings"
)

// mangle converts a symbol's printed name into a Go identifier (spec.md
// §4.4): a leading underscore, ASCII letters/digits/underscore kept
// verbatim, every other code point expanded to `_<codepoint>_`. `foo-bar!`
// becomes `_foo_45_bar_33_`.
func mangle(name string) string {
	var sb strings.Builder
	sb.WriteByte('_')
	for _, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			sb.WriteRune(r)
		default:
			fmt.Fprintf(&sb, "_%d_", r)
		}
	}
	return sb.String()
}

// identScope hands out unique mangled identifiers within one code generation
// run: a mangled base name can collide across unrelated Lisp scopes (two
// `let`s each binding `x`), so every request after the first for a given
// base is suffixed with a per-base counter (spec.md §4.4: "identifier
// uniqueness is enforced by suffixing a per-scope counter").
type identScope struct {
	counts map[string]int
}

func newIdentScope() *identScope {
	return &identScope{counts: make(map[string]int)}
}

// fresh returns a unique mangled identifier derived from base (a Lisp symbol
// name or a synthetic tag such as "tmp" or "q").
func (s *identScope) fresh(base string) string {
	m := mangle(base)
	n := s.counts[m]
	s.counts[m] = n + 1
	if n == 0 {
		return m
	}
	return fmt.Sprintf("%s_%d", m, n)
}
