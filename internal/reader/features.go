package reader

import (
	"errors"
	stdruntime "runtime"
	"sort"

	"github.com/glisp-lang/glisp/internal/lexer"
	rt "github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

var errInvalidFeatureExpr = errors.New("invalid feature expression")

// LanguageName and LanguageVersion are the #+/#- feature tags identifying
// this implementation, mirrored into pkg/engine's public version info.
const (
	LanguageName    = "glisp"
	LanguageVersion = "1.0"
)

// featureSet is the fixed set of feature keywords recognized by #+/#-
// expressions (spec.md §4.1): the language name, a versioned language tag,
// a host-platform tag, and ieee-floating-point (Go's float64 always is).
func featureSet() map[string]bool {
	return map[string]bool{
		LanguageName:                       true,
		LanguageName + "-" + LanguageVersion: true,
		stdruntime.GOOS:                    true,
		"ieee-floating-point":               true,
	}
}

// FeatureNames returns the fixed #+/#- feature keywords this implementation
// recognizes, exposed to running programs via the `*features*` primitive
// (SPEC_FULL.md §5) so introspection and the reader agree on one list.
func FeatureNames() []string {
	set := featureSet()
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseFeatureExpr reads the feature-test expression following #+/#-, then
// the guarded form, and returns the form unless the feature test result
// (inverted for #-) says to drop it — in which case skip is true and the
// caller must continue reading.
func (r *Reader) parseFeatureExpr(hash lexer.Token, inQuasi bool) (v rt.Value, skip bool, err error) {
	negate := hash.Type == lexer.HashMinus
	r.advance()

	exprForm, eskip, err := r.parseForm(inQuasi)
	if err != nil {
		return nil, false, err
	}
	if eskip {
		return nil, false, r.errorf(hash, "invalid feature expression")
	}

	include, err := evalFeatureExpr(exprForm)
	if err != nil {
		return nil, false, r.errorf(hash, "%s", err.Error())
	}
	if negate {
		include = !include
	}

	guarded, gskip, err := r.parseForm(inQuasi)
	if err != nil {
		return nil, false, err
	}
	if gskip {
		return nil, false, nil
	}
	if !include {
		return nil, true, nil
	}
	return guarded, false, nil
}

// evalFeatureExpr evaluates a feature expression: a bare symbol (membership
// test), or (and e…) / (or e…) / (not e) over nested feature expressions.
func evalFeatureExpr(form rt.Value) (bool, error) {
	features := featureSet()

	switch f := form.(type) {
	case *symtab.Symbol:
		return features[normalizeFeatureName(f.Name())], nil
	case *rt.Cons:
		items, ok := rt.ToSlice(f)
		if !ok || len(items) == 0 {
			return false, errInvalidFeatureExpr
		}
		head, ok := items[0].(*symtab.Symbol)
		if !ok {
			return false, errInvalidFeatureExpr
		}
		switch normalizeFeatureName(head.Name()) {
		case "and":
			for _, sub := range items[1:] {
				ok, err := evalFeatureExpr(sub)
				if err != nil {
					return false, err
				}
				if !ok {
					return false, nil
				}
			}
			return true, nil
		case "or":
			for _, sub := range items[1:] {
				ok, err := evalFeatureExpr(sub)
				if err != nil {
					return false, err
				}
				if ok {
					return true, nil
				}
			}
			return false, nil
		case "not":
			if len(items) != 2 {
				return false, errInvalidFeatureExpr
			}
			ok, err := evalFeatureExpr(items[1])
			if err != nil {
				return false, err
			}
			return !ok, nil
		default:
			return false, errInvalidFeatureExpr
		}
	default:
		return false, errInvalidFeatureExpr
	}
}

func normalizeFeatureName(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= 'A' && r <= 'Z' {
			r = r - 'A' + 'a'
		}
		out = append(out, r)
	}
	return string(out)
}
