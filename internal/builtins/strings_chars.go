package builtins

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/glisp-lang/glisp/internal/runtime"
)

// registerStringsChars follows the teacher's internal/interp/builtins/strings.go
// idiom of wiring golang.org/x/text into string comparison and formatting.
func registerStringsChars(env *runtime.Env) {
	def(env, "string=", 2, 2, func(a []runtime.Value) (runtime.Value, error) {
		s1, ok1 := a[0].(*runtime.String)
		s2, ok2 := a[1].(*runtime.String)
		if !ok1 || !ok2 {
			return nil, runtime.NewTypeError("string= requires strings", runtime.Position{})
		}
		return runtime.BoolValue(norm.NFC.String(s1.Value) == norm.NFC.String(s2.Value)), nil
	})

	def(env, "string->list", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		s, ok := a[0].(*runtime.String)
		if !ok {
			return nil, runtime.NewTypeError("string->list requires a string", runtime.Position{})
		}
		runes := []rune(s.Value)
		chars := make([]runtime.Value, len(runes))
		for i, r := range runes {
			chars[i] = runtime.Character(r)
		}
		return runtime.FromSlice(chars), nil
	})

	def(env, "list->string", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		items, ok := runtime.ToSlice(a[0])
		if !ok {
			return nil, runtime.NewTypeError("list->string requires a proper list", runtime.Position{})
		}
		var sb strings.Builder
		for _, it := range items {
			c, ok := it.(runtime.Character)
			if !ok {
				return nil, runtime.NewTypeError("list->string requires a list of characters", runtime.Position{})
			}
			sb.WriteRune(rune(c))
		}
		return runtime.InternString(sb.String()), nil
	})

	def(env, "char-code", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		c, ok := a[0].(runtime.Character)
		if !ok {
			return nil, runtime.NewTypeError("char-code requires a character", runtime.Position{})
		}
		return runtime.Long(int64(c)), nil
	})
	def(env, "code-char", 1, 1, func(a []runtime.Value) (runtime.Value, error) {
		n, ok := a[0].(runtime.Long)
		if !ok {
			return nil, runtime.NewTypeError("code-char requires an integer", runtime.Position{})
		}
		return runtime.Character(rune(n)), nil
	})

	def(env, "format", 1, -1, func(a []runtime.Value) (runtime.Value, error) {
		return formatImpl(a[0], a[1:])
	})
	def(env, "format-locale", 2, -1, func(a []runtime.Value) (runtime.Value, error) {
		return formatLocaleImpl(a[0], a[1], a[2:])
	})
}

func formatImpl(directive runtime.Value, args []runtime.Value) (runtime.Value, error) {
	s, ok := directive.(*runtime.String)
	if !ok {
		return nil, runtime.NewTypeError("format requires a string control directive", runtime.Position{})
	}
	return runtime.InternString(expandFormat(s.Value, args, nil)), nil
}

// formatLocaleImpl is format's locale-aware sibling: it builds a collator
// for localeName and threads it through expandFormat so the ~L directive can
// sort a list of strings using locale-correct collation order instead of a
// plain byte-wise sort (spec.md's locale-aware formatting contract).
func formatLocaleImpl(localeName, directive runtime.Value, args []runtime.Value) (runtime.Value, error) {
	localeStr, ok := localeName.(*runtime.String)
	if !ok {
		return nil, runtime.NewTypeError("format-locale requires a locale name string", runtime.Position{})
	}
	s, ok := directive.(*runtime.String)
	if !ok {
		return nil, runtime.NewTypeError("format-locale requires a string control directive", runtime.Position{})
	}
	tag, err := language.Parse(localeStr.Value)
	if err != nil {
		return nil, runtime.NewTypeError("format-locale: unrecognized locale "+localeStr.Value, runtime.Position{})
	}
	col := collate.New(tag)
	return runtime.InternString(expandFormat(s.Value, args, col)), nil
}

// expandFormat implements the small ~A/~S/~D/~L/~%/~~ subset of Common
// Lisp's FORMAT directive language used by this dialect. col is nil for
// plain format (~L falls back to an ordinal sort) and non-nil for
// format-locale, where ~L collates its list argument against col instead.
func expandFormat(directive string, args []runtime.Value, col *collate.Collator) string {
	var sb strings.Builder
	argi := 0
	next := func() runtime.Value {
		if argi < len(args) {
			v := args[argi]
			argi++
			return v
		}
		return runtime.Nil
	}
	runes := []rune(directive)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '~' || i == len(runes)-1 {
			sb.WriteRune(r)
			continue
		}
		i++
		switch runes[i] {
		case 'A', 'a':
			sb.WriteString(runtime.Print(next(), false))
		case 'S', 's':
			sb.WriteString(runtime.Print(next(), true))
		case 'D', 'd':
			sb.WriteString(fmt.Sprintf("%v", runtime.Print(next(), false)))
		case 'L', 'l':
			sb.WriteString(collatedList(next(), col))
		case '%':
			sb.WriteByte('\n')
		case '~':
			sb.WriteByte('~')
		default:
			sb.WriteByte('~')
			sb.WriteRune(runes[i])
		}
	}
	return sb.String()
}

// collatedList renders a list-of-strings argument to ~L sorted in order,
// using col.CompareString when a collator is available and a plain
// lexicographic sort otherwise.
func collatedList(v runtime.Value, col *collate.Collator) string {
	items, ok := runtime.ToSlice(v)
	if !ok {
		return runtime.Print(v, false)
	}
	strs := make([]string, len(items))
	for i, it := range items {
		s, ok := it.(*runtime.String)
		if !ok {
			return runtime.Print(v, false)
		}
		strs[i] = s.Value
	}
	if col != nil {
		sort.Slice(strs, func(i, j int) bool { return col.CompareString(strs[i], strs[j]) < 0 })
	} else {
		sort.Strings(strs)
	}
	return strings.Join(strs, " ")
}
