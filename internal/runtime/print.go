package runtime

import (
	"strconv"
	"strings"

	"github.com/glisp-lang/glisp/internal/symtab"
)

// controlNames mirrors the reader's #\Name table (controlNameCodes in
// internal/lexer/lexer.go) so
// the printer and reader agree on named control characters.
var controlNames = map[rune]string{
	0:    "Nul",
	7:    "Bell",
	8:    "Backspace",
	9:    "Tab",
	10:   "Newline",
	13:   "Return",
	27:   "Escape",
	32:   "Space",
	0x7F: "Rubout",
}

// Print renders v as the reader would need to see it to reproduce an equal
// value (spec.md §8: "reader round-trip"). When escape is true, symbols and
// strings that would otherwise read back differently are escaped
// (vertical-bar quoting for symbols, backslash escaping for strings,
// #\Name/#\c for characters); when false, atoms print in their bare
// human-readable form. write/writeln/lnwrite thread their optional
// escape-atoms argument into this flag (spec.md §4.3).
func Print(v Value, escape bool) string {
	var sb strings.Builder
	printValue(&sb, v, escape)
	return sb.String()
}

func printValue(sb *strings.Builder, v Value, escape bool) {
	switch x := v.(type) {
	case nil:
		sb.WriteString("nil")
	case NilValue:
		sb.WriteString("nil")
	case unassignedValue:
		sb.WriteString("#<unassigned>")
	case *symtab.Symbol:
		printSymbol(sb, x, escape)
	case Long:
		sb.WriteString(FormatNumber(x))
	case Double:
		sb.WriteString(FormatNumber(x))
	case Character:
		printCharacter(sb, rune(x), escape)
	case *String:
		printString(sb, x.Value, escape)
	case *Cons:
		printCons(sb, x, escape)
	case *ArraySlice:
		sb.WriteString("(")
		for i, item := range x.Items {
			if i > 0 {
				sb.WriteString(" ")
			}
			printValue(sb, item, escape)
		}
		sb.WriteString(")")
	case *Primitive:
		sb.WriteString("#<primitive " + x.Name + ">")
	default:
		sb.WriteString("#<unknown>")
	}
}

func printSymbol(sb *strings.Builder, s *symtab.Symbol, escape bool) {
	name := s.Name()
	if !escape || !needsEscape(name) {
		sb.WriteString(name)
		return
	}
	sb.WriteString("|")
	for _, r := range name {
		if r == '|' || r == '\\' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	sb.WriteString("|")
}

func needsEscape(name string) bool {
	if name == "" {
		return true
	}
	for _, r := range name {
		switch r {
		case ' ', '\t', '\n', '\r', '(', ')', '\'', '`', ',', '"', ';', '#', '|', '\\':
			return true
		}
	}
	return false
}

func printCharacter(sb *strings.Builder, r rune, escape bool) {
	if !escape {
		sb.WriteRune(r)
		return
	}
	if name, ok := controlNames[r]; ok {
		sb.WriteString("#\\" + name)
		return
	}
	sb.WriteString("#\\")
	sb.WriteRune(r)
}

func printString(sb *strings.Builder, s string, escape bool) {
	if !escape {
		sb.WriteString(s)
		return
	}
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString("\\n")
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}

func printCons(sb *strings.Builder, c *Cons, escape bool) {
	sb.WriteString("(")
	visited := make(map[*Cons]bool)
	cur := Value(c)
	first := true
	for {
		cc, ok := cur.(*Cons)
		if !ok {
			break
		}
		if visited[cc] {
			sb.WriteString(" . #<circular>")
			cur = Nil
			break
		}
		visited[cc] = true
		if !first {
			sb.WriteString(" ")
		}
		printValue(sb, cc.Car, escape)
		first = false
		cur = cc.Cdr
	}
	if !IsNil(cur) {
		sb.WriteString(" . ")
		printValue(sb, cur, escape)
	}
	sb.WriteString(")")
}

// FormatIntBase is used by the %b/%o/%x-style primitives that print an
// integer in a given base (mirrors the reader's #b/#o/#x literal forms).
func FormatIntBase(n int64, base int) string {
	return strconv.FormatInt(n, base)
}
