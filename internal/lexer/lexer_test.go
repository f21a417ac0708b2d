package lexer

import "testing"

func tokenTypes(input string) []TokenType {
	l := New(input)
	var got []TokenType
	for {
		tok := l.NextToken()
		got = append(got, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	return got
}

func assertTypes(t *testing.T, input string, want ...TokenType) {
	t.Helper()
	want = append(want, EOF)
	got := tokenTypes(input)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d got %s want %s", input, i, got[i], want[i])
		}
	}
}

func TestParensAndAtoms(t *testing.T) {
	assertTypes(t, "(+ 1 2)", LP, SYMBOL, INTEGER, INTEGER, RP)
}

func TestQuoteFamily(t *testing.T) {
	assertTypes(t, "'x", SQ, SYMBOL)
	assertTypes(t, "`(a ,b ,@c)", BQ, LP, SYMBOL, COMMA, SYMBOL, COMMAAT, SYMBOL, RP)
}

func TestDottedPair(t *testing.T) {
	assertTypes(t, "(1 . 2)", LP, INTEGER, DOT, INTEGER, RP)
}

func TestStringLiteral(t *testing.T) {
	l := New(`"hello\nworld"`)
	tok := l.NextToken()
	if tok.Type != STRING || tok.Text != "hello\nworld" {
		t.Fatalf("got %+v", tok)
	}
}

func TestBarSymbolPreservesCaseAndSpaces(t *testing.T) {
	l := New(`|Has Space|`)
	tok := l.NextToken()
	if tok.Type != SYMBOL || tok.Text != "Has Space" || !tok.Escaped {
		t.Fatalf("got %+v", tok)
	}
}

func TestIntegerAndFloat(t *testing.T) {
	l := New("42 3.14 -7 1e3")
	want := []struct {
		typ TokenType
		i   int64
		f   float64
	}{
		{INTEGER, 42, 0},
		{FLOAT, 0, 3.14},
		{INTEGER, -7, 0},
		{FLOAT, 0, 1000},
	}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ {
			t.Fatalf("got type %s want %s", tok.Type, w.typ)
		}
		if w.typ == INTEGER && tok.IntValue != w.i {
			t.Fatalf("got int %d want %d", tok.IntValue, w.i)
		}
		if w.typ == FLOAT && tok.FloatValue != w.f {
			t.Fatalf("got float %v want %v", tok.FloatValue, w.f)
		}
	}
}

func TestLineComment(t *testing.T) {
	assertTypes(t, "1 ; a comment\n2", INTEGER, INTEGER)
}

func TestBlockComment(t *testing.T) {
	assertTypes(t, "1 #| block\ncomment |# 2", INTEGER, INTEGER)
}

func TestCharacterLiterals(t *testing.T) {
	l := New(`#\a #\Newline #\Space`)
	toks := []rune{'a', '\n', ' '}
	for _, want := range toks {
		tok := l.NextToken()
		if tok.Type != CHAR || tok.RuneValue != want {
			t.Fatalf("got %+v want rune %q", tok, want)
		}
	}
}

func TestHashDispatchTokens(t *testing.T) {
	assertTypes(t, "#'foo", HashQuote, SYMBOL)
	assertTypes(t, "#+feature x", HashPlus, SYMBOL, SYMBOL)
	assertTypes(t, "#-feature x", HashMinus, SYMBOL, SYMBOL)
}

func TestRadixIntegers(t *testing.T) {
	l := New("#b101 #o17 #xFF")
	want := []int64{5, 15, 255}
	for _, w := range want {
		tok := l.NextToken()
		if tok.Type != INTEGER || tok.IntValue != w {
			t.Fatalf("got %+v want %d", tok, w)
		}
	}
}

func TestUnterminatedStringReportsError(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lex error for unterminated string")
	}
}

func TestUnterminatedBlockCommentReportsError(t *testing.T) {
	l := New("#| never closes")
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lex error for unterminated block comment")
	}
}

func TestUnknownDispatchCharacterReportsError(t *testing.T) {
	l := New("#z")
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lex error for unknown dispatch character")
	}
}
