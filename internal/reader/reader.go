// Package reader turns lexer tokens into runtime.Value forms: S-expression
// list/dotted-pair structure, quote/quasiquote rewriting, reader macros
// (#\char, #|comment|#, #', #+/#-, #b/#o/#x), and feature-expression
// filtering. It is the teacher's recursive-descent parser idiom (struct
// holding the lexer plus cur/peek tokens, a nextToken advance method, an
// accumulated error slice) retargeted from DWScript's Pratt-parsed grammar
// to S-expressions, which need no operator precedence at all.
package reader

import (
	"fmt"

	"github.com/glisp-lang/glisp/internal/lexer"
	"github.com/glisp-lang/glisp/internal/runtime"
	"github.com/glisp-lang/glisp/internal/symtab"
)

// Reader consumes a token stream and produces forms.
type Reader struct {
	lex      *lexer.Lexer
	filePath string
	cur      lexer.Token
	peek     lexer.Token
}

// New creates a Reader over input. filePath is attached to source positions
// and to error messages; it may be empty for anonymous/REPL input.
func New(input, filePath string) *Reader {
	r := &Reader{lex: lexer.New(input), filePath: filePath}
	r.cur = r.lex.NextToken()
	r.peek = r.lex.NextToken()
	return r
}

func (r *Reader) advance() {
	r.cur = r.peek
	r.peek = r.lex.NextToken()
}

func (r *Reader) pos(t lexer.Token) runtime.Position {
	return runtime.Position{
		File:      r.filePath,
		StartLine: t.Pos.Line,
		StartCol:  t.Pos.Column,
		EndLine:   t.Pos.Line,
		EndCol:    t.Pos.Column,
	}
}

func (r *Reader) errorf(t lexer.Token, format string, args ...interface{}) error {
	return runtime.NewReaderError(fmt.Sprintf(format, args...), r.pos(t))
}

// AtEOF reports whether the token stream is exhausted.
func (r *Reader) AtEOF() bool { return r.cur.Type == lexer.EOF }

// Read parses and returns the next top-level form. It returns (nil, nil) at
// end of input.
func (r *Reader) Read() (runtime.Value, error) {
	for {
		if errs := r.lex.Errors(); len(errs) > 0 {
			e := errs[0]
			return nil, runtime.NewReaderError(e.Msg, runtime.Position{File: r.filePath, StartLine: e.Pos.Line, StartCol: e.Pos.Column})
		}
		if r.cur.Type == lexer.EOF {
			return nil, nil
		}
		v, skip, err := r.parseForm(false)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		return v, nil
	}
}

// ReadAll parses every top-level form in the input.
func (r *Reader) ReadAll() ([]runtime.Value, error) {
	var forms []runtime.Value
	for {
		v, err := r.Read()
		if err != nil {
			return forms, err
		}
		if v == nil && r.AtEOF() {
			return forms, nil
		}
		forms = append(forms, v)
	}
}

// parseForm parses one form. inQuasi is true while nested inside a
// backquote, which is the only context where bare comma/comma-at tokens are
// legal. skip is true when the form was a feature expression that was
// filtered out by #+/#-, meaning the caller should loop and read the next
// one instead of treating nil as a value.
func (r *Reader) parseForm(inQuasi bool) (v runtime.Value, skip bool, err error) {
	tok := r.cur
	switch tok.Type {
	case lexer.EOF:
		return nil, false, r.errorf(tok, "unexpected end of input")
	case lexer.RP:
		return nil, false, r.errorf(tok, "unexpected )")
	case lexer.LP:
		r.advance()
		v, err := r.parseList(tok, inQuasi)
		return v, false, err
	case lexer.SQ:
		r.advance()
		inner, iskip, err := r.parseForm(inQuasi)
		if err != nil {
			return nil, false, err
		}
		if iskip {
			return nil, true, nil
		}
		return quoteForm(inner), false, nil
	case lexer.BQ:
		r.advance()
		raw, iskip, err := r.parseForm(true)
		if err != nil {
			return nil, false, err
		}
		if iskip {
			return nil, true, nil
		}
		expanded, err := qqExpand(raw)
		if err != nil {
			return nil, false, r.errorf(tok, "%s", err.Error())
		}
		return expanded, false, nil
	case lexer.COMMA:
		if !inQuasi {
			return nil, false, r.errorf(tok, "unquote outside of quasiquote")
		}
		r.advance()
		inner, iskip, err := r.parseForm(inQuasi)
		if err != nil {
			return nil, false, err
		}
		if iskip {
			return nil, true, nil
		}
		return taggedForm("unquote", inner), false, nil
	case lexer.COMMAAT:
		if !inQuasi {
			return nil, false, r.errorf(tok, "unquote-splice outside of quasiquote")
		}
		r.advance()
		inner, iskip, err := r.parseForm(inQuasi)
		if err != nil {
			return nil, false, err
		}
		if iskip {
			return nil, true, nil
		}
		return taggedForm("unquote-splice", inner), false, nil
	case lexer.HashQuote:
		r.advance()
		return r.parseForm(inQuasi)
	case lexer.HashPlus, lexer.HashMinus:
		return r.parseFeatureExpr(tok, inQuasi)
	case lexer.DOT:
		return nil, false, r.errorf(tok, "unexpected .")
	case lexer.SYMBOL:
		r.advance()
		return symtab.Intern(tok.Text), false, nil
	case lexer.INTEGER:
		r.advance()
		return runtime.Long(tok.IntValue), false, nil
	case lexer.FLOAT:
		r.advance()
		return runtime.Double(tok.FloatValue), false, nil
	case lexer.CHAR:
		r.advance()
		return runtime.Character(tok.RuneValue), false, nil
	case lexer.STRING:
		r.advance()
		return runtime.InternString(tok.Text), false, nil
	default:
		return nil, false, r.errorf(tok, "unexpected token %s", tok.Type)
	}
}

// parseList parses the body of a "(" already consumed at open, up to and
// including the matching ")", handling a dotted tail.
func (r *Reader) parseList(open lexer.Token, inQuasi bool) (runtime.Value, error) {
	var items []runtime.Value
	var tail runtime.Value = runtime.Nil

	for {
		if r.cur.Type == lexer.EOF {
			return nil, r.errorf(open, "unterminated list")
		}
		if r.cur.Type == lexer.RP {
			r.advance()
			break
		}
		if r.cur.Type == lexer.DOT {
			r.advance()
			v, skip, err := r.parseForm(inQuasi)
			if err != nil {
				return nil, err
			}
			if skip {
				continue
			}
			tail = v
			if r.cur.Type != lexer.RP {
				return nil, r.errorf(r.cur, "illegal dotted list end")
			}
			r.advance()
			break
		}
		v, skip, err := r.parseForm(inQuasi)
		if err != nil {
			return nil, err
		}
		if skip {
			continue
		}
		items = append(items, v)
	}

	var result runtime.Value
	if runtime.IsNil(tail) {
		result = runtime.FromSlice(items)
	} else {
		result = runtime.FromSliceDotted(items, tail)
	}
	if c, ok := result.(*runtime.Cons); ok {
		c.Pos = r.pos(open)
	}
	return result, nil
}

func quoteForm(v runtime.Value) runtime.Value {
	return taggedForm("quote", v)
}

func taggedForm(head string, v runtime.Value) runtime.Value {
	return runtime.NewCons(symtab.Intern(head), runtime.NewCons(v, runtime.Nil))
}
