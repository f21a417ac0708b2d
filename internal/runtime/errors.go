package runtime

import "fmt"

// Position is an optional source-position annotation (spec.md §3: "Each cons
// emitted from the reader may carry (filePath, startLine, startCol, endLine,
// endCol) for diagnostic prefixes"). A zero-value Position (Line == 0) means
// "no position available."
type Position struct {
	File      string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// HasPosition reports whether p carries real location information.
func (p Position) HasPosition() bool { return p.StartLine != 0 }

// String renders the one-line "file:line:col" suffix used by every error
// kind below (spec.md §7: "optional file:line:col range when the failing
// form carried reader position").
func (p Position) String() string {
	if !p.HasPosition() {
		return ""
	}
	if p.File != "" {
		return fmt.Sprintf(" (%s:%d:%d)", p.File, p.StartLine, p.StartCol)
	}
	return fmt.Sprintf(" (%d:%d)", p.StartLine, p.StartCol)
}

// kindError is the shared shape behind every error kind in spec.md §7: a
// one-line message prefixed with the error kind, with an optional position
// suffix. No stack traces are part of the contract.
type kindError struct {
	kind string
	msg  string
	pos  Position
}

func (e *kindError) Error() string {
	return e.kind + ": " + e.msg + e.pos.String()
}

func newKindError(kind, msg string, pos Position) *kindError {
	return &kindError{kind: kind, msg: msg, pos: pos}
}

// ReaderError: lexical/syntactic failure at read time (unterminated comment,
// unterminated |...| symbol or string, unexpected ')', illegal dotted end,
// invalid number, unknown dispatch character, invalid feature expression).
type ReaderError struct{ *kindError }

func NewReaderError(msg string, pos Position) *ReaderError {
	return &ReaderError{newKindError("ReaderError", msg, pos)}
}

// MalformedForm: semantic error at eval/codegen time (bad let bindings,
// wrong arg shape for a special form, circular binding list, ...).
type MalformedForm struct{ *kindError }

func NewMalformedForm(msg string, pos Position) *MalformedForm {
	return &MalformedForm{newKindError("MalformedForm", msg, pos)}
}

// Unbound: symbol lookup failure, or lookup of a symbol still bound to the
// "unassigned" sentinel installed by letrec.
type Unbound struct{ *kindError }

func NewUnbound(name string, pos Position) *Unbound {
	return &Unbound{newKindError("Unbound", "unbound symbol: "+name, pos)}
}

// TypeError: wrong kind of value for an operation.
type TypeError struct{ *kindError }

func NewTypeError(msg string, pos Position) *TypeError {
	return &TypeError{newKindError("TypeError", msg, pos)}
}

// ArityError: too few/too many arguments to a primitive or closure.
type ArityError struct {
	Name string
	Got  int
	Min  int
	Max  int
	pos  Position
}

func (e *ArityError) Error() string {
	arity := fmt.Sprintf("expects between %d and %d args", e.Min, e.Max)
	if e.Max < 0 {
		arity = fmt.Sprintf("expects at least %d args", e.Min)
	} else if e.Min == e.Max {
		arity = fmt.Sprintf("expects %d args", e.Min)
	}
	return fmt.Sprintf("ArityError: %s %s, got %d%s", e.Name, arity, e.Got, e.pos.String())
}

// WithPosition returns a copy of e annotated with pos.
func (e *ArityError) WithPosition(pos Position) *ArityError {
	cp := *e
	cp.pos = pos
	return &cp
}

// ArithmeticError: overflow, NaN, infinity, or an undefined operation (e.g.
// division by zero for integer division).
type ArithmeticError struct{ *kindError }

func NewArithmeticError(msg string, pos Position) *ArithmeticError {
	return &ArithmeticError{newKindError("ArithmeticError", msg, pos)}
}

// IOError: file or stream failure (load, require, read/write primitives).
type IOError struct{ *kindError }

func NewIOError(msg string, pos Position) *IOError {
	return &IOError{newKindError("IOError", msg, pos)}
}

// NotImplemented: a feature flagged off (e.g. an unsupported dispatch
// character, or a capability gated behind a feature expression).
type NotImplemented struct{ *kindError }

func NewNotImplemented(msg string, pos Position) *NotImplemented {
	return &NotImplemented{newKindError("NotImplemented", msg, pos)}
}

// Internal: invariant violation — should never surface to a well-formed
// program; reserved for assertions inside the engine itself.
type Internal struct{ *kindError }

func NewInternal(msg string) *Internal {
	return &Internal{newKindError("Internal", msg, Position{})}
}

// WrapInForm annotates err with the offending form's printed representation,
// the "error occurred in ..." suffix spec.md §4.2/§7 requires the evaluator
// to add as it rethrows.
func WrapInForm(err error, formText string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w\n  error occurred in %s", err, formText)
}
