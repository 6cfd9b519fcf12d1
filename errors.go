package matheval

import (
	"errors"
	"strconv"
)

// ErrorKind classifies the errors produced by parsing, folding, and
// evaluating expressions.
type ErrorKind int8

const (
	// NoError is the kind of a nil error or of an error that did not come
	// from this package.
	NoError ErrorKind = iota
	// ParseFailure is malformed or incomplete input.
	ParseFailure
	// MissingSymbolTable is a variable evaluated without any Lookup.
	MissingSymbolTable
	// UnknownVariable is a variable that the Lookup does not define.
	UnknownVariable
	// DivideByZero covers division and modulo by zero and the poles of
	// log, atanh, tgamma, and pow.
	DivideByZero
	// ModuloWithInfinity is modulo with an infinite dividend.
	ModuloWithInfinity
	// InvalidDomain is an argument outside the domain of a function.
	InvalidDomain
	// EmptyExpression is evaluation of an expression that was never parsed.
	EmptyExpression
)

var kindnames = [...]string{
	NoError:            "NoError",
	ParseFailure:       "ParseFailure",
	MissingSymbolTable: "MissingSymbolTable",
	UnknownVariable:    "UnknownVariable",
	DivideByZero:       "DivideByZero",
	ModuloWithInfinity: "ModuloWithInfinity",
	InvalidDomain:      "InvalidDomain",
	EmptyExpression:    "EmptyExpression",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindnames) {
		return "ErrorKind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindnames[k]
}

// kinded is implemented by every error this package returns.
type kinded interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of err, looking through wrapping. The result is
// NoError if err is nil or did not originate in this package.
func KindOf(err error) ErrorKind {
	var k kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return NoError
}

// IsDivideByZero reports whether err is any member of the divide-by-zero
// family, e.g. 1/0, 1%0, log(0), or atanh(1).
func IsDivideByZero(err error) bool {
	return KindOf(err) == DivideByZero
}

// InputError is an error with position information. Every error resulting
// from invalid input implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to
	// and including the start of the token that caused the error.
	Pos() int
}

// ParseError indicates input that does not match the grammar. It
// implements InputError.
type ParseError struct {
	// Col is the position of the offending token.
	Col int
	// Want describes what the parser expected at Col.
	Want string
	// Got is the text of the offending token. It is empty at the end of
	// the input.
	Got string
}

func (err *ParseError) Error() string {
	got := "end of input"
	if err.Got != "" {
		got = strconv.Quote(err.Got)
	}
	if err.Want == "" {
		return errpos(err.Col, "unexpected "+got)
	}
	return errpos(err.Col, "expected "+err.Want+", got "+got)
}

func (err *ParseError) Pos() int {
	return err.Col
}

func (err *ParseError) Kind() ErrorKind {
	return ParseFailure
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// NameError is an error from a lookup for a variable that is missing from
// the symbol table.
type NameError struct {
	// Name is the name that was missing.
	Name string
}

func (err *NameError) Error() string {
	return "undefined variable: " + strconv.Quote(err.Name)
}

func (err *NameError) Kind() ErrorKind {
	return UnknownVariable
}

// DomainError is an error returned when a function is called on arguments
// outside its domain.
type DomainError struct {
	// Reason is DivideByZero, ModuloWithInfinity, or InvalidDomain.
	Reason ErrorKind
	// Func is a name identifying the function.
	Func string
	// X is the out-of-domain argument.
	X float64
	// Arg is the 1-based index of the argument, or 0 if no single argument
	// is at fault.
	Arg int
}

func (err *DomainError) Error() string {
	switch err.Reason {
	case DivideByZero:
		if err.Func == "" {
			return "divide by zero"
		}
		return "divide by zero in " + err.Func
	case ModuloWithInfinity:
		return "modulo with infinity"
	}
	r := strconv.FormatFloat(err.X, 'g', -1, 64) + " outside domain"
	if err.Func != "" {
		r += " of " + err.Func
	}
	if err.Arg > 0 {
		r += " (argument " + strconv.Itoa(err.Arg) + ")"
	}
	return r
}

func (err *DomainError) Kind() ErrorKind {
	return err.Reason
}

// kindError is a fixed error with a kind.
type kindError struct {
	kind ErrorKind
	msg  string
}

func (err *kindError) Error() string {
	return err.msg
}

func (err *kindError) Kind() ErrorKind {
	return err.kind
}

var (
	// ErrMissingSymbolTable is returned when an expression containing a
	// variable is evaluated without a Lookup.
	ErrMissingSymbolTable error = &kindError{MissingSymbolTable, "missing symbol table to look up variable"}
	// ErrEmptyExpression is returned when evaluating an Expr that was never
	// parsed.
	ErrEmptyExpression error = &kindError{EmptyExpression, "empty expression"}
)

var (
	_ InputError = (*ParseError)(nil)

	_ kinded = (*ParseError)(nil)
	_ kinded = (*NameError)(nil)
	_ kinded = (*DomainError)(nil)
	_ kinded = (*kindError)(nil)
)
