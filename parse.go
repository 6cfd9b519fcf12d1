package matheval

import (
	"errors"
	"io"
	"sort"
	"strconv"
	"strings"
)

// expression     = logical
// logical        = equality { ("&&" | "||") equality }
// equality       = relational { ("==" | "!=") relational }
// relational     = additive { ("<" | "<=" | ">" | ">=") additive }
// additive       = multiplicative { ("+" | "-") multiplicative }
// multiplicative = factor { ("*" | "/" | "%") factor }
// factor         = primary [ "**" factor ]
// primary        = number | "(" expression ")" | ("+" | "-" | "!") primary
//                | func3 "(" expression "," expression "," expression ")"
//                | func2 "(" expression "," expression ")"
//                | func1 "(" expression ")"
//                | constant | variable

// Expr is a parsed expression. An Expr is never modified after it is
// created, so it is safe to evaluate one Expr concurrently.
type Expr struct {
	// n is the root node of the expression.
	n *node
	// names is the list of variable names used in the expression.
	names []string
}

// Parse parses an expression. The entire input must be a single expression.
func Parse(src io.RuneScanner) (*Expr, error) {
	scan := lex(src)
	n, err := parseexpr(scan)
	if err != nil {
		return nil, err
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenEOF {
		return nil, unexpected(tok, "operator or end of input")
	}
	return newExpr(n), nil
}

// ParseString parses an expression from a string.
func ParseString(src string) (*Expr, error) {
	return Parse(strings.NewReader(src))
}

// MustParse is like ParseString but panics if the expression cannot be
// parsed.
func MustParse(src string) *Expr {
	e, err := ParseString(src)
	if err != nil {
		panic("matheval: MustParse(" + strconv.Quote(src) + "): " + err.Error())
	}
	return e
}

func newExpr(n *node) *Expr {
	names := make(map[string]bool)
	n.vars(names)
	ex := Expr{n: n}
	if len(names) > 0 {
		ex.names = make([]string, 0, len(names))
		for k := range names {
			ex.names = append(ex.names, k)
		}
		sort.Strings(ex.names)
	}
	return &ex
}

type operator struct {
	// prec is the precedence level. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
	// fn is the function the operator applies.
	fn Func
}

// Precedence levels of binary operators.
const (
	precNone int8 = iota
	precLogical
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precPow
)

// binop gets a binary operator for a token string. If there is no such
// binary operator, then the result has an fn of FuncNone.
func binop(text string) operator {
	switch text {
	case "&&":
		return operator{precLogical, false, FuncAnd}
	case "||":
		return operator{precLogical, false, FuncOr}
	case "==":
		return operator{precEquality, false, FuncEq}
	case "!=":
		return operator{precEquality, false, FuncNotEq}
	case "<":
		return operator{precRelational, false, FuncLess}
	case "<=":
		return operator{precRelational, false, FuncLessEq}
	case ">":
		return operator{precRelational, false, FuncGreater}
	case ">=":
		return operator{precRelational, false, FuncGreaterEq}
	case "+":
		return operator{precAdditive, false, FuncAdd}
	case "-":
		return operator{precAdditive, false, FuncSub}
	case "*":
		return operator{precMultiplicative, false, FuncMul}
	case "/":
		return operator{precMultiplicative, false, FuncDiv}
	case "%":
		return operator{precMultiplicative, false, FuncMod}
	case "**":
		return operator{precPow, true, FuncPow}
	default:
		return operator{}
	}
}

// unop gets a prefix operator for a token string. If there is no such
// operator, the result is FuncNone.
func unop(text string) Func {
	switch text {
	case "+":
		return FuncPlus
	case "-":
		return FuncMinus
	case "!":
		return FuncNot
	default:
		return FuncNone
	}
}

// parseexpr parses a complete expression. If there is no error, the token
// following the expression has been pushed.
func parseexpr(scan *lexer) (*node, error) {
	return parselevel(scan, precLogical)
}

// parselevel parses a left-associative chain of operators at precedence
// prec, with operands at the next higher precedence. A chain node is
// created only when at least one operator follows the first operand.
func parselevel(scan *lexer, prec int8) (*node, error) {
	if prec == precPow {
		return parsefactor(scan)
	}
	lhs, err := parselevel(scan, prec+1)
	if err != nil {
		return nil, err
	}
	var tail []link
	for {
		tok := scan.must()
		if tok.kind != tokenOp {
			scan.push(tok)
			break
		}
		op := binop(tok.text)
		if op.prec != prec {
			scan.push(tok)
			break
		}
		rhs, err := parselevel(scan, prec+1)
		if err != nil {
			return nil, err
		}
		tail = append(tail, link{fn: op.fn, rhs: rhs})
	}
	if tail == nil {
		return lhs, nil
	}
	return &node{kind: nodeChain, args: []*node{lhs}, tail: tail}, nil
}

// parsefactor parses an exponentiation, which is right-associative.
func parsefactor(scan *lexer) (*node, error) {
	lhs, err := parseprimary(scan)
	if err != nil {
		return nil, err
	}
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	if tok.kind != tokenOp || binop(tok.text).prec != precPow {
		scan.push(tok)
		return lhs, nil
	}
	rhs, err := parsefactor(scan)
	if err != nil {
		return nil, err
	}
	return app(FuncPow, lhs, rhs), nil
}

// parseprimary parses a primary term. Unlike other parse functions, it does
// not push the following token, so its callers can decide how to read it.
func parseprimary(scan *lexer) (*node, error) {
	tok, err := scan.next()
	if err != nil {
		return nil, err
	}
	switch tok.kind {
	case tokenNum:
		x, err := parsenum(tok)
		if err != nil {
			return nil, err
		}
		return numnode(x), nil
	case tokenOpen:
		n, err := parseexpr(scan)
		if err != nil {
			return nil, err
		}
		if err := expect(scan, tokenClose, `")"`); err != nil {
			return nil, err
		}
		return n, nil
	case tokenOp:
		fn := unop(tok.text)
		if fn == FuncNone {
			return nil, unexpected(tok, "expression")
		}
		rhs, err := parseprimary(scan)
		if err != nil {
			return nil, err
		}
		return app(fn, rhs), nil
	case tokenIdent:
		if fn, ok := namedfuncs[tok.text]; ok {
			return parsecall(scan, tok, fn)
		}
		if x, ok := constants[tok.text]; ok {
			return numnode(x), nil
		}
		return &node{kind: nodeName, name: tok.text}, nil
	default:
		return nil, unexpected(tok, "expression")
	}
}

// parsecall parses the parenthesized argument list of a call to fn. Once a
// function name is seen, the call must be complete.
func parsecall(scan *lexer, name lexToken, fn Func) (*node, error) {
	if err := expect(scan, tokenOpen, `"(" after `+name.text); err != nil {
		return nil, err
	}
	n := fn.Arity()
	args := make([]*node, 0, n)
	for i := 0; i < n; i++ {
		if i > 0 {
			want := `"," in call to ` + name.text + " with " + strconv.Itoa(n) + " arguments"
			if err := expect(scan, tokenSep, want); err != nil {
				return nil, err
			}
		}
		a, err := parseexpr(scan)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	want := `")" after ` + strconv.Itoa(n) + " arguments to " + name.text
	if err := expect(scan, tokenClose, want); err != nil {
		return nil, err
	}
	return app(fn, args...), nil
}

// expect consumes the next token, which must have the given kind.
func expect(scan *lexer, kind tokenKind, want string) error {
	tok, err := scan.next()
	if err != nil {
		return err
	}
	if tok.kind != kind {
		return unexpected(tok, want)
	}
	return nil
}

// parsenum converts a number token to its value. Numbers too large to
// represent become infinities.
func parsenum(tok lexToken) (float64, error) {
	x, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		var ne *strconv.NumError
		if errors.As(err, &ne) && errors.Is(ne.Err, strconv.ErrRange) {
			return x, nil
		}
		return 0, &ParseError{Col: tok.pos, Want: "number", Got: tok.text}
	}
	return x, nil
}

// unexpected returns an error for a token the grammar did not allow.
func unexpected(tok lexToken, want string) error {
	return &ParseError{Col: tok.pos, Want: want, Got: tok.text}
}

// Vars returns the variable names used when evaluating the expression,
// sorted.
func (e *Expr) Vars() []string {
	return append(([]string)(nil), e.names...)
}

// String creates a fully parenthesized representation of the parsed
// expression. Parsing the result produces an identical expression.
func (e *Expr) String() string {
	if e == nil || e.n == nil {
		return ""
	}
	return e.n.String()
}
