package matheval

import (
	"io"
	"strings"
)

// Lookup resolves variable names during evaluation. Lookup must be safe to
// call concurrently if the same Lookup is used for concurrent evaluations.
type Lookup interface {
	// Lookup returns the value of the named variable and whether it is
	// defined.
	Lookup(name string) (float64, bool)
}

// LookupFunc adapts a function to a Lookup.
type LookupFunc func(name string) (float64, bool)

// Lookup calls f(name).
func (f LookupFunc) Lookup(name string) (float64, bool) {
	return f(name)
}

// Map is a Lookup backed by a map.
type Map map[string]float64

// Lookup returns m[name].
func (m Map) Lookup(name string) (float64, bool) {
	v, ok := m[name]
	return v, ok
}

// Eval evaluates the expression. Variables are resolved through l, which
// may be nil if the expression has no variables. Every operand of every
// operator and function is evaluated before the operator is applied,
// including both branches of ifelse and both sides of && and ||.
//
// If a variable appears and l is nil, the error is ErrMissingSymbolTable.
// If l does not define a variable, the error is a *NameError. If a function
// is applied outside its domain, the error is a *DomainError.
func (e *Expr) Eval(l Lookup) (float64, error) {
	if e == nil || e.n == nil {
		return 0, ErrEmptyExpression
	}
	return e.n.eval(l)
}

// eval computes the node's value.
func (n *node) eval(l Lookup) (float64, error) {
	switch n.kind {
	case nodeNone:
		return 0, ErrEmptyExpression
	case nodeNum:
		return n.num, nil
	case nodeName:
		if l == nil {
			return 0, ErrMissingSymbolTable
		}
		v, ok := l.Lookup(n.name)
		if !ok {
			return 0, &NameError{Name: n.name}
		}
		return v, nil
	case nodeUnary:
		x, err := n.args[0].eval(l)
		if err != nil {
			return 0, err
		}
		return call1(n.fn, x)
	case nodeBinary:
		x, err := n.args[0].eval(l)
		if err != nil {
			return 0, err
		}
		y, err := n.args[1].eval(l)
		if err != nil {
			return 0, err
		}
		return call2(n.fn, x, y)
	case nodeTernary:
		x, err := n.args[0].eval(l)
		if err != nil {
			return 0, err
		}
		y, err := n.args[1].eval(l)
		if err != nil {
			return 0, err
		}
		z, err := n.args[2].eval(l)
		if err != nil {
			return 0, err
		}
		return call3(n.fn, x, y, z)
	case nodeChain:
		acc, err := n.args[0].eval(l)
		if err != nil {
			return 0, err
		}
		for _, op := range n.tail {
			r, err := op.rhs.eval(l)
			if err != nil {
				return 0, err
			}
			acc, err = call2(op.fn, acc, r)
			if err != nil {
				return 0, err
			}
		}
		return acc, nil
	default:
		panic("matheval: invalid AST node " + n.kind.String())
	}
}

// Eval is a shortcut to parse an expression and return its result.
func Eval(src io.RuneScanner, l Lookup) (float64, error) {
	a, err := Parse(src)
	if err != nil {
		return 0, err
	}
	return a.Eval(l)
}

// EvalString is a shortcut to parse and evaluate a string expression.
func EvalString(src string, l Lookup) (float64, error) {
	return Eval(strings.NewReader(src), l)
}
