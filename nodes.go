package matheval

import (
	"math"
	"strconv"
	"strings"
)

// node is a node in the abstract syntax tree of an expression. Nodes are
// never modified after the parser or folder returns them.
type node struct {
	kind nodeKind

	num  float64
	name string
	fn   Func

	// args are the operands of an application, or the head of a chain.
	args []*node
	// tail holds the operations of a chain, applied left to right.
	tail []link
}

// link is one operation in a chain: acc = fn(acc, rhs).
type link struct {
	fn  Func
	rhs *node
}

type nodeKind int8

const (
	nodeNone nodeKind = iota

	nodeNum     // num
	nodeName    // lookup(name)
	nodeUnary   // fn(args[0])
	nodeBinary  // fn(args[0], args[1])
	nodeTernary // fn(args[0], args[1], args[2])
	nodeChain   // left fold of tail over args[0]
)

var nodekindnames = [...]string{
	nodeNone:    "None",
	nodeNum:     "Num",
	nodeName:    "Name",
	nodeUnary:   "Unary",
	nodeBinary:  "Binary",
	nodeTernary: "Ternary",
	nodeChain:   "Chain",
}

func (k nodeKind) String() string {
	if k < 0 || int(k) >= len(nodekindnames) {
		return "nodeKind(" + strconv.Itoa(int(k)) + ")"
	}
	return nodekindnames[k]
}

func numnode(x float64) *node {
	return &node{kind: nodeNum, num: x}
}

// app creates an application node of fn to args.
func app(fn Func, args ...*node) *node {
	var k nodeKind
	switch len(args) {
	case 1:
		k = nodeUnary
	case 2:
		k = nodeBinary
	case 3:
		k = nodeTernary
	default:
		panic("matheval: application with " + strconv.Itoa(len(args)) + " arguments")
	}
	return &node{kind: k, fn: fn, args: args}
}

func (n *node) String() string {
	var b strings.Builder
	n.fmt(&b)
	return b.String()
}

// fmt writes n in a fully parenthesized form that parses back to the same
// tree.
func (n *node) fmt(b *strings.Builder) {
	switch n.kind {
	case nodeNone:
		// Invalid nodes use invalid characters.
		b.WriteString("$#$")
	case nodeNum:
		fmtnum(b, n.num)
	case nodeName:
		b.WriteString(n.name)
	case nodeUnary:
		if funcinfos[n.fn].named {
			n.fmtcall(b)
			return
		}
		b.WriteString(n.fn.String())
		b.WriteByte('(')
		n.args[0].fmt(b)
		b.WriteByte(')')
	case nodeBinary:
		if n.fn != FuncPow && funcinfos[n.fn].named {
			n.fmtcall(b)
			return
		}
		// Binary operators other than ** only appear as binary nodes after
		// folding splits a chain.
		op := n.fn.String()
		if n.fn == FuncPow {
			op = "**"
		}
		b.WriteByte('(')
		n.args[0].fmt(b)
		b.WriteString(" " + op + " ")
		n.args[1].fmt(b)
		b.WriteByte(')')
	case nodeTernary:
		n.fmtcall(b)
	case nodeChain:
		b.WriteByte('(')
		n.args[0].fmt(b)
		for _, l := range n.tail {
			b.WriteString(" " + l.fn.String() + " ")
			l.rhs.fmt(b)
		}
		b.WriteByte(')')
	default:
		panic("matheval: invalid node kind " + n.kind.String() + " after writing " + b.String())
	}
}

func (n *node) fmtcall(b *strings.Builder) {
	b.WriteString(n.fn.String())
	b.WriteByte('(')
	for i, a := range n.args {
		if i > 0 {
			b.WriteString(", ")
		}
		a.fmt(b)
	}
	b.WriteByte(')')
}

// fmtnum writes a number in a form the lexer accepts.
func fmtnum(b *strings.Builder, x float64) {
	switch {
	case math.IsNaN(x):
		b.WriteString("nan")
	case math.IsInf(x, 1):
		b.WriteString("inf")
	case math.IsInf(x, -1):
		b.WriteString("(-inf)")
	case math.Signbit(x):
		b.WriteString("(-")
		b.WriteString(strconv.FormatFloat(-x, 'g', -1, 64))
		b.WriteByte(')')
	default:
		b.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	}
}

// vars appends the names of variables in n to names.
func (n *node) vars(names map[string]bool) {
	switch n.kind {
	case nodeName:
		names[n.name] = true
	case nodeUnary, nodeBinary, nodeTernary, nodeChain:
		for _, a := range n.args {
			a.vars(names)
		}
		for _, l := range n.tail {
			l.rhs.vars(names)
		}
	}
}
