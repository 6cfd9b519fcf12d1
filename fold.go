package matheval

// Fold returns a new expression in which every subexpression whose operands
// are all literals is replaced by its value. The receiver is unchanged.
// Evaluating the result gives the same value as evaluating e, except that
// a domain error in a literal subexpression, e.g. log(-1), is reported by
// Fold instead of Eval.
//
// Chains of left-associative operators become nested binary applications,
// so the folded tree applies them in the same order.
func (e *Expr) Fold() (*Expr, error) {
	if e == nil || e.n == nil {
		return &Expr{}, nil
	}
	n, err := e.n.fold()
	if err != nil {
		return nil, err
	}
	// Folding never removes a variable, so the names are the same.
	return &Expr{n: n, names: e.names}, nil
}

// fold computes the folded form of a node. Unchanged subtrees are shared
// with the original tree, which is safe since trees are never modified.
func (n *node) fold() (*node, error) {
	switch n.kind {
	case nodeNone, nodeNum, nodeName:
		return n, nil
	case nodeUnary, nodeBinary, nodeTernary:
		args := make([]*node, len(n.args))
		lit, same := true, true
		for i, a := range n.args {
			f, err := a.fold()
			if err != nil {
				return nil, err
			}
			args[i] = f
			lit = lit && f.kind == nodeNum
			same = same && f == a
		}
		if !lit {
			if same {
				return n, nil
			}
			return &node{kind: n.kind, fn: n.fn, args: args}, nil
		}
		var (
			x   float64
			err error
		)
		switch n.kind {
		case nodeUnary:
			x, err = call1(n.fn, args[0].num)
		case nodeBinary:
			x, err = call2(n.fn, args[0].num, args[1].num)
		default:
			x, err = call3(n.fn, args[0].num, args[1].num, args[2].num)
		}
		if err != nil {
			return nil, err
		}
		return numnode(x), nil
	case nodeChain:
		acc, err := n.args[0].fold()
		if err != nil {
			return nil, err
		}
		for _, op := range n.tail {
			r, err := op.rhs.fold()
			if err != nil {
				return nil, err
			}
			if acc.kind != nodeNum || r.kind != nodeNum {
				acc = app(op.fn, acc, r)
				continue
			}
			x, err := call2(op.fn, acc.num, r.num)
			if err != nil {
				return nil, err
			}
			acc = numnode(x)
		}
		return acc, nil
	default:
		panic("matheval: invalid AST node " + n.kind.String())
	}
}
