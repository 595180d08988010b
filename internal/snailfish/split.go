package snailfish

// Split replaces the first leaf, in in-order sequence, whose value is at
// least 10 with a pair of its halves rounded down and up. At most one leaf
// splits per call.
func Split(t *Tree) (bool, error) {
	if err := t.usable(); err != nil {
		return false, err
	}
	root, ok, err := split(t.root)
	if err != nil {
		return false, err
	}
	t.root = root
	return ok, nil
}

func split(n Node) (Node, bool, error) {
	switch n := n.(type) {
	case *Leaf:
		if n.Value < splitThreshold {
			return n, false, nil
		}
		return &Pair{
			Left:  &Leaf{Value: n.Value / 2},
			Right: &Leaf{Value: (n.Value + 1) / 2},
		}, true, nil
	case *Pair:
		repl, ok, err := split(n.Left)
		if err != nil {
			return n, false, err
		}
		if ok {
			n.Left = repl
			return n, true, nil
		}
		repl, ok, err = split(n.Right)
		if ok {
			n.Right = repl
		}
		return n, ok, err
	}
	return n, false, invariantf("unknown node %T", n)
}
