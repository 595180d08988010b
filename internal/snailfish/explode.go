package snailfish

// Explode performs at most one explosion on t and reports whether it did.
//
// The exploding pair is the first pair, in pre-order with left before right,
// that sits at depth >= 4 and holds two leaves. Its left value goes to the
// previous leaf in in-order sequence and its right value to the next one;
// a value with no neighbour is dropped. The pair becomes Leaf(0).
func Explode(t *Tree) (bool, error) {
	if err := t.usable(); err != nil {
		return false, err
	}
	root, _, _, exploded, err := explode(t.root, 0)
	if err != nil {
		return false, err
	}
	t.root = root
	return exploded, nil
}

// explode returns the replacement for n and the values still waiting for a
// left and right neighbour. A zero carry has nothing left to deliver.
func explode(n Node, depth int) (Node, int, int, bool, error) {
	switch n := n.(type) {
	case *Leaf:
		return n, 0, 0, false, nil
	case *Pair:
		if depth >= explodeDepth {
			l, lok := n.Left.(*Leaf)
			r, rok := n.Right.(*Leaf)
			if lok && rok {
				return &Leaf{}, l.Value, r.Value, true, nil
			}
		}

		repl, carryL, carryR, ok, err := explode(n.Left, depth+1)
		if err != nil || ok {
			if ok {
				n.Left = repl
				if carryR != 0 {
					if err := addLeftmost(n.Right, carryR); err != nil {
						return n, 0, 0, false, err
					}
					carryR = 0
				}
			}
			return n, carryL, carryR, ok, err
		}

		repl, carryL, carryR, ok, err = explode(n.Right, depth+1)
		if ok {
			n.Right = repl
			if carryL != 0 {
				if err := addRightmost(n.Left, carryL); err != nil {
					return n, 0, 0, false, err
				}
				carryL = 0
			}
		}
		return n, carryL, carryR, ok, err
	}
	return n, 0, 0, false, invariantf("unknown node %T", n)
}

// addLeftmost adds v to the first leaf of n in in-order sequence.
func addLeftmost(n Node, v int) error {
	for {
		switch cur := n.(type) {
		case *Leaf:
			return addToLeaf(cur, v)
		case *Pair:
			n = cur.Left
		default:
			return invariantf("unknown node %T", n)
		}
	}
}

// addRightmost adds v to the last leaf of n in in-order sequence.
func addRightmost(n Node, v int) error {
	for {
		switch cur := n.(type) {
		case *Leaf:
			return addToLeaf(cur, v)
		case *Pair:
			n = cur.Right
		default:
			return invariantf("unknown node %T", n)
		}
	}
}

// addToLeaf leaves l untouched when the sum would pass MaxLeafValue.
func addToLeaf(l *Leaf, v int) error {
	if v > MaxLeafValue-l.Value {
		return invariantf("leaf overflow: %d + %d exceeds %d", l.Value, v, MaxLeafValue)
	}
	l.Value += v
	return nil
}
