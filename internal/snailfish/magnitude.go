package snailfish

import "math"

// Magnitude folds t: a leaf is its value, a pair is three times its left
// magnitude plus twice its right. A spent tree has magnitude 0.
//
// A reduced tree always fits in an int. For trees taken as written, use
// CheckedMagnitude.
func Magnitude(t *Tree) int {
	return magnitude(t.Root())
}

func magnitude(n Node) int {
	switch n := n.(type) {
	case *Leaf:
		return n.Value
	case *Pair:
		return 3*magnitude(n.Left) + 2*magnitude(n.Right)
	}
	return 0
}

// CheckedMagnitude is Magnitude that fails with ErrInvariantViolation
// instead of wrapping when the fold does not fit in an int.
func CheckedMagnitude(t *Tree) (int, error) {
	return checkedMagnitude(t.Root())
}

func checkedMagnitude(n Node) (int, error) {
	switch n := n.(type) {
	case nil:
		return 0, nil
	case *Leaf:
		return n.Value, nil
	case *Pair:
		l, err := checkedMagnitude(n.Left)
		if err != nil {
			return 0, err
		}
		r, err := checkedMagnitude(n.Right)
		if err != nil {
			return 0, err
		}
		if l > math.MaxInt/3 || r > math.MaxInt/2 || 3*l > math.MaxInt-2*r {
			return 0, invariantf("magnitude overflow")
		}
		return 3*l + 2*r, nil
	}
	return 0, invariantf("unknown node %T", n)
}
