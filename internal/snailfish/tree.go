// Package snailfish implements the snailfish number reduction engine: a
// parser for bracketed pair notation, the explode and split rewrite rules,
// the fixed-point reduction loop, addition, magnitude and the homework
// summation queries built on them.
//
// Trees carry no parent pointers and no stored depth. Depth is always the
// recursion depth of the walk that reaches a node, so structural edits never
// leave stale bookkeeping behind.
package snailfish

import (
	"math"
	"strconv"
	"strings"
)

const (
	// explodeDepth is the depth at which a pair of two leaves explodes.
	explodeDepth = 4
	// splitThreshold is the smallest leaf value that splits.
	splitThreshold = 10
)

// MaxLeafValue is the largest regular number a tree may hold. Parse rejects
// anything larger and an explosion that would push a leaf past it fails, so
// magnitudes of reduced trees always fit in an int.
const MaxLeafValue = math.MaxInt32

// Node is either a *Leaf or a *Pair.
type Node interface {
	isNode()
}

// Leaf holds a regular number.
type Leaf struct {
	Value int
}

// Pair holds two child nodes.
type Pair struct {
	Left  Node
	Right Node
}

func (*Leaf) isNode() {}
func (*Pair) isNode() {}

// Tree is a snailfish number. A tree consumed by Add is spent and must not
// be used again.
type Tree struct {
	root  Node
	spent bool
}

// NewTree wraps root. The tree takes ownership of every node under root.
func NewTree(root Node) *Tree {
	return &Tree{root: root}
}

// Root returns the root node, or nil for a spent tree.
func (t *Tree) Root() Node {
	if t == nil {
		return nil
	}
	return t.root
}

// Spent reports whether the tree was consumed as an addition operand.
func (t *Tree) Spent() bool {
	return t != nil && t.spent
}

// take moves the root out of t and marks it spent.
func (t *Tree) take() (Node, error) {
	if err := t.usable(); err != nil {
		return nil, err
	}
	root := t.root
	t.root = nil
	t.spent = true
	return root, nil
}

func (t *Tree) usable() error {
	switch {
	case t == nil:
		return invariantf("nil tree")
	case t.spent:
		return invariantf("tree was already consumed by an addition")
	case t.root == nil:
		return invariantf("tree has no root")
	}
	return nil
}

// Clone returns a deep copy sharing no nodes with t.
func (t *Tree) Clone() *Tree {
	if t == nil || t.root == nil {
		return &Tree{spent: t != nil && t.spent}
	}
	return &Tree{root: cloneNode(t.root)}
}

func cloneNode(n Node) Node {
	switch n := n.(type) {
	case *Leaf:
		return &Leaf{Value: n.Value}
	case *Pair:
		return &Pair{Left: cloneNode(n.Left), Right: cloneNode(n.Right)}
	}
	return nil
}

// Equal reports structural equality.
func (t *Tree) Equal(other *Tree) bool {
	return equalNodes(t.Root(), other.Root())
}

func equalNodes(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		bl, ok := b.(*Leaf)
		return ok && a.Value == bl.Value
	case *Pair:
		bp, ok := b.(*Pair)
		return ok && equalNodes(a.Left, bp.Left) && equalNodes(a.Right, bp.Right)
	}
	return a == nil && b == nil
}

// String renders the tree in bracket notation without spaces, the same
// form Parse accepts.
func (t *Tree) String() string {
	if t.Root() == nil {
		return "<spent>"
	}
	var sb strings.Builder
	writeNode(&sb, t.root)
	return sb.String()
}

func writeNode(sb *strings.Builder, n Node) {
	switch n := n.(type) {
	case *Leaf:
		sb.WriteString(strconv.Itoa(n.Value))
	case *Pair:
		sb.WriteByte('[')
		writeNode(sb, n.Left)
		sb.WriteByte(',')
		writeNode(sb, n.Right)
		sb.WriteByte(']')
	}
}

// Leaves returns the leaf values in in-order sequence.
func (t *Tree) Leaves() []int {
	var out []int
	walkLeaves(t.Root(), func(l *Leaf) { out = append(out, l.Value) })
	return out
}

func walkLeaves(n Node, fn func(*Leaf)) {
	switch n := n.(type) {
	case *Leaf:
		fn(n)
	case *Pair:
		walkLeaves(n.Left, fn)
		walkLeaves(n.Right, fn)
	}
}

// MaxDepth returns the depth of the deepest pair, or -1 when the root is a
// leaf (or the tree is spent).
func (t *Tree) MaxDepth() int {
	return maxPairDepth(t.Root(), 0)
}

func maxPairDepth(n Node, depth int) int {
	p, ok := n.(*Pair)
	if !ok {
		return -1
	}
	deepest := depth
	if d := maxPairDepth(p.Left, depth+1); d > deepest {
		deepest = d
	}
	if d := maxPairDepth(p.Right, depth+1); d > deepest {
		deepest = d
	}
	return deepest
}

// IsReduced reports whether neither rewrite rule can fire anywhere in t.
func (t *Tree) IsReduced() bool {
	if t.Root() == nil {
		return false
	}
	if t.MaxDepth() >= explodeDepth {
		return false
	}
	for _, v := range t.Leaves() {
		if v >= splitThreshold {
			return false
		}
	}
	return true
}
