package snailfish

import (
	"errors"
	"fmt"
	"strconv"
)

// Parse reads one snailfish number in bracket notation:
//
//	Value := Integer | "[" Value "," Value "]"
//
// Anything else, whitespace included, fails with a *MalformedInputError.
func Parse(line string) (*Tree, error) {
	p := &parser{src: line}
	if len(line) == 0 {
		return nil, p.fail("empty line")
	}
	root, err := p.value()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.fail(fmt.Sprintf("unexpected %q after end of number", p.src[p.pos]))
	}
	return NewTree(root), nil
}

// ParseAll parses every line. Trees for the lines that parsed are returned in
// input order; failures are joined as *LineError values.
func ParseAll(lines []string) ([]*Tree, error) {
	trees := make([]*Tree, 0, len(lines))
	var errs []error
	for i, line := range lines {
		t, err := Parse(line)
		if err != nil {
			errs = append(errs, &LineError{Line: i + 1, Err: err})
			continue
		}
		trees = append(trees, t)
	}
	return trees, errors.Join(errs...)
}

type parser struct {
	src string
	pos int
}

func (p *parser) fail(reason string) error {
	return &MalformedInputError{Offset: p.pos, Reason: reason}
}

func (p *parser) value() (Node, error) {
	if p.pos >= len(p.src) {
		return nil, p.fail("unexpected end of input, expected '[' or digit")
	}
	c := p.src[p.pos]
	switch {
	case c == '[':
		return p.pair()
	case isDigit(c):
		return p.leaf()
	}
	return nil, p.fail(fmt.Sprintf("unexpected %q, expected '[' or digit", c))
}

func (p *parser) pair() (Node, error) {
	p.pos++ // '['
	left, err := p.value()
	if err != nil {
		return nil, err
	}
	if err := p.expect(','); err != nil {
		return nil, err
	}
	right, err := p.value()
	if err != nil {
		return nil, err
	}
	if err := p.expect(']'); err != nil {
		return nil, err
	}
	return &Pair{Left: left, Right: right}, nil
}

func (p *parser) leaf() (Node, error) {
	start := p.pos
	for p.pos < len(p.src) && isDigit(p.src[p.pos]) {
		p.pos++
	}
	digits := p.src[start:p.pos]
	v, err := strconv.Atoi(digits)
	if err != nil || v > MaxLeafValue {
		p.pos = start
		return nil, p.fail(fmt.Sprintf("integer %s exceeds %d", digits, MaxLeafValue))
	}
	return &Leaf{Value: v}, nil
}

func (p *parser) expect(want byte) error {
	if p.pos >= len(p.src) {
		return p.fail(fmt.Sprintf("unexpected end of input, expected %q", want))
	}
	if got := p.src[p.pos]; got != want {
		return p.fail(fmt.Sprintf("unexpected %q, expected %q", got, want))
	}
	p.pos++
	return nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
