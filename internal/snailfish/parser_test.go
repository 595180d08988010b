package snailfish

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, line string) *Tree {
	t.Helper()
	tree, err := Parse(line)
	require.NoError(t, err, "parsing %q", line)
	return tree
}

func TestParse_Structure(t *testing.T) {
	tree := mustParse(t, "[[1,2],3]")

	want := NewTree(&Pair{
		Left:  &Pair{Left: &Leaf{Value: 1}, Right: &Leaf{Value: 2}},
		Right: &Leaf{Value: 3},
	})
	assert.True(t, tree.Equal(want), "got %s", tree)
}

func TestParse_MultiDigitLeaves(t *testing.T) {
	tree := mustParse(t, "[[10,2],1234]")
	if diff := cmp.Diff([]int{10, 2, 1234}, tree.Leaves()); diff != "" {
		t.Errorf("leaves mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_BareInteger(t *testing.T) {
	tree := mustParse(t, "7")
	assert.Equal(t, []int{7}, tree.Leaves())
	assert.Equal(t, -1, tree.MaxDepth())
}

func TestParse_LargestLeaf(t *testing.T) {
	tree := mustParse(t, "[2147483647,0]")
	assert.Equal(t, []int{MaxLeafValue, 0}, tree.Leaves())
}

func TestParse_RoundTrip(t *testing.T) {
	lines := []string{
		"[1,2]",
		"[[1,2],3]",
		"[9,[8,7]]",
		"[[1,9],[8,5]]",
		"[[[[1,2],[3,4]],[[5,6],[7,8]]],9]",
		"[[[9,[3,8]],[[0,9],6]],[[[3,7],[4,9]],3]]",
		"[[[[1,3],[5,3]],[[1,3],[8,7]]],[[[4,9],[6,9]],[[8,2],[7,3]]]]",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			tree := mustParse(t, line)
			assert.Equal(t, line, tree.String())
			again := mustParse(t, tree.String())
			assert.True(t, tree.Equal(again))
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	cases := []struct {
		line   string
		offset int
	}{
		{"", 0},
		{"[1,2", 4},
		{"[1 ,2]", 2},
		{" [1,2]", 0},
		{"[1,2] ", 5},
		{"[1;2]", 2},
		{"[1,2,3]", 4},
		{"[,2]", 1},
		{"[1]", 2},
		{"[[1,2],", 7},
		{"]", 0},
		{"[1,2]]", 5},
		{"[-1,2]", 1},
		{"[1,99999999999999999999999]", 3},
		{"[1,2147483648]", 3},
		{"[9223372036854775807,0]", 1},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			tree, err := Parse(tc.line)
			require.Error(t, err)
			assert.Nil(t, tree, "no partial tree on failure")
			assert.True(t, errors.Is(err, ErrMalformedInput))

			var mErr *MalformedInputError
			require.True(t, errors.As(err, &mErr))
			assert.Equal(t, tc.offset, mErr.Offset)
		})
	}
}

func TestParseAll_CollectsEveryFailure(t *testing.T) {
	trees, err := ParseAll([]string{"[1,2]", "[1,2", "[3,4]", "x"})
	require.Error(t, err)
	require.Len(t, trees, 2)
	assert.Equal(t, "[1,2]", trees[0].String())
	assert.Equal(t, "[3,4]", trees[1].String())

	var lineErrs []int
	for _, e := range err.(interface{ Unwrap() []error }).Unwrap() {
		var le *LineError
		require.True(t, errors.As(e, &le))
		assert.True(t, errors.Is(le, ErrMalformedInput))
		lineErrs = append(lineErrs, le.Line)
	}
	assert.Equal(t, []int{2, 4}, lineErrs)
}

func TestParseAll_Clean(t *testing.T) {
	trees, err := ParseAll([]string{"[1,1]", "[2,2]"})
	require.NoError(t, err)
	assert.Len(t, trees, 2)
}
