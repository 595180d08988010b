package snailfish

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// exampleHomework is the worked example from the puzzle statement.
var exampleHomework = []string{
	"[[[0,[5,8]],[[1,7],[9,6]]],[[4,[1,2]],[[1,4],2]]]",
	"[[[5,[2,8]],4],[5,[[9,9],0]]]",
	"[6,[[[6,2],[5,6]],[[7,6],[4,7]]]]",
	"[[[6,[0,7]],[0,9]],[4,[9,[9,0]]]]",
	"[[[7,[6,4]],[3,[1,3]]],[[[5,5],1],9]]",
	"[[6,[[7,3],[3,2]]],[[[3,8],[5,7]],4]]",
	"[[[[5,4],[7,7]],8],[[8,3],8]]",
	"[[9,3],[[9,9],[6,[4,9]]]]",
	"[[2,[[7,7],7]],[[5,8],[[9,3],[0,2]]]]",
	"[[[[5,2],5],[8,[3,7]]],[[5,[7,5]],[4,4]]]",
}

func TestMagnitude(t *testing.T) {
	cases := []struct {
		line string
		want int
	}{
		{"[9,1]", 29},
		{"[[1,2],[[3,4],5]]", 143},
		{"[[[[0,7],4],[[7,8],[6,0]]],[8,1]]", 1384},
		{"[[[[1,1],[2,2]],[3,3]],[4,4]]", 445},
		{"[[[[3,0],[5,3]],[4,4]],[5,5]]", 791},
		{"[[[[5,0],[7,4]],[5,5]],[6,6]]", 1137},
		{"[[[[8,7],[7,7]],[[8,6],[7,7]]],[[[0,7],[6,6]],[8,7]]]", 3488},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			tree := mustParse(t, tc.line)
			assert.Equal(t, tc.want, Magnitude(tree))
			assert.Equal(t, tc.line, tree.String(), "magnitude must not mutate")

			checked, err := CheckedMagnitude(tree)
			require.NoError(t, err)
			assert.Equal(t, tc.want, checked)
		})
	}
}

func TestCheckedMagnitude_Overflow(t *testing.T) {
	// 3^30 * MaxLeafValue does not fit in an int.
	line := strings.Repeat("[", 30) + "2147483647" + strings.Repeat(",0]", 30)
	_, err := CheckedMagnitude(mustParse(t, line))
	assert.True(t, errors.Is(err, ErrInvariantViolation), "got %v", err)

	m, err := CheckedMagnitude(mustParse(t, "[2147483647,2147483647]"))
	require.NoError(t, err)
	assert.Equal(t, 5*MaxLeafValue, m)
}

func TestSum_Homework(t *testing.T) {
	trees, err := ParseAll(exampleHomework)
	require.NoError(t, err)

	sum, err := NewEngine().Sum(trees)
	require.NoError(t, err)
	assert.Equal(t, "[[[[6,6],[7,6]],[[7,7],[7,0]]],[[[7,7],[7,7]],[[7,8],[9,9]]]]", sum.String())
	assert.Equal(t, 4140, Magnitude(sum))

	// Round trip of a reduced tree.
	again := mustParse(t, sum.String())
	assert.True(t, sum.Equal(again))
}

func TestSumAll(t *testing.T) {
	got, err := SumAll(exampleHomework)
	require.NoError(t, err)
	assert.Equal(t, 4140, got)
}

func TestSumAll_SingleLineIsReduced(t *testing.T) {
	got, err := SumAll([]string{"[[[[[9,8],1],2],3],4]"})
	require.NoError(t, err)
	assert.Equal(t, Magnitude(mustParse(t, "[[[[0,9],2],3],4]")), got)
}

func TestSumAll_Errors(t *testing.T) {
	_, err := SumAll(nil)
	assert.True(t, errors.Is(err, ErrEmptyInput))

	_, err = SumAll([]string{"[1,1]", "[1,2"})
	assert.True(t, errors.Is(err, ErrMalformedInput))
	var le *LineError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, 2, le.Line)
}

func TestMaxPairMagnitude(t *testing.T) {
	got, err := MaxPairMagnitude(exampleHomework)
	require.NoError(t, err)
	assert.Equal(t, 3993, got)
}

func TestMaxPair_DoesNotMutateInputs(t *testing.T) {
	trees, err := ParseAll(exampleHomework)
	require.NoError(t, err)
	before := make([]string, len(trees))
	for i, tr := range trees {
		before[i] = tr.String()
	}

	best, err := NewEngine(WithParallelism(3)).MaxPair(context.Background(), trees)
	require.NoError(t, err)
	assert.Equal(t, 3993, best.Magnitude)
	assert.Equal(t, 8, best.I)
	assert.Equal(t, 0, best.J)
	assert.Equal(t, "[[[[7,8],[6,6]],[[6,0],[7,7]]],[[[7,8],[8,8]],[[7,9],[0,6]]]]", best.Sum.String())

	for i, tr := range trees {
		assert.False(t, tr.Spent())
		assert.Equal(t, before[i], tr.String())
	}
}

func TestMaxPair_SameResultAnyParallelism(t *testing.T) {
	trees, err := ParseAll(exampleHomework)
	require.NoError(t, err)

	serial, err := NewEngine(WithParallelism(1)).MaxPair(context.Background(), trees)
	require.NoError(t, err)
	wide, err := NewEngine(WithParallelism(16)).MaxPair(context.Background(), trees)
	require.NoError(t, err)

	assert.Equal(t, serial.I, wide.I)
	assert.Equal(t, serial.J, wide.J)
	assert.Equal(t, serial.Magnitude, wide.Magnitude)
}

func TestMaxPair_OrderedPairsAreDistinct(t *testing.T) {
	// [9,1]+[1,9] and [1,9]+[9,1] differ; only distinct positions count.
	trees, err := ParseAll([]string{"[9,1]", "[1,9]"})
	require.NoError(t, err)

	best, err := NewEngine().MaxPair(context.Background(), trees)
	require.NoError(t, err)

	a, err := ReduceAdd(mustParse(t, "[9,1]"), mustParse(t, "[1,9]"))
	require.NoError(t, err)
	b, err := ReduceAdd(mustParse(t, "[1,9]"), mustParse(t, "[9,1]"))
	require.NoError(t, err)
	assert.Equal(t, max(Magnitude(a), Magnitude(b)), best.Magnitude)
}

func TestMaxPair_Errors(t *testing.T) {
	engine := NewEngine()

	_, err := engine.MaxPair(context.Background(), []*Tree{mustParse(t, "[1,1]")})
	assert.True(t, errors.Is(err, ErrNotEnoughTrees))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	trees, err := ParseAll(exampleHomework)
	require.NoError(t, err)
	_, err = engine.MaxPair(ctx, trees)
	assert.True(t, errors.Is(err, context.Canceled))

	spent := mustParse(t, "[1,1]")
	_, err = engine.Add(spent, mustParse(t, "[2,2]"))
	require.NoError(t, err)
	_, err = engine.MaxPair(context.Background(), []*Tree{spent, mustParse(t, "[3,3]")})
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}
