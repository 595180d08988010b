package snailfish

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdd_KnownScenario(t *testing.T) {
	a := mustParse(t, "[[[[4,3],4],4],[7,[[8,4],9]]]")
	b := mustParse(t, "[1,1]")

	sum, err := ReduceAdd(a, b)
	require.NoError(t, err)
	assert.Equal(t, "[[[[0,7],4],[[7,8],[6,0]]],[8,1]]", sum.String())
	assert.True(t, sum.IsReduced())
	assert.True(t, a.Spent())
	assert.True(t, b.Spent())
}

func TestReduce_StepSequence(t *testing.T) {
	var steps []Step
	engine := NewEngine(WithObserver(func(s Step) { steps = append(steps, s) }))

	tree := mustParse(t, "[[[[[4,3],4],4],[7,[[8,4],9]]],[1,1]]")
	stats, err := engine.Reduce(tree)
	require.NoError(t, err)

	want := []Step{
		{Index: 1, Action: ActionExplode, Tree: "[[[[0,7],4],[7,[[8,4],9]]],[1,1]]"},
		{Index: 2, Action: ActionExplode, Tree: "[[[[0,7],4],[15,[0,13]]],[1,1]]"},
		{Index: 3, Action: ActionSplit, Tree: "[[[[0,7],4],[[7,8],[0,13]]],[1,1]]"},
		{Index: 4, Action: ActionSplit, Tree: "[[[[0,7],4],[[7,8],[0,[6,7]]]],[1,1]]"},
		{Index: 5, Action: ActionExplode, Tree: "[[[[0,7],4],[[7,8],[6,0]]],[8,1]]"},
	}
	assert.Equal(t, want, steps)
	assert.Equal(t, Stats{Explosions: 3, Splits: 2}, stats)
}

func TestReduce_Idempotent(t *testing.T) {
	tree := mustParse(t, "[[[[0,7],4],[[7,8],[6,0]]],[8,1]]")
	stats, err := NewEngine().Reduce(tree)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Explosions)
	assert.Equal(t, 0, stats.Splits)
	assert.Equal(t, "[[[[0,7],4],[[7,8],[6,0]]],[8,1]]", tree.String())
}

func TestEngine_StepByStep(t *testing.T) {
	engine := NewEngine()
	tree := mustParse(t, "[[[[[4,3],4],4],[7,[[8,4],9]]],[1,1]]")

	var actions []Action
	for {
		a, err := engine.Step(tree)
		require.NoError(t, err)
		if a == ActionNone {
			break
		}
		actions = append(actions, a)
	}
	assert.Equal(t, []Action{ActionExplode, ActionExplode, ActionSplit, ActionSplit, ActionExplode}, actions)
	assert.Equal(t, "split", ActionSplit.String())
}

func TestReduce_StepCap(t *testing.T) {
	engine := NewEngine(WithMaxSteps(2))
	tree := mustParse(t, "[[[[[4,3],4],4],[7,[[8,4],9]]],[1,1]]")

	_, err := engine.Reduce(tree)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestReduce_StepCapExactlyEnough(t *testing.T) {
	engine := NewEngine(WithMaxSteps(5))
	tree := mustParse(t, "[[[[[4,3],4],4],[7,[[8,4],9]]],[1,1]]")

	stats, err := engine.Reduce(tree)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Steps())
}

func TestEngine_CheckSteps(t *testing.T) {
	engine := NewEngine(WithMaxSteps(3))
	assert.NoError(t, engine.CheckSteps(Stats{Explosions: 2, Splits: 1}))

	err := engine.CheckSteps(Stats{Explosions: 2, Splits: 2})
	assert.True(t, errors.Is(err, ErrInvariantViolation))
	assert.Contains(t, err.Error(), "within 3 steps")
}

func TestReduce_DepthInvariantAfterAdd(t *testing.T) {
	lines := []string{
		"[[[0,[4,5]],[0,0]],[[[4,5],[2,6]],[9,5]]]",
		"[7,[[[3,7],[4,3]],[[6,3],[8,8]]]]",
		"[[2,[[0,8],[3,4]]],[[[6,7],1],[7,[1,6]]]]",
		"[[[[2,4],7],[6,[0,5]]],[[[6,8],[2,8]],[[2,1],[4,5]]]]",
		"[7,[5,[[3,8],[1,4]]]]",
		"[[2,[2,2]],[8,[8,1]]]",
		"[2,9]",
		"[1,[[[9,3],9],[[9,0],[0,7]]]]",
		"[[[5,[7,4]],7],1]",
		"[[[[4,2],2],6],[8,7]]",
	}
	engine := NewEngine()
	acc := mustParse(t, lines[0])
	for _, line := range lines[1:] {
		next, err := engine.Add(acc, mustParse(t, line))
		require.NoError(t, err)
		require.True(t, next.IsReduced(), "not reduced after adding %s: %s", line, next)
		require.Less(t, next.MaxDepth(), 4)
		for _, v := range next.Leaves() {
			require.Less(t, v, 10)
		}
		acc = next
	}
	assert.Equal(t, "[[[[8,7],[7,7]],[[8,6],[7,7]]],[[[0,7],[6,6]],[8,7]]]", acc.String())
	assert.Equal(t, 3488, Magnitude(acc))
}

func TestAdd_RunningSums(t *testing.T) {
	cases := []struct {
		count int
		want  string
	}{
		{4, "[[[[1,1],[2,2]],[3,3]],[4,4]]"},
		{5, "[[[[3,0],[5,3]],[4,4]],[5,5]]"},
		{6, "[[[[5,0],[7,4]],[5,5]],[6,6]]"},
	}
	all := []string{"[1,1]", "[2,2]", "[3,3]", "[4,4]", "[5,5]", "[6,6]"}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			trees, err := ParseAll(all[:tc.count])
			require.NoError(t, err)
			sum, err := NewEngine().Sum(trees)
			require.NoError(t, err)
			assert.Equal(t, tc.want, sum.String())
		})
	}
}

func TestAdd_RejectsSpentAndAliasedOperands(t *testing.T) {
	engine := NewEngine()
	a := mustParse(t, "[1,2]")
	b := mustParse(t, "[3,4]")
	_, err := engine.Add(a, b)
	require.NoError(t, err)

	_, err = engine.Add(a, mustParse(t, "[5,6]"))
	assert.True(t, errors.Is(err, ErrInvariantViolation), "spent left operand")

	c := mustParse(t, "[7,8]")
	_, err = engine.Add(c, c)
	assert.True(t, errors.Is(err, ErrInvariantViolation), "aliased operands")
	assert.False(t, c.Spent(), "a rejected addition consumes nothing")

	_, err = engine.Add(nil, c)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

func TestAdd_CloneKeepsOperandUsable(t *testing.T) {
	a := mustParse(t, "[[1,2],[3,4]]")
	_, err := NewEngine().Add(a.Clone(), mustParse(t, "[5,6]"))
	require.NoError(t, err)
	assert.False(t, a.Spent())
	assert.Equal(t, "[[1,2],[3,4]]", a.String())
}

func TestNewEngine_Options(t *testing.T) {
	e := NewEngine(WithMaxSteps(10), WithParallelism(3), WithMaxSteps(-1), WithParallelism(0))
	assert.Equal(t, 10, e.MaxSteps())
	assert.Equal(t, 3, e.Parallelism())
	assert.Equal(t, DefaultMaxSteps, DefaultEngine().MaxSteps())
}
