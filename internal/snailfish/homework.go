package snailfish

import (
	"context"
	"fmt"

	"snailfish/internal/logging"

	"golang.org/x/sync/errgroup"
)

// PairResult is the best ordered pair found by MaxPair. I and J index the
// input slice.
type PairResult struct {
	I         int
	J         int
	Magnitude int
	Sum       *Tree
}

// Sum reduces the first tree and folds the rest into it left to right with
// Add. Every input tree is consumed.
func (e *Engine) Sum(trees []*Tree) (*Tree, error) {
	if len(trees) == 0 {
		return nil, ErrEmptyInput
	}
	acc := trees[0]
	if _, err := e.Reduce(acc); err != nil {
		return nil, fmt.Errorf("reducing number 1: %w", err)
	}
	for i, t := range trees[1:] {
		next, err := e.Add(acc, t)
		if err != nil {
			return nil, fmt.Errorf("adding number %d: %w", i+2, err)
		}
		acc = next
	}
	logging.Homework("summed %d numbers, magnitude %d", len(trees), Magnitude(acc))
	return acc, nil
}

// SumAll parses lines, sums them and returns the magnitude of the result.
// Any malformed line aborts the sum.
func SumAll(lines []string) (int, error) {
	trees, err := ParseAll(lines)
	if err != nil {
		return 0, err
	}
	sum, err := defaultEngine.Sum(trees)
	if err != nil {
		return 0, err
	}
	return Magnitude(sum), nil
}

// MaxPair finds the largest magnitude of a+b over all ordered pairs of
// distinct positions. Each addition works on fresh clones, so trees is left
// untouched. Rows are searched concurrently; ties go to the smallest (I, J).
func (e *Engine) MaxPair(ctx context.Context, trees []*Tree) (PairResult, error) {
	if len(trees) < 2 {
		return PairResult{}, ErrNotEnoughTrees
	}
	for i, t := range trees {
		if err := t.usable(); err != nil {
			return PairResult{}, fmt.Errorf("number %d: %w", i+1, err)
		}
	}

	rows := make([]PairResult, len(trees))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)
	for i := range trees {
		g.Go(func() error {
			best, err := e.bestInRow(gctx, trees, i)
			if err != nil {
				return err
			}
			rows[i] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return PairResult{}, err
	}

	best := rows[0]
	for _, r := range rows[1:] {
		if r.Magnitude > best.Magnitude {
			best = r
		}
	}
	logging.Homework("best pair (%d, %d) magnitude %d", best.I+1, best.J+1, best.Magnitude)
	return best, nil
}

func (e *Engine) bestInRow(ctx context.Context, trees []*Tree, i int) (PairResult, error) {
	best := PairResult{I: i, J: -1, Magnitude: -1}
	for j := range trees {
		if i == j {
			continue
		}
		if err := ctx.Err(); err != nil {
			return PairResult{}, err
		}
		sum, err := e.Add(trees[i].Clone(), trees[j].Clone())
		if err != nil {
			return PairResult{}, fmt.Errorf("adding numbers %d and %d: %w", i+1, j+1, err)
		}
		if m := Magnitude(sum); m > best.Magnitude {
			best = PairResult{I: i, J: j, Magnitude: m, Sum: sum}
		}
	}
	logging.HomeworkDebug("row %d: best partner %d, magnitude %d", i+1, best.J+1, best.Magnitude)
	return best, nil
}

// MaxPairMagnitude parses lines and returns the largest pairwise magnitude.
func MaxPairMagnitude(lines []string) (int, error) {
	trees, err := ParseAll(lines)
	if err != nil {
		return 0, err
	}
	best, err := defaultEngine.MaxPair(context.Background(), trees)
	if err != nil {
		return 0, err
	}
	return best.Magnitude, nil
}
