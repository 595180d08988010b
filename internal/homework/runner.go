// Package homework runs the full snailfish homework over a set of input
// lines: every line is parsed and reduced on its own, the lines are summed in
// order, and the best ordered pair is searched for.
package homework

import (
	"context"
	"errors"
	"fmt"
	"time"

	"snailfish/internal/linesource"
	"snailfish/internal/logging"
	"snailfish/internal/snailfish"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Options controls a run.
type Options struct {
	// Source names the input in the summary (a path or "stdin").
	Source string
	// SkipMalformed drops lines that fail to parse instead of aborting.
	SkipMalformed bool
	// SkipPairs disables the pairwise search.
	SkipPairs bool
}

// LineResult describes one input line reduced on its own.
type LineResult struct {
	Number    int
	Text      string
	Reduced   string
	Magnitude int
}

// Summary is the outcome of a run. Best.I and Best.J hold source line
// numbers, not slice indexes.
type Summary struct {
	RunID     string
	Source    string
	Lines     []LineResult
	Skipped   []*snailfish.LineError
	Final     *snailfish.Tree
	Magnitude int
	Best      snailfish.PairResult
	HasBest   bool
	Duration  time.Duration
}

// Run parses lines and computes the summary. Malformed lines abort the run
// with their joined *snailfish.LineError values unless opts.SkipMalformed is
// set, in which case they are recorded in Summary.Skipped.
func Run(ctx context.Context, engine *snailfish.Engine, lines []linesource.Line, opts Options) (*Summary, error) {
	start := time.Now()
	s := &Summary{RunID: uuid.NewString(), Source: opts.Source}
	log := logging.Get(logging.CategoryHomework).With("run_id", s.RunID)
	log.Info("run started: %d lines from %s", len(lines), opts.Source)

	trees, err := s.parse(lines)
	if err != nil && !opts.SkipMalformed {
		return nil, err
	}
	for _, le := range s.Skipped {
		log.Warn("skipping %v", le)
	}
	if len(trees) == 0 {
		return nil, snailfish.ErrEmptyInput
	}

	for i, t := range trees {
		reduced := t.Clone()
		if _, err := engine.Reduce(reduced); err != nil {
			return nil, fmt.Errorf("line %d: %w", s.Lines[i].Number, err)
		}
		s.Lines[i].Reduced = reduced.String()
		s.Lines[i].Magnitude = snailfish.Magnitude(reduced)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		clones := make([]*snailfish.Tree, len(trees))
		for i, t := range trees {
			clones[i] = t.Clone()
		}
		final, err := engine.Sum(clones)
		if err != nil {
			return err
		}
		s.Final = final
		s.Magnitude = snailfish.Magnitude(final)
		return gctx.Err()
	})
	if !opts.SkipPairs && len(trees) >= 2 {
		g.Go(func() error {
			best, err := engine.MaxPair(gctx, trees)
			if err != nil {
				return err
			}
			best.I = s.Lines[best.I].Number
			best.J = s.Lines[best.J].Number
			s.Best = best
			s.HasBest = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.Duration = time.Since(start)
	log.Info("run finished in %v: magnitude %d", s.Duration, s.Magnitude)
	return s, nil
}

func (s *Summary) parse(lines []linesource.Line) ([]*snailfish.Tree, error) {
	trees := make([]*snailfish.Tree, 0, len(lines))
	var errs []error
	for _, l := range lines {
		t, err := snailfish.Parse(l.Text)
		if err != nil {
			le := &snailfish.LineError{Line: l.Number, Err: err}
			s.Skipped = append(s.Skipped, le)
			errs = append(errs, le)
			continue
		}
		trees = append(trees, t)
		s.Lines = append(s.Lines, LineResult{Number: l.Number, Text: l.Text})
	}
	return trees, errors.Join(errs...)
}
