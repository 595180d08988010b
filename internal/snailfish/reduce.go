package snailfish

import (
	"runtime"

	"snailfish/internal/logging"
)

// DefaultMaxSteps bounds a single reduction. Real inputs settle in a few
// hundred steps.
const DefaultMaxSteps = 100_000

// Action names the rule a reduction step applied.
type Action int

const (
	ActionNone Action = iota
	ActionExplode
	ActionSplit
)

func (a Action) String() string {
	switch a {
	case ActionExplode:
		return "explode"
	case ActionSplit:
		return "split"
	}
	return "none"
}

// Step is what an observer sees after each applied rule.
type Step struct {
	Index  int
	Action Action
	Tree   string
}

// StepObserver is called synchronously after every explode or split. During
// MaxPair it is called from several goroutines at once.
type StepObserver func(Step)

// Stats counts the rules applied by one reduction.
type Stats struct {
	Explosions int
	Splits     int
}

// Steps is the total number of rules applied.
func (s Stats) Steps() int {
	return s.Explosions + s.Splits
}

// Engine drives reductions and the homework queries.
type Engine struct {
	maxSteps    int
	parallelism int
	observer    StepObserver
}

// Option configures an Engine.
type Option func(*Engine)

// WithMaxSteps caps the number of rules one reduction may apply.
func WithMaxSteps(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxSteps = n
		}
	}
}

// WithParallelism limits the workers used by MaxPair.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallelism = n
		}
	}
}

// WithObserver installs a callback for every applied rule.
func WithObserver(fn StepObserver) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// NewEngine returns an engine with the given options applied over defaults.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		maxSteps:    DefaultMaxSteps,
		parallelism: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

var defaultEngine = NewEngine()

// DefaultEngine returns the shared engine used by the package-level helpers.
func DefaultEngine() *Engine {
	return defaultEngine
}

// MaxSteps returns the per-reduction rule cap.
func (e *Engine) MaxSteps() int { return e.maxSteps }

// Parallelism returns the MaxPair worker limit.
func (e *Engine) Parallelism() int { return e.parallelism }

// Step applies one rule: an explosion if any pair can explode, otherwise a
// split if any leaf can split. ActionNone means t is reduced.
func (e *Engine) Step(t *Tree) (Action, error) {
	exploded, err := Explode(t)
	if err != nil {
		return ActionNone, err
	}
	if exploded {
		return ActionExplode, nil
	}
	split, err := Split(t)
	if err != nil {
		return ActionNone, err
	}
	if split {
		return ActionSplit, nil
	}
	return ActionNone, nil
}

// Reduce rewrites t in place until no rule applies. Explosions are exhausted
// before each single split; reversing that priority reaches a different
// tree.
func (e *Engine) Reduce(t *Tree) (Stats, error) {
	var stats Stats
	if err := t.usable(); err != nil {
		return stats, err
	}
	for {
		action, err := e.Step(t)
		if err != nil {
			return stats, err
		}
		switch action {
		case ActionExplode:
			stats.Explosions++
		case ActionSplit:
			stats.Splits++
		case ActionNone:
			logging.ReduceDebug("reduced after %d explosions, %d splits", stats.Explosions, stats.Splits)
			return stats, nil
		}
		if e.observer != nil {
			e.observer(Step{Index: stats.Steps(), Action: action, Tree: t.String()})
		}
		if err := e.CheckSteps(stats); err != nil {
			logging.Get(logging.CategoryReduce).Error("reduction exceeded %d steps: %s", e.maxSteps, t)
			return stats, err
		}
	}
}

// CheckSteps fails with ErrInvariantViolation once stats records more rules
// than one reduction may apply.
func (e *Engine) CheckSteps(stats Stats) error {
	if stats.Steps() > e.maxSteps {
		return invariantf("reduction did not settle within %d steps", e.maxSteps)
	}
	return nil
}

// Add joins a and b under a new root and reduces the result. Both operands
// are consumed: they are marked spent and share their nodes with the result.
// Clone an operand first to keep using it.
func (e *Engine) Add(a, b *Tree) (*Tree, error) {
	sum, err := Join(a, b)
	if err != nil {
		return nil, err
	}
	logging.ReduceDebug("add: %s", sum)
	if _, err := e.Reduce(sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// Join builds Pair(a, b) without reducing it, consuming both operands.
// Every node of a and b ends up one level deeper.
func Join(a, b *Tree) (*Tree, error) {
	if err := a.usable(); err != nil {
		return nil, err
	}
	if err := b.usable(); err != nil {
		return nil, err
	}
	if a == b {
		return nil, invariantf("cannot add a tree to itself without cloning")
	}
	left, _ := a.take()
	right, _ := b.take()
	return NewTree(&Pair{Left: left, Right: right}), nil
}

// ReduceAdd adds a and b with the default engine.
func ReduceAdd(a, b *Tree) (*Tree, error) {
	return defaultEngine.Add(a, b)
}
