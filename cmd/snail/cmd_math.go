package main

import (
	"fmt"

	"snailfish/cmd/snail/ui"
	"snailfish/internal/logging"
	"snailfish/internal/snailfish"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// addCmd adds numbers given on the command line
var addCmd = &cobra.Command{
	Use:   "add [number] [number...]",
	Short: "Add snailfish numbers given as arguments",
	Long: `Adds the arguments left to right, reducing after each addition.

Example:
  snail add '[[[[4,3],4],4],[7,[[8,4],9]]]' '[1,1]'`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAdd,
}

// reduceCmd reduces a single number
var reduceCmd = &cobra.Command{
	Use:   "reduce [number]",
	Short: "Reduce one snailfish number",
	Args:  cobra.ExactArgs(1),
	RunE:  runReduce,
}

// magnitudeCmd prints a magnitude without reducing
var magnitudeCmd = &cobra.Command{
	Use:   "magnitude [number]",
	Short: "Print the magnitude of a snailfish number as written",
	Args:  cobra.ExactArgs(1),
	RunE:  runMagnitude,
}

// traceCmd prints every reduction step
var traceCmd = &cobra.Command{
	Use:   "trace [number] [number...]",
	Short: "Show every explode and split while adding numbers",
	Long: `Adds the arguments left to right like "add", printing the tree after each
addition and after every explode or split.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTrace,
}

func runAdd(cmd *cobra.Command, args []string) error {
	trees, err := parseArgs(args)
	if err != nil {
		return err
	}
	sum, err := engine.Sum(trees)
	if err != nil {
		return err
	}
	logger.Debug("add complete", zap.Int("operands", len(trees)), zap.String("sum", sum.String()))
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, sum)
	fmt.Fprintf(out, "magnitude: %d\n", snailfish.Magnitude(sum))
	return nil
}

func runReduce(cmd *cobra.Command, args []string) error {
	trees, err := parseArgs(args)
	if err != nil {
		return err
	}
	stats, err := engine.Reduce(trees[0])
	if err != nil {
		return err
	}
	logging.Reduce("reduced %s in %d steps", args[0], stats.Steps())
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, trees[0])
	fmt.Fprintf(out, "explosions: %d, splits: %d\n", stats.Explosions, stats.Splits)
	return nil
}

func runMagnitude(cmd *cobra.Command, args []string) error {
	trees, err := parseArgs(args)
	if err != nil {
		return err
	}
	m, err := snailfish.CheckedMagnitude(trees[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), m)
	return nil
}

func runTrace(cmd *cobra.Command, args []string) error {
	trees, err := parseArgs(args)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := ui.DefaultStyles(cfg.UX.Theme)
	tracer := snailfish.NewEngine(
		snailfish.WithMaxSteps(engine.MaxSteps()),
		snailfish.WithObserver(func(s snailfish.Step) {
			fmt.Fprintf(out, "%s %s\n", styles.ActionLabel(s.Action), s.Tree)
		}),
	)

	acc := trees[0]
	fmt.Fprintf(out, "%s %s\n", styles.Label.Render("start:  "), acc)
	if _, err := tracer.Reduce(acc); err != nil {
		return err
	}
	for _, next := range trees[1:] {
		fmt.Fprintf(out, "%s %s\n", styles.Label.Render("add:    "), next)
		acc, err = tracer.Add(acc, next)
		if err != nil {
			return err
		}
	}
	fmt.Fprintf(out, "%s %s\n", styles.Label.Render("result: "), acc)
	fmt.Fprintf(out, "%s %d\n", styles.Label.Render("magnitude:"), snailfish.Magnitude(acc))
	return nil
}
