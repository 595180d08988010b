package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"snailfish/cmd/snail/ui"
	"snailfish/internal/homework"
	"snailfish/internal/linesource"
	"snailfish/internal/logging"
	"snailfish/internal/report"
	"snailfish/internal/snailfish"
	"snailfish/internal/watch"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	sumWatch  bool
	reportRaw bool
)

// sumCmd adds every number in a homework file
var sumCmd = &cobra.Command{
	Use:   "sum [file]",
	Short: "Add every number in a homework file and print the magnitude",
	Long: `Adds the numbers in order, reducing after each addition, and prints the
final sum and its magnitude.

With --watch the file is re-read and summed every time it changes until
interrupted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSum,
}

// maxPairCmd finds the best pair of numbers
var maxPairCmd = &cobra.Command{
	Use:   "max-pair [file]",
	Short: "Find the largest magnitude of any sum of two different numbers",
	Long: `Tries every ordered pair of different lines (a+b and b+a both count) and
prints the largest magnitude with the pair that produced it.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMaxPair,
}

// reportCmd renders a full homework summary
var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Render a markdown report of a homework file",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runReport,
}

func init() {
	sumCmd.Flags().BoolVarP(&sumWatch, "watch", "w", false, "Re-run whenever the file changes")
	reportCmd.Flags().BoolVar(&reportRaw, "raw", false, "Print markdown without terminal rendering")
}

func runSum(cmd *cobra.Command, args []string) error {
	if sumWatch {
		if len(args) == 0 {
			return errors.New("--watch needs a file argument")
		}
		return watchSum(cmd, args[0])
	}
	return sumOnce(cmd.Context(), cmd.OutOrStdout(), args)
}

func sumOnce(ctx context.Context, out io.Writer, args []string) error {
	s, err := runHomework(ctx, args, true)
	if err != nil {
		return err
	}
	styles := ui.DefaultStyles(cfg.UX.Theme)
	fmt.Fprintln(out, s.Final.String())
	fmt.Fprintf(out, "%s %d\n", styles.Label.Render("magnitude:"), s.Magnitude)
	printSkipped(out, s)
	return nil
}

func watchSum(cmd *cobra.Command, path string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	if err := sumOnce(ctx, out, []string{path}); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
	}

	fw, err := watch.NewFileWatcher(path, cfg.GetDebounce(), func(ctx context.Context, p string) {
		fmt.Fprintf(out, "\n--- %s changed ---\n", p)
		if err := sumOnce(ctx, out, []string{p}); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
		}
	})
	if err != nil {
		return err
	}
	if err := fw.Start(ctx); err != nil {
		fw.Stop()
		return err
	}
	defer fw.Stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s (Ctrl+C to stop)\n", path)
	<-ctx.Done()
	return nil
}

func runMaxPair(cmd *cobra.Command, args []string) error {
	lines, source, err := readHomework(args)
	if err != nil {
		return err
	}
	s, err := runLines(cmd.Context(), lines, source, false)
	if err != nil {
		return err
	}
	if !s.HasBest {
		return snailfish.ErrNotEnoughTrees
	}

	out := cmd.OutOrStdout()
	styles := ui.DefaultStyles(cfg.UX.Theme)
	fmt.Fprintf(out, "%s %d\n", styles.Label.Render("max magnitude:"), s.Best.Magnitude)
	fmt.Fprintf(out, "line %d: %s\n", s.Best.I, lineText(lines, s.Best.I))
	fmt.Fprintf(out, "line %d: %s\n", s.Best.J, lineText(lines, s.Best.J))
	fmt.Fprintf(out, "sum:     %s\n", s.Best.Sum)
	printSkipped(out, s)
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	s, err := runHomework(cmd.Context(), args, false)
	if err != nil {
		return err
	}
	md := report.Markdown(s)

	out := cmd.OutOrStdout()
	if reportRaw {
		_, err := io.WriteString(out, md)
		return err
	}

	opts := []glamour.TermRendererOption{glamour.WithWordWrap(cfg.UX.WordWrap)}
	switch cfg.UX.Theme {
	case "dark":
		opts = append(opts, glamour.WithStandardStyle("dark"))
	case "light":
		opts = append(opts, glamour.WithStandardStyle("light"))
	default:
		opts = append(opts, glamour.WithAutoStyle())
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = io.WriteString(out, rendered)
	return err
}

func runHomework(ctx context.Context, args []string, skipPairs bool) (*homework.Summary, error) {
	lines, source, err := readHomework(args)
	if err != nil {
		return nil, err
	}
	return runLines(ctx, lines, source, skipPairs)
}

func runLines(ctx context.Context, lines []linesource.Line, source string, skipPairs bool) (*homework.Summary, error) {
	s, err := homework.Run(ctx, engine, lines, homework.Options{
		Source:        source,
		SkipMalformed: cfg.Input.SkipMalformed,
		SkipPairs:     skipPairs,
	})
	if err != nil {
		logger.Debug("homework failed", zap.String("source", source), zap.Error(err))
		return nil, err
	}
	logger.Debug("homework complete",
		zap.String("run_id", s.RunID),
		zap.String("source", source),
		zap.Int("numbers", len(s.Lines)),
		zap.Int("skipped", len(s.Skipped)),
		zap.Int("magnitude", s.Magnitude),
		zap.Duration("duration", s.Duration),
	)
	logging.Homework("run %s done", s.RunID)
	return s, nil
}

func printSkipped(out io.Writer, s *homework.Summary) {
	for _, le := range s.Skipped {
		fmt.Fprintf(out, "skipped %v\n", le)
	}
}

func lineText(lines []linesource.Line, number int) string {
	for _, l := range lines {
		if l.Number == number {
			return l.Text
		}
	}
	return ""
}
