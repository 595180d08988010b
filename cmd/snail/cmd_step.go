package main

import (
	"fmt"

	"snailfish/cmd/snail/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// stepCmd steps through a sum interactively
var stepCmd = &cobra.Command{
	Use:   "step [number] [number...]",
	Short: "Step through a sum one explode or split at a time",
	Long: `Opens an interactive view that applies one reduction rule per keypress.

Keys:
  space, enter, n  apply the next rule (or add the next number)
  r                run to the end
  q                quit`,
	Args: cobra.MinimumNArgs(1),
	RunE: runStep,
}

func runStep(cmd *cobra.Command, args []string) error {
	trees, err := parseArgs(args)
	if err != nil {
		return err
	}

	model := ui.NewStepperModel(engine, trees, ui.DefaultStyles(cfg.UX.Theme))
	p := tea.NewProgram(model,
		tea.WithContext(cmd.Context()),
		tea.WithInput(cmd.InOrStdin()),
		tea.WithOutput(cmd.OutOrStdout()),
	)
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("stepper failed: %w", err)
	}
	if m, ok := final.(ui.StepperModel); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
