package ui

import (
	"fmt"
	"strings"

	"snailfish/internal/logging"
	"snailfish/internal/snailfish"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type stepperKeyMap struct {
	Step key.Binding
	Run  key.Binding
	Quit key.Binding
}

func (k stepperKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Step, k.Run, k.Quit}
}

func (k stepperKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultStepperKeys() stepperKeyMap {
	return stepperKeyMap{
		Step: key.NewBinding(key.WithKeys(" ", "enter", "n"), key.WithHelp("space", "next step")),
		Run:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run to end")),
		Quit: key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// StepperModel walks through a sum one rule at a time: each keypress either
// joins the next operand or applies one explode or split.
type StepperModel struct {
	engine   *snailfish.Engine
	current  *snailfish.Tree
	pending  []*snailfish.Tree
	history  []string
	stats    snailfish.Stats
	done     bool
	err      error
	viewport viewport.Model
	help     help.Model
	keys     stepperKeyMap
	styles   Styles
}

// NewStepperModel takes ownership of operands; the first one is reduced
// step by step before the next is joined.
func NewStepperModel(engine *snailfish.Engine, operands []*snailfish.Tree, styles Styles) StepperModel {
	m := StepperModel{
		engine:   engine,
		viewport: viewport.New(100, 20),
		help:     help.New(),
		keys:     defaultStepperKeys(),
		styles:   styles,
	}
	if len(operands) == 0 {
		m.done = true
		m.err = snailfish.ErrEmptyInput
		return m
	}
	m.current = operands[0]
	m.pending = operands[1:]
	m.record(styles.Label.Render("start:   ") + " " + m.current.String())
	return m
}

// Init implements tea.Model.
func (m StepperModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StepperModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-4) // Reserve space for status and help
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Step):
			m.advance()
			return m, nil
		case key.Matches(msg, m.keys.Run):
			for !m.done {
				m.advance()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// advance performs one unit of work.
func (m *StepperModel) advance() {
	if m.done {
		return
	}
	action, err := m.engine.Step(m.current)
	if err != nil {
		m.fail(err)
		return
	}
	switch action {
	case snailfish.ActionExplode:
		m.stats.Explosions++
	case snailfish.ActionSplit:
		m.stats.Splits++
	case snailfish.ActionNone:
		if len(m.pending) == 0 {
			m.done = true
			m.record(m.styles.Label.Render("result:  ") + " " + m.current.String())
			m.record(m.styles.Label.Render("magnitude:") + fmt.Sprintf(" %d", snailfish.Magnitude(m.current)))
			logging.UI("stepper finished after %d steps", m.stats.Steps())
			return
		}
		next := m.pending[0]
		m.pending = m.pending[1:]
		joined, err := snailfish.Join(m.current, next)
		if err != nil {
			m.fail(err)
			return
		}
		m.current = joined
		m.stats = snailfish.Stats{}
		m.record(m.styles.Label.Render("add:     ") + " " + m.current.String())
		return
	}
	m.record(m.styles.ActionLabel(action) + " " + m.current.String())
	if err := m.engine.CheckSteps(m.stats); err != nil {
		m.fail(err)
	}
}

func (m *StepperModel) fail(err error) {
	m.err = err
	m.done = true
	m.record(m.styles.Error.Render("error: " + err.Error()))
}

func (m *StepperModel) record(line string) {
	m.history = append(m.history, line)
	m.refresh()
}

func (m *StepperModel) refresh() {
	m.viewport.SetContent(strings.Join(m.history, "\n"))
	m.viewport.GotoBottom()
}

// View implements tea.Model.
func (m StepperModel) View() string {
	var sb strings.Builder
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")

	status := fmt.Sprintf("explosions %d  splits %d  operands left %d", m.stats.Explosions, m.stats.Splits, len(m.pending))
	if m.done && m.err == nil {
		status += "  (reduced)"
	}
	sb.WriteString(m.styles.Status.Render(status))
	sb.WriteString("\n")
	sb.WriteString(m.help.View(m.keys))
	return sb.String()
}

// Done reports whether the sum is fully reduced or failed.
func (m StepperModel) Done() bool { return m.done }

// Err returns the failure that stopped the stepper, if any.
func (m StepperModel) Err() error { return m.err }

// Result returns the current tree.
func (m StepperModel) Result() *snailfish.Tree { return m.current }

// History returns the recorded lines, styled.
func (m StepperModel) History() []string { return m.history }
