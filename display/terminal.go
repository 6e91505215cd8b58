package display

import (
	"errors"
	"io"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#495057"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#868E96")).
			Italic(true)
)

// frameMsg carries a fully rendered panel to the bubbletea program.
type frameMsg string

// panelModel is the bubbletea model that shows the latest frame.
type panelModel struct {
	title string
	view  string
}

func (m panelModel) Init() tea.Cmd {
	return tea.SetWindowTitle(m.title)
}

func (m panelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.view = string(msg)
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m panelModel) View() string {
	return panelStyle.Render(m.view) + "\n" + helpStyle.Render(m.title+" · q to quit")
}

// terminalConfig holds construction settings for [Terminal].
type terminalConfig struct {
	title     string
	input     io.Reader
	output    io.Writer
	altScreen bool
}

// TerminalOption configures a [Terminal].
type TerminalOption func(*terminalConfig)

// WithTitle sets the window title and help line text.
func WithTitle(title string) TerminalOption {
	return func(cfg *terminalConfig) {
		cfg.title = title
	}
}

// WithIO overrides the terminal input and output streams.
func WithIO(in io.Reader, out io.Writer) TerminalOption {
	return func(cfg *terminalConfig) {
		cfg.input = in
		cfg.output = out
	}
}

// WithoutAltScreen renders inline instead of switching to the alternate screen.
func WithoutAltScreen() TerminalOption {
	return func(cfg *terminalConfig) {
		cfg.altScreen = false
	}
}

// Terminal is a simulator [Backend] that paints the panel into a terminal.
//
// The panel is drawn as a character grid inside a bubbletea program. Pressing
// q, esc or ctrl+c raises the exit signal returned by [Terminal.Present].
type Terminal struct {
	grid    *Grid
	program *tea.Program
	exit    atomic.Bool
	done    chan struct{}
	runErr  error
}

// NewTerminal creates the simulator and starts its bubbletea program.
func NewTerminal(opts ...TerminalOption) *Terminal {
	cfg := &terminalConfig{
		title:     "Metro Sign Simulator",
		altScreen: true,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var progOpts []tea.ProgramOption
	if cfg.altScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	if cfg.input != nil {
		progOpts = append(progOpts, tea.WithInput(cfg.input))
	}
	if cfg.output != nil {
		progOpts = append(progOpts, tea.WithOutput(cfg.output))
	}

	t := &Terminal{
		grid:    NewGrid(PanelWidth, PanelHeight),
		program: tea.NewProgram(panelModel{title: cfg.title}, progOpts...),
		done:    make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		_, err := t.program.Run()
		t.runErr = err
		t.exit.Store(true)
	}()

	return t
}

// Canvas returns the character grid backing the simulator.
func (t *Terminal) Canvas() Canvas {
	return t.grid
}

// Present renders the grid and hands it to the terminal program.
func (t *Terminal) Present() (bool, error) {
	if t.exit.Load() {
		return true, nil
	}
	t.program.Send(frameMsg(renderGrid(t.grid)))
	return t.exit.Load(), nil
}

// Paced reports false; the simulator has no vertical sync.
func (t *Terminal) Paced() bool {
	return false
}

// Close stops the terminal program and restores the terminal.
func (t *Terminal) Close() error {
	t.program.Quit()
	<-t.done
	if errors.Is(t.runErr, tea.ErrProgramKilled) {
		return nil
	}
	return t.runErr
}

// renderGrid converts the grid into styled terminal text, one styled run per
// stretch of identically colored cells.
func renderGrid(g *Grid) string {
	rows := make([]string, 0, g.rows)
	var sb strings.Builder

	for row := 0; row < g.rows; row++ {
		sb.Reset()
		start := row * g.cols
		runStart := start
		for i := start; i <= start+g.cols; i++ {
			if i < start+g.cols && sameStyle(g.cells[i], g.cells[runStart]) {
				continue
			}
			sb.WriteString(cellStyle(g.cells[runStart]).Render(runText(g.cells[runStart:i])))
			runStart = i
		}
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func cellStyle(c cell) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(c.fg.Hex())).
		Background(lipgloss.Color(c.bg.Hex())).
		Bold(c.bold)
}

func runText(cells []cell) string {
	var sb strings.Builder
	for _, c := range cells {
		sb.WriteRune(c.ch)
	}
	return sb.String()
}
