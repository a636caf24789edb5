// Package tui implements the interactive evaluation session.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.design/x/clipboard"

	"github.com/codefionn/exprschnell"
	"github.com/codefionn/exprschnell/internal/consts"
	"github.com/codefionn/exprschnell/internal/history"
	"github.com/codefionn/exprschnell/internal/logger"
)

var (
	promptStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	exprStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	resultStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	historyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

const helpMarkdown = `# exprschnell

Type an arithmetic expression and press **enter** to evaluate it.

Supported grammar: decimal numbers, ` + "`+ - * /`" + ` and parentheses.
Multiplication and division bind tighter than addition and subtraction;
equal precedence groups to the left.

## Keys

- ` + "`enter`" + ` evaluate the current input
- ` + "`ctrl+y`" + ` copy the last result to the clipboard
- ` + "`f1`" + ` toggle this help
- ` + "`esc` / `ctrl+c`" + ` quit
`

type replEntry struct {
	expression string
	result     string
	failed     bool
	fromBefore bool
}

// clipboardMsg reports the outcome of a copy attempt.
type clipboardMsg struct {
	err error
}

// Model is the bubbletea model of the interactive session.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	entries  []replEntry

	cache     *exprschnell.Cache
	store     *history.Store
	precision int
	maxDepth  int

	width    int
	height   int
	ready    bool
	showHelp bool
	status   string

	lastResult string
	quitting   bool
}

// Options configures the interactive session.
type Options struct {
	Cache     *exprschnell.Cache
	Store     *history.Store // nil disables persistence
	Precision int
	MaxDepth  int
}

// NewModel creates the session model, preloading past evaluations from the
// history store when one is available.
func NewModel(opts Options) Model {
	input := textinput.New()
	input.Placeholder = "3 + 4 * (2 - 1)"
	input.Prompt = promptStyle.Render("> ")
	input.CharLimit = 512
	input.Focus()

	cache := opts.Cache
	if cache == nil {
		cache = exprschnell.NewCache(consts.DefaultMaxCacheEntries)
	}
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = consts.DefaultMaxNestingDepth
	}

	m := Model{
		input:     input,
		cache:     cache,
		store:     opts.Store,
		precision: opts.Precision,
		maxDepth:  maxDepth,
	}

	if opts.Store != nil {
		entries, err := opts.Store.Recent(consts.DefaultHistoryLimit)
		if err != nil {
			logger.Warn("failed to load history: %v", err)
		} else {
			for _, entry := range entries {
				m.entries = append(m.entries, replEntry{
					expression: entry.Expression,
					result:     entry.Result,
					fromBefore: true,
				})
			}
		}
	}

	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := msg.Height - 3
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = vpHeight
		}
		m.refreshViewport()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyF1:
			m.showHelp = !m.showHelp
			m.refreshViewport()
			return m, nil
		case tea.KeyCtrlY:
			if m.lastResult == "" {
				m.status = "nothing to copy yet"
				return m, nil
			}
			return m, copyToClipboard(m.lastResult)
		case tea.KeyEnter:
			return m.evaluate()
		}

	case clipboardMsg:
		if msg.err != nil {
			m.status = errorStyle.Render(fmt.Sprintf("copy failed: %v", msg.err))
		} else {
			m.status = "result copied"
		}
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) evaluate() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}
	m.input.Reset()
	m.status = ""

	value, err := m.cache.Eval(line, exprschnell.WithMaxDepth(m.maxDepth))
	entry := replEntry{expression: line}
	if err != nil {
		entry.result = err.Error()
		entry.failed = true
		logger.Debug("evaluation failed for %q: %v", line, err)
	} else {
		entry.result = value.Format(m.precision)
		m.lastResult = entry.result
		if m.store != nil {
			if storeErr := m.store.Add(line, entry.result); storeErr != nil {
				logger.Warn("failed to persist history entry: %v", storeErr)
			}
		}
	}

	m.entries = append(m.entries, entry)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m, nil
}

func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}
	if m.showHelp {
		m.viewport.SetContent(m.renderHelp())
		return
	}

	var sb strings.Builder
	for _, entry := range m.entries {
		line := exprStyle.Render(entry.expression) + " = "
		switch {
		case entry.failed:
			line += errorStyle.Render(entry.result)
		case entry.fromBefore:
			line = historyStyle.Render(entry.expression + " = " + entry.result)
		default:
			line += resultStyle.Render(entry.result)
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	m.viewport.SetContent(sb.String())
}

func (m Model) renderHelp() string {
	wrapWidth := m.width - 2
	if wrapWidth < 20 || wrapWidth > 80 {
		wrapWidth = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrapWidth),
	)
	if err == nil {
		if out, renderErr := renderer.Render(helpMarkdown); renderErr == nil {
			return out
		}
	}
	return wordwrap.String(helpMarkdown, wrapWidth)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "starting..."
	}

	status := m.status
	if status == "" {
		status = "enter: evaluate • ctrl+y: copy result • f1: help • esc: quit"
	}

	return fmt.Sprintf("%s\n%s\n%s",
		m.viewport.View(),
		m.input.View(),
		statusStyle.Render(status),
	)
}

// copyToClipboard copies content to the system clipboard.
func copyToClipboard(content string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.Init(); err != nil {
			return clipboardMsg{err: err}
		}
		clipboard.Write(clipboard.FmtText, []byte(content))
		return clipboardMsg{}
	}
}

// Run starts the interactive session and blocks until it exits.
func Run(opts Options) error {
	program := tea.NewProgram(NewModel(opts), tea.WithAltScreen())
	_, err := program.Run()
	return err
}
