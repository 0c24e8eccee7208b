package cmd

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/suderio/skirmish/internal/parser"
	"github.com/suderio/skirmish/internal/session"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			MarginBottom(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999"))

	nameStyle = lipgloss.NewStyle().
			Bold(true)

	currentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")).
			Bold(true)

	downStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87"))

	conditionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F2C94C"))

	stateBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#874BFD")).
			Padding(1, 2)

	logBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#04B575")).
			Padding(0, 1)

	autocompleteStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#F25D94"))
)

// referenceKeys are the clauses after which a combatant name is expected.
var referenceKeys = []string{" by: ", " to: ", " of: ", " and: "}

type suggestion string

func (s suggestion) Title() string       { return string(s) }
func (s suggestion) Description() string { return "" }
func (s suggestion) FilterValue() string { return string(s) }

type replModel struct {
	app         *session.Session
	textInput   textinput.Model
	viewport    viewport.Model
	suggestions list.Model
	history     []string
	historyIdx  int
	logContent  string
	width       int
	height      int
	showList    bool
}

func newREPLModel(app *session.Session) replModel {
	ti := textinput.New()
	ti.Placeholder = "Enter command (e.g., attack by: Fighter to: Goblin dice: 1d8)..."
	ti.Focus()
	ti.CharLimit = 256
	ti.Width = 60

	welcome := "Type 'help' for the command list and 'exit' to quit."
	vp := viewport.New(0, 0)
	vp.SetContent(welcome)

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	sugList := list.New([]list.Item{}, delegate, 50, 7)
	sugList.SetShowTitle(false)
	sugList.SetShowStatusBar(false)
	sugList.SetFilteringEnabled(false)
	sugList.SetShowHelp(false)

	return replModel{
		app:         app,
		textInput:   ti,
		viewport:    vp,
		suggestions: sugList,
		history:     []string{},
		historyIdx:  -1,
		logContent:  welcome,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

// completions returns the suggestions for a partial line: command keywords
// first, then combatant names after a reference clause.
func (m *replModel) completions(val string) []string {
	if val == "" {
		return nil
	}
	lower := strings.ToLower(val)

	var out []string
	for _, c := range commandKeywords() {
		if strings.HasPrefix(c, lower) && len(lower) < len(c) {
			out = append(out, c)
		}
	}

	cut := -1
	var key string
	for _, k := range referenceKeys {
		if i := strings.LastIndex(lower, k); i > cut {
			cut, key = i, k
		}
	}
	if cut < 0 {
		return out
	}
	prefix := lower[cut+len(key):]
	if strings.Contains(prefix, " ") {
		return out
	}
	base := val[:cut+len(key)]
	for _, c := range m.app.Encounter().Combatants {
		ref := c.Name
		if strings.ContainsAny(ref, " \t") {
			ref = fmt.Sprintf("%q", ref)
		}
		if strings.HasPrefix(strings.ToLower(ref), prefix) {
			out = append(out, base+ref+" ")
		}
	}
	return out
}

func commandKeywords() []string {
	keys := make([]string, 0, len(parser.Usage)+3)
	for k := range parser.Usage {
		keys = append(keys, k+" ")
	}
	keys = append(keys, "help", "show", "exit")
	slices.Sort(keys)
	return keys
}

func (m *replModel) updateSuggestions() {
	var items []list.Item
	for _, s := range m.completions(m.textInput.Value()) {
		items = append(items, suggestion(s))
	}

	m.suggestions.SetItems(items)
	m.showList = len(items) > 0
	if m.showList {
		h := min(len(items), 10)
		m.suggestions.SetHeight(max(h, 4))
		m.suggestions.ResetSelected()
	}
}

// run executes one submitted line and appends its output to the log pane.
func (m *replModel) run(val string) {
	m.logContent += fmt.Sprintf("\n\n> %s\n", val)
	switch val {
	case "help":
		m.logContent += helpText()
	case "show":
		m.logContent += renderEncounter(m.app.Encounter(), 0)
	default:
		res, err := m.app.Execute(context.Background(), val)
		if err != nil {
			m.logContent += fmt.Sprintf("Error: %v", err)
		} else {
			m.logContent += res.Message
		}
	}
	m.viewport.SetContent(m.logContent)
	m.viewport.GotoBottom()
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		quit, cmd := m.handleKey(msg)
		if quit {
			return m, tea.Quit
		}
		cmds = append(cmds, cmd)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width - 4
		m.suggestions.SetWidth(msg.Width - 6)
	}

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	m.resizeLog()

	return m, tea.Batch(append(cmds, vpCmd)...)
}

// handleKey reacts to one key press and reports whether the program should
// quit.
func (m *replModel) handleKey(msg tea.KeyMsg) (bool, tea.Cmd) {
	var cmd tea.Cmd

	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return true, nil

	case tea.KeyUp, tea.KeyDown:
		if m.showList {
			m.suggestions, cmd = m.suggestions.Update(msg)
			return false, cmd
		}
		if msg.Type == tea.KeyUp {
			m.recall(-1)
		} else {
			m.recall(1)
		}

	case tea.KeyTab:
		if !m.showList {
			return false, nil
		}
		if item, ok := m.suggestions.SelectedItem().(suggestion); ok {
			m.setInput(string(item))
		}

	case tea.KeyEnter:
		line := strings.TrimSpace(m.textInput.Value())
		if line == "exit" || line == "quit" {
			return true, nil
		}
		if line == "" {
			return false, nil
		}
		m.remember(line)
		m.setInput("")
		m.run(line)

	default:
		m.textInput, cmd = m.textInput.Update(msg)
		m.updateSuggestions()
	}
	return false, cmd
}

func (m *replModel) setInput(val string) {
	m.textInput.SetValue(val)
	m.textInput.SetCursor(len(val))
	m.updateSuggestions()
}

// remember appends a submitted line to the history, skipping repeats.
func (m *replModel) remember(line string) {
	if n := len(m.history); n == 0 || m.history[n-1] != line {
		m.history = append(m.history, line)
	}
	m.historyIdx = -1
}

// recall walks the history; step -1 goes back in time. Walking past the
// newest line clears the input.
func (m *replModel) recall(step int) {
	if len(m.history) == 0 {
		return
	}
	switch {
	case m.historyIdx == -1 && step < 0:
		m.historyIdx = len(m.history) - 1
	case m.historyIdx == -1:
		return
	default:
		m.historyIdx = max(m.historyIdx+step, 0)
	}
	if m.historyIdx >= len(m.history) {
		m.historyIdx = -1
		m.setInput("")
		return
	}
	m.setInput(m.history[m.historyIdx])
}

// resizeLog gives the log pane whatever height the other panes leave.
func (m *replModel) resizeLog() {
	used := lipgloss.Height(titleStyle.Render(" ")) +
		lipgloss.Height(m.renderState()) +
		lipgloss.Height(infoStyle.Render(" ")) +
		1 + 4
	if m.showList {
		used += m.suggestions.Height() + 2
	}
	m.viewport.Height = max(m.height-used, 4)
}

func (m *replModel) renderState() string {
	return renderEncounter(m.app.Encounter(), max(m.width-4, 0))
}

func (m *replModel) View() string {
	if m.width == 0 {
		return "Initializing..."
	}

	title := titleStyle.Render(encounterTitle(m.app.Encounter()))
	logBox := logBoxStyle.Width(m.width - 4).Render(m.viewport.View())

	inputArea := m.textInput.View()
	if m.showList {
		inputArea = fmt.Sprintf("%s\n%s", inputArea, autocompleteStyle.Render(m.suggestions.View()))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		title,
		m.renderState(),
		logBox,
		inputArea,
		infoStyle.Render("(esc to quit, tab to complete, up/down history)"),
	)
}

func helpText() string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(parser.Usage)) {
		b.WriteString("  " + parser.Usage[k] + "\n")
	}
	b.WriteString("  show\n  help\n  exit")
	return b.String()
}

func RunTUI(app *session.Session) error {
	m := newREPLModel(app)
	p := tea.NewProgram(&m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
