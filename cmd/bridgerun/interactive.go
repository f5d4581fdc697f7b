package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	unwindbridge "github.com/wippyai/unwind-bridge"
	"github.com/wippyai/unwind-bridge/bridge"
	"github.com/wippyai/unwind-bridge/guest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	runner   *guest.Runner
	cfg      config
	filename string
	result   string
	failure  string
	exports  []string
	input    textinput.Model
	selected int
	state    modelState
}

type modelState int

const (
	stateSelectFunc modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(filename string, cfg config) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		cfg:      cfg,
		state:    stateSelectFunc,
	}
}

type loadedMsg struct {
	err     error
	runner  *guest.Runner
	exports []string
}

type callResultMsg struct {
	err     error
	result  string
	failure string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadGuest
}

func (m *interactiveModel) loadGuest() tea.Msg {
	ctx := context.Background()

	data, err := os.ReadFile(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}

	r, err := guest.NewRunner(ctx, guest.WithMemoryLimitPages(m.cfg.MemoryLimitPages))
	if err != nil {
		return loadedMsg{err: err}
	}

	if err := r.Load(ctx, data); err != nil {
		_ = r.Close(ctx)
		return loadedMsg{err: err}
	}

	exports := r.Exports()
	sort.Strings(exports)

	return loadedMsg{runner: r, exports: exports}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.state == stateInputArgs && msg.String() == "q" {
				break
			}
			if m.runner != nil {
				_ = m.runner.Close(context.Background())
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectFunc && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectFunc && m.selected < len(m.exports)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectFunc:
				if len(m.exports) == 0 {
					break
				}
				m.input = textinput.New()
				m.input.Placeholder = "u64 args, comma-separated (empty for none)"
				m.input.Prompt = "args: "
				m.input.Width = 40
				m.input.Focus()
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callFunction

			case stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.failure = ""
				m.err = nil
			}

		case "esc":
			switch m.state {
			case stateInputArgs, stateShowResult:
				m.state = stateSelectFunc
				m.result = ""
				m.failure = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.runner = msg.runner
		m.exports = msg.exports

	case callResultMsg:
		m.result = msg.result
		m.failure = msg.failure
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *interactiveModel) callFunction() tea.Msg {
	if m.runner == nil {
		return callResultMsg{err: fmt.Errorf("guest not loaded")}
	}

	params, err := parseArgs(m.input.Value())
	if err != nil {
		return callResultMsg{err: err}
	}

	export := m.exports[m.selected]

	// Guard the whole call: a host-side failure surfaces as a wrapper, a
	// guest-side one as a sealed payload.
	var results []uint64
	var sealed unwindbridge.Payload
	payload, foreign := bridge.Invoke(func() {
		results, sealed = m.runner.TryCall(context.Background(), export, params...)
	})

	switch {
	case foreign:
		return callResultMsg{failure: describeSealed(payload)}
	case !payload.IsZero():
		h := payload.Wrapper()
		desc := bridge.Describe(h)
		bridge.Destroy(h)
		return callResultMsg{failure: "host failure: " + desc}
	case !sealed.IsZero():
		return callResultMsg{failure: describeSealed(sealed)}
	}

	return callResultMsg{result: fmt.Sprintf("%v", results)}
}

func describeSealed(p unwindbridge.Payload) string {
	if !guest.Owns(p) {
		return "foreign failure (unknown owner)"
	}
	return "guest failure: " + guest.Unseal(p).Error()
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.exports) == 0 {
		return "Loading guest..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Unwind Bridge"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectFunc:
		b.WriteString("Select an export to call:\n\n")
		for i, name := range m.exports {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + name))
			} else {
				b.WriteString(cursor + funcStyle.Render(name))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(m.exports[m.selected])))
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter call • esc back"))

	case stateShowResult:
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(m.exports[m.selected])))
		switch {
		case m.err != nil:
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		case m.failure != "":
			b.WriteString(errorStyle.Render(m.failure))
		default:
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func runInteractive(filename string, cfg config) error {
	p := tea.NewProgram(newInteractiveModel(filename, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
