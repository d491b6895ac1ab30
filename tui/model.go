package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/poiesic/logseer/core"
)

// ChatPort is the terminal client's view of the question pipeline.
type ChatPort interface {
	Chat(ctx context.Context, query string) (*core.ChatResult, error)
}

// chatDoneMsg carries the outcome of an asynchronous question.
type chatDoneMsg struct {
	query  string
	result *core.ChatResult
	err    error
}

// Model is the Bubble Tea model for the terminal client.
type Model struct {
	chatter  ChatPort
	input    textinput.Model
	viewport viewport.Model
	spinner  spinner.Model
	summary  string
	status   string
	result   *core.ChatResult
	waiting  bool
	ready    bool
}

// New creates a terminal client over the given chat port. The summary line
// is rendered statically above the answer area.
func New(chatter ChatPort, summary string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about errors, specific events, or trends..."
	ti.Focus()
	ti.CharLimit = 0

	sp := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	vp := viewport.New(0, 0)

	return Model{
		chatter:  chatter,
		input:    ti,
		viewport: vp,
		spinner:  sp,
		summary:  summary,
		status:   "Ready. Type a question and press Enter.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window, and completion events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		// account for frames around the answer and query boxes
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		totalHeaderLines := 2                                    // header + summary
		totalFooterLines := 1                                    // status
		reserved := totalHeaderLines + totalFooterLines + qh + 1 // 1 spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		m.viewport.SetContent(m.renderBody())
		return m, nil

	case tea.KeyMsg:
		// Global quits
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			// One question in flight at a time.
			if m.waiting {
				return m, nil
			}
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.waiting = true
			m.input.Reset()
			return m, tea.Batch(m.spinner.Tick, ask(m.chatter, q))
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "pgup":
			m.viewport.ViewUp()
			return m, nil
		case "pgdown":
			m.viewport.ViewDown()
			return m, nil
		}

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case chatDoneMsg:
		m.waiting = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			return m, nil
		}
		m.result = msg.result
		m.status = fmt.Sprintf("Answered %q", msg.query)
		m.viewport.SetContent(m.renderBody())
		m.viewport.GotoTop()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the terminal client layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := titleStyle.Render("Log Explorer")
	summary := summaryStyle.Render(m.summary)
	body := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	return header + "\n" + summary + "\n" + body + "\n" + input + "\n" + m.statusLine()
}

func (m Model) statusLine() string {
	if m.waiting {
		return m.spinner.View() + " Checking the logs..."
	}
	return statusStyle.Render(m.status)
}

func (m Model) renderBody() string {
	if m.result == nil {
		return "No answer yet. Ask a question below."
	}
	var b strings.Builder
	b.WriteString(m.result.Answer)
	if len(m.result.Context) > 0 {
		b.WriteString("\n\n")
		b.WriteString(contextHeaderStyle.Render("Context (Top Matches):"))
		for _, record := range m.result.Context {
			b.WriteString("\n  ")
			b.WriteString(contextLineStyle.Render(record.ContextLine()))
		}
	}
	return b.String()
}

func ask(chatter ChatPort, query string) tea.Cmd {
	return func() tea.Msg {
		result, err := chatter.Chat(context.Background(), query)
		return chatDoneMsg{query: query, result: result, err: err}
	}
}

var (
	titleStyle         = lipgloss.NewStyle().Bold(true)
	summaryStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	spinnerStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	answerBoxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	contextHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	contextLineStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)
