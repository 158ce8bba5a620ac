package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"bookchat/internal/catalog"
	"bookchat/internal/service"
)

// BookPort is the TUI-facing subset of the book service.
type BookPort interface {
	Lookup(ctx context.Context, query string) (*service.Lookup, error)
	Answer(ctx context.Context, question string) (string, error)
}

// Tab indexes.
const (
	TabRecommended = iota
	TabChat
)

var tabNames = []string{"Recommended Books", "Chat"}

type lookupMsg struct {
	res *service.Lookup
	err error
}

type answerMsg struct {
	question string
	answer   string
	err      error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	ctx      context.Context
	service  BookPort
	search   textinput.Model
	chat     textinput.Model
	sidebar  viewport.Model
	main     viewport.Model
	tab      int
	lookup   *service.Lookup
	question string
	answer   string
	status   string
	busy     bool
	ready    bool
}

// New creates a new TUI model instance.
func New(ctx context.Context, svc BookPort) Model {
	search := textinput.New()
	search.Prompt = "> "
	search.Placeholder = "Search for a book"
	search.Focus()

	chat := textinput.New()
	chat.Prompt = "? "
	chat.Placeholder = "Ask about books here"

	return Model{
		ctx:     ctx,
		service: svc,
		search:  search,
		chat:    chat,
		sidebar: viewport.New(0, 0),
		main:    viewport.New(0, 0),
		status:  "Type a title and press Enter. Tab switches between recommendations and chat.",
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key, window and result events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.resize(msg.Width, msg.Height)
		m.refresh()
		return m, nil
	case lookupMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
			m.lookup = nil
		} else {
			m.lookup = msg.res
			m.status = lookupStatus(msg.res)
		}
		m.sidebar.GotoTop()
		m.main.GotoTop()
		m.refresh()
		return m, nil
	case answerMsg:
		m.busy = false
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.question = msg.question
			m.answer = msg.answer
			m.status = "Answered."
		}
		m.main.GotoTop()
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "tab", "shift+tab":
			m.switchTab((m.tab + 1) % len(tabNames))
			return m, nil
		case "enter":
			if m.busy {
				return m, nil
			}
			return m.submit()
		case "up", "down":
			var cmd tea.Cmd
			m.main, cmd = m.main.Update(msg)
			return m, cmd
		case "pgup":
			m.sidebar.LineUp(3)
			return m, nil
		case "pgdown":
			m.sidebar.LineDown(3)
			return m, nil
		}
	}
	var cmd tea.Cmd
	if m.tab == TabChat {
		m.chat, cmd = m.chat.Update(msg)
	} else {
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	svc, ctx := m.service, m.ctx
	if m.tab == TabChat {
		q := strings.TrimSpace(m.chat.Value())
		if q == "" {
			return m, nil
		}
		m.busy = true
		m.status = "Thinking..."
		return m, func() tea.Msg {
			answer, err := svc.Answer(ctx, q)
			return answerMsg{question: q, answer: answer, err: err}
		}
	}
	q := strings.TrimSpace(m.search.Value())
	if q == "" {
		return m, nil
	}
	m.busy = true
	m.status = fmt.Sprintf("Searching for %q...", q)
	return m, func() tea.Msg {
		res, err := svc.Lookup(ctx, q)
		return lookupMsg{res: res, err: err}
	}
}

func (m *Model) switchTab(tab int) {
	m.tab = tab
	if tab == TabChat {
		m.search.Blur()
		m.chat.Focus()
	} else {
		m.chat.Blur()
		m.search.Focus()
	}
	m.main.GotoTop()
	m.refresh()
}

func (m *Model) resize(width, height int) {
	sw := min(40, max(20, width/3))
	fw, fh := boxStyle.GetFrameSize()

	// header and status lines, plus one single-line input box per column
	reserved := 2 + 1 + fh
	m.sidebar.Width = max(10, sw-fw)
	m.sidebar.Height = max(3, height-reserved-fh)
	m.main.Width = max(20, width-sw-fw)
	m.main.Height = max(3, height-reserved-fh-1) // tab bar
	m.search.Width = max(10, m.sidebar.Width-3)
	m.chat.Width = max(10, m.main.Width-3)
}

func (m *Model) refresh() {
	m.sidebar.SetContent(wrap(m.renderSidebar(), m.sidebar.Width))
	m.main.SetContent(wrap(m.renderMain(), m.main.Width))
}

// View renders the TUI layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := headerStyle.Render("Book Information and Recommendation Chatbot")

	left := lipgloss.JoinVertical(lipgloss.Left,
		boxStyle.Render(m.search.View()),
		boxStyle.Render(m.sidebar.View()),
	)
	rightParts := []string{m.renderTabs(), boxStyle.Render(m.main.View())}
	if m.tab == TabChat {
		rightParts = append(rightParts, boxStyle.Render(m.chat.View()))
	}
	right := lipgloss.JoinVertical(lipgloss.Left, rightParts...)

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)
	status := statusStyle.Render(m.status)
	return header + "\n" + body + "\n" + status
}

func (m Model) renderTabs() string {
	out := make([]string, len(tabNames))
	for i, name := range tabNames {
		if i == m.tab {
			out[i] = activeTabStyle.Render(name)
		} else {
			out[i] = tabStyle.Render(name)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, out...)
}

func (m Model) renderSidebar() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Current Book Details"))
	sb.WriteString("\n\n")
	if m.lookup == nil || m.lookup.Primary == nil {
		sb.WriteString("No book selected.")
		return sb.String()
	}
	b := m.lookup.Primary
	sb.WriteString(dimStyle.Render("Cover: " + catalog.CoverImage(b.CoverURL)))
	sb.WriteString("\n")
	writeFields(&sb, catalog.Describe(*b))
	sb.WriteString("\nSummary: ")
	sb.WriteString(m.lookup.PrimarySummary)
	return sb.String()
}

func (m Model) renderMain() string {
	if m.tab == TabChat {
		if m.answer == "" {
			return "Ask a question below and press Enter."
		}
		return highlightStyle.Render("Q: "+m.question) + "\n\n" + m.answer
	}
	if m.lookup == nil {
		return "No results yet."
	}
	if len(m.lookup.Similar) == 0 {
		return "No similar books found."
	}
	var sb strings.Builder
	for i, r := range m.lookup.Similar {
		if i > 0 {
			sb.WriteString(separator)
		}
		sb.WriteString(dimStyle.Render(r.Book.Title + " [" + catalog.CoverImage(r.Book.CoverURL) + "]"))
		sb.WriteString("\n")
		writeFields(&sb, catalog.DescribeBrief(r.Book))
		sb.WriteString("Summary: ")
		sb.WriteString(r.Summary)
		sb.WriteString("\n")
	}
	return sb.String()
}

func writeFields(sb *strings.Builder, fields []catalog.Field) {
	for _, f := range fields {
		sb.WriteString(labelStyle.Render(f.Label + ":"))
		sb.WriteString(" ")
		sb.WriteString(f.Value)
		sb.WriteString("\n")
	}
}

func lookupStatus(res *service.Lookup) string {
	if res == nil {
		return "No results."
	}
	if res.Primary == nil {
		return fmt.Sprintf("No match for %q", res.Query)
	}
	return fmt.Sprintf("Results for %q: %s and %d similar books", res.Query, res.Primary.Title, len(res.Similar))
}

func wrap(s string, width int) string {
	if width <= 0 {
		return s
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}

const separator = "\n---\n\n"

var (
	boxStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	headerStyle    = lipgloss.NewStyle().Bold(true)
	titleStyle     = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	tabStyle       = lipgloss.NewStyle().Padding(0, 2).Foreground(lipgloss.Color("8"))
	activeTabStyle = lipgloss.NewStyle().Padding(0, 2).Bold(true).Underline(true)
)
