package widgettour

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var _ tea.Model = (*Model)(nil)

// tab identifies one page of the tour.
type tab int

const (
	tabWelcome tab = iota
	tabCounter
	tabForm
	tabTable
	tabProgress
	tabCount
)

var tabLabels = [tabCount]string{"Welcome", "Counter", "Form", "Table", "Progress"}

// Model is the root model of the widget tour: a small tabbed walkthrough of
// the text, input, table and progress widgets.
type Model struct {
	active tab
	width  int

	// Counter page.
	count int

	// Form page.
	nameInput textinput.Model
	greeting  string

	// Table page.
	table table.Model

	// Progress page.
	progress progress.Model
	percent  float64

	spinner spinner.Model
}

// New builds the tour with every page ready to show.
func New() Model {
	ti := textinput.New()
	ti.Placeholder = "your name"
	ti.CharLimit = 32
	ti.Width = 24
	ti.Focus()

	columns := []table.Column{
		{Title: "City", Width: 14},
		{Title: "Country", Width: 12},
		{Title: "Population", Width: 12},
	}
	rows := []table.Row{
		{"Tokyo", "Japan", "37,400,000"},
		{"Delhi", "India", "31,200,000"},
		{"Shanghai", "China", "27,800,000"},
		{"São Paulo", "Brazil", "22,400,000"},
		{"Mexico City", "Mexico", "21,900,000"},
		{"Cairo", "Egypt", "21,300,000"},
	}
	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(7),
	)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	return Model{
		nameInput: ti,
		table:     tbl,
		progress:  progress.New(progress.WithDefaultGradient()),
		spinner:   sp,
	}
}

// tickMsg drives the progress animation.
type tickMsg struct{}

const progressInterval = 50 * time.Millisecond

func tickCmd() tea.Cmd {
	return tea.Tick(progressInterval, func(time.Time) tea.Msg { return tickMsg{} })
}

// Init starts the spinner and the progress ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

// Update handles keys and animation ticks.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(msg.Width-8, 50)
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			m.active = (m.active + 1) % tabCount
			return m, nil
		case tea.KeyShiftTab:
			m.active = (m.active - 1 + tabCount) % tabCount
			return m, nil
		}
		// The form page owns all runes so typing works; everywhere else
		// single characters are shortcuts.
		if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 && m.active != tabForm {
			switch msg.Runes[0] {
			case 'q':
				return m, tea.Quit
			case '1', '2', '3', '4', '5':
				m.active = tab(msg.Runes[0] - '1')
				return m, nil
			case '+', '=':
				if m.active == tabCounter {
					m.count++
					return m, nil
				}
			case '-':
				if m.active == tabCounter {
					m.count--
					return m, nil
				}
			case 'r':
				if m.active == tabProgress {
					m.percent = 0
					return m, m.progress.SetPercent(0)
				}
			}
		}
		return m.updatePage(msg)

	case tickMsg:
		if m.active == tabProgress && m.percent < 1.0 {
			m.percent += 0.02
			if m.percent > 1.0 {
				m.percent = 1.0
			}
			return m, tea.Batch(tickCmd(), m.progress.SetPercent(m.percent))
		}
		return m, tickCmd()

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) updatePage(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.active {
	case tabForm:
		if msg.Type == tea.KeyEnter {
			m.greeting = strings.TrimSpace(m.nameInput.Value())
			return m, nil
		}
		m.nameInput, cmd = m.nameInput.Update(msg)
	case tabTable:
		m.table, cmd = m.table.Update(msg)
	}
	return m, cmd
}

// View renders the tab bar, the active page and a key hint line.
func (m Model) View() string {
	var bar []string
	for i := tab(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, tabLabels[i])
		if i == m.active {
			bar = append(bar, tabActiveStyle.Render(label))
		} else {
			bar = append(bar, tabStyle.Render(label))
		}
	}

	var body string
	switch m.active {
	case tabWelcome:
		body = m.viewWelcome()
	case tabCounter:
		body = m.viewCounter()
	case tabForm:
		body = m.viewForm()
	case tabTable:
		body = m.viewTable()
	case tabProgress:
		body = m.viewProgress()
	}

	help := helpStyle.Render("tab/shift+tab or 1-5 switch pages · q quit")
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Center, bar...),
		panelStyle.Render(body),
		help,
	)
}

func (m Model) viewWelcome() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Widget tour"),
		"",
		"A quick walk through the building blocks used by the terminal",
		"programs in this repository: styled text, a live counter, a text",
		"input, a data table and an animated progress bar.",
		"",
		m.spinner.View()+mutedStyle.Render(" the spinner keeps ticking on every page"),
	)
}

func (m Model) viewCounter() string {
	metric := metricStyle.Render(fmt.Sprintf("%d", m.count))
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Counter"),
		"",
		metric,
		"",
		mutedStyle.Render("press + to increment, - to decrement"),
	)
}

func (m Model) viewForm() string {
	lines := []string{
		titleStyle.Render("Text input"),
		"",
		m.nameInput.View(),
	}
	if m.greeting != "" {
		lines = append(lines, "", okStyle.Render("Hello, "+m.greeting+"!"))
	}
	lines = append(lines, "", mutedStyle.Render("type a name and press enter"))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m Model) viewTable() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Table"),
		"",
		m.table.View(),
		"",
		mutedStyle.Render("arrow keys move the selection"),
	)
}

func (m Model) viewProgress() string {
	status := mutedStyle.Render("loading…")
	if m.percent >= 1.0 {
		status = okStyle.Render("done")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Progress"),
		"",
		m.progress.View(),
		"",
		status,
		"",
		mutedStyle.Render("press r to restart the animation"),
	)
}
