package main

import (
	"fmt"
	"slices"

	"robo-tools/cmd/robolib/librarian"
	"robo-tools/cmd/robolib/robots"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type browseState int

const (
	browseList browseState = iota
	browseDetail
)

var (
	styleBase = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Padding(0, 1)

	styleHelp = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Padding(0, 1)

	styleDetail = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("214")).
			Padding(1, 3).
			MarginLeft(2)

	styleOK = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Padding(0, 1)

	styleErr = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Padding(0, 1)
)

type browseModel struct {
	table     table.Model
	defs      []robots.Definition
	librarian *librarian.Librarian
	state     browseState
	status    string
	statusErr bool
}

func newBrowseModel(l *librarian.Librarian, reg *robots.Registry) browseModel {
	columns := []table.Column{
		{Title: "NAME", Width: 16},
		{Title: "IMMOVABLE", Width: 10},
		{Title: "IK", Width: 4},
		{Title: "PLATFORMS", Width: 24},
	}

	defs := slices.Collect(reg.Definitions())
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(toRows(defs)),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true).
		Foreground(lipgloss.Color("99"))
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return browseModel{
		table:     t,
		defs:      defs,
		librarian: l,
		state:     browseList,
	}
}

func toRows(defs []robots.Definition) []table.Row {
	rows := make([]table.Row, len(defs))
	for i, d := range defs {
		rows[i] = table.Row{d.Name, fmt.Sprintf("%t", d.Immovable), fmt.Sprintf("%d", len(d.Chains)), platformNames(d)}
	}
	return rows
}

func (m browseModel) selected() (robots.Definition, bool) {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.defs) {
		return robots.Definition{}, false
	}
	return m.defs[idx], true
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch m.state {
	case browseDetail:
		return m.updateDetail(msg)
	default:
		return m.updateList(msg)
	}
}

func (m browseModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "enter":
			if _, ok := m.selected(); ok {
				m.state = browseDetail
			}
			return m, nil
		case "r":
			return m.reload(), nil
		}
	}
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) updateDetail(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc", "enter", "backspace":
			m.state = browseList
			return m, nil
		}
	}
	return m, nil
}

// reload rebuilds the registry from disk. On failure the rows stay as they
// were and the error is shown in the status line.
func (m browseModel) reload() browseModel {
	reg, err := m.librarian.Reload()
	if err != nil {
		m.status = "reload rejected: " + err.Error()
		m.statusErr = true
		return m
	}
	m.defs = slices.Collect(reg.Definitions())
	m.table.SetRows(toRows(m.defs))
	if m.table.Cursor() >= len(m.defs) {
		m.table.SetCursor(max(len(m.defs)-1, 0))
	}
	m.status = fmt.Sprintf("reloaded %d robots", len(m.defs))
	m.statusErr = false
	return m
}

func (m browseModel) View() string {
	title := styleTitle.Render(fmt.Sprintf("ROBOLIB  [%d robots]", len(m.defs)))
	tableView := styleBase.Render(m.table.View())

	var status string
	if m.status != "" {
		if m.statusErr {
			status = styleErr.Render(m.status) + "\n"
		} else {
			status = styleOK.Render(m.status) + "\n"
		}
	}

	if m.state == browseDetail {
		def, _ := m.selected()
		help := styleHelp.Render("esc / enter  back    q  quit")
		return title + "\n" + tableView + "\n" + styleDetail.Render(renderDefinition(def)) + "\n" + help
	}

	var help string
	if len(m.defs) == 0 {
		help = styleHelp.Render("No robots.  r  reload    q  quit")
	} else {
		help = styleHelp.Render("↑/↓  navigate    enter  details    r  reload    q  quit")
	}
	return title + "\n" + tableView + "\n" + status + help
}
