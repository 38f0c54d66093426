// Command cl1-tui clusters a network and browses the result in the terminal.
//
// Usage:
//
//	cl1-tui [-config cl1.yaml] [-lenient] network.txt
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-cohesion/pkg/clusterone"
	"github.com/dd0wney/cluso-cohesion/pkg/ingest"
	"github.com/dd0wney/cluso-cohesion/pkg/logging"
	"github.com/dd0wney/cluso-cohesion/pkg/params"
	"github.com/dd0wney/cluso-cohesion/pkg/resultview"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF")).
			MarginLeft(2).
			MarginTop(1)

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(0, 2).
			MarginLeft(2)

	contentStyle = lipgloss.NewStyle().
			MarginLeft(2).
			MarginTop(1)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			MarginTop(1).
			MarginLeft(2)
)

type keyMap struct {
	Toggle key.Binding
	Enter  key.Binding
	Up     key.Binding
	Down   key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Toggle: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "detailed/simple"),
	),
	Enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "show members"),
	),
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Enter, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Toggle, k.Quit},
	}
}

// doneMsg carries the finished run back to the event loop.
type doneMsg struct {
	res *clusterone.Result
	ds  *ingest.Dataset
	err error
}

// structureMsg reports that the table columns changed.
type structureMsg struct{}

type model struct {
	path     string
	params   *params.Parameters
	lenient  bool
	ctx      context.Context
	cancel   context.CancelFunc
	spinner  spinner.Model
	table    table.Model
	view     *resultview.TableModel
	changes  chan struct{}
	help     help.Model
	keys     keyMap
	result   *clusterone.Result
	dataset  *ingest.Dataset
	err      error
	selected string
	width    int
	height   int
}

func initialModel(path string, p *params.Parameters, lenient bool) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	t := table.New(table.WithFocused(true), table.WithHeight(15))
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#00FFFF")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color("#FF00FF")).
		Bold(false)
	t.SetStyles(s)

	ctx, cancel := context.WithCancel(context.Background())
	return model{
		path:    path,
		params:  p,
		lenient: lenient,
		ctx:     ctx,
		cancel:  cancel,
		spinner: sp,
		table:   t,
		changes: make(chan struct{}, 1),
		help:    help.New(),
		keys:    keys,
	}
}

func (m model) cluster() tea.Msg {
	var opts []ingest.Option
	if m.lenient {
		opts = append(opts, ingest.Lenient())
	}
	ds, err := ingest.NewReader(opts...).LoadEdgeList(m.path)
	if err != nil {
		return doneMsg{err: err}
	}
	res, err := clusterone.New(m.params, clusterone.WithLogger(logging.NewNopLogger())).
		Run(m.ctx, ds.Graph)
	return doneMsg{res: res, ds: ds, err: err}
}

// waitForChange turns table-model notifications into messages.
func (m model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return structureMsg{}
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.cluster)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table.SetHeight(max(5, msg.Height-14))
		if m.view != nil {
			m.refreshTable()
		}
		return m, nil

	case doneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.result, m.dataset = msg.res, msg.ds
		m.view = resultview.NewTableModel(msg.res.Clusters, msg.ds.Name)
		changes := m.changes
		m.view.AddListener(func(resultview.EventKind) {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		m.refreshTable()
		return m, m.waitForChange()

	case structureMsg:
		m.refreshTable()
		return m, m.waitForChange()

	case spinner.TickMsg:
		if m.result != nil || m.err != nil {
			return m, nil
		}
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Toggle):
			if m.view != nil {
				m.view.SetDetailedMode(!m.view.DetailedMode())
			}
			return m, nil
		case key.Matches(msg, m.keys.Enter):
			if m.view != nil && m.view.RowCount() > 0 {
				c := m.view.Cluster(m.table.Cursor())
				m.selected = fmt.Sprintf("%s\n%s", c.Names(m.dataset.Name, ", "), resultview.Details(c))
			}
			return m, nil
		}
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// refreshTable rebuilds the bubbles table from the table model.
func (m *model) refreshTable() {
	header := m.view.Header()
	widths := columnWidths(header, m.width)

	cols := make([]table.Column, len(header))
	for i, h := range header {
		cols[i] = table.Column{Title: h, Width: widths[i]}
	}
	rows := make([]table.Row, m.view.RowCount())
	for r := range rows {
		rows[r] = m.view.Row(r)
	}

	// Clear rows first so no row is rendered against a narrower column set
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
}

func columnWidths(header []string, total int) []int {
	if total <= 0 {
		total = 100
	}
	widths := make([]int, len(header))
	rest := len(header) - 1
	fixed := 12
	first := max(20, total-6-rest*(fixed+2))
	widths[0] = first
	for i := 1; i < len(header); i++ {
		widths[i] = fixed
	}
	if len(header) == 2 {
		widths[0] = max(20, total/2)
		widths[1] = max(30, total-widths[0]-8)
	}
	return widths
}

func (m model) View() string {
	var s strings.Builder

	s.WriteString(titleStyle.Render("ClusterONE results: " + m.path))
	s.WriteString("\n\n")

	switch {
	case m.err != nil:
		s.WriteString(contentStyle.Render(errorStyle.Render("✗ " + m.err.Error())))
	case m.result == nil:
		s.WriteString(contentStyle.Render(m.spinner.View() + " clustering..."))
	default:
		st := m.result.Stats
		stats := fmt.Sprintf("Nodes: %d   Edges: %d   Seeds: %d   Clusters: %d   Time: %s",
			m.dataset.Graph.NodeCount(), m.dataset.Graph.EdgeCount(), st.Seeds,
			len(m.result.Clusters), st.Duration.Round(time.Millisecond))
		if m.dataset.Skipped > 0 {
			stats += fmt.Sprintf("   Skipped lines: %d", m.dataset.Skipped)
		}
		s.WriteString(statsBoxStyle.Render(stats))
		s.WriteString("\n")
		s.WriteString(contentStyle.Render(m.table.View()))
		if m.selected != "" {
			s.WriteString("\n")
			s.WriteString(contentStyle.Render(m.selected))
		}
	}

	s.WriteString("\n")
	s.WriteString(helpStyle.Render(m.help.ShortHelpView(m.keys.ShortHelp())))
	return s.String()
}

func main() {
	configPath := flag.String("config", "", "YAML parameter file")
	lenient := flag.Bool("lenient", false, "Skip malformed lines instead of failing")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatal("usage: cl1-tui [-config cl1.yaml] [-lenient] network.txt")
	}

	cfg := params.DefaultConfig()
	if *configPath != "" {
		loaded, err := params.LoadFile(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}
	p, err := cfg.Build()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	m := initialModel(flag.Arg(0), p, *lenient)
	defer m.cancel()
	prog := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := prog.Run(); err != nil {
		log.Fatalf("Error running program: %v", err)
	}
}
