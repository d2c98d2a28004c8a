// Package viz renders the live terminal monitor for a running case: step
// counters, physical time, the current advection and acoustic steps and a
// sparkline of the case's probe series. The runner feeds the model with
// StepMsg values; quitting the view does not abort the run.
package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const historyCapacity = 600

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// StepMsg is one progress report from the running case.
type StepMsg struct {
	Step        int
	Time        float64
	EndTime     float64
	AdvectionDt float64
	AcousticDt  float64
	Probe       float64
}

// DoneMsg signals that the run finished.
type DoneMsg struct {
	Err error
}

type Model struct {
	caseName string
	latest   StepMsg
	probes   []float64
	done     bool
	err      error
}

func NewModel(caseName string) Model {
	return Model{caseName: caseName}
}

func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case StepMsg:
		m.latest = msg
		m.probes = append(m.probes, msg.Probe)
		if len(m.probes) > historyCapacity {
			m.probes = m.probes[len(m.probes)-historyCapacity:]
		}
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("sphlab · "+m.caseName) + "\n")

	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("step", fmt.Sprintf("%d", m.latest.Step))
	row("time", fmt.Sprintf("%.4f / %.1f", m.latest.Time, m.latest.EndTime))
	row("advection dt", fmt.Sprintf("%.4g", m.latest.AdvectionDt))
	row("acoustic dt", fmt.Sprintf("%.4g", m.latest.AcousticDt))
	row("probe", fmt.Sprintf("%.6g", m.latest.Probe))

	if len(m.probes) > 1 {
		b.WriteString(graphStyle.Render(asciigraph.Plot(m.probes,
			asciigraph.Height(8), asciigraph.Width(64))))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("q: close view (run continues)"))
	return b.String()
}
