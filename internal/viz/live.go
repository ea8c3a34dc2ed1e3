package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

const replayWindow = 80

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Width(20)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
)

type tickMsg time.Time

// ReplayModel plays archived telemetry columns back at the original sample
// rate. The first column is the time axis; the selected column is charted.
type ReplayModel struct {
	runID    string
	header   []string
	series   [][]float64
	rateHz   float64
	cursor   int
	selected int
	speed    float64
	playing  bool
}

// NewReplay builds a replay over parsed telemetry columns.
func NewReplay(runID string, header []string, series [][]float64, rateHz float64) ReplayModel {
	if rateHz <= 0 {
		rateHz = 10
	}
	return ReplayModel{
		runID:    runID,
		header:   header,
		series:   series,
		rateHz:   rateHz,
		selected: 1,
		speed:    1.0,
		playing:  true,
	}
}

func (m ReplayModel) frames() int {
	if len(m.series) == 0 {
		return 0
	}
	return len(m.series[0])
}

func (m ReplayModel) tick() tea.Cmd {
	interval := time.Duration(float64(time.Second) / (m.rateHz * m.speed))
	return tea.Tick(interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m ReplayModel) Init() tea.Cmd {
	return m.tick()
}

// Update handles input and playback ticks.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "r":
			m.cursor = 0
		case "left", "h":
			m.playing = false
			if m.cursor > 0 {
				m.cursor--
			}
		case "right", "l":
			m.playing = false
			if m.cursor < m.frames()-1 {
				m.cursor++
			}
		case "up", "k":
			if m.selected > 1 {
				m.selected--
			}
		case "down", "j":
			if m.selected < len(m.header)-1 {
				m.selected++
			}
		case "+", "=":
			if m.speed < 8 {
				m.speed *= 2
			}
		case "-":
			if m.speed > 0.25 {
				m.speed /= 2
			}
		}
		return m, nil

	case tickMsg:
		if m.playing && m.cursor < m.frames()-1 {
			m.cursor++
		}
		return m, m.tick()
	}
	return m, nil
}

func (m ReplayModel) View() string {
	total := m.frames()
	if total == 0 {
		return "no telemetry to replay\n"
	}

	status := "playing"
	if !m.playing {
		status = pausedStyle.Render("paused")
	}
	title := headerStyle.Render(fmt.Sprintf("replay %s  [%d/%d]  %.2fx  %s", m.runID, m.cursor+1, total, m.speed, status))

	start := m.cursor - replayWindow + 1
	if start < 0 {
		start = 0
	}
	window := m.series[m.selected][start : m.cursor+1]
	graph := asciigraph.Plot(window,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(m.header[m.selected]),
	)

	var stats strings.Builder
	for i := 1; i < len(m.header); i++ {
		label := labelStyle.Render(m.header[i])
		if i == m.selected {
			label = activeStyle.Render(m.header[i])
		}
		value := valueStyle.Render(fmt.Sprintf("%10.3f", m.series[i][m.cursor]))
		stats.WriteString(label + value + "\n")
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		graphStyle.Render(graph),
		statsStyle.Render(stats.String()),
	)

	help := helpStyle.Render("space play/pause  h/l step  j/k column  +/- speed  r restart  q quit")
	return title + "\n" + body + "\n" + help + "\n"
}

// RunReplay starts the interactive replay program.
func RunReplay(runID string, header []string, series [][]float64, rateHz float64) error {
	_, err := tea.NewProgram(NewReplay(runID, header, series, rateHz), tea.WithAltScreen()).Run()
	return err
}
