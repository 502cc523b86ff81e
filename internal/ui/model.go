// Package ui renders the live dashboard with bubbletea. The model owns no
// channel data: every frame it advances each channel's view bounds and
// renders from read-only snapshots, so remote control mutations show up on
// the very next frame.
package ui

import (
	"math"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
	"github.com/mat-jhgfd/tui-monitor/internal/monitoring"
	"github.com/mat-jhgfd/tui-monitor/internal/report"
)

// frameMsg drives the render loop at the configured cadence.
type frameMsg time.Time

// Model is the bubbletea model for the whole dashboard.
type Model struct {
	channels []*graph.Channel
	presets  []float64
	interval time.Duration

	reportDir string

	keys    keyMap
	focused int
	width   int
	height  int
	status  string
}

// New builds the dashboard model. presets is the smoothing cycle for the
// `s` key; interval the frame cadence.
func New(channels []*graph.Channel, presets []float64, interval time.Duration, reportDir string) Model {
	return Model{
		channels:  channels,
		presets:   presets,
		interval:  interval,
		reportDir: reportDir,
		keys:      defaultKeyMap(),
		width:     80,
		height:    24,
	}
}

func frameTick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return frameTick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameMsg:
		// one render step per channel per frame; the snapshot read in View
		// then sees the freshly advanced bounds
		for _, ch := range m.channels {
			ch.StepView()
		}
		return m, frameTick(m.interval)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		m.focused = (m.focused + 1) % len(m.channels)

	case key.Matches(msg, m.keys.Autoscale):
		m.channels[m.focused].ToggleAutoscale()

	case key.Matches(msg, m.keys.Smoothing):
		ch := m.channels[m.focused]
		ch.SetSmoothing(m.nextPreset(ch.Smoothing()))

	case key.Matches(msg, m.keys.Lock):
		m.channels[m.focused].ToggleLock()

	case key.Matches(msg, m.keys.Export):
		ch := m.channels[m.focused]
		path, err := report.WriteHistory(m.reportDir, ch.Snapshot())
		if err != nil {
			monitoring.Logf("ui: export %s: %v", ch.Name(), err)
			m.status = "export failed: " + err.Error()
		} else {
			m.status = "report written: " + path
		}
	}
	return m, nil
}

// nextPreset returns the preset after the current smoothing value, starting
// over from the second entry when the current value matches no preset.
func (m Model) nextPreset(current float64) float64 {
	idx := 0
	for i, p := range m.presets {
		if math.Abs(p-current) < 1e-9 {
			idx = i
			break
		}
	}
	return m.presets[(idx+1)%len(m.presets)]
}

func (m Model) View() string {
	title := titleStyle.Render("Live CanSat Telemetry")

	bodyH := m.height - 2 // title and help rows
	if bodyH < 4 {
		bodyH = 4
	}

	// two columns, extra channel on the left, like the receiver's bench
	// layout
	n := len(m.channels)
	leftN := (n + 1) / 2
	colW := m.width / 2
	if colW < 20 {
		colW = 20
	}

	left := m.column(0, leftN, colW, bodyH)
	right := m.column(leftN, n, colW, bodyH)
	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	footer := helpStyle.Render("tab focus · a autoscale · s smoothing · l lock · e export · q quit")
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}

	return lipgloss.JoinVertical(lipgloss.Left, title, body, footer)
}

// column renders channels [from, to) stacked vertically in a colW-wide
// column of total height bodyH.
func (m Model) column(from, to, colW, bodyH int) string {
	count := to - from
	if count <= 0 {
		return ""
	}
	blockH := bodyH / count
	if blockH < 8 {
		blockH = 8
	}

	blocks := make([]string, 0, count)
	for i := from; i < to; i++ {
		snap := m.channels[i].Snapshot()
		blocks = append(blocks, channelView(snap, i == m.focused, colW-2, blockH))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
