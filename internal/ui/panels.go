package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
)

// statsLine is the one-line min/max/last header above each chart.
func statsLine(snap graph.Snapshot) string {
	return statsStyle.Render(fmt.Sprintf("Min: %.3f  Max: %.3f  Last: %.3f", snap.Min, snap.Max, snap.Last))
}

// historyView shows the newest entries of the bounded history, one per row,
// newest last and highlighted.
func historyView(snap graph.Snapshot, height int) string {
	if height < 1 {
		height = 1
	}
	hist := snap.History
	start := len(hist) - height
	if start < 0 {
		start = 0
	}

	lines := make([]string, 0, height)
	for i := start; i < len(hist); i++ {
		p := hist[i]
		entry := historyX.Render(fmt.Sprintf("x: %6.0f", p.X)) + ", " + historyY.Render(fmt.Sprintf("y: %.3f", p.Y))
		if i == len(hist)-1 {
			entry = latestStyle.Render(fmt.Sprintf("x: %6.0f, y: %.3f", p.X, p.Y))
		}
		lines = append(lines, entry)
	}
	return strings.Join(lines, "\n")
}

// infoView summarizes a channel's display state: flags, phase, bounds, and
// the fitted trend of the visible window.
func infoView(snap graph.Snapshot, focused bool) string {
	name := lipgloss.NewStyle().Bold(true).Foreground(tagColor(snap.Color)).Render(snap.Name)
	lock := ""
	if snap.Locked {
		lock = lockStyle.Render(" (locked)")
	}

	lines := []string{
		fmt.Sprintf("%s%s  autoscale=%t  smoothing=%.2f", name, lock, snap.Autoscale, snap.Smoothing),
		fmt.Sprintf("state=%s  bounds=[%.3f,%.3f]", snap.Phase, snap.Bounds.Lo, snap.Bounds.Hi),
		fmt.Sprintf("trend=%+.3f/sample", snap.Trend),
	}

	style := panelStyle
	if focused {
		style = focusedPanelStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// channelView composes one channel's block: stats, chart, then history and
// info side by side.
func channelView(snap graph.Snapshot, focused bool, width, height int) string {
	bottomH := 5
	chartH := height - bottomH - 1
	if chartH < 3 {
		chartH = 3
	}

	histW := width * 3 / 5
	hist := lipgloss.NewStyle().Width(histW).MaxWidth(histW).Render(historyView(snap, bottomH))
	info := infoView(snap, focused)
	bottom := lipgloss.JoinHorizontal(lipgloss.Top, hist, info)

	return lipgloss.JoinVertical(lipgloss.Left,
		statsLine(snap),
		renderChart(snap, width, chartH),
		bottom,
	)
}
