// Package report exports a channel's bounded history as a standalone HTML
// chart, for sharing a flight's trace without screen-scraping the terminal.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
)

// WriteHistory renders the snapshot's history into dir and returns the file
// path. File names carry the channel slug and a timestamp so repeated
// exports never collide.
func WriteHistory(dir string, snap graph.Snapshot) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: snap.Name,
			Width:     "1200px",
			Height:    "500px",
		}),
		charts.WithTitleOpts(opts.Title{
			Title:    snap.Name,
			Subtitle: fmt.Sprintf("%d samples  trend %+.3f/sample", len(snap.History), snap.Trend),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "sample"}),
	)

	xs := make([]string, len(snap.History))
	data := make([]opts.LineData, len(snap.History))
	for i, p := range snap.History {
		xs[i] = strconv.FormatFloat(p.X, 'f', 0, 64)
		data[i] = opts.LineData{Value: p.Y}
	}
	line.SetXAxis(xs).AddSeries(snap.Name, data)

	name := fmt.Sprintf("%s-%s.html", slug(snap.Name), time.Now().Format("20060102-150405"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create report: %w", err)
	}
	defer f.Close()

	if err := line.Render(f); err != nil {
		return "", fmt.Errorf("render report: %w", err)
	}
	return path, nil
}

// slug reduces a channel name to a safe file name fragment.
func slug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case b.Len() > 0 && !strings.HasSuffix(b.String(), "-"):
			b.WriteRune('-')
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
