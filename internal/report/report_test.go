package report

import (
	"os"
	"strings"
	"testing"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
)

func TestWriteHistory(t *testing.T) {
	ch := graph.NewChannel(
		graph.Config{Window: 10, History: 100, RangeLo: -120, RangeHi: 0},
		graph.Settings{Name: "RSSI ACK (dBm)", Color: "cyan", Autoscale: true, Smoothing: 0.5},
	)
	for i := 0; i < 40; i++ {
		ch.PushNext(-90 + float64(i%7))
	}

	dir := t.TempDir()
	path, err := WriteHistory(dir, ch.Snapshot())
	if err != nil {
		t.Fatalf("WriteHistory: %v", err)
	}

	if !strings.HasPrefix(path, dir) {
		t.Errorf("report written outside dir: %s", path)
	}
	if !strings.Contains(path, "rssi-ack-dbm") {
		t.Errorf("file name missing channel slug: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "RSSI ACK (dBm)") {
		t.Error("report missing channel name")
	}
	if len(html) == 0 {
		t.Error("report is empty")
	}
}

func TestWriteHistoryBadDir(t *testing.T) {
	ch := graph.NewChannel(
		graph.Config{Window: 4, History: 8, RangeLo: 0, RangeHi: 1},
		graph.Settings{Name: "x"},
	)
	if _, err := WriteHistory("/nonexistent/dir", ch.Snapshot()); err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RSSI ACK (dBm)", "rssi-ack-dbm"},
		{"Msg #", "msg"},
		{"TEMP (°C)", "temp-c"},
		{"already-clean", "already-clean"},
	}
	for _, tt := range tests {
		if got := slug(tt.in); got != tt.want {
			t.Errorf("slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
