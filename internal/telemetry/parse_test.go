package telemetry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseLineReceived(t *testing.T) {
	line := "Received:  136  -91.0  18.45  995.85  58.93  300.045200"
	want := []Sample{
		{ChanMsg, 136},
		{ChanRSSI, -91.0},
		{ChanTemp, 18.45},
		{ChanPressure, 995.85},
		{ChanHumidity, 58.93},
		{ChanAltitude, 300.045200},
	}
	if diff := cmp.Diff(want, ParseLine(line)); diff != "" {
		t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLinePacketRSSI(t *testing.T) {
	got := ParseLine("RSSI_PACKET: -89.5 dBm")
	want := []Sample{{ChanPacketRSSI, -89.5}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
	}
}

func TestParseLineTolerance(t *testing.T) {
	tests := []struct {
		name string
		line string
		want int // number of samples
	}{
		{"empty", "", 0},
		{"whitespace", "   \t  ", 0},
		{"ack notice", "ACK sent back automatically.", 0},
		{"banner", "----------------------------------------", 0},
		{"received too short", "Received:  136  -91.0", 0},
		{"received all garbage", "Received:  x  y  z  w  v  u", 0},
		{"received one bad field", "Received:  136  oops  18.45  995.85  58.93  300.0", 5},
		{"packet rssi missing value", "RSSI_PACKET:", 0},
		{"packet rssi garbage", "RSSI_PACKET: loud dBm", 0},
		{"leading whitespace ok", "   Received:  1  -90  10  1000  50  100", 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLine(tt.line)
			if len(got) != tt.want {
				t.Errorf("ParseLine(%q) = %v, want %d samples", tt.line, got, tt.want)
			}
		})
	}
}

// A bad field drops only that field, the rest still parse.
func TestParseLinePartialFrame(t *testing.T) {
	got := ParseLine("Received:  136  bad  18.45  bad  58.93  bad")
	want := []Sample{
		{ChanMsg, 136},
		{ChanTemp, 18.45},
		{ChanHumidity, 58.93},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ParseLine mismatch (-want +got):\n%s", diff)
	}
}
