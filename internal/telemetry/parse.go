// Package telemetry parses receiver frames into channel samples and feeds
// them into the shared graph channels.
//
// The ground-station receiver prints one of two line shapes per radio frame:
//
//	Received:  136  -91.0  18.45  995.85  58.93  300.045200
//	RSSI_PACKET: -89.5 dBm
//
// The first carries message number, ACK RSSI, temperature, pressure,
// humidity and altitude in fixed positions; the second the RSSI of the data
// packet itself. Anything else on the wire (ACK notices, boot banners,
// partial lines) carries no samples.
package telemetry

import (
	"strconv"
	"strings"
)

// Channel indices, fixed by the receiver's frame layout. They double as
// indexes into the dashboard's channel list, so the default configuration
// must list channels in this order.
const (
	ChanMsg = iota
	ChanRSSI
	ChanTemp
	ChanPressure
	ChanHumidity
	ChanAltitude
	ChanPacketRSSI

	NumChannels
)

// Sample is one parsed telemetry value addressed to a channel index.
type Sample struct {
	Channel int
	Value   float64
}

// ParseLine extracts zero or more samples from a receiver line. Fields that
// fail to parse are dropped individually; a wholly malformed line yields
// nil. Parsing never fails the caller.
func ParseLine(line string) []Sample {
	trimmed := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(trimmed, "Received:"):
		return parseReceived(trimmed)
	case strings.HasPrefix(trimmed, "RSSI_PACKET:"):
		return parsePacketRSSI(trimmed)
	default:
		return nil
	}
}

// parseReceived handles the main frame:
//
//	Received:  <msg>  <rssi>  <temp>  <pres>  <hum>  <alt>
//	0          1      2       3       4       5      6
func parseReceived(line string) []Sample {
	parts := strings.Fields(line)
	if len(parts) < 7 {
		return nil
	}
	fields := []struct {
		part    string
		channel int
	}{
		{parts[1], ChanMsg},
		{parts[2], ChanRSSI},
		{parts[3], ChanTemp},
		{parts[4], ChanPressure},
		{parts[5], ChanHumidity},
		{parts[6], ChanAltitude},
	}
	samples := make([]Sample, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f.part, 64)
		if err != nil {
			continue
		}
		samples = append(samples, Sample{Channel: f.channel, Value: v})
	}
	if len(samples) == 0 {
		return nil
	}
	return samples
}

// parsePacketRSSI handles "RSSI_PACKET: <value> dBm".
func parsePacketRSSI(line string) []Sample {
	parts := strings.Fields(line)
	if len(parts) < 2 {
		return nil
	}
	v, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil
	}
	return []Sample{{Channel: ChanPacketRSSI, Value: v}}
}
