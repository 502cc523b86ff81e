package telemetry

import (
	"context"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
	"github.com/mat-jhgfd/tui-monitor/internal/monitoring"
	"github.com/mat-jhgfd/tui-monitor/internal/serialmux"
)

// Collector subscribes to a serial feed, parses each line, and pushes
// samples into the channel list. It is the single producer for every
// channel, so within a channel samples land in arrival order.
type Collector struct {
	source   serialmux.Source
	channels []*graph.Channel
}

// NewCollector wires a feed to the ordered channel list. Samples addressed
// past the end of the list are counted and dropped.
func NewCollector(source serialmux.Source, channels []*graph.Channel) *Collector {
	return &Collector{source: source, channels: channels}
}

// Run consumes lines until the context is cancelled or the feed closes the
// subscription. Malformed lines are skipped silently; they are routine on a
// radio link.
func (c *Collector) Run(ctx context.Context) error {
	id, lines := c.source.Subscribe()
	defer c.source.Unsubscribe(id)

	var dropped int
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				monitoring.Logf("collector: feed closed (%d samples dropped for unknown channels)", dropped)
				return nil
			}
			for _, s := range ParseLine(line) {
				if s.Channel < 0 || s.Channel >= len(c.channels) {
					dropped++
					continue
				}
				c.channels[s.Channel].PushNext(s.Value)
			}
		}
	}
}
