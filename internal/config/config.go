// Package config loads the dashboard configuration: the serial source, the
// remote control bind address, the render cadence, and the per-channel
// display parameters. Every field is optional in the file and merges over
// built-in defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
)

// MaxConfigFileSize caps config reads so a mistaken path cannot balloon
// memory.
const MaxConfigFileSize = 1 << 20

// ChannelConfig is one channel entry in the config file. Pointer fields
// distinguish "omitted" from zero, so partial files merge over defaults.
type ChannelConfig struct {
	Name                 *string  `json:"name,omitempty"`
	Color                *string  `json:"color,omitempty"`
	Window               *int     `json:"window,omitempty"`
	History              *int     `json:"history,omitempty"`
	RangeLo              *float64 `json:"range_lo,omitempty"`
	RangeHi              *float64 `json:"range_hi,omitempty"`
	Autoscale            *bool    `json:"autoscale,omitempty"`
	Smoothing            *float64 `json:"smoothing,omitempty"`
	ShrinkConfirmFrames  *int     `json:"shrink_confirm_frames,omitempty"`
	ShrinkMarginFraction *float64 `json:"shrink_margin_fraction,omitempty"`
}

// Config is the root of the JSON config file. Omitted fields keep their
// defaults; a channels list, if present, replaces the default channel set
// entirely.
type Config struct {
	ListenAddr       *string         `json:"listen_addr,omitempty"`
	SerialPort       *string         `json:"serial_port,omitempty"`
	BaudRate         *int            `json:"baud_rate,omitempty"`
	FrameInterval    *string         `json:"frame_interval,omitempty"` // duration string like "100ms"
	SmoothingPresets []float64       `json:"smoothing_presets,omitempty"`
	Channels         []ChannelConfig `json:"channels,omitempty"`
}

// ChannelSettings is a fully resolved channel entry.
type ChannelSettings struct {
	Name                 string
	Color                string
	Window               int
	History              int
	RangeLo              float64
	RangeHi              float64
	Autoscale            bool
	Smoothing            float64
	ShrinkConfirmFrames  int
	ShrinkMarginFraction float64
}

// Settings is the fully resolved, validated configuration.
type Settings struct {
	ListenAddr       string
	SerialPort       string
	BaudRate         int
	FrameInterval    time.Duration
	SmoothingPresets []float64
	Channels         []ChannelSettings
}

const (
	defaultListenAddr    = "127.0.0.1:4000"
	defaultSerialPort    = "/dev/ttyACM0"
	defaultBaudRate      = 115200
	defaultFrameInterval = 100 * time.Millisecond
	defaultWindow        = 50
	defaultHistory       = 1000
)

// defaultChannels mirrors the receiver's frame layout: the parser emits
// samples indexed by position in this list.
func defaultChannels() []ChannelSettings {
	base := func(name, color string, lo, hi float64, autoscale bool, smoothing float64) ChannelSettings {
		return ChannelSettings{
			Name: name, Color: color,
			Window: defaultWindow, History: defaultHistory,
			RangeLo: lo, RangeHi: hi,
			Autoscale: autoscale, Smoothing: smoothing,
			ShrinkConfirmFrames:  graph.DefaultShrinkConfirmFrames,
			ShrinkMarginFraction: graph.DefaultShrinkMarginFraction,
		}
	}
	return []ChannelSettings{
		base("Msg #", "magenta", 0, 1000, true, 0.35),
		base("RSSI ACK (dBm)", "cyan", -120, 0, true, 0.5),
		base("TEMP (°C)", "red", -10, 25, false, 0.5),
		base("PRESSURE (hPa)", "green", 800, 1500, true, 1.0),
		base("HUMIDITY (%)", "blue", 0, 100, false, 0.5),
		base("ALTITUDE (m)", "brightmagenta", 0, 5000, false, 0.5),
		base("RSSI PACKET (dBm)", "yellow", -120, 0, true, 0.5),
	}
}

// Default returns the built-in configuration: seven CanSat telemetry
// channels, control on localhost:4000, 100ms frames.
func Default() *Config {
	return &Config{}
}

// Load reads and parses a JSON config file. The file must have a .json
// extension and stay under MaxConfigFileSize. Fields omitted from the file
// retain their defaults, so partial configs are safe.
func Load(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if info.Size() > MaxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), MaxConfigFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}

// Resolve merges the config over the defaults and validates the result.
func (c *Config) Resolve() (*Settings, error) {
	s := &Settings{
		ListenAddr:       defaultListenAddr,
		SerialPort:       defaultSerialPort,
		BaudRate:         defaultBaudRate,
		FrameInterval:    defaultFrameInterval,
		SmoothingPresets: []float64{0.0, 0.25, 0.5, 0.75, 1.0},
		Channels:         defaultChannels(),
	}
	if c.ListenAddr != nil {
		s.ListenAddr = *c.ListenAddr
	}
	if c.SerialPort != nil {
		s.SerialPort = *c.SerialPort
	}
	if c.BaudRate != nil {
		s.BaudRate = *c.BaudRate
	}
	if c.FrameInterval != nil {
		d, err := time.ParseDuration(*c.FrameInterval)
		if err != nil {
			return nil, fmt.Errorf("invalid frame_interval: %w", err)
		}
		s.FrameInterval = d
	}
	if len(c.SmoothingPresets) > 0 {
		s.SmoothingPresets = c.SmoothingPresets
	}
	if len(c.Channels) > 0 {
		s.Channels = make([]ChannelSettings, len(c.Channels))
		for i, cc := range c.Channels {
			s.Channels[i] = resolveChannel(cc, i)
		}
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func resolveChannel(cc ChannelConfig, idx int) ChannelSettings {
	out := ChannelSettings{
		Name:                 fmt.Sprintf("Channel %d", idx),
		Color:                "white",
		Window:               defaultWindow,
		History:              defaultHistory,
		RangeLo:              -1,
		RangeHi:              1,
		Autoscale:            true,
		Smoothing:            0.5,
		ShrinkConfirmFrames:  graph.DefaultShrinkConfirmFrames,
		ShrinkMarginFraction: graph.DefaultShrinkMarginFraction,
	}
	if cc.Name != nil {
		out.Name = *cc.Name
	}
	if cc.Color != nil {
		out.Color = *cc.Color
	}
	if cc.Window != nil {
		out.Window = *cc.Window
	}
	if cc.History != nil {
		out.History = *cc.History
	}
	if cc.RangeLo != nil {
		out.RangeLo = *cc.RangeLo
	}
	if cc.RangeHi != nil {
		out.RangeHi = *cc.RangeHi
	}
	if cc.Autoscale != nil {
		out.Autoscale = *cc.Autoscale
	}
	if cc.Smoothing != nil {
		out.Smoothing = *cc.Smoothing
	}
	if cc.ShrinkConfirmFrames != nil {
		out.ShrinkConfirmFrames = *cc.ShrinkConfirmFrames
	}
	if cc.ShrinkMarginFraction != nil {
		out.ShrinkMarginFraction = *cc.ShrinkMarginFraction
	}
	return out
}

func (s *Settings) validate() error {
	if s.ListenAddr == "" {
		return fmt.Errorf("listen_addr must not be empty")
	}
	if s.BaudRate <= 0 {
		return fmt.Errorf("baud_rate must be positive, got %d", s.BaudRate)
	}
	if s.FrameInterval <= 0 {
		return fmt.Errorf("frame_interval must be positive, got %v", s.FrameInterval)
	}
	if len(s.Channels) == 0 {
		return fmt.Errorf("at least one channel is required")
	}
	for _, p := range s.SmoothingPresets {
		if p < 0 || p > 1 {
			return fmt.Errorf("smoothing preset %v outside [0,1]", p)
		}
	}
	for i, ch := range s.Channels {
		if err := ch.GraphConfig().Validate(); err != nil {
			return fmt.Errorf("channel %d (%s): %w", i, ch.Name, err)
		}
		if ch.ShrinkConfirmFrames <= 0 {
			return fmt.Errorf("channel %d (%s): shrink_confirm_frames must be positive", i, ch.Name)
		}
		if ch.ShrinkMarginFraction <= 0 || ch.ShrinkMarginFraction >= 0.5 {
			return fmt.Errorf("channel %d (%s): shrink_margin_fraction must be in (0, 0.5)", i, ch.Name)
		}
	}
	return nil
}

// GraphConfig converts the entry to the core graph config.
func (ch ChannelSettings) GraphConfig() graph.Config {
	return graph.Config{
		Window:  ch.Window,
		History: ch.History,
		RangeLo: ch.RangeLo,
		RangeHi: ch.RangeHi,
	}
}

// GraphSettings converts the entry to the core display settings.
func (ch ChannelSettings) GraphSettings() graph.Settings {
	return graph.Settings{
		Name:                 ch.Name,
		Color:                ch.Color,
		Autoscale:            ch.Autoscale,
		Smoothing:            ch.Smoothing,
		ShrinkConfirmFrames:  ch.ShrinkConfirmFrames,
		ShrinkMarginFraction: ch.ShrinkMarginFraction,
	}
}

// BuildChannels constructs the ordered channel list. Index order here fixes
// the <idx> values the remote control protocol addresses.
func (s *Settings) BuildChannels() []*graph.Channel {
	channels := make([]*graph.Channel, len(s.Channels))
	for i, ch := range s.Channels {
		channels[i] = graph.NewChannel(ch.GraphConfig(), ch.GraphSettings())
	}
	return channels
}
