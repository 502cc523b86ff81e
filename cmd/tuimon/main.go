package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mat-jhgfd/tui-monitor/internal/config"
	"github.com/mat-jhgfd/tui-monitor/internal/control"
	"github.com/mat-jhgfd/tui-monitor/internal/monitoring"
	"github.com/mat-jhgfd/tui-monitor/internal/serialmux"
	"github.com/mat-jhgfd/tui-monitor/internal/telemetry"
	"github.com/mat-jhgfd/tui-monitor/internal/ui"
)

var (
	devMode    = flag.Bool("dev", false, "Replay fixtures.txt instead of opening the serial port")
	configPath = flag.String("config", "", "Path to a JSON config file")
	port       = flag.String("port", "", "Serial port (overrides config, ignored in dev mode)")
	listen     = flag.String("listen", "", "Remote control listen address (overrides config)")
	logPath    = flag.String("log", "tuimon.log", "Log file (stderr is owned by the TUI)")
	reportDir  = flag.String("reports", ".", "Directory for exported history reports")
)

func main() {
	flag.Parse()

	// the alternate screen owns the terminal, so logs go to a file
	closeLog, err := monitoring.UseFile(*logPath)
	if err != nil {
		log.Fatalf("failed to open log file: %v", err)
	}
	defer closeLog()

	cfg := config.Default()
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	settings, err := cfg.Resolve()
	if err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	if *port != "" {
		settings.SerialPort = *port
	}
	if *listen != "" {
		settings.ListenAddr = *listen
	}

	channels := settings.BuildChannels()

	var feed interface {
		serialmux.Source
		Monitor(ctx context.Context) error
		Close() error
	}
	if *devMode {
		data, err := os.ReadFile("fixtures.txt")
		if err != nil {
			log.Fatalf("failed to open fixtures file: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		feed = serialmux.NewMockFeed(lines, settings.FrameInterval)
	} else {
		feed, err = serialmux.Open(settings.SerialPort, settings.BaudRate)
		if err != nil {
			log.Fatalf("failed to open serial port %s: %v", settings.SerialPort, err)
		}
	}
	defer feed.Close()

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// run the monitor routine to manage IO on the serial port
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := feed.Monitor(ctx); err != nil && err != context.Canceled {
			monitoring.Logf("serial monitor failed: %v", err)
		}
		monitoring.Logf("monitor routine terminated")
	}()

	// subscribe to the feed and push parsed samples into the channels
	collector := telemetry.NewCollector(feed, channels)
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := collector.Run(ctx); err != nil && err != context.Canceled {
			monitoring.Logf("collector failed: %v", err)
		}
		monitoring.Logf("collector routine terminated")
	}()

	// remote control is best effort: a bind failure disables it but the
	// dashboard still runs
	ctl := control.NewServer(settings.ListenAddr, channels)
	if err := ctl.Listen(); err != nil {
		monitoring.Logf("remote control disabled: %v", err)
	} else {
		monitoring.Logf("remote control listening on %s", ctl.Addr())
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := ctl.Serve(ctx); err != nil {
				monitoring.Logf("remote control server failed: %v", err)
			}
			monitoring.Logf("remote control routine terminated")
		}()
	}

	model := ui.New(channels, settings.SmoothingPresets, settings.FrameInterval, *reportDir)
	// the context ties the TUI to SIGINT/SIGTERM: either a quit keypress or a
	// signal ends the program, and the routines behind it follow
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil && ctx.Err() == nil {
		monitoring.Logf("ui terminated: %v", err)
	}
	stop()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		monitoring.Logf("shutdown timed out waiting for routines")
	}
	monitoring.Logf("graceful shutdown complete")
}
