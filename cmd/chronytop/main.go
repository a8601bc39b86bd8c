package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aimana007/ChronyTop/internal/chrony"
	"github.com/aimana007/ChronyTop/internal/config"
	"github.com/aimana007/ChronyTop/internal/health"
	"github.com/aimana007/ChronyTop/internal/logger"
	"github.com/aimana007/ChronyTop/internal/monitor"
	"github.com/aimana007/ChronyTop/internal/pid"
	"github.com/aimana007/ChronyTop/internal/sensors"
	"github.com/aimana007/ChronyTop/internal/telemetry"
)

var (
	cfg       *config.Config
	mon       *monitor.Monitor
	collector telemetry.Collector
)

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Debug, cfg.Verbose, logger.IsService())
	if !cfg.Debug && !cfg.Verbose {
		logger.SetLogLevel(logLevel(cfg.LogLevel))
	}
	logger.Debug().Msg("Config loaded")

	runner := chrony.NewRunner(cfg.ChronycPath, time.Duration(cfg.Timeout)*time.Second)
	mon = monitor.New(runner, sensors.NewReader(""), cfg.HistorySize)

	telemetryCfg := telemetry.DefaultConfig()
	telemetryCfg.Enabled = cfg.Telemetry
	if cfg.TelemetryDB != "" {
		telemetryCfg.DBPath = cfg.TelemetryDB
	}

	collector, err = telemetry.NewCollector(telemetryCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
}

func main() {
	if err := pid.Write(); err != nil {
		logger.Fatal().Err(err).Msg("failed to write PID file")
	}
	defer func() {
		if err := pid.Remove(); err != nil {
			logger.Error().Err(err).Msg("failed to remove PID file")
		}
	}()

	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close telemetry")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go handleSignals(cancel)

	if err := loop(ctx); err != nil {
		logger.Error().Err(err).Msg("error in main loop")
	}
	logger.Info().Msg("Exiting...")
}

func loop(ctx context.Context) error {
	if cfg.Interval <= 0 {
		return fmt.Errorf("invalid interval: %d", cfg.Interval)
	}

	interval := time.Duration(cfg.Interval) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if cfg.Monitor {
		logger.Info().Msg("Monitor mode activated. Logging chrony status...")
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			snap := mon.Poll(ctx)
			logSnapshot(snap)
			recordSnapshot(ctx, snap)
		}
	}
}

func logLevel(name string) logger.LogLevel {
	switch name {
	case "debug":
		return logger.DebugLevel
	case "warning":
		return logger.WarnLevel
	case "error":
		return logger.ErrorLevel
	default:
		return logger.InfoLevel
	}
}

func handleSignals(cancel context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	logger.Info().Msg("Received termination signal.")
	cancel()
}

func logSnapshot(snap *monitor.Snapshot) {
	for _, alert := range snap.Alerts {
		event := logger.Info()
		switch alert.Severity {
		case health.SeverityWarn:
			event = logger.Warn()
		case health.SeverityCritical:
			event = logger.Error()
		}
		event.Msg(alert.Text)
	}

	if cfg.Debug {
		event := logger.Debug().
			Int("sources", len(snap.Sources)).
			Int("reachable", snap.ReachableCount()).
			Int("selected", snap.SelectedCount()).
			Float64("tracking_age", snap.Ages.Tracking).
			Float64("sources_age", snap.Ages.Sources).
			Float64("sourcestats_age", snap.Ages.SourceStats).
			Str("noise", snap.Noise.Text).
			Str("coupling", snap.Coupling.Text).
			Bool("monitor", cfg.Monitor)
		if snap.Tracking != nil {
			event = event.
				Float64("offset_ms", snap.Tracking.Offset*1000).
				Float64("rms_ms", snap.Tracking.RMS*1000).
				Float64("frequency_ppm", snap.Tracking.Frequency).
				Float64("skew_ppm", snap.Tracking.Skew)
		}
		if snap.TempMax != nil {
			event = event.Float64("temp_max", *snap.TempMax)
		}
		for i := range snap.Sources {
			src := &snap.Sources[i]
			event = event.Str("source_"+src.Name,
				fmt.Sprintf("score=%d reach=%s", snap.Assessments[i].Score, chrony.ReachDots(src.Reach)))
		}
		event.Msg("")
	} else if cfg.Verbose || cfg.Monitor {
		event := logger.Info().
			Int("sources", len(snap.Sources)).
			Int("reachable", snap.ReachableCount()).
			Int("selected", snap.SelectedCount()).
			Str("selected_source", snap.SelectedName).
			Str("severity", snap.WorstSeverity().String())
		if snap.Tracking != nil {
			event = event.
				Float64("offset_ms", snap.Tracking.Offset*1000).
				Float64("frequency_ppm", snap.Tracking.Frequency)
		}
		if snap.TempMax != nil {
			event = event.Float64("temp_max", *snap.TempMax)
		}
		event.Msg("")
	}
}

func recordSnapshot(ctx context.Context, snap *monitor.Snapshot) {
	record := &telemetry.Snapshot{
		Timestamp:     snap.Timestamp,
		TempMax:       snap.TempMax,
		Sources:       len(snap.Sources),
		Reachable:     snap.ReachableCount(),
		Selected:      snap.SelectedCount(),
		AlertCount:    len(snap.Alerts),
		WorstSeverity: snap.WorstSeverity().String(),
	}
	if snap.Tracking != nil {
		record.Offset = &snap.Tracking.Offset
		record.RMSOffset = &snap.Tracking.RMS
		record.Frequency = &snap.Tracking.Frequency
		record.Skew = &snap.Tracking.Skew
	}

	if err := collector.Record(ctx, record); err != nil {
		logger.Error().Err(err).Msg("failed to record telemetry")
	}
}
