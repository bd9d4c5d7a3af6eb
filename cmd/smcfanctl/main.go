package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"codeberg.org/mutker/smcfanctl/internal/config"
	"codeberg.org/mutker/smcfanctl/internal/control"
	"codeberg.org/mutker/smcfanctl/internal/logger"
	"codeberg.org/mutker/smcfanctl/internal/metrics"
	"codeberg.org/mutker/smcfanctl/internal/pid"
	"codeberg.org/mutker/smcfanctl/internal/smc"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "smcfanctl: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config file (default /etc/smcfanctl.toml)")
	classPath := flag.String("hwmon", smc.DefaultClassPath, "Hardware-monitor class directory")
	deviceName := flag.String("device", smc.DefaultDeviceName, "Device name to match during discovery")
	flag.Parse()

	loadConfig := func() (*config.Config, error) {
		if *configPath != "" {
			return config.LoadFrom(*configPath)
		}
		return config.Load()
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger.Init(cfg.LogLevel, logger.IsService())

	pidPath := pid.DefaultPath()
	if err := pid.Write(pidPath); err != nil {
		return err
	}
	defer func() {
		if err := pid.Remove(pidPath); err != nil {
			logger.Error().Err(err).Msg("Failed to remove PID file")
		}
	}()

	basePath, err := smc.Discover(*classPath, *deviceName)
	if err != nil {
		return err
	}

	fanCount := smc.FanCount(basePath)
	logger.Info().
		Str("base_path", basePath).
		Int("fans", fanCount).
		Msg("Hardware ready")

	metricsCfg := metrics.DefaultConfig()
	metricsCfg.Enabled = cfg.Metrics
	if cfg.MetricsDB != "" {
		metricsCfg.DBPath = cfg.MetricsDB
	}
	collector, err := metrics.NewService(metricsCfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := collector.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close metrics collector")
		}
	}()

	loop := control.New(basePath, fanCount, loadConfig, control.WithCollector(collector))
	if err := loop.Init(); err != nil {
		return err
	}

	return loop.Run(context.Background())
}
