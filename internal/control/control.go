package control

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/mutker/smcfanctl/internal/config"
	"codeberg.org/mutker/smcfanctl/internal/errors"
	"codeberg.org/mutker/smcfanctl/internal/logger"
	"codeberg.org/mutker/smcfanctl/internal/metrics"
	"codeberg.org/mutker/smcfanctl/internal/smc"
)

// State is the control loop lifecycle state
type State int

const (
	StateInitializing State = iota
	StateRunning
	StateReloadPending
	StateShuttingDown
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateRunning:
		return "running"
	case StateReloadPending:
		return "reload_pending"
	case StateShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// LoadFunc loads and validates a configuration
type LoadFunc func() (*config.Config, error)

// Loop owns the current configuration and sensor registry and replaces both
// as a unit on reload. Signals are captured asynchronously into a channel but
// only acted on at the checkpoint between ticks, so a tick never observes a
// half-updated configuration/registry pair.
type Loop struct {
	basePath   string
	fanCount   int
	loadConfig LoadFunc
	statusW    io.Writer
	collector  metrics.Collector

	state State
	cfg   *config.Config
	reg   *smc.Registry
	sigs  chan os.Signal
}

// Option configures a Loop
type Option func(*Loop)

// WithStatusWriter redirects the per-tick status line
func WithStatusWriter(w io.Writer) Option {
	return func(l *Loop) {
		l.statusW = w
	}
}

// WithCollector attaches a metrics collector recording each tick
func WithCollector(c metrics.Collector) Option {
	return func(l *Loop) {
		l.collector = c
	}
}

func New(basePath string, fanCount int, load LoadFunc, opts ...Option) *Loop {
	l := &Loop{
		basePath:   basePath,
		fanCount:   fanCount,
		loadConfig: load,
		statusW:    os.Stdout,
		state:      StateInitializing,
		sigs:       make(chan os.Signal, 4),
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Init performs the first configuration load and sensor scan. Any failure
// here is returned to the caller and is fatal: there is no known-good state
// to fall back to yet.
func (l *Loop) Init() error {
	errFactory := errors.New()

	cfg, err := l.loadConfig()
	if err != nil {
		return errFactory.Wrap(errors.ErrInitFailed, err)
	}

	reg, err := smc.Scan(l.basePath, cfg.Exclude)
	if err != nil {
		return errFactory.Wrap(errors.ErrInitFailed, err)
	}

	l.cfg = cfg
	l.reg = reg
	l.state = StateRunning

	logger.Info().
		Int("sensors", reg.Count()).
		Int("fans", l.fanCount).
		Int("interval", cfg.Interval).
		Msg("Control loop initialized")

	return nil
}

// Run executes ticks until a termination signal or context cancellation.
// The sleep is a fixed interval after the tick's work, so total cycle time
// drifts by the tick's own duration. Intentional; do not anchor the cadence
// to tick start.
func (l *Loop) Run(ctx context.Context) error {
	if l.state != StateRunning {
		return errors.New().WithData(ErrNotRunning, l.state.String())
	}

	signal.Notify(l.sigs, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(l.sigs)

	for {
		l.Tick(ctx)

		if !l.checkpoint() {
			logger.Info().Msg("Received termination signal. Exiting...")
			return nil
		}

		select {
		case <-ctx.Done():
			l.state = StateShuttingDown
			return nil
		case <-time.After(time.Duration(l.cfg.Interval) * time.Second):
		}
	}
}

// Tick executes one control iteration: refresh readings, compute the target,
// apply it to the fans, emit the status line and record metrics. Recoverable
// failures are logged and never abort the loop.
func (l *Loop) Tick(ctx context.Context) {
	l.reg.ReadValues()

	readings, err := l.readings()
	if err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			logger.ErrorWithCode(appErr).Msg("No usable sensor readings; skipping tick")
		} else {
			logger.Error().Err(err).Msg("No usable sensor readings; skipping tick")
		}
		return
	}

	target := CalcFanSpeed(l.cfg, readings)

	if err := smc.ApplyFanSpeed(l.basePath, l.fanCount, target.Speed); err != nil {
		logger.Warn().Err(err).Msg("Fan speed apply failed")
	}

	if l.cfg.LogLevel > 0 {
		fmt.Fprintln(l.statusW, FormatStatus(target, readings, l.reg.Sensors(), l.cfg.LogLevel))
	}

	if l.collector != nil {
		snapshot := &metrics.Snapshot{
			Timestamp:   time.Now(),
			FanSpeed:    target.Speed,
			Source:      target.Source.String(),
			AvgTemp:     readings.Avg,
			SensorCount: l.reg.Count(),
		}
		if readings.HasTC0P {
			snapshot.TC0P = &readings.TC0P
		}
		if readings.HasTG0P {
			snapshot.TG0P = &readings.TG0P
		}
		if err := l.collector.Record(ctx, snapshot); err != nil {
			logger.Warn().Err(err).Msg("Metrics record failed")
		}
	}
}

// Reload attempts to replace the configuration and sensor registry as an
// atomic pair. Best-effort: on any failure both prior versions stay in place
// and the loop keeps running.
func (l *Loop) Reload() error {
	l.state = StateRunning

	cfg, err := l.loadConfig()
	if err != nil {
		logger.Warn().Err(err).Msg("Config reload failed; keeping previous configuration")
		return err
	}

	reg, err := smc.Scan(l.basePath, cfg.Exclude)
	if err != nil {
		logger.Warn().Err(err).Msg("Sensor rescan failed; keeping previous configuration")
		return err
	}

	l.cfg = cfg
	l.reg = reg
	logger.SetVerbosity(cfg.LogLevel)

	logger.Info().
		Int("sensors", reg.Count()).
		Msg("Configuration reloaded")

	return nil
}

// State returns the current lifecycle state
func (l *Loop) State() State {
	return l.state
}

// Config returns the currently active configuration
func (l *Loop) Config() *config.Config {
	return l.cfg
}

// Registry returns the currently active sensor registry
func (l *Loop) Registry() *smc.Registry {
	return l.reg
}

func (l *Loop) readings() (Readings, error) {
	avg, err := l.reg.AverageTemperature()
	if err != nil {
		return Readings{}, err
	}

	r := Readings{Avg: avg}
	r.TC0P, r.HasTC0P = l.reg.TC0P()
	r.TG0P, r.HasTG0P = l.reg.TG0P()

	return r, nil
}

// checkpoint drains pending signals and resolves the resulting state.
// Returns false when the loop should shut down. A termination signal always
// wins over a pending reload.
func (l *Loop) checkpoint() bool {
	drained := false
	for !drained {
		select {
		case sig := <-l.sigs:
			switch sig {
			case syscall.SIGHUP:
				if l.state == StateRunning {
					l.state = StateReloadPending
				}
			default:
				l.state = StateShuttingDown
			}
		default:
			drained = true
		}
	}

	if l.state == StateShuttingDown {
		return false
	}

	if l.state == StateReloadPending {
		// Reload is best-effort; the error is already logged
		_ = l.Reload()
	}

	return true
}
