package control_test

import (
	"testing"

	"codeberg.org/mutker/smcfanctl/internal/config"
	"codeberg.org/mutker/smcfanctl/internal/control"
	"github.com/stretchr/testify/assert"
)

func testConfig() *config.Config {
	return &config.Config{
		Interval:    5,
		FanMin:      1200,
		AvgFloor:    50,
		AvgCeiling:  70,
		TC0PFloor:   50,
		TC0PCeiling: 58,
		TG0PFloor:   50,
		TG0PCeiling: 58,
		LogLevel:    1,
	}
}

func TestCalcFanSpeedMidBand(t *testing.T) {
	cfg := testConfig()

	// Halfway through the aggregate band, no named sensors present
	target := control.CalcFanSpeed(cfg, control.Readings{Avg: 60})

	assert.Equal(t, 3700, target.Speed, "1200 + 0.5*(6200-1200)")
	assert.Equal(t, control.SourceAvg, target.Source)
}

func TestCalcFanSpeedClampsAboveCeiling(t *testing.T) {
	cfg := testConfig()

	target := control.CalcFanSpeed(cfg, control.Readings{
		Avg:     55,
		TC0P:    90, // far above its 58C ceiling
		HasTC0P: true,
	})

	assert.Equal(t, config.FanMax, target.Speed)
	assert.Equal(t, control.SourceTC0P, target.Source)
}

func TestCalcFanSpeedClampsBelowFloor(t *testing.T) {
	cfg := testConfig()

	target := control.CalcFanSpeed(cfg, control.Readings{
		Avg:     10,
		TC0P:    10,
		HasTC0P: true,
		TG0P:    10,
		HasTG0P: true,
	})

	assert.Equal(t, cfg.FanMin, target.Speed, "Speed never drops below the configured minimum")
	assert.Equal(t, control.SourceNone, target.Source, "A candidate below the minimum wins nothing")
}

func TestCalcFanSpeedTieBreak(t *testing.T) {
	cfg := testConfig()
	cfg.TC0PFloor = cfg.AvgFloor
	cfg.TC0PCeiling = cfg.AvgCeiling

	// Identical bands and identical values produce identical candidates;
	// the earlier-evaluated aggregate keeps the win.
	target := control.CalcFanSpeed(cfg, control.Readings{
		Avg:     60,
		TC0P:    60,
		HasTC0P: true,
	})

	assert.Equal(t, control.SourceAvg, target.Source)
}

func TestCalcFanSpeedNamedSourcesWin(t *testing.T) {
	cfg := testConfig()

	target := control.CalcFanSpeed(cfg, control.Readings{
		Avg:     52,
		TC0P:    54,
		HasTC0P: true,
		TG0P:    56,
		HasTG0P: true,
	})

	assert.Equal(t, control.SourceTG0P, target.Source)
	assert.Greater(t, target.Speed, cfg.FanMin)
	assert.LessOrEqual(t, target.Speed, config.FanMax)
}

func TestCalcFanSpeedIgnoresAbsentNamedSources(t *testing.T) {
	cfg := testConfig()

	// Values are set but the Has flags are not; only the aggregate counts
	target := control.CalcFanSpeed(cfg, control.Readings{
		Avg:  50,
		TC0P: 100,
		TG0P: 100,
	})

	assert.Equal(t, cfg.FanMin, target.Speed)
	assert.Equal(t, control.SourceNone, target.Source)
}

func TestCalcFanSpeedDeterministic(t *testing.T) {
	cfg := testConfig()
	readings := control.Readings{
		Avg:     61.7,
		TC0P:    55.2,
		HasTC0P: true,
		TG0P:    53.9,
		HasTG0P: true,
	}

	first := control.CalcFanSpeed(cfg, readings)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, control.CalcFanSpeed(cfg, readings))
	}
}

func TestCalcFanSpeedStaysInRange(t *testing.T) {
	cfg := testConfig()

	for _, avg := range []float64{-273, 0, 49.999, 50, 60, 70, 70.001, 200} {
		target := control.CalcFanSpeed(cfg, control.Readings{Avg: avg})
		assert.GreaterOrEqual(t, target.Speed, cfg.FanMin, "avg=%v", avg)
		assert.LessOrEqual(t, target.Speed, config.FanMax, "avg=%v", avg)
	}
}
