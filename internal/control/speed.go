package control

import (
	"codeberg.org/mutker/smcfanctl/internal/config"
)

// Source identifies which temperature source produced the applied fan speed
type Source int

const (
	SourceNone Source = iota
	SourceAvg
	SourceTC0P
	SourceTG0P
)

func (s Source) String() string {
	switch s {
	case SourceAvg:
		return "avg"
	case SourceTC0P:
		return "tc0p"
	case SourceTG0P:
		return "tg0p"
	default:
		return "none"
	}
}

// Readings is the per-tick snapshot of the control sources. The named
// sources are only meaningful when their Has flag is set.
type Readings struct {
	Avg     float64
	TC0P    float64
	HasTC0P bool
	TG0P    float64
	HasTG0P bool
}

// FanTarget is the computed speed and the source that won it. Recomputed
// every tick, never persisted.
type FanTarget struct {
	Speed  int
	Source Source
}

// CalcFanSpeed computes the target fan speed by linear interpolation over
// each source's configured temperature band, taking the maximum candidate.
// Evaluation order is fixed: aggregate, TC0P, TG0P. A tie keeps the
// earliest-evaluated source. The result is clamped to [FanMin, FanMax], so a
// source above its ceiling saturates at FanMax and one below its floor can
// never drag the speed under FanMin. Pure and deterministic.
func CalcFanSpeed(cfg *config.Config, r Readings) FanTarget {
	fanMin := float64(cfg.FanMin)
	fanMax := float64(config.FanMax)

	speed := fanMin
	source := SourceNone

	evaluate := func(value float64, band config.Band, s Source) {
		normalized := (value - band.Floor) / (band.Ceiling - band.Floor)
		candidate := fanMin + normalized*(fanMax-fanMin)
		if candidate > speed {
			speed = candidate
			source = s
		}
	}

	evaluate(r.Avg, cfg.AvgBand(), SourceAvg)
	if r.HasTC0P {
		evaluate(r.TC0P, cfg.TC0PBand(), SourceTC0P)
	}
	if r.HasTG0P {
		evaluate(r.TG0P, cfg.TG0PBand(), SourceTG0P)
	}

	if speed < fanMin {
		speed = fanMin
	}
	if speed > fanMax {
		speed = fanMax
	}

	return FanTarget{Speed: int(speed), Source: source}
}
