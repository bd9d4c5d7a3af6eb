package smc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"codeberg.org/mutker/smcfanctl/internal/errors"
	"codeberg.org/mutker/smcfanctl/internal/logger"
)

const (
	// Labels identifying the two named control sources
	LabelTC0P = "TC0P"
	LabelTG0P = "TG0P"

	milliDegreesPerDegree = 1000
)

// Sensor is one temperature source under the device base path. Values are
// degrees Celsius; a sensor keeps its previous value when a read fails.
type Sensor struct {
	ID       int
	Label    string
	Excluded bool
	Path     string
	Value    float64
}

// Registry holds the sensors found by one scan. Named back-references are
// indices into the sensors slice and are only valid for this registry
// instance; a rescan builds a whole new Registry.
type Registry struct {
	basePath string
	sensors  []Sensor
	tc0p     int
	tg0p     int
}

// Scan enumerates temp<N>_input files under basePath in ascending order
// starting at 1, stopping at the first missing index. Sensors whose id is in
// excluded are marked excluded but still have their label read, so an
// excluded sensor can still act as a named control source.
func Scan(basePath string, excluded []int) (*Registry, error) {
	errFactory := errors.New()

	if _, err := os.Stat(basePath); err != nil {
		return nil, errFactory.Wrap(ErrBasePathFailed, err)
	}

	excludedSet := make(map[int]bool, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = true
	}

	r := &Registry{
		basePath: basePath,
		tc0p:     -1,
		tg0p:     -1,
	}

	for id := 1; ; id++ {
		inputPath := filepath.Join(basePath, fmt.Sprintf("temp%d_input", id))
		if _, err := os.Stat(inputPath); err != nil {
			break
		}

		sensor := Sensor{
			ID:       id,
			Path:     inputPath,
			Excluded: excludedSet[id],
		}

		labelPath := filepath.Join(basePath, fmt.Sprintf("temp%d_label", id))
		if label, err := readTrimmed(labelPath); err == nil {
			sensor.Label = label
			switch label {
			case LabelTC0P:
				r.tc0p = len(r.sensors)
			case LabelTG0P:
				r.tg0p = len(r.sensors)
			}
		}

		r.sensors = append(r.sensors, sensor)
	}

	if len(r.sensors) == 0 {
		return nil, errFactory.WithData(ErrNoSensors, basePath)
	}

	logger.Debug().
		Int("sensors", len(r.sensors)).
		Bool("tc0p", r.tc0p >= 0).
		Bool("tg0p", r.tg0p >= 0).
		Str("base_path", basePath).
		Msg("Sensor scan complete")

	return r, nil
}

// ReadValues refreshes the value of every non-excluded sensor. A failed read
// is logged and leaves that sensor's previous value in place; the remaining
// sensors are still read.
func (r *Registry) ReadValues() {
	for i := range r.sensors {
		if r.sensors[i].Excluded {
			continue
		}

		value, err := readMilliDegrees(r.sensors[i].Path)
		if err != nil {
			logger.Warn().
				Int("sensor", r.sensors[i].ID).
				Err(err).
				Msg("Sensor read failed; keeping previous value")
			continue
		}
		r.sensors[i].Value = value
	}
}

// AverageTemperature returns the arithmetic mean over all non-excluded
// sensors. Zero usable sensors is an error, never a silent zero.
func (r *Registry) AverageTemperature() (float64, error) {
	sum := 0.0
	count := 0
	for i := range r.sensors {
		if r.sensors[i].Excluded {
			continue
		}
		sum += r.sensors[i].Value
		count++
	}

	if count == 0 {
		return 0, errors.New().WithData(ErrNoUsableSensors, r.basePath)
	}

	return sum / float64(count), nil
}

// TC0P returns the value of the TC0P-labeled sensor, if one was discovered
func (r *Registry) TC0P() (float64, bool) {
	if r.tc0p < 0 {
		return 0, false
	}

	return r.sensors[r.tc0p].Value, true
}

// TG0P returns the value of the TG0P-labeled sensor, if one was discovered
func (r *Registry) TG0P() (float64, bool) {
	if r.tg0p < 0 {
		return 0, false
	}

	return r.sensors[r.tg0p].Value, true
}

// Sensors returns a snapshot of the current sensor states
func (r *Registry) Sensors() []Sensor {
	sensors := make([]Sensor, len(r.sensors))
	copy(sensors, r.sensors)

	return sensors
}

// Count returns the number of sensors found by the scan
func (r *Registry) Count() int {
	return len(r.sensors)
}

func readTrimmed(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(data)), nil
}

func readMilliDegrees(path string) (float64, error) {
	errFactory := errors.New()

	raw, err := readTrimmed(path)
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorReadFailed, err)
	}

	milli, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errFactory.Wrap(ErrSensorReadFailed, err)
	}

	return float64(milli) / milliDegreesPerDegree, nil
}
