package smc

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"codeberg.org/mutker/smcfanctl/internal/errors"
	"codeberg.org/mutker/smcfanctl/internal/logger"
)

const (
	// MaxFans is the number of fans the SMC exposes at most
	MaxFans = 2

	fanFilePerm = 0o644
)

// FanCount probes fan<N>_min files under basePath and returns how many
// fans are present (one or two).
func FanCount(basePath string) int {
	count := 0
	for fan := 1; fan <= MaxFans; fan++ {
		path := filepath.Join(basePath, fmt.Sprintf("fan%d_min", fan))
		if _, err := os.Stat(path); err != nil {
			break
		}
		count++
	}

	return count
}

// ApplyFanSpeed writes speed to each fan's minimum-speed control and then
// resets that fan's manual override to 0, in that order, so a fan never holds
// a stale manual override after the new minimum is set. Each fan's write pair
// is attempted independently; a failure on one fan does not prevent the other.
func ApplyFanSpeed(basePath string, fanCount, speed int) error {
	errFactory := errors.New()

	var firstErr error
	for fan := 1; fan <= fanCount; fan++ {
		minPath := filepath.Join(basePath, fmt.Sprintf("fan%d_min", fan))
		if err := writeControl(minPath, speed); err != nil {
			logger.Warn().Int("fan", fan).Err(err).Msg("Fan minimum-speed write failed")
			if firstErr == nil {
				firstErr = errFactory.Wrap(ErrFanWriteFailed, err)
			}
			continue
		}

		manualPath := filepath.Join(basePath, fmt.Sprintf("fan%d_manual", fan))
		if err := writeControl(manualPath, 0); err != nil {
			logger.Warn().Int("fan", fan).Err(err).Msg("Fan manual-override write failed")
			if firstErr == nil {
				firstErr = errFactory.Wrap(ErrFanWriteFailed, err)
			}
		}
	}

	return firstErr
}

func writeControl(path string, value int) error {
	return os.WriteFile(path, []byte(strconv.Itoa(value)), fanFilePerm)
}
