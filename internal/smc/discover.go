package smc

import (
	"os"
	"path/filepath"

	"codeberg.org/mutker/smcfanctl/internal/errors"
	"codeberg.org/mutker/smcfanctl/internal/logger"
)

const (
	// DefaultClassPath is the hwmon class tree the kernel exposes
	DefaultClassPath = "/sys/class/hwmon"
	// DefaultDeviceName is the device name file content to match
	DefaultDeviceName = "applesmc"
)

// Discover walks the hwmon class directories under classPath and returns the
// base path of the device whose name file matches deviceName.
func Discover(classPath, deviceName string) (string, error) {
	errFactory := errors.New()

	entries, err := os.ReadDir(classPath)
	if err != nil {
		return "", errFactory.Wrap(ErrBasePathFailed, err)
	}

	for _, entry := range entries {
		basePath := filepath.Join(classPath, entry.Name())
		name, err := readTrimmed(filepath.Join(basePath, "name"))
		if err != nil {
			continue
		}

		if name == deviceName {
			logger.Debug().
				Str("device", deviceName).
				Str("base_path", basePath).
				Msg("Hardware device discovered")

			return basePath, nil
		}
	}

	return "", errFactory.WithData(ErrDeviceNotFound, deviceName)
}
