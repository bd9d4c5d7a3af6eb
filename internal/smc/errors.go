package smc

import "codeberg.org/mutker/smcfanctl/internal/errors"

const (
	// Discovery errors
	ErrDeviceNotFound = errors.ErrorCode("smc_device_not_found")
	ErrBasePathFailed = errors.ErrorCode("smc_base_path_failed")
	ErrNoSensors      = errors.ErrorCode("smc_no_sensors")

	// Sensor errors
	ErrSensorReadFailed = errors.ErrorCode("smc_sensor_read_failed")
	ErrNoUsableSensors  = errors.ErrorCode("smc_no_usable_sensors")

	// Fan errors
	ErrFanWriteFailed = errors.ErrorCode("smc_fan_write_failed")
)
