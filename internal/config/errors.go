package config

import "codeberg.org/mutker/smcfanctl/internal/errors"

const (
	ErrInvalidBand    = errors.ErrorCode("config_invalid_band")
	ErrInvalidFanMin  = errors.ErrorCode("config_invalid_fan_min")
	ErrInvalidExclude = errors.ErrorCode("config_invalid_exclude")
)
