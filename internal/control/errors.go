package control

import "codeberg.org/mutker/smcfanctl/internal/errors"

const (
	ErrNotRunning = errors.ErrorCode("control_not_running")
)
