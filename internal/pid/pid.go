package pid

import (
	"os"
	"path/filepath"
	"strconv"
	"syscall"

	"codeberg.org/mutker/smcfanctl/internal/errors"
)

const (
	pidFile     = "smcfanctl.pid"
	pidFilePerm = 0o600
)

// DefaultPath returns the default PID file location
func DefaultPath() string {
	return filepath.Join(os.TempDir(), pidFile)
}

// Write writes the current process ID to the PID file at path. If the file
// already exists and its process is still alive, another instance holds the
// lock and Write fails; a stale file left by a dead process is overwritten.
func Write(path string) error {
	errFactory := errors.New()

	if bytes, err := os.ReadFile(path); err == nil {
		stalePid, err := strconv.Atoi(string(bytes))
		if err == nil && stalePid != os.Getpid() && processAlive(stalePid) {
			return errFactory.WithData(errors.ErrAlreadyRunning, stalePid)
		}
	}

	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), pidFilePerm); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

// Remove removes the PID file at path
func Remove(path string) error {
	errFactory := errors.New()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(path); err != nil {
		return errFactory.Wrap(errors.ErrInternal, err)
	}

	return nil
}

func processAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	return process.Signal(syscall.Signal(0)) == nil
}
