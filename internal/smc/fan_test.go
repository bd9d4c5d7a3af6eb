package smc_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/smcfanctl/internal/errors"
	"codeberg.org/mutker/smcfanctl/internal/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFan(t *testing.T, dir string, fan int) {
	t.Helper()

	for _, name := range []string{"min", "manual"} {
		path := filepath.Join(dir, fmt.Sprintf("fan%d_%s", fan, name))
		require.NoError(t, os.WriteFile(path, []byte("0\n"), 0o644))
	}
}

func TestFanCount(t *testing.T) {
	base := t.TempDir()
	assert.Equal(t, 0, smc.FanCount(base))

	writeFan(t, base, 1)
	assert.Equal(t, 1, smc.FanCount(base))

	writeFan(t, base, 2)
	assert.Equal(t, 2, smc.FanCount(base))
}

func TestApplyFanSpeed(t *testing.T) {
	base := t.TempDir()
	writeFan(t, base, 1)
	writeFan(t, base, 2)

	require.NoError(t, smc.ApplyFanSpeed(base, 2, 3700))

	for _, fan := range []string{"fan1", "fan2"} {
		minValue, err := os.ReadFile(filepath.Join(base, fan+"_min"))
		require.NoError(t, err)
		assert.Equal(t, "3700", string(minValue))

		manualValue, err := os.ReadFile(filepath.Join(base, fan+"_manual"))
		require.NoError(t, err)
		assert.Equal(t, "0", string(manualValue), "Manual override must be reset after the minimum is set")
	}
}

func TestApplyFanSpeedPartialFailure(t *testing.T) {
	base := t.TempDir()

	// fan1's control cannot be written; fan2 must still be attempted
	require.NoError(t, os.Mkdir(filepath.Join(base, "fan1_min"), 0o755))
	writeFan(t, base, 2)

	err := smc.ApplyFanSpeed(base, 2, 3000)
	require.Error(t, err)
	assert.Equal(t, smc.ErrFanWriteFailed, errors.CodeOf(err))

	minValue, readErr := os.ReadFile(filepath.Join(base, "fan2_min"))
	require.NoError(t, readErr)
	assert.Equal(t, "3000", string(minValue))
}
