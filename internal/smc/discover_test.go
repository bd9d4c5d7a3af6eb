package smc_test

import (
	"os"
	"path/filepath"
	"testing"

	"codeberg.org/mutker/smcfanctl/internal/errors"
	"codeberg.org/mutker/smcfanctl/internal/smc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDevice(t *testing.T, classPath, dir, name string) string {
	t.Helper()

	base := filepath.Join(classPath, dir)
	require.NoError(t, os.Mkdir(base, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(base, "name"), []byte(name+"\n"), 0o644))

	return base
}

func TestDiscover(t *testing.T) {
	classPath := t.TempDir()
	writeDevice(t, classPath, "hwmon0", "coretemp")
	want := writeDevice(t, classPath, "hwmon1", "applesmc")

	base, err := smc.Discover(classPath, "applesmc")
	require.NoError(t, err)
	assert.Equal(t, want, base)
}

func TestDiscoverNotFound(t *testing.T) {
	classPath := t.TempDir()
	writeDevice(t, classPath, "hwmon0", "coretemp")

	_, err := smc.Discover(classPath, "applesmc")
	require.Error(t, err)
	assert.Equal(t, smc.ErrDeviceNotFound, errors.CodeOf(err))
}

func TestDiscoverMissingClassPath(t *testing.T) {
	_, err := smc.Discover(filepath.Join(t.TempDir(), "nope"), "applesmc")
	require.Error(t, err)
	assert.Equal(t, smc.ErrBasePathFailed, errors.CodeOf(err))
}
