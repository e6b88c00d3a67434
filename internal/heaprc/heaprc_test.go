package heaprc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home) // harmless on non-Windows, mirrors os.UserHomeDir lookup
	return home
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	withHome(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "text", cfg.Format)
}

func TestSaveThenLoad(t *testing.T) {
	home := withHome(t)

	cfg := Config{Format: "hex", DefaultLimit: 20}
	require.NoError(t, Save(cfg))

	got, err := Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, got)

	_, err = os.Stat(filepath.Join(home, FileName))
	require.NoError(t, err)
}

func TestLoadToleratesComments(t *testing.T) {
	home := withHome(t)

	contents := `{
		// format controls how heapsh prints keys and values
		"format": "hex",
		"default_limit": 10,
	}`
	require.NoError(t, os.WriteFile(filepath.Join(home, FileName), []byte(contents), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "hex", cfg.Format)
	assert.Equal(t, 10, cfg.DefaultLimit)
}
