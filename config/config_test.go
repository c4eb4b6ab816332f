package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"LEVELC_PROJECT", "LEVELC_FORMAT", "LEVELC_PROBE_STEPS", "LEVELC_DEBOUNCE", "LEVELC_RULES"} {
		t.Setenv(k, "")
	}
	cfg := Load()
	assert.Equal(t, ".", cfg.Project)
	assert.Equal(t, "Scenes/Levels", cfg.Levels)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 240, cfg.ProbeSteps)
	assert.Equal(t, 250*time.Millisecond, cfg.Debounce)
	assert.Empty(t, cfg.Rules)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEVELC_PROJECT", "/srv/game")
	t.Setenv("LEVELC_FORMAT", "cpp")
	t.Setenv("LEVELC_PROBE_STEPS", "not-a-number")
	t.Setenv("LEVELC_DEBOUNCE", "1s")
	t.Setenv("LEVELC_VERBOSE", "true")

	cfg := Load()
	assert.Equal(t, "/srv/game", cfg.Project)
	assert.Equal(t, "cpp", cfg.Format)
	assert.Equal(t, 240, cfg.ProbeSteps)
	assert.Equal(t, time.Second, cfg.Debounce)
	assert.True(t, cfg.Verbose)
}

func TestValidate(t *testing.T) {
	cfg := Config{Project: ".", TileSet: "Tiles.tscn", Format: "xml"}
	assert.Error(t, cfg.Validate())
	cfg.Format = "cpp"
	assert.NoError(t, cfg.Validate())
	cfg.TileSet = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	path := filepath.Join(dir, "levelc.env")
	require.NoError(t, os.WriteFile(path, []byte("LEVELC_TEST_DOTENV=scenes\n"), 0o644))
	t.Setenv("LEVELC_TEST_DOTENV", "")
	require.NoError(t, os.Unsetenv("LEVELC_TEST_DOTENV"))
	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "scenes", os.Getenv("LEVELC_TEST_DOTENV"))
}
