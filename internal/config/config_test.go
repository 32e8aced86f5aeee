package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsAreEmpty(t *testing.T) {
	t.Setenv("TIMECODE_CONFIG_PATH", "")
	t.Setenv("TIMECODE_TIMELINE", "")
	t.Setenv("TIMECODE_LABEL", "")
	t.Setenv("TIMECODE_EXPORT_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Config{}, cfg)
}

func TestLoadFromYAMLFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "timecode.yaml")
	content := "timeline: demo/timecodes.jsonl\nlabel: synth-demo\nexport_db: demo/timecodes.db\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	t.Setenv("TIMECODE_CONFIG_PATH", configPath)
	t.Setenv("TIMECODE_TIMELINE", "")
	t.Setenv("TIMECODE_LABEL", "")
	t.Setenv("TIMECODE_EXPORT_DB", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "demo/timecodes.jsonl", cfg.Timeline)
	assert.Equal(t, "synth-demo", cfg.Label)
	assert.Equal(t, "demo/timecodes.db", cfg.ExportDB)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "timecode.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("timeline: from-file.jsonl\n"), 0o600))

	t.Setenv("TIMECODE_CONFIG_PATH", configPath)
	t.Setenv("TIMECODE_TIMELINE", "from-env.jsonl")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "from-env.jsonl", cfg.Timeline)
}

func TestLoadFailsOnUnreadableFile(t *testing.T) {
	t.Setenv("TIMECODE_CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoadFailsOnInvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "timecode.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("timeline: [unclosed\n"), 0o600))

	t.Setenv("TIMECODE_CONFIG_PATH", configPath)

	_, err := Load()
	require.Error(t, err)
}
