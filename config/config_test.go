package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
data_dir: /opt/atlas
templates:
  scales: [0.8, 1.0, 1.2]
  rotations: [0, 45]
matching:
  validator:
    clamped_area: true
scan:
  settle_delay: 350ms
  expand:
    right: 600
mqtt:
  enabled: true
  broker: tcp://localhost:1883
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/atlas", cfg.DataDir)
	assert.Equal(t, []float64{0.8, 1.0, 1.2}, cfg.Templates.Scales)
	assert.Equal(t, []float64{0, 45}, cfg.Templates.Rotations)
	assert.Equal(t, "refs/*.png", cfg.Templates.Glob, "unset key keeps default")
	assert.True(t, cfg.Matching.Validator.ClampedArea)
	assert.Equal(t, 8, cfg.Matching.Validator.HalfWidth)
	assert.Equal(t, 350*time.Millisecond, cfg.Scan.SettleDelay)
	assert.Equal(t, ExpandConfig{Left: 400, Right: 600, Below: 100}, cfg.Scan.Expand)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "atlas-scout/observations", cfg.MQTT.Topic)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad yaml", "templates: [", "parsing config YAML"},
		{"empty scales", "templates:\n  scales: []", "templates.scales"},
		{"negative scale", "templates:\n  scales: [1, -1]", "templates.scales[1]"},
		{"threshold above one", "matching:\n  accept_threshold: 1.5", "matching.accept_threshold"},
		{"negative expand", "scan:\n  expand:\n    left: -1", "scan.expand"},
		{"mqtt without broker", "mqtt:\n  enabled: true", "mqtt.broker"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	in := Default()
	in.Scan.WindowTitle = "Test Window"
	require.NoError(t, Save(path, in))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestResolve(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "icons"), Resolve("data", "icons"))
	abs, err := filepath.Abs("icons")
	require.NoError(t, err)
	assert.Equal(t, abs, Resolve("data", abs))
	assert.Equal(t, "", Resolve("data", ""))
}
