package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "clamir", cfg.DeviceName)
	assert.Equal(t, "192.168.1.77", cfg.DeviceAddr)
	assert.Equal(t, 4000, cfg.DeviceCommandPort)
	assert.Equal(t, 4001, cfg.DeviceImagePort)
	assert.Equal(t, 5*time.Second, cfg.DeviceDialTimeout)
	assert.False(t, cfg.LegacySharedState)
	assert.Empty(t, cfg.ConfigFile)
	assert.False(t, cfg.DatabaseEnabled())
	assert.False(t, cfg.MqttEnabled())
	assert.False(t, cfg.NatsEnabled())
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := writeEnvFile(t, "CLAMIR_ADDR=10.0.0.5\nLEGACY_SHARED_STATE=true\nCLAMIR_DIAL_TIMEOUT=250ms\nMQTT_BROKER=tcp://broker:1883\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.5", cfg.DeviceAddr)
	assert.True(t, cfg.LegacySharedState)
	assert.Equal(t, 250*time.Millisecond, cfg.DeviceDialTimeout)
	assert.Equal(t, path, cfg.ConfigFile)
	assert.True(t, cfg.MqttEnabled())
}

func TestLoadConfig_EnvironmentOverridesFile(t *testing.T) {
	path := writeEnvFile(t, "CLAMIR_ADDR=10.0.0.5\n")
	t.Setenv("CLAMIR_ADDR", "10.9.9.9")
	t.Setenv("NATS_URL", "nats://localhost:4222")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "10.9.9.9", cfg.DeviceAddr)
	assert.True(t, cfg.NatsEnabled())
}

func TestLoadConfig_PartialDatabase(t *testing.T) {
	path := writeEnvFile(t, "DB_HOST=localhost\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_USER and DB_NAME")
}

func TestLoadConfig_BadDuration(t *testing.T) {
	path := writeEnvFile(t, "CLAMIR_DIAL_TIMEOUT=soon\n")

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{DeviceAddr: "h", DeviceCommandPort: 1, DeviceImagePort: 2}, false},
		{"no address", Config{DeviceCommandPort: 1, DeviceImagePort: 2}, true},
		{"zero port", Config{DeviceAddr: "h", DeviceImagePort: 2}, true},
		{"full database", Config{DeviceAddr: "h", DeviceCommandPort: 1, DeviceImagePort: 2, DBHost: "db", DBUser: "u", DBName: "n"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
