package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("SERVER_PORT")
	os.Unsetenv("REDIS_HOST")
	os.Unsetenv("GENERATOR_PATIENTS")

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.Server.ServerAddr())
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 3, cfg.Generator.Patients)
	assert.Equal(t, 3, cfg.Generator.MinResources)
	assert.Equal(t, 6, cfg.Generator.MaxResources)
	assert.Equal(t, "ehr-document-pipeline", cfg.OTEL.ServiceName)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	os.Setenv("SERVER_PORT", "9090")
	os.Setenv("GENERATOR_PATIENTS", "8")
	os.Setenv("REDIS_ENABLED", "true")
	defer func() {
		os.Unsetenv("SERVER_PORT")
		os.Unsetenv("GENERATOR_PATIENTS")
		os.Unsetenv("REDIS_ENABLED")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Generator.Patients)
	assert.True(t, cfg.Redis.Enabled)
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	os.Setenv("SERVER_PORT", "not-a-port")
	defer os.Unsetenv("SERVER_PORT")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}
