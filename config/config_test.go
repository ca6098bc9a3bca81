package config_test

import (
	"testing"

	"Excusas/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()
	cfg := &config.Config{}
	cmd := config.NewCommand(cfg, func(*cobra.Command, *config.Config) error { return nil })
	cmd.SetArgs(args)
	return cfg, cmd.Execute()
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	t.Setenv("PORT", "8081")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("DATABASE_DRIVER", "sqlite")

	cfg, err := execute(t)
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Port)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, config.DriverSQLite, cfg.DatabaseDriver)
	assert.Equal(t, "gemini-2.0-flash-exp", cfg.Gemini.TextModel)
}

func TestFlagsWinOverEnvironment(t *testing.T) {
	t.Setenv("PORT", "8081")

	cfg, err := execute(t, "--port", "9090")
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"defaults", nil, false},
		{"bad port", []string{"--port", "70000"}, true},
		{"https without cert", []string{"--use-https"}, true},
		{"unknown driver", []string{"--database-driver", "mongo"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
