package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_PORT", "")
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "grievance-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 7*24*time.Hour, cfg.Escalation.StaleAfter())
	assert.Equal(t, time.Hour, cfg.Escalation.SweepInterval())
	assert.Equal(t, 12, cfg.Auth.BcryptCost)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("POSTGRES_MAX_CONNS", "25")
	t.Setenv("ESCALATION_STALE_DAYS", "10")
	t.Setenv("REDIS_STATS_TTL_SECONDS", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, int32(25), cfg.Postgres.MaxConns)
	assert.Equal(t, 10*24*time.Hour, cfg.Escalation.StaleAfter())
	assert.Equal(t, time.Duration(0), cfg.Redis.StatsTTL())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     map[string]any
		wantErr bool
	}{
		{name: "defaults", set: nil},
		{name: "empty secret", set: map[string]any{"AUTH_JWT_SECRET": ""}, wantErr: true},
		{name: "dev secret in production", set: map[string]any{"APP_ENV": "production"}, wantErr: true},
		{name: "production with secret", set: map[string]any{"APP_ENV": "production", "AUTH_JWT_SECRET": "s3cret"}},
		{name: "negative stale days", set: map[string]any{"ESCALATION_STALE_DAYS": -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for key, val := range defaults {
				v.SetDefault(key, val)
			}
			for key, val := range tt.set {
				v.Set(key, val)
			}
			err := FromViper(v).Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
