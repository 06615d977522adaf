package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("STORE_DRIVER", StoreMemory)
	t.Setenv("JWT_SECRET_KEY", "test-secret")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "UTC", cfg.App.Timezone)
	assert.InDelta(t, 10.0, cfg.Planning.LegalDailyHours, 0.0001)
	assert.Equal(t, 480, cfg.Planning.OvertimeReferenceMinutes)
	assert.Equal(t, 420, cfg.Planning.TrainingDayMinutes)
	assert.Equal(t, 16*time.Hour, cfg.Planning.StaleSessionAfter())
	assert.Equal(t, time.Hour, cfg.Planning.NoShowGrace())
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LEGAL_DAILY_HOURS", "8.5")
	t.Setenv("TIMEZONE", "Europe/Paris")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.InDelta(t, 8.5, cfg.Planning.LegalDailyHours, 0.0001)
	assert.Equal(t, "Europe/Paris", cfg.Location().String())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, "DEBUG", cfg.SlogLevel().String())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"bad port", "APP_PORT", "eighty"},
		{"unknown store", "STORE_DRIVER", "mongo"},
		{"legal hours out of range", "LEGAL_DAILY_HOURS", "30"},
		{"bad timezone", "TIMEZONE", "Mars/Olympus"},
		{"negative grace", "NO_SHOW_GRACE_MINUTES", "-5"},
		{"zero stale hours", "STALE_SESSION_HOURS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_PostgresNeedsPassword(t *testing.T) {
	setRequired(t)
	t.Setenv("STORE_DRIVER", StorePostgres)
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}
