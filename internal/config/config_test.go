package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func base() map[string]string {
	return map[string]string{
		"DATABASE_URL":    "postgres://bottle@localhost/bottle?sslmode=disable",
		"JWT_SECRET":      "secret",
		"ADMIN_SETUP_KEY": "setup",
	}
}

func TestParse_Defaults(t *testing.T) {
	cfg, err := parse(env.Options{Environment: base()})
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.StoreDriver)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Zero(t, cfg.OwnMessageEvery)
	assert.False(t, cfg.TrustProxy)
	assert.Equal(t, 10, cfg.Limits().ContentMin)
	assert.Equal(t, 500, cfg.Limits().ContentMax)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestParse_Overrides(t *testing.T) {
	vars := base()
	vars["HTTP_ADDR"] = "3000"
	vars["BASE_PATH"] = "bottles/"
	vars["KAFKA_BROKERS"] = "k1:9092,k2:9092"
	vars["CONTENT_MAX_LEN"] = "1000"

	cfg, err := parse(env.Options{Environment: vars})
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, "/bottles", cfg.BasePath)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 1000, cfg.Limits().ContentMax)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"Missing JWT secret", func(m map[string]string) { delete(m, "JWT_SECRET") }},
		{"Missing setup key", func(m map[string]string) { delete(m, "ADMIN_SETUP_KEY") }},
		{"Postgres without URL", func(m map[string]string) { delete(m, "DATABASE_URL") }},
		{"Unknown driver", func(m map[string]string) { m["STORE_DRIVER"] = "mongo" }},
		{"Inverted content bounds", func(m map[string]string) { m["CONTENT_MIN_LEN"] = "600" }},
		{"Bad duration", func(m map[string]string) { m["STORE_TIMEOUT"] = "soon" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := base()
			tt.mutate(vars)
			_, err := parse(env.Options{Environment: vars})
			assert.Error(t, err)
		})
	}
}

func TestParse_MemoryDriverNeedsNoDatabase(t *testing.T) {
	vars := base()
	delete(vars, "DATABASE_URL")
	vars["STORE_DRIVER"] = "memory"

	_, err := parse(env.Options{Environment: vars})
	assert.NoError(t, err)
}
