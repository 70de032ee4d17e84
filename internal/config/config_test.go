package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, 8*time.Hour, cfg.JWT.AccessTokenExpiry)
	require.Equal(t, 5, cfg.Auth.MaxFailedLogins)
	require.Empty(t, cfg.Kafka.Brokers)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
}

func TestParse_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("AUTH_LOCK_DURATION", "1h")
	t.Setenv("DB_NAME", "payroll")

	cfg, err := Parse()
	require.NoError(t, err)

	require.Equal(t, "9000", cfg.Server.Port)
	require.True(t, cfg.IsProduction())
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	require.Equal(t, time.Hour, cfg.Auth.LockDuration)
	require.Contains(t, cfg.Database.DSN(), "dbname=payroll")
}

func TestParse_RejectsInvalid(t *testing.T) {
	t.Setenv("AUTH_MAX_FAILED_LOGINS", "0")

	_, err := Parse()
	require.Error(t, err)

	t.Setenv("AUTH_MAX_FAILED_LOGINS", "five")
	_, err = Parse()
	require.Error(t, err)
}
