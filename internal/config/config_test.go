package config

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, "INR", cfg.Console.Currency)
	assert.Equal(t, "₹", cfg.Console.CurrencySymbol)
	assert.Equal(t, "admin", cfg.Auth.AdminRole)
	assert.Equal(t, 1200, cfg.Imaging.MaxWidth)
	assert.Equal(t, 40000000, cfg.Imaging.MaxPixels)
	assert.Equal(t, 15*time.Second, cfg.Upstream.TimeoutDuration())
	assert.Equal(t, 180*24*time.Hour, cfg.Jobs.AuditRetention())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("STAFF_JWT_SECRET", "shh")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.App.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "shh", cfg.Auth.JWTSecret)
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	d := &DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "console", SSLMode: "require"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=console sslmode=require", d.ConnectionString())
}

type mapSource map[string]string

func (m mapSource) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if v, ok := m[secretName]; ok {
		return v, nil
	}
	return "", errors.New("not found")
}

func TestApplySecrets(t *testing.T) {
	cfg := &Config{}
	cfg.Database.Password = "from-config"
	cfg.Database.User = "console_user"

	applySecrets(context.Background(), cfg, mapSource{
		"upstream-api-token":  "svc-token",
		"staff-jwt-secret":    "jwt-secret",
		"console-db-password": "vault-password",
	})

	assert.Equal(t, "svc-token", cfg.Upstream.Token)
	assert.Equal(t, "jwt-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "vault-password", cfg.Database.Password)
	// missing secrets keep the loaded value
	assert.Equal(t, "console_user", cfg.Database.User)
}
