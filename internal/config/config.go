package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/bloomhouse/admin-console/internal/secrets"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the console configuration, read from config.json, .env and the environment
type Config struct {
	App       AppConfig
	Upstream  UpstreamConfig
	Auth      AuthConfig
	Database  DatabaseConfig
	ApiKey    ApiKeyConfig
	Storage   StorageConfig
	Imaging   ImagingConfig
	Console   ConsoleConfig
	Jobs      JobsConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

// UpstreamConfig points the console at the business API that owns all records
type UpstreamConfig struct {
	BaseURL string
	// Token is an optional service token sent when no staff token is present
	Token string
	// Timeout is the per-request timeout in seconds
	Timeout int
	// HealthPath is probed by the readiness check
	HealthPath string
}

// AuthConfig holds staff token verification settings
type AuthConfig struct {
	// JWTSecret is the HMAC secret shared with the upstream API that issues staff tokens
	JWTSecret string
	// Issuer is checked against the iss claim when set
	Issuer string
	// AdminRole is the role required for destructive operations
	AdminRole string
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver          string
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	AutoMigrate     bool
}

type ApiKeyConfig struct {
	SecretName string
	Value      string
}

type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
}

// ImagingConfig controls how uploaded images are prepared before they are sent upstream
type ImagingConfig struct {
	MaxWidth         int
	MaxPixels        int
	Quality          int
	KeepPNG          bool
	ArchiveOriginals bool
}

// ConsoleConfig holds display settings used by formatting helpers
type ConsoleConfig struct {
	Currency       string
	CurrencySymbol string
	DateLayout     string
	Timezone       string
}

// JobsConfig holds background job settings
type JobsConfig struct {
	AuditRetentionEnabled bool
	AuditRetentionCron    string
	AuditRetentionDays    int
	JobTimeout            int
}

type SecretsConfig struct {
	// Source is "environment", "vault" or "auto"; auto picks vault outside development
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
	// File enables a rotating JSON log file in addition to stdout
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig lists who may call the console from a browser
type CORSConfig struct {
	// AllowedOrigins may hold "*", which outside development only logs a warning
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig feeds the response security headers
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig caps requests per minute per caller
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute applies per address before sign-in
	RequestsPerMinute int
	// RequestsPerMinuteAuth applies per staff member
	RequestsPerMinuteAuth int
	// LoginAttemptsPerMinute caps sign-in attempts per address
	LoginAttemptsPerMinute int
	WhitelistIPs           []string
	WhitelistPaths         []string
}

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// ConnectionString is the lib/pq keyword DSN
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration { return seconds(d.ConnMaxLifetime) }
func (u *UpstreamConfig) TimeoutDuration() time.Duration         { return seconds(u.Timeout) }
func (s *ServerConfig) ReadTimeoutDuration() time.Duration       { return seconds(s.ReadTimeout) }
func (s *ServerConfig) WriteTimeoutDuration() time.Duration      { return seconds(s.WriteTimeout) }
func (s *ServerConfig) RequestTimeoutDuration() time.Duration    { return seconds(s.RequestTimeout) }
func (j *JobsConfig) JobTimeoutDuration() time.Duration          { return seconds(j.JobTimeout) }

// AuditRetention is how long audit entries survive the nightly purge
func (j *JobsConfig) AuditRetention() time.Duration {
	return time.Duration(j.AuditRetentionDays) * 24 * time.Hour
}

// envFallbacks fill values viper cannot map from a flat variable name
var envFallbacks = []struct {
	env    string
	target func(*Config) *string
}{
	{"ADMIN_API_KEY", func(c *Config) *string { return &c.ApiKey.Value }},
	{"UPSTREAM_BASE_URL", func(c *Config) *string { return &c.Upstream.BaseURL }},
	{"UPSTREAM_TOKEN", func(c *Config) *string { return &c.Upstream.Token }},
	{"STAFF_JWT_SECRET", func(c *Config) *string { return &c.Auth.JWTSecret }},
	{"AZURE_KEY_VAULT_NAME", func(c *Config) *string { return &c.Secrets.KeyVaultName }},
}

// Load reads defaults, an optional config.json (./ or ./config/), .env and the environment,
// in rising precedence. Secrets stay as found; see LoadWithSecrets.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var missing viper.ConfigFileNotFoundError
		if !errors.As(err, &missing) {
			return nil, fmt.Errorf("config file: %w", err)
		}
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	for _, f := range envFallbacks {
		if p := f.target(cfg); *p == "" {
			*p = v.GetString(f.env)
		}
	}
	return cfg, nil
}

// LoadWithSecrets is Load plus a Key Vault overlay. The vault is consulted only when
// USE_AZURE_KEY_VAULT=true in staging or production.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	env := zap.String("environment", cfg.App.Environment)

	if !strings.EqualFold(os.Getenv("USE_AZURE_KEY_VAULT"), "true") {
		logger.Info("Secrets read from the environment", env)
		return cfg, nil
	}
	if cfg.App.Environment != "staging" && cfg.App.Environment != "production" {
		logger.Warn("USE_AZURE_KEY_VAULT ignored outside staging and production", env)
		return cfg, nil
	}
	if cfg.Secrets.KeyVaultName == "" {
		return nil, errors.New("USE_AZURE_KEY_VAULT=true needs AZURE_KEY_VAULT_NAME")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     seconds(cfg.Secrets.CacheTTL),
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("key vault %s: %w", cfg.Secrets.KeyVaultName, err)
	}

	applySecrets(ctx, cfg, provider)
	logger.Info("Secrets overlaid from Key Vault", env, zap.String("vault", cfg.Secrets.KeyVaultName))
	return cfg, nil
}

// SecretSource resolves a vault secret, letting an environment variable win
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// applySecrets overwrites fields whose secret resolves to a non-empty value
func applySecrets(ctx context.Context, cfg *Config, src SecretSource) {
	for _, s := range []struct {
		target        *string
		secret, envar string
	}{
		{&cfg.Upstream.Token, "upstream-api-token", "UPSTREAM_TOKEN"},
		{&cfg.Auth.JWTSecret, "staff-jwt-secret", "STAFF_JWT_SECRET"},
		{&cfg.ApiKey.Value, "admin-api-key", "ADMIN_API_KEY"},
		{&cfg.Database.Host, "console-db-host", "DATABASE_HOST"},
		{&cfg.Database.User, "console-db-user", "DATABASE_USER"},
		{&cfg.Database.Password, "console-db-password", "DATABASE_PASSWORD"},
		{&cfg.Storage.CloudConnectionString, "storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING"},
	} {
		if value, err := src.GetSecretOrEnv(ctx, s.secret, s.envar); err == nil && value != "" {
			*s.target = value
		}
	}
}

var defaults = map[string]any{
	"app.name":        "Bloomhouse Admin Console",
	"app.environment": "development",
	"app.port":        8080,

	"upstream.baseURL":    "http://localhost:5000",
	"upstream.timeout":    15,
	"upstream.healthPath": "/api/health",

	"auth.adminRole": "admin",

	"database.driver":          "postgres",
	"database.host":            "localhost",
	"database.port":            5432,
	"database.name":            "console",
	"database.user":            "console",
	"database.password":        "console",
	"database.sslMode":         "disable",
	"database.sqlitePath":      "./console.db",
	"database.maxOpenConns":    10,
	"database.maxIdleConns":    2,
	"database.connMaxLifetime": 300,
	"database.autoMigrate":     false,

	"secrets.source":       "auto",
	"secrets.cacheEnabled": true,
	"secrets.cacheTTL":     300,

	"storage.mode":            "local",
	"storage.localBasePath":   "./storage",
	"storage.cloudContainer":  "console-uploads",
	"storage.maxUploadSizeMB": 10,

	"imaging.maxWidth":         1200,
	"imaging.maxPixels":        40000000,
	"imaging.quality":          80,
	"imaging.keepPNG":          false,
	"imaging.archiveOriginals": false,

	"console.currency":       "INR",
	"console.currencySymbol": "₹",
	"console.dateLayout":     "02 Jan 2006",
	"console.timezone":       "UTC",

	"jobs.auditRetentionEnabled": true,
	"jobs.auditRetentionCron":    "0 30 3 * * *",
	"jobs.auditRetentionDays":    180,
	"jobs.jobTimeout":            300,

	"logging.level":      "info",
	"logging.format":     "console",
	"logging.maxSizeMB":  64,
	"logging.maxBackups": 7,
	"logging.maxAgeDays": 7,

	"server.readTimeout":    30,
	"server.writeTimeout":   60,
	"server.requestTimeout": 60,
	"server.enableSwagger":  true,

	"cors.allowedOrigins":   []string{},
	"cors.allowedMethods":   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
	"cors.allowedHeaders":   []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"},
	"cors.exposedHeaders":   []string{"Location", "X-Request-ID", "Content-Disposition"},
	"cors.allowCredentials": true,
	"cors.maxAge":           300,

	"security.enableHSTS":            false,
	"security.hstsMaxAge":            31536000,
	"security.hstsIncludeSubdomains": true,
	"security.hstsPreload":           false,
	"security.contentSecurityPolicy": "default-src 'self'; img-src 'self' data:",
	"security.frameOptions":          "DENY",
	"security.contentTypeNosniff":    true,
	"security.xssProtection":         "1; mode=block",
	"security.referrerPolicy":        "strict-origin-when-cross-origin",
	"security.permissionsPolicy":     "geolocation=(), microphone=(), camera=()",

	"rateLimit.enabled":                true,
	"rateLimit.requestsPerMinute":      60,
	"rateLimit.requestsPerMinuteAuth":  240,
	"rateLimit.loginAttemptsPerMinute": 10,
	"rateLimit.whitelistIPs":           []string{"127.0.0.1", "::1"},
	"rateLimit.whitelistPaths":         []string{"/health", "/health/db", "/health/ready"},
}
