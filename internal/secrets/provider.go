// Package secrets resolves console credentials (upstream service token, staff token signing
// secret, database and storage credentials) from the environment or Azure Key Vault.
package secrets

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// SecretSource names where secrets come from
type SecretSource string

const (
	SourceEnvironment SecretSource = "environment"
	SourceVault       SecretSource = "vault"
	// SourceAuto picks the vault outside local development
	SourceAuto SecretSource = "auto"
)

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Provider looks secrets up by name in its configured source
type Provider struct {
	source SecretSource
	lookup func(ctx context.Context, name string) (string, error)
	logger *zap.Logger
}

// ResolveSource turns SourceAuto into a concrete source for the given environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "", "development", "local":
		return SourceEnvironment
	}
	return SourceVault
}

// NewProvider creates a provider. The vault source requires a vault name and Azure credentials.
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	p := &Provider{
		source: ResolveSource(cfg.Source, cfg.Environment),
		logger: logger,
	}

	switch p.source {
	case SourceEnvironment:
		p.lookup = lookupEnv
	case SourceVault:
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}
		vault, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		p.lookup = vault.GetSecret
	default:
		return nil, fmt.Errorf("unknown secret source: %s", p.source)
	}

	logger.Info("Secrets provider initialized",
		zap.String("source", string(p.source)),
		zap.String("environment", cfg.Environment),
	)
	return p, nil
}

// GetSecret returns a secret. For the environment source the name is the variable name.
func (p *Provider) GetSecret(ctx context.Context, name string) (string, error) {
	return p.lookup(ctx, name)
}

// GetSecretOrEnv prefers an explicitly set environment variable over the configured source
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if value := os.Getenv(envName); value != "" {
		p.logger.Debug("Using environment variable override", zap.String("env_name", envName))
		return value, nil
	}
	return p.lookup(ctx, secretName)
}

// Source returns the resolved secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled reports whether secrets come from Key Vault
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}

func lookupEnv(_ context.Context, name string) (string, error) {
	value, ok := os.LookupEnv(name)
	if !ok || value == "" {
		return "", fmt.Errorf("environment variable '%s' not set", name)
	}
	return value, nil
}
