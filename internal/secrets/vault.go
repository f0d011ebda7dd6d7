package secrets

import (
	"cmp"
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

const defaultCacheTTL = 5 * time.Minute

// secretFetcher is the slice of *azsecrets.Client used here
type secretFetcher interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// VaultConfig selects the Key Vault and how long values stay memoized
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// VaultClient resolves secret names against Azure Key Vault. With caching on, each name
// is fetched at most once per TTL.
type VaultClient struct {
	fetcher secretFetcher
	log     *zap.Logger
	ttl     time.Duration // zero disables the cache
	now     func() time.Time

	mu      sync.RWMutex
	entries map[string]vaultEntry
}

type vaultEntry struct {
	value string
	until time.Time
}

// NewVaultClient signs in with DefaultAzureCredential, which covers workload identity,
// managed identity and a local az login.
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("key vault name is empty")
	}

	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}
	endpoint := "https://" + cfg.VaultName + ".vault.azure.net/"
	fetcher, err := azsecrets.NewClient(endpoint, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("key vault client for %s: %w", endpoint, err)
	}

	logger.Info("Key Vault secrets enabled",
		zap.String("endpoint", endpoint),
		zap.Bool("cached", cfg.CacheEnabled))
	return newVaultClient(fetcher, cfg, logger), nil
}

func newVaultClient(fetcher secretFetcher, cfg *VaultConfig, logger *zap.Logger) *VaultClient {
	c := &VaultClient{
		fetcher: fetcher,
		log:     logger.With(zap.String("vault", cfg.VaultName)),
		now:     time.Now,
		entries: map[string]vaultEntry{},
	}
	if cfg.CacheEnabled {
		c.ttl = cmp.Or(cfg.CacheTTL, defaultCacheTTL)
	}
	return c
}

// GetSecret returns the current version of a secret
func (c *VaultClient) GetSecret(ctx context.Context, name string) (string, error) {
	if c.ttl > 0 {
		c.mu.RLock()
		e, hit := c.entries[name]
		c.mu.RUnlock()
		if hit && c.now().Before(e.until) {
			return e.value, nil
		}
	}

	resp, err := c.fetcher.GetSecret(ctx, name, "", nil)
	if err != nil {
		c.log.Error("Key Vault lookup failed", zap.String("secret", name), zap.Error(err))
		return "", fmt.Errorf("secret %q: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %q is empty", name)
	}

	if c.ttl > 0 {
		c.mu.Lock()
		c.entries[name] = vaultEntry{value: *resp.Value, until: c.now().Add(c.ttl)}
		c.mu.Unlock()
	}
	return *resp.Value, nil
}

// ClearCache forgets every memoized value
func (c *VaultClient) ClearCache() {
	c.mu.Lock()
	clear(c.entries)
	c.mu.Unlock()
}
