package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	values map[string]string
	calls  int
}

func (f *fakeFetcher) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.calls++
	v, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, errors.New("SecretNotFound")
	}
	var resp azsecrets.GetSecretResponse
	resp.Value = &v
	return resp, nil
}

func TestVaultClient_CachesUntilExpiry(t *testing.T) {
	fetcher := &fakeFetcher{values: map[string]string{"staff-jwt-secret": "s3cret"}}
	client := newVaultClient(fetcher, &VaultConfig{VaultName: "kv", CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		v, err := client.GetSecret(context.Background(), "staff-jwt-secret")
		require.NoError(t, err)
		assert.Equal(t, "s3cret", v)
	}
	assert.Equal(t, 1, fetcher.calls)

	now = now.Add(2 * time.Minute)
	_, err := client.GetSecret(context.Background(), "staff-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)

	client.ClearCache()
	_, err = client.GetSecret(context.Background(), "staff-jwt-secret")
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls)
}

func TestVaultClient_MissingSecret(t *testing.T) {
	client := newVaultClient(&fakeFetcher{}, &VaultConfig{VaultName: "kv"}, zap.NewNop())

	_, err := client.GetSecret(context.Background(), "upstream-api-token")
	assert.ErrorContains(t, err, "upstream-api-token")
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, ""))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestProvider_Environment(t *testing.T) {
	p, err := NewProvider(&ProviderConfig{Source: SourceEnvironment}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	t.Setenv("UPSTREAM_TOKEN", "override")
	v, err := p.GetSecretOrEnv(context.Background(), "upstream-api-token", "UPSTREAM_TOKEN")
	require.NoError(t, err)
	assert.Equal(t, "override", v)

	_, err = p.GetSecret(context.Background(), "BLOOMHOUSE_UNSET_VARIABLE")
	assert.Error(t, err)
}

func TestNewProvider_VaultRequiresName(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Source: SourceVault}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewProvider_UnknownSource(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Source: "file"}, zap.NewNop())
	assert.ErrorContains(t, err, "unknown secret source")
}
