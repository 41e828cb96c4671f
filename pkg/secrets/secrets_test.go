package secrets_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/azure/fake"
	"github.com/reportal/deployator/pkg/config"
	"github.com/reportal/deployator/pkg/secrets"
)

func testConfig() *config.Config {
	return &config.Config{
		Environment:   "dev",
		ResourceGroup: "rg-reportal-dev",
		KeyVault:      "reportal-dev-kv",
	}
}

func TestSet(t *testing.T) {
	t.Run("provisions the secret with environment tags", func(t *testing.T) {
		azureClient := fake.NewAzureClient()

		err := secrets.NewProvisioner(azureClient, testConfig()).
			Set(context.Background(), secrets.SQLAdminPasswordSecret, "Sommer2026!")
		require.NoError(t, err)

		assert.Equal(t, "Sommer2026!", azureClient.Secrets[secrets.SQLAdminPasswordSecret])
		assert.Equal(t, "reportal-dev-kv", azureClient.VaultName)
	})

	t.Run("values violating the policy are rejected", func(t *testing.T) {
		azureClient := fake.NewAzureClient()

		err := secrets.NewProvisioner(azureClient, testConfig()).
			Set(context.Background(), secrets.SQLAdminPasswordSecret, "weak")
		require.Error(t, err)
		assert.Empty(t, azureClient.Mutations)
	})

	t.Run("dry run resolves the vault but writes nothing", func(t *testing.T) {
		azureClient := fake.NewAzureClient()
		cfg := testConfig()
		cfg.DryRun = true

		err := secrets.NewProvisioner(azureClient, cfg).
			Set(context.Background(), secrets.SQLAdminPasswordSecret, "Sommer2026!")
		require.NoError(t, err)
		assert.Empty(t, azureClient.Mutations)
		assert.Empty(t, azureClient.Secrets)
	})
}
