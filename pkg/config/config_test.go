package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/config"
)

func TestNew(t *testing.T) {
	cfg, err := config.New()
	require.NoError(t, err)

	assert.Equal(t, "reportal", cfg.NamePrefix)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Environment)
}

func validConfig() config.Config {
	return config.Config{
		Environment:  "dev",
		Subscription: "b07ae1e6-05a4-4455-91f3-2d0b0f54d3a3",
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("environment is required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = ""

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--environment")
	})

	t.Run("unknown environment is rejected", func(t *testing.T) {
		cfg := validConfig()
		cfg.Environment = "staging"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid environment")
		assert.Contains(t, err.Error(), "dev, uat, prod")
	})

	t.Run("subscription is required", func(t *testing.T) {
		cfg := validConfig()
		cfg.Subscription = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("subscription must be a uuid", func(t *testing.T) {
		cfg := validConfig()
		cfg.Subscription = "my-subscription"

		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a valid subscription ID")
	})
}

func TestEnv(t *testing.T) {
	for _, name := range config.EnvironmentNames() {
		assert.True(t, config.Env(name).Valid(), name)
	}
	assert.False(t, config.Env("staging").Valid())
	assert.False(t, config.Env("").Valid())
}

func TestDefaults(t *testing.T) {
	t.Run("every environment carries a full set", func(t *testing.T) {
		for _, env := range []config.Env{config.EnvDev, config.EnvUat, config.EnvProd} {
			defaults := env.Defaults()
			assert.NotEmpty(t, defaults.ResourceGroup, env)
			assert.NotEmpty(t, defaults.Location, env)
			assert.NotEmpty(t, defaults.AddressSpace, env)
			assert.NotEmpty(t, defaults.AppServiceSKU, env)
			assert.NotEmpty(t, defaults.SQLSKU, env)
			assert.NotEmpty(t, defaults.StorageSKU, env)
			assert.Positive(t, defaults.GatewayCapacity, env)
			assert.Positive(t, defaults.LogRetentionDays, env)
		}
	})

	t.Run("address spaces do not overlap between environments", func(t *testing.T) {
		seen := map[string]config.Env{}
		for _, env := range []config.Env{config.EnvDev, config.EnvUat, config.EnvProd} {
			space := env.Defaults().AddressSpace
			other, dup := seen[space]
			assert.False(t, dup, "%s and %s share address space %s", env, other, space)
			seen[space] = env
		}
	})

	t.Run("prod is sized up from dev", func(t *testing.T) {
		dev := config.EnvDev.Defaults()
		prod := config.EnvProd.Defaults()
		assert.Greater(t, prod.SQLMaxSizeGB, dev.SQLMaxSizeGB)
		assert.GreaterOrEqual(t, prod.AppServiceCapacity, dev.AppServiceCapacity)
		assert.Greater(t, prod.LogRetentionDays, dev.LogRetentionDays)
	})
}
