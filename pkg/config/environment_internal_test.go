package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplete(t *testing.T) {
	t.Run("unset options fall back to the environment's defaults", func(t *testing.T) {
		cfg := Config{Environment: "uat", NamePrefix: "reportal"}
		cfg.complete()

		assert.Equal(t, "rg-reportal-uat", cfg.ResourceGroup)
		assert.Equal(t, "norwayeast", cfg.Location)
		assert.Equal(t, "reportal-uat-kv", cfg.KeyVault)
	})

	t.Run("explicit options are left alone", func(t *testing.T) {
		cfg := Config{
			Environment:   "uat",
			NamePrefix:    "reportal",
			ResourceGroup: "rg-custom",
			Location:      "westeurope",
			KeyVault:      "custom-kv",
		}
		cfg.complete()

		assert.Equal(t, "rg-custom", cfg.ResourceGroup)
		assert.Equal(t, "westeurope", cfg.Location)
		assert.Equal(t, "custom-kv", cfg.KeyVault)
	})

	t.Run("unknown environment completes to nothing, Validate catches it", func(t *testing.T) {
		cfg := Config{Environment: "staging", NamePrefix: "reportal"}
		cfg.complete()

		assert.Empty(t, cfg.ResourceGroup)
		assert.Empty(t, cfg.KeyVault)
	})
}
