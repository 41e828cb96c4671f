package config

import (
	"fmt"

	"github.com/asaskevich/govalidator"
)

type Env string

const (
	EnvDev  Env = "dev"
	EnvUat  Env = "uat"
	EnvProd Env = "prod"
)

func (e Env) Valid() bool {
	switch e {
	case EnvDev, EnvUat, EnvProd:
		return true
	}
	return false
}

func EnvironmentNames() []string {
	return []string{string(EnvDev), string(EnvUat), string(EnvProd)}
}

// Defaults are the environment-keyed values the shell-era parameter files
// used to carry. A parameter file still overrides any of these.
type Defaults struct {
	ResourceGroup      string
	Location           string
	AddressSpace       string
	AppServiceSKU      string
	AppServiceTier     string
	AppServiceCapacity int
	SQLSKU             string
	SQLTier            string
	SQLMaxSizeGB       int
	StorageSKU         string
	GatewayCapacity    int
	LogRetentionDays   int
}

var environmentDefaults = map[Env]Defaults{
	EnvDev: {
		ResourceGroup:      "rg-reportal-dev",
		Location:           "norwayeast",
		AddressSpace:       "10.10.0.0/16",
		AppServiceSKU:      "B1",
		AppServiceTier:     "Basic",
		AppServiceCapacity: 1,
		SQLSKU:             "S0",
		SQLTier:            "Standard",
		SQLMaxSizeGB:       50,
		StorageSKU:         "Standard_LRS",
		GatewayCapacity:    1,
		LogRetentionDays:   30,
	},
	EnvUat: {
		ResourceGroup:      "rg-reportal-uat",
		Location:           "norwayeast",
		AddressSpace:       "10.20.0.0/16",
		AppServiceSKU:      "P1v3",
		AppServiceTier:     "PremiumV3",
		AppServiceCapacity: 1,
		SQLSKU:             "S1",
		SQLTier:            "Standard",
		SQLMaxSizeGB:       100,
		StorageSKU:         "Standard_LRS",
		GatewayCapacity:    1,
		LogRetentionDays:   30,
	},
	EnvProd: {
		ResourceGroup:      "rg-reportal-prod",
		Location:           "norwayeast",
		AddressSpace:       "10.30.0.0/16",
		AppServiceSKU:      "P1v3",
		AppServiceTier:     "PremiumV3",
		AppServiceCapacity: 2,
		SQLSKU:             "S3",
		SQLTier:            "Standard",
		SQLMaxSizeGB:       250,
		StorageSKU:         "Standard_GRS",
		GatewayCapacity:    2,
		LogRetentionDays:   90,
	},
}

func (e Env) Defaults() Defaults {
	return environmentDefaults[e]
}

func (c *Config) Env() Env {
	return Env(c.Environment)
}

// complete fills unset options from the environment's defaults.
// Callers must still Validate; an unknown environment has zero-value defaults.
func (c *Config) complete() {
	defaults := c.Env().Defaults()

	if len(c.ResourceGroup) == 0 {
		c.ResourceGroup = defaults.ResourceGroup
	}
	if len(c.Location) == 0 {
		c.Location = defaults.Location
	}
	if len(c.KeyVault) == 0 && c.Env().Valid() {
		c.KeyVault = fmt.Sprintf("%s-%s-kv", c.NamePrefix, c.Environment)
	}
}

func isUUID(s string) bool {
	return govalidator.IsUUID(s)
}
