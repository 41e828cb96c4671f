package config

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	log "github.com/sirupsen/logrus"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Environment    string        `json:"environment"`
	ResourceGroup  string        `json:"resource-group"`
	Subscription   string        `json:"subscription"`
	Location       string        `json:"location"`
	KeyVault       string        `json:"key-vault"`
	NamePrefix     string        `json:"name-prefix"`
	Parameters     string        `json:"parameters"`
	Yes            bool          `json:"yes"`
	DryRun         bool          `json:"dry-run"`
	Timeout        time.Duration `json:"timeout"`
	MetricsAddress string        `json:"metrics-address"`
	Debug          bool          `json:"debug"`
}

// Configuration options
const (
	Environment    = "environment"
	ResourceGroup  = "resource-group"
	Subscription   = "subscription"
	Location       = "location"
	KeyVault       = "key-vault"
	NamePrefix     = "name-prefix"
	Parameters     = "parameters"
	Yes            = "yes"
	DryRun         = "dry-run"
	Timeout        = "timeout"
	MetricsAddress = "metrics-address"
	DebugEnabled   = "debug"
)

func init() {
	// Automatically read configuration options from environment variables.
	// e.g. --resource-group will be configurable using DEPLOYATOR_RESOURCE_GROUP.
	viper.SetEnvPrefix("DEPLOYATOR")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Read configuration file from working directory and/or /etc.
	// File formats supported include JSON, TOML, YAML, HCL, envfile and Java properties config files
	viper.SetConfigName("deployator")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/deployator")

	flag.StringP(Environment, "e", "", fmt.Sprintf("Target environment. One of: %s", strings.Join(EnvironmentNames(), ", ")))
	flag.StringP(ResourceGroup, "g", "", "Resource group to deploy into. Defaults to the environment's resource group")
	flag.StringP(Subscription, "s", "", "Azure subscription ID")
	flag.StringP(Location, "l", "", "Azure region. Defaults to the environment's region")
	flag.String(KeyVault, "", "Key Vault holding deployment secrets. Defaults to the environment's vault")
	flag.String(NamePrefix, "reportal", "Prefix for all generated resource names")
	flag.String(Parameters, "", "Path to an ARM parameter file (parameters.<env>.json). Overrides environment defaults")

	flag.BoolP(Yes, "y", false, "Skip confirmation prompts")
	flag.BoolP(DryRun, "d", false, "Validate only; never issue resource-mutating calls")

	flag.Duration(Timeout, 30*time.Minute, "Upper bound for any single deployment operation")
	flag.String(MetricsAddress, "", "If set, serve Prometheus metrics on this address for the duration of the run")
	flag.Bool(DebugEnabled, false, "Debug mode toggle")
}

// Print out all configuration options except secret stuff.
func Print(redacted []string) {
	ok := func(key string) bool {
		for _, forbiddenKey := range redacted {
			if forbiddenKey == key {
				return false
			}
		}
		return true
	}

	var keys sort.StringSlice = viper.AllKeys()

	keys.Sort()
	for _, key := range keys {
		if ok(key) {
			log.Debugf("%s: %s", key, viper.GetString(key))
		} else {
			log.Debugf("%s: ***REDACTED***", key)
		}
	}
}

func (c Config) Validate() error {
	if len(c.Environment) == 0 {
		return fmt.Errorf("required flag --%s is not set", Environment)
	}
	if !Env(c.Environment).Valid() {
		return fmt.Errorf("invalid environment %q, must be one of: %s", c.Environment, strings.Join(EnvironmentNames(), ", "))
	}
	if len(c.Subscription) == 0 {
		return fmt.Errorf("required flag --%s is not set", Subscription)
	}
	if !isUUID(c.Subscription) {
		return fmt.Errorf("subscription %q is not a valid subscription ID", c.Subscription)
	}
	return nil
}

func decoderHook(dc *mapstructure.DecoderConfig) {
	dc.TagName = "json"
	dc.ErrorUnused = true
}

func New() (*Config, error) {
	var err error
	var cfg Config

	err = viper.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	err = viper.BindPFlags(flag.CommandLine)
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&cfg, decoderHook)
	if err != nil {
		return nil, err
	}

	cfg.complete()

	return &cfg, nil
}
