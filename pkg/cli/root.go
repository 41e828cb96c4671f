// Package cli wires the subcommands. Flag registration lives in pkg/config;
// the root command adopts that flag set so every subcommand shares it.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"

	"github.com/reportal/deployator/pkg/arm"
	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/azure/client"
	"github.com/reportal/deployator/pkg/config"
	"github.com/reportal/deployator/pkg/logger"
	"github.com/reportal/deployator/pkg/metrics"
)

func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "deployator",
		Short:         "Deploys the reporting application's Azure infrastructure",
		Long:          "deployator validates, deploys, and tears down the reporting application's Azure resources: network, storage, database, monitoring, app services, application gateway, and role assignments.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().AddFlagSet(flag.CommandLine)

	cmd.AddCommand(
		NewDeployCommand(),
		NewValidateCommand(),
		NewDestroyCommand(),
		NewSecretCommand(),
		NewOutputsCommand(),
	)
	return cmd
}

// setup resolves and validates configuration, then builds the ARM client.
// Configuration errors surface before any provider call is possible.
func setup() (*config.Config, azure.Client, error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger.Setup(cfg.Debug)
	config.Print(nil)

	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	metrics.Serve(cfg.MetricsAddress)

	azureClient, err := client.New(cfg.Subscription)
	if err != nil {
		return nil, nil, err
	}
	return cfg, azureClient, nil
}

// loadParameterFile loads the override file. An explicitly given path must
// exist; the conventional parameters.<env>.json is picked up when present.
func loadParameterFile(cfg *config.Config) (*arm.ParameterFile, error) {
	path := cfg.Parameters
	if len(path) == 0 {
		path = fmt.Sprintf("parameters.%s.json", cfg.Environment)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
	}
	return arm.LoadParameterFile(path)
}
