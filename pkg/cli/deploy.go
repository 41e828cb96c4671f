package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reportal/deployator/pkg/deploy"
	"github.com/reportal/deployator/pkg/stack"
)

func NewDeployCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "deploy [module...]",
		Short:     "Deploy stack modules, or the full stack in dependency order",
		ValidArgs: stack.ModuleNames(),
		RunE:      runDeploy,
	}
}

func runDeploy(cmd *cobra.Command, args []string) error {
	cfg, azureClient, err := setup()
	if err != nil {
		return err
	}

	parameterFile, err := loadParameterFile(cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	tx := deploy.NewTransaction(ctx, cfg, parameterFile)
	return deploy.New(azureClient, cfg).Deploy(tx, args)
}
