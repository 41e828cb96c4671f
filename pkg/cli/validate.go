package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/reportal/deployator/pkg/deploy"
	"github.com/reportal/deployator/pkg/stack"
)

func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "validate [module...]",
		Short:     "Run ARM validation for stack modules without deploying",
		ValidArgs: stack.ModuleNames(),
		RunE:      runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
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
	return deploy.New(azureClient, cfg).Validate(tx, args)
}
