package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reportal/deployator/pkg/cleanup"
	"github.com/reportal/deployator/pkg/deploy"
)

func NewDestroyCommand() *cobra.Command {
	var deleteResourceGroup bool

	cmd := &cobra.Command{
		Use:   "destroy",
		Short: "Delete deployed resources, best-effort and in dependency order",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDestroy(cmd, deleteResourceGroup)
		},
	}

	cmd.Flags().BoolVar(&deleteResourceGroup, "delete-resource-group", false,
		"Also delete the resource group itself once emptied")
	return cmd
}

func runDestroy(cmd *cobra.Command, deleteResourceGroup bool) error {
	cfg, azureClient, err := setup()
	if err != nil {
		return err
	}

	if !cfg.DryRun && !cfg.Yes {
		prompt := fmt.Sprintf("Destroy all deployed resources in resource group %s (subscription %s)? [y/N] ",
			cfg.ResourceGroup, cfg.Subscription)
		if !deploy.Confirm(os.Stdin, os.Stderr, prompt) {
			return fmt.Errorf("aborted by operator")
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	destroyer := cleanup.New(azureClient, cfg)
	destroyer.DeleteResourceGroup = deleteResourceGroup
	return destroyer.Destroy(ctx)
}
