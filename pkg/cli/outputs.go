package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reportal/deployator/pkg/deploy"
)

func NewOutputsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "outputs",
		Short: "Print the outputs of all module deployments as JSON",
		RunE:  runOutputs,
	}
}

func runOutputs(cmd *cobra.Command, args []string) error {
	cfg, azureClient, err := setup()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	tx := deploy.NewTransaction(ctx, cfg, nil)
	outputs, err := deploy.New(azureClient, cfg).Outputs(tx)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(outputs, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, string(encoded))
	return nil
}
