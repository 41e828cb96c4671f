package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/reportal/deployator/pkg/secrets"
)

func NewSecretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Manage deployment secrets in the environment's Key Vault",
	}
	cmd.AddCommand(newSecretSetCommand())
	return cmd
}

func newSecretSetCommand() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Provision a secret, prompting interactively unless --password is given",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSecretSet(cmd, args[0], password)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "Secret value. Prompted for when omitted")
	return cmd
}

func runSecretSet(cmd *cobra.Command, name, value string) error {
	cfg, azureClient, err := setup()
	if err != nil {
		return err
	}

	if len(value) == 0 {
		value, err = secrets.Prompt(os.Stdin, os.Stderr)
		if err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Timeout)
	defer cancel()

	return secrets.NewProvisioner(azureClient, cfg).Set(ctx, name, value)
}
