// Package secrets provisions deployment secrets into the environment's Key
// Vault and owns the interactive password entry policy.
package secrets

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/config"
)

// SQLAdminPasswordSecret is the vault secret the database module reads its
// administrator password from at deploy time.
const SQLAdminPasswordSecret = "sql-admin-password"

type Provisioner struct {
	Azure  azure.Client
	Config *config.Config
}

func NewProvisioner(azureClient azure.Client, cfg *config.Config) *Provisioner {
	return &Provisioner{
		Azure:  azureClient,
		Config: cfg,
	}
}

// Set writes a secret into the environment's vault. The vault must already
// exist; this tool never creates one.
func (p *Provisioner) Set(ctx context.Context, name, value string) error {
	if err := ValidatePassword(value); err != nil {
		return fmt.Errorf("secret %s rejected: %w", name, err)
	}
	if err := p.Azure.EnsureAuthenticated(ctx); err != nil {
		return err
	}

	vaultURI, err := p.Azure.VaultURI(ctx, p.Config.ResourceGroup, p.Config.KeyVault)
	if err != nil {
		return fmt.Errorf("vault %s not found, it must exist before secrets can be provisioned: %w",
			p.Config.KeyVault, err)
	}

	if p.Config.DryRun {
		log.Infof("dry-run: would set secret %s in vault %s", name, p.Config.KeyVault)
		return nil
	}

	tags := map[string]string{
		"environment": p.Config.Environment,
		"managed-by":  "deployator",
	}
	if err := p.Azure.SetSecret(ctx, vaultURI, name, value, tags); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"secret": name,
		"vault":  p.Config.KeyVault,
	}).Info("secret provisioned")
	return nil
}
