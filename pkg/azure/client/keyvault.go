package client

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	cache "github.com/Code-Hex/go-generics-cache"
)

func (c *client) VaultURI(ctx context.Context, resourceGroup, vaultName string) (string, error) {
	if uri, ok := c.vaultURIs.Get(vaultName); ok {
		return uri, nil
	}

	resp, err := c.vaults.Get(ctx, resourceGroup, vaultName, nil)
	if err != nil {
		return "", fmt.Errorf("looking up key vault %s in %s: %w", vaultName, resourceGroup, err)
	}
	if resp.Properties == nil || resp.Properties.VaultURI == nil {
		return "", fmt.Errorf("key vault %s has no vault URI", vaultName)
	}

	uri := *resp.Properties.VaultURI
	c.vaultURIs.Set(vaultName, uri, cache.WithExpiration(cacheExpiration))
	return uri, nil
}

func (c *client) SetSecret(ctx context.Context, vaultURI, name, value string, tags map[string]string) error {
	secrets, err := azsecrets.NewClient(vaultURI, c.credential, nil)
	if err != nil {
		return fmt.Errorf("creating secrets client for %s: %w", vaultURI, err)
	}

	parameters := azsecrets.SetSecretParameters{
		Value: to.Ptr(value),
	}
	if len(tags) > 0 {
		parameters.Tags = map[string]*string{}
		for k, v := range tags {
			parameters.Tags[k] = to.Ptr(v)
		}
	}

	if _, err := secrets.SetSecret(ctx, name, parameters, nil); err != nil {
		return fmt.Errorf("setting secret %s: %w", name, err)
	}
	return nil
}

func (c *client) GetSecret(ctx context.Context, vaultURI, name string) (string, error) {
	secrets, err := azsecrets.NewClient(vaultURI, c.credential, nil)
	if err != nil {
		return "", fmt.Errorf("creating secrets client for %s: %w", vaultURI, err)
	}

	resp, err := secrets.GetSecret(ctx, name, "", nil)
	if err != nil {
		return "", fmt.Errorf("fetching secret %s: %w", name, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret %s has no value", name)
	}
	return *resp.Value, nil
}
