// Package fake provides an in-memory azure.Client that records every
// mutating call, used to assert dry-run and cleanup behavior in tests.
package fake

import (
	"context"
	"fmt"

	"github.com/reportal/deployator/pkg/azure"
)

type AzureClient struct {
	AuthErr        error
	ResourceGroups map[string]bool
	OutputsByName  map[string]azure.Outputs
	Resources      []azure.Resource
	VNets          []string
	NSGs           []string
	Secrets        map[string]string
	VaultName      string

	// DeleteErrs simulates individual delete failures, keyed by resource name or ID.
	DeleteErrs map[string]error

	Validated []string
	Mutations []string
}

var _ azure.Client = &AzureClient{}

func NewAzureClient() *AzureClient {
	return &AzureClient{
		ResourceGroups: map[string]bool{},
		OutputsByName:  map[string]azure.Outputs{},
		Secrets:        map[string]string{},
		DeleteErrs:     map[string]error{},
	}
}

func (c *AzureClient) record(format string, args ...any) {
	c.Mutations = append(c.Mutations, fmt.Sprintf(format, args...))
}

func (c *AzureClient) EnsureAuthenticated(context.Context) error {
	return c.AuthErr
}

func (c *AzureClient) ResourceGroupExists(_ context.Context, name string) (bool, error) {
	return c.ResourceGroups[name], nil
}

func (c *AzureClient) ValidateDeployment(_ context.Context, _, name string, _, _ map[string]any) error {
	c.Validated = append(c.Validated, name)
	return nil
}

func (c *AzureClient) CreateDeployment(_ context.Context, _, name string, _, _ map[string]any) (azure.Outputs, error) {
	c.record("deploy %s", name)
	if _, ok := c.OutputsByName[name]; !ok {
		c.OutputsByName[name] = azure.Outputs{}
	}
	return c.OutputsByName[name], nil
}

// DeploymentOutputs fails for unknown deployments, as the deployments API
// does for a name that was never deployed.
func (c *AzureClient) DeploymentOutputs(_ context.Context, _, name string) (azure.Outputs, error) {
	outputs, ok := c.OutputsByName[name]
	if !ok {
		return nil, fmt.Errorf("deployment %s not found", name)
	}
	return outputs, nil
}

func (c *AzureClient) ListResources(_ context.Context, _ string, resourceType string) ([]azure.Resource, error) {
	if len(resourceType) == 0 {
		return c.Resources, nil
	}
	var out []azure.Resource
	for _, r := range c.Resources {
		if r.Type == resourceType {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *AzureClient) DeleteResourceByID(_ context.Context, resourceID, _ string) error {
	if err := c.DeleteErrs[resourceID]; err != nil {
		return err
	}
	c.record("delete resource %s", resourceID)
	return nil
}

func (c *AzureClient) DeleteResourceGroup(_ context.Context, name string) error {
	if err := c.DeleteErrs[name]; err != nil {
		return err
	}
	c.record("delete resource group %s", name)
	delete(c.ResourceGroups, name)
	return nil
}

func (c *AzureClient) ListVirtualNetworks(context.Context, string) ([]string, error) {
	return c.VNets, nil
}

func (c *AzureClient) DeleteVirtualNetwork(_ context.Context, _, name string) error {
	if err := c.DeleteErrs[name]; err != nil {
		return err
	}
	c.record("delete vnet %s", name)
	return nil
}

func (c *AzureClient) ListSecurityGroups(context.Context, string) ([]string, error) {
	return c.NSGs, nil
}

func (c *AzureClient) DeleteSecurityGroup(_ context.Context, _, name string) error {
	if err := c.DeleteErrs[name]; err != nil {
		return err
	}
	c.record("delete nsg %s", name)
	return nil
}

func (c *AzureClient) EnsureRoleAssignment(_ context.Context, scope, principalID, roleName string) (bool, error) {
	c.record("assign role %s to %s at %s", roleName, principalID, scope)
	return true, nil
}

func (c *AzureClient) VaultURI(_ context.Context, _, vaultName string) (string, error) {
	c.VaultName = vaultName
	return fmt.Sprintf("https://%s.vault.azure.net/", vaultName), nil
}

func (c *AzureClient) SetSecret(_ context.Context, _, name, value string, _ map[string]string) error {
	c.record("set secret %s", name)
	c.Secrets[name] = value
	return nil
}

func (c *AzureClient) GetSecret(_ context.Context, _, name string) (string, error) {
	value, ok := c.Secrets[name]
	if !ok {
		return "", fmt.Errorf("secret %s not found", name)
	}
	return value, nil
}
