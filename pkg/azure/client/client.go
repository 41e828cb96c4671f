// Package client implements azure.Client on top of the Azure Resource
// Manager SDK. One client instance is scoped to a single subscription, the
// same way the shell scripts pinned a subscription context up front.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v3"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/keyvault/armkeyvault"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	cache "github.com/Code-Hex/go-generics-cache"

	"github.com/reportal/deployator/pkg/azure"
)

const armScope = "https://management.azure.com/.default"

const cacheExpiration = 5 * time.Minute

type client struct {
	subscription string
	credential   azcore.TokenCredential

	deployments     *armresources.DeploymentsClient
	resourceGroups  *armresources.ResourceGroupsClient
	resources       *armresources.Client
	vnets           *armnetwork.VirtualNetworksClient
	nsgs            *armnetwork.SecurityGroupsClient
	roleAssignments *armauthorization.RoleAssignmentsClient
	roleDefinitions *armauthorization.RoleDefinitionsClient
	vaults          *armkeyvault.VaultsClient

	// remote lookups repeated within a run (group existence, role
	// definition IDs, vault URIs) are cached for the run's lifetime
	existence *cache.Cache[string, bool]
	roleIDs   *cache.Cache[string, string]
	vaultURIs *cache.Cache[string, string]
}

func New(subscription string) (azure.Client, error) {
	credential, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("building credential chain: %w", err)
	}

	deployments, err := armresources.NewDeploymentsClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating deployments client: %w", err)
	}
	resourceGroups, err := armresources.NewResourceGroupsClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating resource groups client: %w", err)
	}
	resources, err := armresources.NewClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating resources client: %w", err)
	}
	vnets, err := armnetwork.NewVirtualNetworksClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating virtual networks client: %w", err)
	}
	nsgs, err := armnetwork.NewSecurityGroupsClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating security groups client: %w", err)
	}
	roleAssignments, err := armauthorization.NewRoleAssignmentsClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating role assignments client: %w", err)
	}
	roleDefinitions, err := armauthorization.NewRoleDefinitionsClient(credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating role definitions client: %w", err)
	}
	vaults, err := armkeyvault.NewVaultsClient(subscription, credential, nil)
	if err != nil {
		return nil, fmt.Errorf("creating vaults client: %w", err)
	}

	return &client{
		subscription:    subscription,
		credential:      credential,
		deployments:     deployments,
		resourceGroups:  resourceGroups,
		resources:       resources,
		vnets:           vnets,
		nsgs:            nsgs,
		roleAssignments: roleAssignments,
		roleDefinitions: roleDefinitions,
		vaults:          vaults,
		existence:       cache.New[string, bool](),
		roleIDs:         cache.New[string, string](),
		vaultURIs:       cache.New[string, string](),
	}, nil
}

// EnsureAuthenticated acquires a management-plane token without using it.
// Failing here replaces the scripts' "az account show" login check.
func (c *client) EnsureAuthenticated(ctx context.Context) error {
	_, err := c.credential.GetToken(ctx, policy.TokenRequestOptions{
		Scopes: []string{armScope},
	})
	if err != nil {
		return fmt.Errorf("not authenticated against Azure, run 'az login' or provide service principal credentials: %w", err)
	}
	return nil
}

func (c *client) ResourceGroupExists(ctx context.Context, name string) (bool, error) {
	if exists, ok := c.existence.Get(name); ok {
		return exists, nil
	}

	resp, err := c.resourceGroups.CheckExistence(ctx, name, nil)
	if err != nil {
		return false, fmt.Errorf("checking existence of resource group %s: %w", name, err)
	}

	c.existence.Set(name, resp.Success, cache.WithExpiration(cacheExpiration))
	return resp.Success, nil
}
