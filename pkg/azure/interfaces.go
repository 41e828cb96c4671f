// Package azure defines the surface this tool needs from Azure Resource
// Manager. The real implementation lives in pkg/azure/client; pkg/azure/fake
// provides a recording stand-in for tests.
package azure

import (
	"context"
)

type Client interface {
	Preconditions
	Deployments
	Resources
	Network
	RoleAssignments
	Vaults
}

type Preconditions interface {
	// EnsureAuthenticated verifies a management-plane token can be acquired.
	EnsureAuthenticated(ctx context.Context) error
	ResourceGroupExists(ctx context.Context, name string) (bool, error)
}

type Deployments interface {
	// ValidateDeployment never mutates state.
	ValidateDeployment(ctx context.Context, resourceGroup, name string, template, parameters map[string]any) error
	CreateDeployment(ctx context.Context, resourceGroup, name string, template, parameters map[string]any) (Outputs, error)
	DeploymentOutputs(ctx context.Context, resourceGroup, name string) (Outputs, error)
}

type Resources interface {
	ListResources(ctx context.Context, resourceGroup string, resourceType string) ([]Resource, error)
	DeleteResourceByID(ctx context.Context, resourceID, apiVersion string) error
	DeleteResourceGroup(ctx context.Context, name string) error
}

type Network interface {
	ListVirtualNetworks(ctx context.Context, resourceGroup string) ([]string, error)
	DeleteVirtualNetwork(ctx context.Context, resourceGroup, name string) error
	ListSecurityGroups(ctx context.Context, resourceGroup string) ([]string, error)
	DeleteSecurityGroup(ctx context.Context, resourceGroup, name string) error
}

type RoleAssignments interface {
	// EnsureRoleAssignment binds principalID to the named built-in role at
	// scope. Returns false when the assignment already existed.
	EnsureRoleAssignment(ctx context.Context, scope, principalID, roleName string) (bool, error)
}

type Vaults interface {
	VaultURI(ctx context.Context, resourceGroup, vaultName string) (string, error)
	SetSecret(ctx context.Context, vaultURI, name, value string, tags map[string]string) error
	GetSecret(ctx context.Context, vaultURI, name string) (string, error)
}

// Resource is the subset of a generic ARM resource the destroy sweep needs.
type Resource struct {
	ID   string
	Name string
	Type string
}
