package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/azure"
)

// Built-in roles granted to the web apps' managed identities.
const (
	RoleStorageBlobDataContributor = "Storage Blob Data Contributor"
	RoleKeyVaultSecretsUser        = "Key Vault Secrets User"
	RoleMonitoringMetricsPublisher = "Monitoring Metrics Publisher"
)

type RoleAssignment struct {
	Principal string // display handle for logging
	// PrincipalID is the managed identity's object ID, from the appservice
	// module's outputs.
	PrincipalID string
	Role        string
}

// Assignments lists the role assignments the reporting apps need, derived
// from the appservice module's principal outputs. Assignments are made at
// resource-group scope.
func Assignments(outputs azure.Outputs) ([]RoleAssignment, error) {
	frontend := outputs["frontendPrincipalId"]
	backend := outputs["backendPrincipalId"]
	if len(frontend) == 0 || len(backend) == 0 {
		return nil, fmt.Errorf("web app principal IDs not available, deploy the appservice module first")
	}

	return []RoleAssignment{
		{Principal: "frontend", PrincipalID: frontend, Role: RoleStorageBlobDataContributor},
		{Principal: "frontend", PrincipalID: frontend, Role: RoleKeyVaultSecretsUser},
		{Principal: "backend", PrincipalID: backend, Role: RoleStorageBlobDataContributor},
		{Principal: "backend", PrincipalID: backend, Role: RoleKeyVaultSecretsUser},
		{Principal: "backend", PrincipalID: backend, Role: RoleMonitoringMetricsPublisher},
	}, nil
}

// Scope renders the resource-group scope role assignments are bound at.
func Scope(subscription, resourceGroup string) string {
	return fmt.Sprintf("/subscriptions/%s/resourceGroups/%s", subscription, resourceGroup)
}
