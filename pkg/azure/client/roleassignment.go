package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v3"
	cache "github.com/Code-Hex/go-generics-cache"

	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/retry"
)

const (
	codeRoleAssignmentExists = "RoleAssignmentExists"
	codePrincipalNotFound    = "PrincipalNotFound"
)

// principalPropagationTimeout bounds the wait for a freshly created managed
// identity to become visible to the authorization service.
const principalPropagationTimeout = 2 * time.Minute

func (c *client) EnsureRoleAssignment(ctx context.Context, scope, principalID, roleName string) (bool, error) {
	roleDefinitionID, err := c.roleDefinitionID(ctx, scope, roleName)
	if err != nil {
		return false, err
	}

	name := azure.RoleAssignmentName(scope, principalID, roleDefinitionID)
	parameters := armauthorization.RoleAssignmentCreateParameters{
		Properties: &armauthorization.RoleAssignmentProperties{
			PrincipalID:      to.Ptr(principalID),
			RoleDefinitionID: to.Ptr(roleDefinitionID),
			PrincipalType:    to.Ptr(armauthorization.PrincipalTypeServicePrincipal),
		},
	}

	created := false
	err = retry.Fibonacci(2*time.Second).WithMaxDuration(principalPropagationTimeout).Do(ctx, func(ctx context.Context) error {
		_, err := c.roleAssignments.Create(ctx, scope, name, parameters, nil)
		if err == nil {
			created = true
			return nil
		}

		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) {
			switch respErr.ErrorCode {
			case codeRoleAssignmentExists:
				// same triple, same name; previous run already made it
				return nil
			case codePrincipalNotFound:
				// identity not propagated to the authorization service yet
				return retry.RetryableError(err)
			}
		}
		return err
	})
	if err != nil {
		return false, fmt.Errorf("assigning role %q to principal %s at %s: %w", roleName, principalID, scope, err)
	}
	return created, nil
}

func (c *client) roleDefinitionID(ctx context.Context, scope, roleName string) (string, error) {
	if id, ok := c.roleIDs.Get(roleName); ok {
		return id, nil
	}

	options := &armauthorization.RoleDefinitionsClientListOptions{
		Filter: to.Ptr(fmt.Sprintf("roleName eq '%s'", roleName)),
	}

	pager := c.roleDefinitions.NewListPager(scope, options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("listing role definitions for %q: %w", roleName, err)
		}
		for _, def := range page.Value {
			if def.ID == nil {
				continue
			}
			c.roleIDs.Set(roleName, *def.ID, cache.WithExpiration(cacheExpiration))
			return *def.ID, nil
		}
	}
	return "", fmt.Errorf("built-in role %q not found at scope %s", roleName, scope)
}
