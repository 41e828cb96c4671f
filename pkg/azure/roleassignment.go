package azure

import (
	"fmt"

	"github.com/google/uuid"
)

// namespace for deterministic role-assignment names. Never change this:
// renaming existing assignments would duplicate them on the next run.
var roleAssignmentNamespace = uuid.MustParse("6b8f9e4e-3c71-4f5e-9c0c-2d6a8f1e7b42")

// RoleAssignmentName derives a stable assignment name from the
// (scope, principal, role) triple so repeated runs address the same
// assignment and ARM treats the create as idempotent.
func RoleAssignmentName(scope, principalID, roleDefinitionID string) string {
	seed := fmt.Sprintf("%s|%s|%s", scope, principalID, roleDefinitionID)
	return uuid.NewSHA1(roleAssignmentNamespace, []byte(seed)).String()
}
