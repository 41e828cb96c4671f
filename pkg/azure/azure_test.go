package azure_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/azure"
)

func TestRoleAssignmentName(t *testing.T) {
	scope := "/subscriptions/b07ae1e6-05a4-4455-91f3-2d0b0f54d3a3/resourceGroups/rg-reportal-dev"
	principal := "11111111-1111-1111-1111-111111111111"
	role := "/providers/Microsoft.Authorization/roleDefinitions/ba92f5b4-2d11-453d-a403-e96b0029c9fe"

	name := azure.RoleAssignmentName(scope, principal, role)

	t.Run("is a valid uuid", func(t *testing.T) {
		_, err := uuid.Parse(name)
		assert.NoError(t, err)
	})

	t.Run("is stable across runs", func(t *testing.T) {
		assert.Equal(t, name, azure.RoleAssignmentName(scope, principal, role))
	})

	t.Run("changes when any part of the triple changes", func(t *testing.T) {
		assert.NotEqual(t, name, azure.RoleAssignmentName(scope+"/other", principal, role))
		assert.NotEqual(t, name, azure.RoleAssignmentName(scope, "22222222-2222-2222-2222-222222222222", role))
		assert.NotEqual(t, name, azure.RoleAssignmentName(scope, principal, role+"x"))
	})
}

func TestParseOutputs(t *testing.T) {
	t.Run("flattens the deployments API shape", func(t *testing.T) {
		outputs, err := azure.ParseOutputs(map[string]any{
			"storageAccountName": map[string]any{"type": "String", "value": "reportaldevst"},
			"capacity":           map[string]any{"type": "Int", "value": float64(2)},
			"zoneRedundant":      map[string]any{"type": "Bool", "value": false},
		})
		require.NoError(t, err)
		assert.Equal(t, azure.Outputs{
			"storageAccountName": "reportaldevst",
			"capacity":           "2",
			"zoneRedundant":      "false",
		}, outputs)
	})

	t.Run("nil outputs are empty, not an error", func(t *testing.T) {
		outputs, err := azure.ParseOutputs(nil)
		require.NoError(t, err)
		assert.Empty(t, outputs)
	})

	t.Run("unexpected shapes are rejected", func(t *testing.T) {
		_, err := azure.ParseOutputs("not an object")
		assert.Error(t, err)

		_, err = azure.ParseOutputs(map[string]any{"name": "no wrapper"})
		assert.Error(t, err)
	})
}

func TestOutputsMerge(t *testing.T) {
	outputs := azure.Outputs{"a": "1", "b": "2"}
	outputs.Merge(azure.Outputs{"b": "3", "c": "4"})
	assert.Equal(t, azure.Outputs{"a": "1", "b": "3", "c": "4"}, outputs)
}
