package stack_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/config"
	"github.com/reportal/deployator/pkg/stack"
)

func TestGraph(t *testing.T) {
	graph := stack.Graph()
	require.NotEmpty(t, graph)

	t.Run("network comes first, everything downstream depends on it", func(t *testing.T) {
		assert.Equal(t, "network", graph[0].Name)
		assert.Empty(t, graph[0].Needs)
	})

	t.Run("every dependency precedes its dependent", func(t *testing.T) {
		position := map[string]int{}
		for i, module := range graph {
			position[module.Name] = i
		}
		for _, module := range graph {
			for _, need := range module.Needs {
				needPos, ok := position[need]
				require.True(t, ok, "module %s needs unknown module %s", module.Name, need)
				assert.Less(t, needPos, position[module.Name],
					"module %s must come after its dependency %s", module.Name, need)
			}
		}
	})

	t.Run("only the database module carries secure parameters", func(t *testing.T) {
		for _, module := range graph {
			if module.Name == "database" {
				assert.Equal(t, map[string]string{
					"administratorLoginPassword": "sql-admin-password",
				}, module.SecureParameters)
				continue
			}
			assert.Empty(t, module.SecureParameters)
		}
	})
}

func TestModuleNames(t *testing.T) {
	names := stack.ModuleNames()
	assert.Equal(t, stack.RBACModuleName, names[len(names)-1], "role assignments always run last")
	assert.Len(t, names, len(stack.Graph())+1)
}

func TestLookup(t *testing.T) {
	module, ok := stack.Lookup("storage")
	require.True(t, ok)
	assert.Equal(t, "storage", module.Name)

	_, ok = stack.Lookup("firewall")
	assert.False(t, ok)

	// rbac is not a template module
	_, ok = stack.Lookup(stack.RBACModuleName)
	assert.False(t, ok)
}

func TestDeploymentName(t *testing.T) {
	assert.Equal(t, "reportal-dev-network", stack.DeploymentName("reportal", config.EnvDev, "network"))
	assert.Equal(t, "reportal-prod-gateway", stack.DeploymentName("reportal", config.EnvProd, "gateway"))
}

func TestNewNames(t *testing.T) {
	names := stack.NewNames("reportal", config.EnvUat)

	assert.Equal(t, "reportal-uat-vnet", names.VNet)
	assert.Equal(t, "reportal-uat-sql", names.SQLServer)
	assert.Equal(t, "reportal-uat-agw", names.Gateway)
	assert.Equal(t, "reportaluatst", names.StorageAccount,
		"storage account names allow no separators")
}

func TestAssignments(t *testing.T) {
	t.Run("frontend and backend principals each get their roles", func(t *testing.T) {
		assignments, err := stack.Assignments(map[string]string{
			"frontendPrincipalId": "frontend-id",
			"backendPrincipalId":  "backend-id",
		})
		require.NoError(t, err)
		require.Len(t, assignments, 5)

		byPrincipal := map[string][]string{}
		for _, a := range assignments {
			byPrincipal[a.PrincipalID] = append(byPrincipal[a.PrincipalID], a.Role)
		}
		assert.ElementsMatch(t, []string{
			stack.RoleStorageBlobDataContributor,
			stack.RoleKeyVaultSecretsUser,
		}, byPrincipal["frontend-id"])
		assert.ElementsMatch(t, []string{
			stack.RoleStorageBlobDataContributor,
			stack.RoleKeyVaultSecretsUser,
			stack.RoleMonitoringMetricsPublisher,
		}, byPrincipal["backend-id"])
	})

	t.Run("missing principal outputs fail", func(t *testing.T) {
		_, err := stack.Assignments(map[string]string{
			"frontendPrincipalId": "frontend-id",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "appservice")
	})
}

func TestScope(t *testing.T) {
	scope := stack.Scope("b07ae1e6-05a4-4455-91f3-2d0b0f54d3a3", "rg-reportal-dev")
	assert.Equal(t, "/subscriptions/b07ae1e6-05a4-4455-91f3-2d0b0f54d3a3/resourceGroups/rg-reportal-dev", scope)
}
