package stack_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/config"
	"github.com/reportal/deployator/pkg/stack"
)

// devInput returns a generator input as the deployer would assemble it for
// the dev environment, with all upstream outputs available.
func devInput() stack.Input {
	return stack.Input{
		Env:      config.EnvDev,
		Defaults: config.EnvDev.Defaults(),
		Names:    stack.NewNames("reportal", config.EnvDev),
		Location: "norwayeast",
		Outputs: map[string]string{
			"vnetId":                      "/sub/vnet-id",
			"appSubnetId":                 "/sub/snet-app-id",
			"gatewaySubnetId":             "/sub/snet-agw-id",
			"blobEndpoint":                "https://reportaldevst.blob.core.windows.net/",
			"sqlServerFqdn":               "reportal-dev-sql.database.windows.net",
			"databaseName":                "reportal-dev-sqldb",
			"appInsightsConnectionString": "InstrumentationKey=abc",
			"frontendHostname":            "reportal-dev-app-frontend.azurewebsites.net",
		},
		Secure: map[string]string{
			"administratorLoginPassword": "Sommer2026!",
		},
	}
}

// renderJSON runs a generator and returns the template document as JSON,
// for invariant scans over the rendered resources.
func renderJSON(t *testing.T, generate stack.Generator) string {
	t.Helper()

	template, defaults, err := generate(devInput())
	require.NoError(t, err)
	require.NotEmpty(t, defaults)

	doc, err := template.Map()
	require.NoError(t, err)

	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	return string(raw)
}

func TestGeneratorsDisablePublicNetworkAccess(t *testing.T) {
	for name, generate := range map[string]stack.Generator{
		"storage":  stack.Storage,
		"database": stack.Database,
	} {
		t.Run(name, func(t *testing.T) {
			rendered := renderJSON(t, generate)
			assert.Contains(t, rendered, `"publicNetworkAccess":"Disabled"`)
			assert.NotContains(t, rendered, `"publicNetworkAccess":"Enabled"`)
		})
	}

	t.Run("monitoring", func(t *testing.T) {
		rendered := renderJSON(t, stack.Monitoring)
		assert.Contains(t, rendered, `"publicNetworkAccessForIngestion":"Disabled"`)
		assert.Contains(t, rendered, `"publicNetworkAccessForQuery":"Disabled"`)
	})
}

func TestNetwork(t *testing.T) {
	rendered := renderJSON(t, stack.Network)

	t.Run("carves /24 subnets out of the environment's address space", func(t *testing.T) {
		assert.Contains(t, rendered, `"10.10.1.0/24"`)
		assert.Contains(t, rendered, `"10.10.2.0/24"`)
		assert.Contains(t, rendered, `"10.10.3.0/24"`)
	})

	t.Run("app subnet is delegated to app service", func(t *testing.T) {
		assert.Contains(t, rendered, `"serviceName":"Microsoft.Web/serverFarms"`)
	})

	t.Run("internet inbound is denied on the app subnet", func(t *testing.T) {
		assert.Contains(t, rendered, `"DenyInternetInbound"`)
	})

	t.Run("declares the subnet outputs downstream modules consume", func(t *testing.T) {
		template, _, err := stack.Network(devInput())
		require.NoError(t, err)
		for _, key := range []string{"vnetId", "appSubnetId", "gatewaySubnetId", "privateEndpointSubnetId"} {
			assert.Contains(t, template.Outputs, key)
		}
	})
}

func TestStorage(t *testing.T) {
	rendered := renderJSON(t, stack.Storage)

	assert.Contains(t, rendered, `"allowBlobPublicAccess":false`)
	assert.Contains(t, rendered, `"allowSharedKeyAccess":false`)
	assert.Contains(t, rendered, `"defaultAction":"Deny"`)

	for _, container := range []string{"reports", "exports", "archive"} {
		assert.Contains(t, rendered, "reportaldevst/default/"+container)
	}
}

func TestDatabase(t *testing.T) {
	t.Run("password value never appears in the template document", func(t *testing.T) {
		rendered := renderJSON(t, stack.Database)
		assert.NotContains(t, rendered, "Sommer2026!")
		assert.Contains(t, rendered, `"securestring"`)
	})

	t.Run("password ends up in the parameter values instead", func(t *testing.T) {
		_, defaults, err := stack.Database(devInput())
		require.NoError(t, err)
		assert.Equal(t, "Sommer2026!", defaults["administratorLoginPassword"])
	})

	t.Run("unresolved password fails generation", func(t *testing.T) {
		in := devInput()
		in.Secure = nil

		_, _, err := stack.Database(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sql-admin-password")
	})
}

func TestAppService(t *testing.T) {
	t.Run("missing upstream outputs fail before rendering", func(t *testing.T) {
		in := devInput()
		delete(in.Outputs, "appSubnetId")

		_, _, err := stack.AppService(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "appSubnetId")
	})

	t.Run("apps are hardened and vnet-integrated", func(t *testing.T) {
		rendered := renderJSON(t, stack.AppService)
		assert.Contains(t, rendered, `"httpsOnly":true`)
		assert.Contains(t, rendered, `"ftpsState":"Disabled"`)
		assert.Contains(t, rendered, `"SystemAssigned"`)
		assert.Contains(t, rendered, `"vnetRouteAllEnabled":true`)
	})

	t.Run("backend gets the SQL settings, frontend gets the backend URL", func(t *testing.T) {
		rendered := renderJSON(t, stack.AppService)
		assert.Contains(t, rendered, `"SQL_SERVER_FQDN"`)
		assert.Contains(t, rendered, "https://reportal-dev-app-backend.azurewebsites.net")
	})
}

func TestGateway(t *testing.T) {
	t.Run("requires the network and appservice outputs", func(t *testing.T) {
		in := devInput()
		delete(in.Outputs, "frontendHostname")

		_, _, err := stack.Gateway(in)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "frontendHostname")
	})

	t.Run("routes to the frontend app over https", func(t *testing.T) {
		rendered := renderJSON(t, stack.Gateway)
		assert.Contains(t, rendered, `"fqdn":"[parameters('frontendHostname')]"`)
		assert.Contains(t, rendered, `"protocol":"Https"`)
		assert.Contains(t, rendered, `"pickHostNameFromBackendAddress":true`)
	})
}
