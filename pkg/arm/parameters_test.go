package arm_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reportal/deployator/pkg/arm"
)

func TestLoadParameterFile(t *testing.T) {
	t.Run("standard parameter file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parameters.dev.json")
		err := os.WriteFile(path, []byte(`{
			"$schema": "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#",
			"contentVersion": "1.0.0.0",
			"parameters": {
				"skuName": {"value": "S1"},
				"capacity": {"value": 2}
			}
		}`), 0o644)
		require.NoError(t, err)

		file, err := arm.LoadParameterFile(path)
		require.NoError(t, err)
		assert.Equal(t, "S1", file.Parameters["skuName"].Value)
		assert.Equal(t, float64(2), file.Parameters["capacity"].Value)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := arm.LoadParameterFile(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})

	t.Run("no parameters object", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "parameters.dev.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"contentVersion": "1.0.0.0"}`), 0o644))

		_, err := arm.LoadParameterFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parameters")
	})
}

func TestDeploymentParameters(t *testing.T) {
	defaults := map[string]any{
		"location": "norwayeast",
		"skuName":  "S0",
	}

	t.Run("defaults only", func(t *testing.T) {
		parameters := arm.DeploymentParameters(defaults, nil)
		assert.Equal(t, map[string]any{
			"location": map[string]any{"value": "norwayeast"},
			"skuName":  map[string]any{"value": "S0"},
		}, parameters)
	})

	t.Run("file overrides win over defaults", func(t *testing.T) {
		overrides := &arm.ParameterFile{
			Parameters: map[string]arm.ParameterValue{
				"skuName": {Value: "S3"},
			},
		}
		parameters := arm.DeploymentParameters(defaults, overrides)
		assert.Equal(t, map[string]any{"value": "S3"}, parameters["skuName"])
		assert.Equal(t, map[string]any{"value": "norwayeast"}, parameters["location"])
	})

	t.Run("overrides for parameters the template does not declare are dropped", func(t *testing.T) {
		overrides := &arm.ParameterFile{
			Parameters: map[string]arm.ParameterValue{
				"retentionDays": {Value: 90},
			},
		}
		parameters := arm.DeploymentParameters(defaults, overrides)
		assert.NotContains(t, parameters, "retentionDays")
		assert.Len(t, parameters, len(defaults))
	})
}
