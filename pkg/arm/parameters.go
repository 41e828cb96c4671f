package arm

import (
	"encoding/json"
	"fmt"
	"os"
)

const ParameterFileSchema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentParameters.json#"

// ParameterFile is the standard ARM parameter file shape
// (parameters.<env>.json).
type ParameterFile struct {
	Schema         string                    `json:"$schema"`
	ContentVersion string                    `json:"contentVersion"`
	Parameters     map[string]ParameterValue `json:"parameters"`
}

type ParameterValue struct {
	Value any `json:"value"`
}

func LoadParameterFile(path string) (*ParameterFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}

	var file ParameterFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parsing parameter file %s: %w", path, err)
	}
	if file.Parameters == nil {
		return nil, fmt.Errorf("parameter file %s has no 'parameters' object", path)
	}
	return &file, nil
}

// DeploymentParameters renders parameter values into the {"name": {"value": v}}
// document the deployments API expects. File overrides win over defaults.
// One parameter file serves the whole stack, so only overrides matching a
// parameter the template actually declares are applied; ARM rejects
// deployments passing undeclared parameters.
func DeploymentParameters(defaults map[string]any, overrides *ParameterFile) map[string]any {
	out := make(map[string]any, len(defaults))
	for name, value := range defaults {
		out[name] = map[string]any{"value": value}
	}
	if overrides != nil {
		for name, pv := range overrides.Parameters {
			if _, declared := defaults[name]; declared {
				out[name] = map[string]any{"value": pv.Value}
			}
		}
	}
	return out
}
