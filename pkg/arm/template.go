// Package arm models the ARM deployment template document. Resources are
// authored as Go values and serialized into the JSON shape that Azure
// Resource Manager consumes.
package arm

import (
	"encoding/json"
	"fmt"
)

const (
	TemplateSchema = "https://schema.management.azure.com/schemas/2019-04-01/deploymentTemplate.json#"
	ContentVersion = "1.0.0.0"
)

type Template struct {
	Schema         string               `json:"$schema"`
	ContentVersion string               `json:"contentVersion"`
	Parameters     map[string]Parameter `json:"parameters,omitempty"`
	Variables      map[string]any       `json:"variables,omitempty"`
	Resources      []*Resource          `json:"resources"`
	Outputs        map[string]Output    `json:"outputs,omitempty"`
}

type Parameter struct {
	Type          string    `json:"type"`
	DefaultValue  any       `json:"defaultValue,omitempty"`
	AllowedValues []any     `json:"allowedValues,omitempty"`
	MinLength     *int      `json:"minLength,omitempty"`
	Metadata      *Metadata `json:"metadata,omitempty"`
}

type Metadata struct {
	Description string `json:"description,omitempty"`
}

type Resource struct {
	APIVersion string            `json:"apiVersion"`
	Type       string            `json:"type"`
	Name       string            `json:"name"`
	Location   string            `json:"location,omitempty"`
	Kind       string            `json:"kind,omitempty"`
	DependsOn  []string          `json:"dependsOn,omitempty"`
	Tags       map[string]string `json:"tags,omitempty"`
	SKU        *SKU              `json:"sku,omitempty"`
	Identity   *Identity         `json:"identity,omitempty"`
	Properties any               `json:"properties,omitempty"`
	Resources  []*Resource       `json:"resources,omitempty"`
}

type SKU struct {
	Name     string `json:"name"`
	Tier     string `json:"tier,omitempty"`
	Capacity *int   `json:"capacity,omitempty"`
}

type Identity struct {
	Type string `json:"type"`
}

type Output struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

func New() *Template {
	return &Template{
		Schema:         TemplateSchema,
		ContentVersion: ContentVersion,
		Parameters:     map[string]Parameter{},
		Resources:      []*Resource{},
		Outputs:        map[string]Output{},
	}
}

func (t *Template) Append(resources ...*Resource) {
	t.Resources = append(t.Resources, resources...)
}

// Map renders the template into the generic document the deployments API
// accepts as its Template payload.
func (t *Template) Map() (map[string]any, error) {
	raw, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("marshalling template: %w", err)
	}

	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unmarshalling template: %w", err)
	}
	return out, nil
}
