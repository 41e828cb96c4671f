package stack

import (
	"github.com/reportal/deployator/pkg/arm"
)

const (
	workspaceAPIVersion  = "2022-10-01"
	componentsAPIVersion = "2020-02-02"
)

const (
	workspaceType  = "Microsoft.OperationalInsights/workspaces"
	componentsType = "Microsoft.Insights/components"
)

// Monitoring declares the Log Analytics workspace and a workspace-based
// Application Insights component. Public ingestion and query are disabled;
// telemetry flows over the private link scope configured externally.
func Monitoring(in Input) (*arm.Template, map[string]any, error) {
	t := arm.New()
	t.Parameters = map[string]arm.Parameter{
		"location":      {Type: "string", DefaultValue: in.Location},
		"retentionDays": {Type: "int", DefaultValue: in.Defaults.LogRetentionDays},
	}

	workspace := &arm.Resource{
		APIVersion: workspaceAPIVersion,
		Type:       workspaceType,
		Name:       in.Names.LogWorkspace,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		Properties: properties{
			"sku": properties{
				"name": "PerGB2018",
			},
			"retentionInDays":                 arm.ParameterRef("retentionDays"),
			"publicNetworkAccessForIngestion": "Disabled",
			"publicNetworkAccessForQuery":     "Disabled",
		},
	}

	appInsights := &arm.Resource{
		APIVersion: componentsAPIVersion,
		Type:       componentsType,
		Name:       in.Names.AppInsights,
		Location:   arm.ParameterRef("location"),
		Kind:       "web",
		Tags:       defaultTags(in.Env),
		DependsOn: []string{
			arm.ResourceID(workspaceType, in.Names.LogWorkspace),
		},
		Properties: properties{
			"Application_Type":                "web",
			"WorkspaceResourceId":             arm.ResourceID(workspaceType, in.Names.LogWorkspace),
			"IngestionMode":                   "LogAnalytics",
			"publicNetworkAccessForIngestion": "Disabled",
			"publicNetworkAccessForQuery":     "Disabled",
		},
	}

	t.Append(workspace, appInsights)

	t.Outputs = map[string]arm.Output{
		"workspaceId": {Type: "string", Value: arm.ResourceID(workspaceType, in.Names.LogWorkspace)},
		"instrumentationKey": {
			Type:  "string",
			Value: arm.Reference(componentsType, in.Names.AppInsights, "InstrumentationKey"),
		},
		"appInsightsConnectionString": {
			Type:  "string",
			Value: arm.Reference(componentsType, in.Names.AppInsights, "ConnectionString"),
		},
	}

	return t, map[string]any{
		"location":      in.Location,
		"retentionDays": in.Defaults.LogRetentionDays,
	}, nil
}
