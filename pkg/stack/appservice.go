package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/arm"
)

const webAPIVersion = "2023-12-01"

const (
	planType = "Microsoft.Web/serverfarms"
	siteType = "Microsoft.Web/sites"
)

const (
	frontendRuntime = "NODE|20-lts"
	backendRuntime  = "DOTNETCORE|8.0"
)

// AppService declares the Linux plan and the frontend/backend web apps.
// Both apps get a system-assigned managed identity and are integrated into
// the delegated app subnet; app settings are wired from the outputs of the
// storage, database, and monitoring modules.
func AppService(in Input) (*arm.Template, map[string]any, error) {
	err := requireOutputs(in,
		"appSubnetId", "blobEndpoint", "sqlServerFqdn", "databaseName", "appInsightsConnectionString")
	if err != nil {
		return nil, nil, err
	}

	t := arm.New()
	t.Parameters = map[string]arm.Parameter{
		"location":    {Type: "string", DefaultValue: in.Location},
		"skuName":     {Type: "string", DefaultValue: in.Defaults.AppServiceSKU},
		"skuTier":     {Type: "string", DefaultValue: in.Defaults.AppServiceTier},
		"capacity":    {Type: "int", DefaultValue: in.Defaults.AppServiceCapacity},
		"appSubnetId": {Type: "string", DefaultValue: in.Outputs["appSubnetId"]},
	}

	capacity := in.Defaults.AppServiceCapacity
	plan := &arm.Resource{
		APIVersion: webAPIVersion,
		Type:       planType,
		Name:       in.Names.Plan,
		Location:   arm.ParameterRef("location"),
		Kind:       "linux",
		Tags:       defaultTags(in.Env),
		SKU: &arm.SKU{
			Name:     arm.ParameterRef("skuName"),
			Tier:     arm.ParameterRef("skuTier"),
			Capacity: &capacity,
		},
		Properties: properties{
			"reserved": true,
		},
	}
	t.Append(plan)

	sharedSettings := []any{
		appSetting("APPLICATIONINSIGHTS_CONNECTION_STRING", in.Outputs["appInsightsConnectionString"]),
		appSetting("STORAGE_BLOB_ENDPOINT", in.Outputs["blobEndpoint"]),
		appSetting("WEBSITE_DNS_SERVER", "168.63.129.16"),
	}

	backendSettings := append([]any{
		appSetting("SQL_SERVER_FQDN", in.Outputs["sqlServerFqdn"]),
		appSetting("SQL_DATABASE_NAME", in.Outputs["databaseName"]),
	}, sharedSettings...)

	frontendSettings := append([]any{
		appSetting("BACKEND_BASE_URL", fmt.Sprintf("https://%s.azurewebsites.net", in.Names.Backend)),
	}, sharedSettings...)

	t.Append(
		site(in, in.Names.Frontend, frontendRuntime, frontendSettings),
		site(in, in.Names.Backend, backendRuntime, backendSettings),
	)

	t.Outputs = map[string]arm.Output{
		"frontendHostname": {
			Type:  "string",
			Value: arm.Reference(siteType, in.Names.Frontend, "defaultHostName"),
		},
		"backendHostname": {
			Type:  "string",
			Value: arm.Reference(siteType, in.Names.Backend, "defaultHostName"),
		},
		"frontendPrincipalId": {
			Type:  "string",
			Value: arm.ReferenceFull(siteType, in.Names.Frontend, webAPIVersion, "identity.principalId"),
		},
		"backendPrincipalId": {
			Type:  "string",
			Value: arm.ReferenceFull(siteType, in.Names.Backend, webAPIVersion, "identity.principalId"),
		},
	}

	return t, map[string]any{
		"location":    in.Location,
		"skuName":     in.Defaults.AppServiceSKU,
		"skuTier":     in.Defaults.AppServiceTier,
		"capacity":    in.Defaults.AppServiceCapacity,
		"appSubnetId": in.Outputs["appSubnetId"],
	}, nil
}

func site(in Input, name, runtime string, appSettings []any) *arm.Resource {
	return &arm.Resource{
		APIVersion: webAPIVersion,
		Type:       siteType,
		Name:       name,
		Location:   arm.ParameterRef("location"),
		Kind:       "app,linux",
		Tags:       defaultTags(in.Env),
		Identity:   &arm.Identity{Type: "SystemAssigned"},
		DependsOn: []string{
			arm.ResourceID(planType, in.Names.Plan),
		},
		Properties: properties{
			"serverFarmId":           arm.ResourceID(planType, in.Names.Plan),
			"httpsOnly":              true,
			"virtualNetworkSubnetId": arm.ParameterRef("appSubnetId"),
			"vnetRouteAllEnabled":    true,
			"clientAffinityEnabled":  false,
			"siteConfig": properties{
				"linuxFxVersion": runtime,
				"ftpsState":      "Disabled",
				"minTlsVersion":  "1.2",
				"alwaysOn":       true,
				"http20Enabled":  true,
				"appSettings":    appSettings,
			},
		},
	}
}

func appSetting(name, value string) properties {
	return properties{"name": name, "value": value}
}
