package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/arm"
)

const sqlAPIVersion = "2022-05-01-preview"

const (
	sqlServerType   = "Microsoft.Sql/servers"
	sqlDatabaseType = "Microsoft.Sql/servers/databases"
)

const sqlAdministratorLogin = "reportaladmin"

// Database declares the SQL logical server and the reporting database. The
// administrator password is a securestring parameter sourced from Key Vault
// by the deployer; it never appears in the template document.
//
// Public network access is disabled: until a private endpoint is set up
// against the server, nothing can reach it. That is intentional.
func Database(in Input) (*arm.Template, map[string]any, error) {
	password, ok := in.Secure["administratorLoginPassword"]
	if !ok {
		return nil, nil, fmt.Errorf("administrator password not resolved, provision the %q secret first", "sql-admin-password")
	}

	t := arm.New()
	t.Parameters = map[string]arm.Parameter{
		"location":                   {Type: "string", DefaultValue: in.Location},
		"administratorLogin":         {Type: "string", DefaultValue: sqlAdministratorLogin},
		"administratorLoginPassword": {Type: "securestring", MinLength: intPtr(8)},
		"skuName":                    {Type: "string", DefaultValue: in.Defaults.SQLSKU},
		"skuTier":                    {Type: "string", DefaultValue: in.Defaults.SQLTier},
		"maxSizeGB":                  {Type: "int", DefaultValue: in.Defaults.SQLMaxSizeGB},
	}

	server := &arm.Resource{
		APIVersion: sqlAPIVersion,
		Type:       sqlServerType,
		Name:       in.Names.SQLServer,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		Properties: properties{
			"administratorLogin":            arm.ParameterRef("administratorLogin"),
			"administratorLoginPassword":    arm.ParameterRef("administratorLoginPassword"),
			"version":                       "12.0",
			"minimalTlsVersion":             "1.2",
			"publicNetworkAccess":           "Disabled",
			"restrictOutboundNetworkAccess": "Disabled",
		},
	}

	database := &arm.Resource{
		APIVersion: sqlAPIVersion,
		Type:       sqlDatabaseType,
		Name:       fmt.Sprintf("%s/%s", in.Names.SQLServer, in.Names.SQLDatabase),
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		DependsOn: []string{
			arm.ResourceID(sqlServerType, in.Names.SQLServer),
		},
		SKU: &arm.SKU{
			Name: arm.ParameterRef("skuName"),
			Tier: arm.ParameterRef("skuTier"),
		},
		Properties: properties{
			"collation":     "SQL_Latin1_General_CP1_CI_AS",
			"maxSizeBytes":  "[mul(parameters('maxSizeGB'), 1073741824)]",
			"zoneRedundant": false,
		},
	}

	t.Append(server, database)

	t.Outputs = map[string]arm.Output{
		"sqlServerName": {Type: "string", Value: in.Names.SQLServer},
		"sqlServerFqdn": {
			Type:  "string",
			Value: arm.Reference(sqlServerType, in.Names.SQLServer, "fullyQualifiedDomainName"),
		},
		"databaseName": {Type: "string", Value: in.Names.SQLDatabase},
	}

	return t, map[string]any{
		"location":                   in.Location,
		"administratorLogin":         sqlAdministratorLogin,
		"administratorLoginPassword": password,
		"skuName":                    in.Defaults.SQLSKU,
		"skuTier":                    in.Defaults.SQLTier,
		"maxSizeGB":                  in.Defaults.SQLMaxSizeGB,
	}, nil
}

func intPtr(i int) *int {
	return &i
}
