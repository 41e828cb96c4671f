package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/arm"
)

const storageAPIVersion = "2023-01-01"

const storageAccountType = "Microsoft.Storage/storageAccounts"

// Containers the reporting application expects to exist.
var blobContainers = []string{"reports", "exports", "archive"}

// Storage declares the blob storage account. Public access is denied at
// both the blob and the network ACL level; reachability comes through a
// private endpoint provisioned outside this stack.
func Storage(in Input) (*arm.Template, map[string]any, error) {
	t := arm.New()
	t.Parameters = map[string]arm.Parameter{
		"location": {Type: "string", DefaultValue: in.Location},
		"skuName":  {Type: "string", DefaultValue: in.Defaults.StorageSKU},
	}

	account := &arm.Resource{
		APIVersion: storageAPIVersion,
		Type:       storageAccountType,
		Name:       in.Names.StorageAccount,
		Location:   arm.ParameterRef("location"),
		Kind:       "StorageV2",
		Tags:       defaultTags(in.Env),
		SKU:        &arm.SKU{Name: arm.ParameterRef("skuName")},
		Properties: properties{
			"accessTier":               "Hot",
			"minimumTlsVersion":        "TLS1_2",
			"supportsHttpsTrafficOnly": true,
			"allowBlobPublicAccess":    false,
			"allowSharedKeyAccess":     false,
			"publicNetworkAccess":      "Disabled",
			"networkAcls": properties{
				"defaultAction": "Deny",
				"bypass":        "AzureServices",
			},
		},
	}
	t.Append(account)

	for _, container := range blobContainers {
		t.Append(&arm.Resource{
			APIVersion: storageAPIVersion,
			Type:       "Microsoft.Storage/storageAccounts/blobServices/containers",
			Name:       fmt.Sprintf("%s/default/%s", in.Names.StorageAccount, container),
			DependsOn: []string{
				arm.ResourceID(storageAccountType, in.Names.StorageAccount),
			},
			Properties: properties{
				"publicAccess": "None",
			},
		})
	}

	t.Outputs = map[string]arm.Output{
		"storageAccountName": {Type: "string", Value: in.Names.StorageAccount},
		"blobEndpoint": {
			Type:  "string",
			Value: arm.Reference(storageAccountType, in.Names.StorageAccount, "primaryEndpoints.blob"),
		},
	}

	return t, map[string]any{
		"location": in.Location,
		"skuName":  in.Defaults.StorageSKU,
	}, nil
}
