package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/arm"
)

const (
	gatewayType  = "Microsoft.Network/applicationGateways"
	publicIPType = "Microsoft.Network/publicIPAddresses"
)

// Gateway declares the Application Gateway edge: a static public IP and a
// Standard_v2 gateway in the gateway subnet, routing HTTP traffic to the
// frontend web app over HTTPS.
func Gateway(in Input) (*arm.Template, map[string]any, error) {
	if err := requireOutputs(in, "gatewaySubnetId", "frontendHostname"); err != nil {
		return nil, nil, err
	}

	t := arm.New()
	t.Parameters = map[string]arm.Parameter{
		"location":         {Type: "string", DefaultValue: in.Location},
		"capacity":         {Type: "int", DefaultValue: in.Defaults.GatewayCapacity},
		"gatewaySubnetId":  {Type: "string", DefaultValue: in.Outputs["gatewaySubnetId"]},
		"frontendHostname": {Type: "string", DefaultValue: in.Outputs["frontendHostname"]},
	}

	publicIP := &arm.Resource{
		APIVersion: networkAPIVersion,
		Type:       publicIPType,
		Name:       in.Names.PublicIP,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		SKU:        &arm.SKU{Name: "Standard"},
		Properties: properties{
			"publicIPAllocationMethod": "Static",
		},
	}

	gateway := &arm.Resource{
		APIVersion: networkAPIVersion,
		Type:       gatewayType,
		Name:       in.Names.Gateway,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		DependsOn: []string{
			arm.ResourceID(publicIPType, in.Names.PublicIP),
		},
		Properties: properties{
			"sku": properties{
				"name":     "Standard_v2",
				"tier":     "Standard_v2",
				"capacity": arm.ParameterRef("capacity"),
			},
			"gatewayIPConfigurations": []any{
				properties{
					"name": "gateway-ip-config",
					"properties": properties{
						"subnet": properties{"id": arm.ParameterRef("gatewaySubnetId")},
					},
				},
			},
			"frontendIPConfigurations": []any{
				properties{
					"name": "public-frontend-ip",
					"properties": properties{
						"publicIPAddress": properties{
							"id": arm.ResourceID(publicIPType, in.Names.PublicIP),
						},
					},
				},
			},
			"frontendPorts": []any{
				properties{
					"name":       "port-http",
					"properties": properties{"port": 80},
				},
			},
			"backendAddressPools": []any{
				properties{
					"name": "frontend-app-pool",
					"properties": properties{
						"backendAddresses": []any{
							properties{"fqdn": arm.ParameterRef("frontendHostname")},
						},
					},
				},
			},
			"backendHttpSettingsCollection": []any{
				properties{
					"name": "https-settings",
					"properties": properties{
						"port":                           443,
						"protocol":                       "Https",
						"cookieBasedAffinity":            "Disabled",
						"pickHostNameFromBackendAddress": true,
						"requestTimeout":                 30,
					},
				},
			},
			"httpListeners": []any{
				properties{
					"name": "http-listener",
					"properties": properties{
						"frontendIPConfiguration": properties{
							"id": gatewayChildID(in.Names.Gateway, "frontendIPConfigurations", "public-frontend-ip"),
						},
						"frontendPort": properties{
							"id": gatewayChildID(in.Names.Gateway, "frontendPorts", "port-http"),
						},
						"protocol": "Http",
					},
				},
			},
			"requestRoutingRules": []any{
				properties{
					"name": "route-to-frontend",
					"properties": properties{
						"ruleType": "Basic",
						"priority": 100,
						"httpListener": properties{
							"id": gatewayChildID(in.Names.Gateway, "httpListeners", "http-listener"),
						},
						"backendAddressPool": properties{
							"id": gatewayChildID(in.Names.Gateway, "backendAddressPools", "frontend-app-pool"),
						},
						"backendHttpSettings": properties{
							"id": gatewayChildID(in.Names.Gateway, "backendHttpSettingsCollection", "https-settings"),
						},
					},
				},
			},
		},
	}

	t.Append(publicIP, gateway)

	t.Outputs = map[string]arm.Output{
		"gatewayPublicIp": {
			Type:  "string",
			Value: arm.Reference(publicIPType, in.Names.PublicIP, "ipAddress"),
		},
	}

	return t, map[string]any{
		"location":         in.Location,
		"capacity":         in.Defaults.GatewayCapacity,
		"gatewaySubnetId":  in.Outputs["gatewaySubnetId"],
		"frontendHostname": in.Outputs["frontendHostname"],
	}, nil
}

// gatewayChildID renders the self-referencing sub-resource IDs the gateway
// model requires for listeners and routing rules.
func gatewayChildID(gatewayName, collection, name string) string {
	return fmt.Sprintf(
		"[concat(resourceId('%s', '%s'), '/%s/%s')]",
		gatewayType, gatewayName, collection, name,
	)
}
