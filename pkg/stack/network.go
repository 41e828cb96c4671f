package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/arm"
)

const networkAPIVersion = "2023-09-01"

const (
	vnetType = "Microsoft.Network/virtualNetworks"
	nsgType  = "Microsoft.Network/networkSecurityGroups"
)

// Network declares the VNet with an App-Service-delegated subnet, a gateway
// subnet, and a private-endpoint subnet, each guarded by an NSG.
func Network(in Input) (*arm.Template, map[string]any, error) {
	appSubnet, err := subnetPrefix(in.Defaults.AddressSpace, 1)
	if err != nil {
		return nil, nil, err
	}
	gatewaySubnet, err := subnetPrefix(in.Defaults.AddressSpace, 2)
	if err != nil {
		return nil, nil, err
	}
	peSubnet, err := subnetPrefix(in.Defaults.AddressSpace, 3)
	if err != nil {
		return nil, nil, err
	}

	t := arm.New()
	t.Parameters = map[string]arm.Parameter{
		"location":     {Type: "string", DefaultValue: in.Location},
		"addressSpace": {Type: "string", DefaultValue: in.Defaults.AddressSpace},
	}

	appNSG := &arm.Resource{
		APIVersion: networkAPIVersion,
		Type:       nsgType,
		Name:       in.Names.NSGApp,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		Properties: properties{
			"securityRules": []any{
				securityRule("AllowVnetInbound", 100, "Allow", "Inbound", "VirtualNetwork", "*"),
				securityRule("DenyInternetInbound", 4000, "Deny", "Inbound", "Internet", "*"),
			},
		},
	}

	// the v2 gateway requires the GatewayManager ports to stay open
	gatewayNSG := &arm.Resource{
		APIVersion: networkAPIVersion,
		Type:       nsgType,
		Name:       in.Names.NSGGateway,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		Properties: properties{
			"securityRules": []any{
				securityRule("AllowGatewayManager", 100, "Allow", "Inbound", "GatewayManager", "65200-65535"),
				securityRule("AllowHttpInbound", 110, "Allow", "Inbound", "Internet", "80"),
				securityRule("AllowHttpsInbound", 120, "Allow", "Inbound", "Internet", "443"),
			},
		},
	}

	vnet := &arm.Resource{
		APIVersion: networkAPIVersion,
		Type:       vnetType,
		Name:       in.Names.VNet,
		Location:   arm.ParameterRef("location"),
		Tags:       defaultTags(in.Env),
		DependsOn: []string{
			arm.ResourceID(nsgType, in.Names.NSGApp),
			arm.ResourceID(nsgType, in.Names.NSGGateway),
		},
		Properties: properties{
			"addressSpace": properties{
				"addressPrefixes": []any{arm.ParameterRef("addressSpace")},
			},
			"subnets": []any{
				properties{
					"name": "snet-app",
					"properties": properties{
						"addressPrefix":        appSubnet,
						"networkSecurityGroup": properties{"id": arm.ResourceID(nsgType, in.Names.NSGApp)},
						"delegations": []any{
							properties{
								"name": "appservice-delegation",
								"properties": properties{
									"serviceName": "Microsoft.Web/serverFarms",
								},
							},
						},
					},
				},
				properties{
					"name": "snet-agw",
					"properties": properties{
						"addressPrefix":        gatewaySubnet,
						"networkSecurityGroup": properties{"id": arm.ResourceID(nsgType, in.Names.NSGGateway)},
					},
				},
				properties{
					"name": "snet-pe",
					"properties": properties{
						"addressPrefix":                     peSubnet,
						"privateEndpointNetworkPolicies":    "Disabled",
						"privateLinkServiceNetworkPolicies": "Enabled",
					},
				},
			},
		},
	}

	t.Append(appNSG, gatewayNSG, vnet)

	t.Outputs = map[string]arm.Output{
		"vnetId":                  {Type: "string", Value: arm.ResourceID(vnetType, in.Names.VNet)},
		"appSubnetId":             {Type: "string", Value: subnetID(in.Names.VNet, "snet-app")},
		"gatewaySubnetId":         {Type: "string", Value: subnetID(in.Names.VNet, "snet-agw")},
		"privateEndpointSubnetId": {Type: "string", Value: subnetID(in.Names.VNet, "snet-pe")},
	}

	return t, map[string]any{
		"location":     in.Location,
		"addressSpace": in.Defaults.AddressSpace,
	}, nil
}

func securityRule(name string, priority int, access, direction, sourcePrefix, destPortRange string) properties {
	return properties{
		"name": name,
		"properties": properties{
			"priority":                 priority,
			"access":                   access,
			"direction":                direction,
			"protocol":                 "*",
			"sourceAddressPrefix":      sourcePrefix,
			"sourcePortRange":          "*",
			"destinationAddressPrefix": "*",
			"destinationPortRange":     destPortRange,
		},
	}
}

func subnetID(vnetName, subnetName string) string {
	return arm.ResourceID("Microsoft.Network/virtualNetworks/subnets", vnetName, subnetName)
}

// subnetPrefix carves the nth /24 out of the environment's address space.
// The space must be a /16 or wider so the carved subnets stay inside it.
func subnetPrefix(addressSpace string, n int) (string, error) {
	var a, b, c, d, bits int
	if _, err := fmt.Sscanf(addressSpace, "%d.%d.%d.%d/%d", &a, &b, &c, &d, &bits); err != nil {
		return "", fmt.Errorf("parsing address space %q: %w", addressSpace, err)
	}
	if bits > 16 {
		return "", fmt.Errorf("address space %q too small to carve /24 subnets, need a /16 or wider", addressSpace)
	}
	if c+n > 255 {
		return "", fmt.Errorf("subnet %d does not fit in address space %q", n, addressSpace)
	}
	return fmt.Sprintf("%d.%d.%d.0/24", a, b, c+n), nil
}
