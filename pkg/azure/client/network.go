package client

import (
	"context"
	"fmt"
)

func (c *client) ListVirtualNetworks(ctx context.Context, resourceGroup string) ([]string, error) {
	var names []string

	pager := c.vnets.NewListPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing virtual networks in %s: %w", resourceGroup, err)
		}
		for _, vnet := range page.Value {
			if vnet.Name != nil {
				names = append(names, *vnet.Name)
			}
		}
	}
	return names, nil
}

func (c *client) DeleteVirtualNetwork(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.vnets.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("submitting delete of virtual network %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deleting virtual network %s: %w", name, err)
	}
	return nil
}

func (c *client) ListSecurityGroups(ctx context.Context, resourceGroup string) ([]string, error) {
	var names []string

	pager := c.nsgs.NewListPager(resourceGroup, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing network security groups in %s: %w", resourceGroup, err)
		}
		for _, nsg := range page.Value {
			if nsg.Name != nil {
				names = append(names, *nsg.Name)
			}
		}
	}
	return names, nil
}

func (c *client) DeleteSecurityGroup(ctx context.Context, resourceGroup, name string) error {
	poller, err := c.nsgs.BeginDelete(ctx, resourceGroup, name, nil)
	if err != nil {
		return fmt.Errorf("submitting delete of network security group %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deleting network security group %s: %w", name, err)
	}
	return nil
}
