package client

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/reportal/deployator/pkg/azure"
)

func (c *client) ListResources(ctx context.Context, resourceGroup string, resourceType string) ([]azure.Resource, error) {
	options := &armresources.ClientListByResourceGroupOptions{}
	if len(resourceType) > 0 {
		options.Filter = to.Ptr(fmt.Sprintf("resourceType eq '%s'", resourceType))
	}

	var out []azure.Resource

	pager := c.resources.NewListByResourceGroupPager(resourceGroup, options)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing resources in %s: %w", resourceGroup, err)
		}
		for _, r := range page.Value {
			if r.ID == nil {
				continue
			}
			resource := azure.Resource{ID: *r.ID}
			if r.Name != nil {
				resource.Name = *r.Name
			}
			if r.Type != nil {
				resource.Type = *r.Type
			}
			out = append(out, resource)
		}
	}
	return out, nil
}

func (c *client) DeleteResourceByID(ctx context.Context, resourceID, apiVersion string) error {
	poller, err := c.resources.BeginDeleteByID(ctx, resourceID, apiVersion, nil)
	if err != nil {
		return fmt.Errorf("submitting delete of %s: %w", resourceID, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deleting %s: %w", resourceID, err)
	}
	return nil
}

func (c *client) DeleteResourceGroup(ctx context.Context, name string) error {
	poller, err := c.resourceGroups.BeginDelete(ctx, name, nil)
	if err != nil {
		return fmt.Errorf("submitting delete of resource group %s: %w", name, err)
	}
	if _, err := poller.PollUntilDone(ctx, nil); err != nil {
		return fmt.Errorf("deleting resource group %s: %w", name, err)
	}
	c.existence.Delete(name)
	return nil
}
