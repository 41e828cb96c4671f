package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/retry"
)

const pollRetryBase = 5 * time.Second

func deployment(template, parameters map[string]any) armresources.Deployment {
	return armresources.Deployment{
		Properties: &armresources.DeploymentProperties{
			Mode:       to.Ptr(armresources.DeploymentModeIncremental),
			Template:   template,
			Parameters: parameters,
		},
	}
}

func (c *client) ValidateDeployment(ctx context.Context, resourceGroup, name string, template, parameters map[string]any) error {
	poller, err := c.deployments.BeginValidate(ctx, resourceGroup, name, deployment(template, parameters), nil)
	if err != nil {
		return fmt.Errorf("submitting validation for deployment %s: %w", name, err)
	}

	resp, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return fmt.Errorf("validating deployment %s: %w", name, err)
	}

	if resp.Error != nil && resp.Error.Code != nil {
		message := ""
		if resp.Error.Message != nil {
			message = *resp.Error.Message
		}
		return fmt.Errorf("deployment %s failed validation: %s: %s", name, *resp.Error.Code, message)
	}
	return nil
}

func (c *client) CreateDeployment(ctx context.Context, resourceGroup, name string, template, parameters map[string]any) (azure.Outputs, error) {
	poller, err := c.deployments.BeginCreateOrUpdate(ctx, resourceGroup, name, deployment(template, parameters), nil)
	if err != nil {
		return nil, fmt.Errorf("submitting deployment %s: %w", name, err)
	}

	var resp armresources.DeploymentsClientCreateOrUpdateResponse

	// ARM occasionally drops a poll request on long deployments; only the
	// polling is retried, the deployment itself was already submitted.
	err = retry.Fibonacci(pollRetryBase).WithMaxDuration(2 * time.Minute).Do(ctx, func(ctx context.Context) error {
		resp, err = poller.PollUntilDone(ctx, nil)
		if err != nil && transient(err) {
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("deploying %s: %w", name, err)
	}

	if resp.Properties == nil {
		return azure.Outputs{}, nil
	}
	return azure.ParseOutputs(resp.Properties.Outputs)
}

func (c *client) DeploymentOutputs(ctx context.Context, resourceGroup, name string) (azure.Outputs, error) {
	resp, err := c.deployments.Get(ctx, resourceGroup, name, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching deployment %s: %w", name, err)
	}
	if resp.Properties == nil {
		return azure.Outputs{}, nil
	}
	return azure.ParseOutputs(resp.Properties.Outputs)
}

func transient(err error) bool {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode == 429 || respErr.StatusCode >= 500
	}
	return false
}
