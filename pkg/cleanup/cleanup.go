// Package cleanup tears down deployed resources. Deletion is best-effort:
// every failure is logged as a warning and the run continues, matching the
// original operational scripts. The resource group itself is only removed
// on explicit request.
package cleanup

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/config"
	"github.com/reportal/deployator/pkg/metrics"
)

// typedDeleteOrder lists resource types deleted through the generic sweep,
// dependents first. NSGs come after the VNet: a subnet association blocks
// NSG deletion until the VNet is gone.
var typedDeleteOrder = []struct {
	resourceType string
	apiVersion   string
}{
	{"Microsoft.Network/applicationGateways", "2023-09-01"},
	{"Microsoft.Network/publicIPAddresses", "2023-09-01"},
	{"Microsoft.Web/sites", "2023-12-01"},
	{"Microsoft.Web/serverfarms", "2023-12-01"},
	{"Microsoft.Insights/components", "2020-02-02"},
	{"Microsoft.OperationalInsights/workspaces", "2022-10-01"},
	{"Microsoft.Sql/servers", "2022-05-01-preview"},
	{"Microsoft.Storage/storageAccounts", "2023-01-01"},
}

// leftover network types swept after the typed passes
var leftoverTypes = []struct {
	resourceType string
	apiVersion   string
}{
	{"Microsoft.Network/privateEndpoints", "2023-09-01"},
	{"Microsoft.Network/networkInterfaces", "2023-09-01"},
	{"Microsoft.Network/privateDnsZones", "2020-06-01"},
}

type Destroyer struct {
	Azure  azure.Client
	Config *config.Config

	// DeleteResourceGroup additionally removes the group once emptied.
	DeleteResourceGroup bool
}

func New(azureClient azure.Client, cfg *config.Config) *Destroyer {
	return &Destroyer{
		Azure:  azureClient,
		Config: cfg,
	}
}

// Destroy removes deployed resources from the configured resource group.
// With dry-run set, only lists what would be deleted.
func (d *Destroyer) Destroy(ctx context.Context) error {
	logger := log.WithFields(log.Fields{
		"environment":    d.Config.Environment,
		"resource_group": d.Config.ResourceGroup,
	})

	if err := d.Azure.EnsureAuthenticated(ctx); err != nil {
		return err
	}
	exists, err := d.Azure.ResourceGroupExists(ctx, d.Config.ResourceGroup)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("resource group %s does not exist", d.Config.ResourceGroup)
	}

	// read-only inventory, fanned out
	var vnets, nsgs []string
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		vnets, err = d.Azure.ListVirtualNetworks(gctx, d.Config.ResourceGroup)
		return err
	})
	group.Go(func() error {
		var err error
		nsgs, err = d.Azure.ListSecurityGroups(gctx, d.Config.ResourceGroup)
		return err
	})
	if err := group.Wait(); err != nil {
		return err
	}

	// deletes stay sequential; ordering matters to ARM
	for _, entry := range typedDeleteOrder {
		d.sweepType(ctx, logger, entry.resourceType, entry.apiVersion)
	}

	for _, name := range vnets {
		if d.dryRun(logger, "virtual network", name) {
			continue
		}
		if err := d.Azure.DeleteVirtualNetwork(ctx, d.Config.ResourceGroup, name); err != nil {
			logger.Warnf("deleting virtual network %s: %v", name, err)
			continue
		}
		metrics.ResourcesDeletedTotal.Inc()
		logger.Infof("deleted virtual network %s", name)
	}

	for _, name := range nsgs {
		if d.dryRun(logger, "network security group", name) {
			continue
		}
		if err := d.Azure.DeleteSecurityGroup(ctx, d.Config.ResourceGroup, name); err != nil {
			logger.Warnf("deleting network security group %s: %v", name, err)
			continue
		}
		metrics.ResourcesDeletedTotal.Inc()
		logger.Infof("deleted network security group %s", name)
	}

	for _, entry := range leftoverTypes {
		d.sweepType(ctx, logger, entry.resourceType, entry.apiVersion)
	}

	if !d.DeleteResourceGroup {
		logger.Info("resource group preserved, pass --delete-resource-group to remove it")
		return nil
	}
	if d.Config.DryRun {
		logger.Infof("dry-run: would delete resource group %s", d.Config.ResourceGroup)
		return nil
	}
	if err := d.Azure.DeleteResourceGroup(ctx, d.Config.ResourceGroup); err != nil {
		return err
	}
	logger.Infof("deleted resource group %s", d.Config.ResourceGroup)
	return nil
}

func (d *Destroyer) sweepType(ctx context.Context, logger *log.Entry, resourceType, apiVersion string) {
	resources, err := d.Azure.ListResources(ctx, d.Config.ResourceGroup, resourceType)
	if err != nil {
		logger.Warnf("listing %s: %v", resourceType, err)
		return
	}

	for _, resource := range resources {
		if d.dryRun(logger, strings.ToLower(shortType(resourceType)), resource.Name) {
			continue
		}
		if err := d.Azure.DeleteResourceByID(ctx, resource.ID, apiVersion); err != nil {
			logger.Warnf("deleting %s: %v", resource.ID, err)
			continue
		}
		metrics.ResourcesDeletedTotal.Inc()
		logger.Infof("deleted %s %s", shortType(resourceType), resource.Name)
	}
}

func (d *Destroyer) dryRun(logger *log.Entry, kind, name string) bool {
	if d.Config.DryRun {
		logger.Infof("dry-run: would delete %s %s", kind, name)
		return true
	}
	return false
}

func shortType(resourceType string) string {
	if i := strings.LastIndex(resourceType, "/"); i >= 0 {
		return resourceType[i+1:]
	}
	return resourceType
}
