// Package stack declares the reporting application's infrastructure as a
// set of modules, each generating one ARM deployment template. Modules are
// ordered leaves-first; later modules consume the deployment outputs of
// earlier ones.
package stack

import (
	"fmt"

	"github.com/reportal/deployator/pkg/arm"
	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/config"
)

// properties shortens the ad-hoc resource property documents below.
type properties = map[string]any

type Input struct {
	Env      config.Env
	Defaults config.Defaults
	Names    Names
	Location string
	// Outputs accumulated from modules deployed earlier in the graph.
	Outputs azure.Outputs
	// Secure holds values for securestring parameters, resolved from Key
	// Vault by the deployer. Never logged.
	Secure map[string]string
}

// Generator produces a module's template and its default parameter values.
// Parameter file entries override the defaults.
type Generator func(in Input) (*arm.Template, map[string]any, error)

type Module struct {
	Name  string
	Needs []string
	// SecureParameters maps securestring parameter names to the Key Vault
	// secret each is sourced from.
	SecureParameters map[string]string
	Generate         Generator
}

// Graph returns the template modules in deployment order. Role assignments
// (the rbac step) run after all of these, see Assignments.
func Graph() []Module {
	return []Module{
		{Name: "network", Generate: Network},
		{Name: "storage", Needs: []string{"network"}, Generate: Storage},
		{
			Name:  "database",
			Needs: []string{"network"},
			SecureParameters: map[string]string{
				"administratorLoginPassword": "sql-admin-password",
			},
			Generate: Database,
		},
		{Name: "monitoring", Needs: []string{"network"}, Generate: Monitoring},
		{Name: "appservice", Needs: []string{"network", "storage", "database", "monitoring"}, Generate: AppService},
		{Name: "gateway", Needs: []string{"network", "appservice"}, Generate: Gateway},
	}
}

// RBACModuleName addresses the role-assignment step on the command line,
// alongside the template module names.
const RBACModuleName = "rbac"

func ModuleNames() []string {
	var names []string
	for _, m := range Graph() {
		names = append(names, m.Name)
	}
	return append(names, RBACModuleName)
}

func Lookup(name string) (Module, bool) {
	for _, m := range Graph() {
		if m.Name == name {
			return m, true
		}
	}
	return Module{}, false
}

// DeploymentName is the ARM deployment name for a module; outputs of past
// runs are addressed through it.
func DeploymentName(prefix string, env config.Env, module string) string {
	return fmt.Sprintf("%s-%s-%s", prefix, env, module)
}

// Names carries the concrete resource names for one environment.
type Names struct {
	VNet           string
	NSGApp         string
	NSGGateway     string
	StorageAccount string
	SQLServer      string
	SQLDatabase    string
	LogWorkspace   string
	AppInsights    string
	Plan           string
	Frontend       string
	Backend        string
	Gateway        string
	PublicIP       string
}

func NewNames(prefix string, env config.Env) Names {
	qualified := fmt.Sprintf("%s-%s", prefix, env)
	return Names{
		VNet:           qualified + "-vnet",
		NSGApp:         qualified + "-app-nsg",
		NSGGateway:     qualified + "-agw-nsg",
		StorageAccount: fmt.Sprintf("%s%sst", prefix, env), // storage account names allow no separators
		SQLServer:      qualified + "-sql",
		SQLDatabase:    qualified + "-sqldb",
		LogWorkspace:   qualified + "-log",
		AppInsights:    qualified + "-appi",
		Plan:           qualified + "-plan",
		Frontend:       qualified + "-app-frontend",
		Backend:        qualified + "-app-backend",
		Gateway:        qualified + "-agw",
		PublicIP:       qualified + "-agw-pip",
	}
}

func defaultTags(env config.Env) map[string]string {
	return map[string]string{
		"environment": string(env),
		"managed-by":  "deployator",
		"workload":    "reporting",
	}
}

// requireOutputs verifies the outputs a generator consumes are present,
// so a partial single-module deploy fails before touching ARM.
func requireOutputs(in Input, keys ...string) error {
	for _, key := range keys {
		if len(in.Outputs[key]) == 0 {
			return fmt.Errorf("missing output %q, deploy the dependency modules first", key)
		}
	}
	return nil
}
