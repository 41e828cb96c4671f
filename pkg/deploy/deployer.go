// Package deploy drives the stack modules through Azure Resource Manager:
// precondition checks, template validation, deployment, output collection,
// and the final role-assignment step.
package deploy

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/reportal/deployator/pkg/arm"
	"github.com/reportal/deployator/pkg/azure"
	"github.com/reportal/deployator/pkg/config"
	"github.com/reportal/deployator/pkg/metrics"
	"github.com/reportal/deployator/pkg/stack"
)

type Deployer struct {
	Azure  azure.Client
	Config *config.Config

	// Confirm asks the operator before mutating; replaced in tests.
	// Defaults to a terminal y/N prompt.
	Confirm func(prompt string) bool
}

func New(azureClient azure.Client, cfg *config.Config) *Deployer {
	return &Deployer{
		Azure:  azureClient,
		Config: cfg,
		Confirm: func(prompt string) bool {
			return Confirm(os.Stdin, os.Stderr, prompt)
		},
	}
}

// Validate runs ARM validation for the named modules (or the full stack)
// without ever mutating state.
func (d *Deployer) Validate(tx Transaction, moduleNames []string) error {
	modules, includeRBAC, err := resolveModules(moduleNames)
	if err != nil {
		return err
	}

	if err := d.preconditions(tx); err != nil {
		return err
	}

	for _, module := range modules {
		moduleTx := tx.WithModule(module.Name)
		if err := d.hydrateOutputs(moduleTx, module); err != nil {
			moduleTx.Logger.Debugf("dependency outputs unavailable: %v", err)
		}
		if err := d.validateModule(moduleTx, module); err != nil {
			return err
		}
	}
	if includeRBAC {
		tx.Logger.Info("role assignments have no validation step, checked at deploy time")
	}
	return nil
}

// Deploy deploys the named modules (or the full stack) in graph order.
// With dry-run set, only validation calls are issued.
func (d *Deployer) Deploy(tx Transaction, moduleNames []string) error {
	modules, includeRBAC, err := resolveModules(moduleNames)
	if err != nil {
		return err
	}

	if err := d.preconditions(tx); err != nil {
		return err
	}

	if !d.Config.DryRun && !d.Config.Yes {
		names := make([]string, 0, len(modules))
		for _, m := range modules {
			names = append(names, m.Name)
		}
		if includeRBAC {
			names = append(names, stack.RBACModuleName)
		}
		prompt := fmt.Sprintf("Deploy [%s] to resource group %s in subscription %s? [y/N] ",
			strings.Join(names, " "), d.Config.ResourceGroup, d.Config.Subscription)
		if !d.Confirm(prompt) {
			return fmt.Errorf("aborted by operator")
		}
	}

	for _, module := range modules {
		if err := d.deployModule(tx.WithModule(module.Name), module); err != nil {
			return err
		}
	}

	if includeRBAC {
		if err := d.assignRoles(tx.WithModule(stack.RBACModuleName)); err != nil {
			return err
		}
	}
	return nil
}

// Outputs collects the outputs of every previously run module deployment.
func (d *Deployer) Outputs(tx Transaction) (azure.Outputs, error) {
	if err := d.preconditions(tx); err != nil {
		return nil, err
	}

	all := azure.Outputs{}
	for _, module := range stack.Graph() {
		name := stack.DeploymentName(d.Config.NamePrefix, d.Config.Env(), module.Name)
		outputs, err := d.Azure.DeploymentOutputs(tx.Ctx, d.Config.ResourceGroup, name)
		if err != nil {
			tx.Logger.WithField("module", module.Name).Debugf("no outputs: %v", err)
			continue
		}
		all.Merge(outputs)
	}
	return all, nil
}

// preconditions mirror the shell scripts' up-front checks: authenticated
// session and existing resource group, before anything else happens.
func (d *Deployer) preconditions(tx Transaction) error {
	if err := d.Azure.EnsureAuthenticated(tx.Ctx); err != nil {
		return err
	}

	exists, err := d.Azure.ResourceGroupExists(tx.Ctx, d.Config.ResourceGroup)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("resource group %s does not exist in subscription %s, create it first",
			d.Config.ResourceGroup, d.Config.Subscription)
	}
	return nil
}

func (d *Deployer) validateModule(tx Transaction, module stack.Module) error {
	template, parameters, err := d.render(tx, module)
	if err != nil {
		return err
	}

	name := stack.DeploymentName(d.Config.NamePrefix, d.Config.Env(), module.Name)
	tx.Logger.Infof("validating deployment %s", name)

	err = d.Azure.ValidateDeployment(tx.Ctx, d.Config.ResourceGroup, name, template, parameters)
	result := metrics.ResultSucceeded
	if err != nil {
		result = metrics.ResultFailed
	}
	metrics.ValidationsTotal.WithLabelValues(module.Name, result).Inc()
	return err
}

func (d *Deployer) deployModule(tx Transaction, module stack.Module) error {
	if err := d.hydrateOutputs(tx, module); err != nil {
		// a dry run must still reach validation on a fresh environment;
		// generators report which inputs are actually missing
		if !d.Config.DryRun {
			return err
		}
		tx.Logger.Debugf("dependency outputs unavailable: %v", err)
	}

	if err := d.validateModule(tx, module); err != nil {
		return err
	}
	if d.Config.DryRun {
		tx.Logger.Info("dry-run: skipping deployment")
		return nil
	}

	template, parameters, err := d.render(tx, module)
	if err != nil {
		return err
	}

	name := stack.DeploymentName(d.Config.NamePrefix, d.Config.Env(), module.Name)
	tx.Logger.Infof("deploying %s", name)

	start := time.Now()
	outputs, err := d.Azure.CreateDeployment(tx.Ctx, d.Config.ResourceGroup, name, template, parameters)
	metrics.ObserveDeployment(module.Name, start, err)
	if err != nil {
		return err
	}

	tx.Outputs.Merge(outputs)
	tx.Logger.WithField("duration", time.Since(start).Round(time.Second)).Info("deployment succeeded")
	return nil
}

func (d *Deployer) assignRoles(tx Transaction) error {
	if err := d.hydrateOutputs(tx, stack.Module{Needs: []string{"appservice"}}); err != nil {
		return err
	}

	assignments, err := stack.Assignments(tx.Outputs)
	if err != nil {
		return err
	}

	scope := stack.Scope(d.Config.Subscription, d.Config.ResourceGroup)
	for _, a := range assignments {
		logger := tx.Logger.WithFields(map[string]any{
			"principal": a.Principal,
			"role":      a.Role,
		})
		if d.Config.DryRun {
			logger.Info("dry-run: skipping role assignment")
			continue
		}

		created, err := d.Azure.EnsureRoleAssignment(tx.Ctx, scope, a.PrincipalID, a.Role)
		if err != nil {
			return err
		}
		metrics.RoleAssignmentsTotal.Inc()
		if created {
			logger.Info("role assigned")
		} else {
			logger.Info("role assignment already in place")
		}
	}
	return nil
}

// render generates a module's template and resolves its parameter values,
// including securestring values fetched from Key Vault.
func (d *Deployer) render(tx Transaction, module stack.Module) (map[string]any, map[string]any, error) {
	secure, err := d.secureValues(tx, module)
	if err != nil {
		return nil, nil, err
	}

	in := stack.Input{
		Env:      d.Config.Env(),
		Defaults: d.Config.Env().Defaults(),
		Names:    stack.NewNames(d.Config.NamePrefix, d.Config.Env()),
		Location: d.Config.Location,
		Outputs:  tx.Outputs,
		Secure:   secure,
	}

	template, defaults, err := module.Generate(in)
	if err != nil {
		return nil, nil, fmt.Errorf("generating %s template: %w", module.Name, err)
	}

	doc, err := template.Map()
	if err != nil {
		return nil, nil, err
	}

	parameters := arm.DeploymentParameters(defaults, tx.ParameterFile)
	return doc, parameters, nil
}

func (d *Deployer) secureValues(tx Transaction, module stack.Module) (map[string]string, error) {
	if len(module.SecureParameters) == 0 {
		return nil, nil
	}

	vaultURI, err := d.Azure.VaultURI(tx.Ctx, d.Config.ResourceGroup, d.Config.KeyVault)
	if err != nil {
		return nil, err
	}

	secure := make(map[string]string, len(module.SecureParameters))
	for parameter, secret := range module.SecureParameters {
		value, err := d.Azure.GetSecret(tx.Ctx, vaultURI, secret)
		if err != nil {
			return nil, fmt.Errorf("resolving secure parameter %s: %w", parameter, err)
		}
		secure[parameter] = value
	}
	return secure, nil
}

// hydrateOutputs loads the outputs of dependency modules deployed in
// earlier runs, so single-module deploys still resolve their inputs.
func (d *Deployer) hydrateOutputs(tx Transaction, module stack.Module) error {
	for _, need := range module.Needs {
		name := stack.DeploymentName(d.Config.NamePrefix, d.Config.Env(), need)
		outputs, err := d.Azure.DeploymentOutputs(tx.Ctx, d.Config.ResourceGroup, name)
		if err != nil {
			return fmt.Errorf("loading outputs of dependency %s (was it deployed?): %w", need, err)
		}
		// current-run outputs win over those fetched from past deployments
		for k, v := range outputs {
			if _, ok := tx.Outputs[k]; !ok {
				tx.Outputs[k] = v
			}
		}
	}
	return nil
}

// resolveModules maps the command line's module names onto the graph,
// preserving graph order regardless of the order given. No names means the
// whole stack including role assignments.
func resolveModules(names []string) ([]stack.Module, bool, error) {
	if len(names) == 0 {
		return stack.Graph(), true, nil
	}

	requested := map[string]bool{}
	includeRBAC := false
	for _, name := range names {
		if name == stack.RBACModuleName {
			includeRBAC = true
			continue
		}
		if _, ok := stack.Lookup(name); !ok {
			return nil, false, fmt.Errorf("unknown module %q, valid modules: %s",
				name, strings.Join(stack.ModuleNames(), ", "))
		}
		requested[name] = true
	}

	var modules []stack.Module
	for _, module := range stack.Graph() {
		if requested[module.Name] {
			modules = append(modules, module)
		}
	}
	return modules, includeRBAC, nil
}

// Confirm prints a y/N prompt and reads one answer line. Shared by every
// command that mutates.
func Confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}
