package arm

import (
	"fmt"
	"strings"
)

// Template expression helpers. These render the bracketed ARM expressions
// that are evaluated by the deployment engine, not by this program.

func ParameterRef(name string) string {
	return fmt.Sprintf("[parameters('%s')]", name)
}

func VariableRef(name string) string {
	return fmt.Sprintf("[variables('%s')]", name)
}

func ResourceGroupLocation() string {
	return "[resourceGroup().location]"
}

// ResourceID renders a resourceId() expression for a resource declared in
// the same template or resource group.
func ResourceID(resourceType string, names ...string) string {
	quoted := make([]string, 0, len(names)+1)
	quoted = append(quoted, fmt.Sprintf("'%s'", resourceType))
	for _, n := range names {
		quoted = append(quoted, fmt.Sprintf("'%s'", n))
	}
	return fmt.Sprintf("[resourceId(%s)]", strings.Join(quoted, ", "))
}

// Reference renders a reference() expression against a sibling resource,
// optionally selecting a property path from the resolved object.
func Reference(resourceType, name, property string) string {
	ref := fmt.Sprintf("reference(resourceId('%s', '%s'))", resourceType, name)
	if len(property) > 0 {
		ref = fmt.Sprintf("%s.%s", ref, property)
	}
	return fmt.Sprintf("[%s]", ref)
}

// ReferenceFull is Reference with an explicit API version, required when the
// referenced resource is not declared in the same template.
func ReferenceFull(resourceType, name, apiVersion, property string) string {
	ref := fmt.Sprintf("reference(resourceId('%s', '%s'), '%s', 'Full')", resourceType, name, apiVersion)
	if len(property) > 0 {
		ref = fmt.Sprintf("%s.%s", ref, property)
	}
	return fmt.Sprintf("[%s]", ref)
}
