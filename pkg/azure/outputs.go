package azure

import (
	"fmt"
)

// Outputs holds deployment output values keyed by output name. Later stack
// modules consume the outputs of earlier ones through this map.
type Outputs map[string]string

// ParseOutputs flattens the raw outputs object returned by the deployments
// API ({"name": {"type": ..., "value": ...}}) into name/value pairs.
func ParseOutputs(raw any) (Outputs, error) {
	out := Outputs{}
	if raw == nil {
		return out, nil
	}

	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected outputs shape %T", raw)
	}

	for name, entry := range entries {
		wrapper, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected shape %T for output %q", entry, name)
		}
		switch value := wrapper["value"].(type) {
		case string:
			out[name] = value
		case float64:
			out[name] = fmt.Sprintf("%v", value)
		case bool:
			out[name] = fmt.Sprintf("%t", value)
		default:
			// arrays/objects are not produced by any module template
			return nil, fmt.Errorf("unsupported value type %T for output %q", value, name)
		}
	}
	return out, nil
}

func (o Outputs) Merge(other Outputs) {
	for k, v := range other {
		o[k] = v
	}
}
