package chartspec

import "encoding/json"

// ResolveDesign layers a caller's partial design overrides on top of
// the spec-derived design. The result is a plain JSON object so callers
// can override any field without knowing the full struct shape.
func ResolveDesign(spec *Specification, override map[string]any) map[string]any {
	return resolveOverride(DeriveDesign(spec), override)
}

// ResolveVizStrategy layers a caller's partial strategy overrides on
// top of the spec-derived strategy.
func ResolveVizStrategy(spec *Specification, override map[string]any) map[string]any {
	return resolveOverride(DeriveVizStrategy(spec), override)
}

func resolveOverride(derived any, override map[string]any) map[string]any {
	base := map[string]any{}
	if data, err := json.Marshal(derived); err == nil {
		_ = json.Unmarshal(data, &base)
	}
	return DeepMerge(base, override)
}

// DeepMerge overlays sources onto base, recursing into nested maps.
// Arrays are replaced wholesale with a copy, never merged element-wise.
// A nested map landing on a non-map target replaces it. Later sources
// win. The inputs are never mutated.
func DeepMerge(base map[string]any, sources ...map[string]any) map[string]any {
	output := make(map[string]any, len(base))
	for k, v := range base {
		output[k] = v
	}

	for _, source := range sources {
		if source == nil {
			continue
		}
		for key, value := range source {
			switch v := value.(type) {
			case []any:
				copied := make([]any, len(v))
				copy(copied, v)
				output[key] = copied
			case map[string]any:
				targetMap, ok := output[key].(map[string]any)
				if !ok {
					targetMap = map[string]any{}
				}
				output[key] = DeepMerge(targetMap, v)
			default:
				output[key] = value
			}
		}
	}

	return output
}
