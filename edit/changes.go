package edit

import (
	"encoding/json"
	"fmt"
)

// extractChanges diffs the well-known config properties so the user
// gets a readable summary of what regeneration touched.
func extractChanges(oldConfig, newConfig map[string]any) []string {
	var changes []string

	if oldType, newType := nestedValue(oldConfig, "chart", "type"), nestedValue(newConfig, "chart", "type"); oldType != newType {
		changes = append(changes, fmt.Sprintf("Chart type changed to %v", newType))
	}

	if nestedValue(oldConfig, "title", "text") != nestedValue(newConfig, "title", "text") {
		changes = append(changes, "Chart title updated")
	}

	if !jsonEqual(oldConfig["colors"], newConfig["colors"]) {
		changes = append(changes, "Color scheme updated")
	}

	if oldLen, newLen := sliceLen(oldConfig["series"]), sliceLen(newConfig["series"]); oldLen != newLen {
		changes = append(changes, fmt.Sprintf("Series count changed to %d", newLen))
	}

	if oldLegend, newLegend := nestedValue(oldConfig, "legend", "enabled"), nestedValue(newConfig, "legend", "enabled"); oldLegend != newLegend {
		if newLegend == true {
			changes = append(changes, "Legend shown")
		} else {
			changes = append(changes, "Legend hidden")
		}
	}

	if sliceLen(nestedValue(oldConfig, "yAxis", "plotLines")) != sliceLen(nestedValue(newConfig, "yAxis", "plotLines")) {
		changes = append(changes, "Reference lines updated")
	}

	if len(changes) == 0 {
		changes = append(changes, "Chart configuration updated")
	}
	return changes
}

func nestedValue(config map[string]any, keys ...string) any {
	current := any(config)
	for _, key := range keys {
		m, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current = m[key]
	}
	return current
}

func sliceLen(v any) int {
	if s, ok := v.([]any); ok {
		return len(s)
	}
	return 0
}

func jsonEqual(a, b any) bool {
	aData, aErr := json.Marshal(a)
	bData, bErr := json.Marshal(b)
	if aErr != nil || bErr != nil {
		return false
	}
	return string(aData) == string(bData)
}
