// Package model provides capability-based model selection for pipeline agents.
// Instead of hardcoding model names, agents specify capabilities (analysis, styling, fast)
// and the registry resolves them to available models with fallback chains.
package model

// Capability represents a semantic capability for model selection.
// Instead of specifying "gpt-4o", agents specify "analysis" or "fast".
type Capability string

const (
	// CapabilityAnalysis is for deep reasoning over data: chart recommendations,
	// full configuration regeneration.
	CapabilityAnalysis Capability = "analysis"

	// CapabilityStyling is for visual-specification work: strategy and design directives.
	CapabilityStyling Capability = "styling"

	// CapabilityFast is for quick structured tasks: data-shape analysis, patch planning.
	CapabilityFast Capability = "fast"
)

// AgentCapabilities maps pipeline agent names to their default capability.
// Used when no explicit capability or model is specified.
var AgentCapabilities = map[string]Capability{
	"data-transformer":  CapabilityFast,
	"chart-analyst":     CapabilityAnalysis,
	"viz-strategist":    CapabilityStyling,
	"design-consultant": CapabilityStyling,
	"patch-planner":     CapabilityFast,
	"chart-editor":      CapabilityAnalysis,
}

// CapabilityForAgent returns the default capability for a given agent.
// Returns CapabilityFast as fallback for unknown agents.
func CapabilityForAgent(agent string) Capability {
	if cap, ok := AgentCapabilities[agent]; ok {
		return cap
	}
	return CapabilityFast
}

// IsValid checks if a capability string is a known capability.
func (c Capability) IsValid() bool {
	switch c {
	case CapabilityAnalysis, CapabilityStyling, CapabilityFast:
		return true
	}
	return false
}

// String returns the string representation of the capability.
func (c Capability) String() string {
	return string(c)
}

// ParseCapability converts a string to a Capability, returning empty for invalid values.
func ParseCapability(s string) Capability {
	cap := Capability(s)
	if cap.IsValid() {
		return cap
	}
	return ""
}
