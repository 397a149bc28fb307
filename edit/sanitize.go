package edit

import "regexp"

var (
	functionValuePattern = regexp.MustCompile(`:\s*function\s*\([^)]*\)\s*\{[\s\S]*?\}`)
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

// SanitizeChartJSON makes model-emitted chart JSON parseable. Models
// occasionally leak JavaScript formatter functions into what should be
// pure JSON; those become null, and the trailing commas left behind
// are removed.
func SanitizeChartJSON(text string) string {
	if text == "" {
		return text
	}
	sanitized := functionValuePattern.ReplaceAllString(text, ": null")
	return trailingCommaPattern.ReplaceAllString(sanitized, "$1")
}
