package chartspec

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// AgentOutputs carries the raw prose produced by the styling agents.
type AgentOutputs struct {
	VizStrategist    string
	DesignConsultant string
	ChartAnalyst     string
}

var (
	fencedJSONPattern = regexp.MustCompile("```json\\s*([\\s\\S]*?)\\s*```")

	slideTitlePattern = regexp.MustCompile(`(?i)slide title.*?(\d+)pt`)
	anyTitlePattern   = regexp.MustCompile(`(?i)title.*?(\d+)pt`)
	chartTitlePattern = regexp.MustCompile(`(?i)chart title.*?(\d+)pt`)
	axisLabelPattern  = regexp.MustCompile(`(?i)axis.*?label.*?(\d+)pt`)
	dataLabelPattern  = regexp.MustCompile(`(?i)data label.*?(\d+)pt`)

	annotationPattern = regexp.MustCompile(`(?i)annotation.*?["']([^"']+)["']`)
)

// Parse distills a full Specification from the styling agents' prose.
// Every section has a default, so Parse never fails; it only gets more
// specific when the text supports it.
func Parse(outputs AgentOutputs) *Specification {
	spec := &Specification{}

	chartType, variant := extractChartType(outputs.VizStrategist, outputs.ChartAnalyst)
	spec.ChartType = chartType
	spec.Variant = variant

	paletteName := detectPalette(outputs.DesignConsultant)
	palette := LookupPalette(paletteName)
	spec.Colors.Palette = paletteName
	spec.Colors.Primary = palette.Primary
	spec.Colors.Accents = palette.Accents
	spec.Colors.Grays = palette.Grays

	fillTypography(spec, outputs.DesignConsultant)
	fillSpacing(spec)
	fillDataLabels(spec, outputs.VizStrategist, outputs.DesignConsultant)
	fillAxes(spec)
	spec.ReferenceLines = extractReferenceLines(outputs.VizStrategist)
	spec.Annotations = extractAnnotations(outputs.VizStrategist)
	fillLegend(spec, outputs.VizStrategist, outputs.DesignConsultant)
	fillExport(spec, outputs.VizStrategist)

	return spec
}

// extractChartType looks for a fenced JSON block naming the chart type,
// then falls back to keyword matching over the combined text.
func extractChartType(vizOutput, analystOutput string) (string, string) {
	combined := strings.ToLower(vizOutput + " " + analystOutput)

	if m := fencedJSONPattern.FindStringSubmatch(combined); m != nil {
		var doc struct {
			ChartType         string `json:"charttype"`
			Variant           string `json:"variant"`
			RecommendedCharts []struct {
				Type    string `json:"type"`
				Variant string `json:"variant"`
			} `json:"recommendedcharts"`
		}
		if err := json.Unmarshal([]byte(m[1]), &doc); err == nil {
			if doc.ChartType != "" {
				return doc.ChartType, doc.Variant
			}
			if len(doc.RecommendedCharts) > 0 && doc.RecommendedCharts[0].Type != "" {
				return doc.RecommendedCharts[0].Type, doc.RecommendedCharts[0].Variant
			}
		}
	}

	switch {
	case strings.Contains(combined, "waterfall"):
		return "waterfall", ""
	case strings.Contains(combined, "combo"), strings.Contains(combined, "combination"):
		return "combo", ""
	case strings.Contains(combined, "stacked bar"), strings.Contains(combined, "stacked column"):
		return "bar", "stacked"
	case strings.Contains(combined, "grouped bar"), strings.Contains(combined, "clustered"):
		return "bar", "grouped"
	case strings.Contains(combined, "bar chart"), strings.Contains(combined, "bar graph"):
		return "bar", ""
	case strings.Contains(combined, "column chart"):
		return "bar", ""
	case strings.Contains(combined, "line chart"), strings.Contains(combined, "line graph"):
		return "line", ""
	case strings.Contains(combined, "area chart"):
		return "area", ""
	case strings.Contains(combined, "scatter"):
		return "scatter", ""
	case strings.Contains(combined, "pie chart"):
		return "pie", ""
	case strings.Contains(combined, "donut"):
		return "donut", ""
	default:
		return "bar", ""
	}
}

// detectPalette identifies the consulting firm style from firm names or
// signature brand hex codes. McKinsey is the house default.
func detectPalette(designOutput string) string {
	output := strings.ToLower(designOutput)

	switch {
	case strings.Contains(output, "bcg"), strings.Contains(output, "#0033a0"):
		return "bcg"
	case strings.Contains(output, "bain"), strings.Contains(output, "#c8102e"):
		return "bain"
	case strings.Contains(output, "banking"), strings.Contains(output, "investment bank"), strings.Contains(output, "#1c2833"):
		return "banking"
	default:
		return "mckinsey"
	}
}

func extractPtSize(pattern *regexp.Regexp, text string) int {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

func fillTypography(spec *Specification, designOutput string) {
	spec.Typography.SlideTitle = FontSpec{Size: 28, Weight: 700, Color: "#2C2C2C"}
	spec.Typography.ChartTitle = FontSpec{Size: 20, Weight: 600, Color: "#2C2C2C"}
	spec.Typography.AxisLabels = FontSpec{Size: 12, Weight: 500, Color: "#4A4A4A"}
	spec.Typography.DataLabels = FontSpec{Size: 11, Weight: 500, Color: "#2C2C2C"}
	spec.Typography.Annotations = FontSpec{Size: 10, Weight: 400, Color: "#4A4A4A"}
	spec.Typography.Footnotes = FontSpec{Size: 9, Weight: 400, Color: "#737373"}

	if size := extractPtSize(slideTitlePattern, designOutput); size > 0 {
		spec.Typography.SlideTitle.Size = size
	} else if size := extractPtSize(anyTitlePattern, designOutput); size > 0 {
		spec.Typography.SlideTitle.Size = size
	}
	if size := extractPtSize(chartTitlePattern, designOutput); size > 0 {
		spec.Typography.ChartTitle.Size = size
	}
	if size := extractPtSize(axisLabelPattern, designOutput); size > 0 {
		spec.Typography.AxisLabels.Size = size
	}
	if size := extractPtSize(dataLabelPattern, designOutput); size > 0 {
		spec.Typography.DataLabels.Size = size
	}
}

func fillSpacing(spec *Specification) {
	spec.Spacing.Margins = Margins{Top: 60, Right: 80, Bottom: 80, Left: 80}
	spec.Spacing.Padding = 20
	spec.Spacing.BarWidth = 65
	spec.Spacing.BarGap = 8
}

func fillDataLabels(spec *Specification, vizOutput, designOutput string) {
	combined := strings.ToLower(vizOutput + " " + designOutput)

	show := strings.Contains(combined, "show data label") ||
		strings.Contains(combined, "label all") ||
		strings.Contains(combined, "display values") ||
		!strings.Contains(combined, "no data label")

	position := "top"
	if strings.Contains(combined, "inside") {
		position = "inside"
	}
	if strings.Contains(combined, "center") {
		position = "center"
	}
	if strings.Contains(combined, "end") {
		position = "end"
	}

	spec.DataLabels.Show = show
	spec.DataLabels.Position = position
	spec.DataLabels.Format = "$0.0a"
	spec.DataLabels.FontSize = 11
	spec.DataLabels.FontWeight = 500
}

func fillAxes(spec *Specification) {
	spec.Axes.XAxis = AxisSpec{Show: true, FontSize: 12, TickSize: 10, Grid: false}
	spec.Axes.YAxis = AxisSpec{Show: true, FontSize: 12, TickSize: 10, Grid: true, StartAtZero: true}
	spec.Axes.GridStyle = GridStyle{
		Color:           "#E5E5E5",
		Opacity:         0.6,
		StrokeWidth:     1,
		StrokeDasharray: "3 3",
	}
}

// extractReferenceLines finds target and average line requests. Values
// are zero here; renderers compute them from the data.
func extractReferenceLines(vizOutput string) []ReferenceLine {
	output := strings.ToLower(vizOutput)
	lines := []ReferenceLine{}

	if strings.Contains(output, "target line") || strings.Contains(output, "target:") {
		lines = append(lines, ReferenceLine{
			Label:           "Target",
			Axis:            "y",
			Color:           "#737373",
			StrokeWidth:     1.5,
			StrokeDasharray: "5 5",
		})
	}
	if strings.Contains(output, "average line") || strings.Contains(output, "avg:") {
		lines = append(lines, ReferenceLine{
			Label:           "Average",
			Axis:            "y",
			Color:           "#4A4A4A",
			StrokeWidth:     1.5,
			StrokeDasharray: "5 5",
		})
	}

	return lines
}

func extractAnnotations(vizOutput string) []Annotation {
	annotations := []Annotation{}
	for _, m := range annotationPattern.FindAllStringSubmatch(vizOutput, -1) {
		annotations = append(annotations, Annotation{
			Text:     m[1],
			Position: "top",
			FontSize: 10,
			Color:    "#4A4A4A",
		})
	}
	return annotations
}

func fillLegend(spec *Specification, vizOutput, designOutput string) {
	combined := strings.ToLower(vizOutput + " " + designOutput)

	spec.Legend.Show = !strings.Contains(combined, "no legend") && !strings.Contains(combined, "direct label")

	position := "top-right"
	if strings.Contains(combined, "legend bottom") || strings.Contains(combined, "bottom legend") {
		position = "bottom"
	}
	if strings.Contains(combined, "legend top") || strings.Contains(combined, "top legend") {
		position = "top"
	}
	spec.Legend.Position = position
	spec.Legend.Align = "right"
	spec.Legend.FontSize = 11
}

func fillExport(spec *Specification, vizOutput string) {
	output := strings.ToLower(vizOutput)

	is16x9 := strings.Contains(output, "16:9") || !strings.Contains(output, "4:3")

	spec.Export.Format = "png"
	spec.Export.DPI = 300
	if is16x9 {
		spec.Export.Dimensions = Dimensions{Width: 1600, Height: 800}
	} else {
		spec.Export.Dimensions = Dimensions{Width: 1200, Height: 900}
	}
}
