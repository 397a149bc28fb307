package chartspec

import "strings"

// VizStrategySpec is the renderer-facing strategy for static chart
// elements and export settings.
type VizStrategySpec struct {
	StaticElements struct {
		DataLabels struct {
			Show       string           `json:"show"` // all, none, selective
			Format     string           `json:"format,omitempty"`
			Positions  []map[string]any `json:"positions,omitempty"`
			Position   string           `json:"position,omitempty"`
			FontSize   int              `json:"fontSize,omitempty"`
			FontWeight int              `json:"fontWeight,omitempty"`
		} `json:"dataLabels"`
		ReferenceLines []ReferenceLine `json:"referenceLines"`
		Annotations    []Annotation    `json:"annotations"`
		Legend         struct {
			Show     bool   `json:"show"`
			Position string `json:"position"`
		} `json:"legend"`
	} `json:"staticElements"`
	PowerPoint struct {
		ExportDPI       int        `json:"exportDPI"`
		ChartDimensions Dimensions `json:"chartDimensions"`
	} `json:"powerpoint"`
}

// DesignSpec is the renderer-facing visual design directive.
type DesignSpec struct {
	Palette struct {
		Name    string   `json:"name"`
		Primary []string `json:"primary"`
		Accents Accents  `json:"accents"`
		Grays   []string `json:"grays"`
	} `json:"palette"`
	Typography struct {
		FontFamily  string         `json:"fontFamily"`
		ChartTitle  TypographySpec `json:"chartTitle"`
		AxisLabels  TypographySpec `json:"axisLabels"`
		DataLabels  TypographySpec `json:"dataLabels"`
		LegendText  TypographySpec `json:"legendText"`
		Annotations TypographySpec `json:"annotations"`
	} `json:"typography"`
	Spacing struct {
		Margins    Margins `json:"margins"`
		LineWeight struct {
			Primary   float64 `json:"primary"`
			Secondary float64 `json:"secondary"`
		} `json:"lineWeight"`
		MarkerSize struct {
			Standard int `json:"standard"`
			Emphasis int `json:"emphasis"`
		} `json:"markerSize"`
		BarWidth int `json:"barWidth"`
		BarGap   int `json:"barGap"`
	} `json:"spacing"`
	Elements struct {
		Axes struct {
			LineWeight float64 `json:"lineWeight"`
			LineColor  string  `json:"lineColor"`
			TickLength int     `json:"tickLength"`
		} `json:"axes"`
		GridLines struct {
			Weight  float64 `json:"weight"`
			Color   string  `json:"color"`
			Opacity float64 `json:"opacity"`
			Style   string  `json:"style"` // solid, dashed, dotted
		} `json:"gridLines"`
		DataLabels struct {
			FontSize   int    `json:"fontSize"`
			FontWeight int    `json:"fontWeight"`
			Color      string `json:"color"`
			OffsetY    int    `json:"offsetY"`
		} `json:"dataLabels"`
		Legend struct {
			Align         string `json:"align"`         // left, center, right
			VerticalAlign string `json:"verticalAlign"` // top, middle, bottom
			Layout        string `json:"layout,omitempty"`
		} `json:"legend"`
		CalloutBox struct {
			Background   string `json:"background"`
			Border       string `json:"border"`
			BorderRadius int    `json:"borderRadius"`
			Padding      int    `json:"padding"`
		} `json:"calloutBox"`
	} `json:"elements"`
	BackgroundColor string `json:"backgroundColor"`
}

// TypographySpec is a text style with line height for layout.
type TypographySpec struct {
	Size       int     `json:"size"`
	Weight     int     `json:"weight"`
	Color      string  `json:"color"`
	LineHeight float64 `json:"lineHeight"`
}

// DeriveVizStrategy adapts a parsed Specification into a strategy spec,
// starting from the defaults and overriding what the parsed output pins down.
// A nil spec yields the defaults untouched.
func DeriveVizStrategy(spec *Specification) *VizStrategySpec {
	strategy := DefaultVizStrategy()
	if spec == nil {
		return strategy
	}

	if spec.DataLabels.Show {
		strategy.StaticElements.DataLabels.Show = "all"
	} else {
		strategy.StaticElements.DataLabels.Show = "none"
	}
	if spec.DataLabels.Format != "" {
		strategy.StaticElements.DataLabels.Format = spec.DataLabels.Format
	}
	if spec.DataLabels.FontSize != 0 {
		strategy.StaticElements.DataLabels.FontSize = spec.DataLabels.FontSize
	}
	if spec.DataLabels.FontWeight != 0 {
		strategy.StaticElements.DataLabels.FontWeight = spec.DataLabels.FontWeight
	}
	if spec.DataLabels.Position != "" {
		strategy.StaticElements.DataLabels.Position = spec.DataLabels.Position
	}

	strategy.StaticElements.ReferenceLines = spec.ReferenceLines
	if strategy.StaticElements.ReferenceLines == nil {
		strategy.StaticElements.ReferenceLines = []ReferenceLine{}
	}
	strategy.StaticElements.Annotations = spec.Annotations
	if strategy.StaticElements.Annotations == nil {
		strategy.StaticElements.Annotations = []Annotation{}
	}

	strategy.StaticElements.Legend.Show = spec.Legend.Show
	if spec.Legend.Position != "" {
		strategy.StaticElements.Legend.Position = spec.Legend.Position
	} else {
		strategy.StaticElements.Legend.Position = "top"
	}

	if spec.Export.DPI != 0 {
		strategy.PowerPoint.ExportDPI = spec.Export.DPI
	}
	if spec.Export.Dimensions != (Dimensions{}) {
		strategy.PowerPoint.ChartDimensions = spec.Export.Dimensions
	}

	return strategy
}

// DeriveDesign adapts a parsed Specification into a design spec layered
// over the defaults. A nil spec yields the defaults untouched.
func DeriveDesign(spec *Specification) *DesignSpec {
	design := DefaultDesign()
	if spec == nil {
		return design
	}

	if spec.Colors.Palette != "" {
		design.Palette.Name = spec.Colors.Palette
	}
	if len(spec.Colors.Primary) > 0 {
		design.Palette.Primary = spec.Colors.Primary
	}
	design.Palette.Accents = mergeAccents(design.Palette.Accents, spec.Colors.Accents)
	if len(spec.Colors.Grays) > 0 {
		design.Palette.Grays = spec.Colors.Grays
	}

	design.Typography.ChartTitle = mergeTypography(design.Typography.ChartTitle, spec.Typography.ChartTitle)
	design.Typography.AxisLabels = mergeTypography(design.Typography.AxisLabels, spec.Typography.AxisLabels)
	design.Typography.DataLabels = mergeTypography(design.Typography.DataLabels, spec.Typography.DataLabels)
	design.Typography.Annotations = mergeTypography(design.Typography.Annotations, spec.Typography.Annotations)

	design.Spacing.Margins = mergeMargins(design.Spacing.Margins, spec.Spacing.Margins)
	if spec.Spacing.BarWidth != 0 {
		design.Spacing.BarWidth = spec.Spacing.BarWidth
	}
	if spec.Spacing.BarGap != 0 {
		design.Spacing.BarGap = spec.Spacing.BarGap
	}

	if spec.Axes.GridStyle.Color != "" {
		design.Elements.GridLines.Color = spec.Axes.GridStyle.Color
	}
	if spec.Axes.GridStyle.Opacity != 0 {
		design.Elements.GridLines.Opacity = spec.Axes.GridStyle.Opacity
	}
	if spec.Axes.GridStyle.StrokeWidth != 0 {
		design.Elements.GridLines.Weight = spec.Axes.GridStyle.StrokeWidth
	}
	if spec.Axes.GridStyle.StrokeDasharray != "" {
		design.Elements.GridLines.Style = mapDasharrayToStyle(spec.Axes.GridStyle.StrokeDasharray)
	}

	align, verticalAlign, layout := mapLegendPosition(spec.Legend.Position)
	design.Elements.Legend.Align = align
	design.Elements.Legend.VerticalAlign = verticalAlign
	if layout != "" {
		design.Elements.Legend.Layout = layout
	}

	if spec.DataLabels.FontSize != 0 {
		design.Elements.DataLabels.FontSize = spec.DataLabels.FontSize
	}
	if spec.DataLabels.FontWeight != 0 {
		design.Elements.DataLabels.FontWeight = spec.DataLabels.FontWeight
	}

	return design
}

func mergeTypography(base TypographySpec, override FontSpec) TypographySpec {
	out := base
	if override.Size != 0 {
		out.Size = override.Size
	}
	if override.Weight != 0 {
		out.Weight = override.Weight
	}
	if override.Color != "" {
		out.Color = override.Color
	}
	return out
}

func mergeAccents(base, override Accents) Accents {
	out := base
	if override.Positive != "" {
		out.Positive = override.Positive
	}
	if override.Negative != "" {
		out.Negative = override.Negative
	}
	if override.Warning != "" {
		out.Warning = override.Warning
	}
	if override.Neutral != "" {
		out.Neutral = override.Neutral
	}
	return out
}

func mergeMargins(base, override Margins) Margins {
	out := base
	if override.Top != 0 {
		out.Top = override.Top
	}
	if override.Right != 0 {
		out.Right = override.Right
	}
	if override.Bottom != 0 {
		out.Bottom = override.Bottom
	}
	if override.Left != 0 {
		out.Left = override.Left
	}
	return out
}

// mapLegendPosition converts a compass-style legend position into the
// align, verticalAlign, and layout triplet renderers expect.
func mapLegendPosition(position string) (align, verticalAlign, layout string) {
	switch position {
	case "bottom":
		return "center", "bottom", "horizontal"
	case "left":
		return "left", "middle", "vertical"
	case "right":
		return "right", "middle", "vertical"
	case "top-right":
		return "right", "top", "horizontal"
	default: // top and anything else
		return "center", "top", "horizontal"
	}
}

// mapDasharrayToStyle classifies an SVG stroke-dasharray as a named
// style. "0" segments mean solid, "1" segments dotted, the rest dashed.
func mapDasharrayToStyle(dasharray string) string {
	normalized := strings.ToLower(strings.TrimSpace(dasharray))
	if strings.Contains(normalized, "0") {
		return "solid"
	}
	if strings.Contains(normalized, "1") {
		return "dotted"
	}
	return "dashed"
}
