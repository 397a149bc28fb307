package chartspec

// DefaultVizStrategy returns the baseline strategy spec: all data
// labels shown in plain currency format, legend top-right, print-ready
// 16:9 export.
func DefaultVizStrategy() *VizStrategySpec {
	s := &VizStrategySpec{}
	s.StaticElements.DataLabels.Show = "all"
	s.StaticElements.DataLabels.Format = "${point.y:.0f}"
	s.StaticElements.DataLabels.Positions = []map[string]any{}
	s.StaticElements.ReferenceLines = []ReferenceLine{}
	s.StaticElements.Annotations = []Annotation{}
	s.StaticElements.Legend.Show = true
	s.StaticElements.Legend.Position = "top-right"
	s.PowerPoint.ExportDPI = 300
	s.PowerPoint.ChartDimensions = Dimensions{Width: 1600, Height: 800}
	return s
}

// DefaultDesign returns the house style: McKinsey palette, Inter
// typography, white background.
func DefaultDesign() *DesignSpec {
	d := &DesignSpec{}

	palette := LookupPalette("mckinsey")
	d.Palette.Name = "mckinsey"
	d.Palette.Primary = palette.Primary
	d.Palette.Accents = palette.Accents
	d.Palette.Grays = palette.Grays

	d.Typography.FontFamily = "Inter, Arial, sans-serif"
	d.Typography.ChartTitle = TypographySpec{Size: 20, Weight: 600, Color: "#2C2C2C", LineHeight: 1.3}
	d.Typography.AxisLabels = TypographySpec{Size: 12, Weight: 400, Color: "#4A4A4A", LineHeight: 1.2}
	d.Typography.DataLabels = TypographySpec{Size: 11, Weight: 500, Color: "#2C2C2C", LineHeight: 1.2}
	d.Typography.LegendText = TypographySpec{Size: 11, Weight: 400, Color: "#4A4A4A", LineHeight: 1.4}
	d.Typography.Annotations = TypographySpec{Size: 11, Weight: 400, Color: "#2C2C2C", LineHeight: 1.3}

	d.Spacing.Margins = Margins{Top: 60, Right: 80, Bottom: 80, Left: 80}
	d.Spacing.LineWeight.Primary = 3
	d.Spacing.LineWeight.Secondary = 2
	d.Spacing.MarkerSize.Standard = 6
	d.Spacing.MarkerSize.Emphasis = 10
	d.Spacing.BarWidth = 65
	d.Spacing.BarGap = 8

	d.Elements.Axes.LineWeight = 1.5
	d.Elements.Axes.LineColor = "#4A4A4A"
	d.Elements.Axes.TickLength = 5
	d.Elements.GridLines.Weight = 0.5
	d.Elements.GridLines.Color = "#E5E5E5"
	d.Elements.GridLines.Opacity = 0.6
	d.Elements.GridLines.Style = "solid"
	d.Elements.DataLabels.FontSize = 11
	d.Elements.DataLabels.FontWeight = 500
	d.Elements.DataLabels.Color = "#2C2C2C"
	d.Elements.DataLabels.OffsetY = 6
	d.Elements.Legend.Align = "right"
	d.Elements.Legend.VerticalAlign = "top"
	d.Elements.CalloutBox.Background = "rgba(255,255,255,0.95)"
	d.Elements.CalloutBox.Border = "#004B87"
	d.Elements.CalloutBox.BorderRadius = 4
	d.Elements.CalloutBox.Padding = 8

	d.BackgroundColor = "#FFFFFF"

	return d
}
