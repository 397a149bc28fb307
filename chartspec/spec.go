// Package chartspec extracts structured chart specifications from agent
// prose and adapts them into renderer-facing design and strategy specs.
// Agents describe styling in free text ("use the BCG palette, labels at
// 12pt"); this package sniffs that text into a typed Specification and
// fills the gaps with consulting-grade defaults.
package chartspec

import (
	"fmt"
	"strconv"
)

// Specification is the full structured chart specification distilled
// from agent outputs.
type Specification struct {
	ChartType string `json:"chartType"`
	Variant   string `json:"variant,omitempty"`

	Colors struct {
		Palette string   `json:"palette"` // mckinsey, bcg, bain, banking
		Primary []string `json:"primary"`
		Accents Accents  `json:"accents"`
		Grays   []string `json:"grays"`
	} `json:"colors"`

	Typography struct {
		SlideTitle  FontSpec `json:"slideTitle"`
		ChartTitle  FontSpec `json:"chartTitle"`
		AxisLabels  FontSpec `json:"axisLabels"`
		DataLabels  FontSpec `json:"dataLabels"`
		Annotations FontSpec `json:"annotations"`
		Footnotes   FontSpec `json:"footnotes"`
	} `json:"typography"`

	Spacing struct {
		Margins  Margins `json:"margins"`
		Padding  int     `json:"padding"`
		BarWidth int     `json:"barWidth"` // percentage
		BarGap   int     `json:"barGap"`   // pixels
	} `json:"spacing"`

	DataLabels struct {
		Show       bool   `json:"show"`
		Position   string `json:"position"` // top, inside, center, end
		Format     string `json:"format"`
		FontSize   int    `json:"fontSize"`
		FontWeight int    `json:"fontWeight"`
	} `json:"dataLabels"`

	Axes struct {
		XAxis     AxisSpec  `json:"xAxis"`
		YAxis     AxisSpec  `json:"yAxis"`
		GridStyle GridStyle `json:"gridStyle"`
	} `json:"axes"`

	ReferenceLines []ReferenceLine `json:"referenceLines"`
	Annotations    []Annotation    `json:"annotations"`

	Legend struct {
		Show     bool   `json:"show"`
		Position string `json:"position"` // top, bottom, left, right, top-right
		Align    string `json:"align"`
		FontSize int    `json:"fontSize"`
	} `json:"legend"`

	Export struct {
		Format     string     `json:"format"`
		DPI        int        `json:"dpi"`
		Dimensions Dimensions `json:"dimensions"`
	} `json:"export"`
}

// Accents are semantic accent colors layered over the primary palette.
type Accents struct {
	Positive string `json:"positive"`
	Negative string `json:"negative"`
	Warning  string `json:"warning"`
	Neutral  string `json:"neutral"`
}

// FontSpec is a sized and weighted text style.
type FontSpec struct {
	Size   int    `json:"size"`
	Weight int    `json:"weight"`
	Color  string `json:"color"`
}

// Margins are chart margins in pixels.
type Margins struct {
	Top    int `json:"top"`
	Right  int `json:"right"`
	Bottom int `json:"bottom"`
	Left   int `json:"left"`
}

// AxisSpec configures one chart axis.
type AxisSpec struct {
	Show        bool   `json:"show"`
	Label       string `json:"label"`
	FontSize    int    `json:"fontSize"`
	TickSize    int    `json:"tickSize"`
	Grid        bool   `json:"grid"`
	StartAtZero bool   `json:"startAtZero,omitempty"`
}

// GridStyle styles the background grid lines.
type GridStyle struct {
	Color           string  `json:"color"`
	Opacity         float64 `json:"opacity"`
	StrokeWidth     float64 `json:"strokeWidth"`
	StrokeDasharray string  `json:"strokeDasharray"`
}

// ReferenceLine marks a horizontal or vertical guide line.
type ReferenceLine struct {
	Value           float64 `json:"value"`
	Label           string  `json:"label"`
	Axis            string  `json:"axis"` // x or y
	Color           string  `json:"color"`
	StrokeWidth     float64 `json:"strokeWidth"`
	StrokeDasharray string  `json:"strokeDasharray"`
}

// Annotation is a free-text callout placed on the chart.
type Annotation struct {
	Text     string `json:"text"`
	Position string `json:"position"`
	FontSize int    `json:"fontSize"`
	Color    string `json:"color"`
}

// Dimensions are pixel dimensions for export.
type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// PaletteColor returns the primary palette color at index, wrapping
// around when index exceeds the palette length.
func (s *Specification) PaletteColor(index int) string {
	if len(s.Colors.Primary) == 0 {
		return ""
	}
	return s.Colors.Primary[index%len(s.Colors.Primary)]
}

// FormatValue renders a numeric value according to a format string.
// The "$0.0a" format abbreviates to K/M/B currency; everything else
// falls back to the plain number. Non-numeric values render as-is.
func FormatValue(value any, format string) string {
	if value == nil {
		return ""
	}

	var num float64
	switch v := value.(type) {
	case float64:
		num = v
	case int:
		num = float64(v)
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return v
		}
		num = parsed
	default:
		return fmt.Sprintf("%v", value)
	}

	if format == "$0.0a" {
		switch {
		case num >= 1_000_000_000:
			return fmt.Sprintf("$%.1fB", num/1_000_000_000)
		case num >= 1_000_000:
			return fmt.Sprintf("$%.1fM", num/1_000_000)
		case num >= 1_000:
			return fmt.Sprintf("$%.1fK", num/1_000)
		default:
			return fmt.Sprintf("$%.0f", num)
		}
	}

	return strconv.FormatFloat(num, 'f', -1, 64)
}
