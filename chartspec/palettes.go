package chartspec

// Palette is a named consulting-firm color scheme.
type Palette struct {
	Primary []string
	Accents Accents
	Grays   []string
}

// consultingPalettes holds the firm styles the palette sniffer can
// detect. The hex values are fixed brand colors.
var consultingPalettes = map[string]Palette{
	"mckinsey": {
		Primary: []string{"#004B87", "#0066B3", "#003366", "#0FA3B1", "#7209B7"},
		Accents: Accents{
			Positive: "#00A859",
			Negative: "#E63946",
			Warning:  "#F77F00",
			Neutral:  "#737373",
		},
		Grays: []string{"#2C2C2C", "#4A4A4A", "#737373", "#A6A6A6", "#D9D9D9", "#F2F2F2"},
	},
	"bcg": {
		Primary: []string{"#0033A0", "#0047BB", "#001F5C", "#00B140", "#00D084"},
		Accents: Accents{
			Positive: "#00B140",
			Negative: "#D32F2F",
			Warning:  "#FF9800",
			Neutral:  "#616161",
		},
		Grays: []string{"#212121", "#424242", "#616161", "#9E9E9E", "#E0E0E0", "#F5F5F5"},
	},
	"bain": {
		Primary: []string{"#C8102E", "#E63946", "#A01020", "#0FA3B1", "#3A86FF"},
		Accents: Accents{
			Positive: "#38B000",
			Negative: "#C8102E",
			Warning:  "#FF6B35",
			Neutral:  "#6C757D",
		},
		Grays: []string{"#1C1C1C", "#3A3A3A", "#6C757D", "#ADB5BD", "#DEE2E6", "#F8F9FA"},
	},
	"banking": {
		Primary: []string{"#1C2833", "#2E4053", "#34495E", "#27AE60", "#3498DB"},
		Accents: Accents{
			Positive: "#27AE60",
			Negative: "#CB4335",
			Warning:  "#F39C12",
			Neutral:  "#7F8C8D",
		},
		Grays: []string{"#0B0C10", "#1F2833", "#566573", "#95A5A6", "#BDC3C7", "#ECF0F1"},
	},
}

// LookupPalette returns a consulting palette by name. Unknown names
// return the McKinsey palette.
func LookupPalette(name string) Palette {
	if p, ok := consultingPalettes[name]; ok {
		return p
	}
	return consultingPalettes["mckinsey"]
}
