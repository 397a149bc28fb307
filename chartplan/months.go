package chartplan

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/iashutoshrawat/lumora/tabular"
)

// monthAliases maps English month names and abbreviations to a
// zero-based month index.
var monthAliases = map[string]int{
	"jan": 0, "january": 0,
	"feb": 1, "february": 1,
	"mar": 2, "march": 2,
	"apr": 3, "april": 3,
	"may": 4,
	"jun": 5, "june": 5,
	"jul": 6, "july": 6,
	"aug": 7, "august": 7,
	"sep": 8, "sept": 8, "september": 8,
	"oct": 9, "october": 9,
	"nov": 10, "november": 10,
	"dec": 11, "december": 11,
}

var monthTokenSplit = regexp.MustCompile(`[\s\-_/]+`)

// monthIndex resolves a cell value to a zero-based month index, or
// (0, false) if the value does not look like a month. Handles trailing
// periods ("Sept."), compound labels ("Jan 2024"), and bare numerals
// 1 through 12.
func monthIndex(value any) (int, bool) {
	if value == nil {
		return 0, false
	}
	str := strings.ToLower(strings.TrimSpace(tabular.Stringify(value)))
	if str == "" {
		return 0, false
	}

	cleaned := strings.TrimSuffix(str, ".")
	if idx, ok := monthAliases[cleaned]; ok {
		return idx, true
	}

	tokens := monthTokenSplit.Split(cleaned, 2)
	if len(tokens) > 0 {
		if idx, ok := monthAliases[tokens[0]]; ok {
			return idx, true
		}
	}

	if n, err := strconv.ParseFloat(cleaned, 64); err == nil && n >= 1 && n <= 12 && n == float64(int(n)) {
		return int(n) - 1, true
	}

	return 0, false
}

// sortRowsByChronologicalMonth reorders rows into calendar order when
// every x value resolves to a month. If even one value does not, the
// rows come back untouched: partial month sorting would scramble
// non-month categorical axes. The sort is stable so ties keep their
// original order.
func sortRowsByChronologicalMonth(rows []tabular.Row, xKey string) []tabular.Row {
	if xKey == "" {
		return rows
	}

	ranks := make([]int, len(rows))
	for i, row := range rows {
		idx, ok := monthIndex(row[xKey])
		if !ok {
			return rows
		}
		ranks[i] = idx
	}

	type ranked struct {
		row  tabular.Row
		rank int
	}
	order := make([]ranked, len(rows))
	for i, row := range rows {
		order[i] = ranked{row: row, rank: ranks[i]}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].rank < order[j].rank
	})

	sorted := make([]tabular.Row, len(rows))
	for i, r := range order {
		sorted[i] = r.row
	}
	return sorted
}
