// Package paste defines the paste behaviors a region copy can use.
//
// The numeric codes are the XlPasteType values of the spreadsheet automation
// interface and must not be renumbered.
package paste

import (
	"fmt"
	"strconv"
	"strings"
)

// Behavior selects what part of a copied region is transferred on paste
type Behavior int

const (
	All                          Behavior = -4104 // Everything
	AllExceptBorders             Behavior = 7     // Everything except borders
	AllMergingConditionalFormats Behavior = 14    // Everything, conditional formats merged
	AllUsingSourceTheme          Behavior = 13    // Everything, using the source theme
	ColumnWidths                 Behavior = 8     // Column widths only
	Comments                     Behavior = -4144 // Comments only
	Formats                      Behavior = -4122 // Source formats only
	Formulas                     Behavior = -4123 // Formulas only
	FormulasAndNumberFormats     Behavior = 11    // Formulas and number formats
	Validation                   Behavior = 6     // Data validation only
	Values                       Behavior = -4163 // Values only
	ValuesAndNumberFormats       Behavior = 12    // Values and number formats
)

// Part is one kind of content a paste can transfer
type Part uint16

const (
	PartValues Part = 1 << iota
	PartFormulas
	PartStyles        // full cell style
	PartBorders       // borders, only meaningful with PartStyles
	PartNumberFormats // number format only, when PartStyles is absent
	PartComments
	PartValidation
	PartMerges
	PartRowHeights
	PartColumnWidths
)

// Has reports whether every bit of q is set in p
func (p Part) Has(q Part) bool {
	return p&q == q
}

const partsAll = PartValues | PartFormulas | PartStyles | PartBorders |
	PartComments | PartValidation | PartMerges | PartRowHeights

type behaviorInfo struct {
	name      string
	constName string
	parts     Part
}

var behaviors = map[Behavior]behaviorInfo{
	All:                          {"all", "xlPasteAll", partsAll},
	AllExceptBorders:             {"all_except_borders", "xlPasteAllExceptBorders", partsAll &^ PartBorders},
	AllMergingConditionalFormats: {"all_merging_conditional_formats", "xlPasteAllMergingConditionalFormats", partsAll},
	AllUsingSourceTheme:          {"all_using_source_theme", "xlPasteAllUsingSourceTheme", partsAll},
	ColumnWidths:                 {"column_widths", "xlPasteColumnWidths", PartColumnWidths},
	Comments:                     {"comments", "xlPasteComments", PartComments},
	Formats:                      {"formats", "xlPasteFormats", PartStyles | PartBorders | PartMerges | PartRowHeights},
	Formulas:                     {"formulas", "xlPasteFormulas", PartValues | PartFormulas},
	FormulasAndNumberFormats:     {"formulas_and_number_formats", "xlPasteFormulasAndNumberFormats", PartValues | PartFormulas | PartNumberFormats},
	Validation:                   {"validation", "xlPasteValidation", PartValidation},
	Values:                       {"values", "xlPasteValues", PartValues},
	ValuesAndNumberFormats:       {"values_and_number_formats", "xlPasteValuesAndNumberFormats", PartValues | PartNumberFormats},
}

// List returns all behaviors in documentation order
func List() []Behavior {
	return []Behavior{
		All,
		AllExceptBorders,
		AllMergingConditionalFormats,
		AllUsingSourceTheme,
		ColumnWidths,
		Comments,
		Formats,
		Formulas,
		FormulasAndNumberFormats,
		Validation,
		Values,
		ValuesAndNumberFormats,
	}
}

// Code returns the pinned automation code
func (b Behavior) Code() int {
	return int(b)
}

// Valid reports whether b is one of the known behaviors
func (b Behavior) Valid() bool {
	_, ok := behaviors[b]
	return ok
}

// Parts returns the content parts transferred by b
func (b Behavior) Parts() Part {
	return behaviors[b].parts
}

// String returns the snake_case name of b
func (b Behavior) String() string {
	if info, ok := behaviors[b]; ok {
		return info.name
	}
	return fmt.Sprintf("Behavior(%d)", int(b))
}

// ConstName returns the automation constant name (e.g. "xlPasteValues")
func (b Behavior) ConstName() string {
	return behaviors[b].constName
}

// Parse accepts a snake_case name ("all_using_source_theme"), a constant name
// ("xlPasteAllUsingSourceTheme") or a numeric code ("13")
func Parse(s string) (Behavior, error) {
	s = strings.TrimSpace(s)

	if code, err := strconv.Atoi(s); err == nil {
		b := Behavior(code)
		if !b.Valid() {
			return 0, fmt.Errorf("unknown paste behavior code %d", code)
		}
		return b, nil
	}

	normalized := strings.ToLower(strings.ReplaceAll(s, "-", "_"))
	for b, info := range behaviors {
		if normalized == info.name || strings.EqualFold(s, info.constName) {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown paste behavior %q", s)
}
