package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	rowTokenRegex    = regexp.MustCompile(`[0-9]+`)
	columnTokenRegex = regexp.MustCompile(`[a-zA-Z]+`)
)

// Address is a rectangular region of a sheet.
// Rows are 1-based, columns are upper-case letters (A, B, ..., XFD).
type Address struct {
	Top    int
	Bottom int
	Left   string
	Right  string
}

// ParseAddress decomposes a range string such as "r8:ce664".
// The string must contain exactly two row numbers and two column labels.
// A reversed range ("B5:A1") is normalized to "A1:B5".
func ParseAddress(s string) (Address, error) {
	rows := rowTokenRegex.FindAllString(s, -1)
	if len(rows) != 2 {
		return Address{}, &AddressParseError{Input: s, Reason: fmt.Sprintf("expected 2 row numbers, found %d", len(rows))}
	}
	cols := columnTokenRegex.FindAllString(s, -1)
	if len(cols) != 2 {
		return Address{}, &AddressParseError{Input: s, Reason: fmt.Sprintf("expected 2 column labels, found %d", len(cols))}
	}

	top, err := parseRow(s, rows[0])
	if err != nil {
		return Address{}, err
	}
	bottom, err := parseRow(s, rows[1])
	if err != nil {
		return Address{}, err
	}

	left := strings.ToUpper(cols[0])
	right := strings.ToUpper(cols[1])
	leftNum, err := excelize.ColumnNameToNumber(left)
	if err != nil {
		return Address{}, &AddressParseError{Input: s, Reason: err.Error()}
	}
	rightNum, err := excelize.ColumnNameToNumber(right)
	if err != nil {
		return Address{}, &AddressParseError{Input: s, Reason: err.Error()}
	}

	if top > bottom {
		top, bottom = bottom, top
	}
	if leftNum > rightNum {
		left, right = right, left
	}

	return Address{Top: top, Bottom: bottom, Left: left, Right: right}, nil
}

// ParseColumn validates a bare column label such as "v" and returns it upper-cased.
func ParseColumn(s string) (string, error) {
	col := strings.ToUpper(strings.TrimSpace(s))
	if col == "" || !columnTokenRegex.MatchString(col) || columnTokenRegex.FindString(col) != col {
		return "", &AddressParseError{Input: s, Reason: "not a column label"}
	}
	if _, err := excelize.ColumnNameToNumber(col); err != nil {
		return "", &AddressParseError{Input: s, Reason: err.Error()}
	}
	return col, nil
}

// ParseCell validates a single cell reference such as "b55" and returns it upper-cased.
func ParseCell(s string) (string, error) {
	cell := strings.ToUpper(strings.TrimSpace(s))
	if _, _, err := excelize.CellNameToCoordinates(cell); err != nil {
		return "", &AddressParseError{Input: s, Reason: "not a cell reference"}
	}
	return cell, nil
}

func parseRow(input, token string) (int, error) {
	row, err := strconv.Atoi(token)
	if err != nil || row < 1 || row > excelize.TotalRows {
		return 0, &AddressParseError{Input: input, Reason: fmt.Sprintf("row %s out of range", token)}
	}
	return row, nil
}

// String renders the address as "A1:B5".
func (a Address) String() string {
	return fmt.Sprintf("%s%d:%s%d", a.Left, a.Top, a.Right, a.Bottom)
}

// TopLeft returns the top-left cell name.
func (a Address) TopLeft() string {
	return fmt.Sprintf("%s%d", a.Left, a.Top)
}

// BottomRight returns the bottom-right cell name.
func (a Address) BottomRight() string {
	return fmt.Sprintf("%s%d", a.Right, a.Bottom)
}

// Rows returns the number of rows covered.
func (a Address) Rows() int {
	return a.Bottom - a.Top + 1
}

// Columns returns the number of columns covered.
func (a Address) Columns() int {
	left, _ := excelize.ColumnNameToNumber(a.Left)
	right, _ := excelize.ColumnNameToNumber(a.Right)
	return right - left + 1
}

// Column returns a single-column address over the same rows.
func (a Address) Column(col string) Address {
	return Address{Top: a.Top, Bottom: a.Bottom, Left: col, Right: col}
}

// Slice returns the sub-range covering the zero-based row offsets of span.
func (a Address) Slice(span Span) Address {
	return Address{
		Top:    a.Top + span.Start,
		Bottom: a.Top + span.End,
		Left:   a.Left,
		Right:  a.Right,
	}
}

// Contains reports whether b lies entirely inside a.
func (a Address) Contains(b Address) bool {
	al, _ := excelize.ColumnNameToNumber(a.Left)
	ar, _ := excelize.ColumnNameToNumber(a.Right)
	bl, _ := excelize.ColumnNameToNumber(b.Left)
	br, _ := excelize.ColumnNameToNumber(b.Right)
	return b.Top >= a.Top && b.Bottom <= a.Bottom && bl >= al && br <= ar
}
