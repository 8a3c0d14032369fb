package model

import (
	"fmt"
	"strings"
)

// AddressParseError reports a range, column or cell string that cannot be decomposed.
type AddressParseError struct {
	Input  string
	Reason string
}

func (e *AddressParseError) Error() string {
	return fmt.Sprintf("invalid address %q: %s", e.Input, e.Reason)
}

// DataIntegrityError reports grouping data that cannot be resolved,
// typically a missing value on the first row of a grouping column.
type DataIntegrityError struct {
	Column string // Sheet column label (e.g. "V"), empty if not column specific
	Row    int    // Sheet row number, 0 if not row specific
	Reason string
}

func (e *DataIntegrityError) Error() string {
	switch {
	case e.Column != "" && e.Row > 0:
		return fmt.Sprintf("data integrity: %s (cell %s%d)", e.Reason, e.Column, e.Row)
	case e.Column != "":
		return fmt.Sprintf("data integrity: %s (column %s)", e.Reason, e.Column)
	default:
		return "data integrity: " + e.Reason
	}
}

// SheetNotFoundError reports a sheet name missing from the source workbook.
type SheetNotFoundError struct {
	Workbook  string
	Sheet     string
	Available []string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found in %s (available: %s)",
		e.Sheet, e.Workbook, strings.Join(e.Available, ", "))
}

// HostIOError wraps a failure of the spreadsheet host while opening,
// copying, pasting, saving or closing a document.
type HostIOError struct {
	Op     string // open, read, paste, save, close, new
	Target string // file path, sheet or address involved
	Err    error
}

func (e *HostIOError) Error() string {
	return fmt.Sprintf("host %s %s: %v", e.Op, e.Target, e.Err)
}

func (e *HostIOError) Unwrap() error {
	return e.Err
}
