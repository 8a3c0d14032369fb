// Package host abstracts the spreadsheet application that owns the source
// workbook and the generated documents.
package host

import (
	"site-split/internal/model"
	"site-split/internal/paste"
)

// Host is a spreadsheet session. Callers acquire it at run start and must
// Close it when done; Close releases every workbook and document still open.
type Host interface {
	Open(path string) (Workbook, error)
	NewDocument() (Document, error)
	Close() error
}

// Workbook is an opened source workbook. It is only read, never saved.
type Workbook interface {
	Name() string
	Sheet(name string) (Sheet, error)
	SheetNames() []string
}

// Sheet is a readable worksheet of a source workbook
type Sheet interface {
	Name() string
	// ColumnValues reads a single-column address as displayed text, one value
	// per row. Empty cells are returned as "".
	ColumnValues(addr model.Address) ([]string, error)
}

// Document is a new output workbook with one active sheet.
// Only one document may be open per session at a time.
type Document interface {
	// Paste copies region from of src to the cell anchor of the active sheet,
	// transferring the parts selected by behavior
	Paste(src Sheet, from model.Address, anchor string, behavior paste.Behavior) error
	SaveAs(path string) error
	Close() error
}
