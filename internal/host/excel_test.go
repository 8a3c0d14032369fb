package host

import (
	"errors"
	"path/filepath"
	"testing"

	"site-split/internal/model"
	"site-split/internal/paste"

	"github.com/xuri/excelize/v2"
)

const testSheet = "district"

// writeSource builds a small source workbook:
//
//	A1 "Intro" (bold, comment)   B1 merged with A1..B1
//	A2 "site"  B2 42.5           C2 =B2*2
//	A3 ""      B3 true
func writeSource(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", testSheet); err != nil {
		t.Fatal(err)
	}
	if _, err := f.NewSheet("other"); err != nil {
		t.Fatal(err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}

	f.SetCellValue(testSheet, "A1", "Intro")
	f.SetCellStyle(testSheet, "A1", "A1", bold)
	f.MergeCell(testSheet, "A1", "B1")
	f.AddComment(testSheet, excelize.Comment{Cell: "A1", Author: "ops", Text: "check before sending"})
	f.SetCellValue(testSheet, "A2", "site")
	f.SetCellValue(testSheet, "B2", 42.5)
	f.SetCellFormula(testSheet, "C2", "B2*2")
	f.SetCellValue(testSheet, "B3", true)
	f.SetColWidth(testSheet, "B", "B", 25)

	path := filepath.Join(t.TempDir(), "source.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
	return path
}

func openSheet(t *testing.T, h *ExcelHost, path string) Sheet {
	t.Helper()
	wb, err := h.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	sheet, err := wb.Sheet(testSheet)
	if err != nil {
		t.Fatalf("Sheet failed: %v", err)
	}
	return sheet
}

func TestOpenReusesWorkbook(t *testing.T) {
	path := writeSource(t)
	h := Start()
	defer h.Close()

	first, err := h.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	second, err := h.Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	if first != second {
		t.Error("expected the same workbook for the same path")
	}
	if first.Name() != "source.xlsx" {
		t.Errorf("Name() = %s, expected source.xlsx", first.Name())
	}
	if len(first.SheetNames()) != 2 {
		t.Errorf("SheetNames() = %v, expected 2 sheets", first.SheetNames())
	}
}

func TestOpenMissingFile(t *testing.T) {
	h := Start()
	defer h.Close()

	_, err := h.Open(filepath.Join(t.TempDir(), "missing.xlsx"))
	var ioErr *model.HostIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected HostIOError, got %v", err)
	}
	if ioErr.Op != "open" {
		t.Errorf("Op = %s, expected open", ioErr.Op)
	}
}

func TestSheetNotFound(t *testing.T) {
	path := writeSource(t)
	h := Start()
	defer h.Close()

	wb, err := h.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = wb.Sheet("nope")
	var notFound *model.SheetNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected SheetNotFoundError, got %v", err)
	}
	if len(notFound.Available) != 2 {
		t.Errorf("Available = %v", notFound.Available)
	}
}

func TestColumnValues(t *testing.T) {
	path := writeSource(t)
	h := Start()
	defer h.Close()

	sheet := openSheet(t, h, path)
	values, err := sheet.ColumnValues(model.Address{Top: 1, Bottom: 4, Left: "A", Right: "A"})
	if err != nil {
		t.Fatalf("ColumnValues failed: %v", err)
	}
	expected := []string{"Intro", "site", "", ""}
	if len(values) != len(expected) {
		t.Fatalf("got %d values, expected %d", len(values), len(expected))
	}
	for i := range expected {
		if values[i] != expected[i] {
			t.Errorf("row %d = %q, expected %q", i+1, values[i], expected[i])
		}
	}
}

func TestPasteAllUsingSourceTheme(t *testing.T) {
	path := writeSource(t)
	h := Start()
	defer h.Close()

	sheet := openSheet(t, h, path)
	doc, err := h.NewDocument()
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	region := model.Address{Top: 1, Bottom: 3, Left: "A", Right: "C"}
	if err := doc.Paste(sheet, region, "B2", paste.AllUsingSourceTheme); err != nil {
		t.Fatalf("Paste failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "out.xlsx")
	if err := doc.SaveAs(out); err != nil {
		t.Fatalf("SaveAs failed: %v", err)
	}
	if err := doc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("Failed to open output: %v", err)
	}
	defer f.Close()
	outSheet := f.GetSheetName(f.GetActiveSheetIndex())

	checks := map[string]string{
		"B2": "Intro",
		"B3": "site",
		"C3": "42.5",
		"C4": "TRUE",
	}
	for cell, want := range checks {
		got, _ := f.GetCellValue(outSheet, cell)
		if got != want {
			t.Errorf("%s = %q, expected %q", cell, got, want)
		}
	}

	formula, _ := f.GetCellFormula(outSheet, "D3")
	if formula != "C3*2" {
		t.Errorf("D3 formula = %q, expected C3*2", formula)
	}
	if got, err := f.CalcCellValue(outSheet, "D3"); err != nil || got != "85" {
		t.Errorf("D3 value = %q (%v), expected 85", got, err)
	}

	styleID, _ := f.GetCellStyle(outSheet, "B2")
	style, err := f.GetStyle(styleID)
	if err != nil {
		t.Fatalf("GetStyle failed: %v", err)
	}
	if style.Font == nil || !style.Font.Bold {
		t.Error("expected B2 to keep the bold font")
	}
	if len(style.Border) == 0 {
		t.Error("expected B2 to keep its border")
	}

	merges, _ := f.GetMergeCells(outSheet)
	if len(merges) != 1 || merges[0].GetStartAxis() != "B2" || merges[0].GetEndAxis() != "C2" {
		t.Errorf("merges = %v, expected B2:C2", merges)
	}

	comments, _ := f.GetComments(outSheet)
	if len(comments) != 1 || comments[0].Cell != "B2" {
		t.Errorf("comments = %+v, expected one on B2", comments)
	}

	// Column widths are not part of a full paste
	width, _ := f.GetColWidth(outSheet, "C")
	if width == 25 {
		t.Error("column width should not be pasted by AllUsingSourceTheme")
	}
}

func TestPasteBehaviors(t *testing.T) {
	path := writeSource(t)
	h := Start()
	defer h.Close()

	sheet := openSheet(t, h, path)
	region := model.Address{Top: 1, Bottom: 2, Left: "A", Right: "C"}

	t.Run("values", func(t *testing.T) {
		doc, err := h.NewDocument()
		if err != nil {
			t.Fatal(err)
		}
		defer doc.Close()
		d := doc.(*excelDocument)

		if err := doc.Paste(sheet, region, "A1", paste.Values); err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		if v, _ := d.file.GetCellValue(d.sheet, "A1"); v != "Intro" {
			t.Errorf("A1 = %q, expected Intro", v)
		}
		if f, _ := d.file.GetCellFormula(d.sheet, "C2"); f != "" {
			t.Errorf("values paste should not carry formulas, got %q", f)
		}
		if id, _ := d.file.GetCellStyle(d.sheet, "A1"); id != 0 {
			t.Errorf("values paste should not carry styles, got %d", id)
		}
		if merges, _ := d.file.GetMergeCells(d.sheet); len(merges) != 0 {
			t.Errorf("values paste should not merge, got %v", merges)
		}
	})

	t.Run("all except borders", func(t *testing.T) {
		doc, err := h.NewDocument()
		if err != nil {
			t.Fatal(err)
		}
		defer doc.Close()
		d := doc.(*excelDocument)

		if err := doc.Paste(sheet, region, "A1", paste.AllExceptBorders); err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		id, _ := d.file.GetCellStyle(d.sheet, "A1")
		style, err := d.file.GetStyle(id)
		if err != nil {
			t.Fatal(err)
		}
		if style.Font == nil || !style.Font.Bold {
			t.Error("expected bold font")
		}
		if len(style.Border) != 0 {
			t.Errorf("expected no borders, got %+v", style.Border)
		}
	})

	t.Run("column widths", func(t *testing.T) {
		doc, err := h.NewDocument()
		if err != nil {
			t.Fatal(err)
		}
		defer doc.Close()
		d := doc.(*excelDocument)

		if err := doc.Paste(sheet, region, "C1", paste.ColumnWidths); err != nil {
			t.Fatalf("Paste failed: %v", err)
		}
		if w, _ := d.file.GetColWidth(d.sheet, "D"); w != 25 {
			t.Errorf("column D width = %v, expected 25", w)
		}
		if v, _ := d.file.GetCellValue(d.sheet, "C1"); v != "" {
			t.Errorf("column widths paste should not carry values, got %q", v)
		}
	})
}

func TestSingleActiveDocument(t *testing.T) {
	h := Start()

	doc, err := h.NewDocument()
	if err != nil {
		t.Fatalf("NewDocument failed: %v", err)
	}

	_, err = h.NewDocument()
	var ioErr *model.HostIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected HostIOError while a document is open, got %v", err)
	}

	if err := doc.Close(); err != nil {
		t.Fatal(err)
	}
	second, err := h.NewDocument()
	if err != nil {
		t.Fatalf("NewDocument after Close failed: %v", err)
	}

	// Closing the session releases the open document
	if err := h.Close(); err != nil {
		t.Fatalf("host Close failed: %v", err)
	}
	if err := second.SaveAs(filepath.Join(t.TempDir(), "late.xlsx")); err == nil {
		t.Error("expected SaveAs to fail after the session closed")
	}
	if _, err := h.NewDocument(); err == nil {
		t.Error("expected NewDocument to fail after the session closed")
	}
}

func TestPasteForeignSheet(t *testing.T) {
	h := Start()
	defer h.Close()

	doc, err := h.NewDocument()
	if err != nil {
		t.Fatal(err)
	}
	defer doc.Close()

	err = doc.Paste(foreignSheet{}, model.Address{Top: 1, Bottom: 1, Left: "A", Right: "A"}, "A1", paste.All)
	var ioErr *model.HostIOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected HostIOError, got %v", err)
	}
}

type foreignSheet struct{}

func (foreignSheet) Name() string { return "foreign" }

func (foreignSheet) ColumnValues(model.Address) ([]string, error) { return nil, nil }

func TestRefToAddress(t *testing.T) {
	tests := []struct {
		ref      string
		expected string
	}{
		{"B3", "B3:B3"},
		{"B3:D9", "B3:D9"},
		{"$A$1:$C$2", "A1:C2"},
	}
	for _, tt := range tests {
		got, err := refToAddress(tt.ref)
		if err != nil {
			t.Errorf("refToAddress(%q) failed: %v", tt.ref, err)
			continue
		}
		if got.String() != tt.expected {
			t.Errorf("refToAddress(%q) = %s, expected %s", tt.ref, got, tt.expected)
		}
	}
}
