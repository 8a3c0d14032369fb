package host

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"site-split/internal/logger"
	"site-split/internal/model"
	"site-split/internal/paste"

	"github.com/xuri/excelize/v2"
)

// ExcelHost is a Host backed by excelize. Workbooks are read in process;
// no spreadsheet application is required.
type ExcelHost struct {
	workbooks map[string]*excelWorkbook
	active    *excelDocument
	closed    bool
}

// Start acquires a new session
func Start() *ExcelHost {
	return &ExcelHost{
		workbooks: make(map[string]*excelWorkbook),
	}
}

// Open returns the workbook at path, reusing it if this session already opened it
func (h *ExcelHost) Open(path string) (Workbook, error) {
	if h.closed {
		return nil, &model.HostIOError{Op: "open", Target: path, Err: errSessionClosed}
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, &model.HostIOError{Op: "open", Target: path, Err: err}
	}

	if wb, ok := h.workbooks[absPath]; ok {
		logger.Debug("Reusing open workbook %s", wb.Name())
		return wb, nil
	}

	if _, err := os.Stat(absPath); err != nil {
		return nil, &model.HostIOError{Op: "open", Target: absPath, Err: err}
	}

	f, err := excelize.OpenFile(absPath)
	if err != nil {
		return nil, &model.HostIOError{Op: "open", Target: absPath, Err: err}
	}

	wb := &excelWorkbook{path: absPath, file: f}
	h.workbooks[absPath] = wb
	logger.Debug("Opened workbook %s", absPath)
	return wb, nil
}

// NewDocument creates an empty output document with one active sheet
func (h *ExcelHost) NewDocument() (Document, error) {
	if h.closed {
		return nil, &model.HostIOError{Op: "new", Target: "document", Err: errSessionClosed}
	}
	if h.active != nil {
		return nil, &model.HostIOError{Op: "new", Target: "document", Err: errDocumentActive}
	}

	f := excelize.NewFile()
	doc := &excelDocument{
		host:   h,
		file:   f,
		sheet:  f.GetSheetName(f.GetActiveSheetIndex()),
		styles: make(map[styleKey]int),
	}
	h.active = doc
	return doc, nil
}

// Close releases every document and workbook still open
func (h *ExcelHost) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true

	var errs []error
	if h.active != nil {
		if err := h.active.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	for path, wb := range h.workbooks {
		if err := wb.file.Close(); err != nil {
			errs = append(errs, &model.HostIOError{Op: "close", Target: path, Err: err})
		}
	}
	h.workbooks = nil
	return errors.Join(errs...)
}

var (
	errSessionClosed  = errors.New("session is closed")
	errDocumentActive = errors.New("another document is still open")
	errDocumentClosed = errors.New("document is closed")
)

// excelWorkbook is a source workbook opened by the session
type excelWorkbook struct {
	path string
	file *excelize.File
}

func (w *excelWorkbook) Name() string {
	return filepath.Base(w.path)
}

func (w *excelWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *excelWorkbook) Sheet(name string) (Sheet, error) {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil || idx == -1 {
		return nil, &model.SheetNotFoundError{
			Workbook:  w.Name(),
			Sheet:     name,
			Available: w.file.GetSheetList(),
		}
	}
	// Use the stored name so lookups stay exact
	return &excelSheet{workbook: w, name: w.file.GetSheetName(idx)}, nil
}

// excelSheet is a worksheet of a source workbook
type excelSheet struct {
	workbook *excelWorkbook
	name     string
}

func (s *excelSheet) Name() string {
	return s.name
}

func (s *excelSheet) ColumnValues(addr model.Address) ([]string, error) {
	col, err := excelize.ColumnNameToNumber(addr.Left)
	if err != nil {
		return nil, &model.HostIOError{Op: "read", Target: addr.String(), Err: err}
	}

	values := make([]string, 0, addr.Rows())
	for row := addr.Top; row <= addr.Bottom; row++ {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		v, err := s.workbook.file.GetCellValue(s.name, cell)
		if err != nil {
			return nil, &model.HostIOError{Op: "read", Target: s.name + "!" + cell, Err: err}
		}
		values = append(values, v)
	}
	return values, nil
}

// excelDocument is a new output workbook
type excelDocument struct {
	host   *ExcelHost
	file   *excelize.File
	sheet  string
	styles map[styleKey]int
	closed bool
}

func (d *excelDocument) Paste(src Sheet, from model.Address, anchor string, behavior paste.Behavior) error {
	target := fmt.Sprintf("%s!%s -> %s", src.Name(), from, anchor)
	if d.closed {
		return &model.HostIOError{Op: "paste", Target: target, Err: errDocumentClosed}
	}
	if !behavior.Valid() {
		return &model.HostIOError{Op: "paste", Target: target, Err: fmt.Errorf("unsupported paste behavior %d", int(behavior))}
	}

	sheet, ok := src.(*excelSheet)
	if !ok {
		return &model.HostIOError{Op: "paste", Target: target, Err: fmt.Errorf("sheet %s does not belong to this host", src.Name())}
	}

	anchorCol, anchorRow, err := excelize.CellNameToCoordinates(anchor)
	if err != nil {
		return &model.HostIOError{Op: "paste", Target: target, Err: err}
	}
	fromCol, err := excelize.ColumnNameToNumber(from.Left)
	if err != nil {
		return &model.HostIOError{Op: "paste", Target: target, Err: err}
	}

	rc := &regionCopy{
		src:       sheet.workbook.file,
		srcSheet:  sheet.name,
		dst:       d.file,
		dstSheet:  d.sheet,
		from:      from,
		rowOffset: anchorRow - from.Top,
		colOffset: anchorCol - fromCol,
		parts:     behavior.Parts(),
		styles:    d.styles,
	}
	if err := rc.run(); err != nil {
		return &model.HostIOError{Op: "paste", Target: target, Err: err}
	}

	logger.Debug("Pasted %s (%s) to %s", from, behavior, anchor)
	return nil
}

func (d *excelDocument) SaveAs(path string) error {
	if d.closed {
		return &model.HostIOError{Op: "save", Target: path, Err: errDocumentClosed}
	}
	if err := d.file.SaveAs(path); err != nil {
		return &model.HostIOError{Op: "save", Target: path, Err: err}
	}
	return nil
}

func (d *excelDocument) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if d.host.active == d {
		d.host.active = nil
	}
	if err := d.file.Close(); err != nil {
		return &model.HostIOError{Op: "close", Target: "document", Err: err}
	}
	return nil
}
