package host

import (
	"fmt"
	"strconv"
	"strings"

	"site-split/internal/model"
	"site-split/internal/paste"

	"github.com/xuri/excelize/v2"
)

// regionCopy transfers one rectangular region between two workbooks
type regionCopy struct {
	src      *excelize.File
	srcSheet string
	dst      *excelize.File
	dstSheet string

	from      model.Address
	rowOffset int
	colOffset int
	parts     paste.Part

	styles map[styleKey]int
}

func (c *regionCopy) run() error {
	left, err := excelize.ColumnNameToNumber(c.from.Left)
	if err != nil {
		return err
	}
	right, err := excelize.ColumnNameToNumber(c.from.Right)
	if err != nil {
		return err
	}

	for row := c.from.Top; row <= c.from.Bottom; row++ {
		if c.parts.Has(paste.PartRowHeights) {
			height, err := c.src.GetRowHeight(c.srcSheet, row)
			if err != nil {
				return err
			}
			if err := c.dst.SetRowHeight(c.dstSheet, row+c.rowOffset, height); err != nil {
				return err
			}
		}

		for col := left; col <= right; col++ {
			srcCell, _ := excelize.CoordinatesToCellName(col, row)
			dstCell, err := excelize.CoordinatesToCellName(col+c.colOffset, row+c.rowOffset)
			if err != nil {
				return err
			}
			if err := c.copyCell(srcCell, dstCell); err != nil {
				return fmt.Errorf("cell %s: %w", srcCell, err)
			}
		}
	}

	if c.parts.Has(paste.PartMerges) {
		if err := c.copyMerges(); err != nil {
			return fmt.Errorf("merged cells: %w", err)
		}
	}
	if c.parts.Has(paste.PartComments) {
		if err := c.copyComments(); err != nil {
			return fmt.Errorf("comments: %w", err)
		}
	}
	if c.parts.Has(paste.PartValidation) {
		if err := c.copyValidations(); err != nil {
			return fmt.Errorf("data validation: %w", err)
		}
	}
	if c.parts.Has(paste.PartColumnWidths) {
		if err := c.copyColumnWidths(left, right); err != nil {
			return fmt.Errorf("column widths: %w", err)
		}
	}
	return nil
}

func (c *regionCopy) copyCell(srcCell, dstCell string) error {
	copied := false
	if c.parts.Has(paste.PartFormulas) {
		formula, err := c.src.GetCellFormula(c.srcSheet, srcCell)
		if err != nil {
			return err
		}
		if formula != "" {
			// Relative references move with the cell; nothing is evaluated
			formula = shiftFormula(formula, c.rowOffset, c.colOffset)
			if err := c.dst.SetCellFormula(c.dstSheet, dstCell, formula); err != nil {
				return err
			}
			copied = true
		}
	}
	if !copied && c.parts.Has(paste.PartValues) {
		if err := c.copyValue(srcCell, dstCell); err != nil {
			return err
		}
	}

	switch {
	case c.parts.Has(paste.PartStyles):
		return c.copyStyle(srcCell, dstCell, styleFull)
	case c.parts.Has(paste.PartNumberFormats):
		return c.copyStyle(srcCell, dstCell, styleNumberFormat)
	}
	return nil
}

func (c *regionCopy) copyValue(srcCell, dstCell string) error {
	raw, err := c.src.GetCellValue(c.srcSheet, srcCell, excelize.Options{RawCellValue: true})
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	typ, err := c.src.GetCellType(c.srcSheet, srcCell)
	if err != nil {
		return err
	}

	switch typ {
	case excelize.CellTypeBool:
		return c.dst.SetCellBool(c.dstSheet, dstCell, raw == "1" || strings.EqualFold(raw, "true"))
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula, excelize.CellTypeError:
		return c.dst.SetCellStr(c.dstSheet, dstCell, raw)
	}

	// Untyped cells hold numbers
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return c.dst.SetCellFloat(c.dstSheet, dstCell, f, -1, 64)
	}
	return c.dst.SetCellStr(c.dstSheet, dstCell, raw)
}

func (c *regionCopy) copyMerges() error {
	merges, err := c.src.GetMergeCells(c.srcSheet)
	if err != nil {
		return err
	}
	for _, mc := range merges {
		area, err := refToAddress(mc.GetStartAxis() + ":" + mc.GetEndAxis())
		if err != nil || !c.from.Contains(area) {
			continue
		}
		start, end, err := c.shiftAddress(area)
		if err != nil {
			return err
		}
		if err := c.dst.MergeCell(c.dstSheet, start, end); err != nil {
			return err
		}
	}
	return nil
}

func (c *regionCopy) copyComments() error {
	comments, err := c.src.GetComments(c.srcSheet)
	if err != nil {
		return err
	}
	for _, comment := range comments {
		cell, err := refToAddress(comment.Cell)
		if err != nil || !c.from.Contains(cell) {
			continue
		}
		dstCell, _, err := c.shiftAddress(cell)
		if err != nil {
			return err
		}
		comment.Cell = dstCell
		if err := c.dst.AddComment(c.dstSheet, comment); err != nil {
			return err
		}
	}
	return nil
}

func (c *regionCopy) copyValidations() error {
	validations, err := c.src.GetDataValidations(c.srcSheet)
	if err != nil {
		return err
	}
	for _, dv := range validations {
		var refs []string
		for _, ref := range strings.Fields(dv.Sqref) {
			area, err := refToAddress(ref)
			if err != nil || !c.from.Contains(area) {
				continue
			}
			start, end, err := c.shiftAddress(area)
			if err != nil {
				return err
			}
			if start == end {
				refs = append(refs, start)
			} else {
				refs = append(refs, start+":"+end)
			}
		}
		if len(refs) == 0 {
			continue
		}

		dup := *dv
		dup.Sqref = strings.Join(refs, " ")
		if err := c.dst.AddDataValidation(c.dstSheet, &dup); err != nil {
			return err
		}
	}
	return nil
}

func (c *regionCopy) copyColumnWidths(left, right int) error {
	for col := left; col <= right; col++ {
		srcName, _ := excelize.ColumnNumberToName(col)
		dstName, err := excelize.ColumnNumberToName(col + c.colOffset)
		if err != nil {
			return err
		}
		width, err := c.src.GetColWidth(c.srcSheet, srcName)
		if err != nil {
			return err
		}
		if err := c.dst.SetColWidth(c.dstSheet, dstName, dstName, width); err != nil {
			return err
		}
	}
	return nil
}

// shiftAddress returns the destination corner cells of a source area
func (c *regionCopy) shiftAddress(a model.Address) (string, string, error) {
	left, err := excelize.ColumnNameToNumber(a.Left)
	if err != nil {
		return "", "", err
	}
	right, err := excelize.ColumnNameToNumber(a.Right)
	if err != nil {
		return "", "", err
	}
	start, err := excelize.CoordinatesToCellName(left+c.colOffset, a.Top+c.rowOffset)
	if err != nil {
		return "", "", err
	}
	end, err := excelize.CoordinatesToCellName(right+c.colOffset, a.Bottom+c.rowOffset)
	if err != nil {
		return "", "", err
	}
	return start, end, nil
}

// refToAddress converts "B3" or "B3:D9" to an Address
func refToAddress(ref string) (model.Address, error) {
	ref = strings.ReplaceAll(ref, "$", "")
	first, second, found := strings.Cut(ref, ":")
	if !found {
		second = first
	}

	left, top, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return model.Address{}, err
	}
	right, bottom, err := excelize.CellNameToCoordinates(second)
	if err != nil {
		return model.Address{}, err
	}
	leftName, _ := excelize.ColumnNumberToName(left)
	rightName, _ := excelize.ColumnNumberToName(right)
	return model.Address{Top: top, Bottom: bottom, Left: leftName, Right: rightName}, nil
}
