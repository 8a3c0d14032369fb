package host

import (
	"site-split/internal/paste"

	"github.com/xuri/excelize/v2"
)

type styleMode int

const (
	styleFull styleMode = iota
	styleFullNoBorders
	styleNumberFormat
)

// styleKey identifies a converted style. Style IDs are per workbook, so a
// source style has to be registered again in each destination document.
type styleKey struct {
	src   *excelize.File
	srcID int
	dstID int // existing destination style, used by styleNumberFormat
	mode  styleMode
}

func (c *regionCopy) copyStyle(srcCell, dstCell string, mode styleMode) error {
	if mode == styleFull && !c.parts.Has(paste.PartBorders) {
		mode = styleFullNoBorders
	}

	srcID, err := c.src.GetCellStyle(c.srcSheet, srcCell)
	if err != nil {
		return err
	}

	key := styleKey{src: c.src, srcID: srcID, mode: mode}
	if mode == styleNumberFormat {
		if key.dstID, err = c.dst.GetCellStyle(c.dstSheet, dstCell); err != nil {
			return err
		}
	}

	dstID, ok := c.styles[key]
	if !ok {
		dstID, err = c.convertStyle(key)
		if err != nil {
			return err
		}
		c.styles[key] = dstID
	}

	if dstID == 0 && mode != styleNumberFormat {
		// Default style, nothing to write
		return nil
	}
	return c.dst.SetCellStyle(c.dstSheet, dstCell, dstCell, dstID)
}

func (c *regionCopy) convertStyle(key styleKey) (int, error) {
	if key.srcID == 0 && key.mode != styleNumberFormat {
		return 0, nil
	}

	style, err := c.src.GetStyle(key.srcID)
	if err != nil {
		return 0, err
	}

	switch key.mode {
	case styleFullNoBorders:
		style.Border = nil
	case styleNumberFormat:
		base, err := c.dst.GetStyle(key.dstID)
		if err != nil {
			return 0, err
		}
		base.NumFmt = style.NumFmt
		base.DecimalPlaces = style.DecimalPlaces
		base.CustomNumFmt = style.CustomNumFmt
		base.NegRed = style.NegRed
		style = base
	}

	return c.dst.NewStyle(style)
}
