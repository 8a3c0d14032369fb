package host

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
	"github.com/xuri/excelize/v2"
)

const refError = "#REF!"

var (
	cellRefPattern = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]+)$`)
	colRefPattern  = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})$`)
	rowRefPattern  = regexp.MustCompile(`^(\$?)([0-9]+)$`)
)

// shiftFormula moves the relative references of formula by the paste offset,
// the way a spreadsheet application does when a formula cell is pasted
// elsewhere. Absolute ($) parts, defined names and external references stay
// as they are. A reference pushed off the sheet becomes #REF!.
func shiftFormula(formula string, rowOffset, colOffset int) string {
	if rowOffset == 0 && colOffset == 0 {
		return formula
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(formula)

	var b strings.Builder
	for _, token := range tokens {
		switch {
		case token.TType == efp.TokenTypeUnknown:
			return formula
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeRange:
			b.WriteString(shiftOperand(token.TValue, rowOffset, colOffset))
		case token.TType == efp.TokenTypeOperand && token.TSubType == efp.TokenSubTypeText:
			b.WriteString(`"` + strings.ReplaceAll(token.TValue, `"`, `""`) + `"`)
		case token.TType == efp.TokenTypeFunction && token.TSubType == efp.TokenSubTypeStart:
			b.WriteString(token.TValue + "(")
		case token.TType == efp.TokenTypeSubexpression && token.TSubType == efp.TokenSubTypeStart:
			b.WriteString("(")
		case (token.TType == efp.TokenTypeFunction || token.TType == efp.TokenTypeSubexpression) &&
			token.TSubType == efp.TokenSubTypeStop:
			b.WriteString(")")
		case token.TType == efp.TokenTypeOperatorInfix && token.TSubType == efp.TokenSubTypeIntersection:
			b.WriteString(" ")
		default:
			b.WriteString(token.TValue)
		}
	}
	return b.String()
}

// shiftOperand shifts "A1", "$A1:B$2", "Sheet!A1", "A:C" or "1:3".
// Anything else is returned unchanged.
func shiftOperand(operand string, rowOffset, colOffset int) string {
	if strings.ContainsAny(operand, "[]") {
		return operand
	}

	prefix, ref := "", operand
	if i := strings.LastIndex(operand, "!"); i >= 0 {
		prefix, ref = operand[:i+1], operand[i+1:]
	}

	parts := strings.Split(ref, ":")
	if len(parts) > 2 {
		return operand
	}

	shifted := make([]string, len(parts))
	for i, part := range parts {
		s, ok := shiftPart(part, len(parts) == 2, rowOffset, colOffset)
		if !ok {
			return operand
		}
		if s == refError {
			return prefix + refError
		}
		shifted[i] = s
	}
	return prefix + strings.Join(shifted, ":")
}

// shiftPart shifts one side of a reference. Whole-column and whole-row
// parts are only references inside a range ("A:A", "1:1").
func shiftPart(part string, inRange bool, rowOffset, colOffset int) (string, bool) {
	if m := cellRefPattern.FindStringSubmatch(part); m != nil {
		col, ok := shiftColumn(m[1], m[2], colOffset)
		if !ok {
			return "", false
		}
		row, ok := shiftRow(m[3], m[4], rowOffset)
		if !ok {
			return "", false
		}
		if col == refError || row == refError {
			return refError, true
		}
		return col + row, true
	}
	if !inRange {
		return "", false
	}
	if m := colRefPattern.FindStringSubmatch(part); m != nil {
		return shiftColumn(m[1], m[2], colOffset)
	}
	if m := rowRefPattern.FindStringSubmatch(part); m != nil {
		return shiftRow(m[1], m[2], rowOffset)
	}
	return "", false
}

func shiftColumn(abs, name string, offset int) (string, bool) {
	num, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		// Too long for a column, so a defined name
		return "", false
	}
	if abs == "$" {
		return abs + strings.ToUpper(name), true
	}
	num += offset
	if num < 1 || num > excelize.MaxColumns {
		return refError, true
	}
	shifted, _ := excelize.ColumnNumberToName(num)
	return shifted, true
}

func shiftRow(abs, digits string, offset int) (string, bool) {
	num, err := strconv.Atoi(digits)
	if err != nil || num < 1 || num > excelize.TotalRows {
		return "", false
	}
	if abs == "$" {
		return abs + digits, true
	}
	num += offset
	if num < 1 || num > excelize.TotalRows {
		return refError, true
	}
	return strconv.Itoa(num), true
}
