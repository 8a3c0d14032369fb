// Package report writes the run summary next to the generated documents:
// a CSV manifest for the operator and a Word report to send out with the files.
package report

import (
	"fmt"
	"path/filepath"
	"strings"

	"site-split/internal/model"
)

// Summary describes one completed run
type Summary struct {
	Date    string // 2006-01-02
	Source  string // Source workbook path
	Sheet   string
	Content model.Address
	Outputs []model.Output
}

// Lines renders one line per written document, e.g.
// "1. X_1  R8:CE9 (2 rows)  X_1.xlsx"
func (s *Summary) Lines() []string {
	lines := make([]string, 0, len(s.Outputs))
	for i, out := range s.Outputs {
		lines = append(lines, fmt.Sprintf("%d. %s  %s (%d rows)  %s",
			i+1, out.Group.Label(), out.Group.Region, out.Group.Span.Len(), filepath.Base(out.Path)))
	}
	return lines
}

// Text renders the summary as plain text for the console
func (s *Summary) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Source: %s [%s] %s\n", filepath.Base(s.Source), s.Sheet, s.Content)
	for _, line := range s.Lines() {
		b.WriteString("  " + line + "\n")
	}
	return b.String()
}
