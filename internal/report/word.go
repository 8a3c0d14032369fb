package report

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// WordFileName is written into the output directory
const WordFileName = "split-report.docx"

// WriteWord fills the report template with the run summary and saves it to path.
// An empty templatePath uses the built-in template.
func WriteWord(path string, summary *Summary, templatePath string) error {
	r, err := openTemplate(templatePath)
	if err != nil {
		return err
	}
	defer r.Close()

	doc := r.Editable()

	// CRLF becomes a line break inside the run
	replacements := []struct {
		placeholder string
		value       string
	}{
		{PlaceholderDate, summary.Date},
		{PlaceholderSource, filepath.Base(summary.Source)},
		{PlaceholderSheet, summary.Sheet},
		{PlaceholderCount, strconv.Itoa(len(summary.Outputs))},
		{PlaceholderContent, strings.Join(summary.Lines(), "\r\n")},
	}
	for _, rep := range replacements {
		if err := doc.Replace(rep.placeholder, rep.value, -1); err != nil {
			return fmt.Errorf("failed to fill %s: %w", rep.placeholder, err)
		}
	}

	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

func openTemplate(templatePath string) (*docx.ReplaceDocx, error) {
	if templatePath != "" {
		r, err := docx.ReadDocxFile(templatePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", templatePath, err)
		}
		return r, nil
	}

	data, err := DefaultTemplate()
	if err != nil {
		return nil, err
	}
	r, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in template: %w", err)
	}
	return r, nil
}
