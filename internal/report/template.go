package report

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
)

// Placeholders understood by the Word report. Each must sit in a single run
// of the template for the replacement to match.
const (
	PlaceholderDate    = "{{Date}}"
	PlaceholderSource  = "{{Source}}"
	PlaceholderSheet   = "{{Sheet}}"
	PlaceholderCount   = "{{Count}}"
	PlaceholderContent = "{{Content}}"
)

var templateParts = []struct {
	name string
	body string
}{
	{"[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`},
	{"_rels/.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`},
	// Required by some parsers
	{"word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
</Relationships>`},
	{"word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:b/></w:rPr><w:t>Site Split Report</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Date: {{Date}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Source: {{Source}} [{{Sheet}}]</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Documents: {{Count}}</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">{{Content}}</w:t></w:r></w:p>
</w:body>
</w:document>`},
}

// DefaultTemplate returns the built-in report template as .docx bytes
func DefaultTemplate() ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	for _, part := range templateParts {
		pw, err := w.Create(part.name)
		if err != nil {
			return nil, fmt.Errorf("failed to add %s: %w", part.name, err)
		}
		if _, err := pw.Write([]byte(part.body)); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", part.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish template: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteTemplate saves the built-in template so it can be customized and
// referenced from report.template
func WriteTemplate(path string) error {
	data, err := DefaultTemplate()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}
	return nil
}
