package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/transform"
)

// ManifestFileName is written into the output directory
const ManifestFileName = "split-manifest.csv"

var manifestHeader = []string{"label", "name", "ref", "rows", "first_row", "last_row", "file"}

// WriteManifest writes one CSV row per output document.
// encodingName is "utf-8" (written with a BOM so spreadsheet applications
// detect it) or "euc-kr"/"cp949" for Korean installations.
func WriteManifest(path string, summary *Summary, encodingName string) (err error) {
	if !SupportedEncoding(encodingName) {
		return fmt.Errorf("unsupported manifest encoding %q", encodingName)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create manifest: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close manifest: %w", closeErr)
		}
	}()

	var out io.Writer = f
	switch strings.ToLower(encodingName) {
	case "", "utf-8", "utf8":
		if _, err := io.WriteString(f, "\ufeff"); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
	default:
		// Characters outside EUC-KR become the replacement byte instead of failing
		tw := transform.NewWriter(f, encoding.ReplaceUnsupported(korean.EUCKR.NewEncoder()))
		defer func() {
			if closeErr := tw.Close(); closeErr != nil && err == nil {
				err = fmt.Errorf("failed to flush manifest: %w", closeErr)
			}
		}()
		out = tw
	}

	w := csv.NewWriter(out)
	if err := w.Write(manifestHeader); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	for _, o := range summary.Outputs {
		record := []string{
			o.Group.Label(),
			o.Group.Key.Name,
			o.Group.Key.Ref,
			o.Group.Region.String(),
			strconv.Itoa(o.Group.Region.Top),
			strconv.Itoa(o.Group.Region.Bottom),
			filepath.Base(o.Path),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("failed to write manifest: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}

// SupportedEncoding reports whether encodingName can be used for the manifest
func SupportedEncoding(encodingName string) bool {
	switch strings.ToLower(encodingName) {
	case "", "utf-8", "utf8", "euc-kr", "euckr", "cp949":
		return true
	}
	return false
}

// ManifestEntry is one data row of the manifest
type ManifestEntry struct {
	Label    string
	Name     string
	Ref      string
	FirstRow int
	LastRow  int
	File     string
}

// Rows returns the number of content rows of the entry
func (e ManifestEntry) Rows() int {
	return e.LastRow - e.FirstRow + 1
}

// ReadManifest reads a manifest written by WriteManifest with the same encoding.
// A manifest with only the header yields no entries.
func ReadManifest(path, encodingName string) ([]ManifestEntry, error) {
	if !SupportedEncoding(encodingName) {
		return nil, fmt.Errorf("unsupported manifest encoding %q", encodingName)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	switch strings.ToLower(encodingName) {
	case "", "utf-8", "utf8":
		data = bytes.TrimPrefix(data, []byte("\ufeff"))
	default:
		if data, err = korean.EUCKR.NewDecoder().Bytes(data); err != nil {
			return nil, fmt.Errorf("failed to decode manifest: %w", err)
		}
	}

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	entries := make([]ManifestEntry, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) != len(manifestHeader) {
			return nil, fmt.Errorf("manifest line %d: %d fields, expected %d", i+2, len(rec), len(manifestHeader))
		}
		first, err := strconv.Atoi(rec[4])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: first_row: %w", i+2, err)
		}
		last, err := strconv.Atoi(rec[5])
		if err != nil {
			return nil, fmt.Errorf("manifest line %d: last_row: %w", i+2, err)
		}
		entries = append(entries, ManifestEntry{
			Label: rec[0], Name: rec[1], Ref: rec[2],
			FirstRow: first, LastRow: last, File: rec[6],
		})
	}
	return entries, nil
}
