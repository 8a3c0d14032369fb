//go:build ignore

// verify_outputs checks a finished run: every document listed in the manifest
// exists, holds the expected number of content rows, and carries only its own
// name and ref values.
//
//	go run scripts/verify_outputs.go [config.yaml]
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"

	"site-split/internal/config"
	"site-split/internal/model"
	"site-split/internal/report"

	"github.com/xuri/excelize/v2"
)

func main() {
	configPath := "config.yaml"
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal(err)
	}
	layout, err := cfg.Layout()
	if err != nil {
		log.Fatal(err)
	}

	manifestPath := filepath.Join(cfg.Output.Dir, report.ManifestFileName)
	entries, err := report.ReadManifest(manifestPath, cfg.Report.ManifestEncoding)
	if err != nil {
		log.Fatal(err)
	}
	if len(entries) == 0 {
		fmt.Println("Manifest lists no documents")
		os.Exit(1)
	}

	_, anchorRow, err := excelize.CellNameToCoordinates(layout.ContentAnchor)
	if err != nil {
		log.Fatal(err)
	}
	nameCol := shiftedColumn(layout.Content, layout.ContentAnchor, layout.NameColumn)
	refCol := shiftedColumn(layout.Content, layout.ContentAnchor, layout.RefColumn)

	fmt.Printf("=== OUTPUT CHECK: %s ===\n", cfg.Output.Dir)
	failed := false
	for _, e := range entries {
		file, rows := e.File, e.Rows()

		problems := checkDocument(filepath.Join(cfg.Output.Dir, file), anchorRow, rows, nameCol, refCol, e.Name, e.Ref)
		if len(problems) == 0 {
			fmt.Printf("✅ %s: %d rows\n", file, rows)
			continue
		}
		failed = true
		for _, p := range problems {
			fmt.Printf("❌ %s: %s\n", file, p)
		}
	}

	if failed {
		os.Exit(1)
	}
}

// shiftedColumn returns where a source column lands once the content region
// is pasted at anchor
func shiftedColumn(content model.Address, anchor, column string) string {
	left, _ := excelize.ColumnNameToNumber(content.Left)
	col, _ := excelize.ColumnNameToNumber(column)
	anchorCol, _, _ := excelize.CellNameToCoordinates(anchor)
	name, _ := excelize.ColumnNumberToName(anchorCol + col - left)
	return name
}

func checkDocument(path string, anchorRow, rows int, nameCol, refCol, name, ref string) []string {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return []string{err.Error()}
	}
	defer f.Close()

	sheet := f.GetSheetList()[0]
	var problems []string
	for r := anchorRow; r < anchorRow+rows; r++ {
		for _, c := range []struct{ col, want string }{{nameCol, name}, {refCol, ref}} {
			v, _ := f.GetCellValue(sheet, c.col+strconv.Itoa(r))
			if v != "" && v != c.want {
				problems = append(problems, fmt.Sprintf("%s%d = %q, expected %q", c.col, r, v, c.want))
			}
		}
	}

	// The row after the group must be empty
	after := anchorRow + rows
	if v, _ := f.GetCellValue(sheet, nameCol+strconv.Itoa(after)); v != "" {
		problems = append(problems, fmt.Sprintf("unexpected row %d (%q)", after, v))
	}
	return problems
}
