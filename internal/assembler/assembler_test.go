package assembler

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"site-split/internal/config"
	"site-split/internal/host"
	"site-split/internal/model"
	"site-split/internal/paste"

	"github.com/google/go-cmp/cmp"
)

// fakeHost records every call as a line of text
type fakeHost struct {
	calls    []string
	open     int
	failSave string // label whose save fails
}

func (h *fakeHost) Open(path string) (host.Workbook, error) {
	return nil, errors.New("not used")
}

func (h *fakeHost) NewDocument() (host.Document, error) {
	if h.open > 0 {
		return nil, errors.New("document already open")
	}
	h.open++
	h.calls = append(h.calls, "new")
	return &fakeDocument{host: h}, nil
}

func (h *fakeHost) Close() error { return nil }

type fakeDocument struct {
	host *fakeHost
}

func (d *fakeDocument) Paste(src host.Sheet, from model.Address, anchor string, behavior paste.Behavior) error {
	d.host.calls = append(d.host.calls, fmt.Sprintf("paste %s->%s %s", from, anchor, behavior))
	return nil
}

func (d *fakeDocument) SaveAs(path string) error {
	name := filepath.Base(path)
	if d.host.failSave != "" && name == d.host.failSave+".xlsx" {
		return &model.HostIOError{Op: "save", Target: path, Err: errors.New("permission denied")}
	}
	d.host.calls = append(d.host.calls, "save "+name)
	return nil
}

func (d *fakeDocument) Close() error {
	d.host.open--
	d.host.calls = append(d.host.calls, "close")
	return nil
}

// fakeSheet serves the ref (V) and name (S) columns of the district scenario
type fakeSheet struct{}

func (fakeSheet) Name() string { return "district" }

func (fakeSheet) ColumnValues(addr model.Address) ([]string, error) {
	switch addr.Left {
	case "S":
		return []string{"X", "", "", "Y", "", ""}, nil
	case "V":
		return []string{"1", "", "2", "2", "", ""}, nil
	}
	return nil, fmt.Errorf("unexpected column %s", addr.Left)
}

func testPlan(t *testing.T, dir string) Plan {
	t.Helper()
	cfg := &config.Config{
		Regions: config.RegionsConfig{Introduction: "CH8:CZ56", Header: "R6:CE7", Content: "R8:CE13"},
		Columns: config.ColumnsConfig{Ref: "V", Name: "S"},
		Anchors: config.AnchorsConfig{Introduction: "B2", Header: "B53", Content: "B55"},
		Paste:   config.PasteConfig{Behavior: "all_using_source_theme"},
	}
	layout, err := cfg.Layout()
	if err != nil {
		t.Fatal(err)
	}
	return Plan{Layout: *layout, OutputDir: dir}
}

type countingProgress struct {
	total  int
	done   int
	labels []string
}

func (p *countingProgress) SetTotal(total int) { p.total = total }

func (p *countingProgress) Describe(label string) { p.labels = append(p.labels, label) }

func (p *countingProgress) Increment() error {
	p.done++
	return nil
}

func TestAssembleSequence(t *testing.T) {
	dir := t.TempDir()
	h := &fakeHost{}
	progress := &countingProgress{}

	result, err := Assemble(h, fakeSheet{}, testPlan(t, dir), progress)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	if result.Count() != 3 {
		t.Fatalf("Count() = %d, expected 3", result.Count())
	}

	var paths []string
	for _, out := range result.Outputs {
		paths = append(paths, filepath.Base(out.Path))
	}
	if diff := cmp.Diff([]string{"X_1.xlsx", "X_2.xlsx", "Y_2.xlsx"}, paths); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}
	if result.Outputs[0].Path != filepath.Join(dir, "X_1.xlsx") {
		t.Errorf("path = %s, expected in %s", result.Outputs[0].Path, dir)
	}

	expected := []string{
		"new",
		"paste CH8:CZ56->B2 all_using_source_theme",
		"paste R6:CE7->B53 all_using_source_theme",
		"paste R8:CE9->B55 all_using_source_theme",
		"save X_1.xlsx",
		"close",
		"new",
		"paste CH8:CZ56->B2 all_using_source_theme",
		"paste R6:CE7->B53 all_using_source_theme",
		"paste R10:CE10->B55 all_using_source_theme",
		"save X_2.xlsx",
		"close",
		"new",
		"paste CH8:CZ56->B2 all_using_source_theme",
		"paste R6:CE7->B53 all_using_source_theme",
		"paste R11:CE13->B55 all_using_source_theme",
		"save Y_2.xlsx",
		"close",
	}
	if diff := cmp.Diff(expected, h.calls); diff != "" {
		t.Errorf("host calls mismatch (-want +got):\n%s", diff)
	}

	if progress.total != 3 || progress.done != 3 {
		t.Errorf("progress = %d/%d, expected 3/3", progress.done, progress.total)
	}
	if diff := cmp.Diff([]string{"X_1", "X_2", "Y_2"}, progress.labels); diff != "" {
		t.Errorf("progress labels mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembleColumnWidths(t *testing.T) {
	h := &fakeHost{}
	plan := testPlan(t, t.TempDir())
	plan.ColumnWidths = true

	if _, err := Assemble(h, fakeSheet{}, plan, nil); err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}

	widths := 0
	for _, call := range h.calls {
		if strings.HasSuffix(call, " column_widths") {
			widths++
		}
	}
	// Three regions per document, three documents
	if widths != 9 {
		t.Errorf("got %d column width pastes, expected 9", widths)
	}
}

func TestAssembleAbortsOnFailure(t *testing.T) {
	h := &fakeHost{failSave: "X_2"}

	result, err := Assemble(h, fakeSheet{}, testPlan(t, t.TempDir()), nil)
	if err == nil {
		t.Fatal("expected error")
	}

	var ioErr *model.HostIOError
	if !errors.As(err, &ioErr) {
		t.Errorf("expected HostIOError in chain, got %v", err)
	}
	if !strings.Contains(err.Error(), "X_2") {
		t.Errorf("error should name the failing label: %v", err)
	}

	// X_1 written, nothing attempted after X_2
	if result.Count() != 1 {
		t.Errorf("Count() = %d, expected 1", result.Count())
	}
	for _, call := range h.calls {
		if call == "save Y_2.xlsx" {
			t.Error("run continued after the failing group")
		}
	}
	if h.open != 0 {
		t.Errorf("%d documents left open", h.open)
	}
	if h.calls[len(h.calls)-1] != "close" {
		t.Errorf("failing document was not closed, last call %q", h.calls[len(h.calls)-1])
	}
}

func TestAssembleGroupingError(t *testing.T) {
	h := &fakeHost{}
	plan := testPlan(t, t.TempDir())
	// The sheet has no column Z, so the read fails
	plan.NameColumn = "Z"

	if _, err := Assemble(h, fakeSheet{}, plan, nil); err == nil {
		t.Fatal("expected error for unreadable column")
	}
	if len(h.calls) != 0 {
		t.Errorf("no document should be created, got %v", h.calls)
	}
}

// observingProgress records the order of grouping and writing events
type observingProgress struct {
	events []string
}

func (p *observingProgress) Grouped(groups []model.Group) {
	p.events = append(p.events, fmt.Sprintf("grouped %d", len(groups)))
}

func (p *observingProgress) SetTotal(total int) {
	p.events = append(p.events, fmt.Sprintf("total %d", total))
}

func (p *observingProgress) Describe(label string) {
	p.events = append(p.events, "write "+label)
}

func (p *observingProgress) Increment() error {
	return errors.New("terminal gone")
}

func TestAssembleReportsGroupsFirst(t *testing.T) {
	h := &fakeHost{}
	progress := &observingProgress{}

	result, err := Assemble(h, fakeSheet{}, testPlan(t, t.TempDir()), progress)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	// A failing progress display never aborts the run
	if result.Count() != 3 {
		t.Errorf("Count() = %d, expected 3", result.Count())
	}

	expected := []string{"grouped 3", "total 3", "write X_1", "write X_2", "write Y_2"}
	if diff := cmp.Diff(expected, progress.events); diff != "" {
		t.Errorf("progress events mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteGroupsDuplicateFileNames(t *testing.T) {
	h := &fakeHost{}
	groups := []model.Group{
		{Key: model.GroupKey{Name: "a/b", Ref: "1"}},
		{Key: model.GroupKey{Name: "a:b", Ref: "1"}},
	}

	_, err := WriteGroups(h, fakeSheet{}, testPlan(t, t.TempDir()), groups, nil)
	var integrity *model.DataIntegrityError
	if !errors.As(err, &integrity) {
		t.Fatalf("expected DataIntegrityError, got %v", err)
	}
	if len(h.calls) != 0 {
		t.Errorf("no document should be created, got %v", h.calls)
	}
}

func TestFileName(t *testing.T) {
	tests := []struct {
		label    string
		expected string
	}{
		{"X_1", "X_1.xlsx"},
		{"서울열병합_A-01", "서울열병합_A-01.xlsx"},
		{"a/b_1", "a_b_1.xlsx"},
		{`c:\d_?`, "c__d__.xlsx"},
		{"name. _", "name. _.xlsx"},
		{"trail_1. ", "trail_1.xlsx"},
		{"", "_.xlsx"},
		// Decomposed Hangul is composed
		{"\u1112\u1161\u11ab_1", "\ud55c_1.xlsx"},
	}

	for _, tt := range tests {
		if got := FileName(tt.label); got != tt.expected {
			t.Errorf("FileName(%q) = %q, expected %q", tt.label, got, tt.expected)
		}
	}
}
