// Package assembler writes one output workbook per group. Each workbook gets
// the introduction block, the header block and the group's content rows,
// pasted at fixed anchors, and is named after the group label.
package assembler

import (
	"fmt"
	"path/filepath"
	"strings"

	"site-split/internal/config"
	"site-split/internal/grouping"
	"site-split/internal/host"
	"site-split/internal/logger"
	"site-split/internal/model"
	"site-split/internal/paste"

	"golang.org/x/text/unicode/norm"
)

// Plan is everything a run needs besides the host and the source sheet
type Plan struct {
	config.Layout

	ColumnWidths bool   // Follow each region paste with a column-width paste
	OutputDir    string // Existing directory receiving the documents
}

// Progress receives per-document progress. *ui.ProgressBar satisfies it.
type Progress interface {
	SetTotal(total int)
	Describe(description string)
	Increment() error
}

// GroupObserver is an optional Progress extension. Assemble calls Grouped
// once the groups are known, before any document is written.
type GroupObserver interface {
	Grouped(groups []model.Group)
}

// Result lists the documents written by a run, in group order
type Result struct {
	Outputs []model.Output
}

// Count returns the number of documents written
func (r *Result) Count() int {
	return len(r.Outputs)
}

// Assemble groups the content rows of src and writes one document per group
func Assemble(h host.Host, src host.Sheet, plan Plan, progress Progress) (*Result, error) {
	groups, err := grouping.Split(src, plan.Content, plan.RefColumn, plan.NameColumn)
	if err != nil {
		return nil, fmt.Errorf("failed to group %s: %w", plan.Content, err)
	}
	if obs, ok := progress.(GroupObserver); ok {
		obs.Grouped(groups)
	}
	return WriteGroups(h, src, plan, groups, progress)
}

// WriteGroups writes one document per group, strictly one after another.
// The first failure aborts the run; documents already written stay on disk.
func WriteGroups(h host.Host, src host.Sheet, plan Plan, groups []model.Group, progress Progress) (*Result, error) {
	paths, err := outputPaths(plan.OutputDir, groups)
	if err != nil {
		return nil, err
	}

	if progress != nil {
		progress.SetTotal(len(groups))
	}

	result := &Result{Outputs: make([]model.Output, 0, len(groups))}
	for i, group := range groups {
		if progress != nil {
			progress.Describe(group.Label())
		}

		if err := writeGroup(h, src, plan, group, paths[i]); err != nil {
			logger.LogSpanError(group.Label(), group.Region.String(), err)
			return result, fmt.Errorf("group %s (%s): %w", group.Label(), group.Region, err)
		}
		result.Outputs = append(result.Outputs, model.Output{Group: group, Path: paths[i]})
		logger.Group(group.Label()).Debug("wrote %s from %s", filepath.Base(paths[i]), group.Region)

		if progress != nil {
			if err := progress.Increment(); err != nil {
				logger.Debug("Progress update failed: %v", err)
			}
		}
	}
	return result, nil
}

func writeGroup(h host.Host, src host.Sheet, plan Plan, group model.Group, path string) (err error) {
	doc, err := h.NewDocument()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := doc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	regions := []struct {
		from   model.Address
		anchor string
	}{
		{plan.Introduction, plan.IntroductionAnchor},
		{plan.Header, plan.HeaderAnchor},
		{group.Region, plan.ContentAnchor},
	}
	scope := logger.Group(group.Label())
	for _, r := range regions {
		scope.Debug("paste %s at %s", r.from, r.anchor)
		if err := doc.Paste(src, r.from, r.anchor, plan.Behavior); err != nil {
			return err
		}
		if plan.ColumnWidths && plan.Behavior != paste.ColumnWidths {
			if err := doc.Paste(src, r.from, r.anchor, paste.ColumnWidths); err != nil {
				return err
			}
		}
	}

	return doc.SaveAs(path)
}

// outputPaths resolves the file of every group before anything is written,
// so two labels that map to the same file fail the run up front
func outputPaths(dir string, groups []model.Group) ([]string, error) {
	paths := make([]string, len(groups))
	owners := make(map[string]string, len(groups))
	for i, group := range groups {
		name := FileName(group.Label())
		key := strings.ToLower(name) // case-insensitive file systems
		if owner, taken := owners[key]; taken {
			return nil, &model.DataIntegrityError{
				Reason: fmt.Sprintf("groups %q and %q both map to %s", owner, group.Label(), name),
			}
		}
		owners[key] = group.Label()
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// FileName returns the document file name for a group label: "<label>.xlsx".
// The label is NFC-normalized and characters that are not allowed in file
// names are replaced with "_".
func FileName(label string) string {
	label = norm.NFC.String(label)

	var b strings.Builder
	for _, r := range label {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`<>:"/\|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}

	name := strings.TrimRight(b.String(), " .")
	if name == "" {
		name = "_"
	}
	return name + ".xlsx"
}
