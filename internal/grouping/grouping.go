// Package grouping partitions the rows of a content range into groups keyed by
// two blank-filled label columns.
//
// The label columns only carry a value on the first row of each group; the rows
// below are blank and inherit it. Each distinct (name, ref) pair becomes one
// group whose span runs from its first to its last occurrence, and groups are
// returned in first-occurrence order.
package grouping

import (
	"errors"
	"fmt"

	"site-split/internal/model"
)

// ColumnReader reads the values of a single-column address, one per row
type ColumnReader interface {
	ColumnValues(addr model.Address) ([]string, error)
}

// ForwardFill replaces each missing (empty) value with the nearest preceding
// non-missing value. It fails if the first element is missing, since there is
// nothing to carry down.
func ForwardFill(values []string) ([]string, error) {
	filled := make([]string, len(values))
	last := ""
	for i, v := range values {
		if v != "" {
			last = v
		} else if i == 0 {
			return nil, errLeadingMissing
		}
		filled[i] = last
	}
	return filled, nil
}

var errLeadingMissing = errors.New("leading value is missing")

// ComputeSpans groups the rows of address by the forward-filled (name, ref) pair.
//
// refValues and nameValues are aligned row for row with address. A key's span is
// [first occurrence, last occurrence]; if a key reappears after other keys, its
// span also covers the rows in between.
func ComputeSpans(address model.Address, refValues, nameValues []string) ([]model.Group, error) {
	if len(refValues) != address.Rows() || len(nameValues) != address.Rows() {
		return nil, &model.DataIntegrityError{
			Reason: fmt.Sprintf("column values not aligned with %s: %d rows, got ref=%d name=%d",
				address, address.Rows(), len(refValues), len(nameValues)),
		}
	}

	refs, err := ForwardFill(refValues)
	if err != nil {
		return nil, &model.DataIntegrityError{Column: "ref", Row: address.Top, Reason: "first reference value is missing"}
	}
	names, err := ForwardFill(nameValues)
	if err != nil {
		return nil, &model.DataIntegrityError{Column: "name", Row: address.Top, Reason: "first name value is missing"}
	}

	var order []model.GroupKey
	spans := make(map[model.GroupKey]model.Span)
	for i := range refs {
		key := model.GroupKey{Name: names[i], Ref: refs[i]}
		span, seen := spans[key]
		if !seen {
			order = append(order, key)
			span.Start = i
		}
		span.End = i
		spans[key] = span
	}

	groups := make([]model.Group, 0, len(order))
	for _, key := range order {
		span := spans[key]
		groups = append(groups, model.Group{
			Key:    key,
			Span:   span,
			Region: address.Slice(span),
		})
	}
	return groups, nil
}

// Split reads the ref and name columns over the rows of content and groups them.
// Integrity errors name the actual sheet columns.
func Split(reader ColumnReader, content model.Address, refCol, nameCol string) ([]model.Group, error) {
	refValues, err := reader.ColumnValues(content.Column(refCol))
	if err != nil {
		return nil, fmt.Errorf("failed to read reference column %s: %w", refCol, err)
	}
	nameValues, err := reader.ColumnValues(content.Column(nameCol))
	if err != nil {
		return nil, fmt.Errorf("failed to read name column %s: %w", nameCol, err)
	}

	// A ColumnReader may stop at the last filled cell; pad short reads so rows stay aligned
	refValues = pad(refValues, content.Rows())
	nameValues = pad(nameValues, content.Rows())

	groups, err := ComputeSpans(content, refValues, nameValues)
	if err != nil {
		var integrity *model.DataIntegrityError
		if errors.As(err, &integrity) {
			switch integrity.Column {
			case "ref":
				integrity.Column = refCol
			case "name":
				integrity.Column = nameCol
			}
		}
		return nil, err
	}
	return groups, nil
}

// Regions returns the derived regions of groups, in order
func Regions(groups []model.Group) []model.Address {
	regions := make([]model.Address, len(groups))
	for i, g := range groups {
		regions[i] = g.Region
	}
	return regions
}

// Labels returns the labels of groups, in order
func Labels(groups []model.Group) []string {
	labels := make([]string, len(groups))
	for i, g := range groups {
		labels[i] = g.Label()
	}
	return labels
}

// pad extends a short read with missing values up to n rows
func pad(values []string, n int) []string {
	if len(values) >= n {
		return values
	}
	padded := make([]string, n)
	copy(padded, values)
	return padded
}
