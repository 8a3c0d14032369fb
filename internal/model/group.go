package model

// GroupKey identifies which output document a row belongs to
type GroupKey struct {
	Name string
	Ref  string
}

// Label joins name and ref with an underscore ("X_1")
func (k GroupKey) Label() string {
	return k.Name + "_" + k.Ref
}

// Span is a closed interval [Start, End] of zero-based row offsets
// within the content range
type Span struct {
	Start int
	End   int
}

// Len returns the number of rows in the span
func (s Span) Len() int {
	return s.End - s.Start + 1
}

// Group is one resolved group: its key, its span and the derived region
type Group struct {
	Key    GroupKey
	Span   Span
	Region Address
}

// Label returns the group label used for the output file name
func (g Group) Label() string {
	return g.Key.Label()
}

// Output describes one written document
type Output struct {
	Group Group
	Path  string
}
