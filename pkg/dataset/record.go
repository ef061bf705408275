package dataset

// NoLabel is the sentinel written in the class column for unlabeled records
const NoLabel = "None"

// Label is an optional class label. The zero value is the absent label.
type Label struct {
	value string
	ok    bool
}

// Some returns a present label
func Some(value string) Label {
	return Label{value: value, ok: true}
}

// None returns the absent label
func None() Label {
	return Label{}
}

// Value returns the label and whether it is present
func (l Label) Value() (string, bool) {
	return l.value, l.ok
}

// IsSet reports whether the label is present
func (l Label) IsSet() bool {
	return l.ok
}

// Equal reports whether both labels are present and identical
func (l Label) Equal(value string) bool {
	return l.ok && l.value == value
}

// String renders the label for the tabular format, using NoLabel when absent
func (l Label) String() string {
	if !l.ok {
		return NoLabel
	}
	return l.value
}

// Record is one news abstract with its identifier and optional market class
type Record struct {
	ID    int
	Label Label
	Text  string
}
