package domain

import "strings"

// Name is a DNS domain name: an ordered sequence of labels, most
// specific first, with the zero-length root label implicit. The zero
// value is the root name.
//
// The backing label slice is never mutated once it is attached to a
// Name. Every mutating operation copies the labels into a fresh slice
// and returns a new value, so Names (and the suffix Names produced by
// BaseName) may be freely shared across goroutines and may alias each
// other's storage without copying label bytes.
type Name struct {
	labels []string
}

// NewName returns the root name (no labels).
func NewName() Name {
	return Name{}
}

// NameWithLabels builds a name from labels ordered most specific first.
// The input slice is copied.
func NameWithLabels(labels []string) Name {
	if len(labels) == 0 {
		return Name{}
	}
	ls := make([]string, len(labels))
	copy(ls, labels)
	return Name{labels: ls}
}

// AppendLabel returns a new name with label added at the least specific
// (root) end, so NewName().AppendLabel("example").AppendLabel("com")
// yields "example.com.".
func (n Name) AppendLabel(label string) Name {
	ls := make([]string, len(n.labels)+1)
	copy(ls, n.labels)
	ls[len(n.labels)] = label
	return Name{labels: ls}
}

// Append returns a new name holding n's labels followed by all of
// other's labels. Neither operand is modified.
func (n Name) Append(other Name) Name {
	if other.IsRoot() {
		return n
	}
	ls := make([]string, 0, len(n.labels)+len(other.labels))
	ls = append(ls, n.labels...)
	ls = append(ls, other.labels...)
	return Name{labels: ls}
}

// BaseName returns the name with the single most specific label
// removed, reporting false when there is no label to remove. The
// returned name shares storage with n.
func (n Name) BaseName() (Name, bool) {
	if len(n.labels) == 0 {
		return Name{}, false
	}
	return Name{labels: n.labels[1:]}, true
}

// Label returns the label at position i (0 = most specific), reporting
// false when i is out of range.
func (n Name) Label(i int) (string, bool) {
	if i < 0 || i >= len(n.labels) {
		return "", false
	}
	return n.labels[i], true
}

// LabelCount returns the number of labels in the name.
func (n Name) LabelCount() int {
	return len(n.labels)
}

// IsRoot reports whether the name has no labels.
func (n Name) IsRoot() bool {
	return len(n.labels) == 0
}

// Labels returns the label sequence, most specific first. The returned
// slice is shared with the name and must not be modified.
func (n Name) Labels() []string {
	return n.labels
}

// ZoneOf reports whether every label of n is present at the root end of
// other; that is, other is n itself or lies inside the zone rooted at
// n. Comparison is byte-exact: wire-decoded names are not normalized,
// only ParseName lowercases.
func (n Name) ZoneOf(other Name) bool {
	if len(n.labels) > len(other.labels) {
		return false
	}
	for i := 1; i <= len(n.labels); i++ {
		if n.labels[len(n.labels)-i] != other.labels[len(other.labels)-i] {
			return false
		}
	}
	return true
}

// Equal reports whether both names hold the same labels, compared
// byte-exact in order.
func (n Name) Equal(other Name) bool {
	if len(n.labels) != len(other.labels) {
		return false
	}
	for i := range n.labels {
		if n.labels[i] != other.labels[i] {
			return false
		}
	}
	return true
}

// String renders the name in presentation form, each label followed by
// a dot. The root name renders as the empty string.
func (n Name) String() string {
	var b strings.Builder
	for _, label := range n.labels {
		b.WriteString(label)
		b.WriteByte('.')
	}
	return b.String()
}

// ParseName converts a presentation-format name into a Name. The text
// is split on dots, empty components are dropped, and each label is
// lowercased. Unless the text ends with a dot (fully qualified), the
// origin's labels are appended; a relative name with a nil origin fails
// with ErrOriginUndefined.
//
// Escape sequences are not interpreted; a label containing an escaped
// dot will be split like any other.
func ParseName(text string, origin *Name) (Name, error) {
	parts := strings.Split(text, ".")
	labels := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		labels = append(labels, strings.ToLower(part))
	}
	if !strings.HasSuffix(text, ".") {
		if origin == nil {
			return Name{}, ErrOriginUndefined
		}
		labels = append(labels, origin.labels...)
	}
	if len(labels) == 0 {
		return Name{}, nil
	}
	return Name{labels: labels}, nil
}
