package models

import "strings"

// Value is a frontmatter value: either a scalar string or an ordered list
// of strings written as [a, b, c]. No numeric or boolean coercion happens.
type Value struct {
	scalar string
	items  []string
	list   bool
}

// Scalar returns a scalar Value.
func Scalar(s string) Value { return Value{scalar: s} }

// List returns a list Value. A nil items slice is stored as empty.
func List(items ...string) Value {
	if items == nil {
		items = []string{}
	}
	return Value{items: items, list: true}
}

// IsList reports whether the value was written as a bracketed list.
func (v Value) IsList() bool { return v.list }

// String returns the scalar text, or the list items joined by ", ".
func (v Value) String() string {
	if v.list {
		return strings.Join(v.items, ", ")
	}
	return v.scalar
}

// Strings returns the list items. A non-empty scalar is coerced to a
// one-element list and an empty scalar to an empty list.
func (v Value) Strings() []string {
	if v.list {
		out := make([]string, len(v.items))
		copy(out, v.items)
		return out
	}
	if v.scalar == "" {
		return []string{}
	}
	return []string{v.scalar}
}

// Metadata is the key/value block of a note's frontmatter.
type Metadata map[string]Value

// Get returns the value for key and whether it was present.
func (m Metadata) Get(key string) (Value, bool) {
	v, ok := m[key]
	return v, ok
}
