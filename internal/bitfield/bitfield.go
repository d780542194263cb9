// Package bitfield turns flag masks into labels such as "(GRAPHICS | COMPUTE)".
//
// A Table lists the bits it knows in a fixed order with their canonical API names.
// Label tests only those bits, so bits missing from a table are silently left out.
package bitfield

import "strings"

// Entry maps one bit to its canonical name.
type Entry struct {
	Bit  uint64
	Name string
}

// Table is an ordered bit -> name mapping with its presentation settings.
type Table struct {
	Entries []Entry
	// TrimPrefix and TrimSuffix are the number of bytes cut from the front and the
	// back of every name, e.g. len("VK_QUEUE_") and len("_BIT").
	TrimPrefix int
	TrimSuffix int
	Open       string
	Close      string
	Separator  string
}

// Label lists, in table order, the trimmed names of every entry whose bit is set in
// value, wrapped in the table's delimiters. A value with no known bit yields just
// the delimiters.
func (t Table) Label(value uint64) string {
	var sb strings.Builder
	sb.WriteString(t.Open)
	first := true
	for _, e := range t.Entries {
		if e.Bit == 0 || value&e.Bit != e.Bit {
			continue
		}
		if !first {
			sb.WriteString(t.Separator)
		}
		sb.WriteString(t.trim(e.Name))
		first = false
	}
	sb.WriteString(t.Close)
	return sb.String()
}

// Names returns the trimmed names of the set bits without delimiters.
func (t Table) Names(value uint64) []string {
	names := make([]string, 0, len(t.Entries))
	for _, e := range t.Entries {
		if e.Bit != 0 && value&e.Bit == e.Bit {
			names = append(names, t.trim(e.Name))
		}
	}
	return names
}

func (t Table) trim(name string) string {
	if t.TrimPrefix+t.TrimSuffix >= len(name) {
		return name
	}
	return name[t.TrimPrefix : len(name)-t.TrimSuffix]
}
