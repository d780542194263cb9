package bitfield

import (
	"strings"
	"testing"
)

func TestLabel_QueueFlags(t *testing.T) {
	tests := []struct {
		name     string
		value    uint64
		expected string
	}{
		{"no bits", 0, "()"},
		{"graphics only", 0x1, "(GRAPHICS)"},
		{"graphics compute transfer", 0x7, "(GRAPHICS | COMPUTE | TRANSFER)"},
		{"order follows table not value", 0x8 | 0x2, "(COMPUTE | SPARSE_BINDING)"},
		{"all known bits", 0x1F, "(GRAPHICS | COMPUTE | TRANSFER | SPARSE_BINDING | PROTECTED)"},
		{"unknown bits dropped", 0x40 | 0x100, "()"},
		{"unknown mixed with known", 0x1 | 0x20, "(GRAPHICS)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := QueueFlags.Label(tt.value)
			if got != tt.expected {
				t.Errorf("Label(%#x) = %q, expected %q", tt.value, got, tt.expected)
			}
		})
	}
}

func TestLabel_ZeroIsEmptyForEveryTable(t *testing.T) {
	tables := map[string]Table{
		"queue":       QueueFlags,
		"device type": DeviceTypes,
		"memory":      MemoryProperties,
		"heap":        MemoryHeaps,
	}
	for name, table := range tables {
		if got := table.Label(0); got != "()" {
			t.Errorf("%s: Label(0) = %q, expected \"()\"", name, got)
		}
	}
}

// TestLabel_ExactlySetBits checks every mask over the known bits plus one unknown
// bit: the label must name exactly the set bits, once each, in table order.
func TestLabel_ExactlySetBits(t *testing.T) {
	tables := map[string]Table{
		"queue":  QueueFlags,
		"memory": MemoryProperties,
		"heap":   MemoryHeaps,
	}
	for name, table := range tables {
		n := len(table.Entries)
		for mask := uint64(0); mask < 1<<(n+1); mask++ {
			got := table.Names(mask)

			var want []string
			for _, e := range table.Entries {
				if mask&e.Bit != 0 {
					want = append(want, table.trim(e.Name))
				}
			}
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Fatalf("%s: Names(%#x) = %v, expected %v", name, mask, got, want)
			}

			label := table.Label(mask)
			if label != "("+strings.Join(want, " | ")+")" {
				t.Fatalf("%s: Label(%#x) = %q", name, mask, label)
			}
		}
	}
}

func TestLabel_MemoryAndHeap(t *testing.T) {
	if got := MemoryProperties.Label(0x6); got != "(HOST_VISIBLE | HOST_COHERENT)" {
		t.Errorf("memory label = %q", got)
	}
	if got := MemoryHeaps.Label(0x1); got != "(DEVICE_LOCAL)" {
		t.Errorf("heap label = %q", got)
	}
}

func TestDeviceTypeLabel(t *testing.T) {
	tests := []struct {
		value    uint32
		expected string
	}{
		{0, "(OTHER)"},
		{1, "(INTEGRATED_GPU)"},
		{2, "(DISCRETE_GPU)"},
		{3, "(VIRTUAL_GPU)"},
		{4, "(CPU)"},
		{5, "()"},
		{200, "()"},
	}

	for _, tt := range tests {
		if got := DeviceTypeLabel(tt.value); got != tt.expected {
			t.Errorf("DeviceTypeLabel(%d) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}

func TestLabel_CustomTrimAndDelimiters(t *testing.T) {
	table := Table{
		Entries: []Entry{
			{0x1, "PFX_ONE_SFX"},
			{0x2, "PFX_TWO_SFX"},
			{0x4, "AB"},
		},
		TrimPrefix: 4,
		TrimSuffix: 4,
		Open:       "[",
		Close:      "]",
		Separator:  ",",
	}

	if got := table.Label(0x7); got != "[ONE,TWO,AB]" {
		t.Errorf("Label = %q, expected %q", got, "[ONE,TWO,AB]")
	}
	if got := table.Label(0); got != "[]" {
		t.Errorf("Label(0) = %q, expected %q", got, "[]")
	}
}
