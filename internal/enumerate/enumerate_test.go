package enumerate

import (
	"errors"
	"testing"

	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// scripted is a count+fill pair that reports Incomplete on the first k fill calls.
type scripted struct {
	data       []string
	incomplete int
	countCalls int
	fillCalls  int
}

func (s *scripted) query(count *uint32, out []string) vkapi.Status {
	if out == nil {
		s.countCalls++
		*count = uint32(len(s.data))
		return vkapi.Success
	}
	s.fillCalls++
	n := copy(out[:*count], s.data)
	*count = uint32(n)
	if s.incomplete > 0 {
		s.incomplete--
		return vkapi.Incomplete
	}
	return vkapi.Success
}

func TestAll_RetriesIncomplete(t *testing.T) {
	tests := []struct {
		name       string
		incomplete int
	}{
		{"no retries", 0},
		{"one retry", 1},
		{"several retries", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &scripted{data: []string{"a", "b", "c"}, incomplete: tt.incomplete}

			got, err := All(s.query)
			if err != nil {
				t.Fatalf("All() returned error: %v", err)
			}

			wantCycles := tt.incomplete + 1
			if s.countCalls != wantCycles || s.fillCalls != wantCycles {
				t.Errorf("expected %d count and fill calls, got %d and %d",
					wantCycles, s.countCalls, s.fillCalls)
			}
			if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
				t.Errorf("unexpected result %v", got)
			}
		})
	}
}

func TestAll_ZeroCountSkipsFill(t *testing.T) {
	s := &scripted{}

	got, err := All(s.query)
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if s.countCalls != 1 {
		t.Errorf("expected 1 count call, got %d", s.countCalls)
	}
	if s.fillCalls != 0 {
		t.Errorf("expected no fill call, got %d", s.fillCalls)
	}
}

func TestAll_GrowingResultSet(t *testing.T) {
	// The set grows between the count and the fill call once.
	data := []int{1, 2}
	grown := false
	cycles := 0
	q := func(count *uint32, out []int) vkapi.Status {
		if out == nil {
			cycles++
			*count = uint32(len(data))
			return vkapi.Success
		}
		if !grown {
			grown = true
			data = append(data, 3)
		}
		n := copy(out[:*count], data)
		*count = uint32(n)
		if n < len(data) {
			return vkapi.Incomplete
		}
		return vkapi.Success
	}

	got, err := All(q)
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if cycles != 2 {
		t.Errorf("expected 2 cycles, got %d", cycles)
	}
	if len(got) != 3 || got[2] != 3 {
		t.Errorf("expected the grown set, got %v", got)
	}
}

func TestAll_ShorterFillIsTruncated(t *testing.T) {
	q := func(count *uint32, out []int) vkapi.Status {
		if out == nil {
			*count = 4
			return vkapi.Success
		}
		out[0], out[1] = 7, 8
		*count = 2
		return vkapi.Success
	}

	got, err := All(q)
	if err != nil {
		t.Fatalf("All() returned error: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 items, got %d", len(got))
	}
}

func TestAll_FailurePropagates(t *testing.T) {
	tests := []struct {
		name       string
		failOnFill bool
		status     vkapi.Status
	}{
		{"count call fails", false, vkapi.ErrorOutOfHostMemory},
		{"fill call fails", true, vkapi.ErrorDeviceLost},
		{"non-error status is still not success", false, vkapi.NotReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			q := func(count *uint32, out []int) vkapi.Status {
				calls++
				if out == nil {
					if !tt.failOnFill {
						return tt.status
					}
					*count = 1
					return vkapi.Success
				}
				return tt.status
			}

			got, err := All(q)
			if got != nil {
				t.Errorf("expected nil result, got %v", got)
			}
			var se *StatusError
			if !errors.As(err, &se) {
				t.Fatalf("expected *StatusError, got %v", err)
			}
			if se.Status != tt.status {
				t.Errorf("expected status %s, got %s", tt.status, se.Status)
			}

			wantCalls := 1
			if tt.failOnFill {
				wantCalls = 2
			}
			if calls != wantCalls {
				t.Errorf("expected %d calls without retry, got %d", wantCalls, calls)
			}
		})
	}
}

func TestStatusError_Message(t *testing.T) {
	err := &StatusError{Status: vkapi.ErrorLayerNotPresent}
	if err.Error() != "query failed: VK_ERROR_LAYER_NOT_PRESENT" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
