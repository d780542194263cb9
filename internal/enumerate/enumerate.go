// Package enumerate drives the count-then-fill enumeration idiom of the native API.
package enumerate

import (
	"fmt"

	"github.com/Zandriy/VK-validator/internal/vkapi"
)

// Query is one count-then-fill native call. With a nil slice it stores the number
// of available items in *count; with a slice it fills at most *count items and
// stores how many it wrote.
type Query[T any] func(count *uint32, out []T) vkapi.Status

// StatusError reports a query that failed with a non-retryable status.
type StatusError struct {
	Status vkapi.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("query failed: %s", e.Status)
}

// All runs q until it returns a complete result set. Incomplete from either call
// restarts the cycle at the count call; there is no retry limit because the driver's
// result set is expected to settle. A count of zero returns an empty slice without
// issuing the fill call. Any other failing status is returned as *StatusError.
func All[T any](q Query[T]) ([]T, error) {
	for {
		var count uint32
		st := q(&count, nil)
		if st == vkapi.Incomplete {
			continue
		}
		if st != vkapi.Success {
			return nil, &StatusError{Status: st}
		}
		if count == 0 {
			return []T{}, nil
		}

		items := make([]T, count)
		st = q(&count, items)
		if st == vkapi.Incomplete {
			continue
		}
		if st != vkapi.Success {
			return nil, &StatusError{Status: st}
		}
		return items[:min(int(count), len(items))], nil
	}
}
