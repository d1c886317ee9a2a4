package shape

import (
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
)

// IDFunc produces a new unique id with the given prefix ("rect", "row", "seat", ...).
type IDFunc func(prefix string) string

// NewID returns a random id such as "seat-0b6f...".
func NewID(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// SequentialIDs returns an IDFunc producing "prefix-1", "prefix-2", ... with
// one counter shared across prefixes. Used for reproducible layouts in tests
// and tools.
func SequentialIDs() IDFunc {
	var n atomic.Int64
	return func(prefix string) string {
		return fmt.Sprintf("%s-%d", prefix, n.Add(1))
	}
}
