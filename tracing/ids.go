package tracing

import (
	"encoding/binary"

	"github.com/google/uuid"
)

// NewID returns a random non-zero 64-bit identifier suitable for trace and
// span IDs. Zero is reserved as the "no parent" sentinel.
func NewID() uint64 {
	for {
		id := uuid.New()
		if v := binary.BigEndian.Uint64(id[:8]); v != 0 {
			return v
		}
	}
}
