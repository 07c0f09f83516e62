// Package uuid generates UUIDv7 identifiers for request tracing.
package uuid

import (
	"crypto/rand"
	"fmt"
	"time"

	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string. The leading 48 bits carry the Unix
// timestamp in milliseconds, so identifiers generated in sequence sort
// chronologically, which keeps request IDs groupable in log streams.
// Layout follows RFC 9562: timestamp, then version and variant bits
// over random data.
func New() string {
	var id [16]byte

	if _, err := rand.Read(id[6:]); err != nil {
		// crypto/rand should not fail; fall back to a random v4 UUID.
		return googleuuid.New().String()
	}

	ms := uint64(time.Now().UnixMilli())
	id[0] = byte(ms >> 40)
	id[1] = byte(ms >> 32)
	id[2] = byte(ms >> 24)
	id[3] = byte(ms >> 16)
	id[4] = byte(ms >> 8)
	id[5] = byte(ms)

	id[6] = (id[6] & 0x0f) | 0x70 // version 7
	id[8] = (id[8] & 0x3f) | 0x80 // RFC 4122 variant

	return fmt.Sprintf("%x-%x-%x-%x-%x", id[0:4], id[4:6], id[6:8], id[8:10], id[10:16])
}
