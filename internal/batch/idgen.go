package batch

import (
	"encoding/binary"
	"fmt"
	mrand "math/rand/v2"

	"github.com/google/uuid"
)

// IDGenerator produces batch identifiers. Injected so tests can use a fixed
// sequence.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues RFC 4122 version 4 identifiers. If the crypto random
// source fails it falls back to math/rand with the same version/variant bit
// fixing, trading randomness quality for availability.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	id, err := uuid.NewRandom()
	if err == nil {
		return id.String()
	}
	return fallbackUUID()
}

func fallbackUUID() string {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], mrand.Uint64())
	binary.BigEndian.PutUint64(b[8:16], mrand.Uint64())
	b[6] = (b[6] & 0x0f) | 0x40 // version 4
	b[8] = (b[8] & 0x3f) | 0x80 // variant 10xx
	return fmt.Sprintf("%x-%x-%x-%x-%x", b[0:4], b[4:6], b[6:8], b[8:10], b[10:16])
}
