package util

import (
	"crypto/rand"
	"encoding/binary"
	"time"
)

// GenerateSeed draws a random seed from crypto/rand, falling back to the
// wall clock only if the system RNG is unavailable. The keyspace actor
// calls this exactly once, at construction, to seed the math/rand source
// shared by RANDOMKEY and SRANDMEMBER - neither reseeds per call.
func GenerateSeed() uint64 {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return uint64(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint64(b[:])
}
