package image

import (
	"crypto/rand"
	"encoding/binary"
	"math/big"
)

// CryptoRand draws uniform indices from crypto/rand.
type CryptoRand struct{}

// IntN returns a uniform integer in [0, n). It panics if n <= 0.
func (CryptoRand) IntN(n int) int {
	if n <= 0 {
		panic("image: IntN called with non-positive n")
	}

	idx, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err == nil {
		return int(idx.Int64())
	}

	// Fallback to using binary random bytes if crypto/rand.Int fails.
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		panic("image: failed to read random bytes: " + err.Error())
	}
	return int(binary.LittleEndian.Uint64(buf[:]) % uint64(n))
}
