package random

import (
	"crypto/rand"
	"fmt"
)

// Bytes32 returns 32 cryptographically secure random bytes.
func Bytes32() ([32]byte, error) {
	var out [32]byte
	if _, err := rand.Read(out[:]); err != nil {
		return out, fmt.Errorf("failed to read random bytes: %w", err)
	}
	return out, nil
}
