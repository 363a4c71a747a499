package crypto

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"sync"
)

// Nonce sizes supported by NextNonce.
const (
	// NonceSizeAEAD is the 12-byte nonce size used by the AES-GCM bundle
	// format.
	NonceSizeAEAD = 12

	// NonceSizeBox is the 24-byte nonce size used by the NaCl box and
	// secretbox formats.
	NonceSizeBox = 24

	// nonceCounterSize is the number of trailing bytes holding the
	// big-endian counter in every generated nonce.
	nonceCounterSize = 8
)

// NonceSource produces hybrid nonces: a random prefix followed by a
// monotonically increasing 64-bit counter in the low-order tail. The random
// prefix defends against counter reuse across process restarts; the counter
// guarantees distinct nonces within a process even if the random bytes
// collide.
//
// A NonceSource is safe for concurrent use. Each encrypting component owns
// its own source; there is no package-level singleton, so tests construct a
// fresh instance instead of resetting shared state.
type NonceSource struct {
	mu      sync.Mutex
	counter uint64
}

// NewNonceSource returns a nonce source with its counter at zero.
func NewNonceSource() *NonceSource {
	return &NonceSource{}
}

// Next returns a fresh nonce of the requested size (NonceSizeAEAD or
// NonceSizeBox): size-8 random bytes followed by the counter, big-endian.
// The counter never resets for the lifetime of the source.
//
// It fails with ErrRandomSourceUnavailable if the platform CSPRNG cannot be
// read; that failure is fatal and must not be retried.
func (ns *NonceSource) Next(size int) ([]byte, error) {
	if size != NonceSizeAEAD && size != NonceSizeBox {
		return nil, fmt.Errorf("unsupported nonce size %d", size)
	}

	ns.mu.Lock()
	counter := ns.counter
	ns.counter++
	ns.mu.Unlock()

	nonce := make([]byte, size)
	if _, err := rand.Read(nonce[:size-nonceCounterSize]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSourceUnavailable, err)
	}
	binary.BigEndian.PutUint64(nonce[size-nonceCounterSize:], counter)

	return nonce, nil
}
