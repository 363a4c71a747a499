package crypto

import "errors"

// Common errors for the crypto package.
var (
	// ErrRandomSourceUnavailable indicates the platform CSPRNG could not be
	// read. This is fatal; callers must not retry.
	ErrRandomSourceUnavailable = errors.New("random source unavailable")

	// ErrInvalidPeerPublicKey indicates a peer public key with the wrong
	// length or format was supplied to key agreement.
	ErrInvalidPeerPublicKey = errors.New("invalid peer public key")

	// ErrKeypairGeneration wraps a failure of the underlying curve or RNG
	// while generating a key pair.
	ErrKeypairGeneration = errors.New("keypair generation failed")
)
