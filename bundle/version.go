// Package bundle implements the versioned encrypted envelope shared by all
// seclink clients.
//
// A bundle is a self-describing byte sequence carrying everything needed to
// decrypt except the key. The first byte selects the format:
//
//	0x00  [ver:1][nonce:12][ciphertext:N][tag:16]              AES-256-GCM
//	0x01  [ver:1][keyVer:2][nonce:12][ciphertext:N][tag:16]    AES-256-GCM
//
// Version 0x00 is the format every current client writes; 0x01 reserves a
// key-version field for rotation and is decode-only until rotation ships.
// Unknown versions are rejected, never interpreted as a default layout.
//
// A legacy NaCl box/secretbox family (24-byte nonces) survives as a
// decode-only path for bundles written by older clients and for the pairing
// handshake response; see legacy.go. The encoder cannot emit it.
package bundle

import "fmt"

// Version is the bundle format discriminator carried in the first byte.
type Version byte

// On-wire version bytes. These values are frozen protocol constants shared
// with the Swift, Kotlin, and TypeScript clients; they are not ordered by
// recency: 0x00 is the version all new bundles are written in.
const (
	// VersionAEAD is the current write format: AES-256-GCM, no key
	// versioning.
	VersionAEAD Version = 0x00

	// VersionAEADKeyed adds a 2-byte key-version field ahead of the nonce.
	// Decode-only until key rotation ships.
	VersionAEADKeyed Version = 0x01
)

// Envelope geometry.
const (
	nonceSize = 12
	tagSize   = 16

	keyVersionSize = 2

	// minLenAEAD is the shortest valid 0x00 bundle: version byte, nonce,
	// empty ciphertext, tag.
	minLenAEAD = 1 + nonceSize + tagSize // 29

	// minLenAEADKeyed is the shortest valid 0x01 bundle.
	minLenAEADKeyed = 1 + keyVersionSize + nonceSize + tagSize // 31
)

// minLength returns the minimum total bundle length for a version, or false
// for an unrecognized version byte.
func (v Version) minLength() (int, bool) {
	switch v {
	case VersionAEAD:
		return minLenAEAD, true
	case VersionAEADKeyed:
		return minLenAEADKeyed, true
	default:
		return 0, false
	}
}

// String implements fmt.Stringer for log output.
func (v Version) String() string {
	switch v {
	case VersionAEAD:
		return "aead"
	case VersionAEADKeyed:
		return "aead+keyver"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(v))
	}
}
