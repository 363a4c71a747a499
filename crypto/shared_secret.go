package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/hkdf"
)

// KeyDerivationContext is the HKDF info string binding derived keys to this
// protocol. It is a frozen wire-level constant: every client implementation
// (Swift, Kotlin, TypeScript, Go) must use these exact bytes, or two devices
// will silently derive different keys with no error signal. Treat it as a
// versioned protocol constant, never as configuration.
const KeyDerivationContext = "seclink.e2e.encryption.v1"

// SymmetricKeySize is the size in bytes of a derived AEAD key.
const SymmetricKeySize = 32

// DeriveSharedSecret computes the symmetric encryption key shared between
// two parties: X25519 ECDH on Curve25519 followed by HKDF-SHA256 with an
// empty salt and the fixed KeyDerivationContext info string.
//
// The derivation is deterministic: both peers derive an identical key from
// their own private key and the other's public key.
func DeriveSharedSecret(privateKey, peerPublicKey [32]byte) ([SymmetricKeySize]byte, error) {
	logrus.WithFields(logrus.Fields{
		"function": "DeriveSharedSecret",
		"package":  "crypto",
	}).WithFields(SecureFieldPreview(peerPublicKey[:], "peer_key")).
		Debug("Computing shared secret using ECDH")

	// Work on copies so the caller's key material is never modified.
	var publicKeyCopy [32]byte
	var privateKeyCopy [32]byte
	copy(publicKeyCopy[:], peerPublicKey[:])
	copy(privateKeyCopy[:], privateKey[:])

	rawSecret, err := curve25519.X25519(privateKeyCopy[:], publicKeyCopy[:])
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "DeriveSharedSecret",
			"package":  "crypto",
			"error":    err.Error(),
		}).Error("X25519 computation failed")

		ZeroBytes(privateKeyCopy[:])
		return [SymmetricKeySize]byte{}, fmt.Errorf("%w: %v", ErrInvalidPeerPublicKey, err)
	}

	stream := hkdf.New(sha256.New, rawSecret, nil, []byte(KeyDerivationContext))

	var key [SymmetricKeySize]byte
	if _, err := io.ReadFull(stream, key[:]); err != nil {
		ZeroBytes(privateKeyCopy[:])
		ZeroBytes(rawSecret)
		return [SymmetricKeySize]byte{}, fmt.Errorf("key derivation failed: %w", err)
	}

	// Wipe the key copy and the raw ECDH output; only the derived key
	// leaves this function.
	ZeroBytes(privateKeyCopy[:])
	ZeroBytes(rawSecret)

	logrus.WithFields(logrus.Fields{
		"function": "DeriveSharedSecret",
		"package":  "crypto",
	}).Debug("Shared secret derived, intermediate material wiped")

	return key, nil
}

// DeriveSharedSecretFromBytes is DeriveSharedSecret for callers holding the
// peer key as a raw byte slice, e.g. freshly base64-decoded off the wire.
// It rejects keys that are not exactly 32 bytes.
func DeriveSharedSecretFromBytes(privateKey [32]byte, peerPublicKey []byte) ([SymmetricKeySize]byte, error) {
	if len(peerPublicKey) != 32 {
		return [SymmetricKeySize]byte{}, fmt.Errorf("%w: got %d bytes, want 32",
			ErrInvalidPeerPublicKey, len(peerPublicKey))
	}

	var peerKey [32]byte
	copy(peerKey[:], peerPublicKey)
	return DeriveSharedSecret(privateKey, peerKey)
}
