package crypto

import (
	"crypto/ed25519"
	"errors"
	"fmt"
)

// SignatureSize is the size of an Ed25519 detached signature in bytes.
const SignatureSize = ed25519.SignatureSize

// SigningSeedSize is the seed length required to derive a signing key pair.
const SigningSeedSize = ed25519.SeedSize

// Signature represents an Ed25519 detached signature.
type Signature [SignatureSize]byte

// SigningKeyPair holds an Ed25519 key pair used to prove control of a
// previously exchanged secret during challenge verification.
type SigningKeyPair struct {
	Public  ed25519.PublicKey
	Private ed25519.PrivateKey
}

// SigningKeyPairFromSeed deterministically derives an Ed25519 key pair from
// a 32-byte seed. The same seed always yields the same key pair, so a
// pairing's shared secret can double as a signing identity on both devices.
func SigningKeyPairFromSeed(seed [SigningSeedSize]byte) *SigningKeyPair {
	private := ed25519.NewKeyFromSeed(seed[:])
	return &SigningKeyPair{
		Public:  private.Public().(ed25519.PublicKey),
		Private: private,
	}
}

// SignDetached creates an Ed25519 signature over message. Pure function, no
// side effects.
func SignDetached(message []byte, kp *SigningKeyPair) (Signature, error) {
	if kp == nil || len(kp.Private) != ed25519.PrivateKeySize {
		return Signature{}, errors.New("invalid signing key pair")
	}
	if len(message) == 0 {
		return Signature{}, errors.New("empty message")
	}

	var signature Signature
	copy(signature[:], ed25519.Sign(kp.Private, message))

	return signature, nil
}

// VerifyDetached reports whether signature is valid for message under
// publicKey. Pure function, no side effects.
func VerifyDetached(message []byte, signature Signature, publicKey []byte) (bool, error) {
	if len(publicKey) != ed25519.PublicKeySize {
		return false, fmt.Errorf("invalid public key length %d", len(publicKey))
	}
	if len(message) == 0 {
		return false, errors.New("empty message")
	}

	return ed25519.Verify(publicKey, message, signature[:]), nil
}
