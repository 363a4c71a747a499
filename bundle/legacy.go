package bundle

import (
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/opd-ai/seclink/crypto"
)

// Legacy NaCl formats. Both are decode-only: older clients wrote them, and
// the pairing relay still delivers the authorization response as a box
// bundle, but nothing in this package can produce them.

const (
	legacyNonceSize = 24

	// boxOverhead is the Poly1305 tag embedded in box/secretbox ciphertext.
	boxOverhead = box.Overhead

	minLenBox       = 32 + legacyNonceSize + boxOverhead
	minLenSecretbox = legacyNonceSize + boxOverhead
)

// OpenBox decrypts a box-format bundle [ephemeralPublicKey:32][nonce:24]
// [ciphertext] with the recipient's private key, returning the plaintext
// and the sender's ephemeral public key. Used by the pairing handshake to
// open the relay's authorization response. Failures are opaque.
func OpenBox(data []byte, recipientPrivate [32]byte) ([]byte, [32]byte, error) {
	var ephemeralKey [32]byte
	if len(data) < minLenBox {
		return nil, ephemeralKey, ErrDecryptionFailed
	}

	copy(ephemeralKey[:], data[:32])
	var nonce [legacyNonceSize]byte
	copy(nonce[:], data[32:32+legacyNonceSize])
	ciphertext := data[32+legacyNonceSize:]

	plaintext, ok := box.Open(nil, ciphertext, &nonce, &ephemeralKey, &recipientPrivate)
	if !ok {
		return nil, [32]byte{}, ErrDecryptionFailed
	}

	return plaintext, ephemeralKey, nil
}

// OpenSecretbox decrypts a legacy symmetric bundle [nonce:24][ciphertext]
// sealed with XSalsa20-Poly1305 by an older client. Failures are opaque.
func OpenSecretbox(data []byte, key [crypto.SymmetricKeySize]byte) ([]byte, error) {
	if len(data) < minLenSecretbox {
		return nil, ErrDecryptionFailed
	}

	var nonce [legacyNonceSize]byte
	copy(nonce[:], data[:legacyNonceSize])

	plaintext, ok := secretbox.Open(nil, data[legacyNonceSize:], &nonce, (*[32]byte)(&key))
	if !ok {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}
