package bundle

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/seclink/crypto"
)

// Codec encrypts and decrypts versioned bundles with a symmetric key. It
// owns the nonce source consumed by Encrypt; construct one Codec per
// encrypting component and share it across goroutines freely; the nonce
// source carries the only lock.
type Codec struct {
	nonces *crypto.NonceSource
}

// NewCodec returns a codec with a fresh nonce source.
func NewCodec() *Codec {
	return &Codec{nonces: crypto.NewNonceSource()}
}

// NewCodecWithNonceSource returns a codec using an externally owned nonce
// source, for callers that share one source across several codecs.
func NewCodecWithNonceSource(ns *crypto.NonceSource) *Codec {
	return &Codec{nonces: ns}
}

// Encrypt seals plaintext with AES-256-GCM and frames it as a version 0x00
// bundle. Each call consumes one nonce from the codec's source.
func (c *Codec) Encrypt(plaintext []byte, key [crypto.SymmetricKeySize]byte) ([]byte, error) {
	nonce, err := c.nonces.Next(crypto.NonceSizeAEAD)
	if err != nil {
		return nil, err
	}
	return sealWithNonce(plaintext, key, nonce)
}

// sealWithNonce performs the AEAD seal with an explicit nonce. Split out so
// the cross-implementation vector tests can pin the nonce; production code
// reaches it only through Encrypt.
func sealWithNonce(plaintext []byte, key [crypto.SymmetricKeySize]byte, nonce []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, 0, 1+nonceSize+len(plaintext)+tagSize)
	out = append(out, byte(VersionAEAD))
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plaintext, nil)

	return out, nil
}

// Decrypt opens a bundle previously produced by any current client. The
// version byte alone decides the parse; the bundle is length-checked against
// its version's minimum before any field is sliced. All failures surface as
// ErrDecryptionFailed.
func (c *Codec) Decrypt(data []byte, key [crypto.SymmetricKeySize]byte) ([]byte, error) {
	return Decrypt(data, key)
}

// Decrypt is the package-level decode path; it needs no nonce source.
func Decrypt(data []byte, key [crypto.SymmetricKeySize]byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrDecryptionFailed
	}

	version := Version(data[0])
	minLen, ok := version.minLength()
	if !ok {
		logrus.WithFields(logrus.Fields{
			"function": "Decrypt",
			"package":  "bundle",
			"version":  version.String(),
		}).Debug("Rejecting bundle with unrecognized version byte")
		return nil, ErrDecryptionFailed
	}
	if len(data) < minLen {
		return nil, ErrDecryptionFailed
	}

	var nonce, sealed []byte
	switch version {
	case VersionAEAD:
		nonce = data[1 : 1+nonceSize]
		sealed = data[1+nonceSize:]
	case VersionAEADKeyed:
		// The 2-byte key version is skipped until rotation ships; every
		// key in circulation is version zero.
		nonce = data[1+keyVersionSize : 1+keyVersionSize+nonceSize]
		sealed = data[1+keyVersionSize+nonceSize:]
	}

	aead, err := newAEAD(key)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	plaintext, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}

	return plaintext, nil
}

func newAEAD(key [crypto.SymmetricKeySize]byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, fmt.Errorf("aead init: %w", err)
	}
	return cipher.NewGCM(block)
}
