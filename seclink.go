package seclink

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/seclink/bundle"
	"github.com/opd-ai/seclink/crypto"
	"github.com/opd-ai/seclink/pairing"
)

// Session is an established encryption context with a paired device: the
// derived symmetric key plus the nonce source feeding its codec. Safe for
// concurrent use; the nonce source carries the only lock.
type Session struct {
	Token string

	key   [crypto.SymmetricKeySize]byte
	codec *bundle.Codec
}

// NewSession wraps an already-derived symmetric key in a session.
func NewSession(key [crypto.SymmetricKeySize]byte) *Session {
	return &Session{
		key:   key,
		codec: bundle.NewCodec(),
	}
}

// Pair runs the full pairing flow against the relay in cfg and returns a
// ready session. Mirrors pairing.Handshake.Run's result shape: (nil, nil)
// when ctx is cancelled, (nil, err) when the attempt fails.
func Pair(ctx context.Context, cfg pairing.Config) (*Session, error) {
	handshake := pairing.New(cfg)

	result, err := handshake.Run(ctx)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, nil
	}

	logrus.WithFields(logrus.Fields{
		"function": "Pair",
		"package":  "seclink",
	}).Info("Pairing complete, session established")

	session := NewSession(result.SharedSecret)
	session.Token = result.Token
	return session, nil
}

// Encrypt seals plaintext into a versioned bundle under the session key.
func (s *Session) Encrypt(plaintext []byte) ([]byte, error) {
	return s.codec.Encrypt(plaintext, s.key)
}

// Decrypt opens a bundle produced by any paired client.
func (s *Session) Decrypt(data []byte) ([]byte, error) {
	return s.codec.Decrypt(data, s.key)
}

// EncryptToString seals plaintext and renders the bundle as base64 for JSON
// transports.
func (s *Session) EncryptToString(plaintext []byte) (string, error) {
	data, err := s.Encrypt(plaintext)
	if err != nil {
		return "", err
	}
	return bundle.EncodeToString(data), nil
}

// DecryptFromString opens a base64 bundle received over a text channel.
func (s *Session) DecryptFromString(encoded string) ([]byte, error) {
	data, err := bundle.DecodeString(encoded)
	if err != nil {
		return nil, err
	}
	return s.Decrypt(data)
}

// DecryptLegacy opens a secretbox bundle written by an older client.
// Decode-only; current clients never produce this format.
func (s *Session) DecryptLegacy(data []byte) ([]byte, error) {
	return bundle.OpenSecretbox(data, s.key)
}

// SigningIdentity derives the session's deterministic Ed25519 identity from
// the shared secret, so either device can prove key ownership during
// challenge verification.
func (s *Session) SigningIdentity() *crypto.SigningKeyPair {
	return crypto.SigningKeyPairFromSeed(s.key)
}

// Close wipes the session key. The session must not be used afterwards.
func (s *Session) Close() {
	crypto.ZeroBytes(s.key[:])
}
