package bundle

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/seclink/crypto"
)

// The cross-implementation reference vector: every client (Swift, Kotlin,
// TypeScript, Go) must produce and accept these exact bytes.
//
//	key       = 32 x 0x00
//	nonce     = 12 x 0x01
//	plaintext = "test"
const referenceVectorHex = "000101010101010101010101010125b01e8b275977019bb134dc63b9369973d3cd"

func testKey() [crypto.SymmetricKeySize]byte {
	var key [crypto.SymmetricKeySize]byte
	copy(key[:], []byte("0123456789abcdef0123456789abcdef"))
	return key
}

func TestEncryptDecryptRoundTrip(t *testing.T) {
	codec := NewCodec()
	key := testKey()

	cases := []struct {
		name      string
		plaintext []byte
	}{
		{name: "Short message", plaintext: []byte("test")},
		{name: "Empty message", plaintext: []byte{}},
		{name: "Binary content", plaintext: []byte{0x00, 0xFF, 0x10, 0x80, 0x7F}},
		{name: "Large message", plaintext: bytes.Repeat([]byte("seclink"), 4096)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sealed, err := codec.Encrypt(tc.plaintext, key)
			require.NoError(t, err)

			assert.Equal(t, byte(VersionAEAD), sealed[0], "Encoder must write version 0x00")
			assert.GreaterOrEqual(t, len(sealed), minLenAEAD)

			opened, err := codec.Decrypt(sealed, key)
			require.NoError(t, err)
			assert.Equal(t, []byte(tc.plaintext), append([]byte{}, opened...))
		})
	}
}

func TestEncryptUsesFreshNonces(t *testing.T) {
	codec := NewCodec()
	key := testKey()

	first, err := codec.Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)
	second, err := codec.Encrypt([]byte("same plaintext"), key)
	require.NoError(t, err)

	assert.NotEqual(t, first[1:1+nonceSize], second[1:1+nonceSize],
		"Two encryptions must consume distinct nonces")
	assert.NotEqual(t, first, second)
}

func TestDecryptReferenceVector(t *testing.T) {
	sealed, err := hex.DecodeString(referenceVectorHex)
	require.NoError(t, err)

	var key [crypto.SymmetricKeySize]byte // all zeros

	plaintext, err := Decrypt(sealed, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), plaintext)
}

func TestSealWithNonceMatchesReferenceVector(t *testing.T) {
	var key [crypto.SymmetricKeySize]byte
	nonce := bytes.Repeat([]byte{0x01}, nonceSize)

	sealed, err := sealWithNonce([]byte("test"), key, nonce)
	require.NoError(t, err)

	assert.Equal(t, referenceVectorHex, hex.EncodeToString(sealed),
		"Encoder output must match the cross-implementation vector byte for byte")
}

func TestDecryptKeyedVersion(t *testing.T) {
	// A 0x01 bundle carries a 2-byte key version ahead of the nonce but is
	// otherwise identical AEAD output; rebuild one from the reference
	// vector's fields.
	sealed, err := hex.DecodeString(referenceVectorHex)
	require.NoError(t, err)

	keyed := []byte{byte(VersionAEADKeyed), 0x00, 0x01}
	keyed = append(keyed, sealed[1:]...)

	var key [crypto.SymmetricKeySize]byte
	plaintext, err := Decrypt(keyed, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("test"), plaintext)
}

func TestDecryptWrongKey(t *testing.T) {
	codec := NewCodec()

	sealed, err := codec.Encrypt([]byte("secret"), testKey())
	require.NoError(t, err)

	var wrongKey [crypto.SymmetricKeySize]byte
	_, err = Decrypt(sealed, wrongKey)
	assert.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestDecryptTamperDetection(t *testing.T) {
	codec := NewCodec()
	key := testKey()

	sealed, err := codec.Encrypt([]byte("integrity matters"), key)
	require.NoError(t, err)

	// Flip every bit of the bundle, one at a time. No flip may ever yield
	// plaintext; the error must always be the single opaque failure.
	for i := 0; i < len(sealed); i++ {
		for bit := 0; bit < 8; bit++ {
			mutated := make([]byte, len(sealed))
			copy(mutated, sealed)
			mutated[i] ^= 1 << bit

			plaintext, err := Decrypt(mutated, key)
			if !errors.Is(err, ErrDecryptionFailed) {
				t.Fatalf("byte %d bit %d: error = %v, want ErrDecryptionFailed", i, bit, err)
			}
			if plaintext != nil {
				t.Fatalf("byte %d bit %d: tampered bundle produced plaintext", i, bit)
			}
		}
	}
}

func TestDecryptRejectsUnknownVersions(t *testing.T) {
	key := testKey()

	for _, version := range []byte{0x02, 0x03, 0x7F, 0xFF} {
		data := append([]byte{version}, bytes.Repeat([]byte{0xAA}, 64)...)
		_, err := Decrypt(data, key)
		assert.ErrorIs(t, err, ErrDecryptionFailed,
			"version 0x%02x must fail closed regardless of remaining content", version)
	}
}

func TestDecryptLengthFloor(t *testing.T) {
	key := testKey()

	cases := []struct {
		name string
		data []byte
	}{
		{name: "Empty input", data: nil},
		{name: "Version byte only", data: []byte{0x00}},
		{name: "One short of 0x00 minimum", data: make([]byte, minLenAEAD-1)},
		{name: "One short of 0x01 minimum", data: append([]byte{0x01}, make([]byte, minLenAEADKeyed-2)...)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decrypt(tc.data, key)
			assert.ErrorIs(t, err, ErrDecryptionFailed)
		})
	}
}

func TestCodecSharedNonceSource(t *testing.T) {
	ns := crypto.NewNonceSource()
	first := NewCodecWithNonceSource(ns)
	second := NewCodecWithNonceSource(ns)
	key := testKey()

	a, err := first.Encrypt([]byte("a"), key)
	require.NoError(t, err)
	b, err := second.Encrypt([]byte("b"), key)
	require.NoError(t, err)

	assert.NotEqual(t, a[1:1+nonceSize], b[1:1+nonceSize],
		"Codecs sharing one source must still draw distinct nonces")
}
