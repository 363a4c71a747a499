// Package seclink implements the end-to-end encryption core shared by the
// seclink clients: a versioned encrypted bundle codec, X25519 key agreement
// with HKDF key derivation, hybrid random+counter nonce generation, Ed25519
// detached signatures, and the QR-code pairing handshake that bootstraps a
// shared secret between two devices.
//
// Everything a device sends (sessions, messages, artifacts) is encrypted
// with this package before it leaves the device and decrypted only on
// paired devices. The relay in between ferries opaque bytes it cannot read.
//
// # Getting Started
//
// Pair with another device, then encrypt through the resulting session:
//
//	session, err := seclink.Pair(ctx, pairing.Config{
//	    RelayURL:   "https://relay.example.com",
//	    DeviceName: "workstation",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if session == nil {
//	    return // pairing cancelled
//	}
//
//	ciphertext, err := session.EncryptToString([]byte("hello"))
//
// Devices that already share a secret construct a session directly:
//
//	session := seclink.NewSession(sharedSecret)
//	plaintext, err := session.Decrypt(bundleBytes)
//
// # Subpackages
//
//   - [github.com/opd-ai/seclink/crypto]: key agreement, nonces, signing
//   - [github.com/opd-ai/seclink/bundle]: the versioned envelope codec
//   - [github.com/opd-ai/seclink/pairing]: the relay pairing handshake
//
// # Interoperability
//
// The wire formats and the HKDF context string are frozen protocol
// constants shared byte-for-byte with the Swift, Kotlin, and TypeScript
// client implementations. Do not change them; a mismatch derives different
// keys or rejects peers' bundles with no other error signal.
package seclink
