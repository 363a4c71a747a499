package pairing

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"

	"golang.org/x/crypto/nacl/box"
)

// MockRelay implements RelayClient in memory for tests: it answers
// "pending" a configured number of times, then authorizes the request with
// a box-format bundle carrying the configured secret. Failure modes are
// scripted through Err and BadResponse.
type MockRelay struct {
	// PendingPolls is how many requests receive a pending answer before
	// the authorize response.
	PendingPolls int

	// Secret is the shared secret delivered in the response bundle.
	Secret [32]byte

	// Token is the session token returned with authorization.
	Token string

	// Err, when set, is returned by every request.
	Err error

	// BadResponse, when set, replaces the response bundle with bytes that
	// cannot be decrypted.
	BadResponse bool

	mu    sync.Mutex
	calls int
}

// AuthRequest implements RelayClient.
func (m *MockRelay) AuthRequest(ctx context.Context, challenge *Challenge) (*RelayResponse, error) {
	m.mu.Lock()
	m.calls++
	call := m.calls
	m.mu.Unlock()

	if m.Err != nil {
		return nil, m.Err
	}

	if call <= m.PendingPolls {
		return &RelayResponse{State: StatePending}, nil
	}

	if m.BadResponse {
		return &RelayResponse{
			State:    StateAuthorized,
			Token:    m.Token,
			Response: base64.StdEncoding.EncodeToString(make([]byte, 96)),
		}, nil
	}

	response, err := m.sealResponse(challenge.PublicKey)
	if err != nil {
		return nil, err
	}

	return &RelayResponse{
		State:    StateAuthorized,
		Token:    m.Token,
		Response: response,
	}, nil
}

// Calls reports how many requests the relay has served.
func (m *MockRelay) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// sealResponse builds the box bundle an authorizing device would produce:
// the shared secret encrypted to the challenger's public key under a fresh
// ephemeral keypair.
func (m *MockRelay) sealResponse(devicePublicKey string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(devicePublicKey)
	if err != nil || len(raw) != 32 {
		return "", fmt.Errorf("mock relay: bad challenge public key")
	}
	var deviceKey [32]byte
	copy(deviceKey[:], raw)

	ephemeralPublic, ephemeralPrivate, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return "", err
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", err
	}

	out := make([]byte, 0, 32+24+len(m.Secret)+box.Overhead)
	out = append(out, ephemeralPublic[:]...)
	out = append(out, nonce[:]...)
	out = box.Seal(out, m.Secret[:], &nonce, &deviceKey, ephemeralPrivate)

	return base64.StdEncoding.EncodeToString(out), nil
}
