package pairing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSecret() [32]byte {
	var secret [32]byte
	for i := range secret {
		secret[i] = byte(i + 1)
	}
	return secret
}

func TestHandshakeAuthorized(t *testing.T) {
	relay := &MockRelay{
		PendingPolls: 2,
		Secret:       testSecret(),
		Token:        "session-token-1",
	}

	h := New(Config{Relay: relay, PollInterval: 5 * time.Millisecond})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "session-token-1", result.Token)
	assert.Equal(t, testSecret(), result.SharedSecret)
	assert.Equal(t, 3, relay.Calls(), "Two pending polls plus the authorized one")
	assert.NotEqual(t, [32]byte{}, result.PeerPublicKey)
}

func TestHandshakeImmediateAuthorization(t *testing.T) {
	relay := &MockRelay{Secret: testSecret(), Token: "t"}
	h := New(Config{Relay: relay, PollInterval: 5 * time.Millisecond})

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, 1, relay.Calls(), "No polling needed when the first answer authorizes")
}

func TestHandshakeCancelledBeforeStart(t *testing.T) {
	relay := &MockRelay{PendingPolls: 100}
	h := New(Config{Relay: relay, PollInterval: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.Run(ctx)
	assert.NoError(t, err, "Cancellation is not a failure")
	assert.Nil(t, result)
	assert.Equal(t, 0, relay.Calls(), "No request may be issued after cancellation")
}

func TestHandshakeCancelledDuringPolling(t *testing.T) {
	relay := &MockRelay{PendingPolls: 100, Secret: testSecret()}
	h := New(Config{Relay: relay, PollInterval: 200 * time.Millisecond})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	var result *Result
	var err error
	go func() {
		result, err = h.Run(ctx)
		close(done)
	}()

	// Let the first request go out, then cancel mid-sleep.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(h.interval):
		t.Fatal("Cancellation must take effect within one poll interval")
	}

	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.Equal(t, 1, relay.Calls(), "Cancellation during the sleep must not issue another request")
}

func TestHandshakeRequestFailure(t *testing.T) {
	relay := &MockRelay{Err: errors.New("connection refused")}
	h := New(Config{Relay: relay, PollInterval: 5 * time.Millisecond})

	result, err := h.Run(context.Background())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPairingRequestFailed)

	var perr *PairingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "request", perr.Op)
}

func TestHandshakePollFailureIsTerminal(t *testing.T) {
	relay := &pollThenFailRelay{inner: &MockRelay{PendingPolls: 100}}
	h := New(Config{Relay: relay, PollInterval: 5 * time.Millisecond})

	result, err := h.Run(context.Background())
	assert.Nil(t, result)
	require.Error(t, err)

	var perr *PairingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "poll", perr.Op)
	assert.Equal(t, 2, relay.calls, "The handshake must not retry after a poll failure")
}

// pollThenFailRelay answers the initial submission, then fails every poll.
type pollThenFailRelay struct {
	inner *MockRelay
	calls int
}

func (r *pollThenFailRelay) AuthRequest(ctx context.Context, challenge *Challenge) (*RelayResponse, error) {
	r.calls++
	if r.calls == 1 {
		return r.inner.AuthRequest(ctx, challenge)
	}
	return nil, errors.New("relay unreachable")
}

func TestHandshakeUndecryptableResponse(t *testing.T) {
	relay := &MockRelay{BadResponse: true, Token: "t"}
	h := New(Config{Relay: relay, PollInterval: 5 * time.Millisecond})

	result, err := h.Run(context.Background())
	assert.Nil(t, result, "An undecryptable response resolves to failure, never a partial result")
	require.Error(t, err)

	var perr *PairingError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decrypt response", perr.Op)
}

// stateRecordingRelay captures the handshake's state at every request. The
// relay runs on the goroutine driving Run, so the reads are ordered.
type stateRecordingRelay struct {
	h       *Handshake
	inner   RelayClient
	states  []State
	hadKeys []bool
}

func (r *stateRecordingRelay) AuthRequest(ctx context.Context, challenge *Challenge) (*RelayResponse, error) {
	r.states = append(r.states, r.h.State())
	r.hadKeys = append(r.hadKeys, r.h.PublicKey() != nil)
	return r.inner.AuthRequest(ctx, challenge)
}

func TestHandshakeStateProgression(t *testing.T) {
	recorder := &stateRecordingRelay{
		inner: &MockRelay{PendingPolls: 2, Secret: testSecret(), Token: "t"},
	}
	h := New(Config{Relay: recorder, PollInterval: 5 * time.Millisecond})
	recorder.h = h

	assert.Equal(t, StateIdle, h.State(), "A fresh handshake is idle")

	result, err := h.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result)

	// The first request goes out in RequestSent with the keypair already
	// generated; every subsequent request is a poll.
	require.Equal(t, []State{StateRequestSent, StatePolling, StatePolling}, recorder.states)
	assert.Equal(t, []bool{true, true, true}, recorder.hadKeys,
		"Key generation must precede the first request")
	assert.Equal(t, StateDone, h.State(), "A finished handshake is done")
}

func TestHandshakeStateDoneAfterFailure(t *testing.T) {
	h := New(Config{Relay: &MockRelay{Err: errors.New("boom")}, PollInterval: 5 * time.Millisecond})

	_, err := h.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StateDone, h.State())
}

func TestHandshakeUnexpectedRelayState(t *testing.T) {
	relay := &scriptedStateRelay{state: "denied"}
	h := New(Config{Relay: relay, PollInterval: 5 * time.Millisecond})

	result, err := h.Run(context.Background())
	assert.Nil(t, result)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedRelayState)
	assert.Equal(t, 1, relay.calls, "An uninterpretable state must not be polled again")
	assert.Equal(t, StateDone, h.State())
}

// scriptedStateRelay always answers with a fixed relay state.
type scriptedStateRelay struct {
	state string
	calls int
}

func (r *scriptedStateRelay) AuthRequest(ctx context.Context, challenge *Challenge) (*RelayResponse, error) {
	r.calls++
	return &RelayResponse{State: r.state}, nil
}

func TestHandshakePublicKeyAccessor(t *testing.T) {
	h := New(Config{Relay: &MockRelay{Secret: testSecret()}})
	assert.Nil(t, h.PublicKey(), "No key before Run")

	_, err := h.Run(context.Background())
	require.NoError(t, err)
	assert.Len(t, h.PublicKey(), 32)
}

func TestHandshakeDefaults(t *testing.T) {
	h := New(Config{RelayURL: "https://relay.example.com"})
	assert.Equal(t, DefaultPollInterval, h.interval)
	assert.IsType(t, &HTTPRelay{}, h.relay)
	assert.NotEmpty(t, h.attemptID)
}
