package pairing

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/seclink/bundle"
	"github.com/opd-ai/seclink/crypto"
)

// DefaultPollInterval is the fixed delay between relay polls. The protocol
// deliberately uses a constant interval with no backoff; the deployed
// clients all poll at this rate.
const DefaultPollInterval = time.Second

// State tracks the handshake's position in its linear state machine.
type State int

const (
	StateIdle State = iota
	StateKeyGenerated
	StateRequestSent
	StatePolling
	StateDone
)

// String implements fmt.Stringer for log output.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateKeyGenerated:
		return "key-generated"
	case StateRequestSent:
		return "request-sent"
	case StatePolling:
		return "polling"
	case StateDone:
		return "done"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Config configures a Handshake.
type Config struct {
	// RelayURL is the relay's base URL. Ignored when Relay is set.
	RelayURL string

	// Relay overrides the HTTP relay client, e.g. with an in-memory
	// implementation in tests.
	Relay RelayClient

	// PollInterval overrides DefaultPollInterval. Zero means the default.
	PollInterval time.Duration

	// HTTPClient is handed to the HTTP relay client when Relay is unset.
	HTTPClient *http.Client

	// Optional challenge metadata shown to the authorizing device.
	DeviceName string
	Platform   string
	AppVersion string
}

// Result is a successful pairing: the relay session token, the symmetric
// secret now shared with the peer, and the peer's ephemeral public key from
// the response bundle.
type Result struct {
	Token         string
	SharedSecret  [crypto.SymmetricKeySize]byte
	PeerPublicKey [32]byte
}

// Handshake runs the pairing flow. One Handshake serves one attempt: a
// failed or cancelled attempt is restarted by constructing a new Handshake,
// which also means a fresh ephemeral keypair. Reusing a keypair across
// attempts would replay box nonces already consumed against it.
type Handshake struct {
	relay    RelayClient
	interval time.Duration
	cfg      Config

	state     State
	attemptID string
	keys      *crypto.KeyPair
}

// New builds a handshake from cfg.
func New(cfg Config) *Handshake {
	relay := cfg.Relay
	if relay == nil {
		relay = NewHTTPRelay(cfg.RelayURL, cfg.HTTPClient)
	}

	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	return &Handshake{
		relay:     relay,
		interval:  interval,
		cfg:       cfg,
		state:     StateIdle,
		attemptID: uuid.NewString(),
	}
}

// State reports the handshake's current position in the state machine.
// Meaningful from the goroutine driving Run, or after Run has returned;
// RequestSent covers the whole window a request is in flight.
func (h *Handshake) State() State {
	return h.state
}

// PublicKey returns the attempt's ephemeral public key, or nil before key
// generation. The caller renders it (e.g. into a QR code) for the
// authorizing device.
func (h *Handshake) PublicKey() []byte {
	if h.keys == nil {
		return nil
	}
	key := make([]byte, 32)
	copy(key, h.keys.Public[:])
	return key
}

// Run executes the handshake: generate a keypair, submit the challenge,
// poll until authorized, decrypt the response bundle.
//
// Returns (result, nil) when the peer authorizes, (nil, nil) when ctx is
// cancelled (a null result distinguishable from failure), and (nil, err)
// on any transport or decrypt failure, which is terminal for this attempt.
// Cancellation is checked before every request and raced against every
// sleep, so it takes effect within one poll interval. Polling is strictly
// sequential: never more than one outstanding request.
func (h *Handshake) Run(ctx context.Context) (*Result, error) {
	log := logrus.WithFields(logrus.Fields{
		"function":   "Run",
		"package":    "pairing",
		"attempt_id": h.attemptID,
	})

	keys, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, newPairingError("keygen", err)
	}
	h.keys = keys
	h.state = StateKeyGenerated
	log.WithFields(crypto.SecureFieldPreview(keys.Public[:], "public_key")).
		Info("Pairing keypair generated")

	challenge := &Challenge{
		PublicKey:  base64.StdEncoding.EncodeToString(keys.Public[:]),
		DeviceName: h.cfg.DeviceName,
		Platform:   h.cfg.Platform,
		AppVersion: h.cfg.AppVersion,
	}

	if err := ctx.Err(); err != nil {
		return h.cancelled(log)
	}

	h.state = StateRequestSent
	resp, err := h.relay.AuthRequest(ctx, challenge)
	if err != nil {
		if ctx.Err() != nil {
			return h.cancelled(log)
		}
		h.state = StateDone
		return nil, newPairingError("request", fmt.Errorf("%w: %v", ErrPairingRequestFailed, err))
	}

	for resp.State != StateAuthorized {
		// Anything other than the two documented states is terminal:
		// fail closed rather than polling an answer we cannot interpret.
		if resp.State != StatePending {
			h.state = StateDone
			return nil, newPairingError("poll", fmt.Errorf("%w: %q", ErrUnexpectedRelayState, resp.State))
		}

		h.state = StatePolling
		log.WithField("state", h.state.String()).Debug("Pairing pending, waiting for authorization")

		select {
		case <-ctx.Done():
			return h.cancelled(log)
		case <-time.After(h.interval):
		}

		if err := ctx.Err(); err != nil {
			return h.cancelled(log)
		}

		resp, err = h.relay.AuthRequest(ctx, challenge)
		if err != nil {
			if ctx.Err() != nil {
				return h.cancelled(log)
			}
			h.state = StateDone
			return nil, newPairingError("poll", err)
		}
	}

	result, err := h.finish(resp)
	h.state = StateDone
	if err != nil {
		log.WithField("error", err.Error()).Warn("Pairing response could not be decrypted")
		return nil, err
	}

	log.Info("Pairing authorized")
	return result, nil
}

// finish decrypts the relay's authorization response with the attempt's
// private key and extracts the shared secret.
func (h *Handshake) finish(resp *RelayResponse) (*Result, error) {
	data, err := bundle.DecodeString(resp.Response)
	if err != nil {
		return nil, newPairingError("decode response", err)
	}

	plaintext, peerKey, err := bundle.OpenBox(data, h.keys.Private)
	if err != nil {
		return nil, newPairingError("decrypt response", err)
	}

	if len(plaintext) != crypto.SymmetricKeySize {
		crypto.ZeroBytes(plaintext)
		return nil, newPairingError("decrypt response", bundle.ErrDecryptionFailed)
	}

	result := &Result{
		Token:         resp.Token,
		PeerPublicKey: peerKey,
	}
	copy(result.SharedSecret[:], plaintext)
	crypto.ZeroBytes(plaintext)

	return result, nil
}

func (h *Handshake) cancelled(log *logrus.Entry) (*Result, error) {
	h.state = StateDone
	log.Info("Pairing cancelled")
	return nil, nil
}
