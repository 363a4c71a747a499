package pairing

import (
	"errors"
	"fmt"
)

// Common errors for the pairing handshake.
var (
	// ErrPairingRequestFailed indicates the initial submission of the
	// device's public key to the relay failed. The handshake returns to
	// idle; retry is the caller's decision.
	ErrPairingRequestFailed = errors.New("pairing request failed")

	// ErrNetwork indicates a transport failure while polling the relay.
	// Terminal for the attempt: restart the handshake with a fresh keypair.
	ErrNetwork = errors.New("network error")

	// ErrRelayStatus indicates the relay answered with a non-2xx HTTP
	// status.
	ErrRelayStatus = errors.New("unexpected relay status")

	// ErrUnexpectedRelayState indicates the relay reported a state other
	// than pending or authorized. Terminal; the protocol defines no other
	// states, so the handshake fails closed instead of polling on.
	ErrUnexpectedRelayState = errors.New("unexpected relay state")
)

// PairingError wraps a failure with the handshake operation that produced
// it.
type PairingError struct {
	Op  string // operation that caused the error
	Err error  // underlying error
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("pairing %s: %v", e.Op, e.Err)
}

func (e *PairingError) Unwrap() error {
	return e.Err
}

func newPairingError(op string, err error) *PairingError {
	return &PairingError{Op: op, Err: err}
}
