// Package pairing implements the QR-code-initiated device pairing
// handshake: publish an ephemeral public key to a relay, poll until a
// paired device authorizes the request, then decrypt the relay's response
// bundle to recover the session token and shared secret.
//
// The relay is an untrusted message ferry; it never sees key material it
// could use to decrypt. The handshake talks to it through the RelayClient
// interface so tests substitute an in-memory relay for the HTTP one.
package pairing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"
)

// RelayClient is the transport the handshake polls. A single endpoint
// carries the whole protocol: submitting the challenge and polling its
// state are the same request, so the relay stays stateless toward this
// core beyond the pending/authorized flag it already tracks.
type RelayClient interface {
	// AuthRequest submits the challenge and returns the relay's current
	// view of it: pending, or authorized with token and response bundle.
	AuthRequest(ctx context.Context, challenge *Challenge) (*RelayResponse, error)
}

// HTTPRelay implements RelayClient against the relay's REST endpoint
// (POST {BaseURL}/auth/request).
type HTTPRelay struct {
	baseURL string
	client  *http.Client
}

// NewHTTPRelay builds a relay client for the given base URL. A nil
// httpClient falls back to http.DefaultClient; per-request timeouts are the
// transport's concern, not this core's.
func NewHTTPRelay(baseURL string, httpClient *http.Client) *HTTPRelay {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &HTTPRelay{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
	}
}

// AuthRequest implements RelayClient.
func (r *HTTPRelay) AuthRequest(ctx context.Context, challenge *Challenge) (*RelayResponse, error) {
	body, err := json.Marshal(challenge)
	if err != nil {
		return nil, fmt.Errorf("encode challenge: %w", err)
	}

	url := r.baseURL + "/auth/request"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	logrus.WithFields(logrus.Fields{
		"function": "AuthRequest",
		"package":  "pairing",
		"url":      url,
	}).Debug("Submitting auth request to relay")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %s", ErrRelayStatus, resp.Status)
	}

	var relayResp RelayResponse
	if err := json.NewDecoder(resp.Body).Decode(&relayResp); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
	}

	return &relayResp, nil
}
