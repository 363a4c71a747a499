package pairing

// Challenge is the pairing request a device submits to the relay to start
// the handshake. The public key is the device's ephemeral pairing key in
// base64; it travels in the clear because it is public material. The
// metadata fields let the authorizing device show the user what is asking
// to pair. Immutable once constructed.
type Challenge struct {
	PublicKey  string `json:"publicKey"`
	DeviceName string `json:"deviceName,omitempty"`
	Platform   string `json:"platform,omitempty"`
	AppVersion string `json:"appVersion,omitempty"`
}

// Relay response states.
const (
	StatePending    = "pending"
	StateAuthorized = "authorized"
)

// RelayResponse is the relay's answer to an auth request. While the peer
// has not acted, State is "pending". Once the peer authorizes, State is
// "authorized", Token carries the session token, and Response carries the
// base64 box-format bundle holding the shared secret.
type RelayResponse struct {
	State    string `json:"state"`
	Token    string `json:"token,omitempty"`
	Response string `json:"response,omitempty"`
}
