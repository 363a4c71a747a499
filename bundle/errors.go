package bundle

import "errors"

// ErrDecryptionFailed is returned for every decode failure: truncated
// bundle, unrecognized version byte, or AEAD authentication failure. It is
// deliberately undifferentiated so callers cannot branch (and attackers
// cannot probe) on why a bundle was rejected; treat it as "this bundle
// cannot be trusted".
var ErrDecryptionFailed = errors.New("decryption failed")
