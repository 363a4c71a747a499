package bundle

import (
	"encoding/base64"
	"fmt"
)

// Bundles travel as standard base64 text inside JSON fields. These helpers
// centralize the encoding so every caller agrees on the alphabet and
// padding.

// EncodeToString renders a bundle as standard base64.
func EncodeToString(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeString decodes a base64 bundle received over a text channel.
func DecodeString(s string) ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 bundle: %w", err)
	}
	return data, nil
}
