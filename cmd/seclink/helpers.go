package main

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/briandowns/spinner"

	"github.com/opd-ai/seclink/crypto"
)

// startSpinner shows a progress spinner unless verbose logging is on, and
// returns it with a cleanup func that stops it and prints FinalMSG.
func startSpinner(message string) (*spinner.Spinner, func()) {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + message

	// Ignore color errors; continue without a colored spinner if it fails.
	_ = s.Color("cyan")

	if !verbose {
		s.Start()
	}

	cleanup := func() {
		// Stop prints FinalMSG when the spinner ran; in verbose mode it
		// never started, so print the message directly.
		s.Stop()
		if verbose && s.FinalMSG != "" {
			fmt.Println(s.FinalMSG)
		}
	}
	return s, cleanup
}

// parseKeyFlag decodes a base64 --key flag into a symmetric key.
func parseKeyFlag(encoded string) ([crypto.SymmetricKeySize]byte, error) {
	var key [crypto.SymmetricKeySize]byte

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return key, fmt.Errorf("key is not valid base64: %w", err)
	}
	if len(raw) != crypto.SymmetricKeySize {
		return key, fmt.Errorf("key must be %d bytes, got %d", crypto.SymmetricKeySize, len(raw))
	}

	copy(key[:], raw)
	return key, nil
}
