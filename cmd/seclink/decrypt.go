package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opd-ai/seclink"
)

var decryptKey string

var decryptCmd = &cobra.Command{
	Use:   "decrypt",
	Short: "Decrypt a base64 bundle from stdin using a base64 session key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyFlag(decryptKey)
		if err != nil {
			return err
		}

		reader := bufio.NewReader(os.Stdin)
		encoded, err := reader.ReadString('\n')
		if err != nil && encoded == "" {
			return fmt.Errorf("read stdin: %w", err)
		}

		session := seclink.NewSession(key)
		defer session.Close()

		plaintext, err := session.DecryptFromString(strings.TrimSpace(encoded))
		if err != nil {
			// Opaque on purpose; do not hint at why the bundle was rejected.
			fmt.Println(color.RedString("✗") + " This bundle cannot be trusted")
			return errors.New("bundle rejected")
		}

		os.Stdout.Write(plaintext)
		return nil
	},
}

func init() {
	decryptCmd.Flags().StringVar(&decryptKey, "key", "", "base64 32-byte session key")
	_ = decryptCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(decryptCmd)
}
