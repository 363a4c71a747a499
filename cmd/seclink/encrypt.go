package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opd-ai/seclink"
)

var encryptKey string

var encryptCmd = &cobra.Command{
	Use:   "encrypt",
	Short: "Encrypt stdin into a base64 bundle using a base64 session key",
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := parseKeyFlag(encryptKey)
		if err != nil {
			return err
		}

		plaintext, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}

		session := seclink.NewSession(key)
		defer session.Close()

		encoded, err := session.EncryptToString(plaintext)
		if err != nil {
			fmt.Println(color.RedString("✗") + " Encryption failed")
			return err
		}

		fmt.Println(encoded)
		return nil
	},
}

func init() {
	encryptCmd.Flags().StringVar(&encryptKey, "key", "", "base64 32-byte session key")
	_ = encryptCmd.MarkFlagRequired("key")
	rootCmd.AddCommand(encryptCmd)
}
