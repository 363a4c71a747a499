package main

import (
	"encoding/base64"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opd-ai/seclink/crypto"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate an X25519 pairing keypair and print it as base64",
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, err := crypto.GenerateKeyPair()
		if err != nil {
			return fmt.Errorf("keygen: %w", err)
		}
		defer crypto.WipeKeyPair(keys)

		fmt.Println(color.GreenString("✓") + " Keypair generated")
		fmt.Printf("public:  %s\n", base64.StdEncoding.EncodeToString(keys.Public[:]))
		fmt.Printf("private: %s\n", base64.StdEncoding.EncodeToString(keys.Private[:]))
		fmt.Println(color.YellowString("Keep the private key secret; only the public key is shared."))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
