// Command seclink is the operational CLI for the seclink encryption core:
// generate pairing keys, run the relay pairing handshake, and encrypt or
// decrypt bundles from the shell.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "seclink",
	Short: "seclink - device pairing and end-to-end encryption tooling.",
	Long: `seclink drives the cross-platform end-to-end encryption protocol from the
command line: generate pairing keypairs, pair with another device through a
relay, and encrypt or decrypt bundles compatible with every seclink client.

Usage:
  seclink <command> [flags]

Available Commands:
  keygen     Generate an X25519 pairing keypair
  pair       Pair with another device through a relay
  encrypt    Encrypt stdin into a base64 bundle
  decrypt    Decrypt a base64 bundle to stdout

Run 'seclink help <command>' for more details on a specific command.
`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logrus.SetLevel(logrus.DebugLevel)
		} else {
			logrus.SetLevel(logrus.WarnLevel)
		}
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Run 'seclink --help' to see available commands.")
	},
}

func main() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
