package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/opd-ai/seclink"
	"github.com/opd-ai/seclink/pairing"
)

var (
	pairRelayURL   string
	pairDeviceName string
)

var pairCmd = &cobra.Command{
	Use:   "pair",
	Short: "Pair with another device through a relay",
	Long: `Pair submits this device's ephemeral public key to the relay and polls
until another device authorizes the request. On success it prints the
session token and the derived session key. Interrupt (Ctrl-C) cancels the
handshake cleanly within one poll interval.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if pairRelayURL == "" {
			return fmt.Errorf("--relay is required")
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		s, cleanup := startSpinner("Waiting for authorization...")
		defer cleanup()

		session, err := seclink.Pair(ctx, pairing.Config{
			RelayURL:   pairRelayURL,
			DeviceName: pairDeviceName,
			Platform:   runtime.GOOS,
		})
		if err != nil {
			s.FinalMSG = color.RedString("✗") + " Pairing failed"
			return err
		}
		if session == nil {
			s.FinalMSG = color.YellowString("⚠") + " Pairing cancelled"
			return nil
		}
		defer session.Close()

		s.FinalMSG = color.GreenString("✓") + " Paired\n" +
			"token: " + session.Token
		return nil
	},
}

func init() {
	pairCmd.Flags().StringVar(&pairRelayURL, "relay", "", "relay base URL")
	pairCmd.Flags().StringVar(&pairDeviceName, "name", defaultDeviceName(), "device name shown to the authorizing device")
	rootCmd.AddCommand(pairCmd)
}

func defaultDeviceName() string {
	host, err := os.Hostname()
	if err != nil {
		return "seclink-cli"
	}
	return host
}
