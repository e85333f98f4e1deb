/*
 * Copyright (c) Johan Stenstam, johani@johani.org
 */

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johanix/tdns-notify/internal/notifylog"
)

var (
	apiAddress string
	verbose    bool
	debug      bool
)

var rootCmd = &cobra.Command{
	Use:   "notifyctl",
	Short: "notifyctl talks to a running tdns-notifyd's admin API",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		notifylog.SetupCLI(verbose, debug)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddress, "api", "http://127.0.0.1:8531", "tdns-notifyd admin API base URL")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "debug output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
