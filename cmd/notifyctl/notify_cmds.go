/*
 * Copyright (c) Johan Stenstam, johani@johani.org
 */

package main

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"

	"github.com/spf13/cobra"
)

var class string

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "The 'notify' command is only usable via defined sub-commands",
}

var notifySendCmd = &cobra.Command{
	Use:   "send <zone>",
	Short: "Ask tdns-notifyd to (re-)send NOTIFY for a zone",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sendNotify(args[0], class)
	},
}

func init() {
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifySendCmd)
	notifyCmd.PersistentFlags().StringVarP(&class, "class", "c", "IN", "zone class")
}

func sendNotify(zone, class string) {
	u, err := url.Parse(apiAddress + "/notify")
	if err != nil {
		log.Fatalf("Error: bad --api value %q: %v", apiAddress, err)
	}
	q := u.Query()
	q.Set("zone", zone)
	q.Set("class", class)
	u.RawQuery = q.Encode()

	resp, err := http.Post(u.String(), "", nil)
	if err != nil {
		log.Fatalf("Error talking to tdns-notifyd at %s: %v", apiAddress, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		fmt.Fprintf(os.Stderr, "tdns-notifyd returned %s\n", resp.Status)
		os.Exit(1)
	}
	fmt.Printf("NOTIFY(%s) queued for zone %s\n", class, zone)
}
