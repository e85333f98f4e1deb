/*
 * Copyright (c) Johan Stenstam, johani@johani.org
 */

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gookit/goutil/dump"
	"github.com/ryanuber/columnize"
	"github.com/spf13/cobra"
)

// notifySnapshot mirrors notify.NotifySnapshot's JSON shape without
// importing the core package, keeping the CLI a pure HTTP client of the
// daemon — the same split the teacher keeps between tdns-cli and tdnsd.
type notifySnapshot struct {
	Zone struct {
		Name  string
		Class string
	}
	Target         string
	RemainingCount int
	TryCount       int
	SecondsLeft    float64
	Notifying      bool
}

var (
	statusZone  string
	statusClass string
	dumpRaw     bool
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current notify state known to tdns-notifyd",
	Run: func(cmd *cobra.Command, args []string) {
		snapshots := fetchStatus(statusZone, statusClass)
		if dumpRaw {
			dump.P(snapshots)
			return
		}
		printStatusTable(snapshots)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVarP(&statusZone, "zone", "z", "", "limit to one zone")
	statusCmd.Flags().StringVarP(&statusClass, "class", "c", "IN", "zone class")
	statusCmd.Flags().BoolVar(&dumpRaw, "dump", false, "dump raw snapshot state instead of a table")
}

func fetchStatus(zone, class string) []notifySnapshot {
	url := apiAddress + "/status"
	if zone != "" {
		url += "?zone=" + zone + "&class=" + class
	}

	resp, err := http.Get(url)
	if err != nil {
		log.Fatalf("Error talking to tdns-notifyd at %s: %v", apiAddress, err)
	}
	defer resp.Body.Close()

	var snapshots []notifySnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshots); err != nil {
		log.Fatalf("Error decoding tdns-notifyd response: %v", err)
	}
	return snapshots
}

func printStatusTable(snapshots []notifySnapshot) {
	rows := []string{"ZONE | CLASS | TARGET | REMAINING | TRY | SECONDS LEFT | NOTIFYING"}
	for _, s := range snapshots {
		rows = append(rows, fmt.Sprintf("%s | %s | %s | %d | %d | %.1f | %v",
			s.Zone.Name, s.Zone.Class, s.Target, s.RemainingCount, s.TryCount, s.SecondsLeft, s.Notifying))
	}
	fmt.Println(columnize.SimpleFormat(rows))
}
