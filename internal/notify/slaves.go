/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package notify

import (
	"strings"

	"github.com/johanix/tdns-notify/internal/zonestore"
)

// getNotifySlavesFromNS walks the zone's apex NS RRset and returns the
// in-zone A/AAAA glue for each NS target, concatenated in NS-target
// order, A and AAAA left in their store insertion order — see spec.md
// §4.1 for the exact ordering contract the scenario data depends on.
//
// The NS target matching the zone's own SOA MNAME is always excluded:
// the primary is not a notify destination (spec.md §9's open question,
// resolved against the original implementation's test suite and the
// worked example in §8).
func getNotifySlavesFromNS(store zonestore.Store, zone ZoneID) ([]string, error) {
	records, err := store.Records(zone)
	if err != nil {
		return nil, err
	}

	var mname string
	var nsTargets []string
	glue := make(map[string][]string) // owner -> addrs, in insertion order

	for _, r := range records {
		switch strings.ToUpper(r.Type) {
		case "SOA":
			fields := strings.Fields(r.Rdata)
			if len(fields) > 0 {
				mname = dnsFqdn(fields[0])
			}
		case "NS":
			if strings.EqualFold(r.Owner, zone.Name) {
				nsTargets = append(nsTargets, dnsFqdn(r.Rdata))
			}
		case "A", "AAAA":
			glue[strings.ToLower(r.Owner)] = append(glue[strings.ToLower(r.Owner)], r.Rdata)
		}
	}

	var addrs []string
	for _, ns := range nsTargets {
		if mname != "" && strings.EqualFold(ns, mname) {
			continue
		}
		addrs = append(addrs, glue[strings.ToLower(ns)]...)
	}
	return addrs, nil
}

func dnsFqdn(s string) string {
	if s == "" || s[len(s)-1] == '.' {
		return s
	}
	return s + "."
}

// initNotifyOut walks every zone in store and populates its notify
// slaves from NS+glue, defaulting to port 53.
func initNotifyOut(store zonestore.Store) (map[ZoneID][]NotifyTarget, error) {
	zones, err := store.Zones()
	if err != nil {
		return nil, err
	}

	out := make(map[ZoneID][]NotifyTarget, len(zones))
	for _, z := range zones {
		addrs, err := getNotifySlavesFromNS(store, z)
		if err != nil {
			return nil, err
		}
		targets := make([]NotifyTarget, len(addrs))
		for i, a := range addrs {
			targets[i] = NotifyTarget{Address: a, Port: 53}
		}
		out[z] = targets
	}
	return out, nil
}
