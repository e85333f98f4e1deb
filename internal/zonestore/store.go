/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

// Package zonestore defines the read-only zone/record collaborator the
// notify core pulls SOA, NS and glue data from, and a SQLite-backed
// implementation of it.
package zonestore

import "fmt"

// ZoneID is the (name, class) pair identifying a zone. Name is always
// fully qualified (trailing dot).
type ZoneID struct {
	Name  string
	Class string
}

func (z ZoneID) String() string {
	return fmt.Sprintf("%s/%s", z.Name, z.Class)
}

// NewZoneID normalizes name (appending a trailing dot if absent) and
// defaults an empty class to IN.
func NewZoneID(name, class string) ZoneID {
	if name == "" || name[len(name)-1] != '.' {
		name = name + "."
	}
	if class == "" {
		class = "IN"
	}
	return ZoneID{Name: name, Class: class}
}

// Record is one RR tuple as read from the zone store: owner name, TTL,
// class, RR type mnemonic, and RFC 1035 presentation-form rdata.
type Record struct {
	Owner string
	TTL   uint32
	Class string
	Type  string
	Rdata string
}

// Store is the external collaborator: a queryable source of zone
// records. SQLiteStore and MemStore implement it; the notify core
// depends only on this interface.
type Store interface {
	// Zones lists every known zone identifier.
	Zones() ([]ZoneID, error)

	// Records iterates the records of one zone in insertion order.
	Records(zone ZoneID) ([]Record, error)
}
