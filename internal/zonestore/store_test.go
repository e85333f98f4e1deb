/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package zonestore

import "testing"

func TestNewZoneIDNormalizes(t *testing.T) {
	z := NewZoneID("example.com", "")
	if z.Name != "example.com." {
		t.Errorf("Name = %q, want trailing dot", z.Name)
	}
	if z.Class != "IN" {
		t.Errorf("Class = %q, want default IN", z.Class)
	}
}

func TestNewZoneIDAlreadyQualified(t *testing.T) {
	z := NewZoneID("example.com.", "CH")
	if z.Name != "example.com." || z.Class != "CH" {
		t.Errorf("got %+v", z)
	}
}

func TestMemStoreRoundTrip(t *testing.T) {
	m := NewMemStore()
	zone := NewZoneID("example.com.", "IN")
	recs := []Record{
		{Owner: "example.com.", TTL: 3600, Type: "SOA", Rdata: "ns1.example.com. hostmaster.example.com. 1 3600 600 604800 3600"},
		{Owner: "example.com.", TTL: 3600, Type: "NS", Rdata: "ns1.example.com."},
		{Owner: "ns1.example.com.", TTL: 3600, Type: "A", Rdata: "192.0.2.1"},
	}
	m.Load(zone, recs)

	zones, err := m.Zones()
	if err != nil {
		t.Fatalf("Zones: %v", err)
	}
	if len(zones) != 1 || zones[0] != zone {
		t.Fatalf("Zones() = %v, want [%v]", zones, zone)
	}

	got, err := m.Records(zone)
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(got) != len(recs) {
		t.Fatalf("Records() len = %d, want %d", len(got), len(recs))
	}
	for i := range recs {
		if got[i] != recs[i] {
			t.Errorf("Records()[%d] = %+v, want %+v", i, got[i], recs[i])
		}
	}
}

func TestMemStoreLoadAppendsNotReplaces(t *testing.T) {
	m := NewMemStore()
	zone := NewZoneID("example.com.", "IN")
	m.Load(zone, []Record{{Owner: "example.com.", Type: "NS", Rdata: "ns1.example.com."}})
	m.Load(zone, []Record{{Owner: "example.com.", Type: "NS", Rdata: "ns2.example.com."}})

	zones, _ := m.Zones()
	if len(zones) != 1 {
		t.Fatalf("Zones() = %v, want a single zone entry despite two Load calls", zones)
	}
	recs, _ := m.Records(zone)
	if len(recs) != 2 {
		t.Fatalf("Records() = %v, want both loads' records", recs)
	}
}

func TestMemStoreUnknownZoneIsEmpty(t *testing.T) {
	m := NewMemStore()
	recs, err := m.Records(NewZoneID("nowhere.example.", "IN"))
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("Records() for unknown zone = %v, want empty", recs)
	}
}
