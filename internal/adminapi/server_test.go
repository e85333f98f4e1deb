/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package adminapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/johanix/tdns-notify/internal/notify"
	"github.com/johanix/tdns-notify/internal/zonestore"
)

func newTestRouter(t *testing.T) (*httptest.Server, *notify.Controller) {
	t.Helper()
	store := zonestore.NewMemStore()
	zone := zonestore.NewZoneID("example.com.", "IN")
	store.Load(zone, []zonestore.Record{
		{Owner: "example.com.", Type: "NS", Rdata: "a.dns.example.com."},
		{Owner: "a.dns.example.com.", Type: "A", Rdata: "192.0.2.1"},
	})

	ctrl, err := notify.NewController(store, notify.DefaultConfig())
	if err != nil {
		t.Fatalf("NewController: %v", err)
	}
	return httptest.NewServer(NewRouter(ctrl)), ctrl
}

func TestNotifyUnknownZoneNoop(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/notify?zone=nowhere.example.&class=IN", "", nil)
	if err != nil {
		t.Fatalf("POST /notify: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Errorf("status = %d, want 202 (silent no-op for unknown zone)", resp.StatusCode)
	}
}

func TestNotifyMissingZoneIsBadRequest(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/notify", "", nil)
	if err != nil {
		t.Fatalf("POST /notify: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestStatusReflectsNotifyingZone(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/notify?zone=example.com.&class=IN", "", nil)
	if err != nil {
		t.Fatalf("POST /notify: %v", err)
	}
	resp.Body.Close()

	statusResp, err := http.Get(srv.URL + "/status?zone=example.com.&class=IN")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer statusResp.Body.Close()

	var snaps []notify.NotifySnapshot
	if err := json.NewDecoder(statusResp.Body).Decode(&snaps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %v, want exactly one for example.com.", snaps)
	}
	if snaps[0].Zone.Name != "example.com." {
		t.Errorf("Zone.Name = %q", snaps[0].Zone.Name)
	}
}

func TestStatusAllZonesWhenUnfiltered(t *testing.T) {
	srv, _ := newTestRouter(t)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("GET /status: %v", err)
	}
	defer resp.Body.Close()

	var snaps []notify.NotifySnapshot
	if err := json.NewDecoder(resp.Body).Decode(&snaps); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(snaps) != 1 {
		t.Errorf("snapshots = %v, want one entry for the one discovered zone", snaps)
	}
}
