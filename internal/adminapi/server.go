/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

// Package adminapi is the read/control HTTP surface layered over the
// notify controller for operability — not part of the NOTIFY protocol
// itself. Routing follows the teacher's apirouters.go/apihandler_zone.go
// shape: a gorilla/mux router, thin handlers that parse the query and
// call into the core.
package adminapi

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/johanix/tdns-notify/internal/notify"
)

// NewRouter builds the admin mux for ctrl.
func NewRouter(ctrl *notify.Controller) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/status", statusHandler(ctrl)).Methods("GET")
	r.HandleFunc("/notify", notifyHandler(ctrl)).Methods("POST")
	return r
}

func statusHandler(ctrl *notify.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zoneParam := r.URL.Query().Get("zone")
		var payload []notify.NotifySnapshot
		if zoneParam != "" {
			class := r.URL.Query().Get("class")
			if class == "" {
				class = "IN"
			}
			snap, ok := ctrl.Status(notify.NewZoneID(zoneParam, class))
			if ok {
				payload = []notify.NotifySnapshot{snap}
			}
		} else {
			payload = ctrl.AllStatuses()
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(payload)
	}
}

// notifyHandler triggers send_notify. Per spec.md §7, an unknown zone
// or one with no notify targets is a silent no-op — the handler still
// returns 202, since NOTIFY is best-effort and the caller isn't owed an
// error for a request that simply had nothing to do.
func notifyHandler(ctrl *notify.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		zone := r.URL.Query().Get("zone")
		if zone == "" {
			http.Error(w, "missing zone parameter", http.StatusBadRequest)
			return
		}
		class := r.URL.Query().Get("class")
		if class == "" {
			class = "IN"
		}
		ctrl.SendNotify(zone, class)
		w.WriteHeader(http.StatusAccepted)
	}
}
