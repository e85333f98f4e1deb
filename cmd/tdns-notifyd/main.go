/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/johanix/tdns-notify/internal/adminapi"
	"github.com/johanix/tdns-notify/internal/config"
	"github.com/johanix/tdns-notify/internal/notify"
	"github.com/johanix/tdns-notify/internal/notifylog"
	"github.com/johanix/tdns-notify/internal/zonestore"
)

var appVersion string

func main() {
	cfgFile := flag.String("config", "/etc/tdns/tdns-notifyd.yaml", "configuration file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("tdns-notifyd: %v", err)
	}

	notifylog.Setup(cfg.Log.File)
	log.Printf("tdns-notifyd version %s starting.", appVersion)
	if cfg.Service.Debug {
		if effective, err := cfg.YAML(); err == nil {
			log.Printf("tdns-notifyd: effective configuration:\n%s", effective)
		}
	}

	store, err := zonestore.OpenSQLiteStore(cfg.Db.File)
	if err != nil {
		log.Fatalf("tdns-notifyd: %v", err)
	}
	defer store.Close()

	ctrl, err := notify.NewController(store, cfg.NotifyOpts())
	if err != nil {
		log.Fatalf("tdns-notifyd: failed to build notify controller: %v", err)
	}
	ctrl.Dispatcher()

	router := adminapi.NewRouter(ctrl)
	srv := &http.Server{Addr: cfg.Admin.Address, Handler: router}
	go func() {
		log.Printf("tdns-notifyd: admin API listening on %s", cfg.Admin.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("tdns-notifyd: admin API error: %v", err)
		}
	}()

	mainloop(ctrl, srv)
}

func mainloop(ctrl *notify.Controller, srv *http.Server) {
	exit := make(chan os.Signal, 1)
	signal.Notify(exit, syscall.SIGINT, syscall.SIGTERM)

	<-exit
	log.Println("tdns-notifyd: signal received, shutting down.")
	srv.Close()
	ctrl.Shutdown()
	log.Println("tdns-notifyd: terminated.")
}
