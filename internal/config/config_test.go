/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tdns-notifyd.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	path := writeTempConfig(t, `
service:
  name: tdns-notifyd
db:
  file: /tmp/notify.db
log:
  file: /tmp/notify.log
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Db.File != "/tmp/notify.db" {
		t.Errorf("Db.File = %q", cfg.Db.File)
	}
	if cfg.Notify.MaxNotifyNum == 0 {
		t.Errorf("Notify.MaxNotifyNum not defaulted")
	}
}

func TestLoadMissingDbFileFailsValidation(t *testing.T) {
	path := writeTempConfig(t, `
service:
  name: tdns-notifyd
log:
  file: /tmp/notify.log
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: want error for missing db.file, got nil")
	}
}

func TestLoadMissingLogFileFailsValidation(t *testing.T) {
	path := writeTempConfig(t, `
service:
  name: tdns-notifyd
db:
  file: /tmp/notify.db
`)
	if _, err := Load(path); err == nil {
		t.Fatal("Load: want error for missing log.file, got nil")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Db.File = "/tmp/notify.db"
	cfg.Log.File = "/tmp/notify.log"

	out, err := cfg.YAML()
	if err != nil {
		t.Fatalf("YAML: %v", err)
	}
	if out == "" {
		t.Fatal("YAML returned empty output")
	}
}

func TestNotifyOptsConversion(t *testing.T) {
	cfg := Default()
	cfg.Notify.NotifyTimeout = 3
	cfg.Notify.IdleSleepTime = 10
	opts := cfg.NotifyOpts()
	if opts.NotifyTimeout.Seconds() != 3 {
		t.Errorf("NotifyTimeout = %v, want 3s", opts.NotifyTimeout)
	}
	if opts.IdleSleepTime.Seconds() != 10 {
		t.Errorf("IdleSleepTime = %v, want 10s", opts.IdleSleepTime)
	}
}
