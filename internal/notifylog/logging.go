/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

// Package notifylog wires the standard logger to a rotating file, shared by
// the daemon and the CLI.
package notifylog

import (
	"log"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup routes the standard logger at logfile, rotated by lumberjack.
func Setup(logfile string) error {
	log.SetFlags(log.Lshortfile | log.Ltime)

	if logfile == "" {
		log.Fatalf("Error: standard log (key log.file) not specified")
	}

	log.SetOutput(&lumberjack.Logger{
		Filename:   logfile,
		MaxSize:    20,
		MaxBackups: 3,
		MaxAge:     14,
	})

	return nil
}

// SetupCLI configures logging for CLI commands, which may run without a
// log file. Verbose/debug mode adds file/line info; otherwise output is bare.
func SetupCLI(verbose, debug bool) {
	if verbose || debug {
		log.SetFlags(log.Lshortfile | log.Ltime)
	} else {
		log.SetFlags(0)
	}
}
