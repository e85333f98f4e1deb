/*
 * Copyright (c) 2024 Johan Stenstam, johani@johani.org
 */

package zonestore

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/twotwotwo/sorts"
)

// recordsTable mirrors the teacher's DefaultTables pattern of naming the
// schema up front as a constant rather than building it with a query
// builder.
const recordsTable = `CREATE TABLE IF NOT EXISTS 'records' (
id       INTEGER PRIMARY KEY,
zone     TEXT,
class    TEXT,
owner    TEXT,
ttl      INTEGER,
rrtype   TEXT,
rdata    TEXT
)`

// SQLiteStore is a Store backed by a SQLite database, one row per RR.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (creating if necessary) the database at path and
// ensures the records table exists.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("zonestore: failed to open %q: %v", path, err)
	}
	if _, err := db.Exec(recordsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("zonestore: failed to create records table: %v", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load inserts a zone's records, in the order given — the same contract
// as the original's sqlite3_ds.load(zone, reader): callers supply an
// ordered reader of (owner, ttl, class, rrtype, rdata) tuples.
func (s *SQLiteStore) Load(zone ZoneID, records []Record) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO records (zone, class, owner, ttl, rrtype, rdata) VALUES (?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range records {
		if _, err := stmt.Exec(zone.Name, zone.Class, r.Owner, r.TTL, r.Type, r.Rdata); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

type zoneIDSlice []ZoneID

func (z zoneIDSlice) Len() int      { return len(z) }
func (z zoneIDSlice) Swap(i, j int) { z[i], z[j] = z[j], z[i] }
func (z zoneIDSlice) Less(i, j int) bool {
	if z[i].Name != z[j].Name {
		return z[i].Name < z[j].Name
	}
	return z[i].Class < z[j].Class
}

// Zones lists every distinct (zone, class) pair known to the store.
// The result is sorted for deterministic startup iteration — the
// per-zone slave ordering is unaffected, since that comes from
// per-record insertion order, not from this listing order.
func (s *SQLiteStore) Zones() ([]ZoneID, error) {
	rows, err := s.db.Query(`SELECT DISTINCT zone, class FROM records`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones zoneIDSlice
	for rows.Next() {
		var z ZoneID
		if err := rows.Scan(&z.Name, &z.Class); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	sorts.Quicksort(zones)
	return zones, nil
}

// Records returns a zone's records in insertion order (by rowid).
func (s *SQLiteStore) Records(zone ZoneID) ([]Record, error) {
	rows, err := s.db.Query(
		`SELECT owner, ttl, class, rrtype, rdata FROM records WHERE zone = ? AND class = ? ORDER BY id`,
		zone.Name, zone.Class)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Owner, &r.TTL, &r.Class, &r.Type, &r.Rdata); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
