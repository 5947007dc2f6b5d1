// SPDX-License-Identifier: AGPL-3.0-only
package store

import (
	"database/sql"
	"fmt"
)

// migration represents a single schema migration.
type migration struct {
	version int
	up      func(tx *sql.Tx) error
}

// migrations is the ordered list of schema migrations. They only run for the
// sqlite driver; the MySQL schema is provisioned outside this service.
var migrations = []migration{
	{
		version: 1,
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE roles (
					id        INTEGER PRIMARY KEY AUTOINCREMENT,
					role_code TEXT NOT NULL UNIQUE
				);

				CREATE TABLE users (
					id            INTEGER PRIMARY KEY AUTOINCREMENT,
					username      TEXT NOT NULL UNIQUE,
					email         TEXT NOT NULL UNIQUE,
					first_name    TEXT NOT NULL DEFAULT '',
					last_name     TEXT NOT NULL DEFAULT '',
					phone         TEXT,
					password_hash TEXT NOT NULL,
					is_active     INTEGER NOT NULL DEFAULT 1,
					role_id       INTEGER NOT NULL REFERENCES roles (id)
				);

				CREATE TABLE customers (
					id    INTEGER PRIMARY KEY AUTOINCREMENT,
					name  TEXT NOT NULL,
					email TEXT,
					phone TEXT,
					city  TEXT
				);

				CREATE TABLE vendors (
					id            INTEGER PRIMARY KEY AUTOINCREMENT,
					name          TEXT NOT NULL,
					vendor_type   TEXT,
					pricing_model TEXT,
					contact_email TEXT,
					is_active     INTEGER NOT NULL DEFAULT 1
				);

				CREATE TABLE hubs (
					id         INTEGER PRIMARY KEY AUTOINCREMENT,
					hub_code   TEXT NOT NULL UNIQUE,
					hub_name   TEXT NOT NULL,
					city       TEXT NOT NULL DEFAULT '',
					pincode    TEXT,
					is_active  INTEGER NOT NULL DEFAULT 1,
					created_ts TEXT NOT NULL DEFAULT '',
					updated_ts TEXT
				);

				CREATE TABLE awb_numbers (
					id         INTEGER PRIMARY KEY AUTOINCREMENT,
					awb_number TEXT NOT NULL UNIQUE
				);
			`)
			return err
		},
	},
	{
		version: 2,
		up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
				CREATE TABLE shipments (
					id                     INTEGER PRIMARY KEY AUTOINCREMENT,
					awb_id                 INTEGER NOT NULL REFERENCES awb_numbers (id),
					origin_city            TEXT NOT NULL DEFAULT '',
					destination_city       TEXT NOT NULL DEFAULT '',
					destination_state      TEXT,
					destination_pincode    TEXT,
					current_status         TEXT NOT NULL DEFAULT 'BOOKED',
					current_hub_id         INTEGER REFERENCES hubs (id),
					assigned_vendor_id     INTEGER REFERENCES vendors (id),
					booking_date           TEXT,
					expected_delivery_date TEXT,
					actual_delivery_date   TEXT,
					has_exception          INTEGER NOT NULL DEFAULT 0,
					exception_type         TEXT,
					exception_notes        TEXT,
					consignee_name         TEXT,
					consignee_address      TEXT,
					product_type           TEXT,
					description            TEXT,
					weight_kg              REAL,
					number_of_boxes        INTEGER,
					service_type           TEXT,
					booking_id             TEXT,
					pod_document_url       TEXT,
					pod_upload_timestamp   TEXT,
					last_status_update     TEXT,
					updated_ts             TEXT NOT NULL DEFAULT ''
				);
				CREATE INDEX idx_shipments_status ON shipments (current_status);
				CREATE INDEX idx_shipments_exception ON shipments (has_exception);
				CREATE INDEX idx_shipments_hub ON shipments (current_hub_id);

				CREATE TABLE vendor_performance (
					id                 INTEGER PRIMARY KEY AUTOINCREMENT,
					vendor_id          INTEGER NOT NULL REFERENCES vendors (id),
					calculation_date   TEXT NOT NULL,
					total_shipments    INTEGER NOT NULL DEFAULT 0,
					delivered_total    INTEGER NOT NULL DEFAULT 0,
					on_time_deliveries INTEGER NOT NULL DEFAULT 0,
					on_time_rate       REAL NOT NULL DEFAULT 0,
					exception_count    INTEGER NOT NULL DEFAULT 0
				);
				CREATE INDEX idx_vendor_perf ON vendor_performance (vendor_id, calculation_date DESC);
			`)
			return err
		},
	},
}

// runMigrations ensures the schema_version table exists and runs any pending
// migrations inside transactions.
func runMigrations(db *sql.DB) error {
	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	if err := db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&current); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.version, err)
		}
		if err := m.up(tx); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.version, err)
		}
	}
	return nil
}
