// SPDX-License-Identifier: AGPL-3.0-only
package store

import (
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/seshasairaw/smarthub-operations/internal/errors"
	"github.com/seshasairaw/smarthub-operations/internal/model"

	_ "github.com/go-sql-driver/mysql"
	_ "modernc.org/sqlite"
)

// Default and maximum row limits for the listing queries.
const (
	DefaultExceptionLimit = 20
	DefaultShipmentLimit  = 200
	DefaultSearchLimit    = 50
	DefaultHubLimit       = 50
	maxLimit              = 500
)

// Store exposes the read queries behind the dashboard API plus the writes
// needed by the login endpoint and the performance recalculation job.
type Store interface {
	ListCustomers() ([]model.Customer, error)
	ListVendors() ([]model.Vendor, error)
	VendorPerformance(vendorID int64) (*model.VendorPerformance, error)
	LiveExceptions(limit int) ([]model.ExceptionRow, error)
	ExceptionsByType() ([]model.TypeCount, error)
	SearchPOD(query string, limit int) ([]model.PODRecord, error)
	ListShipments(limit int) ([]model.Shipment, error)
	ShipmentSummary() (*model.ShipmentSummary, error)
	ShipmentTrend() ([]model.TrendPoint, error)
	GetShipment(id int64) (*model.ShipmentDetail, error)
	DelayedShipments() ([]model.DelayedShipment, error)
	HubStatuses(limit int) ([]model.HubStatus, error)
	GetUserByLogin(usernameOrEmail string) (*model.User, error)
	VendorDeliveryStats() ([]model.VendorPerformance, error)
	SaveVendorPerformance(perf *model.VendorPerformance) error
	Close() error
}

// SQLStore implements Store over database/sql. It supports the pure-Go
// sqlite driver for development and tests, and MySQL for the deployment the
// dashboard was built against.
type SQLStore struct {
	db *sql.DB
}

// New opens the logistics database. For sqlite the parent directory is
// created and the schema migrated; the MySQL schema is owned by the
// provisioning pipeline and is not touched here.
func New(driver, dsn string) (*SQLStore, error) {
	switch driver {
	case "sqlite":
		if dir := filepath.Dir(dsn); dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
		db, err := sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
		if err := runMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return &SQLStore{db: db}, nil
	case "mysql":
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		return &SQLStore{db: db}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DB exposes the underlying handle for test seeding.
func (s *SQLStore) DB() *sql.DB {
	return s.db
}

// Close closes the underlying database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func clampLimit(limit, fallback int) int {
	if limit < 1 {
		return fallback
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

// ListCustomers returns all customers ordered by ID.
func (s *SQLStore) ListCustomers() ([]model.Customer, error) {
	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(email, ''), COALESCE(phone, ''), COALESCE(city, '')
		FROM customers
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var c model.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.City); err != nil {
			return nil, fmt.Errorf("scan customer row: %w", err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

// ListVendors returns all vendors ordered by ID.
func (s *SQLStore) ListVendors() ([]model.Vendor, error) {
	rows, err := s.db.Query(`
		SELECT id, name, COALESCE(vendor_type, ''), COALESCE(pricing_model, ''),
		       COALESCE(contact_email, ''), is_active
		FROM vendors
		ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query vendors: %w", err)
	}
	defer rows.Close()

	var vendors []model.Vendor
	for rows.Next() {
		var v model.Vendor
		var active int
		if err := rows.Scan(&v.ID, &v.Name, &v.VendorType, &v.PricingModel, &v.ContactEmail, &active); err != nil {
			return nil, fmt.Errorf("scan vendor row: %w", err)
		}
		v.IsActive = active != 0
		vendors = append(vendors, v)
	}
	return vendors, rows.Err()
}

// VendorPerformance returns the most recent performance snapshot for a
// vendor, or a not-found error when none has been calculated yet.
func (s *SQLStore) VendorPerformance(vendorID int64) (*model.VendorPerformance, error) {
	var p model.VendorPerformance
	err := s.db.QueryRow(`
		SELECT vendor_id, calculation_date, total_shipments, delivered_total,
		       on_time_deliveries, on_time_rate, exception_count
		FROM vendor_performance
		WHERE vendor_id = ?
		ORDER BY calculation_date DESC
		LIMIT 1`, vendorID).Scan(
		&p.VendorID, &p.CalculationDate, &p.TotalShipments, &p.DeliveredTotal,
		&p.OnTimeDeliveries, &p.OnTimeRate, &p.ExceptionCount,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("vendor performance", fmt.Sprintf("%d", vendorID))
	}
	if err != nil {
		return nil, fmt.Errorf("query vendor performance: %w", err)
	}
	return &p, nil
}

// LiveExceptions returns the most recent shipment exceptions, newest first.
func (s *SQLStore) LiveExceptions(limit int) ([]model.ExceptionRow, error) {
	limit = clampLimit(limit, DefaultExceptionLimit)
	rows, err := s.db.Query(`
		SELECT id, COALESCE(exception_type, ''), COALESCE(exception_notes, ''),
		       origin_city, destination_city,
		       COALESCE(last_status_update, updated_ts) AS raised_at
		FROM shipments
		WHERE has_exception = 1
		ORDER BY raised_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query live exceptions: %w", err)
	}
	defer rows.Close()

	var exceptions []model.ExceptionRow
	for rows.Next() {
		var e model.ExceptionRow
		if err := rows.Scan(&e.ShipmentID, &e.ExceptionType, &e.Message,
			&e.OriginCity, &e.DestinationCity, &e.RaisedAt); err != nil {
			return nil, fmt.Errorf("scan exception row: %w", err)
		}
		exceptions = append(exceptions, e)
	}
	return exceptions, rows.Err()
}

// ExceptionsByType returns exception counts grouped by type, most common first.
func (s *SQLStore) ExceptionsByType() ([]model.TypeCount, error) {
	rows, err := s.db.Query(`
		SELECT COALESCE(exception_type, ''), COUNT(*) AS value
		FROM shipments
		WHERE has_exception = 1
		GROUP BY exception_type
		ORDER BY value DESC`)
	if err != nil {
		return nil, fmt.Errorf("query exceptions by type: %w", err)
	}
	defer rows.Close()

	var counts []model.TypeCount
	for rows.Next() {
		var c model.TypeCount
		if err := rows.Scan(&c.Type, &c.Value); err != nil {
			return nil, fmt.Errorf("scan exception type row: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// SearchPOD finds shipments by AWB number, shipment ID or POD document URL.
func (s *SQLStore) SearchPOD(query string, limit int) ([]model.PODRecord, error) {
	limit = clampLimit(limit, DefaultSearchLimit)
	like := "%" + query + "%"
	rows, err := s.db.Query(`
		SELECT s.id, a.awb_number, s.current_status,
		       COALESCE(s.pod_document_url, ''), COALESCE(s.pod_upload_timestamp, '')
		FROM shipments s
		JOIN awb_numbers a ON a.id = s.awb_id
		WHERE a.awb_number LIKE ?
		   OR CAST(s.id AS CHAR) LIKE ?
		   OR s.pod_document_url LIKE ?
		ORDER BY COALESCE(s.pod_upload_timestamp, s.updated_ts) DESC
		LIMIT ?`, like, like, like, limit)
	if err != nil {
		return nil, fmt.Errorf("query pod search: %w", err)
	}
	defer rows.Close()

	var records []model.PODRecord
	for rows.Next() {
		var r model.PODRecord
		if err := rows.Scan(&r.ShipmentID, &r.AWBNumber, &r.CurrentStatus,
			&r.PODDocumentURL, &r.PODUploadTimestamp); err != nil {
			return nil, fmt.Errorf("scan pod row: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// ListShipments returns recent shipments, most recently updated first.
func (s *SQLStore) ListShipments(limit int) ([]model.Shipment, error) {
	limit = clampLimit(limit, DefaultShipmentLimit)
	rows, err := s.db.Query(`
		SELECT s.id, a.awb_number, s.origin_city, s.destination_city,
		       s.current_status, COALESCE(h.hub_code, ''),
		       COALESCE(s.assigned_vendor_id, 0),
		       COALESCE(s.expected_delivery_date, ''),
		       COALESCE(s.last_status_update, s.updated_ts)
		FROM shipments s
		JOIN awb_numbers a ON a.id = s.awb_id
		LEFT JOIN hubs h ON h.id = s.current_hub_id
		ORDER BY COALESCE(s.last_status_update, s.updated_ts) DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query shipments: %w", err)
	}
	defer rows.Close()

	var shipments []model.Shipment
	for rows.Next() {
		var sh model.Shipment
		if err := rows.Scan(&sh.ShipmentID, &sh.AWBNumber, &sh.Origin, &sh.Destination,
			&sh.ShipmentStatus, &sh.CurrentHubCode, &sh.VendorID, &sh.ETA, &sh.LastUpdatedTS); err != nil {
			return nil, fmt.Errorf("scan shipment row: %w", err)
		}
		shipments = append(shipments, sh)
	}
	return shipments, rows.Err()
}

// ShipmentSummary aggregates per-status counts and the on-time delivery rate.
// The rate is a percentage of delivered shipments that arrived on or before
// their expected date, rounded to one decimal, 0.0 when nothing delivered.
func (s *SQLStore) ShipmentSummary() (*model.ShipmentSummary, error) {
	var (
		summary        model.ShipmentSummary
		onTime         int
		deliveredTotal int
	)
	err := s.db.QueryRow(`
		SELECT
		  COALESCE(SUM(CASE WHEN current_status = 'BOOKED' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN current_status = 'PICKED_UP' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN current_status = 'IN_TRANSIT' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN current_status = 'OUT_FOR_DELIVERY' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN current_status = 'DELAYED' THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN has_exception = 1 THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN actual_delivery_date IS NOT NULL
		      AND expected_delivery_date IS NOT NULL
		      AND actual_delivery_date <= expected_delivery_date
		    THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN actual_delivery_date IS NOT NULL THEN 1 ELSE 0 END), 0)
		FROM shipments`).Scan(
		&summary.Booked, &summary.PickedUp, &summary.InTransit, &summary.OutForDelivery,
		&summary.DelayedShipments, &summary.Exceptions, &onTime, &deliveredTotal,
	)
	if err != nil {
		return nil, fmt.Errorf("query shipment summary: %w", err)
	}

	summary.OnTimeRate = OnTimeRate(onTime, deliveredTotal)
	return &summary, nil
}

// OnTimeRate converts on-time/delivered counts into a percentage rounded to
// one decimal place. Zero delivered yields 0.0 rather than a division error.
func OnTimeRate(onTime, deliveredTotal int) float64 {
	if deliveredTotal <= 0 {
		return 0.0
	}
	rate := float64(onTime) / float64(deliveredTotal) * 100
	return math.Round(rate*10) / 10
}

// ShipmentTrend returns per-day booking counts in chronological order.
func (s *SQLStore) ShipmentTrend() ([]model.TrendPoint, error) {
	rows, err := s.db.Query(`
		SELECT DATE(booking_date) AS day, COUNT(*) AS value
		FROM shipments
		GROUP BY DATE(booking_date)
		ORDER BY DATE(booking_date)`)
	if err != nil {
		return nil, fmt.Errorf("query shipment trend: %w", err)
	}
	defer rows.Close()

	var points []model.TrendPoint
	for rows.Next() {
		var p model.TrendPoint
		if err := rows.Scan(&p.Day, &p.Value); err != nil {
			return nil, fmt.Errorf("scan trend row: %w", err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// GetShipment returns the full detail for one shipment.
func (s *SQLStore) GetShipment(id int64) (*model.ShipmentDetail, error) {
	var (
		d            model.ShipmentDetail
		hasException int
	)
	err := s.db.QueryRow(`
		SELECT s.id, a.awb_number, s.origin_city, s.destination_city,
		       COALESCE(s.destination_state, ''), COALESCE(s.destination_pincode, ''),
		       s.current_status,
		       COALESCE(s.expected_delivery_date, ''), COALESCE(s.actual_delivery_date, ''),
		       COALESCE(s.booking_date, ''), s.has_exception,
		       COALESCE(s.exception_type, ''), COALESCE(s.exception_notes, ''),
		       COALESCE(s.consignee_name, ''), COALESCE(s.consignee_address, ''),
		       COALESCE(s.product_type, ''), COALESCE(s.description, ''),
		       COALESCE(s.weight_kg, 0), COALESCE(s.number_of_boxes, 0),
		       COALESCE(s.service_type, ''), COALESCE(s.booking_id, ''),
		       COALESCE(h.hub_code, ''), COALESCE(h.hub_name, ''),
		       COALESCE(v.name, ''),
		       COALESCE(s.last_status_update, s.updated_ts)
		FROM shipments s
		JOIN awb_numbers a ON a.id = s.awb_id
		LEFT JOIN hubs h ON h.id = s.current_hub_id
		LEFT JOIN vendors v ON v.id = s.assigned_vendor_id
		WHERE s.id = ?`, id).Scan(
		&d.ShipmentID, &d.AWBNumber, &d.OriginCity, &d.DestinationCity,
		&d.DestinationState, &d.DestinationPincode, &d.CurrentStatus,
		&d.ExpectedDeliveryDate, &d.ActualDeliveryDate, &d.BookingDate, &hasException,
		&d.ExceptionType, &d.ExceptionNotes, &d.ConsigneeName, &d.ConsigneeAddress,
		&d.ProductType, &d.Description, &d.WeightKg, &d.NumberOfBoxes,
		&d.ServiceType, &d.BookingID, &d.CurrentHubCode, &d.CurrentHubName,
		&d.VendorName, &d.LastUpdatedTS,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("shipment", fmt.Sprintf("%d", id))
	}
	if err != nil {
		return nil, fmt.Errorf("query shipment detail: %w", err)
	}
	d.HasException = hasException != 0
	return &d, nil
}

// DelayedShipments returns all shipments currently in DELAYED status,
// ordered by expected delivery date, soonest first.
func (s *SQLStore) DelayedShipments() ([]model.DelayedShipment, error) {
	rows, err := s.db.Query(`
		SELECT s.id, a.awb_number, s.origin_city, s.destination_city,
		       s.current_status, COALESCE(s.expected_delivery_date, ''),
		       COALESCE(s.last_status_update, s.updated_ts)
		FROM shipments s
		JOIN awb_numbers a ON a.id = s.awb_id
		WHERE s.current_status = 'DELAYED'
		ORDER BY s.expected_delivery_date ASC`)
	if err != nil {
		return nil, fmt.Errorf("query delayed shipments: %w", err)
	}
	defer rows.Close()

	var delayed []model.DelayedShipment
	for rows.Next() {
		var d model.DelayedShipment
		if err := rows.Scan(&d.ShipmentID, &d.AWBNumber, &d.OriginCity,
			&d.DestinationCity, &d.CurrentStatus, &d.ETA, &d.LastUpdated); err != nil {
			return nil, fmt.Errorf("scan delayed shipment row: %w", err)
		}
		delayed = append(delayed, d)
	}
	return delayed, rows.Err()
}

// HubStatuses derives the operational status of each hub from its active
// flag and the number of shipments currently routed through it.
func (s *SQLStore) HubStatuses(limit int) ([]model.HubStatus, error) {
	limit = clampLimit(limit, DefaultHubLimit)
	rows, err := s.db.Query(`
		SELECT h.hub_code, h.hub_name, h.city, COALESCE(h.pincode, ''),
		       CASE
		         WHEN h.is_active = 0 THEN 'DOWN'
		         WHEN COUNT(s.id) >= 20 THEN 'CONGESTED'
		         ELSE 'OPERATIONAL'
		       END AS status,
		       COALESCE(h.updated_ts, h.created_ts)
		FROM hubs h
		LEFT JOIN shipments s ON s.current_hub_id = h.id
		GROUP BY h.id, h.hub_code, h.hub_name, h.city, h.pincode, h.is_active, h.updated_ts, h.created_ts
		ORDER BY h.hub_code
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query hub statuses: %w", err)
	}
	defer rows.Close()

	var hubs []model.HubStatus
	for rows.Next() {
		var h model.HubStatus
		if err := rows.Scan(&h.HubCode, &h.HubName, &h.City, &h.Pincode,
			&h.Status, &h.LastUpdatedTS); err != nil {
			return nil, fmt.Errorf("scan hub row: %w", err)
		}
		hubs = append(hubs, h)
	}
	return hubs, rows.Err()
}

// GetUserByLogin looks up an account by username or email, including its
// role code. Returns a not-found error when no account matches.
func (s *SQLStore) GetUserByLogin(usernameOrEmail string) (*model.User, error) {
	var (
		u      model.User
		active int
	)
	err := s.db.QueryRow(`
		SELECT u.id, u.username, u.email, u.first_name, u.last_name,
		       COALESCE(u.phone, ''), u.password_hash, u.is_active, r.role_code
		FROM users u
		JOIN roles r ON u.role_id = r.id
		WHERE u.username = ? OR u.email = ?`, usernameOrEmail, usernameOrEmail).Scan(
		&u.ID, &u.Username, &u.Email, &u.FirstName, &u.LastName,
		&u.Phone, &u.PasswordHash, &active, &u.RoleCode,
	)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("user", usernameOrEmail)
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.IsActive = active != 0
	return &u, nil
}

// VendorDeliveryStats aggregates delivery counts per vendor for the
// performance recalculation job. OnTimeRate and CalculationDate are filled
// in by the caller.
func (s *SQLStore) VendorDeliveryStats() ([]model.VendorPerformance, error) {
	rows, err := s.db.Query(`
		SELECT s.assigned_vendor_id,
		  COUNT(*),
		  COALESCE(SUM(CASE WHEN s.actual_delivery_date IS NOT NULL THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN s.actual_delivery_date IS NOT NULL
		      AND s.expected_delivery_date IS NOT NULL
		      AND s.actual_delivery_date <= s.expected_delivery_date
		    THEN 1 ELSE 0 END), 0),
		  COALESCE(SUM(CASE WHEN s.has_exception = 1 THEN 1 ELSE 0 END), 0)
		FROM shipments s
		WHERE s.assigned_vendor_id IS NOT NULL
		GROUP BY s.assigned_vendor_id`)
	if err != nil {
		return nil, fmt.Errorf("query vendor delivery stats: %w", err)
	}
	defer rows.Close()

	var stats []model.VendorPerformance
	for rows.Next() {
		var p model.VendorPerformance
		if err := rows.Scan(&p.VendorID, &p.TotalShipments, &p.DeliveredTotal,
			&p.OnTimeDeliveries, &p.ExceptionCount); err != nil {
			return nil, fmt.Errorf("scan vendor stats row: %w", err)
		}
		stats = append(stats, p)
	}
	return stats, rows.Err()
}

// SaveVendorPerformance persists one performance snapshot.
func (s *SQLStore) SaveVendorPerformance(perf *model.VendorPerformance) error {
	_, err := s.db.Exec(`
		INSERT INTO vendor_performance
		  (vendor_id, calculation_date, total_shipments, delivered_total,
		   on_time_deliveries, on_time_rate, exception_count)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		perf.VendorID, perf.CalculationDate, perf.TotalShipments, perf.DeliveredTotal,
		perf.OnTimeDeliveries, perf.OnTimeRate, perf.ExceptionCount,
	)
	if err != nil {
		return fmt.Errorf("insert vendor performance: %w", err)
	}
	return nil
}
