// SPDX-License-Identifier: AGPL-3.0-only
package store

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seshasairaw/smarthub-operations/internal/model"
)

func newTestStore(t *testing.T) *SQLStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New("sqlite", dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func exec(t *testing.T, s *SQLStore, query string, args ...interface{}) {
	t.Helper()
	if _, err := s.DB().Exec(query, args...); err != nil {
		t.Fatalf("exec %q: %v", query, err)
	}
}

// seedShipment inserts an AWB row plus a shipment and returns nothing; the
// shipment ID follows insertion order starting at 1.
func seedShipment(t *testing.T, s *SQLStore, awb, status string, hasException int, expected, actual string) {
	t.Helper()
	exec(t, s, "INSERT INTO awb_numbers (awb_number) VALUES (?)", awb)
	var awbID int64
	if err := s.DB().QueryRow("SELECT id FROM awb_numbers WHERE awb_number = ?", awb).Scan(&awbID); err != nil {
		t.Fatalf("lookup awb: %v", err)
	}
	exec(t, s, `
		INSERT INTO shipments
		  (awb_id, origin_city, destination_city, current_status, has_exception,
		   expected_delivery_date, actual_delivery_date, exception_type, exception_notes,
		   booking_date, updated_ts, last_status_update)
		VALUES (?, 'Mumbai', 'Delhi', ?, ?, NULLIF(?, ''), NULLIF(?, ''), 'DELAY', 'stuck at hub',
		   '2026-08-01', '2026-08-10T10:00:00Z', '2026-08-10T12:00:00Z')`,
		awbID, status, hasException, expected, actual)
}

func TestShipmentSummaryCounts(t *testing.T) {
	s := newTestStore(t)

	seedShipment(t, s, "AWB-1", "BOOKED", 0, "", "")
	seedShipment(t, s, "AWB-2", "IN_TRANSIT", 0, "", "")
	seedShipment(t, s, "AWB-3", "IN_TRANSIT", 1, "", "")
	seedShipment(t, s, "AWB-4", "DELAYED", 0, "", "")
	// Delivered on time and delivered late.
	seedShipment(t, s, "AWB-5", "DELIVERED", 0, "2026-08-05", "2026-08-04")
	seedShipment(t, s, "AWB-6", "DELIVERED", 0, "2026-08-05", "2026-08-07")

	summary, err := s.ShipmentSummary()
	if err != nil {
		t.Fatalf("ShipmentSummary: %v", err)
	}
	if summary.Booked != 1 {
		t.Errorf("Booked = %d, want 1", summary.Booked)
	}
	if summary.InTransit != 2 {
		t.Errorf("InTransit = %d, want 2", summary.InTransit)
	}
	if summary.DelayedShipments != 1 {
		t.Errorf("DelayedShipments = %d, want 1", summary.DelayedShipments)
	}
	if summary.Exceptions != 1 {
		t.Errorf("Exceptions = %d, want 1", summary.Exceptions)
	}
	// 1 of 2 delivered on time.
	if summary.OnTimeRate != 50.0 {
		t.Errorf("OnTimeRate = %v, want 50.0", summary.OnTimeRate)
	}
}

func TestShipmentSummaryEmptyDatabase(t *testing.T) {
	s := newTestStore(t)

	summary, err := s.ShipmentSummary()
	if err != nil {
		t.Fatalf("ShipmentSummary: %v", err)
	}
	if summary.OnTimeRate != 0.0 {
		t.Errorf("OnTimeRate = %v, want 0.0 for empty database", summary.OnTimeRate)
	}
	if summary.Booked != 0 || summary.Exceptions != 0 {
		t.Errorf("expected zero counts, got %+v", summary)
	}
}

func TestOnTimeRateRounding(t *testing.T) {
	// 7 of 8 on time = 87.5%.
	if got := OnTimeRate(7, 8); got != 87.5 {
		t.Errorf("OnTimeRate(7, 8) = %v, want 87.5", got)
	}
	// 1 of 3 = 33.333... rounds to 33.3.
	if got := OnTimeRate(1, 3); got != 33.3 {
		t.Errorf("OnTimeRate(1, 3) = %v, want 33.3", got)
	}
	// 2 of 3 = 66.666... rounds to 66.7.
	if got := OnTimeRate(2, 3); got != 66.7 {
		t.Errorf("OnTimeRate(2, 3) = %v, want 66.7", got)
	}
	if got := OnTimeRate(0, 0); got != 0.0 {
		t.Errorf("OnTimeRate(0, 0) = %v, want 0.0", got)
	}
}

func TestLiveExceptionsLimitAndOrder(t *testing.T) {
	s := newTestStore(t)

	for i := 1; i <= 5; i++ {
		awb := fmt.Sprintf("AWB-%d", i)
		exec(t, s, "INSERT INTO awb_numbers (awb_number) VALUES (?)", awb)
		exec(t, s, `
			INSERT INTO shipments (awb_id, origin_city, destination_city, current_status,
			  has_exception, exception_type, exception_notes, updated_ts, last_status_update)
			VALUES (?, 'Pune', 'Chennai', 'IN_TRANSIT', 1, 'DAMAGE', 'box crushed', '', ?)`,
			i, fmt.Sprintf("2026-08-1%dT00:00:00Z", i))
	}

	exceptions, err := s.LiveExceptions(3)
	if err != nil {
		t.Fatalf("LiveExceptions: %v", err)
	}
	if len(exceptions) != 3 {
		t.Fatalf("len = %d, want 3", len(exceptions))
	}
	// Newest first.
	if exceptions[0].RaisedAt < exceptions[1].RaisedAt {
		t.Errorf("exceptions not ordered newest first: %v then %v",
			exceptions[0].RaisedAt, exceptions[1].RaisedAt)
	}
	if exceptions[0].Message != "box crushed" {
		t.Errorf("Message = %q, want 'box crushed'", exceptions[0].Message)
	}
}

func TestDelayedShipmentsOrderedByETA(t *testing.T) {
	s := newTestStore(t)

	seedShipment(t, s, "AWB-LATE-2", "DELAYED", 0, "2026-09-02", "")
	seedShipment(t, s, "AWB-LATE-1", "DELAYED", 0, "2026-09-01", "")
	seedShipment(t, s, "AWB-OK", "IN_TRANSIT", 0, "2026-09-03", "")

	delayed, err := s.DelayedShipments()
	if err != nil {
		t.Fatalf("DelayedShipments: %v", err)
	}
	if len(delayed) != 2 {
		t.Fatalf("len = %d, want 2", len(delayed))
	}
	if delayed[0].AWBNumber != "AWB-LATE-1" {
		t.Errorf("first delayed = %q, want AWB-LATE-1 (soonest ETA)", delayed[0].AWBNumber)
	}
}

func TestHubStatuses(t *testing.T) {
	s := newTestStore(t)

	exec(t, s, "INSERT INTO hubs (hub_code, hub_name, city, is_active, created_ts) VALUES ('BOM', 'Mumbai Hub', 'Mumbai', 1, '2026-01-01')")
	exec(t, s, "INSERT INTO hubs (hub_code, hub_name, city, is_active, created_ts) VALUES ('DEL', 'Delhi Hub', 'Delhi', 0, '2026-01-01')")
	exec(t, s, "INSERT INTO hubs (hub_code, hub_name, city, is_active, created_ts) VALUES ('MAA', 'Chennai Hub', 'Chennai', 1, '2026-01-01')")

	// Congest the Chennai hub (id 3) with 20 shipments.
	for i := 0; i < 20; i++ {
		awb := fmt.Sprintf("AWB-HUB-%d", i)
		exec(t, s, "INSERT INTO awb_numbers (awb_number) VALUES (?)", awb)
		exec(t, s, `
			INSERT INTO shipments (awb_id, current_status, current_hub_id, updated_ts)
			SELECT id, 'IN_TRANSIT', 3, '' FROM awb_numbers WHERE awb_number = ?`, awb)
	}

	hubs, err := s.HubStatuses(0)
	if err != nil {
		t.Fatalf("HubStatuses: %v", err)
	}
	if len(hubs) != 3 {
		t.Fatalf("len = %d, want 3", len(hubs))
	}

	byCode := map[string]string{}
	for _, h := range hubs {
		byCode[h.HubCode] = h.Status
	}
	if byCode["BOM"] != "OPERATIONAL" {
		t.Errorf("BOM status = %q, want OPERATIONAL", byCode["BOM"])
	}
	if byCode["DEL"] != "DOWN" {
		t.Errorf("DEL status = %q, want DOWN", byCode["DEL"])
	}
	if byCode["MAA"] != "CONGESTED" {
		t.Errorf("MAA status = %q, want CONGESTED", byCode["MAA"])
	}
}

func TestGetShipmentNotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetShipment(999)
	if err == nil {
		t.Fatal("expected not-found error")
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error = %v, want not-found", err)
	}
}

func TestGetUserByLogin(t *testing.T) {
	s := newTestStore(t)

	exec(t, s, "INSERT INTO roles (role_code) VALUES ('OPS_MANAGER')")
	exec(t, s, `
		INSERT INTO users (username, email, first_name, last_name, password_hash, is_active, role_id)
		VALUES ('asha', 'asha@example.com', 'Asha', 'Rao', 'hash', 1, 1)`)

	byUsername, err := s.GetUserByLogin("asha")
	if err != nil {
		t.Fatalf("GetUserByLogin(username): %v", err)
	}
	if byUsername.RoleCode != "OPS_MANAGER" {
		t.Errorf("RoleCode = %q, want OPS_MANAGER", byUsername.RoleCode)
	}

	byEmail, err := s.GetUserByLogin("asha@example.com")
	if err != nil {
		t.Fatalf("GetUserByLogin(email): %v", err)
	}
	if byEmail.ID != byUsername.ID {
		t.Errorf("lookup by email returned different user")
	}

	if _, err := s.GetUserByLogin("nobody"); err == nil {
		t.Error("expected not-found error for unknown login")
	}
}

func TestVendorPerformanceRoundTrip(t *testing.T) {
	s := newTestStore(t)

	exec(t, s, "INSERT INTO vendors (name, vendor_type, pricing_model, is_active) VALUES ('FastShip', 'EXPRESS', 'PER_KG', 1)")

	if _, err := s.VendorPerformance(1); err == nil {
		t.Error("expected not-found before any calculation")
	}

	perf := &model.VendorPerformance{
		VendorID:         1,
		CalculationDate:  "2026-08-22",
		TotalShipments:   8,
		DeliveredTotal:   8,
		OnTimeDeliveries: 7,
		OnTimeRate:       87.5,
		ExceptionCount:   1,
	}
	if err := s.SaveVendorPerformance(perf); err != nil {
		t.Fatalf("SaveVendorPerformance: %v", err)
	}

	got, err := s.VendorPerformance(1)
	if err != nil {
		t.Fatalf("VendorPerformance: %v", err)
	}
	if got.OnTimeRate != 87.5 {
		t.Errorf("OnTimeRate = %v, want 87.5", got.OnTimeRate)
	}
	if got.TotalShipments != 8 {
		t.Errorf("TotalShipments = %d, want 8", got.TotalShipments)
	}
}

func TestSearchPOD(t *testing.T) {
	s := newTestStore(t)

	exec(t, s, "INSERT INTO awb_numbers (awb_number) VALUES ('AWB-XYZ-001')")
	exec(t, s, `
		INSERT INTO shipments (awb_id, current_status, pod_document_url, pod_upload_timestamp, updated_ts)
		VALUES (1, 'DELIVERED', '/pod_docs/xyz.pdf', '2026-08-20T08:00:00Z', '')`)

	records, err := s.SearchPOD("XYZ", 0)
	if err != nil {
		t.Fatalf("SearchPOD: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("len = %d, want 1", len(records))
	}
	if records[0].PODDocumentURL != "/pod_docs/xyz.pdf" {
		t.Errorf("PODDocumentURL = %q", records[0].PODDocumentURL)
	}

	none, err := s.SearchPOD("no-such", 0)
	if err != nil {
		t.Fatalf("SearchPOD: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no hits, got %d", len(none))
	}
}

func TestVendorDeliveryStats(t *testing.T) {
	s := newTestStore(t)

	exec(t, s, "INSERT INTO vendors (name, is_active) VALUES ('FastShip', 1)")
	for i, actual := range []string{"2026-08-04", "2026-08-07", ""} {
		awb := fmt.Sprintf("AWB-V-%d", i)
		exec(t, s, "INSERT INTO awb_numbers (awb_number) VALUES (?)", awb)
		exec(t, s, `
			INSERT INTO shipments (awb_id, current_status, assigned_vendor_id,
			  expected_delivery_date, actual_delivery_date, updated_ts)
			SELECT id, 'IN_TRANSIT', 1, '2026-08-05', NULLIF(?, ''), '' FROM awb_numbers WHERE awb_number = ?`,
			actual, awb)
	}

	stats, err := s.VendorDeliveryStats()
	if err != nil {
		t.Fatalf("VendorDeliveryStats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("len = %d, want 1", len(stats))
	}
	if stats[0].TotalShipments != 3 {
		t.Errorf("TotalShipments = %d, want 3", stats[0].TotalShipments)
	}
	if stats[0].DeliveredTotal != 2 {
		t.Errorf("DeliveredTotal = %d, want 2", stats[0].DeliveredTotal)
	}
	if stats[0].OnTimeDeliveries != 1 {
		t.Errorf("OnTimeDeliveries = %d, want 1", stats[0].OnTimeDeliveries)
	}
}
