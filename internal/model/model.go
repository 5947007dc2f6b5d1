// SPDX-License-Identifier: AGPL-3.0-only

// Package model defines the logistics records served by the dashboard API.
// JSON field names match what the frontend and the assistant's tools consume.
package model

// Shipment is one row of the recent-shipments listing.
type Shipment struct {
	ShipmentID     int64  `json:"shipment_id"`
	AWBNumber      string `json:"awb_number"`
	Origin         string `json:"origin"`
	Destination    string `json:"destination"`
	ShipmentStatus string `json:"shipment_status"`
	CurrentHubCode string `json:"current_hub_code"`
	VendorID       int64  `json:"vendor_id"`
	ETA            string `json:"eta"`
	LastUpdatedTS  string `json:"last_updated_ts"`
}

// ShipmentDetail is the full record for a single shipment.
type ShipmentDetail struct {
	ShipmentID           int64   `json:"shipment_id"`
	AWBNumber            string  `json:"awb_number"`
	OriginCity           string  `json:"origin_city"`
	DestinationCity      string  `json:"destination_city"`
	DestinationState     string  `json:"destination_state"`
	DestinationPincode   string  `json:"destination_pincode"`
	CurrentStatus        string  `json:"current_status"`
	ExpectedDeliveryDate string  `json:"expected_delivery_date"`
	ActualDeliveryDate   string  `json:"actual_delivery_date"`
	BookingDate          string  `json:"booking_date"`
	HasException         bool    `json:"has_exception"`
	ExceptionType        string  `json:"exception_type"`
	ExceptionNotes       string  `json:"exception_notes"`
	ConsigneeName        string  `json:"consignee_name"`
	ConsigneeAddress     string  `json:"consignee_address"`
	ProductType          string  `json:"product_type"`
	Description          string  `json:"description"`
	WeightKg             float64 `json:"weight_kg"`
	NumberOfBoxes        int     `json:"number_of_boxes"`
	ServiceType          string  `json:"service_type"`
	BookingID            string  `json:"booking_id"`
	CurrentHubCode       string  `json:"current_hub_code"`
	CurrentHubName       string  `json:"current_hub_name"`
	VendorName           string  `json:"vendor_name"`
	LastUpdatedTS        string  `json:"last_updated_ts"`
}

// ShipmentSummary carries per-status counts and the on-time delivery rate,
// expressed as a percentage rounded to one decimal place.
type ShipmentSummary struct {
	Booked           int     `json:"booked"`
	PickedUp         int     `json:"picked_up"`
	InTransit        int     `json:"in_transit"`
	OutForDelivery   int     `json:"out_for_delivery"`
	DelayedShipments int     `json:"delayed_shipments"`
	Exceptions       int     `json:"exceptions"`
	OnTimeRate       float64 `json:"on_time_rate"`
}

// ExceptionRow is one live exception as shown on the dashboard.
type ExceptionRow struct {
	ShipmentID      int64  `json:"shipment_id"`
	ExceptionType   string `json:"exception_type"`
	Message         string `json:"message"`
	OriginCity      string `json:"origin_city"`
	DestinationCity string `json:"destination_city"`
	RaisedAt        string `json:"raised_at"`
}

// TypeCount is a (label, count) pair used by the exceptions-by-type chart.
type TypeCount struct {
	Type  string `json:"type"`
	Value int    `json:"value"`
}

// TrendPoint is a per-day booking count for the booking trend chart.
type TrendPoint struct {
	Day   string `json:"day"`
	Value int    `json:"value"`
}

// DelayedShipment is one row of the delayed-shipments listing.
type DelayedShipment struct {
	ShipmentID      int64  `json:"shipment_id"`
	AWBNumber       string `json:"awb_number"`
	OriginCity      string `json:"origin_city"`
	DestinationCity string `json:"destination_city"`
	CurrentStatus   string `json:"current_status"`
	ETA             string `json:"eta"`
	LastUpdated     string `json:"last_updated"`
}

// PODRecord is one proof-of-delivery search hit.
type PODRecord struct {
	ShipmentID         int64  `json:"shipment_id"`
	AWBNumber          string `json:"awb_number"`
	CurrentStatus      string `json:"current_status"`
	PODDocumentURL     string `json:"pod_document_url"`
	PODUploadTimestamp string `json:"pod_upload_timestamp"`
}

// Vendor is a delivery vendor record.
type Vendor struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	VendorType   string `json:"vendor_type"`
	PricingModel string `json:"pricing_model"`
	ContactEmail string `json:"contact_email"`
	IsActive     bool   `json:"is_active"`
}

// VendorPerformance is a computed per-vendor performance snapshot.
type VendorPerformance struct {
	VendorID         int64   `json:"vendor_id"`
	CalculationDate  string  `json:"calculation_date"`
	TotalShipments   int     `json:"total_shipments"`
	DeliveredTotal   int     `json:"delivered_total"`
	OnTimeDeliveries int     `json:"on_time_deliveries"`
	OnTimeRate       float64 `json:"on_time_rate"`
	ExceptionCount   int     `json:"exception_count"`
}

// Customer is a customer record.
type Customer struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	City  string `json:"city"`
}

// HubStatus is the derived operational status of one hub.
//
// Status is DOWN when the hub is inactive, CONGESTED when 20 or more
// shipments are currently at the hub, otherwise OPERATIONAL.
type HubStatus struct {
	HubCode       string `json:"hub_code"`
	HubName       string `json:"hub_name"`
	City          string `json:"city"`
	Pincode       string `json:"pincode"`
	Status        string `json:"status"`
	LastUpdatedTS string `json:"last_updated_ts"`
}

// Hub status values.
const (
	HubDown        = "DOWN"
	HubCongested   = "CONGESTED"
	HubOperational = "OPERATIONAL"
)

// Shipment status values.
const (
	StatusBooked         = "BOOKED"
	StatusPickedUp       = "PICKED_UP"
	StatusInTransit      = "IN_TRANSIT"
	StatusOutForDelivery = "OUT_FOR_DELIVERY"
	StatusDelayed        = "DELAYED"
	StatusDelivered      = "DELIVERED"
)

// User is an operations dashboard account. PasswordHash never leaves the
// store layer in API responses.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"-"`
	IsActive     bool   `json:"is_active"`
	RoleCode     string `json:"role_code"`
}
