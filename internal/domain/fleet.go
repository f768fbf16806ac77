package domain

import (
	"time"

	"github.com/google/uuid"
)

// VehicleStatus is the operational state of a fleet vehicle.
type VehicleStatus string

const (
	VehicleAvailable   VehicleStatus = "available"
	VehicleMaintenance VehicleStatus = "maintenance"
	VehicleReserved    VehicleStatus = "reserved"
)

// Vehicle is a fleet vehicle available for use requests.
type Vehicle struct {
	ID                  uuid.UUID     `json:"id"`
	Plate               string        `json:"plate"`
	Model               string        `json:"model"`
	Year                int           `json:"year"`
	Capacity            int           `json:"capacity"`
	Status              VehicleStatus `json:"status"`
	Odometer            int           `json:"odometer"`
	LastMaintenanceDate string        `json:"last_maintenance_date"` // "2006-01-02"
	CreatedAt           time.Time     `json:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at"`
	Version             int64         `json:"-"`
}

// VehicleCounts aggregates vehicles per operational state for the dashboard.
type VehicleCounts struct {
	Available   int `json:"available"`
	Maintenance int `json:"maintenance"`
	Reserved    int `json:"reserved"`
	Total       int `json:"total"`
}

// Sector is an organizational unit. ParentID builds the sector hierarchy.
type Sector struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Responsible string     `json:"responsible"`
	Description string     `json:"description,omitempty"`
	ParentID    *uuid.UUID `json:"parent_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int64      `json:"-"`
}

// Driver is a licensed fleet driver.
type Driver struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	LicenseCategory string    `json:"license_category"`
	LicenseExpiry   string    `json:"license_expiry"` // "2006-01-02"
	Availability    string    `json:"availability"`   // "available" | "unavailable"
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int64     `json:"-"`
}

// Maintenance records a service event on a vehicle.
type Maintenance struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	VehicleID   uuid.UUID `json:"vehicle_id"`
	Date        string    `json:"date"` // "2006-01-02"
	Cost        float64   `json:"cost"`
	Supplier    string    `json:"supplier"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"-"`
}

// Alert is a fleet notice, optionally tied to a vehicle.
type Alert struct {
	ID          uuid.UUID  `json:"id"`
	Type        string     `json:"type"`
	Description string     `json:"description"`
	Date        string     `json:"date"` // "2006-01-02"
	VehicleID   *uuid.UUID `json:"vehicle_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Version     int64      `json:"-"`
}
