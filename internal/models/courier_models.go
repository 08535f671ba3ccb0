package models

import "time"

// Courier statuses.
const (
	CourierStatusActive   = "active"
	CourierStatusInactive = "inactive"
)

// Courier represents a delivery agent. Couriers are created and managed by
// admins only.
type Courier struct {
	ID              string    `json:"id"`
	FullName        string    `json:"full_name"`
	Phone           string    `json:"phone"`
	VehicleType     *string   `json:"vehicle_type,omitempty"`
	VehicleNumber   *string   `json:"vehicle_number,omitempty"`
	CoverageArea    *string   `json:"coverage_area,omitempty"`
	Status          string    `json:"status"`
	CurrentLocation *string   `json:"current_location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateCourierRequest is the admin payload for registering a courier.
type CreateCourierRequest struct {
	FullName      string  `json:"full_name" validate:"required"`
	Phone         string  `json:"phone" validate:"required"`
	VehicleType   *string `json:"vehicle_type,omitempty"`
	VehicleNumber *string `json:"vehicle_number,omitempty"`
	CoverageArea  *string `json:"coverage_area,omitempty"`
}
