package models

import "time"

// Parcel statuses. A parcel moves forward through
// pending -> assigned -> picked_up -> in_transit -> delivered | returned;
// delivered and returned are terminal. There is no stored "cancelled" status:
// a pending parcel is cancelled by deleting it.
const (
	ParcelStatusPending   = "pending"
	ParcelStatusAssigned  = "assigned"
	ParcelStatusPickedUp  = "picked_up"
	ParcelStatusInTransit = "in_transit"
	ParcelStatusDelivered = "delivered"
	ParcelStatusReturned  = "returned"
)

// Parcel represents a shippable item owned by a merchant.
type Parcel struct {
	ID                 string     `json:"id"`
	TrackingID         string     `json:"tracking_id"`
	SenderID           string     `json:"sender_id"`
	RecipientName      string     `json:"recipient_name"`
	RecipientPhone     string     `json:"recipient_phone"`
	OriginAddress      string     `json:"origin_address"`
	DestinationAddress string     `json:"destination_address"`
	PackageDescription *string    `json:"package_description,omitempty"`
	Weight             *float64   `json:"weight,omitempty"`
	Dimensions         *string    `json:"dimensions,omitempty"`
	Status             string     `json:"status"`
	StatusNotes        *string    `json:"status_notes,omitempty"`
	PickupDate         *time.Time `json:"pickup_date,omitempty"`
	DeliveryDate       *time.Time `json:"delivery_date,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CreateParcelRequest is the payload for registering a new parcel. The single
// recipient_address field fills both origin and destination columns, mirroring
// the legacy API contract the frontend still uses.
type CreateParcelRequest struct {
	RecipientName      string   `json:"recipient_name" validate:"required"`
	RecipientPhone     string   `json:"recipient_phone" validate:"required"`
	RecipientAddress   string   `json:"recipient_address" validate:"required"`
	PackageDescription *string  `json:"package_description,omitempty"`
	Weight             *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Dimensions         *string  `json:"dimensions,omitempty"`
}

// UpdateParcelRequest carries the metadata fields a parcel owner may change
// while the parcel is still pending. Nil fields are left untouched.
type UpdateParcelRequest struct {
	RecipientName      *string  `json:"recipient_name,omitempty"`
	RecipientPhone     *string  `json:"recipient_phone,omitempty"`
	OriginAddress      *string  `json:"origin_address,omitempty"`
	DestinationAddress *string  `json:"destination_address,omitempty"`
	PackageDescription *string  `json:"package_description,omitempty"`
	Weight             *float64 `json:"weight,omitempty" validate:"omitempty,gt=0"`
	Dimensions         *string  `json:"dimensions,omitempty"`
}

// UpdateParcelStatusRequest moves a parcel along its status chain.
type UpdateParcelStatusRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes,omitempty"`
}

// TrackingResponse is the reduced view returned by the public tracking endpoint.
type TrackingResponse struct {
	TrackingID    string    `json:"tracking_id"`
	Status        string    `json:"status"`
	RecipientName string    `json:"recipient_name"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ParcelSearchFilter collects the optional search predicates. Empty fields are
// not applied; SenderID is forced for non-admin callers.
type ParcelSearchFilter struct {
	TrackingID    string
	Status        string
	RecipientName string
	SenderID      string
}
