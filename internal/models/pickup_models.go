package models

import "time"

// Pickup-request statuses. pending -> approved | rejected | cancelled,
// approved -> completed; rejected, cancelled and completed are terminal.
const (
	PickupStatusPending   = "pending"
	PickupStatusApproved  = "approved"
	PickupStatusRejected  = "rejected"
	PickupStatusCancelled = "cancelled"
	PickupStatusCompleted = "completed"
)

// PickupRequest represents a merchant's request for courier pickup of one or
// more parcels.
type PickupRequest struct {
	ID                  string    `json:"id"`
	MerchantID          string    `json:"merchant_id"`
	PickupAddress       string    `json:"pickup_address"`
	PickupDate          string    `json:"pickup_date"`
	PickupTimeSlot      *string   `json:"pickup_time_slot,omitempty"`
	PackageCount        int       `json:"package_count"`
	SpecialInstructions *string   `json:"special_instructions,omitempty"`
	Status              string    `json:"status"`
	CourierID           *string   `json:"courier_id,omitempty"`
	AdminNotes          *string   `json:"admin_notes,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// CreatePickupRequest is the payload for requesting a pickup. ParcelIDs may be
// empty; parcels can also be attached afterwards.
type CreatePickupRequest struct {
	PickupAddress       string   `json:"pickup_address" validate:"required"`
	PickupDate          string   `json:"pickup_date" validate:"required"`
	PickupTimeSlot      *string  `json:"pickup_time_slot,omitempty"`
	SpecialInstructions *string  `json:"special_instructions,omitempty"`
	ParcelIDs           []string `json:"parcel_ids,omitempty" validate:"omitempty,dive,required"`
}

// AttachParcelsRequest adds parcels to an existing pickup request.
type AttachParcelsRequest struct {
	ParcelIDs []string `json:"parcel_ids" validate:"required,min=1,dive,required"`
}

// ApprovePickupRequest is the admin payload for approving a request.
type ApprovePickupRequest struct {
	CourierID  *string `json:"courier_id,omitempty"`
	AdminNotes *string `json:"admin_notes,omitempty"`
}

// RejectPickupRequest is the admin payload for rejecting a request. Notes are
// mandatory so the merchant learns why.
type RejectPickupRequest struct {
	AdminNotes string `json:"admin_notes" validate:"required"`
}

// Membership links a pickup request to a parcel it covers. A membership is
// active while its pickup request is not rejected or cancelled; a parcel holds
// at most one active membership at a time.
type Membership struct {
	PickupRequestID string    `json:"pickup_request_id"`
	ParcelID        string    `json:"parcel_id"`
	CreatedAt       time.Time `json:"created_at"`
}

// PickupRequestWithParcels bundles a request with its member parcels.
type PickupRequestWithParcels struct {
	PickupRequest *PickupRequest `json:"pickup_request"`
	Parcels       []*Parcel      `json:"parcels"`
}
