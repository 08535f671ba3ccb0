package rules

import (
	"fmt"

	"fasttrack-courier/internal/models"
)

// parcelNext is the parcel transition table. Each status maps to the set of
// statuses it may move to through the status endpoint; terminal statuses map to
// an empty set. The approve cascade bypasses this table by design (see
// pickup_status.go).
var parcelNext = map[string][]string{
	models.ParcelStatusPending:   {models.ParcelStatusAssigned},
	models.ParcelStatusAssigned:  {models.ParcelStatusPickedUp},
	models.ParcelStatusPickedUp:  {models.ParcelStatusInTransit},
	models.ParcelStatusInTransit: {models.ParcelStatusDelivered, models.ParcelStatusReturned},
	models.ParcelStatusDelivered: {},
	models.ParcelStatusReturned:  {},
}

// adminOnlyParcelStatuses are the statuses only an admin may set. Every
// non-pending status qualifies: merchants never move a parcel forward, they can
// only delete a pending one.
var adminOnlyParcelStatuses = map[string]bool{
	models.ParcelStatusAssigned:  true,
	models.ParcelStatusPickedUp:  true,
	models.ParcelStatusInTransit: true,
	models.ParcelStatusDelivered: true,
	models.ParcelStatusReturned:  true,
}

// ParcelStatusKnown reports whether s is a recognized parcel status literal.
func ParcelStatusKnown(s string) bool {
	_, ok := parcelNext[s]
	return ok
}

// AdminOnlyParcelStatus reports whether setting status s is reserved for admins.
func AdminOnlyParcelStatus(s string) bool { return adminOnlyParcelStatuses[s] }

// ParcelTransition validates moving a parcel from current to next. An
// unrecognized literal yields ErrValidation; a recognized one that is not
// reachable from current yields ErrInvalidTransition.
func ParcelTransition(current, next string) error {
	if !ParcelStatusKnown(next) {
		return fmt.Errorf("%w: unknown parcel status %q", models.ErrValidation, next)
	}
	for _, allowed := range parcelNext[current] {
		if allowed == next {
			return nil
		}
	}
	return fmt.Errorf("%w: parcel cannot move from %s to %s", models.ErrInvalidTransition, current, next)
}

// CanDeleteParcel reports whether a parcel in the given status may be deleted.
// Deletion is the merchant's only cancellation path and is restricted to
// parcels that have not yet entered the delivery flow.
func CanDeleteParcel(status string) bool { return status == models.ParcelStatusPending }
