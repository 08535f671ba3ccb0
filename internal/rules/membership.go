package rules

import (
	"fmt"

	"fasttrack-courier/internal/models"
)

// CheckAttach validates adding parcel to request. The caller has already
// loaded both entities (existence first, so NotFound wins) and looked up
// whether the parcel holds an active membership elsewhere. Checks run in
// order: ownership of the request, ownership of the parcel, parcel still
// pending, parcel unclaimed.
func CheckAttach(actor Actor, request *models.PickupRequest, parcel *models.Parcel, hasActiveMembership bool) error {
	if err := Authorize(actor, ActionAttachParcels, request.MerchantID); err != nil {
		return err
	}
	if !actor.IsAdmin() && parcel.SenderID != actor.ID {
		return fmt.Errorf("%w: parcel %s belongs to another merchant", models.ErrForbidden, parcel.ID)
	}
	if parcel.Status != models.ParcelStatusPending {
		return fmt.Errorf("%w: parcel %s is %s, only pending parcels can join a pickup request",
			models.ErrInvalidTransition, parcel.ID, parcel.Status)
	}
	if hasActiveMembership {
		return fmt.Errorf("%w: parcel %s already belongs to an active pickup request", models.ErrConflict, parcel.ID)
	}
	return nil
}
