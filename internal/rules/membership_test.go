package rules

import (
	"testing"

	"fasttrack-courier/internal/models"

	"github.com/stretchr/testify/assert"
)

func attachFixtures() (Actor, *models.PickupRequest, *models.Parcel) {
	actor := Actor{ID: "m-1", Role: models.RoleMerchant}
	request := &models.PickupRequest{ID: "req-1", MerchantID: "m-1", Status: models.PickupStatusPending}
	parcel := &models.Parcel{ID: "p-1", SenderID: "m-1", Status: models.ParcelStatusPending}
	return actor, request, parcel
}

func TestCheckAttachHappyPath(t *testing.T) {
	actor, request, parcel := attachFixtures()
	assert.NoError(t, CheckAttach(actor, request, parcel, false))
}

func TestCheckAttachForeignRequest(t *testing.T) {
	actor, request, parcel := attachFixtures()
	request.MerchantID = "m-2"

	err := CheckAttach(actor, request, parcel, false)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCheckAttachForeignParcel(t *testing.T) {
	actor, request, parcel := attachFixtures()
	parcel.SenderID = "m-2"

	err := CheckAttach(actor, request, parcel, false)
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Contains(t, err.Error(), "another merchant")
}

func TestCheckAttachNonPendingParcel(t *testing.T) {
	actor, request, parcel := attachFixtures()
	parcel.Status = models.ParcelStatusInTransit

	err := CheckAttach(actor, request, parcel, false)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestCheckAttachClaimedParcel(t *testing.T) {
	actor, request, parcel := attachFixtures()

	err := CheckAttach(actor, request, parcel, true)
	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestCheckAttachOwnershipBeforeStatus(t *testing.T) {
	// A foreign non-pending parcel reports the ownership failure, not the
	// status one.
	actor, request, parcel := attachFixtures()
	parcel.SenderID = "m-2"
	parcel.Status = models.ParcelStatusDelivered

	err := CheckAttach(actor, request, parcel, true)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestCheckAttachAdminOnBehalfOfMerchant(t *testing.T) {
	_, request, parcel := attachFixtures()
	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}

	assert.NoError(t, CheckAttach(admin, request, parcel, false))
}
