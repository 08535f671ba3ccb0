package rules

import (
	"testing"

	"fasttrack-courier/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestAuthorizeAdminBypassesOwnership(t *testing.T) {
	admin := Actor{ID: "admin-1", Role: models.RoleAdmin}

	assert.NoError(t, Authorize(admin, ActionReadParcel, "merchant-9"))
	assert.NoError(t, Authorize(admin, ActionDecidePickup, "merchant-9"))
	assert.NoError(t, Authorize(admin, ActionManageCouriers, ""))
}

func TestAuthorizeMerchantOwnResources(t *testing.T) {
	merchant := Actor{ID: "m-1", Role: models.RoleMerchant}

	assert.NoError(t, Authorize(merchant, ActionCreateParcel, ""))
	assert.NoError(t, Authorize(merchant, ActionReadParcel, "m-1"))
	assert.NoError(t, Authorize(merchant, ActionDeletePickup, "m-1"))
}

func TestAuthorizeMerchantDeniedForeignResource(t *testing.T) {
	merchant := Actor{ID: "m-1", Role: models.RoleMerchant}

	err := Authorize(merchant, ActionReadParcel, "m-2")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Contains(t, err.Error(), "owner")
}

func TestAuthorizeMerchantDeniedAdminActions(t *testing.T) {
	merchant := Actor{ID: "m-1", Role: models.RoleMerchant}

	for _, action := range []Action{ActionDecidePickup, ActionAssignCourier, ActionManageCouriers, ActionListUsers} {
		err := Authorize(merchant, action, "m-1")
		assert.ErrorIs(t, err, models.ErrForbidden, "action %s", action)
		assert.Contains(t, err.Error(), "admin role", "action %s", action)
	}
}

func TestAuthorizeAdminOnlyDenialWinsOverOwnership(t *testing.T) {
	// Even on a resource the merchant owns, the role denial is reported, not
	// the ownership one.
	merchant := Actor{ID: "m-1", Role: models.RoleMerchant}

	err := Authorize(merchant, ActionDecidePickup, "m-1")
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.Contains(t, err.Error(), "admin role")
}

func TestIsAdmin(t *testing.T) {
	assert.True(t, Actor{Role: models.RoleAdmin}.IsAdmin())
	assert.False(t, Actor{Role: models.RoleMerchant}.IsAdmin())
	assert.False(t, Actor{Role: ""}.IsAdmin())
}
