// Package rules holds the pure decision layer of the backend: the role policy,
// the parcel and pickup-request status machines, and the membership
// preconditions. Nothing in here performs I/O; services load current state,
// ask this package for a verdict, and only then touch the database.
package rules

import (
	"fmt"

	"fasttrack-courier/internal/models"
)

// Action identifies a business operation checked against the role policy.
type Action string

const (
	ActionCreateParcel    Action = "parcel:create"
	ActionReadParcel      Action = "parcel:read"
	ActionUpdateParcel    Action = "parcel:update"
	ActionDeleteParcel    Action = "parcel:delete"
	ActionSetParcelStatus Action = "parcel:set_status"
	ActionAssignCourier   Action = "parcel:assign_courier"
	ActionCreatePickup    Action = "pickup:create"
	ActionReadPickup      Action = "pickup:read"
	ActionDeletePickup    Action = "pickup:delete"
	ActionAttachParcels   Action = "pickup:attach_parcels"
	ActionDecidePickup    Action = "pickup:decide"
	ActionManageCouriers  Action = "courier:manage"
	ActionListUsers       Action = "user:list"
)

// Actor is the authenticated caller as seen by the rules layer, extracted from
// the verified token claims.
type Actor struct {
	ID    string
	Email string
	Role  string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == models.RoleAdmin }

// adminOnly lists the actions no merchant may perform, regardless of ownership.
var adminOnly = map[Action]bool{
	ActionAssignCourier:  true,
	ActionDecidePickup:   true,
	ActionManageCouriers: true,
	ActionListUsers:      true,
}

// merchantAllowed is the merchant-permitted action set, applied after the
// ownership check.
var merchantAllowed = map[Action]bool{
	ActionCreateParcel:    true,
	ActionReadParcel:      true,
	ActionUpdateParcel:    true,
	ActionDeleteParcel:    true,
	ActionSetParcelStatus: true,
	ActionCreatePickup:    true,
	ActionReadPickup:      true,
	ActionDeletePickup:    true,
	ActionAttachParcels:   true,
}

// Authorize decides whether the actor may perform action on a resource owned by
// ownerID. Existence must be checked by the caller first so that a missing
// resource reports ErrNotFound rather than ErrForbidden. Denials wrap
// models.ErrForbidden and distinguish "not the owner" from "role insufficient".
// An empty ownerID means the resource has no single owner (e.g. creation).
func Authorize(actor Actor, action Action, ownerID string) error {
	if actor.IsAdmin() {
		return nil
	}
	if adminOnly[action] {
		return fmt.Errorf("%w: action %s requires the admin role", models.ErrForbidden, action)
	}
	if ownerID != "" && ownerID != actor.ID {
		return fmt.Errorf("%w: not the resource owner", models.ErrForbidden)
	}
	if !merchantAllowed[action] {
		return fmt.Errorf("%w: action %s is not permitted for merchants", models.ErrForbidden, action)
	}
	return nil
}
