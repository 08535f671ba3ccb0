package rules

import (
	"fmt"

	"fasttrack-courier/internal/models"
)

// PickupDecision names an action taken against a pickup request's status.
type PickupDecision string

const (
	DecisionApprove  PickupDecision = "approve"
	DecisionReject   PickupDecision = "reject"
	DecisionCancel   PickupDecision = "cancel"
	DecisionComplete PickupDecision = "complete"
)

// pickupNext is the pickup-request transition table: current status x decision
// -> next status. Statuses absent from the map are terminal.
var pickupNext = map[string]map[PickupDecision]string{
	models.PickupStatusPending: {
		DecisionApprove: models.PickupStatusApproved,
		DecisionReject:  models.PickupStatusRejected,
		DecisionCancel:  models.PickupStatusCancelled,
	},
	models.PickupStatusApproved: {
		DecisionComplete: models.PickupStatusCompleted,
	},
}

// Cascade describes the follow-up writes a pickup decision requires beyond the
// request row itself.
type Cascade struct {
	// ForceAssignParcels forces every member parcel to "assigned", regardless
	// of its current status. Only an approval produces this; a rejection must
	// leave member parcels untouched so they stay eligible for a future
	// pickup request.
	ForceAssignParcels bool
	// ReleaseMemberships marks the request's memberships as released so its
	// parcels no longer count as claimed. Produced by reject and cancel.
	ReleaseMemberships bool
}

// DecidePickup validates applying decision to a request currently in status
// current, returning the next status and the cascade the caller must perform.
// Re-deciding a request that already left pending (including a second approve)
// yields ErrInvalidTransition.
func DecidePickup(current string, decision PickupDecision) (string, Cascade, error) {
	next, ok := pickupNext[current][decision]
	if !ok {
		return "", Cascade{}, fmt.Errorf("%w: cannot %s a %s pickup request", models.ErrInvalidTransition, decision, current)
	}
	var c Cascade
	switch decision {
	case DecisionApprove:
		c.ForceAssignParcels = true
	case DecisionReject, DecisionCancel:
		c.ReleaseMemberships = true
	}
	return next, c, nil
}

// CanDeletePickup reports whether a pickup request in the given status may be
// deleted by its merchant. Only pending requests qualify; nothing has been
// assigned yet, so no cascade is needed.
func CanDeletePickup(status string) bool { return status == models.PickupStatusPending }

// ActiveMembership reports whether a membership belonging to a request in the
// given status still claims its parcels. Rejected and cancelled requests
// release them; approved and completed ones keep the claim.
func ActiveMembership(requestStatus string) bool {
	return requestStatus != models.PickupStatusRejected && requestStatus != models.PickupStatusCancelled
}
