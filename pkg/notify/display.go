package notify

import "fasttrack-courier/internal/models"

// StatusDisplay holds the human-readable presentation of a parcel status used
// when rendering notification emails.
type StatusDisplay struct {
	Label       string
	Color       string
	Icon        string
	Description string
}

var statusDisplays = map[string]StatusDisplay{
	models.ParcelStatusPending: {
		Label:       "Pending",
		Color:       "#FFA500",
		Icon:        "⏳",
		Description: "Your parcel is waiting to be processed",
	},
	models.ParcelStatusAssigned: {
		Label:       "Assigned to Courier",
		Color:       "#2196F3",
		Icon:        "👤",
		Description: "A courier has been assigned to your parcel",
	},
	models.ParcelStatusPickedUp: {
		Label:       "Picked Up",
		Color:       "#9C27B0",
		Icon:        "📦",
		Description: "Your parcel has been picked up from the sender",
	},
	models.ParcelStatusInTransit: {
		Label:       "In Transit",
		Color:       "#3F51B5",
		Icon:        "🚚",
		Description: "Your parcel is on its way to the destination",
	},
	models.ParcelStatusDelivered: {
		Label:       "Delivered",
		Color:       "#4CAF50",
		Icon:        "✅",
		Description: "Your parcel has been successfully delivered",
	},
	models.ParcelStatusReturned: {
		Label:       "Returned",
		Color:       "#F44336",
		Icon:        "↩️",
		Description: "Your parcel has been returned to the sender",
	},
}

// DisplayFor returns the presentation for a status, falling back to the
// pending entry for anything unrecognized.
func DisplayFor(status string) StatusDisplay {
	if d, ok := statusDisplays[status]; ok {
		return d
	}
	return statusDisplays[models.ParcelStatusPending]
}
