package models

// AdminStats is the compact counter set behind /admin/stats.
type AdminStats struct {
	TotalUsers          int `json:"total_users"`
	TotalParcels        int `json:"total_parcels"`
	TotalPickupRequests int `json:"total_pickup_requests"`
	PendingPickups      int `json:"pending_pickups"`
	ActiveParcels       int `json:"active_parcels"`
}

// MerchantStats summarizes a single merchant's parcels and pickup requests.
type MerchantStats struct {
	TotalParcels           int `json:"total_parcels"`
	PendingParcels         int `json:"pending_parcels"`
	InTransitParcels       int `json:"in_transit_parcels"`
	DeliveredParcels       int `json:"delivered_parcels"`
	TotalPickupRequests    int `json:"total_pickup_requests"`
	PendingPickupRequests  int `json:"pending_pickup_requests"`
	ApprovedPickupRequests int `json:"approved_pickup_requests"`
}

// DashboardStats is the full overview behind /admin/dashboard.
type DashboardStats struct {
	TotalMerchants         int `json:"total_merchants"`
	TotalAdmins            int `json:"total_admins"`
	TotalParcels           int `json:"total_parcels"`
	PendingParcels         int `json:"pending_parcels"`
	InTransitParcels       int `json:"in_transit_parcels"`
	DeliveredParcels       int `json:"delivered_parcels"`
	TotalPickupRequests    int `json:"total_pickup_requests"`
	PendingPickupRequests  int `json:"pending_pickup_requests"`
	ApprovedPickupRequests int `json:"approved_pickup_requests"`
	RejectedPickupRequests int `json:"rejected_pickup_requests"`
	ActiveCouriers         int `json:"active_couriers"`
}
