package stats

import (
	"context"
	"fmt"

	"fasttrack-courier/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the stats repository.
type RepositoryInterface interface {
	AdminStats(ctx context.Context) (*models.AdminStats, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
	MerchantStats(ctx context.Context, merchantID string) (*models.MerchantStats, error)
}

// Repository computes the counter sets with filtered aggregates so a stats
// call is a handful of single-row queries rather than a table scan per
// counter.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new stats repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

// AdminStats returns the compact admin counter set.
func (r *Repository) AdminStats(ctx context.Context) (*models.AdminStats, error) {
	var s models.AdminStats

	err := r.db.QueryRow(ctx, `SELECT count(*) FROM profiles`).Scan(&s.TotalUsers)
	if err != nil {
		return nil, fmt.Errorf("repository.AdminStats: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status NOT IN ('delivered', 'returned'))
		FROM parcels`).Scan(&s.TotalParcels, &s.ActiveParcels)
	if err != nil {
		return nil, fmt.Errorf("repository.AdminStats: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending')
		FROM pickup_requests`).Scan(&s.TotalPickupRequests, &s.PendingPickups)
	if err != nil {
		return nil, fmt.Errorf("repository.AdminStats: %w", err)
	}

	return &s, nil
}

// DashboardStats returns the full admin overview.
func (r *Repository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	var s models.DashboardStats

	err := r.db.QueryRow(ctx, `
		SELECT count(*) FILTER (WHERE role = 'merchant'),
		       count(*) FILTER (WHERE role = 'admin')
		FROM profiles`).Scan(&s.TotalMerchants, &s.TotalAdmins)
	if err != nil {
		return nil, fmt.Errorf("repository.DashboardStats: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status = 'in_transit'),
		       count(*) FILTER (WHERE status = 'delivered')
		FROM parcels`).Scan(&s.TotalParcels, &s.PendingParcels, &s.InTransitParcels, &s.DeliveredParcels)
	if err != nil {
		return nil, fmt.Errorf("repository.DashboardStats: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status = 'approved'),
		       count(*) FILTER (WHERE status = 'rejected')
		FROM pickup_requests`).Scan(&s.TotalPickupRequests, &s.PendingPickupRequests,
		&s.ApprovedPickupRequests, &s.RejectedPickupRequests)
	if err != nil {
		return nil, fmt.Errorf("repository.DashboardStats: %w", err)
	}

	err = r.db.QueryRow(ctx, `SELECT count(*) FROM couriers WHERE status = 'active'`).Scan(&s.ActiveCouriers)
	if err != nil {
		return nil, fmt.Errorf("repository.DashboardStats: %w", err)
	}

	return &s, nil
}

// MerchantStats returns the counter set scoped to one merchant.
func (r *Repository) MerchantStats(ctx context.Context, merchantID string) (*models.MerchantStats, error) {
	var s models.MerchantStats

	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status = 'in_transit'),
		       count(*) FILTER (WHERE status = 'delivered')
		FROM parcels
		WHERE sender_id = $1`, merchantID).
		Scan(&s.TotalParcels, &s.PendingParcels, &s.InTransitParcels, &s.DeliveredParcels)
	if err != nil {
		return nil, fmt.Errorf("repository.MerchantStats: %w", err)
	}

	err = r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE status = 'pending'),
		       count(*) FILTER (WHERE status = 'approved')
		FROM pickup_requests
		WHERE merchant_id = $1`, merchantID).
		Scan(&s.TotalPickupRequests, &s.PendingPickupRequests, &s.ApprovedPickupRequests)
	if err != nil {
		return nil, fmt.Errorf("repository.MerchantStats: %w", err)
	}

	return &s, nil
}
