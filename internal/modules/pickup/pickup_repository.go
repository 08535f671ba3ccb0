package pickup

import (
	"context"
	"errors"
	"fmt"

	"fasttrack-courier/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the pickup-request repository,
// including the membership table and the parcel reads the membership rules
// depend on.
type RepositoryInterface interface {
	Create(ctx context.Context, request *models.PickupRequest) (*models.PickupRequest, error)
	FindByID(ctx context.Context, requestID string) (*models.PickupRequest, error)
	ListByMerchant(ctx context.Context, merchantID string) ([]*models.PickupRequest, error)
	ListAll(ctx context.Context) ([]*models.PickupRequest, error)
	ListByStatus(ctx context.Context, status string) ([]*models.PickupRequest, error)
	UpdateDecision(ctx context.Context, requestID, status string, adminNotes, courierID *string) (*models.PickupRequest, error)
	Delete(ctx context.Context, requestID string) error

	FindParcel(ctx context.Context, parcelID string) (*models.Parcel, error)
	AttachParcel(ctx context.Context, requestID, parcelID string) error
	ListParcels(ctx context.Context, requestID string) ([]*models.Parcel, error)
	HasActiveMembership(ctx context.Context, parcelID string) (bool, error)
	ListAvailableParcels(ctx context.Context, merchantID string) ([]*models.Parcel, error)
	ForceAssignParcels(ctx context.Context, requestID string) (int, error)
	ReleaseMemberships(ctx context.Context, requestID string) error
	CourierExists(ctx context.Context, courierID string) (bool, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new pickup-request repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const requestColumns = `id, merchant_id, pickup_address, pickup_date, pickup_time_slot, package_count,
	special_instructions, status, courier_id, admin_notes, created_at, updated_at`

const memberParcelColumns = `p.id, p.tracking_id, p.sender_id, p.recipient_name, p.recipient_phone, p.origin_address,
	p.destination_address, p.package_description, p.weight, p.dimensions, p.status, p.status_notes,
	p.pickup_date, p.delivery_date, p.created_at, p.updated_at`

// activeMembershipJoin filters memberships down to those whose pickup request
// still claims its parcels. Kept as a fragment so every query shares one
// definition of "active".
const activeMembershipJoin = `
	FROM pickup_request_parcels prp
	JOIN pickup_requests pr ON pr.id = prp.pickup_request_id
	WHERE prp.parcel_id = %s AND pr.status NOT IN ('rejected', 'cancelled')`

// Create inserts a new pickup request and echoes the stored record back.
func (r *Repository) Create(ctx context.Context, req *models.PickupRequest) (*models.PickupRequest, error) {
	query := `
		INSERT INTO pickup_requests (merchant_id, pickup_address, pickup_date, pickup_time_slot, package_count,
			special_instructions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + requestColumns

	row := r.db.QueryRow(ctx, query,
		req.MerchantID, req.PickupAddress, req.PickupDate, req.PickupTimeSlot,
		req.PackageCount, req.SpecialInstructions, req.Status)
	created, err := scanRequest(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreatePickupRequest: %w", err)
	}
	return created, nil
}

// FindByID fetches one pickup request by id.
func (r *Repository) FindByID(ctx context.Context, requestID string) (*models.PickupRequest, error) {
	row := r.db.QueryRow(ctx, `SELECT `+requestColumns+` FROM pickup_requests WHERE id = $1`, requestID)
	return scanRequest(row)
}

// ListByMerchant returns a merchant's pickup requests, newest first.
func (r *Repository) ListByMerchant(ctx context.Context, merchantID string) ([]*models.PickupRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM pickup_requests WHERE merchant_id = $1 ORDER BY created_at DESC`, merchantID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByMerchant: %w", err)
	}
	return collectRequests(rows)
}

// ListAll returns every pickup request, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]*models.PickupRequest, error) {
	rows, err := r.db.Query(ctx, `SELECT `+requestColumns+` FROM pickup_requests ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAllRequests: %w", err)
	}
	return collectRequests(rows)
}

// ListByStatus returns every pickup request in the given status, oldest first
// so admins work the queue in arrival order.
func (r *Repository) ListByStatus(ctx context.Context, status string) ([]*models.PickupRequest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+requestColumns+` FROM pickup_requests WHERE status = $1 ORDER BY created_at ASC`, status)
	if err != nil {
		return nil, fmt.Errorf("repository.ListByStatus: %w", err)
	}
	return collectRequests(rows)
}

// UpdateDecision writes the outcome of a status decision. Nil notes/courier
// leave the stored values.
func (r *Repository) UpdateDecision(ctx context.Context, requestID, status string, adminNotes, courierID *string) (*models.PickupRequest, error) {
	query := `
		UPDATE pickup_requests SET
			status      = $2,
			admin_notes = COALESCE($3, admin_notes),
			courier_id  = COALESCE($4, courier_id),
			updated_at  = now()
		WHERE id = $1
		RETURNING ` + requestColumns

	row := r.db.QueryRow(ctx, query, requestID, status, adminNotes, courierID)
	return scanRequest(row)
}

// Delete removes a pickup request; its membership rows go with it via the
// foreign key cascade.
func (r *Repository) Delete(ctx context.Context, requestID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM pickup_requests WHERE id = $1`, requestID)
	if err != nil {
		return fmt.Errorf("repository.DeletePickupRequest: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FindParcel fetches one parcel for the membership precondition checks.
func (r *Repository) FindParcel(ctx context.Context, parcelID string) (*models.Parcel, error) {
	query := `SELECT ` + memberParcelColumns + ` FROM parcels p WHERE p.id = $1`
	return scanMemberParcel(r.db.QueryRow(ctx, query, parcelID))
}

// AttachParcel creates a membership row. The partial unique index on active
// memberships turns a lost race into a unique violation, surfaced here as
// ErrConflict instead of silently double-booking the parcel.
func (r *Repository) AttachParcel(ctx context.Context, requestID, parcelID string) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO pickup_request_parcels (pickup_request_id, parcel_id) VALUES ($1, $2)`,
		requestID, parcelID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: parcel %s already belongs to an active pickup request", models.ErrConflict, parcelID)
		}
		return fmt.Errorf("repository.AttachParcel: %w", err)
	}
	return nil
}

// ListParcels returns the parcels attached to a pickup request.
func (r *Repository) ListParcels(ctx context.Context, requestID string) ([]*models.Parcel, error) {
	query := `
		SELECT ` + memberParcelColumns + `
		FROM parcels p
		JOIN pickup_request_parcels prp ON prp.parcel_id = p.id
		WHERE prp.pickup_request_id = $1
		ORDER BY prp.created_at ASC`

	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListRequestParcels: %w", err)
	}
	return collectMemberParcels(rows)
}

// HasActiveMembership reports whether the parcel is claimed by any pickup
// request that is not rejected or cancelled. Computed as a filter-join so it
// is always consistent with the membership table.
func (r *Repository) HasActiveMembership(ctx context.Context, parcelID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 ` + fmt.Sprintf(activeMembershipJoin, "$1") + `)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, parcelID).Scan(&exists); err != nil {
		return false, fmt.Errorf("repository.HasActiveMembership: %w", err)
	}
	return exists, nil
}

// ListAvailableParcels returns the merchant's pending parcels that hold no
// active membership, i.e. exactly the set eligible for a new pickup request.
func (r *Repository) ListAvailableParcels(ctx context.Context, merchantID string) ([]*models.Parcel, error) {
	query := `
		SELECT ` + memberParcelColumns + `
		FROM parcels p
		WHERE p.sender_id = $1
		  AND p.status = 'pending'
		  AND NOT EXISTS (SELECT 1 ` + fmt.Sprintf(activeMembershipJoin, "p.id") + `)
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, query, merchantID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAvailableParcels: %w", err)
	}
	return collectMemberParcels(rows)
}

// ForceAssignParcels sets every member parcel of the request to assigned in a
// single statement, regardless of prior status. Returns how many parcels were
// touched.
func (r *Repository) ForceAssignParcels(ctx context.Context, requestID string) (int, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE parcels SET status = 'assigned', updated_at = now()
		WHERE id IN (SELECT parcel_id FROM pickup_request_parcels WHERE pickup_request_id = $1)`,
		requestID)
	if err != nil {
		return 0, fmt.Errorf("repository.ForceAssignParcels: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// ReleaseMemberships marks the request's memberships as released so the
// partial unique index stops counting them. Called when a request is rejected
// or cancelled; the status filter-join is the source of truth for reads, this
// keeps the constraint in step with it.
func (r *Repository) ReleaseMemberships(ctx context.Context, requestID string) error {
	_, err := r.db.Exec(ctx, `
		UPDATE pickup_request_parcels SET released_at = now()
		WHERE pickup_request_id = $1 AND released_at IS NULL`,
		requestID)
	if err != nil {
		return fmt.Errorf("repository.ReleaseMemberships: %w", err)
	}
	return nil
}

// CourierExists reports whether a courier record exists.
func (r *Repository) CourierExists(ctx context.Context, courierID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM couriers WHERE id = $1)`, courierID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("repository.CourierExists: %w", err)
	}
	return exists, nil
}

// scanRequest reads one pickup-request row into a model.
func scanRequest(row pgx.Row) (*models.PickupRequest, error) {
	var pr models.PickupRequest
	err := row.Scan(
		&pr.ID,
		&pr.MerchantID,
		&pr.PickupAddress,
		&pr.PickupDate,
		&pr.PickupTimeSlot,
		&pr.PackageCount,
		&pr.SpecialInstructions,
		&pr.Status,
		&pr.CourierID,
		&pr.AdminNotes,
		&pr.CreatedAt,
		&pr.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan pickup request: %w", err)
	}
	return &pr, nil
}

func collectRequests(rows pgx.Rows) ([]*models.PickupRequest, error) {
	defer rows.Close()
	var requests []*models.PickupRequest
	for rows.Next() {
		pr, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, pr)
	}
	return requests, rows.Err()
}

// scanMemberParcel reads one parcel row into a Parcel model.
func scanMemberParcel(row pgx.Row) (*models.Parcel, error) {
	var p models.Parcel
	err := row.Scan(
		&p.ID,
		&p.TrackingID,
		&p.SenderID,
		&p.RecipientName,
		&p.RecipientPhone,
		&p.OriginAddress,
		&p.DestinationAddress,
		&p.PackageDescription,
		&p.Weight,
		&p.Dimensions,
		&p.Status,
		&p.StatusNotes,
		&p.PickupDate,
		&p.DeliveryDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan parcel: %w", err)
	}
	return &p, nil
}

func collectMemberParcels(rows pgx.Rows) ([]*models.Parcel, error) {
	defer rows.Close()
	var parcels []*models.Parcel
	for rows.Next() {
		p, err := scanMemberParcel(rows)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}
	return parcels, rows.Err()
}
