package parcel

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fasttrack-courier/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the parcel repository.
type RepositoryInterface interface {
	Create(ctx context.Context, parcel *models.Parcel) (*models.Parcel, error)
	FindByID(ctx context.Context, parcelID string) (*models.Parcel, error)
	FindByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error)
	ListBySender(ctx context.Context, senderID string) ([]*models.Parcel, error)
	ListAll(ctx context.Context) ([]*models.Parcel, error)
	Search(ctx context.Context, filter models.ParcelSearchFilter) ([]*models.Parcel, error)
	Update(ctx context.Context, parcelID string, req models.UpdateParcelRequest) (*models.Parcel, error)
	UpdateStatus(ctx context.Context, parcelID, status, notes string) (*models.Parcel, error)
	Delete(ctx context.Context, parcelID string) error
	SenderEmail(ctx context.Context, senderID string) (string, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new parcel repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const parcelColumns = `id, tracking_id, sender_id, recipient_name, recipient_phone, origin_address, destination_address,
	package_description, weight, dimensions, status, status_notes, pickup_date, delivery_date, created_at, updated_at`

// Create inserts a new parcel and echoes the stored record back.
func (r *Repository) Create(ctx context.Context, p *models.Parcel) (*models.Parcel, error) {
	query := `
		INSERT INTO parcels (tracking_id, sender_id, recipient_name, recipient_phone, origin_address, destination_address,
			package_description, weight, dimensions, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + parcelColumns

	row := r.db.QueryRow(ctx, query,
		p.TrackingID, p.SenderID, p.RecipientName, p.RecipientPhone, p.OriginAddress, p.DestinationAddress,
		p.PackageDescription, p.Weight, p.Dimensions, p.Status)
	created, err := scanParcel(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateParcel: %w", err)
	}
	return created, nil
}

// FindByID fetches one parcel by id.
func (r *Repository) FindByID(ctx context.Context, parcelID string) (*models.Parcel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE id = $1`, parcelID)
	return scanParcel(row)
}

// FindByTrackingID fetches one parcel by its public tracking code.
func (r *Repository) FindByTrackingID(ctx context.Context, trackingID string) (*models.Parcel, error) {
	row := r.db.QueryRow(ctx, `SELECT `+parcelColumns+` FROM parcels WHERE tracking_id = $1`, trackingID)
	return scanParcel(row)
}

// ListBySender returns a merchant's parcels, newest first.
func (r *Repository) ListBySender(ctx context.Context, senderID string) ([]*models.Parcel, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+parcelColumns+` FROM parcels WHERE sender_id = $1 ORDER BY created_at DESC`, senderID)
	if err != nil {
		return nil, fmt.Errorf("repository.ListBySender: %w", err)
	}
	return collectParcels(rows)
}

// ListAll returns every parcel, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]*models.Parcel, error) {
	rows, err := r.db.Query(ctx, `SELECT `+parcelColumns+` FROM parcels ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListAll: %w", err)
	}
	return collectParcels(rows)
}

// Search applies the non-empty filter fields: tracking id and status as exact
// matches, recipient name as a case-insensitive substring.
func (r *Repository) Search(ctx context.Context, filter models.ParcelSearchFilter) ([]*models.Parcel, error) {
	var conds []string
	var args []any

	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.TrackingID != "" {
		add("tracking_id = $%d", filter.TrackingID)
	}
	if filter.Status != "" {
		add("status = $%d", filter.Status)
	}
	if filter.RecipientName != "" {
		add("recipient_name ILIKE $%d", "%"+filter.RecipientName+"%")
	}
	if filter.SenderID != "" {
		add("sender_id = $%d", filter.SenderID)
	}

	query := `SELECT ` + parcelColumns + ` FROM parcels`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("repository.SearchParcels: %w", err)
	}
	return collectParcels(rows)
}

// Update patches the mutable metadata fields; nil inputs keep the stored value.
func (r *Repository) Update(ctx context.Context, parcelID string, req models.UpdateParcelRequest) (*models.Parcel, error) {
	query := `
		UPDATE parcels SET
			recipient_name      = COALESCE($2, recipient_name),
			recipient_phone     = COALESCE($3, recipient_phone),
			origin_address      = COALESCE($4, origin_address),
			destination_address = COALESCE($5, destination_address),
			package_description = COALESCE($6, package_description),
			weight              = COALESCE($7, weight),
			dimensions          = COALESCE($8, dimensions),
			updated_at          = now()
		WHERE id = $1
		RETURNING ` + parcelColumns

	row := r.db.QueryRow(ctx, query, parcelID,
		req.RecipientName, req.RecipientPhone, req.OriginAddress, req.DestinationAddress,
		req.PackageDescription, req.Weight, req.Dimensions)
	return scanParcel(row)
}

// UpdateStatus moves a parcel to status and stamps the pickup/delivery dates
// when the matching milestone is reached. Empty notes leave the stored notes.
func (r *Repository) UpdateStatus(ctx context.Context, parcelID, status, notes string) (*models.Parcel, error) {
	query := `
		UPDATE parcels SET
			status       = $2,
			status_notes = CASE WHEN $3 <> '' THEN $3 ELSE status_notes END,
			pickup_date  = CASE WHEN $2 = 'picked_up' THEN now() ELSE pickup_date END,
			delivery_date = CASE WHEN $2 = 'delivered' THEN now() ELSE delivery_date END,
			updated_at   = now()
		WHERE id = $1
		RETURNING ` + parcelColumns

	row := r.db.QueryRow(ctx, query, parcelID, status, notes)
	return scanParcel(row)
}

// Delete removes a parcel. The service has already checked it is pending.
func (r *Repository) Delete(ctx context.Context, parcelID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM parcels WHERE id = $1`, parcelID)
	if err != nil {
		return fmt.Errorf("repository.DeleteParcel: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SenderEmail resolves the owning merchant's email for notifications.
func (r *Repository) SenderEmail(ctx context.Context, senderID string) (string, error) {
	var email string
	err := r.db.QueryRow(ctx, `SELECT email FROM profiles WHERE id = $1`, senderID).Scan(&email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrNotFound
		}
		return "", fmt.Errorf("repository.SenderEmail: %w", err)
	}
	return email, nil
}

// scanParcel reads one parcel row into a Parcel model.
func scanParcel(row pgx.Row) (*models.Parcel, error) {
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

// collectParcels drains rows into a slice.
func collectParcels(rows pgx.Rows) ([]*models.Parcel, error) {
	defer rows.Close()
	var parcels []*models.Parcel
	for rows.Next() {
		p, err := scanParcel(rows)
		if err != nil {
			return nil, err
		}
		parcels = append(parcels, p)
	}
	return parcels, rows.Err()
}
