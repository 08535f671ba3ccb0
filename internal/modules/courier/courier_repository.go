package courier

import (
	"context"
	"errors"
	"fmt"

	"fasttrack-courier/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryInterface defines the contract for the courier repository.
type RepositoryInterface interface {
	Create(ctx context.Context, courier *models.Courier) (*models.Courier, error)
	FindByID(ctx context.Context, courierID string) (*models.Courier, error)
	ListAll(ctx context.Context) ([]*models.Courier, error)
}

// Repository implements the RepositoryInterface.
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new courier repository.
func NewRepository(db *pgxpool.Pool) RepositoryInterface {
	return &Repository{db: db}
}

const courierColumns = `id, full_name, phone, vehicle_type, vehicle_number, coverage_area, status, current_location, created_at, updated_at`

// Create inserts a courier and echoes the stored record back.
func (r *Repository) Create(ctx context.Context, courier *models.Courier) (*models.Courier, error) {
	query := `
		INSERT INTO couriers (full_name, phone, vehicle_type, vehicle_number, coverage_area, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + courierColumns

	row := r.db.QueryRow(ctx, query,
		courier.FullName, courier.Phone, courier.VehicleType, courier.VehicleNumber,
		courier.CoverageArea, courier.Status)
	created, err := scanCourier(row)
	if err != nil {
		return nil, fmt.Errorf("repository.CreateCourier: %w", err)
	}
	return created, nil
}

// FindByID fetches one courier by id.
func (r *Repository) FindByID(ctx context.Context, courierID string) (*models.Courier, error) {
	row := r.db.QueryRow(ctx, `SELECT `+courierColumns+` FROM couriers WHERE id = $1`, courierID)
	return scanCourier(row)
}

// ListAll returns every courier, newest first.
func (r *Repository) ListAll(ctx context.Context) ([]*models.Courier, error) {
	rows, err := r.db.Query(ctx, `SELECT `+courierColumns+` FROM couriers ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("repository.ListCouriers: %w", err)
	}
	defer rows.Close()

	var couriers []*models.Courier
	for rows.Next() {
		co, err := scanCourier(rows)
		if err != nil {
			return nil, err
		}
		couriers = append(couriers, co)
	}
	return couriers, rows.Err()
}

// scanCourier reads one courier row into a model.
func scanCourier(row pgx.Row) (*models.Courier, error) {
	var co models.Courier
	err := row.Scan(
		&co.ID,
		&co.FullName,
		&co.Phone,
		&co.VehicleType,
		&co.VehicleNumber,
		&co.CoverageArea,
		&co.Status,
		&co.CurrentLocation,
		&co.CreatedAt,
		&co.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan courier: %w", err)
	}
	return &co, nil
}
