package courier

import (
	"context"
	"fmt"

	"fasttrack-courier/internal/models"
	"fasttrack-courier/internal/rules"
)

// ServiceInterface defines the contract for the courier service.
type ServiceInterface interface {
	Create(ctx context.Context, actor rules.Actor, req models.CreateCourierRequest) (*models.Courier, error)
	Get(ctx context.Context, actor rules.Actor, courierID string) (*models.Courier, error)
	List(ctx context.Context, actor rules.Actor) ([]*models.Courier, error)
}

// Service implements the courier service logic. Courier management is an
// admin-exclusive action; the policy check runs here as well as in the
// routing layer.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new courier service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Create registers a courier. New couriers start out active.
func (s *Service) Create(ctx context.Context, actor rules.Actor, req models.CreateCourierRequest) (*models.Courier, error) {
	if err := rules.Authorize(actor, rules.ActionManageCouriers, ""); err != nil {
		return nil, err
	}
	courier := &models.Courier{
		FullName:      req.FullName,
		Phone:         req.Phone,
		VehicleType:   req.VehicleType,
		VehicleNumber: req.VehicleNumber,
		CoverageArea:  req.CoverageArea,
		Status:        models.CourierStatusActive,
	}
	created, err := s.repo.Create(ctx, courier)
	if err != nil {
		return nil, fmt.Errorf("service.CreateCourier: %w", err)
	}
	return created, nil
}

// Get returns one courier.
func (s *Service) Get(ctx context.Context, actor rules.Actor, courierID string) (*models.Courier, error) {
	if err := rules.Authorize(actor, rules.ActionManageCouriers, ""); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, courierID)
}

// List returns every courier.
func (s *Service) List(ctx context.Context, actor rules.Actor) ([]*models.Courier, error) {
	if err := rules.Authorize(actor, rules.ActionManageCouriers, ""); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}
