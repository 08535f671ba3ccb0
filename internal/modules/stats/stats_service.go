package stats

import (
	"context"

	"fasttrack-courier/internal/models"
	"fasttrack-courier/internal/rules"
)

// ServiceInterface defines the contract for the stats service.
type ServiceInterface interface {
	AdminStats(ctx context.Context, actor rules.Actor) (*models.AdminStats, error)
	DashboardStats(ctx context.Context, actor rules.Actor) (*models.DashboardStats, error)
	MerchantStats(ctx context.Context, actor rules.Actor) (*models.MerchantStats, error)
}

// Service implements the stats service logic.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new stats service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// AdminStats returns the system-wide counter set.
func (s *Service) AdminStats(ctx context.Context, actor rules.Actor) (*models.AdminStats, error) {
	if err := rules.Authorize(actor, rules.ActionListUsers, ""); err != nil {
		return nil, err
	}
	return s.repo.AdminStats(ctx)
}

// DashboardStats returns the full admin overview.
func (s *Service) DashboardStats(ctx context.Context, actor rules.Actor) (*models.DashboardStats, error) {
	if err := rules.Authorize(actor, rules.ActionListUsers, ""); err != nil {
		return nil, err
	}
	return s.repo.DashboardStats(ctx)
}

// MerchantStats returns counters scoped to the calling merchant.
func (s *Service) MerchantStats(ctx context.Context, actor rules.Actor) (*models.MerchantStats, error) {
	return s.repo.MerchantStats(ctx, actor.ID)
}
