package parcel

import (
	"context"
	"fmt"

	"fasttrack-courier/internal/models"
	"fasttrack-courier/internal/rules"
	"fasttrack-courier/pkg/notify"
	"fasttrack-courier/pkg/tracking"
)

// ServiceInterface defines the contract for the parcel service.
type ServiceInterface interface {
	Create(ctx context.Context, actor rules.Actor, req models.CreateParcelRequest) (*models.Parcel, error)
	List(ctx context.Context, actor rules.Actor) ([]*models.Parcel, error)
	Get(ctx context.Context, actor rules.Actor, parcelID string) (*models.Parcel, error)
	Update(ctx context.Context, actor rules.Actor, parcelID string, req models.UpdateParcelRequest) (*models.Parcel, error)
	Delete(ctx context.Context, actor rules.Actor, parcelID string) error
	UpdateStatus(ctx context.Context, actor rules.Actor, parcelID string, req models.UpdateParcelStatusRequest) (*models.Parcel, error)
	AssignCourier(ctx context.Context, actor rules.Actor, parcelID string) (*models.Parcel, error)
	Track(ctx context.Context, trackingID string) (*models.TrackingResponse, error)
	Search(ctx context.Context, actor rules.Actor, filter models.ParcelSearchFilter) ([]*models.Parcel, error)
}

// Service implements the parcel service logic.
type Service struct {
	repo     RepositoryInterface
	notifier notify.ServiceInterface
}

// NewService creates a new parcel service.
func NewService(repo RepositoryInterface, notifier notify.ServiceInterface) *Service {
	return &Service{repo: repo, notifier: notifier}
}

// Create registers a new parcel for the actor. The single recipient address
// from the request fills both origin and destination, the tracking code is
// generated here, and the parcel starts out pending. The merchant is notified
// best-effort.
func (s *Service) Create(ctx context.Context, actor rules.Actor, req models.CreateParcelRequest) (*models.Parcel, error) {
	if err := rules.Authorize(actor, rules.ActionCreateParcel, ""); err != nil {
		return nil, err
	}

	parcel := &models.Parcel{
		TrackingID:         tracking.NewCode(),
		SenderID:           actor.ID,
		RecipientName:      req.RecipientName,
		RecipientPhone:     req.RecipientPhone,
		OriginAddress:      req.RecipientAddress,
		DestinationAddress: req.RecipientAddress,
		PackageDescription: req.PackageDescription,
		Weight:             req.Weight,
		Dimensions:         req.Dimensions,
		Status:             models.ParcelStatusPending,
	}

	created, err := s.repo.Create(ctx, parcel)
	if err != nil {
		return nil, fmt.Errorf("service.CreateParcel: %w", err)
	}

	s.notifier.ParcelCreated(ctx, actor.Email, created)

	return created, nil
}

// List returns all parcels for admins and the actor's own for merchants.
func (s *Service) List(ctx context.Context, actor rules.Actor) ([]*models.Parcel, error) {
	if actor.IsAdmin() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListBySender(ctx, actor.ID)
}

// Get returns one parcel, subject to ownership.
func (s *Service) Get(ctx context.Context, actor rules.Actor, parcelID string) (*models.Parcel, error) {
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionReadParcel, parcel.SenderID); err != nil {
		return nil, err
	}
	return parcel, nil
}

// Update patches parcel metadata. Only the owner or an admin may do this, and
// only while the parcel is still pending.
func (s *Service) Update(ctx context.Context, actor rules.Actor, parcelID string, req models.UpdateParcelRequest) (*models.Parcel, error) {
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionUpdateParcel, parcel.SenderID); err != nil {
		return nil, err
	}
	if parcel.Status != models.ParcelStatusPending {
		return nil, fmt.Errorf("%w: parcel metadata is frozen once it leaves pending", models.ErrInvalidTransition)
	}
	return s.repo.Update(ctx, parcelID, req)
}

// Delete removes a parcel. Permitted only while pending, by owner or admin;
// this is the merchant's cancellation path.
func (s *Service) Delete(ctx context.Context, actor rules.Actor, parcelID string) error {
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		return err
	}
	if err := rules.Authorize(actor, rules.ActionDeleteParcel, parcel.SenderID); err != nil {
		return err
	}
	if !rules.CanDeleteParcel(parcel.Status) {
		return fmt.Errorf("%w: can only delete parcels with pending status", models.ErrInvalidTransition)
	}
	return s.repo.Delete(ctx, parcelID)
}

// UpdateStatus moves a parcel along the status chain. Every forward status is
// admin-only; the transition table rejects jumps. On success the owning
// merchant is notified best-effort.
func (s *Service) UpdateStatus(ctx context.Context, actor rules.Actor, parcelID string, req models.UpdateParcelStatusRequest) (*models.Parcel, error) {
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionSetParcelStatus, parcel.SenderID); err != nil {
		return nil, err
	}
	if !rules.ParcelStatusKnown(req.Status) {
		return nil, fmt.Errorf("%w: unknown parcel status %q", models.ErrValidation, req.Status)
	}
	if rules.AdminOnlyParcelStatus(req.Status) && !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can set this status", models.ErrForbidden)
	}
	if err := rules.ParcelTransition(parcel.Status, req.Status); err != nil {
		return nil, err
	}

	oldStatus := parcel.Status
	updated, err := s.repo.UpdateStatus(ctx, parcelID, req.Status, req.Notes)
	if err != nil {
		return nil, fmt.Errorf("service.UpdateParcelStatus: %w", err)
	}

	s.notifyStatusChange(ctx, updated, oldStatus, req.Notes)

	return updated, nil
}

// AssignCourier is the admin shortcut that moves a pending parcel to assigned
// outside of a pickup-request approval.
func (s *Service) AssignCourier(ctx context.Context, actor rules.Actor, parcelID string) (*models.Parcel, error) {
	parcel, err := s.repo.FindByID(ctx, parcelID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionAssignCourier, parcel.SenderID); err != nil {
		return nil, err
	}
	if err := rules.ParcelTransition(parcel.Status, models.ParcelStatusAssigned); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, parcelID, models.ParcelStatusAssigned, "")
	if err != nil {
		return nil, fmt.Errorf("service.AssignCourier: %w", err)
	}

	s.notifyStatusChange(ctx, updated, parcel.Status, "")

	return updated, nil
}

// Track serves the public tracking endpoint with a reduced view of the parcel.
func (s *Service) Track(ctx context.Context, trackingID string) (*models.TrackingResponse, error) {
	parcel, err := s.repo.FindByTrackingID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	return &models.TrackingResponse{
		TrackingID:    parcel.TrackingID,
		Status:        parcel.Status,
		RecipientName: parcel.RecipientName,
		CreatedAt:     parcel.CreatedAt,
		UpdatedAt:     parcel.UpdatedAt,
	}, nil
}

// Search runs a filtered listing. Non-admin callers are always scoped to their
// own parcels, whatever the filter says.
func (s *Service) Search(ctx context.Context, actor rules.Actor, filter models.ParcelSearchFilter) ([]*models.Parcel, error) {
	if !actor.IsAdmin() {
		filter.SenderID = actor.ID
	}
	if filter.Status != "" && !rules.ParcelStatusKnown(filter.Status) {
		return nil, fmt.Errorf("%w: unknown parcel status %q", models.ErrValidation, filter.Status)
	}
	return s.repo.Search(ctx, filter)
}

// notifyStatusChange resolves the owning merchant's email and notifies them.
// Lookup failures are logged by the notifier path and never surfaced.
func (s *Service) notifyStatusChange(ctx context.Context, parcel *models.Parcel, oldStatus, notes string) {
	email, err := s.repo.SenderEmail(ctx, parcel.SenderID)
	if err != nil {
		return
	}
	s.notifier.ParcelStatusChanged(ctx, email, parcel, oldStatus, notes)
}
