package pickup

import (
	"context"
	"fmt"

	"fasttrack-courier/internal/models"
	"fasttrack-courier/internal/rules"
)

// ServiceInterface defines the contract for the pickup-request service.
type ServiceInterface interface {
	Create(ctx context.Context, actor rules.Actor, req models.CreatePickupRequest) (*models.PickupRequest, error)
	List(ctx context.Context, actor rules.Actor) ([]*models.PickupRequest, error)
	Get(ctx context.Context, actor rules.Actor, requestID string) (*models.PickupRequest, error)
	Delete(ctx context.Context, actor rules.Actor, requestID string) error
	AttachParcels(ctx context.Context, actor rules.Actor, requestID string, parcelIDs []string) error
	ListRequestParcels(ctx context.Context, actor rules.Actor, requestID string) ([]*models.Parcel, error)
	AvailableParcels(ctx context.Context, actor rules.Actor) ([]*models.Parcel, error)
	ListPending(ctx context.Context) ([]*models.PickupRequest, error)
	Approve(ctx context.Context, actor rules.Actor, requestID string, req models.ApprovePickupRequest) (*models.PickupRequest, error)
	Reject(ctx context.Context, actor rules.Actor, requestID string, req models.RejectPickupRequest) (*models.PickupRequest, error)
	Complete(ctx context.Context, actor rules.Actor, requestID string) (*models.PickupRequest, error)
}

// Service implements the pickup-request service logic. All rule checks run
// before the first write; the cascade writes after an approval are the one
// multi-step sequence, and a failure there surfaces as ErrUpstream without
// rolling back the decision itself.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new pickup-request service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// Create registers a pickup request for the actor, optionally attaching
// parcels in the same operation. Every parcel is validated against the
// membership rules before the request row is written.
func (s *Service) Create(ctx context.Context, actor rules.Actor, req models.CreatePickupRequest) (*models.PickupRequest, error) {
	if err := rules.Authorize(actor, rules.ActionCreatePickup, ""); err != nil {
		return nil, err
	}

	candidate := &models.PickupRequest{
		MerchantID:          actor.ID,
		PickupAddress:       req.PickupAddress,
		PickupDate:          req.PickupDate,
		PickupTimeSlot:      req.PickupTimeSlot,
		SpecialInstructions: req.SpecialInstructions,
		Status:              models.PickupStatusPending,
		PackageCount:        1,
	}
	if len(req.ParcelIDs) > 0 {
		candidate.PackageCount = len(req.ParcelIDs)
	}

	// Validate every parcel before any write so a bad id fails the whole
	// operation cleanly.
	for _, parcelID := range req.ParcelIDs {
		if err := s.checkAttach(ctx, actor, candidate, parcelID); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.Create(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("service.CreatePickupRequest: %w", err)
	}

	for _, parcelID := range req.ParcelIDs {
		if err := s.repo.AttachParcel(ctx, created.ID, parcelID); err != nil {
			return nil, fmt.Errorf("%w: attach parcel %s: %v", models.ErrUpstream, parcelID, err)
		}
	}

	return created, nil
}

// List returns all pickup requests for admins and the actor's own for
// merchants.
func (s *Service) List(ctx context.Context, actor rules.Actor) ([]*models.PickupRequest, error) {
	if actor.IsAdmin() {
		return s.repo.ListAll(ctx)
	}
	return s.repo.ListByMerchant(ctx, actor.ID)
}

// Get returns one pickup request, subject to ownership.
func (s *Service) Get(ctx context.Context, actor rules.Actor, requestID string) (*models.PickupRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionReadPickup, request.MerchantID); err != nil {
		return nil, err
	}
	return request, nil
}

// Delete removes a pickup request. This is the merchant's cancellation path
// and is permitted only while the request is still pending, so no parcel has
// been reassigned and no cascade is needed.
func (s *Service) Delete(ctx context.Context, actor rules.Actor, requestID string) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := rules.Authorize(actor, rules.ActionDeletePickup, request.MerchantID); err != nil {
		return err
	}
	if !rules.CanDeletePickup(request.Status) {
		return fmt.Errorf("%w: can only delete requests with pending status", models.ErrInvalidTransition)
	}
	return s.repo.Delete(ctx, requestID)
}

// AttachParcels adds parcels to an existing pickup request after running the
// membership preconditions for each one. All checks pass before the first
// insert.
func (s *Service) AttachParcels(ctx context.Context, actor rules.Actor, requestID string, parcelIDs []string) error {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}

	for _, parcelID := range parcelIDs {
		if err := s.checkAttach(ctx, actor, request, parcelID); err != nil {
			return err
		}
	}

	for _, parcelID := range parcelIDs {
		if err := s.repo.AttachParcel(ctx, requestID, parcelID); err != nil {
			return err
		}
	}
	return nil
}

// ListRequestParcels returns the parcels attached to a request, subject to
// ownership.
func (s *Service) ListRequestParcels(ctx context.Context, actor rules.Actor, requestID string) ([]*models.Parcel, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionReadPickup, request.MerchantID); err != nil {
		return nil, err
	}
	return s.repo.ListParcels(ctx, requestID)
}

// AvailableParcels returns the actor's pending parcels with no active
// membership. Merchant-only: the listing is meaningless for admins, who do
// not own parcels.
func (s *Service) AvailableParcels(ctx context.Context, actor rules.Actor) ([]*models.Parcel, error) {
	if actor.Role != models.RoleMerchant {
		return nil, fmt.Errorf("%w: merchant access required", models.ErrForbidden)
	}
	return s.repo.ListAvailableParcels(ctx, actor.ID)
}

// ListPending returns the admin work queue of pending requests.
func (s *Service) ListPending(ctx context.Context) ([]*models.PickupRequest, error) {
	return s.repo.ListByStatus(ctx, models.PickupStatusPending)
}

// Approve moves a pending request to approved, stores the assigned courier,
// and force-assigns every member parcel. Re-approving an already-approved
// request fails with ErrInvalidTransition; the cascade never re-runs with a
// different courier.
func (s *Service) Approve(ctx context.Context, actor rules.Actor, requestID string, req models.ApprovePickupRequest) (*models.PickupRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionDecidePickup, request.MerchantID); err != nil {
		return nil, err
	}

	next, cascade, err := rules.DecidePickup(request.Status, rules.DecisionApprove)
	if err != nil {
		return nil, err
	}

	if req.CourierID != nil {
		ok, err := s.repo.CourierExists(ctx, *req.CourierID)
		if err != nil {
			return nil, fmt.Errorf("service.ApprovePickup: %w", err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: courier %s", models.ErrNotFound, *req.CourierID)
		}
	}

	updated, err := s.repo.UpdateDecision(ctx, requestID, next, req.AdminNotes, req.CourierID)
	if err != nil {
		return nil, fmt.Errorf("service.ApprovePickup: %w", err)
	}

	if cascade.ForceAssignParcels {
		if _, err := s.repo.ForceAssignParcels(ctx, requestID); err != nil {
			// The decision is already written; the cascade is not rolled back.
			return nil, fmt.Errorf("%w: cascade parcel assignment: %v", models.ErrUpstream, err)
		}
	}

	return updated, nil
}

// Reject moves a pending request to rejected with mandatory notes. Member
// parcels keep their current status so they stay eligible for a future pickup
// request; only the membership claims are released.
func (s *Service) Reject(ctx context.Context, actor rules.Actor, requestID string, req models.RejectPickupRequest) (*models.PickupRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionDecidePickup, request.MerchantID); err != nil {
		return nil, err
	}

	next, cascade, err := rules.DecidePickup(request.Status, rules.DecisionReject)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateDecision(ctx, requestID, next, &req.AdminNotes, nil)
	if err != nil {
		return nil, fmt.Errorf("service.RejectPickup: %w", err)
	}

	if cascade.ReleaseMemberships {
		if err := s.repo.ReleaseMemberships(ctx, requestID); err != nil {
			return nil, fmt.Errorf("%w: release memberships: %v", models.ErrUpstream, err)
		}
	}

	return updated, nil
}

// Complete closes out an approved request once the pickup has happened.
func (s *Service) Complete(ctx context.Context, actor rules.Actor, requestID string) (*models.PickupRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := rules.Authorize(actor, rules.ActionDecidePickup, request.MerchantID); err != nil {
		return nil, err
	}

	next, _, err := rules.DecidePickup(request.Status, rules.DecisionComplete)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateDecision(ctx, requestID, next, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("service.CompletePickup: %w", err)
	}
	return updated, nil
}

// checkAttach loads the parcel and runs the ordered membership preconditions
// against it.
func (s *Service) checkAttach(ctx context.Context, actor rules.Actor, request *models.PickupRequest, parcelID string) error {
	parcel, err := s.repo.FindParcel(ctx, parcelID)
	if err != nil {
		return err
	}
	active, err := s.repo.HasActiveMembership(ctx, parcelID)
	if err != nil {
		return err
	}
	return rules.CheckAttach(actor, request, parcel, active)
}
