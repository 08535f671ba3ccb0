package pickup

import (
	"context"
	"fmt"
	"testing"
	"time"

	"fasttrack-courier/internal/models"
	"fasttrack-courier/internal/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRepo keeps requests, parcels and memberships in maps and mimics the
// real repository's behavior, including the unique-claim check the partial
// index enforces in Postgres.
type fakeRepo struct {
	requests    map[string]*models.PickupRequest
	parcels     map[string]*models.Parcel
	memberships map[string][]string // requestID -> parcelIDs, active only
	couriers    map[string]bool
	nextID      int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests:    make(map[string]*models.PickupRequest),
		parcels:     make(map[string]*models.Parcel),
		memberships: make(map[string][]string),
		couriers:    make(map[string]bool),
	}
}

func (f *fakeRepo) Create(ctx context.Context, req *models.PickupRequest) (*models.PickupRequest, error) {
	f.nextID++
	cp := *req
	cp.ID = fmt.Sprintf("req-%d", f.nextID)
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.requests[cp.ID] = &cp
	out := cp
	return &out, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, requestID string) (*models.PickupRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) ListByMerchant(ctx context.Context, merchantID string) ([]*models.PickupRequest, error) {
	var out []*models.PickupRequest
	for _, r := range f.requests {
		if r.MerchantID == merchantID {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]*models.PickupRequest, error) {
	var out []*models.PickupRequest
	for _, r := range f.requests {
		cp := *r
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ListByStatus(ctx context.Context, status string) ([]*models.PickupRequest, error) {
	var out []*models.PickupRequest
	for _, r := range f.requests {
		if r.Status == status {
			cp := *r
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) UpdateDecision(ctx context.Context, requestID, status string, adminNotes, courierID *string) (*models.PickupRequest, error) {
	r, ok := f.requests[requestID]
	if !ok {
		return nil, models.ErrNotFound
	}
	r.Status = status
	if adminNotes != nil {
		r.AdminNotes = adminNotes
	}
	if courierID != nil {
		r.CourierID = courierID
	}
	r.UpdatedAt = time.Now()
	cp := *r
	return &cp, nil
}

func (f *fakeRepo) Delete(ctx context.Context, requestID string) error {
	if _, ok := f.requests[requestID]; !ok {
		return models.ErrNotFound
	}
	delete(f.requests, requestID)
	delete(f.memberships, requestID)
	return nil
}

func (f *fakeRepo) FindParcel(ctx context.Context, parcelID string) (*models.Parcel, error) {
	p, ok := f.parcels[parcelID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeRepo) AttachParcel(ctx context.Context, requestID, parcelID string) error {
	active, _ := f.HasActiveMembership(ctx, parcelID)
	if active {
		return fmt.Errorf("%w: parcel %s already belongs to an active pickup request", models.ErrConflict, parcelID)
	}
	f.memberships[requestID] = append(f.memberships[requestID], parcelID)
	return nil
}

func (f *fakeRepo) ListParcels(ctx context.Context, requestID string) ([]*models.Parcel, error) {
	var out []*models.Parcel
	for _, pid := range f.memberships[requestID] {
		if p, ok := f.parcels[pid]; ok {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) HasActiveMembership(ctx context.Context, parcelID string) (bool, error) {
	for reqID, pids := range f.memberships {
		r, ok := f.requests[reqID]
		if !ok || !rules.ActiveMembership(r.Status) {
			continue
		}
		for _, pid := range pids {
			if pid == parcelID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (f *fakeRepo) ListAvailableParcels(ctx context.Context, merchantID string) ([]*models.Parcel, error) {
	var out []*models.Parcel
	for _, p := range f.parcels {
		if p.SenderID != merchantID || p.Status != models.ParcelStatusPending {
			continue
		}
		active, _ := f.HasActiveMembership(ctx, p.ID)
		if active {
			continue
		}
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeRepo) ForceAssignParcels(ctx context.Context, requestID string) (int, error) {
	n := 0
	for _, pid := range f.memberships[requestID] {
		if p, ok := f.parcels[pid]; ok {
			p.Status = models.ParcelStatusAssigned
			n++
		}
	}
	return n, nil
}

func (f *fakeRepo) ReleaseMemberships(ctx context.Context, requestID string) error {
	delete(f.memberships, requestID)
	return nil
}

func (f *fakeRepo) CourierExists(ctx context.Context, courierID string) (bool, error) {
	return f.couriers[courierID], nil
}

func (f *fakeRepo) addParcel(id, senderID, status string) {
	f.parcels[id] = &models.Parcel{ID: id, SenderID: senderID, Status: status}
}

var (
	merchantActor = rules.Actor{ID: "m-1", Email: "m1@example.com", Role: models.RoleMerchant}
	adminActor    = rules.Actor{ID: "a-1", Email: "admin@example.com", Role: models.RoleAdmin}
)

func TestCreateWithParcels(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusPending)
	fr.addParcel("p-2", "m-1", models.ParcelStatusPending)
	svc := NewService(fr)

	created, err := svc.Create(context.Background(), merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd",
		PickupDate:    "2026-09-01",
		ParcelIDs:     []string{"p-1", "p-2"},
	})
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusPending, created.Status)
	assert.Equal(t, 2, created.PackageCount)
	assert.Len(t, fr.memberships[created.ID], 2)
}

func TestCreateRejectsForeignParcelBeforeAnyWrite(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusPending)
	fr.addParcel("p-other", "m-2", models.ParcelStatusPending)
	svc := NewService(fr)

	_, err := svc.Create(context.Background(), merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd",
		PickupDate:    "2026-09-01",
		ParcelIDs:     []string{"p-1", "p-other"},
	})
	assert.ErrorIs(t, err, models.ErrForbidden)
	// Nothing was written, not even the valid first parcel.
	assert.Empty(t, fr.requests)
	assert.Empty(t, fr.memberships)
}

func TestAttachClaimedParcelConflicts(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusPending)
	svc := NewService(fr)
	ctx := context.Background()

	first, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01", ParcelIDs: []string{"p-1"},
	})
	require.NoError(t, err)

	second, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-02",
	})
	require.NoError(t, err)

	err = svc.AttachParcels(ctx, merchantActor, second.ID, []string{"p-1"})
	assert.ErrorIs(t, err, models.ErrConflict)
	assert.Len(t, fr.memberships[first.ID], 1)
	assert.Empty(t, fr.memberships[second.ID])
}

func TestAttachNonPendingParcel(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusInTransit)
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	err = svc.AttachParcels(ctx, merchantActor, created.ID, []string{"p-1"})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestAvailableParcelsExcludesClaimed(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusPending)
	fr.addParcel("p-2", "m-1", models.ParcelStatusPending)
	fr.addParcel("p-3", "m-1", models.ParcelStatusPending)
	fr.addParcel("p-delivered", "m-1", models.ParcelStatusDelivered)
	fr.addParcel("p-foreign", "m-2", models.ParcelStatusPending)
	svc := NewService(fr)
	ctx := context.Background()

	_, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01", ParcelIDs: []string{"p-1"},
	})
	require.NoError(t, err)

	available, err := svc.AvailableParcels(ctx, merchantActor)
	require.NoError(t, err)
	assert.Len(t, available, 2)
	for _, p := range available {
		assert.NotEqual(t, "p-1", p.ID)
	}
}

func TestAvailableParcelsMerchantOnly(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.AvailableParcels(context.Background(), adminActor)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestApproveCascadesAssignment(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusPending)
	fr.addParcel("p-2", "m-1", models.ParcelStatusPending)
	fr.couriers["c-1"] = true
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01", ParcelIDs: []string{"p-1", "p-2"},
	})
	require.NoError(t, err)

	courierID := "c-1"
	notes := "morning route"
	updated, err := svc.Approve(ctx, adminActor, created.ID, models.ApprovePickupRequest{
		CourierID: &courierID, AdminNotes: &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusApproved, updated.Status)
	require.NotNil(t, updated.CourierID)
	assert.Equal(t, "c-1", *updated.CourierID)

	// Every member parcel was forced to assigned.
	assert.Equal(t, models.ParcelStatusAssigned, fr.parcels["p-1"].Status)
	assert.Equal(t, models.ParcelStatusAssigned, fr.parcels["p-2"].Status)
}

func TestApproveUnknownCourier(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	courierID := "c-missing"
	_, err = svc.Approve(ctx, adminActor, created.ID, models.ApprovePickupRequest{CourierID: &courierID})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, models.PickupStatusPending, fr.requests[created.ID].Status)
}

func TestApproveDeniedToMerchant(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, merchantActor, created.ID, models.ApprovePickupRequest{})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestReApproveFails(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, adminActor, created.ID, models.ApprovePickupRequest{})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, adminActor, created.ID, models.ApprovePickupRequest{})
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestRejectLeavesParcelsAvailable(t *testing.T) {
	fr := newFakeRepo()
	fr.addParcel("p-1", "m-1", models.ParcelStatusPending)
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01", ParcelIDs: []string{"p-1"},
	})
	require.NoError(t, err)

	updated, err := svc.Reject(ctx, adminActor, created.ID, models.RejectPickupRequest{AdminNotes: "address outside coverage"})
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusRejected, updated.Status)
	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "address outside coverage", *updated.AdminNotes)

	// The parcel keeps its status and is claimable again.
	assert.Equal(t, models.ParcelStatusPending, fr.parcels["p-1"].Status)
	available, err := svc.AvailableParcels(ctx, merchantActor)
	require.NoError(t, err)
	assert.Len(t, available, 1)
}

func TestCompleteApprovedRequest(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, adminActor, created.ID, models.ApprovePickupRequest{})
	require.NoError(t, err)

	updated, err := svc.Complete(ctx, adminActor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PickupStatusCompleted, updated.Status)
}

func TestCompletePendingRequestFails(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	_, err = svc.Complete(ctx, adminActor, created.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestDeletePendingOnly(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, adminActor, created.ID, models.ApprovePickupRequest{})
	require.NoError(t, err)

	err = svc.Delete(ctx, merchantActor, created.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Contains(t, fr.requests, created.ID)
}

func TestDeleteForeignRequest(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	created, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)

	other := rules.Actor{ID: "m-2", Role: models.RoleMerchant}
	err = svc.Delete(ctx, other, created.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestGetMissingRequest(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Get(context.Background(), merchantActor, "req-missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListScopedByRole(t *testing.T) {
	fr := newFakeRepo()
	svc := NewService(fr)
	ctx := context.Background()

	_, err := svc.Create(ctx, merchantActor, models.CreatePickupRequest{
		PickupAddress: "12 Warehouse Rd", PickupDate: "2026-09-01",
	})
	require.NoError(t, err)
	fr.requests["req-foreign"] = &models.PickupRequest{ID: "req-foreign", MerchantID: "m-2", Status: models.PickupStatusPending}

	mine, err := svc.List(ctx, merchantActor)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(ctx, adminActor)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}
