package auth

import (
	"context"
	"testing"
	"time"

	"fasttrack-courier/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-secret"

// fakeRepo keeps profiles in a map keyed by id with an email index, mimicking
// the unique constraint on profiles.email.
type fakeRepo struct {
	users   map[string]*models.User
	byEmail map[string]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:   make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (f *fakeRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if _, taken := f.byEmail[user.Email]; taken {
		return nil, models.ErrEmailTaken
	}
	cp := *user
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = cp.CreatedAt
	f.users[cp.ID] = &cp
	f.byEmail[cp.Email] = cp.ID
	out := cp
	return &out, nil
}

func (f *fakeRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	id, ok := f.byEmail[email]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *f.users[id]
	return &cp, nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) ListAll(ctx context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range f.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}

func registerReq(email string) models.RegisterRequest {
	return models.RegisterRequest{
		Email:    email,
		Password: "correct horse battery",
		FullName: "Avery Chen",
	}
}

func TestRegisterDefaultsToMerchant(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)

	resp, err := svc.Register(context.Background(), registerReq("avery@example.com"))
	require.NoError(t, err)

	assert.Equal(t, models.RoleMerchant, resp.User.Role)
	assert.Equal(t, models.UserStatusActive, resp.User.Status)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
	// The hash is never the raw password.
	assert.NotEqual(t, "correct horse battery", resp.User.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("avery@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerReq("avery@example.com"))
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestLoginRoundTrip(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq("avery@example.com"))
	require.NoError(t, err)

	resp, err := svc.Login(ctx, models.LoginRequest{Email: "avery@example.com", Password: "correct horse battery"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, resp.User.ID)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerReq("avery@example.com"))
	require.NoError(t, err)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "avery@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLoginUnknownEmailLooksLikeWrongPassword(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestTokenClaims(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)

	resp, err := svc.Register(context.Background(), models.RegisterRequest{
		Email:    "root@example.com",
		Password: "correct horse battery",
		FullName: "Root Admin",
		Role:     models.RoleAdmin,
	})
	require.NoError(t, err)

	parsed, err := jwt.Parse(resp.AccessToken, func(token *jwt.Token) (any, error) {
		return []byte(testSecret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, resp.User.ID, claims["sub"])
	assert.Equal(t, "root@example.com", claims["email"])
	assert.Equal(t, models.RoleAdmin, claims["role"])

	exp, err := claims.GetExpirationTime()
	require.NoError(t, err)
	remaining := time.Until(exp.Time)
	assert.Greater(t, remaining, 29*time.Minute)
	assert.LessOrEqual(t, remaining, 30*time.Minute)
}

func TestMe(t *testing.T) {
	svc := NewService(newFakeRepo(), testSecret)
	ctx := context.Background()

	reg, err := svc.Register(ctx, registerReq("avery@example.com"))
	require.NoError(t, err)

	me, err := svc.Me(ctx, reg.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "avery@example.com", me.Email)

	_, err = svc.Me(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
