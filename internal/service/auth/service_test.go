package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/portal-api/internal/model"
	"github.com/jwalitptl/portal-api/internal/repository"
	"github.com/jwalitptl/portal-api/pkg/auth"
	apperrors "github.com/jwalitptl/portal-api/pkg/errors"
)

type fakeUserRepo struct {
	users map[string]*model.User
}

func newFakeUserRepo(users ...*model.User) *fakeUserRepo {
	f := &fakeUserRepo{users: make(map[string]*model.User)}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeUserRepo) Create(_ context.Context, u *model.User) error {
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (f *fakeUserRepo) List(_ context.Context) ([]*model.User, error) { return nil, nil }

func (f *fakeUserRepo) PromoteToAdmin(_ context.Context, _ uuid.UUID) error { return nil }

func newTestService(users ...*model.User) *Service {
	return NewService(newFakeUserRepo(users...), auth.NewJWTService("test-secret", time.Hour))
}

func TestIssueCredentialExistingUser(t *testing.T) {
	svc := newTestService(&model.User{Email: "b@x.com", Role: model.RolePatient})

	resp, err := svc.IssueCredential(context.Background(), "b@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	identity, err := svc.VerifyCredential(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", identity.Email)
}

func TestIssueCredentialUnknownUser(t *testing.T) {
	svc := newTestService()

	_, err := svc.IssueCredential(context.Background(), "b@x.com")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestVerifyCredentialGarbage(t *testing.T) {
	svc := newTestService()

	_, err := svc.VerifyCredential(context.Background(), "garbage")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestVerifyCredentialExpired(t *testing.T) {
	repo := newFakeUserRepo(&model.User{Email: "b@x.com"})
	svc := NewService(repo, auth.NewJWTService("test-secret", -time.Minute))

	resp, err := svc.IssueCredential(context.Background(), "b@x.com")
	require.NoError(t, err)

	_, err = svc.VerifyCredential(context.Background(), resp.AccessToken)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestRequireRole(t *testing.T) {
	svc := newTestService(
		&model.User{Email: "patient@x.com", Role: model.RolePatient},
		&model.User{Email: "admin@x.com", Role: model.RoleAdmin},
	)

	err := svc.RequireRole(context.Background(), &model.Identity{Email: "patient@x.com"}, model.RoleAdmin)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))

	err = svc.RequireRole(context.Background(), &model.Identity{Email: "admin@x.com"}, model.RoleAdmin)
	assert.NoError(t, err)

	// Patient-level access is satisfied by any stored account.
	err = svc.RequireRole(context.Background(), &model.Identity{Email: "patient@x.com"}, model.RolePatient)
	assert.NoError(t, err)
}

func TestRequireRoleUnknownUser(t *testing.T) {
	svc := newTestService()

	err := svc.RequireRole(context.Background(), &model.Identity{Email: "ghost@x.com"}, model.RoleAdmin)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrForbidden))
}
