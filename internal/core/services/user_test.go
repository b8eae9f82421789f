package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

func seedUser(t *testing.T, repo *fakeUserRepo, username, email string) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), domain.User{
		Username: username,
		Email:    email,
		Password: "hashed",
		Name:     "Someone",
	})
	require.NoError(t, err)
	return u
}

func TestUserFindByID(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(testLogger(), repo)
	seeded := seedUser(t, repo, "bob", "bob@example.com")

	resp, err := svc.FindByID(context.Background(), seeded.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Username)

	_, err = svc.FindByID(context.Background(), 404)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))
}

func TestUserUpdateMergesFields(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(testLogger(), repo)
	seeded := seedUser(t, repo, "bob", "bob@example.com")

	name := "Robert"
	resp, err := svc.Update(context.Background(), seeded.ID, domain.UpdateUserRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Robert", resp.Name)
	assert.Equal(t, "bob", resp.Username)
	assert.Equal(t, "bob@example.com", resp.Email)
}

func TestUserUpdateRejectsTakenUsername(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(testLogger(), repo)
	seedUser(t, repo, "bob", "bob@example.com")
	other := seedUser(t, repo, "carol", "carol@example.com")

	taken := "bob"
	_, err := svc.Update(context.Background(), other.ID, domain.UpdateUserRequest{Username: &taken})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	// Re-submitting your own current username is not a conflict.
	own := "carol"
	_, err = svc.Update(context.Background(), other.ID, domain.UpdateUserRequest{Username: &own})
	require.NoError(t, err)
}
