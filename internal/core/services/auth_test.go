package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mingle/internal/core/domain"
	"mingle/pkg/apperr"
)

func newAuthService(users *fakeUserRepo) *AuthService {
	return NewAuthService(testLogger(), users, NewTokenService(testAuthConfig()))
}

func validSignUp() domain.SignUpRequest {
	return domain.SignUpRequest{
		Email:    "alice@example.com",
		Username: "alice",
		Name:     "Alice",
		Password: "secret1",
	}
}

func TestSignUpAndSignIn(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newAuthService(users)

	signedUp, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)
	assert.NotEmpty(t, signedUp.AccessToken)
	assert.NotEmpty(t, signedUp.RefreshToken)

	// The stored password is a hash, never the plaintext.
	require.Len(t, users.rows, 1)
	assert.NotEqual(t, "secret1", users.rows[0].Password)

	signedIn, err := svc.SignIn(context.Background(), domain.SignInRequest{
		Username: "alice",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, signedUp.UserID, signedIn.UserID)

	// Email works as the login identifier too.
	_, err = svc.SignIn(context.Background(), domain.SignInRequest{
		Username: "alice@example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
}

func TestSignUpRejectsTakenIdentity(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newAuthService(users)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	dup := validSignUp()
	_, err = svc.SignUp(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))

	dup.Email = "other@example.com"
	_, err = svc.SignUp(context.Background(), dup)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConflict, apperr.CodeOf(err))
}

func TestSignUpValidation(t *testing.T) {
	svc := newAuthService(&fakeUserRepo{})

	for name, mutate := range map[string]func(*domain.SignUpRequest){
		"bad email":      func(r *domain.SignUpRequest) { r.Email = "not-an-email" },
		"long username":  func(r *domain.SignUpRequest) { r.Username = "waytoolongname" },
		"short password": func(r *domain.SignUpRequest) { r.Password = "abc" },
	} {
		t.Run(name, func(t *testing.T) {
			req := validSignUp()
			mutate(&req)
			_, err := svc.SignUp(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
		})
	}
}

func TestSignInFailures(t *testing.T) {
	users := &fakeUserRepo{}
	svc := newAuthService(users)

	_, err := svc.SignUp(context.Background(), validSignUp())
	require.NoError(t, err)

	_, err = svc.SignIn(context.Background(), domain.SignInRequest{Username: "nobody", Password: "secret1"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeNotFound, apperr.CodeOf(err))

	_, err = svc.SignIn(context.Background(), domain.SignInRequest{Username: "alice", Password: "wrong1"})
	require.Error(t, err)
	assert.Equal(t, apperr.CodeBadRequest, apperr.CodeOf(err))
}
