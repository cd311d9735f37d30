package service

import (
	"context"
	"testing"

	"github.com/dgrijalva/jwt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheRmarkable/Common-Component-Backend/internal/config"
	"github.com/TheRmarkable/Common-Component-Backend/internal/domain"
)

const testPrivateKey = "test-key"

func userFixture() (*UserService, *fakeUsers, *fakeAccounts) {
	users := newFakeUsers()
	accounts := newFakeAccounts()
	cfg := &config.Config{PrivateKey: testPrivateKey}

	return NewUserService(users, accounts, cfg), users, accounts
}

func registerInput() RegisterInput {
	return RegisterInput{
		IdentityNumber: "9001015009087",
		Name:           "Jane",
		Surname:        "Doe",
		Email:          "jane@example.com",
		MobileNumber:   "+27115550100",
		Password:       "s3cret",
	}
}

func parseClaims(t *testing.T, token string) jwt.MapClaims {
	t.Helper()

	claims := jwt.MapClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testPrivateKey), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	return claims
}

func TestRegister(t *testing.T) {
	srv, users, accounts := userFixture()

	user, token, err := srv.Register(context.Background(), registerInput())
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, domain.RoleStandardUser, user.Role)
	assert.False(t, user.Verified)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	// A fresh ledger account is created and linked.
	require.NotEmpty(t, user.AccountID)
	_, err = accounts.Account(context.Background(), user.AccountID)
	require.NoError(t, err)

	stored, err := users.User(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.AccountID, stored.AccountID)

	claims := parseClaims(t, token)
	assert.Equal(t, user.ID, claims["sub"])
	assert.Equal(t, string(domain.RoleStandardUser), claims["role"])
}

func TestRegisterKeepsExplicitRole(t *testing.T) {
	srv, _, _ := userFixture()

	input := registerInput()
	input.Role = domain.RoleFinanceUser

	user, token, err := srv.Register(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, domain.RoleFinanceUser, user.Role)
	assert.Equal(t, string(domain.RoleFinanceUser), parseClaims(t, token)["role"])
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, _, _ := userFixture()

	_, _, err := srv.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, _, err = srv.Register(context.Background(), registerInput())
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestLogin(t *testing.T) {
	srv, _, _ := userFixture()

	user, _, err := srv.Register(context.Background(), registerInput())
	require.NoError(t, err)

	token, err := srv.Login("jane@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, parseClaims(t, token)["sub"])

	_, err = srv.Login("jane@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrIncorrectCredentials)

	_, err = srv.Login("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, domain.ErrIncorrectCredentials)
}

func TestVerify(t *testing.T) {
	srv, _, _ := userFixture()

	user, _, err := srv.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = srv.Verify(user.ID, domain.Principal{UserID: user.ID, Role: domain.RoleStandardUser})
	assert.ErrorIs(t, err, domain.ErrPermissionDenied)

	verified, err := srv.Verify(user.ID, financePrincipal)
	require.NoError(t, err)
	assert.True(t, verified.Verified)

	_, err = srv.Verify("missing", financePrincipal)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
