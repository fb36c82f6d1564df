package businessflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/amirphl/AdaptMuse/app/dto"
	"github.com/amirphl/AdaptMuse/app/services"
	"github.com/amirphl/AdaptMuse/repository"
	testutil "github.com/amirphl/AdaptMuse/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthFlow(t *testing.T, allow AllowList) (AuthFlow, *memUserRepo) {
	t.Helper()
	tokens, err := services.NewTokenService(
		15*time.Minute,
		24*time.Hour,
		"test-issuer",
		"test-audience",
		false,
		"",
		"",
		"flow-test-secret-key-with-enough-entropy-1234",
		services.NewMemoryTokenRevocationStore(),
	)
	require.NoError(t, err)

	users := newMemUserRepo()
	return NewAuthFlow(users, nil, tokens, nil, allow, bcrypt.MinCost), users
}

func TestSignupAndLogin(t *testing.T) {
	flow, users := newTestAuthFlow(t, AllowList{"jane@example.com"})
	ctx := context.Background()

	signup, err := flow.Signup(ctx, &dto.SignupRequest{
		Email:       "  Jane@Example.com ",
		Password:    testutil.TestPassword,
		DisplayName: "Jane",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", signup.User.Email)
	assert.True(t, signup.User.CanGenerate)
	assert.Equal(t, "Bearer", signup.TokenType)
	assert.Equal(t, int64(900), signup.ExpiresIn)
	assert.NotEmpty(t, signup.AccessToken)
	assert.NotEmpty(t, signup.RefreshToken)

	stored, err := users.ByEmail(ctx, "jane@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, testutil.TestPassword, stored.PasswordHash)

	t.Run("DuplicateEmail", func(t *testing.T) {
		_, err := flow.Signup(ctx, &dto.SignupRequest{Email: "jane@example.com", Password: testutil.TestPassword, DisplayName: "J"})
		assert.True(t, IsEmailAlreadyExists(err))
	})

	t.Run("LoginSucceeds", func(t *testing.T) {
		res, err := flow.Login(ctx, &dto.LoginRequest{Email: "JANE@example.com", Password: testutil.TestPassword})
		require.NoError(t, err)
		assert.Equal(t, stored.ID, res.User.ID)
		assert.NotNil(t, res.User.LastLoginAt)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		_, err := flow.Login(ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "nope"})
		assert.True(t, IsInvalidCredentials(err))
	})

	t.Run("UnknownEmail", func(t *testing.T) {
		_, err := flow.Login(ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: testutil.TestPassword})
		assert.True(t, IsInvalidCredentials(err))
	})
}

func TestSignup_RunsInsideTransaction(t *testing.T) {
	tokens, err := services.NewTokenService(15*time.Minute, 24*time.Hour, "test-issuer", "test-audience",
		false, "", "", "flow-test-secret-key-with-enough-entropy-1234", services.NewMemoryTokenRevocationStore())
	require.NoError(t, err)

	type txMarker struct{}
	var runs int
	runner := func(ctx context.Context, fn func(context.Context) error) error {
		runs++
		return fn(context.WithValue(ctx, repository.TxContextKey, txMarker{}))
	}

	users := newMemUserRepo()
	flow := NewAuthFlow(users, runner, tokens, nil, nil, bcrypt.MinCost)
	ctx := context.Background()

	_, err = flow.Signup(ctx, &dto.SignupRequest{Email: "kim@example.com", Password: testutil.TestPassword, DisplayName: "Kim"})
	require.NoError(t, err)
	assert.Equal(t, 1, runs)
	require.NotNil(t, users.saveCtx)
	assert.Equal(t, txMarker{}, users.saveCtx.Value(repository.TxContextKey))

	_, err = flow.Signup(ctx, &dto.SignupRequest{Email: "kim@example.com", Password: testutil.TestPassword, DisplayName: "Kim"})
	assert.True(t, IsEmailAlreadyExists(err))
	assert.Equal(t, 2, runs)

	t.Run("RunnerFailure", func(t *testing.T) {
		failing := func(context.Context, func(context.Context) error) error { return errors.New("begin failed") }
		flow := NewAuthFlow(newMemUserRepo(), failing, tokens, nil, nil, bcrypt.MinCost)
		_, err := flow.Signup(ctx, &dto.SignupRequest{Email: "lee@example.com", Password: testutil.TestPassword, DisplayName: "Lee"})
		require.Error(t, err)
		be, ok := AsBusinessError(err)
		require.True(t, ok)
		assert.Equal(t, "SIGNUP_FAILED", be.Code)
	})
}

func TestAuthenticateAndLogout(t *testing.T) {
	flow, _ := newTestAuthFlow(t, nil)
	ctx := context.Background()

	res, err := flow.Signup(ctx, &dto.SignupRequest{Email: "sam@example.com", Password: testutil.TestPassword, DisplayName: "Sam"})
	require.NoError(t, err)
	assert.False(t, res.User.CanGenerate)

	caller, err := flow.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, caller.UserID)
	assert.Equal(t, "sam@example.com", caller.Email)

	me, err := flow.Me(ctx, *caller)
	require.NoError(t, err)
	assert.Equal(t, "Sam", me.DisplayName)

	_, err = flow.Authenticate(ctx, res.RefreshToken)
	assert.True(t, IsUnauthenticated(err), "refresh tokens are not access tokens")

	_, err = flow.Authenticate(ctx, "")
	assert.True(t, IsUnauthenticated(err))

	_, err = flow.Authenticate(ctx, "garbage")
	assert.True(t, IsUnauthenticated(err))

	require.NoError(t, flow.Logout(ctx, *caller))

	_, err = flow.Authenticate(ctx, res.AccessToken)
	require.Error(t, err)
	assert.True(t, IsUnauthenticated(err))
	be, ok := AsBusinessError(err)
	require.True(t, ok)
	assert.Equal(t, "TOKEN_REVOKED", be.Code)
}

func TestRefresh(t *testing.T) {
	flow, _ := newTestAuthFlow(t, nil)
	ctx := context.Background()

	res, err := flow.Signup(ctx, &dto.SignupRequest{Email: "ray@example.com", Password: testutil.TestPassword, DisplayName: "Ray"})
	require.NoError(t, err)

	refreshed, err := flow.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: res.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, refreshed.User.ID)
	assert.NotEqual(t, res.RefreshToken, refreshed.RefreshToken)

	_, err = flow.Refresh(ctx, &dto.RefreshTokenRequest{RefreshToken: res.RefreshToken})
	assert.True(t, IsUnauthenticated(err), "a rotated refresh token cannot be reused")
}
