package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/declaro/taxsync/internal/config"
	"github.com/declaro/taxsync/internal/logger"
	"github.com/declaro/taxsync/internal/mock"
	"github.com/declaro/taxsync/internal/store"
	"github.com/declaro/taxsync/models"
)

func newTestAuthService(t *testing.T, ctrl *gomock.Controller) (AuthService, *mock.MockUserRepository) {
	t.Helper()

	users := mock.NewMockUserRepository(ctrl)
	cfg := config.App{
		TokenSignKey:  "test-sign-key",
		TokenIssuer:   "taxsync-test",
		TokenDuration: time.Hour,
	}
	return NewAuthService(users, cfg, logger.Nop()), users
}

// ── RegisterUser ─────────────────────────────────────────────────────────────

func TestAuthService_RegisterUser_HashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users := newTestAuthService(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, u models.User) (models.User, error) {
			// The repository must never see the plaintext password.
			assert.NotEqual(t, "secret", u.Password)
			require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")))
			u.UserID = 7
			return u, nil
		},
	)

	registered, err := svc.RegisterUser(ctx, models.User{Login: "alice", Password: "secret", Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), registered.UserID)
	assert.Equal(t, "alice", registered.Login)
}

func TestAuthService_RegisterUser_EmptyCredentials(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthService(t, ctrl)

	_, err := svc.RegisterUser(context.Background(), models.User{Login: "alice"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.RegisterUser(context.Background(), models.User{Password: "secret"})
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_RegisterUser_LoginTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users := newTestAuthService(t, ctrl)
	ctx := context.Background()

	users.EXPECT().CreateUser(ctx, gomock.Any()).Return(models.User{}, store.ErrLoginAlreadyExists)

	_, err := svc.RegisterUser(ctx, models.User{Login: "alice", Password: "secret"})
	assert.ErrorIs(t, err, store.ErrLoginAlreadyExists)
}

// ── Login ────────────────────────────────────────────────────────────────────

func TestAuthService_Login_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users := newTestAuthService(t, ctrl)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	stored := models.User{UserID: 3, Login: "alice", Password: string(hash)}
	users.EXPECT().FindUserByLogin(ctx, gomock.Any()).Return(stored, nil)

	found, err := svc.Login(ctx, models.User{Login: "alice", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), found.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users := newTestAuthService(t, ctrl)
	ctx := context.Background()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	users.EXPECT().FindUserByLogin(ctx, gomock.Any()).
		Return(models.User{UserID: 3, Login: "alice", Password: string(hash)}, nil)

	_, err = svc.Login(ctx, models.User{Login: "alice", Password: "not-secret"})
	assert.ErrorIs(t, err, ErrWrongPassword)
}

func TestAuthService_Login_UserNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, users := newTestAuthService(t, ctrl)
	ctx := context.Background()

	users.EXPECT().FindUserByLogin(ctx, gomock.Any()).Return(models.User{}, store.ErrUserNotFound)

	_, err := svc.Login(ctx, models.User{Login: "ghost", Password: "secret"})
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

// ── Tokens ───────────────────────────────────────────────────────────────────

func TestAuthService_TokenRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthService(t, ctrl)
	ctx := context.Background()

	token, err := svc.CreateToken(ctx, models.User{UserID: 42})
	require.NoError(t, err)
	require.NotEmpty(t, token.SignedString)

	parsed, err := svc.ParseToken(ctx, token.SignedString)
	require.NoError(t, err)
	assert.Equal(t, int64(42), parsed.UserID)
}

func TestAuthService_ParseToken_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newTestAuthService(t, ctrl)

	_, err := svc.ParseToken(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)

	// A token signed with a different key must be rejected too.
	other := NewAuthService(nil, config.App{
		TokenSignKey:  "different-key",
		TokenIssuer:   "taxsync-test",
		TokenDuration: time.Hour,
	}, logger.Nop())
	foreign, err := other.CreateToken(context.Background(), models.User{UserID: 1})
	require.NoError(t, err)

	_, err = svc.ParseToken(context.Background(), foreign.SignedString)
	assert.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
