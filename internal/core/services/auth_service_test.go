package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/config"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/pkg/jwt"
	"realestate-management/internal/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const testSecret = "test_secret_key_0123456789abcdefghij"

type authFixture struct {
	svc     *AuthService
	users   *fakeUserRepo
	hasher  *plainHasher
	clock   *fakeClock
	codec   *jwt.Codec
	metrics *metrics.Metrics
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cfg := config.SecurityConfig{
		JWTSecret:        testSecret,
		TokenTTL:         time.Hour,
		MaxLoginAttempts: 5,
		LockDuration:     30 * time.Minute,
		GuestUsername:    "guest",
		GuestPassword:    "guest123",
	}
	clock := newFakeClock()
	users := newFakeUserRepo()
	hasher := &plainHasher{}
	codec := jwt.NewCodec(cfg.JWTSecret, cfg.TokenTTL, jwt.WithClock(clock.Now))
	m := metrics.New()

	svc := NewAuthService(cfg, users, codec, hasher, m, zap.NewNop(), clock.Now)
	return &authFixture{svc: svc, users: users, hasher: hasher, clock: clock, codec: codec, metrics: m}
}

func (f *authFixture) seedUser(username, role, pw string) *models.User {
	return f.users.seed(models.User{
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
		Password:    "hashed:" + pw,
		Role:        role,
		Enabled:     true,
	})
}

func (f *authFixture) login(username, pw string) (*domain.LoginResult, error) {
	return f.svc.Authenticate(context.Background(), LoginInput{Username: username, Password: pw})
}

func TestAuthenticate_Success(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.seedUser("bob", "USER", "correct-password")

	result, err := f.login("bob", "correct-password")
	require.NoError(t, err)

	assert.Equal(t, "Bearer", result.Type)
	assert.Equal(t, domain.UserInfo{ID: bob.ID, Username: "bob", DisplayName: "bob", Email: "bob@example.com", Role: domain.RoleUser}, result.UserInfo)

	claims, err := f.codec.Decode(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "bob", claims.Subject)
	assert.Equal(t, "USER", claims.Role)
	assert.Equal(t, bob.ID, claims.UserID)

	stored := f.users.get(bob.ID)
	require.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, f.clock.Now(), *stored.LastLoginAt)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeSuccess)))
}

func TestAuthenticate_LockoutScenario(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.seedUser("bob", "USER", "correct-password")

	for i := 0; i < 5; i++ {
		_, err := f.login("bob", "wrong-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}

	stored := f.users.get(bob.ID)
	require.NotNil(t, stored.AccountLockedUntil)
	lockedUntil := *stored.AccountLockedUntil
	assert.Equal(t, f.clock.Now().Add(30*time.Minute), lockedUntil)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AccountLockouts))

	_, err := f.login("bob", "correct-password")
	require.ErrorIs(t, err, domain.ErrAccountLocked)
	var de *domain.Error
	require.True(t, errors.As(err, &de))
	assert.Equal(t, int64(1800), de.RemainingSeconds)

	stored = f.users.get(bob.ID)
	assert.Equal(t, 6, stored.LoginFailedAttempts)
	assert.Equal(t, lockedUntil, *stored.AccountLockedUntil)

	f.clock.Advance(30 * time.Minute)

	_, err = f.login("bob", "correct-password")
	require.NoError(t, err)

	stored = f.users.get(bob.ID)
	assert.Equal(t, 0, stored.LoginFailedAttempts)
	assert.Nil(t, stored.AccountLockedUntil)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AccountLockouts))
}

func TestAuthenticate_LockNotExtendedByFailuresWhileLocked(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.seedUser("bob", "USER", "correct-password")

	for i := 0; i < 5; i++ {
		_, _ = f.login("bob", "wrong-password")
	}
	lockedUntil := *f.users.get(bob.ID).AccountLockedUntil

	for i := 0; i < 3; i++ {
		f.clock.Advance(5 * time.Minute)
		_, err := f.login("bob", "wrong-password")
		assert.ErrorIs(t, err, domain.ErrAccountLocked)
	}

	assert.Equal(t, lockedUntil, *f.users.get(bob.ID).AccountLockedUntil)
}

func TestAuthenticate_ExpiredLockLiftsOnFailedAttempt(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.seedUser("bob", "USER", "correct-password")

	for i := 0; i < 5; i++ {
		_, _ = f.login("bob", "wrong-password")
	}
	f.clock.Advance(31 * time.Minute)

	_, err := f.login("bob", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	stored := f.users.get(bob.ID)
	assert.Equal(t, 1, stored.LoginFailedAttempts)
	assert.Nil(t, stored.AccountLockedUntil)
}

func TestAuthenticate_DisabledOrDeletedNeverPass(t *testing.T) {
	f := newAuthFixture(t)
	disabled := f.users.seed(models.User{Username: "dora", Email: "dora@example.com", Password: "hashed:pw-12345678", Role: "USER", Enabled: false})
	deleted := f.users.seed(models.User{
		Username: "dan", Email: "dan@example.com", Password: "hashed:pw-12345678", Role: "USER", Enabled: true,
		DeletedAt: gorm.DeletedAt{Time: f.clock.Now(), Valid: true},
	})

	for _, name := range []string{"dora", "dan"} {
		_, err := f.login(name, "pw-12345678")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, name)
	}

	assert.Equal(t, 1, f.users.get(disabled.ID).LoginFailedAttempts)
	assert.Equal(t, 1, f.users.get(deleted.ID).LoginFailedAttempts)
}

func TestAuthenticate_UnknownUser(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.login("nobody", "whatever")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuthenticate_EmptyInput(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.login("", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthenticate_LastLoginFailureIsSwallowed(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser("bob", "USER", "correct-password")
	f.users.lastLoginErr = errors.New("db down")

	result, err := f.login("bob", "correct-password")
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
}

func TestAuthenticate_StorageFailureIsSystemError(t *testing.T) {
	f := newAuthFixture(t)
	f.users.lockErr = errors.New("connection refused")

	_, err := f.login("bob", "correct-password")
	assert.ErrorIs(t, err, domain.ErrAuthenticationSystem)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.LoginAttempts.WithLabelValues(metrics.OutcomeError)))
}

func TestGuestLogin(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser("guest", "GUEST", "guest123")

	result, err := f.svc.GuestLogin(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.RoleGuest, result.UserInfo.Role)
}

func TestValidateToken(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.seedUser("bob", "USER", "correct-password")
	ctx := context.Background()

	token, err := f.codec.Issue("bob", "USER", bob.ID)
	require.NoError(t, err)

	info := f.svc.ValidateToken(ctx, token)
	require.NotNil(t, info)
	assert.Equal(t, bob.ID, info.ID)

	t.Run("different key", func(t *testing.T) {
		other := jwt.NewCodec("another_secret_key_0123456789abcdef", time.Hour, jwt.WithClock(f.clock.Now))
		forged, err := other.Issue("bob", "ADMIN", bob.ID)
		require.NoError(t, err)
		assert.Nil(t, f.svc.ValidateToken(ctx, forged))
	})

	t.Run("unknown account", func(t *testing.T) {
		ghost, err := f.codec.Issue("ghost", "USER", 99)
		require.NoError(t, err)
		assert.Nil(t, f.svc.ValidateToken(ctx, ghost))
	})

	t.Run("disabled account", func(t *testing.T) {
		carol := f.seedUser("carol", "USER", "pw-12345678")
		carolToken, err := f.codec.Issue("carol", "USER", carol.ID)
		require.NoError(t, err)
		require.NotNil(t, f.svc.ValidateToken(ctx, carolToken))

		require.NoError(t, f.users.UpdateProfile(ctx, carol.ID, map[string]interface{}{"enabled": false}))
		assert.Nil(t, f.svc.ValidateToken(ctx, carolToken))
	})

	t.Run("deleted account", func(t *testing.T) {
		dave := f.seedUser("dave", "USER", "pw-12345678")
		daveToken, err := f.codec.Issue("dave", "USER", dave.ID)
		require.NoError(t, err)

		require.NoError(t, f.users.Delete(ctx, dave.ID))
		assert.Nil(t, f.svc.ValidateToken(ctx, daveToken))
	})

	t.Run("renamed account keeps its token", func(t *testing.T) {
		erin := f.seedUser("erin", "USER", "pw-12345678")
		erinToken, err := f.codec.Issue("erin", "USER", erin.ID)
		require.NoError(t, err)

		require.NoError(t, f.users.UpdateProfile(ctx, erin.ID, map[string]interface{}{"username": "erin2"}))
		renamed := f.svc.ValidateToken(ctx, erinToken)
		require.NotNil(t, renamed)
		assert.Equal(t, erin.ID, renamed.ID)
		assert.Equal(t, "erin2", renamed.Username)
	})

	t.Run("expired", func(t *testing.T) {
		f.clock.Advance(time.Hour)
		assert.Nil(t, f.svc.ValidateToken(ctx, token))
	})
}

func TestTokenStatus(t *testing.T) {
	f := newAuthFixture(t)
	bob := f.seedUser("bob", "USER", "correct-password")

	token, err := f.codec.Issue("bob", "USER", bob.ID)
	require.NoError(t, err)

	status, err := f.svc.TokenStatus(context.Background(), token)
	require.NoError(t, err)
	assert.True(t, status.Valid)
	assert.Equal(t, int64(60), status.RemainingMinutes)

	_, err = f.svc.TokenStatus(context.Background(), "garbage")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestRegister_DuplicateUsernameHasNoSideEffects(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser("admin", "ADMIN", "admin123456")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username: "admin",
		Password: "another-password",
		Email:    "new@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateIdentity)
	assert.ErrorIs(t, err, domain.ErrDuplicateUsername)
	assert.Equal(t, 0, f.users.createCalls)
	assert.Equal(t, 0, f.hasher.hashCalls)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture(t)
	f.seedUser("bob", "USER", "correct-password")

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username: "robert",
		Password: "another-password",
		Email:    "bob@example.com",
	})

	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
	assert.Equal(t, 0, f.users.createCalls)
}

func TestRegister_Success(t *testing.T) {
	f := newAuthFixture(t)

	info, err := f.svc.Register(context.Background(), RegisterInput{
		Username:    "alice",
		Password:    "alice-password",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, info.Role)

	stored := f.users.get(info.ID)
	assert.True(t, stored.Enabled)
	assert.Equal(t, "hashed:alice-password", stored.Password)
	assert.Equal(t, 0, stored.LoginFailedAttempts)
}

func TestRegister_Validation(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Register(context.Background(), RegisterInput{
		Username: "al",
		Password: "short",
		Email:    "not-an-email",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, 0, f.users.createCalls)
}
