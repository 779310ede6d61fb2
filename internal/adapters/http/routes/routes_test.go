package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"realestate-management/internal/adapters/http/handlers"
	"realestate-management/internal/adapters/http/middleware"
	"realestate-management/internal/adapters/persistence/models"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/config"
	"realestate-management/internal/core/domain"
	"realestate-management/internal/core/services"
	"realestate-management/internal/pkg/jwt"
	"realestate-management/internal/pkg/metrics"
	"realestate-management/internal/pkg/password"
	"realestate-management/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// singleUserRepo holds one account. Only the calls made by a login are implemented.
type singleUserRepo struct {
	repositories.UserRepository

	mu   sync.Mutex
	user models.User
}

func (r *singleUserRepo) WithLockedAccount(_ context.Context, username string, fn func(user *models.User)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if username != r.user.Username {
		fn(nil)
		return nil
	}
	fn(&r.user)
	return nil
}

func (r *singleUserRepo) UpdateLastLogin(_ context.Context, _ uint, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.user.LastLoginAt = &at
	return nil
}

func newLoginApp(t *testing.T, sec config.SecurityConfig) *fiber.App {
	t.Helper()
	hasher := password.NewBcryptHasher(4)
	hashed, err := hasher.Hash("correct-password")
	require.NoError(t, err)

	users := &singleUserRepo{user: models.User{
		ID:       7,
		Username: "bob",
		Email:    "bob@example.com",
		Password: hashed,
		Role:     string(domain.RoleUser),
		Enabled:  true,
	}}

	codec := jwt.NewCodec(sec.JWTSecret, sec.TokenTTL)
	authService := services.NewAuthService(sec, users, codec, hasher, metrics.New(), zap.NewNop(), nil)
	authHandler := handlers.NewAuthHandler(authService, nil)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	setupAuthRoutes(app.Group("/api/v1"), authHandler, middleware.AuthMiddleware(authService), sec.MaxLoginAttempts)
	return app
}

func postLogin(t *testing.T, app *fiber.App, username, pw string) (int, response.ErrorBody) {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + pw + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var out response.ErrorBody
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestLoginRoute_LockoutIsReportedAs423(t *testing.T) {
	sec := config.SecurityConfig{
		JWTSecret:        "routes_test_secret_0123456789abcdef",
		TokenTTL:         time.Hour,
		MaxLoginAttempts: 5,
		LockDuration:     30 * time.Minute,
	}
	app := newLoginApp(t, sec)

	for attempt := 1; attempt <= sec.MaxLoginAttempts; attempt++ {
		status, body := postLogin(t, app, "bob", "wrong-password")
		require.Equal(t, fiber.StatusUnauthorized, status, "attempt %d", attempt)
		assert.Equal(t, "AUTHENTICATION_ERROR", body.ErrorCode)
	}

	status, body := postLogin(t, app, "bob", "wrong-password")
	require.Equal(t, fiber.StatusLocked, status)
	assert.Equal(t, "ACCOUNT_LOCKED", body.ErrorCode)
	require.NotNil(t, body.RemainingSeconds)
	assert.InDelta(t, 1800, *body.RemainingSeconds, 2)

	// the correct password does not open a locked account either
	status, _ = postLogin(t, app, "bob", "correct-password")
	assert.Equal(t, fiber.StatusLocked, status)
}

func TestLoginRoute_RateLimitAboveLockoutThreshold(t *testing.T) {
	sec := config.SecurityConfig{
		JWTSecret:        "routes_test_secret_0123456789abcdef",
		TokenTTL:         time.Hour,
		MaxLoginAttempts: 5,
		LockDuration:     30 * time.Minute,
	}
	app := newLoginApp(t, sec)

	limit := sec.MaxLoginAttempts * 4
	for i := 0; i < limit; i++ {
		status, _ := postLogin(t, app, "ghost", "whatever-password")
		require.NotEqual(t, fiber.StatusTooManyRequests, status, "request %d", i+1)
	}

	status, _ := postLogin(t, app, "ghost", "whatever-password")
	assert.Equal(t, fiber.StatusTooManyRequests, status)
}

type tokenTable map[string]*domain.UserInfo

func (t tokenTable) ValidateToken(_ context.Context, token string) *domain.UserInfo {
	return t[token]
}

func TestMetricsRoute_AdminOnly(t *testing.T) {
	tokens := tokenTable{
		"admin-token": {ID: 1, Username: "admin", Role: domain.RoleAdmin},
		"user-token":  {ID: 2, Username: "bob", Role: domain.RoleUser},
	}
	m := metrics.New()
	m.ObserveLockout()

	app := fiber.New()
	setupMetricsRoute(app, m, middleware.AuthMiddleware(tokens))

	get := func(token string) int {
		req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
		if token != "" {
			req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusUnauthorized, get(""))
	assert.Equal(t, fiber.StatusForbidden, get("user-token"))
	assert.Equal(t, fiber.StatusOK, get("admin-token"))
}
