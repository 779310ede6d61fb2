package routes

import (
	"time"

	"realestate-management/internal/adapters/http/handlers"
	"realestate-management/internal/adapters/http/middleware"
	"realestate-management/internal/adapters/persistence/repositories"
	"realestate-management/internal/config"
	"realestate-management/internal/core/services"
	"realestate-management/internal/pkg/jwt"
	"realestate-management/internal/pkg/metrics"
	"realestate-management/internal/pkg/password"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps carries the process-wide collaborators routes are built from
type Deps struct {
	DB      *gorm.DB
	Config  *config.Config
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

// Setup configures all routes for the application
func Setup(app *fiber.App, deps Deps) {
	cfg := deps.Config
	sec := cfg.Security

	// Repositories
	userRepo := repositories.NewUserRepository(deps.DB)
	realestateRepo := repositories.NewRealestateRepository(deps.DB)
	txm := repositories.NewTxManager(deps.DB)

	// Shared primitives
	codec := jwt.NewCodec(sec.JWTSecret, sec.TokenTTL, jwt.WithIssuer(sec.Issuer))
	hasher := password.NewBcryptHasher(sec.BcryptCost)

	// Services
	authService := services.NewAuthService(sec, userRepo, codec, hasher, deps.Metrics, deps.Log.Named("auth"), nil)
	accountService := services.NewAccountService(userRepo, txm, hasher, deps.Log.Named("account"), nil)
	adminService := services.NewAdminService(userRepo, deps.Log.Named("admin"))
	realestateService := services.NewRealestateService(realestateRepo, txm, deps.Metrics, deps.Log.Named("realestate"))

	// Handlers
	healthHandler := handlers.NewHealthHandler(deps.DB, cfg.AppMode)
	authHandler := handlers.NewAuthHandler(authService, accountService)
	adminHandler := handlers.NewAdminHandler(adminService)
	realestateHandler := handlers.NewRealestateHandler(realestateService)

	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)
	app.Get("/swagger/*", middleware.PublicCache(time.Hour), swagger.HandlerDefault)

	apiV1 := app.Group("/api/v1")
	requireAuth := middleware.AuthMiddleware(authService)

	setupMetricsRoute(app, deps.Metrics, requireAuth)
	setupAuthRoutes(apiV1, authHandler, requireAuth, sec.MaxLoginAttempts)
	setupAdminRoutes(apiV1, adminHandler, requireAuth)
	setupRealestateRoutes(apiV1, realestateHandler, requireAuth)
}

// setupMetricsRoute exposes the prometheus registry to ADMIN callers only
func setupMetricsRoute(router fiber.Router, m *metrics.Metrics, requireAuth fiber.Handler) {
	router.Get("/metrics", middleware.NoStore(), requireAuth, middleware.AdminOnly(), adaptor.HTTPHandler(m.Handler()))
}

func setupAuthRoutes(router fiber.Router, h *handlers.AuthHandler, requireAuth fiber.Handler, maxLoginAttempts int) {
	auth := router.Group("/auth", middleware.NoStore())
	credentials := middleware.AuthRateLimiter(maxLoginAttempts)

	// Public
	auth.Get("/health", h.Health)
	auth.Post("/login", credentials, h.Login)
	auth.Post("/guest-login", credentials, h.GuestLogin)
	auth.Post("/register", credentials, h.Register)
	auth.Get("/validate", h.Validate)

	// Protected
	auth.Get("/me", requireAuth, h.Me)
	auth.Put("/user", requireAuth, h.UpdateUser)
	auth.Delete("/user", requireAuth, h.DeleteUser)
	auth.Post("/logout", requireAuth, h.Logout)
}

func setupAdminRoutes(router fiber.Router, h *handlers.AdminHandler, requireAuth fiber.Handler) {
	admin := router.Group("/admin", middleware.NoStore(), requireAuth, middleware.AdminOnly())

	admin.Get("/users", h.ListUsers)
	admin.Put("/users/:id/status", h.UpdateStatus)
}

func setupRealestateRoutes(router fiber.Router, h *handlers.RealestateHandler, requireAuth fiber.Handler) {
	realestate := router.Group("/realestate", middleware.NoStore(), requireAuth)

	realestate.Get("/", h.Search)
	realestate.Get("/:id", h.Get)
	realestate.Post("/", h.Register)
	realestate.Put("/", h.Update)
	realestate.Delete("/:id", h.Delete)
}
