package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"github.com/bilemo/catalog-api/internal/api/handler"
	"github.com/bilemo/catalog-api/internal/api/middleware"
	"github.com/bilemo/catalog-api/internal/core/domain"
	"github.com/bilemo/catalog-api/internal/core/ports"
	"github.com/bilemo/catalog-api/internal/core/validation"
	"github.com/bilemo/catalog-api/internal/infrastructure/http/handlers"
)

// Dependencies are the collaborators NewRouter wires into the routes.
type Dependencies struct {
	Products  ports.ProductService
	Users     ports.UserService
	Auth      ports.AuthService
	Validator *validation.Engine
	JWTSecret string
	Logger    zerolog.Logger

	// LoginRate and LoginBurst throttle /api/login_check per client IP.
	// A zero LoginRate disables the limiter.
	LoginRate  float64
	LoginBurst int

	// Readiness lists the dependencies probed by /health/ready.
	Readiness map[string]handlers.Pinger
	// Metrics enables HTTP metrics and /metrics when non-nil.
	Metrics prometheus.Registerer
	// Swagger mounts the API docs under /swagger.
	Swagger bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator(deps.Validator)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Namespace:  "bilemo",
			Registerer: deps.Metrics,
		}))
		e.GET("/metrics", echoprometheus.NewHandler())
	}

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	productHandler := handler.NewProductHandler(deps.Products, deps.Validator)
	userHandler := handler.NewUserHandler(deps.Users)
	authMiddleware := middleware.Auth(deps.JWTSecret)

	g := e.Group("/api")

	// --- Auth routes ---
	g.POST("/login_check", authHandler.Login, loginLimiter(deps.LoginRate, deps.LoginBurst)...)

	// --- Catalog (any authenticated role) ---
	products := g.Group("/products", authMiddleware, middleware.RBAC(domain.RoleUser))
	products.GET("", productHandler.List)
	products.GET("/:id", productHandler.Get)

	// --- User directory (customers and admins) ---
	users := g.Group("/users", authMiddleware, middleware.RBAC(domain.RoleCustomer))
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)

	if deps.Swagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

func loginLimiter(perSecond float64, burst int) []echo.MiddlewareFunc {
	if perSecond <= 0 {
		return nil
	}
	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(perSecond),
		Burst:     max(burst, 1),
		ExpiresIn: 5 * time.Minute,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		DenyHandler: func(echo.Context, string, error) error {
			return echo.ErrTooManyRequests
		},
	})}
}
