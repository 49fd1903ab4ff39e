package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/turismo/turismo-api/docs"
	"github.com/turismo/turismo-api/internal/api/handler"
	"github.com/turismo/turismo-api/internal/api/middleware"
	"github.com/turismo/turismo-api/internal/core/ports"
	"github.com/turismo/turismo-api/internal/infrastructure/http/handlers"
)

// Services are the application services exposed over HTTP.
type Services struct {
	Auth          ports.AuthService
	Roles         ports.RoleService
	Users         ports.UserService
	Emprendedores ports.EmprendedorService
	Reviews       ports.ReviewService
}

// Options carries the cross-cutting dependencies of the router.
type Options struct {
	Tokens    ports.TokenCodec
	Policy    *middleware.Policy // DefaultPolicy when nil
	Readiness []handlers.Dependency
	Log       zerolog.Logger
	// Registry receives the HTTP metrics. The default registry is used when
	// nil; either way /metrics also exposes the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(svc Services, opts Options) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	policy := opts.Policy
	if policy == nil {
		policy = middleware.DefaultPolicy()
	}

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if opts.Registry != nil {
		registerer = opts.Registry
		gatherer = prometheus.Gatherers{opts.Registry, prometheus.DefaultGatherer}
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "turismo",
		Registerer: registerer,
	}))
	e.Use(middleware.Gate(opts.Tokens, policy, opts.Log))

	// --- Operational endpoints ---
	e.GET("/health", handlers.NewHealthHandler().Liveness)
	e.GET("/health/ready", handlers.NewReadinessHandler(opts.Readiness...).Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/doc/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// --- Auth ---
	authHandler := handler.NewAuthHandler(svc.Auth, svc.Roles)
	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/register", authHandler.Register)
	auth.GET("/roles", authHandler.Roles)
	auth.POST("/init-roles", authHandler.InitRoles)

	legacyHandler := handler.NewLegacyUserHandler(svc.Auth)
	api.POST("/users/register", legacyHandler.Register)
	api.POST("/users/login", legacyHandler.Login)

	// --- Admin ---
	roleHandler := handler.NewRoleHandler(svc.Roles)
	roles := api.Group("/admin/roles")
	roles.GET("", roleHandler.List)
	roles.POST("", roleHandler.Create)
	roles.POST("/init", roleHandler.Init)
	roles.GET("/name/:name", roleHandler.GetByName)
	roles.GET("/:id", roleHandler.Get)
	roles.PUT("/:id", roleHandler.Update)
	roles.DELETE("/:id", roleHandler.Delete)

	userHandler := handler.NewUserHandler(svc.Users)
	users := api.Group("/admin/users")
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	// --- Emprendedores & reviews ---
	empHandler := handler.NewEmprendedorHandler(svc.Emprendedores, svc.Reviews)
	emp := api.Group("/emprendedores")
	emp.GET("", empHandler.List)
	emp.POST("", empHandler.Create)
	emp.GET("/:id", empHandler.Get)
	emp.PUT("/:id", empHandler.Update)
	emp.DELETE("/:id", empHandler.Delete)
	emp.GET("/:id/resenas", empHandler.ListReviews)
	emp.POST("/:id/resenas", empHandler.CreateReview)
	emp.PUT("/:id/resenas/:review_id/estado", empHandler.UpdateReviewStatus)
	emp.DELETE("/:id/resenas/:review_id", empHandler.DeleteReview)

	// --- Migration ---
	migrationHandler := handler.NewMigrationHandler(svc.Roles)
	api.POST("/migracion/setup", migrationHandler.Setup)
	api.GET("/migracion/status", migrationHandler.Status)

	return e
}
