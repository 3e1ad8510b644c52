package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/menuhub/menu-api/docs"
	"github.com/menuhub/menu-api/internal/api/handler"
	"github.com/menuhub/menu-api/internal/api/middleware"
	"github.com/menuhub/menu-api/internal/core/ports"
)

// Dependencies are the collaborators the router wires into handlers.
// Mongo and Redis may be nil when the service runs without them.
type Dependencies struct {
	Auth  ports.AuthService
	Guard ports.Authorizer
	Menu  ports.MenuService

	Mongo *mongo.Database
	Redis *redis.Client

	Logger zerolog.Logger

	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "menuapi",
		Registerer: deps.Registerer,
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	userHandler := handler.NewUserHandler(deps.Guard)
	menuHandler := handler.NewMenuHandler(deps.Menu, deps.Guard)
	bearer := middleware.RequireBearer()

	// --- Auth routes ---
	e.POST("/token", authHandler.Login)

	// --- Protected routes (each handler authorizes the bearer token) ---
	e.GET("/users/me", userHandler.Me, bearer)
	e.GET("/users/me/", userHandler.Me, bearer)
	e.GET("/users/me/items", userHandler.Items, bearer)
	e.GET("/users/me/items/", userHandler.Items, bearer)

	e.GET("/", menuHandler.List, bearer)
	e.GET("/menu/:item_id", menuHandler.Get, bearer)
	e.POST("/menu/add/:item_id/:item_name", menuHandler.Add, bearer)
	e.PUT("/menu/update/:item_id/:item_name", menuHandler.Rename, bearer)
	e.DELETE("/menu/remove/:item_id", menuHandler.Remove, bearer)

	// --- Health probes, metrics and docs (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
