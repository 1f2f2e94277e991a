// Package server assembles the gin engine and runs the HTTP listener.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"minishop/internal/auth"
	"minishop/internal/config"
	"minishop/internal/handlers"
	"minishop/internal/metrics"
	"minishop/internal/middleware"
	"minishop/internal/store"
)

// Deps are the collaborators the routes are built from.
type Deps struct {
	Users    store.UserStore
	Products store.ProductStore
	Orders   store.OrderStore
	Hasher   auth.Hasher
	Issuer   auth.Issuer

	// StoreInfo backs the diagnostics endpoint; nil reports the store as
	// not initialized.
	StoreInfo handlers.StoreInfo
	Env       handlers.DiagnosticEnv
}

func NewRouter(cfg config.Config, deps Deps, log *slog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.RequestContext(log),
		middleware.AccessLog(),
		middleware.Metrics(),
		middleware.Recovery(),
		middleware.CORS(middleware.DefaultCORSOptions(cfg.CORSOrigins)),
		middleware.Timeout(cfg.RequestTimeout),
	)

	issuer := deps.Issuer
	if issuer == nil {
		issuer = auth.RandomIssuer{}
	}
	accounts := auth.NewService(deps.Users, deps.Hasher, issuer)

	r.GET("/", handlers.Home())
	r.GET("/test", handlers.Diagnostics(deps.StoreInfo, deps.Env))
	if cfg.MetricsEnabled {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	api := r.Group("/api")
	api.Use(middleware.Authenticate(auth.NewAuthenticator(deps.Users)))
	{
		api.POST("/auth/signup", handlers.Signup(accounts))
		api.POST("/auth/login", handlers.Login(accounts))
		api.GET("/me", middleware.Guard(auth.Authenticated), handlers.Me())

		api.GET("/products", handlers.GetProducts(deps.Products))
		admin := api.Group("/products", middleware.AdminAuth())
		{
			admin.POST("", handlers.CreateProduct(deps.Products))
			admin.PUT("/:id", handlers.UpdateProduct(deps.Products))
			admin.DELETE("/:id", handlers.DeleteProduct(deps.Products))
		}

		api.POST("/orders", handlers.CreateOrder(deps.Orders))
		api.GET("/orders", middleware.Guard(auth.OwnerOrAdmin), handlers.GetOrders(deps.Orders))
	}

	return r
}
