package handler

import (
	"net/http"

	"sui-transfer-gateway/config"
	"sui-transfer-gateway/internal/adapter/http/middleware"
	redisStore "sui-transfer-gateway/internal/adapter/storage/redis"
	"sui-transfer-gateway/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransferSvc    ports.TransferService
	BalanceSvc     ports.BalanceService
	SessionSvc     ports.SessionService
	Network        config.NetworkConfig
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	Metrics        http.Handler // nil = no /metrics route
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	mode := deps.Mode
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(64 << 10))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	v1 := r.Group("/api/v1", middleware.SessionResolver(deps.SessionSvc))

	v1.GET("/network", Network(deps.Network))

	sessionHandler := NewSessionHandler(deps.SessionSvc)
	session := v1.Group("/session", rl("session"))
	{
		session.POST("", sessionHandler.Connect)
		session.DELETE("", sessionHandler.Disconnect)
		session.GET("", sessionHandler.Current)
	}

	balanceHandler := NewBalanceHandler(deps.BalanceSvc)
	v1.GET("/balance", middleware.RequireSession(), rl("balance"), balanceHandler.GetBalance)

	// No RequireSession: a disconnected sender is reported as a status line.
	transferHandler := NewTransferHandler(deps.TransferSvc)
	v1.POST("/transfers", rl("transfers"), transferHandler.Send)

	return r
}
