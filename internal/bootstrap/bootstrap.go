// Package bootstrap wires configuration into the adapters and services
// shared by the API server and the walletctl CLI.
package bootstrap

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"

	"sui-transfer-gateway/config"
	httpHandler "sui-transfer-gateway/internal/adapter/http/handler"
	"sui-transfer-gateway/internal/adapter/signer"
	"sui-transfer-gateway/internal/adapter/storage/memory"
	pgStorage "sui-transfer-gateway/internal/adapter/storage/postgres"
	redisStorage "sui-transfer-gateway/internal/adapter/storage/redis"
	"sui-transfer-gateway/internal/adapter/sui"
	"sui-transfer-gateway/internal/core/domain"
	"sui-transfer-gateway/internal/core/ports"
	"sui-transfer-gateway/internal/service"
	"sui-transfer-gateway/pkg/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// App holds every long-lived component of a running gateway.
type App struct {
	Config   config.Config
	Keystore *signer.Keystore
	Sui      *sui.Client

	Redis      *goredis.Client // nil when redis.enabled is false
	Pool       *pgxpool.Pool   // nil when database.enabled is false
	Journal    *pgStorage.JournalRepo
	RateLimits *redisStorage.RateLimitStore

	Registry *prometheus.Registry // nil without metrics
	Metrics  *metrics.Metrics

	Transfers *service.TransferServiceImpl
	Balances  *service.BalanceServiceImpl
	Sessions  *service.SessionServiceImpl

	HealthCheckers []ports.HealthChecker

	log zerolog.Logger
}

// Options adjusts what New builds.
type Options struct {
	// WithMetrics registers Prometheus collectors on a fresh registry.
	WithMetrics bool
	// Pool replaces the connection pool opened from cfg.Database when the
	// journal is enabled. The caller keeps ownership of it.
	Pool pgStorage.Pool
}

// New connects to every configured dependency and assembles the services.
// On error, anything already opened is closed.
func New(ctx context.Context, cfg config.Config, opts Options, log zerolog.Logger) (_ *App, err error) {
	app := &App{Config: cfg, log: log}
	defer func() {
		if err != nil {
			app.Close()
		}
	}()

	if opts.WithMetrics {
		app.Registry = prometheus.NewRegistry()
		app.Registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		app.Metrics = metrics.New(app.Registry)
	}

	app.Keystore, err = signer.LoadKeystore(cfg.Keystore.Path)
	if err != nil {
		return nil, fmt.Errorf("loading keystore: %w", err)
	}
	log.Info().Int("accounts", len(app.Keystore.Accounts())).Str("path", cfg.Keystore.Path).Msg("Keystore loaded")

	app.Sui, err = sui.Dial(ctx, cfg.Network.Endpoint(), cfg.Network.RequestTimeout, cfg.Breaker, app.Metrics, log)
	if err != nil {
		return nil, fmt.Errorf("dialing sui full node: %w", err)
	}
	app.HealthCheckers = append(app.HealthCheckers, app.Sui)

	var (
		guard   ports.InFlightGuard
		revoked ports.RevocationStore
	)
	if cfg.Redis.Enabled {
		app.Redis, err = redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		guard = redisStorage.NewInFlightGuard(app.Redis)
		revoked = redisStorage.NewRevocationStore(app.Redis)
		app.RateLimits = redisStorage.NewRateLimitStore(app.Redis)
		app.HealthCheckers = append(app.HealthCheckers, redisStorage.NewHealthCheck(app.Redis))
		log.Info().Msg("Redis connected")
	} else {
		guard = memory.NewInFlightGuard()
		revoked = memory.NewRevocationStore()
		log.Info().Msg("Redis disabled, using in-process guard and revocation store")
	}

	var journal ports.TransferJournal
	if cfg.Database.Enabled {
		pool := opts.Pool
		if pool == nil {
			app.Pool, err = pgStorage.NewPool(ctx, cfg.Database, log)
			if err != nil {
				return nil, fmt.Errorf("connecting to postgres: %w", err)
			}
			pool = app.Pool
		}
		app.Journal = pgStorage.NewJournalRepo(pool)
		if err = app.Journal.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("preparing transfer journal: %w", err)
		}
		journal = app.Journal
		app.HealthCheckers = append(app.HealthCheckers, pgStorage.NewHealthCheck(pool))
		log.Info().Msg("PostgreSQL connected")
	}

	network := domain.Network(cfg.Network.Active)

	secret := cfg.Session.Secret
	if secret == "" {
		secret, err = ephemeralSecret()
		if err != nil {
			return nil, err
		}
		log.Warn().Msg("session.secret is empty, sessions will not survive a restart")
	}
	tokens := service.NewJWTSessionTokens(secret, cfg.Session.Expiry, cfg.Session.Issuer)
	app.Sessions = service.NewSessionService(app.Keystore, tokens, revoked, network, log)

	app.Balances = service.NewBalanceService(app.Sui, cfg.Network.CoinType, app.Metrics, log)

	submitter := sui.NewSubmitter(app.Sui, app.Keystore, cfg.Network.CoinType, cfg.Network.GasBudget, log)
	app.Transfers = service.NewTransferService(
		service.NewTransferBuilder(),
		service.NewTransferExecutor(submitter, log),
		service.NewStatusPresenter(cfg.Network.ExplorerBase, network),
		guard,
		journal,
		network,
		app.Metrics,
		log,
	)

	return app, nil
}

// Router builds the HTTP surface over the assembled services.
func (a *App) Router() *gin.Engine {
	deps := httpHandler.RouterDeps{
		TransferSvc:    a.Transfers,
		BalanceSvc:     a.Balances,
		SessionSvc:     a.Sessions,
		Network:        a.Config.Network,
		RateLimitStore: a.RateLimits,
		HealthCheckers: a.HealthCheckers,
		Mode:           a.Config.Server.Mode,
		Logger:         a.log,
	}
	if a.Registry != nil {
		deps.Metrics = promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})
	}
	return httpHandler.SetupRouter(deps)
}

// Server returns an http.Server bound to the configured address.
func (a *App) Server() *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:           a.Router(),
		ReadHeaderTimeout: a.Config.Network.RequestTimeout,
	}
}

// Close releases every connection New opened.
func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Close()
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.log.Warn().Err(err).Msg("closing redis client")
		}
	}
	if a.Sui != nil {
		a.Sui.Close()
	}
}

func ephemeralSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
