// Command server runs the BileMo catalog API.
//
//	@title						BileMo API
//	@version					1.0
//	@description				Read-only phone catalog and customer user directory.
//	@BasePath					/api
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Type "Bearer" followed by a space and the JWT token.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	_ "github.com/bilemo/catalog-api/docs"
	"github.com/bilemo/catalog-api/internal/api"
	"github.com/bilemo/catalog-api/internal/core/ports"
	"github.com/bilemo/catalog-api/internal/core/service"
	"github.com/bilemo/catalog-api/internal/core/validation"
	"github.com/bilemo/catalog-api/internal/infrastructure/cache"
	"github.com/bilemo/catalog-api/internal/infrastructure/config"
	"github.com/bilemo/catalog-api/internal/infrastructure/crypto"
	"github.com/bilemo/catalog-api/internal/infrastructure/db/mongo"
	"github.com/bilemo/catalog-api/internal/infrastructure/db/redis"
	httpserver "github.com/bilemo/catalog-api/internal/infrastructure/http"
	"github.com/bilemo/catalog-api/internal/infrastructure/http/handlers"
	"github.com/bilemo/catalog-api/internal/infrastructure/queue"
	"github.com/bilemo/catalog-api/pkg/logger"
)

const serviceName = "bilemo-api"

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: serviceName,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server stopped with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database, AppName: serviceName})
	if err != nil {
		return err
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	productRepo := mongo.NewProductRepository(db)
	userRepo := mongo.NewUserRepository(db)
	if err := productRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	readiness := map[string]handlers.Pinger{"mongo": handlers.MongoPinger(db)}

	var (
		store  cache.Store
		locker ports.OwnerLocker
	)
	switch cfg.Cache.Backend {
	case config.CacheBackendRedis:
		rdb, err := redis.Connect(ctx, redis.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			ClientName: serviceName,
		})
		if err != nil {
			return err
		}
		defer func() { _ = rdb.Close() }()
		store = redis.NewCacheStore(rdb)
		locker = redis.NewOwnerLock(rdb, logger.For("owner_lock"))
		readiness["redis"] = handlers.RedisPinger(rdb)
	default:
		log.Warn().Msg("in-memory cache and owner lock, run a single instance only")
		store = cache.NewMemoryStore()
		locker = service.NewLocalOwnerLock()
	}

	retries := queue.NewDispatcher(cfg.Cache.Workers, store, logger.For("invalidation"))
	retries.Start(ctx)
	responseCache := cache.New(store, retries, cfg.Cache.TTL, logger.For("cache"))

	engine := validation.New()
	hasher := crypto.NewBcryptHasher(cfg.BcryptCost)

	e := api.NewRouter(api.Dependencies{
		Products:   service.NewProductService(productRepo, responseCache, logger.For("products")),
		Users:      service.NewUserService(userRepo, hasher, responseCache, locker, engine, logger.For("users")),
		Auth:       service.NewAuthService(userRepo, hasher, cfg.JWTSecret, cfg.JWTTTL, logger.For("auth")),
		Validator:  engine,
		JWTSecret:  cfg.JWTSecret,
		LoginRate:  cfg.LoginRate,
		LoginBurst: cfg.LoginBurst,
		Logger:     logger.For("http"),
		Readiness:  readiness,
		Metrics:    prometheus.DefaultRegisterer,
		Swagger:    true,
	})

	return httpserver.Serve(ctx, e, ":"+cfg.Port, cfg.ShutdownTimeout, log)
}
