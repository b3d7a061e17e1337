package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleamarket/config"
	"fleamarket/internal/cache"
	"fleamarket/internal/events"
	"fleamarket/internal/logger"
	"fleamarket/internal/metrics"
	"fleamarket/internal/service"
	"fleamarket/internal/storage"
	"fleamarket/server"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLogger := logger.New(logger.Config{Level: cfg.Logger.Level, Encoding: cfg.Logger.Encoding})
	defer appLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := config.OpenDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		appLogger.Fatalf("Failed to connect to database: %v", err)
	}
	migrate := config.Migrate
	if cfg.ResetDB {
		appLogger.Warn("DB_RESET is set, dropping all tables")
		migrate = config.ResetAndMigrate
	}
	if err := migrate(db, appLogger); err != nil {
		appLogger.Fatalf("Failed to migrate database: %v", err)
	}
	if cfg.SeedDemoUsers {
		config.SeedUsers(db, appLogger)
	}

	store, err := newStorage(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatalf("Failed to initialize image storage: %v", err)
	}

	var itemCache cache.ItemCache = cache.NoopItemCache{}
	if cfg.Redis.Addr != "" {
		client, err := cache.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			appLogger.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer client.Close()
		itemCache = cache.NewRedisItemCache(client, cfg.Redis.TTL)
		appLogger.Infof("Item cache enabled at %s", cfg.Redis.Addr)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.NATS.URL != "" {
		nc, err := events.NewNatsPublisher(cfg.NATS.URL)
		if err != nil {
			appLogger.Fatalf("Failed to connect to NATS: %v", err)
		}
		publisher = nc
		appLogger.Infof("Publishing item events to %s", cfg.NATS.URL)
	}
	defer publisher.Close()

	m := metrics.New("fleamarket")
	items := service.NewItemService(db, store, itemCache, publisher, m, appLogger)
	users := service.NewUserService(db, appLogger)

	app := server.New(server.Deps{
		Config:  cfg,
		DB:      db,
		Logger:  appLogger,
		Storage: store,
		Items:   items,
		Users:   users,
		Metrics: m,
	})

	go func() {
		<-ctx.Done()
		appLogger.Info("Shutting down server")
		if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
			appLogger.Errorf("Server shutdown failed: %v", err)
		}
	}()

	appLogger.Infof("🚀 Server starting on host %s in port %s", cfg.HOST, cfg.AppPort)
	if err := app.Listen(cfg.HOST + ":" + cfg.AppPort); err != nil {
		appLogger.Fatalf("Failed to start server: %v", err)
	}
}

func newStorage(ctx context.Context, cfg *config.Config, log logger.Logger) (storage.Storage, error) {
	if cfg.Storage.Driver == "minio" {
		return storage.NewMinioStorage(ctx,
			cfg.Storage.MinIOEndpoint,
			cfg.Storage.MinIOAccessKey,
			cfg.Storage.MinIOSecretKey,
			cfg.Storage.MinIOBucket,
			cfg.Storage.MinIOUseSSL,
			log,
		)
	}
	return storage.NewLocalStorage(cfg.Storage.UploadDir, cfg.Storage.URLPrefix, log)
}
