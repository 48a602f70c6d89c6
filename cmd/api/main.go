package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.uber.org/zap"

	_ "github.com/noah-isme/ecoquest-api/api/swagger"
	"github.com/noah-isme/ecoquest-api/internal/handler"
	"github.com/noah-isme/ecoquest-api/internal/repository"
	"github.com/noah-isme/ecoquest-api/internal/server"
	"github.com/noah-isme/ecoquest-api/internal/service"
	"github.com/noah-isme/ecoquest-api/pkg/cache"
	"github.com/noah-isme/ecoquest-api/pkg/config"
	"github.com/noah-isme/ecoquest-api/pkg/database"
	"github.com/noah-isme/ecoquest-api/pkg/events"
	"github.com/noah-isme/ecoquest-api/pkg/logger"
	"github.com/noah-isme/ecoquest-api/pkg/storage"
)

// @title EcoQuest API
// @version 1.0.0
// @description Assignments, submissions and NGO notifications for the EcoQuest platform
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	closers := []server.Closer{{Name: "postgres", Close: db.Close}}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Name, logr); err != nil {
			_ = db.Close()
			return err
		}
	}

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, profile cache disabled", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		closers = append(closers, server.Closer{Name: "redis", Close: redisClient.Close})
	}

	metricsSvc := service.NewMetricsService()
	cacheRepo := repository.NewCacheRepository(redisClient)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Redis.ProfileCacheTTL, logr, redisClient != nil)

	files, fileHandler, err := newFileStore(ctx, cfg)
	if err != nil {
		_ = db.Close()
		return err
	}

	var publisher events.Publisher = events.Noop{}
	if cfg.Kafka.Enabled {
		kafkaPublisher, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix)
		if err != nil {
			_ = db.Close()
			return fmt.Errorf("init kafka publisher: %w", err)
		}
		dispatcher := events.NewDispatcher(kafkaPublisher, logr)
		dispatcher.Start(context.Background())
		closers = append(closers, server.Closer{Name: "kafka", Close: kafkaPublisher.Close})
		closers = append(closers, server.Closer{Name: "event dispatcher", Close: func() error {
			dispatcher.Stop()
			return nil
		}})
		publisher = dispatcher
		logr.Info("kafka publishing enabled", zap.Strings("brokers", cfg.Kafka.Brokers))
	}

	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	authSvc := service.NewAuthService(userRepo, service.NewValidator(), logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            cfg.JWT.Issuer,
	})
	identitySvc := service.NewIdentityService(profileRepo, cacheSvc, cfg.Redis.ProfileCacheTTL, logr)
	lifecycleSvc := service.NewLifecycleService(assignmentRepo, submissionRepo, profileRepo, publisher, metricsSvc, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, files, publisher, metricsSvc, logr, cfg.Storage.MaxFileSizeBytes)
	dashboardSvc := service.NewDashboardService(lifecycleSvc, lifecycleSvc, notificationSvc, logr)
	exportSvc := service.NewExportService(lifecycleSvc, logr, nil, nil)

	router := server.NewRouter(cfg, server.Handlers{
		Auth:          handler.NewAuthHandler(authSvc),
		Assignments:   handler.NewAssignmentHandler(lifecycleSvc, exportSvc),
		Notifications: handler.NewNotificationHandler(notificationSvc),
		Dashboard:     handler.NewDashboardHandler(dashboardSvc),
		Metrics:       handler.NewMetricsHandler(metricsSvc, db.PingContext, cacheRepo.Ping),
		Files:         fileHandler,
	}, server.Guards{
		Tokens:    authSvc,
		Actors:    identitySvc,
		Metrics:   metricsSvc,
		ServeDocs: cfg.Env != config.EnvProduction,
	}, logr)

	logr.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("storage_driver", cfg.Storage.Driver),
		zap.Bool("cache", redisClient != nil),
		zap.Bool("kafka", cfg.Kafka.Enabled),
	)
	return server.New(cfg.Port, router, logr, closers...).Run()
}

// newFileStore returns the attachment store and, for the local driver, the
// handler serving its signed links.
func newFileStore(ctx context.Context, cfg *config.Config) (service.FileStore, *handler.FileHandler, error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverB2:
		store, err := storage.NewB2Storage(ctx, cfg.Storage.B2AccountID, cfg.Storage.B2AppKey, cfg.Storage.B2Bucket)
		if err != nil {
			return nil, nil, fmt.Errorf("init b2 storage: %w", err)
		}
		return store, nil, nil
	case config.StorageDriverLocal, "":
		signer := storage.NewSignedURLSigner(cfg.Storage.SignedURLSecret, cfg.Storage.SignedURLTTL)
		baseURL := cfg.PublicBaseURL + cfg.APIPrefix + "/files"
		store, err := storage.NewLocalStorage(cfg.Storage.LocalDir, baseURL, signer)
		if err != nil {
			return nil, nil, fmt.Errorf("init local storage: %w", err)
		}
		return store, handler.NewFileHandler(store), nil
	default:
		return nil, nil, fmt.Errorf("unknown FILE_STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
}
