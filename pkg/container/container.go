package container

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"furrymatch-backend/internal/config"
	ownerHandler "furrymatch-backend/internal/domains/owner/handler"
	"furrymatch-backend/internal/domains/owner/model"
	ownerRepo "furrymatch-backend/internal/domains/owner/repository"
	ownerService "furrymatch-backend/internal/domains/owner/service"
	petHandler "furrymatch-backend/internal/domains/pet/handler"
	petRepo "furrymatch-backend/internal/domains/pet/repository"
	petService "furrymatch-backend/internal/domains/pet/service"
	photoHandler "furrymatch-backend/internal/domains/photo/handler"
	photoRepo "furrymatch-backend/internal/domains/photo/repository"
	photoService "furrymatch-backend/internal/domains/photo/service"
	"furrymatch-backend/internal/domains/user"
	userHandler "furrymatch-backend/internal/domains/user/handler"
	userRepo "furrymatch-backend/internal/domains/user/repository"
	userService "furrymatch-backend/internal/domains/user/service"
	infraCache "furrymatch-backend/internal/infrastructure/cache"
	"furrymatch-backend/internal/infrastructure/database"
	"furrymatch-backend/internal/infrastructure/queue"
	"furrymatch-backend/internal/infrastructure/storage"
	"furrymatch-backend/internal/shared/crud"
	"furrymatch-backend/internal/shared/response"
	"furrymatch-backend/pkg/cache"
	"furrymatch-backend/pkg/jwt"
)

const ownerCachePrefix = "owner"

// Container holds the whole dependency graph of the API and the worker.
//
// Initialization order:
//  1. Config
//  2. Infrastructure (DB, Redis, MinIO, asynq client)
//  3. Repositories
//  4. Services
//  5. Handlers
type Container struct {
	// Infrastructure
	Config      *config.Config
	DB          *database.PostgresDB
	Redis       *infraCache.RedisClient // nil when Redis was unreachable at boot
	Cache       cache.Cache
	Storage     *storage.MinIOStorage
	AsynqClient *asynq.Client
	JWTManager  *jwt.Manager
	Alerts      *response.Alerts

	// Repositories
	UserRepo  user.Repository
	OwnerRepo *crud.CachedRepository[*model.Owner]
	PetRepo   petRepo.Repository
	PhotoRepo photoRepo.Repository

	// Services
	UserService  user.Service
	OwnerService *ownerService.OwnerService
	PetService   *petService.PetService
	PhotoService *photoService.PhotoService

	// Handlers
	UserHandler  *userHandler.UserHandler
	OwnerHandler *ownerHandler.OwnerHandler
	PetHandler   *petHandler.PetHandler
	PhotoHandler *photoHandler.PhotoHandler
}

// NewContainer builds the dependency graph. A failing database or object
// store aborts the boot; Redis is optional for caching.
func NewContainer(ctx context.Context) (*Container, error) {
	log.Info().Msg("Initializing DI container")

	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg
	log.Info().Str("environment", cfg.App.Environment).Msg("Config loaded")

	if err := c.initDatabase(ctx); err != nil {
		return nil, err
	}

	c.initCache(ctx)

	minio, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init object storage: %w", err)
	}
	c.Storage = minio
	log.Info().Str("endpoint", cfg.MinIO.Endpoint).Str("bucket", cfg.MinIO.Bucket).Msg("Object storage ready")

	c.AsynqClient = queue.NewClient(cfg.Redis)
	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	c.Alerts = response.NewAlerts(cfg.App.ClientAppName)

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("DI container initialized")
	return c, nil
}

func (c *Container) initDatabase(ctx context.Context) error {
	dbConfig, err := c.Config.LoadDatabaseConfig()
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	if c.Config.Database.AutoMigrate {
		if err := migrateUp(dbConfig); err != nil {
			return err
		}
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return fmt.Errorf("database health check failed: %w", err)
	}

	c.DB = db
	return nil
}

func migrateUp(dbConfig *database.DBConfig) error {
	m, err := database.NewMigrator(dbConfig)
	if err != nil {
		return fmt.Errorf("failed to init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// initCache falls back to a no-op cache when Redis is down.
func (c *Container) initCache(ctx context.Context) {
	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis connection failed (non-critical), caching disabled")
		_ = rc.Close()
		c.Cache = cache.NewNoop()
		return
	}
	c.Redis = rc
	c.Cache = rc
	log.Info().Str("host", c.Config.Redis.Host).Msg("Redis connected")
}

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresRepository(pool)
	c.OwnerRepo = crud.NewCachedRepository(
		ownerRepo.NewPostgresRepository(pool),
		c.Cache,
		ownerCachePrefix,
		c.Config.Redis.CacheTTL,
		model.New,
	)
	c.PetRepo = petRepo.NewPostgresRepository(pool)
	c.PhotoRepo = photoRepo.NewPostgresRepository(pool)
}

func (c *Container) initServices() {
	images := &storage.ImageProcessor{MaxSize: c.Config.MinIO.MaxUploadSize}

	c.UserService = userService.NewUserService(c.UserRepo, c.JWTManager)
	c.PhotoService = photoService.NewPhotoService(c.PhotoRepo, c.Storage, images, c.AsynqClient)
	c.OwnerService = ownerService.NewOwnerService(c.OwnerRepo, c.UserService, c.PhotoService)
	c.PetService = petService.NewPetService(c.PetRepo, c.OwnerService, c.PhotoService)
}

func (c *Container) initHandlers() {
	c.UserHandler = userHandler.NewUserHandler(c.UserService, c.Alerts)
	c.OwnerHandler = ownerHandler.NewOwnerHandler(c.OwnerService, c.Alerts)
	c.PetHandler = petHandler.NewPetHandler(c.PetService, c.Alerts)
	c.PhotoHandler = photoHandler.NewPhotoHandler(c.PhotoService, c.Alerts, c.Config.MinIO.MaxUploadSize)
}

// Cleanup releases every connection. Safe on a partially built container.
func (c *Container) Cleanup() {
	log.Info().Msg("Cleaning up container resources")

	if c.AsynqClient != nil {
		if err := c.AsynqClient.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close asynq client")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	if c.DB != nil {
		c.DB.Close()
		log.Info().Msg("Database connections closed")
	}
}
