package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"portfolio-backend/internal/config"
	"portfolio-backend/internal/infrastructure/cache"
	"portfolio-backend/internal/infrastructure/database"
	"portfolio-backend/internal/infrastructure/storage"
	"portfolio-backend/pkg/jwt"
	"portfolio-backend/pkg/logger"

	portfolioHandler "portfolio-backend/internal/domains/portfolio/handler"
	portfolioRepo "portfolio-backend/internal/domains/portfolio/repository"
	portfolioService "portfolio-backend/internal/domains/portfolio/service"
	skillHandler "portfolio-backend/internal/domains/skill/handler"
	skillRepo "portfolio-backend/internal/domains/skill/repository"
	userRepo "portfolio-backend/internal/domains/user/repository"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton built once at startup, in dependency order.
type Container struct {
	// ===== INFRASTRUCTURE =====
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *cache.RedisClient
	Storage    *storage.MinIOStorage
	JWTManager *jwt.Manager

	// ===== REPOSITORIES =====
	PortfolioRepo portfolioRepo.PortfolioRepository
	UserRepo      userRepo.UserRepository
	SkillRepo     skillRepo.SkillRepository

	// ===== SERVICES =====
	PortfolioService portfolioService.PortfolioService

	// ===== HANDLERS =====
	PortfolioHandler *portfolioHandler.Handler
	SkillHandler     *skillHandler.Handler
}

func NewContainer() (*Container, error) {
	c := &Container{}

	// 1. Config
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment)

	// 2. Infrastructure
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbCfg, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}
	c.DB = database.NewPostgresDB(dbCfg)
	if err := c.DB.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c.Redis = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	c.Storage, err = storage.NewMinIOStorage(cfg.MinIO)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}

	c.JWTManager = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// 3. Repositories
	c.PortfolioRepo = portfolioRepo.NewPostgresPortfolioRepository(c.DB.Pool)
	c.UserRepo = userRepo.NewPostgresUserRepository(c.DB.Pool)
	c.SkillRepo = skillRepo.NewPostgresSkillRepository(c.DB.Pool)

	// 4. Services
	var guard portfolioService.ViewGuard
	if cfg.View.DedupEnabled {
		guard = cache.NewRedisViewGuard(c.Redis)
	}
	c.PortfolioService = portfolioService.NewPortfolioService(
		c.PortfolioRepo,
		c.UserRepo,
		c.Storage,
		c.SkillRepo,
		guard,
	)

	// 5. Handlers
	c.PortfolioHandler = portfolioHandler.NewHandler(c.PortfolioService)
	c.SkillHandler = skillHandler.NewHandler(c.SkillRepo)

	log.Info().Msg("dependency container initialized")
	return c, nil
}

// Cleanup releases infrastructure connections in reverse order.
func (c *Container) Cleanup() {
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
	log.Info().Msg("dependency container cleaned up")
}
