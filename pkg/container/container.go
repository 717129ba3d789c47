package container

import (
	"context"
	"fmt"
	"time"

	"library-catalog/internal/config"
	authorHandler "library-catalog/internal/domains/author/handler"
	authorRepo "library-catalog/internal/domains/author/repository"
	authorService "library-catalog/internal/domains/author/service"
	bookHandler "library-catalog/internal/domains/book/handler"
	bookRepo "library-catalog/internal/domains/book/repository"
	bookService "library-catalog/internal/domains/book/service"
	infraCache "library-catalog/internal/infrastructure/cache"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/internal/infrastructure/memstore"
	"library-catalog/pkg/cache"

	"github.com/rs/zerolog/log"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds the whole dependency graph of the API process.
// Exactly one of DB and Memory is set, depending on STORAGE_DRIVER.
type Container struct {
	// Infrastructure
	Config *config.Config
	DB     *database.PostgresDB
	Memory *memstore.Store
	Redis  *infraCache.RedisClient
	Cache  cache.Cache

	// Repositories
	AuthorRepo authorRepo.Repository
	BookRepo   bookRepo.Repository

	// Services
	AuthorService authorService.ServiceInterface
	BookService   bookService.ServiceInterface

	// Handlers
	AuthorHandler *authorHandler.AuthorHandler
	BookHandler   *bookHandler.Handler
}

// NewContainer loads configuration from the environment and builds the graph.
func NewContainer() (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return New(cfg)
}

// New builds the graph for cfg in dependency order: storage, cache,
// repositories, services, handlers. On error every resource opened so far
// is released.
func New(cfg *config.Config) (*Container, error) {
	log.Info().Str("env", cfg.App.Environment).Str("storage", cfg.Storage.Driver).Msg("initializing container")

	c := &Container{Config: cfg, Cache: cache.Noop{}}

	if err := c.initStorage(); err != nil {
		c.Cleanup()
		return nil, err
	}
	if err := c.initCache(); err != nil {
		c.Cleanup()
		return nil, err
	}

	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Msg("container initialized")
	return c, nil
}

func (c *Container) initStorage() error {
	switch c.Config.Storage.Driver {
	case config.DriverMemory:
		c.Memory = memstore.New()
		log.Warn().Msg("using in-memory storage, data is lost on exit")
		return nil

	case config.DriverPostgres:
		if c.Config.Storage.AutoMigrate {
			if err := migrateUp(c.Config.Database); err != nil {
				return err
			}
		}

		db := database.NewPostgresDB(c.Config.Database)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := db.Connect(ctx); err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		c.DB = db
		return nil
	}

	return fmt.Errorf("unknown storage driver %q", c.Config.Storage.Driver)
}

func migrateUp(cfg *database.DBConfig) error {
	m, err := database.NewMigrator(cfg)
	if err != nil {
		return fmt.Errorf("failed to open migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// initCache connects Redis when configured. A Redis outage at startup is not
// fatal; the API runs uncached.
func (c *Container) initCache() error {
	if !c.Config.CacheEnabled() {
		return nil
	}

	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("redis unavailable, caching disabled")
		_ = rc.Close()
		return nil
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client, "catalog:")
	return nil
}

func (c *Container) initRepositories() {
	if c.Memory != nil {
		c.AuthorRepo = c.Memory.Authors()
		c.BookRepo = c.Memory.Books()
	} else {
		timeout := c.Config.Database.QueryTimeout
		c.AuthorRepo = authorRepo.NewPostgresRepository(c.DB.Pool, timeout)
		c.BookRepo = bookRepo.NewPostgresRepository(c.DB.Pool, timeout)
	}

	if c.Redis != nil {
		c.AuthorRepo = authorRepo.NewCachedRepository(c.AuthorRepo, c.Cache, c.Config.Cache.TTL)
		c.BookRepo = bookRepo.NewCachedRepository(c.BookRepo, c.Cache, c.Config.Cache.TTL)
	}
}

func (c *Container) initServices() {
	c.AuthorService = authorService.NewAuthorService(c.AuthorRepo, c.BookRepo)
	c.BookService = bookService.NewBookService(c.BookRepo, c.AuthorRepo)
}

func (c *Container) initHandlers() {
	c.AuthorHandler = authorHandler.NewAuthorHandler(c.AuthorService)
	c.BookHandler = bookHandler.NewHandler(c.BookService)
}

// Health reports the status of each backing service: "ok", "disabled" or
// the error text.
func (c *Container) Health(ctx context.Context) map[string]string {
	status := map[string]string{"storage": "ok", "cache": "disabled"}

	if c.DB != nil {
		if err := c.DB.HealthCheck(ctx); err != nil {
			status["storage"] = err.Error()
		}
	}

	if c.Redis != nil {
		status["cache"] = "ok"
		if err := c.Cache.Ping(ctx); err != nil {
			status["cache"] = err.Error()
		}
	}

	return status
}

// Cleanup releases every connection the container opened.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
		log.Info().Msg("database connections closed")
	}
	if c.Memory != nil {
		c.Memory.Close()
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis")
		}
	}
}
