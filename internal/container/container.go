package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"storefront/catalog/internal/cache"
	"storefront/catalog/internal/catalog"
	"storefront/catalog/internal/client"
	"storefront/catalog/internal/config"
	"storefront/catalog/internal/export"
	"storefront/catalog/internal/imageindex"
	"storefront/catalog/internal/normalize"
	"storefront/catalog/internal/repository"
	"storefront/catalog/internal/resolver"
	"storefront/catalog/internal/server"
	"storefront/catalog/internal/service"
	"storefront/catalog/internal/store"
)

// Container holds all initialized components
type Container struct {
	Config   *config.Config
	Store    store.ProductStore
	Resolver resolver.ImageResolver
	Cache    cache.ResponseCache
	Service  *service.Service
	Server   *server.Server

	db    *pgxpool.Pool
	redis *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	source, err := container.datasetSource(ctx)
	if err != nil {
		return nil, err
	}

	ttl := time.Duration(cfg.Catalog.CacheTTL) * time.Second
	images := imageindex.New(cfg.Catalog.ImagesDir, ttl, nil)
	normalizer := normalize.NewNormalizer(
		normalize.NewImageMapper(cfg.Catalog.ImageRoute, cfg.Catalog.ImagesPrefix, cfg.Catalog.PlaceholderImage),
		cfg.Catalog.FallbackCategory,
	)
	container.Store = store.NewProductStore(source, images, normalizer, ttl, nil)

	container.Resolver, err = resolver.NewImageResolver(images)
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to initialize image resolver: %w", err)
	}

	container.Cache = cache.NewNoopCache()
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		// Test connection
		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Cache = cache.NewRedisCache(rdb, cfg.Redis.KeyPrefix, time.Duration(cfg.Redis.ResponseTTL)*time.Second)
	}

	container.Service = service.NewService(container.Store, nil)

	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	container.Server = server.New(container.Service, container.Resolver, container.Cache, cfg.Catalog.ImageRoute)

	return container, nil
}

func (c *Container) datasetSource(ctx context.Context) (store.DatasetSource, error) {
	switch c.Config.Catalog.Source {
	case config.SourceHTTP:
		log.Infof("🌐 Loading products from %s", c.Config.Catalog.ProductsURL)
		return client.NewDatasetClient(c.Config.HTTPSource, c.Config.Catalog.ProductsURL), nil

	case config.SourcePostgres:
		db, err := pgxpool.New(ctx, c.Config.Database.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database pool: %w", err)
		}
		if err := db.Ping(ctx); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		log.Info("✅ Connected to Postgres successfully")
		c.db = db
		return repository.NewProductRepository(db, c.Config.Database.Table), nil

	default:
		log.Infof("📄 Loading products from %s", c.Config.Catalog.ProductsPath)
		return store.NewFileSource(c.Config.Catalog.ProductsPath), nil
	}
}

// Run serves HTTP until ctx is cancelled, then shuts the server down gracefully.
func (c *Container) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         c.Config.Server.Addr(),
		Handler:      c.Server.Handler(),
		ReadTimeout:  time.Duration(c.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(c.Config.Server.WriteTimeout) * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Infof("🚀 Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(c.Config.Server.ShutdownTimeout)*time.Second)
		defer cancel()
		log.Info("Shutting down HTTP server...")
		return srv.Shutdown(shutdownCtx)
	})

	if c.Config.Catalog.Warmup {
		g.Go(func() error {
			// A failed warmup is not fatal, requests retry the load.
			if err := c.Service.Warmup(ctx); err != nil {
				log.Warnf("⚠️ %v", err)
			}
			return nil
		})
	}

	return g.Wait()
}

// Export writes the served catalog to an xlsx workbook.
func (c *Container) Export(ctx context.Context, outputPath string) error {
	products, err := c.Service.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := export.WriteCatalog(products, catalog.Categories(products), outputPath); err != nil {
		return err
	}
	log.Infof("📊 Exported %d products to %s", len(products), outputPath)
	return nil
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.redis != nil {
		c.redis.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}
