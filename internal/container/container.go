package container

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"goviz/adapters/postgres"
	"goviz/internal"
	"goviz/internal/api"
	"goviz/internal/config"
	"goviz/internal/dataset"
	"goviz/internal/migration"
	"goviz/internal/testkit"
	"goviz/internal/viz"
	"goviz/ports"
	"goviz/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config

	// Infrastructure
	DB      *sqlx.DB
	Storage dataset.FileStorage

	// Repositories (data access layer)
	DatasetRepo ports.DatasetRepository

	// Services
	Processor *dataset.Processor
	Builder   *viz.Builder

	// HTTP surfaces
	API *api.Server
	UI  *ui.App

	logger *internal.Logger
}

// New creates a container with an in-memory dataset registry. Call
// InitWithDatabase to switch to PostgreSQL, then InitServices.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := internal.DefaultLogger.WithComponent("Container")
	return &Container{
		Config:      cfg,
		Storage:     dataset.NewLocalFileStorage(cfg.Storage.UploadDir),
		DatasetRepo: dataset.NewMemoryRepository(),
		Builder:     viz.NewBuilder(viz.WithMaxParallel(cfg.Chart.MaxParallel)),
		logger:      logger,
	}, nil
}

// InitWithDatabase migrates db and uses it as the dataset registry
func (c *Container) InitWithDatabase(ctx context.Context, db *sqlx.DB) error {
	if db == nil {
		return fmt.Errorf("database connection cannot be nil")
	}

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("database connection test failed: %w", err)
	}

	if err := migration.NewRunner().Run(ctx, db); err != nil {
		return fmt.Errorf("database migration failed: %w", err)
	}

	c.DB = db
	c.DatasetRepo = postgres.NewDatasetRepository(db)
	c.logger.Info("Dataset registry backed by PostgreSQL")
	return nil
}

// InitServices builds the dataset processor and the HTTP surfaces on top of
// the configured registry
func (c *Container) InitServices() error {
	storageConfig := &dataset.StorageConfig{
		MaxFileSize:       c.Config.Storage.MaxUploadBytes(),
		AllowedExtensions: c.Config.Storage.AllowedExtensions,
		CacheSize:         c.Config.Storage.TableCacheSize,
	}
	c.Processor = dataset.NewProcessor(c.DatasetRepo, c.Storage, storageConfig)

	c.API = api.NewServer(c.Processor, c.Builder, api.Config{
		MaxUploadBytes: storageConfig.MaxFileSize,
	})

	sample := testkit.DefaultStudentConfig()
	sample.Seed = c.Config.Sample.Seed
	sample.StudentCount = c.Config.Sample.Students

	app, err := ui.NewApp(ui.Config{
		API:               c.API.Handler(),
		Builder:           c.Builder,
		Sample:            sample,
		AllowedExtensions: c.Config.Storage.AllowedExtensions,
		MaxUploadMB:       c.Config.Storage.MaxUploadMB,
	})
	if err != nil {
		return fmt.Errorf("failed to create UI app: %w", err)
	}
	c.UI = app

	c.logger.Info("Services initialized (upload limit %d MB, cache %d tables)",
		c.Config.Storage.MaxUploadMB, c.Config.Storage.TableCacheSize)
	return nil
}

// Handler returns the root handler: the UI shell with the API mounted
func (c *Container) Handler() http.Handler {
	return c.UI.Handler()
}

// Shutdown gracefully shuts down all components
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	c.logger.Info("Container shutdown completed")
	return nil
}
