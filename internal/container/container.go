package container

import (
	"context"
	"fmt"
	"time"

	"ftdb/dump/internal/client"
	"ftdb/dump/internal/config"
	"ftdb/dump/internal/repository"
	"ftdb/dump/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config    *config.Config
	Client    client.FTDBClient
	Snapshots repository.SnapshotRepository
	Archive   repository.TicketArchive

	Service *service.Service

	db *pgxpool.Pool
}

// New creates a new container with all dependencies initialized
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	container.Client = client.NewFTDBClient(cfg.FTDB)

	path := cfg.Output.Path
	if path == "" {
		path = repository.DefaultPath(time.Now())
	}
	container.Snapshots = repository.NewFileSnapshotRepository(path)
	log.Infof("Snapshot will be written to %s", path)

	if cfg.Database.Enabled {
		db, err := pgxpool.New(context.Background(),
			fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Name,
			))
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Postgres archive: %w", err)
		}
		container.db = db
		container.Archive = repository.NewTicketArchive(db)
		log.Info("✅ Postgres archive enabled")
	}

	container.Service = service.NewService(
		container.Client,
		container.Snapshots,
		container.Archive,
		cfg.FTDB.MaxWorkers,
	)

	return container, nil
}

// Run executes one full crawl
func (c *Container) Run(ctx context.Context) error {
	return c.Service.Run(ctx)
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	if c.db != nil {
		c.db.Close()
	}
	return nil
}
