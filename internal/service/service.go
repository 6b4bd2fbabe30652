package service

import (
	"context"
	"errors"

	"ftdb/dump/internal/client"
	"ftdb/dump/internal/domain"
	"ftdb/dump/internal/repository"

	"golang.org/x/sync/errgroup"

	log "github.com/sirupsen/logrus"
)

type Service struct {
	client     client.FTDBClient
	snapshots  repository.SnapshotRepository
	archive    repository.TicketArchive
	maxWorkers int
}

func NewService(
	client client.FTDBClient,
	snapshots repository.SnapshotRepository,
	archive repository.TicketArchive,
	maxWorkers int,
) *Service {
	return &Service{
		client:     client,
		snapshots:  snapshots,
		archive:    archive,
		maxWorkers: maxWorkers,
	}
}

// Run performs one full crawl and writes the snapshot document. Nothing is
// written when the crawl fails.
func (s *Service) Run(ctx context.Context) error {
	snapshot, err := s.BuildSnapshot(ctx)
	if err != nil {
		return err
	}

	if err := s.snapshots.Save(snapshot); err != nil {
		return err
	}
	log.Infof("✅ Snapshot written: %d kits, %d parts", len(snapshot.Kits), len(snapshot.Parts))

	if s.archive != nil {
		if err := s.archiveSnapshot(ctx, snapshot); err != nil {
			return err
		}
	}

	return nil
}

// BuildSnapshot runs the two crawl passes: resolve every listed kit, then
// walk each kit's parts in listing order, merging them into one shared part
// registry. The second pass only starts once all kits exist, so the registry
// accumulates without forward references.
func (s *Service) BuildSnapshot(ctx context.Context) (*domain.Snapshot, error) {
	ids, err := s.client.ListKitIDs(ctx)
	if err != nil {
		return nil, err
	}
	log.Infof("🔄 Resolving %d construction kits", len(ids))

	kits, err := s.resolveKits(ctx, ids)
	if err != nil {
		return nil, err
	}

	snapshot := domain.NewSnapshot()
	for _, kit := range kits {
		snapshot.Kits[kit.ID] = kit
	}

	// Listing order keeps the last-write-wins merge deterministic when a
	// part shows up in more than one kit.
	for _, kit := range kits {
		if err := s.resolveParts(ctx, kit, snapshot.Parts); err != nil {
			return nil, err
		}
	}

	return snapshot, nil
}

// resolveKits fetches every kit detail record. Each result lands in its own
// slot, so the worker pool width never changes the outcome; the default of
// one worker keeps the crawl fully sequential.
func (s *Service) resolveKits(ctx context.Context, ids []int64) ([]*domain.Kit, error) {
	kits := make([]*domain.Kit, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, s.maxWorkers))

	for i, id := range ids {
		i, id := i, id // per-iteration copies; module targets go 1.21
		g.Go(func() error {
			kit, err := s.client.GetKit(ctx, id)
			if err != nil {
				return err
			}
			kits[i] = kit
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return kits, nil
}

// resolveParts merges one kit's parts into the shared registry: the count is
// recorded on the kit only, the shared part record is upserted last write
// wins. A transport failure is scoped to this kit so the crawl still visits
// every other kit; anything else aborts the run.
func (s *Service) resolveParts(ctx context.Context, kit *domain.Kit, registry map[int64]*domain.Part) error {
	entries, err := s.client.GetKitParts(ctx, kit.ID)
	if err != nil {
		var transportErr *domain.TransportError
		if errors.As(err, &transportErr) {
			log.Errorf("❌ Failed to fetch parts of kit %d, skipping it: %v", kit.ID, err)
			return nil
		}
		return err
	}

	for _, entry := range entries {
		kit.Parts[entry.Part.ID] = entry.Count
		registry[entry.Part.ID] = entry.Part
	}

	log.Debugf("Kit %d: %d parts", kit.ID, len(entries))
	return nil
}

func (s *Service) archiveSnapshot(ctx context.Context, snapshot *domain.Snapshot) error {
	for _, kit := range snapshot.Kits {
		if err := s.archive.SaveKit(ctx, kit); err != nil {
			return err
		}
	}
	for _, part := range snapshot.Parts {
		if err := s.archive.SavePart(ctx, part); err != nil {
			return err
		}
	}

	log.Infof("✅ Archived %d kits and %d parts", len(snapshot.Kits), len(snapshot.Parts))
	return nil
}
