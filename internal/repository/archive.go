package repository

import (
	"context"
	"fmt"

	"ftdb/dump/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TicketArchive records normalized tickets in Postgres in addition to the
// snapshot document. Optional; the JSON dump stays the authoritative output.
type TicketArchive interface {
	SaveKit(ctx context.Context, kit *domain.Kit) error
	SavePart(ctx context.Context, part *domain.Part) error
}

type ticketArchive struct {
	db *pgxpool.Pool
}

func NewTicketArchive(db *pgxpool.Pool) TicketArchive {
	return &ticketArchive{
		db: db,
	}
}

func (r *ticketArchive) SaveKit(ctx context.Context, kit *domain.Kit) error {
	query := `
	INSERT INTO tickets (id, kind, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET kind = $2, data = $3`
	_, err := r.db.Exec(ctx, query, kit.ID, "kit", kit)
	if err != nil {
		return fmt.Errorf("failed to archive kit %d: %w", kit.ID, err)
	}

	return nil
}

func (r *ticketArchive) SavePart(ctx context.Context, part *domain.Part) error {
	query := `
	INSERT INTO tickets (id, kind, data)
	VALUES ($1, $2, $3)
	ON CONFLICT (id)
	DO UPDATE SET kind = $2, data = $3`
	_, err := r.db.Exec(ctx, query, part.ID, "part", part)
	if err != nil {
		return fmt.Errorf("failed to archive part %d: %w", part.ID, err)
	}

	return nil
}
