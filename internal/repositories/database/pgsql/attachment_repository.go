package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

type PgxAttachmentRepository struct {
	Pool *pgxpool.Pool
}

func newPgxAttachmentRepository(pool *pgxpool.Pool) portsrepo.AttachmentRepository {
	return &PgxAttachmentRepository{Pool: pool}
}

var _ portsrepo.AttachmentRepository = (*PgxAttachmentRepository)(nil)

// FindAttachmentsByMove retrieves the documents stored on a move, content
// included.
func (r *PgxAttachmentRepository) FindAttachmentsByMove(ctx context.Context, moveID string) ([]domain.Attachment, error) {
	query := `
		SELECT attachment_id, move_id, name, mime_type, data,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM attachments
		WHERE move_id = $1
		ORDER BY created_at, name;
	`
	rows, err := r.Pool.Query(ctx, query, moveID)
	if err != nil {
		return nil, fmt.Errorf("failed to query attachments of move %s: %w", moveID, err)
	}
	defer rows.Close()
	var attachments []domain.Attachment
	for rows.Next() {
		var a domain.Attachment
		if err := rows.Scan(&a.AttachmentID, &a.MoveID, &a.Name, &a.MimeType, &a.Data,
			&a.CreatedAt, &a.CreatedBy, &a.LastUpdatedAt, &a.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan attachment: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attachments: %w", err)
	}
	return attachments, nil
}

// SaveAttachment persists a document.
func (r *PgxAttachmentRepository) SaveAttachment(ctx context.Context, attachment domain.Attachment) error {
	query := `
		INSERT INTO attachments (attachment_id, move_id, name, mime_type, data,
			created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		attachment.AttachmentID, attachment.MoveID, attachment.Name,
		attachment.MimeType, attachment.Data,
		attachment.CreatedAt, attachment.CreatedBy, attachment.LastUpdatedAt, attachment.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: attachment %s", apperrors.ErrDuplicate, attachment.Name)
		}
		return fmt.Errorf("failed to save attachment %s: %w", attachment.AttachmentID, err)
	}
	return nil
}
