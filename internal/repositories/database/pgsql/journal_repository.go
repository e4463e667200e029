package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

type PgxJournalRepository struct {
	pool *pgxpool.Pool
}

func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepository {
	return &PgxJournalRepository{pool: pool}
}

var _ portsrepo.JournalRepository = (*PgxJournalRepository)(nil)

const journalColumns = `journal_id, company_id, code, name, type,
	default_account_id, gain_account_id, loss_account_id, is_exchange_journal,
	group_lines, booking_text_sources,
	created_at, created_by, last_updated_at, last_updated_by`

func scanJournal(row pgx.Row) (domain.Journal, error) {
	var j domain.Journal
	var sources []string
	err := row.Scan(
		&j.JournalID, &j.CompanyID, &j.Code, &j.Name, &j.Type,
		&j.DefaultAccountID, &j.GainAccountID, &j.LossAccountID, &j.IsExchangeJournal,
		&j.GroupLines, &sources,
		&j.CreatedAt, &j.CreatedBy, &j.LastUpdatedAt, &j.LastUpdatedBy,
	)
	if err != nil {
		return domain.Journal{}, err
	}
	for _, s := range sources {
		j.BookingTextSources = append(j.BookingTextSources, domain.BookingTextSource(s))
	}
	return j, nil
}

// FindJournalByID retrieves a specific journal by its unique identifier.
func (r *PgxJournalRepository) FindJournalByID(ctx context.Context, journalID string) (*domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = $1;`
	j, err := scanJournal(r.pool.QueryRow(ctx, query, journalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
		}
		return nil, fmt.Errorf("failed to find journal %s: %w", journalID, err)
	}
	return &j, nil
}

// FindJournalsByIDs retrieves multiple journals by their IDs.
func (r *PgxJournalRepository) FindJournalsByIDs(ctx context.Context, journalIDs []string) (map[string]domain.Journal, error) {
	result := make(map[string]domain.Journal, len(journalIDs))
	if len(journalIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + journalColumns + ` FROM journals WHERE journal_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, journalIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journals by IDs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal: %w", err)
		}
		result[j.JournalID] = j
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journals: %w", err)
	}
	return result, nil
}

// ListJournals retrieves all journals of a company.
func (r *PgxJournalRepository) ListJournals(ctx context.Context, companyID string) ([]domain.Journal, error) {
	query := `SELECT ` + journalColumns + ` FROM journals WHERE company_id = $1 ORDER BY code;`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list journals: %w", err)
	}
	defer rows.Close()
	var journals []domain.Journal
	for rows.Next() {
		j, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal: %w", err)
		}
		journals = append(journals, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journals: %w", err)
	}
	return journals, nil
}
