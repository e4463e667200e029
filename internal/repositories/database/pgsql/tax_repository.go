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

type PgxTaxRepository struct {
	pool *pgxpool.Pool
}

func newPgxTaxRepository(pool *pgxpool.Pool) portsrepo.TaxRepository {
	return &PgxTaxRepository{pool: pool}
}

var _ portsrepo.TaxRepository = (*PgxTaxRepository)(nil)

const taxColumns = `tax_id, company_id, name, tax_use, amount, price_include,
	tax_key, case_key, eu_country_code, tax_account_id, discount_account_id,
	created_at, created_by, last_updated_at, last_updated_by`

func scanTax(row pgx.Row) (domain.Tax, error) {
	var t domain.Tax
	err := row.Scan(
		&t.TaxID, &t.CompanyID, &t.Name, &t.TaxUse, &t.Amount, &t.PriceInclude,
		&t.TaxKey, &t.CaseKey, &t.EUCountryCode, &t.TaxAccountID, &t.DiscountAccountID,
		&t.CreatedAt, &t.CreatedBy, &t.LastUpdatedAt, &t.LastUpdatedBy,
	)
	return t, err
}

// FindTaxByID retrieves a specific tax by its unique identifier.
func (r *PgxTaxRepository) FindTaxByID(ctx context.Context, taxID string) (*domain.Tax, error) {
	query := `SELECT ` + taxColumns + ` FROM taxes WHERE tax_id = $1;`
	t, err := scanTax(r.pool.QueryRow(ctx, query, taxID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: tax %s", apperrors.ErrNotFound, taxID)
		}
		return nil, fmt.Errorf("failed to find tax %s: %w", taxID, err)
	}
	return &t, nil
}

// FindTaxesByIDs retrieves multiple taxes by their IDs.
func (r *PgxTaxRepository) FindTaxesByIDs(ctx context.Context, taxIDs []string) (map[string]domain.Tax, error) {
	result := make(map[string]domain.Tax, len(taxIDs))
	if len(taxIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + taxColumns + ` FROM taxes WHERE tax_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, taxIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query taxes by IDs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTax(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax: %w", err)
		}
		result[t.TaxID] = t
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate taxes: %w", err)
	}
	return result, nil
}

// FindTaxByKey retrieves the tax carrying the given posting key.
func (r *PgxTaxRepository) FindTaxByKey(ctx context.Context, companyID string, taxKey string) (*domain.Tax, error) {
	query := `SELECT ` + taxColumns + ` FROM taxes WHERE company_id = $1 AND tax_key = $2;`
	t, err := scanTax(r.pool.QueryRow(ctx, query, companyID, taxKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: tax with posting key %s", apperrors.ErrNotFound, taxKey)
		}
		return nil, fmt.Errorf("failed to find tax by key %s: %w", taxKey, err)
	}
	return &t, nil
}

// ListTaxes retrieves all taxes of a company.
func (r *PgxTaxRepository) ListTaxes(ctx context.Context, companyID string) ([]domain.Tax, error) {
	query := `SELECT ` + taxColumns + ` FROM taxes WHERE company_id = $1 ORDER BY name;`
	rows, err := r.pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list taxes: %w", err)
	}
	defer rows.Close()
	var taxes []domain.Tax
	for rows.Next() {
		t, err := scanTax(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan tax: %w", err)
		}
		taxes = append(taxes, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate taxes: %w", err)
	}
	return taxes, nil
}
