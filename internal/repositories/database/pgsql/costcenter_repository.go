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

type PgxCostCenterRepository struct {
	pool *pgxpool.Pool
}

func newPgxCostCenterRepository(pool *pgxpool.Pool) portsrepo.CostCenterRepository {
	return &PgxCostCenterRepository{pool: pool}
}

var _ portsrepo.CostCenterRepository = (*PgxCostCenterRepository)(nil)

const costCenterColumns = `cost_center_id, plan_id, code, name,
	created_at, created_by, last_updated_at, last_updated_by`

func scanCostCenter(row pgx.Row) (domain.CostCenter, error) {
	var cc domain.CostCenter
	err := row.Scan(
		&cc.CostCenterID, &cc.PlanID, &cc.Code, &cc.Name,
		&cc.CreatedAt, &cc.CreatedBy, &cc.LastUpdatedAt, &cc.LastUpdatedBy,
	)
	return cc, err
}

// FindCostCenterByID retrieves a cost center by its unique identifier.
func (r *PgxCostCenterRepository) FindCostCenterByID(ctx context.Context, costCenterID string) (*domain.CostCenter, error) {
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers WHERE cost_center_id = $1;`
	cc, err := scanCostCenter(r.pool.QueryRow(ctx, query, costCenterID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cost center %s", apperrors.ErrNotFound, costCenterID)
		}
		return nil, fmt.Errorf("failed to find cost center %s: %w", costCenterID, err)
	}
	return &cc, nil
}

// FindCostCentersByIDs retrieves multiple cost centers by their IDs.
func (r *PgxCostCenterRepository) FindCostCentersByIDs(ctx context.Context, costCenterIDs []string) (map[string]domain.CostCenter, error) {
	result := make(map[string]domain.CostCenter, len(costCenterIDs))
	if len(costCenterIDs) == 0 {
		return result, nil
	}
	query := `SELECT ` + costCenterColumns + ` FROM cost_centers WHERE cost_center_id = ANY($1);`
	rows, err := r.pool.Query(ctx, query, costCenterIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost centers by IDs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		cc, err := scanCostCenter(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cost center: %w", err)
		}
		result[cc.CostCenterID] = cc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cost centers: %w", err)
	}
	return result, nil
}

// FindCostCenterByCode retrieves a cost center by code within a plan target.
func (r *PgxCostCenterRepository) FindCostCenterByCode(ctx context.Context, companyID string, target domain.CostCenterTarget, code string) (*domain.CostCenter, error) {
	query := `
		SELECT cc.cost_center_id, cc.plan_id, cc.code, cc.name,
		       cc.created_at, cc.created_by, cc.last_updated_at, cc.last_updated_by
		FROM cost_centers cc
		JOIN cost_center_plans p ON p.plan_id = cc.plan_id
		WHERE p.company_id = $1 AND p.target = $2 AND cc.code = $3;
	`
	cc, err := scanCostCenter(r.pool.QueryRow(ctx, query, companyID, string(target), code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cost center code %s", apperrors.ErrNotFound, code)
		}
		return nil, fmt.Errorf("failed to find cost center by code %s: %w", code, err)
	}
	return &cc, nil
}

// FindPlansByIDs retrieves multiple cost center plans by their IDs.
func (r *PgxCostCenterRepository) FindPlansByIDs(ctx context.Context, planIDs []string) (map[string]domain.CostCenterPlan, error) {
	result := make(map[string]domain.CostCenterPlan, len(planIDs))
	if len(planIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT plan_id, company_id, name, target, created_at, created_by, last_updated_at, last_updated_by
		FROM cost_center_plans
		WHERE plan_id = ANY($1);
	`
	rows, err := r.pool.Query(ctx, query, planIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query cost center plans: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p domain.CostCenterPlan
		if err := rows.Scan(&p.PlanID, &p.CompanyID, &p.Name, &p.Target,
			&p.CreatedAt, &p.CreatedBy, &p.LastUpdatedAt, &p.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan cost center plan: %w", err)
		}
		result[p.PlanID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate cost center plans: %w", err)
	}
	return result, nil
}
