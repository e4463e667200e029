package services

import (
	"context"
	"fmt"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

// moveBatch holds the master data resolved once for a batch of moves. Export
// strategies derive per-journal MoveContexts from it.
type moveBatch struct {
	company     domain.Company
	journals    map[string]domain.Journal
	accounts    map[string]domain.Account
	partners    map[string]domain.Partner
	taxes       map[string]domain.Tax
	costCenters map[string]domain.CostCenter
	plans       map[string]domain.CostCenterPlan
}

// contextFor returns the booking line generation context for one journal.
func (b *moveBatch) contextFor(journalID string) (MoveContext, error) {
	journal, ok := b.journals[journalID]
	if !ok {
		return MoveContext{}, fmt.Errorf("%w: journal %s", apperrors.ErrNotFound, journalID)
	}
	return MoveContext{
		Company:     b.company,
		Journal:     journal,
		Accounts:    b.accounts,
		Partners:    b.partners,
		Taxes:       b.taxes,
		CostCenters: b.costCenters,
		Plans:       b.plans,
	}, nil
}

// batchLoader gathers the master data referenced by a batch of moves in a
// handful of bulk queries.
type batchLoader struct {
	journalRepo    portsrepo.JournalRepository
	accountRepo    portsrepo.AccountRepositoryFacade
	partnerRepo    portsrepo.PartnerRepositoryFacade
	taxRepo        portsrepo.TaxRepository
	costCenterRepo portsrepo.CostCenterRepository
}

func (l batchLoader) load(ctx context.Context, company domain.Company, moves []domain.Move) (*moveBatch, error) {
	journalIDs := map[string]struct{}{}
	accountIDs := map[string]struct{}{}
	partnerIDs := map[string]struct{}{}
	taxIDs := map[string]struct{}{}
	costCenterIDs := map[string]struct{}{}

	addID := func(set map[string]struct{}, id string) {
		if id != "" {
			set[id] = struct{}{}
		}
	}
	for _, m := range moves {
		addID(journalIDs, m.JournalID)
		addID(partnerIDs, m.PartnerID)
		addID(accountIDs, m.CounterAccountID)
		for _, line := range m.Lines {
			addID(accountIDs, line.AccountID)
			addID(partnerIDs, line.PartnerID)
			addID(costCenterIDs, line.CostCenter1ID)
			addID(costCenterIDs, line.CostCenter2ID)
			for _, taxID := range line.TaxIDs {
				addID(taxIDs, taxID)
			}
			addID(taxIDs, line.TaxLineTaxID)
		}
	}

	journals, err := l.journalRepo.FindJournalsByIDs(ctx, keys(journalIDs))
	if err != nil {
		return nil, fmt.Errorf("loading journals: %w", err)
	}
	// Journal accounts feed the counterpart heuristics.
	for _, j := range journals {
		addID(accountIDs, j.DefaultAccountID)
		addID(accountIDs, j.GainAccountID)
		addID(accountIDs, j.LossAccountID)
	}

	accounts, err := l.accountRepo.FindAccountsByIDs(ctx, keys(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("loading accounts: %w", err)
	}
	partners, err := l.partnerRepo.FindPartnersByIDs(ctx, keys(partnerIDs))
	if err != nil {
		return nil, fmt.Errorf("loading partners: %w", err)
	}
	taxes, err := l.taxRepo.FindTaxesByIDs(ctx, keys(taxIDs))
	if err != nil {
		return nil, fmt.Errorf("loading taxes: %w", err)
	}
	costCenters, err := l.costCenterRepo.FindCostCentersByIDs(ctx, keys(costCenterIDs))
	if err != nil {
		return nil, fmt.Errorf("loading cost centers: %w", err)
	}

	planIDs := map[string]struct{}{}
	for _, cc := range costCenters {
		addID(planIDs, cc.PlanID)
	}
	plans, err := l.costCenterRepo.FindPlansByIDs(ctx, keys(planIDs))
	if err != nil {
		return nil, fmt.Errorf("loading cost center plans: %w", err)
	}

	return &moveBatch{
		company:     company,
		journals:    journals,
		accounts:    accounts,
		partners:    partners,
		taxes:       taxes,
		costCenters: costCenters,
		plans:       plans,
	}, nil
}

func keys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
