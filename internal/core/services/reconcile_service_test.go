package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/core/services"
)

type ReconcileServiceTestSuite struct {
	suite.Suite
	mockAccountRepo *mockAccountRepository
	mockMoveRepo    *mockMoveRepository
	service         portssvc.ReconcileSvc
	ctx             context.Context
}

func (suite *ReconcileServiceTestSuite) SetupTest() {
	suite.mockAccountRepo = new(mockAccountRepository)
	suite.mockMoveRepo = new(mockMoveRepository)
	suite.service = services.NewReconcileService(portsrepo.RepositoryProvider{
		AccountRepo: suite.mockAccountRepo,
		MoveRepo:    suite.mockMoveRepo,
	})
	suite.ctx = context.Background()
}

func (suite *ReconcileServiceTestSuite) TestReconcileMoveMatchesOpenItem() {
	receivable := &domain.Account{AccountID: "acc-recv", AccountType: domain.AssetReceivable}
	bank := &domain.Account{AccountID: "acc-bank", AccountType: domain.AssetCash}

	payment := domain.Move{
		MoveID: "pay-1", CompanyID: "co-1", Name: "BANK/2026/0007", Ref: "RE-17",
		Lines: []domain.MoveLine{
			{LineID: "pl-1", AccountID: "acc-bank", Debit: decimal.NewFromInt(119)},
			{LineID: "pl-2", AccountID: "acc-recv", Credit: decimal.NewFromInt(119)},
		},
	}
	invoice := domain.Move{
		MoveID: "inv-1", CompanyID: "co-1", Name: "INV/2026/0017", Ref: "RE-17",
		Lines: []domain.MoveLine{
			{LineID: "il-1", AccountID: "acc-recv", Debit: decimal.NewFromInt(119)},
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-bank").Return(bank, nil)
	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-recv").Return(receivable, nil)
	suite.mockMoveRepo.On("FindOpenItemMovesByRef", suite.ctx, "co-1", "RE-17").
		Return([]domain.Move{invoice, payment}, nil).Once()
	suite.mockMoveRepo.On("MarkLinesReconciled", suite.ctx, []string{"il-1", "pl-2"},
		"user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	warnings, err := suite.service.ReconcileMove(suite.ctx, payment, "user-1")
	suite.Require().NoError(err)
	suite.Empty(warnings)
	suite.mockMoveRepo.AssertExpectations(suite.T())
	suite.mockAccountRepo.AssertExpectations(suite.T())
}

func (suite *ReconcileServiceTestSuite) TestReconcileMoveWithoutRefWarns() {
	move := domain.Move{MoveID: "pay-2", Name: "BANK/2026/0008"}

	warnings, err := suite.service.ReconcileMove(suite.ctx, move, "user-1")
	suite.Require().NoError(err)
	suite.Equal([]string{"BANK/2026/0008: no reference, not reconciled"}, warnings)
}

func (suite *ReconcileServiceTestSuite) TestReconcileMoveNoMatchWarns() {
	receivable := &domain.Account{AccountID: "acc-recv", AccountType: domain.AssetReceivable}
	move := domain.Move{
		MoveID: "pay-3", CompanyID: "co-1", Name: "BANK/2026/0009", Ref: "RE-99",
		Lines: []domain.MoveLine{
			{LineID: "pl-1", AccountID: "acc-recv", Credit: decimal.NewFromInt(10)},
		},
	}

	suite.mockAccountRepo.On("FindAccountByID", suite.ctx, "acc-recv").Return(receivable, nil)
	suite.mockMoveRepo.On("FindOpenItemMovesByRef", suite.ctx, "co-1", "RE-99").
		Return([]domain.Move(nil), nil).Once()

	warnings, err := suite.service.ReconcileMove(suite.ctx, move, "user-1")
	suite.Require().NoError(err)
	suite.Equal([]string{"BANK/2026/0009: no open item matches ref RE-99, not reconciled"}, warnings)
	suite.mockMoveRepo.AssertExpectations(suite.T())
}

func (suite *ReconcileServiceTestSuite) TestReconcileMoveSkipsReconciledLines() {
	move := domain.Move{
		MoveID: "pay-4", CompanyID: "co-1", Name: "BANK/2026/0010", Ref: "RE-12",
		Lines: []domain.MoveLine{
			{LineID: "pl-1", AccountID: "acc-recv", Credit: decimal.NewFromInt(10), Reconciled: true},
		},
	}

	warnings, err := suite.service.ReconcileMove(suite.ctx, move, "user-1")
	suite.Require().NoError(err)
	suite.Equal([]string{"BANK/2026/0010: no open item line, not reconciled"}, warnings)
}

func TestReconcileServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReconcileServiceTestSuite))
}
