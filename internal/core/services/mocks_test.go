package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
)

// --- CompanyRepository ---

type mockCompanyRepository struct {
	mock.Mock
}

func (m *mockCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	args := m.Called(ctx, companyID)
	company, _ := args.Get(0).(*domain.Company)
	return company, args.Error(1)
}

func (m *mockCompanyRepository) UpdateExportConfig(ctx context.Context, companyID string, cfg domain.ExportConfig, userID string) error {
	args := m.Called(ctx, companyID, cfg, userID)
	return args.Error(0)
}

// --- AccountRepositoryFacade ---

type mockAccountRepository struct {
	mock.Mock
}

func (m *mockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	account, _ := args.Get(0).(*domain.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepository) FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	args := m.Called(ctx, companyID, code)
	account, _ := args.Get(0).(*domain.Account)
	return account, args.Error(1)
}

func (m *mockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	accounts, _ := args.Get(0).(map[string]domain.Account)
	return accounts, args.Error(1)
}

func (m *mockAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, companyID, limit, offset)
	accounts, _ := args.Get(0).([]domain.Account)
	return accounts, args.Error(1)
}

func (m *mockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *mockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// --- ExportTemplateRepository ---

type mockTemplateRepository struct {
	mock.Mock
}

func (m *mockTemplateRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.ExportTemplate, error) {
	args := m.Called(ctx, templateID)
	template, _ := args.Get(0).(*domain.ExportTemplate)
	return template, args.Error(1)
}

func (m *mockTemplateRepository) FindDefaultTemplate(ctx context.Context, companyID string, mode domain.ExportMode) (*domain.ExportTemplate, error) {
	args := m.Called(ctx, companyID, mode)
	template, _ := args.Get(0).(*domain.ExportTemplate)
	return template, args.Error(1)
}

func (m *mockTemplateRepository) ListTemplates(ctx context.Context, companyID string) ([]domain.ExportTemplate, error) {
	args := m.Called(ctx, companyID)
	templates, _ := args.Get(0).([]domain.ExportTemplate)
	return templates, args.Error(1)
}

func (m *mockTemplateRepository) SaveTemplate(ctx context.Context, template domain.ExportTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepository) UpdateTemplate(ctx context.Context, template domain.ExportTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockTemplateRepository) DeleteTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

// --- ImportTemplateRepository ---

type mockImportTemplateRepository struct {
	mock.Mock
}

func (m *mockImportTemplateRepository) FindImportTemplateByID(ctx context.Context, templateID string) (*domain.ImportTemplate, error) {
	args := m.Called(ctx, templateID)
	template, _ := args.Get(0).(*domain.ImportTemplate)
	return template, args.Error(1)
}

func (m *mockImportTemplateRepository) ListImportTemplates(ctx context.Context, companyID string) ([]domain.ImportTemplate, error) {
	args := m.Called(ctx, companyID)
	templates, _ := args.Get(0).([]domain.ImportTemplate)
	return templates, args.Error(1)
}

func (m *mockImportTemplateRepository) SaveImportTemplate(ctx context.Context, template domain.ImportTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockImportTemplateRepository) UpdateImportTemplate(ctx context.Context, template domain.ImportTemplate) error {
	args := m.Called(ctx, template)
	return args.Error(0)
}

func (m *mockImportTemplateRepository) DeleteImportTemplate(ctx context.Context, templateID string) error {
	args := m.Called(ctx, templateID)
	return args.Error(0)
}

// --- ExportRepository ---

type mockExportRepository struct {
	mock.Mock
}

func (m *mockExportRepository) FindExportByID(ctx context.Context, exportID string) (*domain.ExportJob, error) {
	args := m.Called(ctx, exportID)
	job, _ := args.Get(0).(*domain.ExportJob)
	return job, args.Error(1)
}

func (m *mockExportRepository) ListExports(ctx context.Context, companyID string, limit int, offset int) ([]domain.ExportJob, error) {
	args := m.Called(ctx, companyID, limit, offset)
	jobs, _ := args.Get(0).([]domain.ExportJob)
	return jobs, args.Error(1)
}

func (m *mockExportRepository) SaveExport(ctx context.Context, export domain.ExportJob) error {
	args := m.Called(ctx, export)
	return args.Error(0)
}

func (m *mockExportRepository) UpdateExport(ctx context.Context, export domain.ExportJob) error {
	args := m.Called(ctx, export)
	return args.Error(0)
}

func (m *mockExportRepository) SaveArtifact(ctx context.Context, artifact domain.Artifact) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *mockExportRepository) FindArtifactByID(ctx context.Context, artifactID string) (*domain.Artifact, error) {
	args := m.Called(ctx, artifactID)
	artifact, _ := args.Get(0).(*domain.Artifact)
	return artifact, args.Error(1)
}

func (m *mockExportRepository) DeleteArtifactsByExport(ctx context.Context, exportID string) error {
	args := m.Called(ctx, exportID)
	return args.Error(0)
}

func (m *mockExportRepository) NextExportNumber(ctx context.Context, companyID string) (int64, error) {
	args := m.Called(ctx, companyID)
	return args.Get(0).(int64), args.Error(1)
}

// --- MoveRepositoryFacade ---

type mockMoveRepository struct {
	mock.Mock
}

func (m *mockMoveRepository) FindMoveByID(ctx context.Context, moveID string) (*domain.Move, error) {
	args := m.Called(ctx, moveID)
	move, _ := args.Get(0).(*domain.Move)
	return move, args.Error(1)
}

func (m *mockMoveRepository) FindMovesByIDs(ctx context.Context, moveIDs []string) ([]domain.Move, error) {
	args := m.Called(ctx, moveIDs)
	moves, _ := args.Get(0).([]domain.Move)
	return moves, args.Error(1)
}

func (m *mockMoveRepository) FindMovesForExport(ctx context.Context, sel portsrepo.MoveSelection) ([]domain.Move, error) {
	args := m.Called(ctx, sel)
	moves, _ := args.Get(0).([]domain.Move)
	return moves, args.Error(1)
}

func (m *mockMoveRepository) FindMoveByImportGUID(ctx context.Context, companyID string, guid string) (*domain.Move, error) {
	args := m.Called(ctx, companyID, guid)
	move, _ := args.Get(0).(*domain.Move)
	return move, args.Error(1)
}

func (m *mockMoveRepository) FindMovesByImportRun(ctx context.Context, importRunID string) ([]domain.Move, error) {
	args := m.Called(ctx, importRunID)
	moves, _ := args.Get(0).([]domain.Move)
	return moves, args.Error(1)
}

func (m *mockMoveRepository) FindOpenItemMovesByRef(ctx context.Context, companyID string, ref string) ([]domain.Move, error) {
	args := m.Called(ctx, companyID, ref)
	moves, _ := args.Get(0).([]domain.Move)
	return moves, args.Error(1)
}

func (m *mockMoveRepository) ListMoves(ctx context.Context, companyID string, limit int, offset int) ([]domain.Move, error) {
	args := m.Called(ctx, companyID, limit, offset)
	moves, _ := args.Get(0).([]domain.Move)
	return moves, args.Error(1)
}

func (m *mockMoveRepository) SaveMove(ctx context.Context, move domain.Move) error {
	args := m.Called(ctx, move)
	return args.Error(0)
}

func (m *mockMoveRepository) UpdateMoveState(ctx context.Context, moveID string, state domain.MoveState, userID string, now time.Time) error {
	args := m.Called(ctx, moveID, state, userID, now)
	return args.Error(0)
}

func (m *mockMoveRepository) ClaimMovesForExport(ctx context.Context, tx pgx.Tx, exportID string, moveIDs []string) ([]string, error) {
	args := m.Called(ctx, tx, exportID, moveIDs)
	claimed, _ := args.Get(0).([]string)
	return claimed, args.Error(1)
}

func (m *mockMoveRepository) ReleaseMovesFromExport(ctx context.Context, exportID string) error {
	args := m.Called(ctx, exportID)
	return args.Error(0)
}

func (m *mockMoveRepository) MarkLinesReconciled(ctx context.Context, lineIDs []string, userID string, now time.Time) error {
	args := m.Called(ctx, lineIDs, userID, now)
	return args.Error(0)
}

func (m *mockMoveRepository) DeleteMovesByImportRun(ctx context.Context, importRunID string) error {
	args := m.Called(ctx, importRunID)
	return args.Error(0)
}

func (m *mockMoveRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	tx, _ := args.Get(0).(pgx.Tx)
	return tx, args.Error(1)
}

func (m *mockMoveRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

func (m *mockMoveRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	args := m.Called(ctx, tx)
	return args.Error(0)
}

// --- UserRepository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) FindUserByAPIKeyHash(ctx context.Context, keyHash string) (*domain.User, error) {
	args := m.Called(ctx, keyHash)
	user, _ := args.Get(0).(*domain.User)
	return user, args.Error(1)
}

func (m *mockUserRepository) SaveUser(ctx context.Context, user domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
