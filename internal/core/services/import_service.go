package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/dto"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// caseKeyNoTax is the legal-case key marking bookings explicitly without tax.
const caseKeyNoTax = "40"

// importService parses uploaded booking files into draft moves and drives
// the run lifecycle.
type importService struct {
	companyRepo        portsrepo.CompanyRepository
	importTemplateRepo portsrepo.ImportTemplateRepository
	journalRepo        portsrepo.JournalRepository
	accountRepo        portsrepo.AccountRepositoryFacade
	partnerRepo        portsrepo.PartnerRepositoryFacade
	taxRepo            portsrepo.TaxRepository
	costCenterRepo     portsrepo.CostCenterRepository
	moveRepo           portsrepo.MoveRepositoryFacade
	importRunRepo      portsrepo.ImportRunRepository
	reconciler         portssvc.ReconcileSvc
}

// NewImportService creates an import service with the given repositories and
// the reconcile service used after posting.
func NewImportService(repos portsrepo.RepositoryProvider, reconciler portssvc.ReconcileSvc) portssvc.ImportSvcFacade {
	return &importService{
		companyRepo:        repos.CompanyRepo,
		importTemplateRepo: repos.ImportTemplateRepo,
		journalRepo:        repos.JournalRepo,
		accountRepo:        repos.AccountRepo,
		partnerRepo:        repos.PartnerRepo,
		taxRepo:            repos.TaxRepo,
		costCenterRepo:     repos.CostCenterRepo,
		moveRepo:           repos.MoveRepo,
		importRunRepo:      repos.ImportRunRepo,
		reconciler:         reconciler,
	}
}

// CreateImportRun stores the uploaded file, parses and validates it and
// creates draft moves for the valid rows. Rows with findings are logged; one
// error finding puts the whole run into the error state.
func (s *importService) CreateImportRun(ctx context.Context, req dto.CreateImportRunRequest, userID string) (*domain.ImportRun, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, req.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	template, err := s.importTemplateRepo.FindImportTemplateByID(ctx, req.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("finding import template: %w", err)
	}
	journal, err := s.journalRepo.FindJournalByID(ctx, req.JournalID)
	if err != nil {
		return nil, fmt.Errorf("finding journal: %w", err)
	}

	now := time.Now()
	run := domain.ImportRun{
		ImportRunID: uuid.NewString(),
		CompanyID:   company.CompanyID,
		Name:        "IMP-" + now.Format("20060102-150405"),
		Description: req.Description,
		TemplateID:  template.TemplateID,
		JournalID:   journal.JournalID,
		State:       domain.ImportDraft,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Filename:    req.Filename,
		Data:        req.Content,
	}
	run.CreatedAt = now
	run.CreatedBy = userID
	run.LastUpdatedAt = now
	run.LastUpdatedBy = userID

	rows, logs, err := parseImportFile(*template, req.Content)
	if err != nil {
		return nil, err
	}

	builder := importRowBuilder{
		svc:      s,
		company:  *company,
		template: *template,
		run:      run,
		userID:   userID,
	}
	var moves []domain.Move
	for _, row := range rows {
		if problems := validateRow(*template, row); len(problems) > 0 {
			for _, p := range problems {
				logs = append(logs, rowLog(row.line, p, domain.LogError))
			}
			continue
		}
		move, rowLogs := builder.build(ctx, row)
		logs = append(logs, rowLogs...)
		if move != nil {
			moves = append(moves, *move)
		}
	}

	run.State = domain.ImportImported
	for _, l := range logs {
		if l.Severity == domain.LogError {
			run.State = domain.ImportError
			break
		}
	}
	if run.State == domain.ImportImported && len(moves) == 0 {
		logs = append(logs, rowLog(0, "no bookable rows in the file", domain.LogError))
		run.State = domain.ImportError
	}

	if run.State == domain.ImportImported {
		for i := range moves {
			if err := s.moveRepo.SaveMove(ctx, moves[i]); err != nil {
				return nil, fmt.Errorf("saving move: %w", err)
			}
		}
		logs = append(logs, rowLog(0, fmt.Sprintf("%d moves created from %d rows", len(moves), len(rows)), domain.LogStandard))
	}

	if err := s.importRunRepo.SaveImportRun(ctx, run); err != nil {
		return nil, fmt.Errorf("saving import run: %w", err)
	}
	if err := s.saveLogs(ctx, &run, logs); err != nil {
		return nil, err
	}

	if run.State == domain.ImportImported && template.PostMoves {
		posted, err := s.postAndReconcile(ctx, &run, *template, userID)
		if err != nil {
			return nil, err
		}
		run = *posted
	}

	logger.Info("import run processed",
		"importRunID", run.ImportRunID, "file", run.Filename,
		"state", run.State, "rows", len(rows), "moves", len(moves))
	return &run, nil
}

// GetImportRun retrieves an import run including its logs.
func (s *importService) GetImportRun(ctx context.Context, importRunID string) (*domain.ImportRun, error) {
	run, err := s.importRunRepo.FindImportRunByID(ctx, importRunID)
	if err != nil {
		return nil, fmt.Errorf("finding import run: %w", err)
	}
	return run, nil
}

// ListImportRuns retrieves a paginated list of import runs for a company.
func (s *importService) ListImportRuns(ctx context.Context, companyID string, limit int, offset int) ([]domain.ImportRun, error) {
	runs, err := s.importRunRepo.ListImportRuns(ctx, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing import runs: %w", err)
	}
	return runs, nil
}

// ConfirmImportRun posts the draft moves of an imported run and, when the
// template asks for it, reconciles them against existing open items.
func (s *importService) ConfirmImportRun(ctx context.Context, importRunID string, userID string) (*domain.ImportRun, error) {
	run, err := s.importRunRepo.FindImportRunByID(ctx, importRunID)
	if err != nil {
		return nil, fmt.Errorf("finding import run: %w", err)
	}
	if run.State != domain.ImportImported {
		return nil, fmt.Errorf("%w: import run %s is not in the imported state", apperrors.ErrConflict, run.Name)
	}
	template, err := s.importTemplateRepo.FindImportTemplateByID(ctx, run.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("finding import template: %w", err)
	}
	return s.postAndReconcile(ctx, run, *template, userID)
}

// postAndReconcile books the run's draft moves and runs the optional open
// item matching. It moves the run to the booked state.
func (s *importService) postAndReconcile(ctx context.Context, run *domain.ImportRun, template domain.ImportTemplate, userID string) (*domain.ImportRun, error) {
	moves, err := s.moveRepo.FindMovesByImportRun(ctx, run.ImportRunID)
	if err != nil {
		return nil, fmt.Errorf("finding imported moves: %w", err)
	}

	now := time.Now()
	logs := run.Logs
	for _, move := range moves {
		if move.State != domain.MoveDraft {
			continue
		}
		if err := s.moveRepo.UpdateMoveState(ctx, move.MoveID, domain.MovePosted, userID, now); err != nil {
			return nil, fmt.Errorf("posting move %s: %w", move.Name, err)
		}
		if template.AutoReconcile && s.reconciler != nil {
			warnings, err := s.reconciler.ReconcileMove(ctx, move, userID)
			if err != nil {
				return nil, fmt.Errorf("reconciling move %s: %w", move.Name, err)
			}
			for _, w := range warnings {
				logs = append(logs, rowLog(0, w, domain.LogWarning))
			}
		}
	}

	run.State = domain.ImportBooked
	run.LastUpdatedAt = now
	run.LastUpdatedBy = userID
	if err := s.importRunRepo.UpdateImportRun(ctx, *run); err != nil {
		return nil, fmt.Errorf("updating import run: %w", err)
	}
	if err := s.saveLogs(ctx, run, logs); err != nil {
		return nil, err
	}
	return run, nil
}

// ResetImportRun discards the draft moves of a run and returns it to draft.
// Booked runs stay as they are.
func (s *importService) ResetImportRun(ctx context.Context, importRunID string, userID string) (*domain.ImportRun, error) {
	run, err := s.importRunRepo.FindImportRunByID(ctx, importRunID)
	if err != nil {
		return nil, fmt.Errorf("finding import run: %w", err)
	}
	if run.State != domain.ImportImported && run.State != domain.ImportError {
		return nil, fmt.Errorf("%w: import run %s cannot be reset in state %s", apperrors.ErrConflict, run.Name, run.State)
	}

	if err := s.moveRepo.DeleteMovesByImportRun(ctx, run.ImportRunID); err != nil {
		return nil, fmt.Errorf("deleting imported moves: %w", err)
	}
	run.State = domain.ImportDraft
	run.LastUpdatedAt = time.Now()
	run.LastUpdatedBy = userID
	if err := s.importRunRepo.UpdateImportRun(ctx, *run); err != nil {
		return nil, fmt.Errorf("updating import run: %w", err)
	}
	if err := s.saveLogs(ctx, run, nil); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *importService) saveLogs(ctx context.Context, run *domain.ImportRun, logs []domain.ImportLog) error {
	for i := range logs {
		if logs[i].LogID == "" {
			logs[i].LogID = uuid.NewString()
		}
		logs[i].ImportRunID = run.ImportRunID
		if logs[i].CreatedAt.IsZero() {
			logs[i].CreatedAt = time.Now()
		}
	}
	if err := s.importRunRepo.ReplaceLogs(ctx, run.ImportRunID, logs); err != nil {
		return fmt.Errorf("saving import logs: %w", err)
	}
	run.Logs = logs
	return nil
}

func rowLog(line int, message string, severity domain.LogSeverity) domain.ImportLog {
	return domain.ImportLog{Line: line, Message: message, Severity: severity}
}

// importRowBuilder converts validated rows into draft moves, resolving
// account codes, partner numbers, taxes and cost centers against master data.
type importRowBuilder struct {
	svc      *importService
	company  domain.Company
	template domain.ImportTemplate
	run      domain.ImportRun
	userID   string
}

// resolvedAccount is the outcome of turning a raw account column into a
// ledger account, possibly via a partner's subledger number.
type resolvedAccount struct {
	accountID string
	partnerID string
}

// build turns one row into a draft move. A nil move with warning logs means
// the row was skipped; error logs mean the run will not import.
func (b *importRowBuilder) build(ctx context.Context, row importRow) (*domain.Move, []domain.ImportLog) {
	var logs []domain.ImportLog
	fail := func(format string, args ...any) (*domain.Move, []domain.ImportLog) {
		return nil, append(logs, rowLog(row.line, fmt.Sprintf(format, args...), domain.LogError))
	}
	skip := func(format string, args ...any) (*domain.Move, []domain.ImportLog) {
		return nil, append(logs, rowLog(row.line, fmt.Sprintf(format, args...), domain.LogWarning))
	}

	sign := strings.ToUpper(row.value(domain.FieldMoveSign))
	if sign != "S" && sign != "H" {
		return fail("move sign must be S or H, got %q", row.value(domain.FieldMoveSign))
	}
	amount, err := parseImportDecimal(row.value(domain.FieldAmount))
	if err != nil {
		return fail("amount: %s", err)
	}
	if amount.IsZero() {
		return skip("zero amount, row skipped")
	}
	amount = amount.Abs()

	dateMapping, _ := b.mappingByType(domain.FieldMoveDate)
	date, err := parseImportDate(row.value(domain.FieldMoveDate), dateMapping.DateFormat, b.run.EndDate)
	if err != nil {
		return fail("booking date: %s", err)
	}
	if !b.run.StartDate.IsZero() && date.Before(b.run.StartDate) ||
		!b.run.EndDate.IsZero() && date.After(b.run.EndDate) {
		logs = append(logs, rowLog(row.line,
			fmt.Sprintf("booking date %s outside the import period", date.Format("02.01.2006")),
			domain.LogWarning))
	}

	guid := row.value(domain.FieldGUID)
	if guid != "" {
		existing, err := b.svc.moveRepo.FindMoveByImportGUID(ctx, b.company.CompanyID, guid)
		if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			return fail("checking document guid: %s", err)
		}
		if existing != nil {
			return skip("document %s already imported as %s, row skipped", guid, existing.Name)
		}
	}

	account, accountDomain, found, err := b.resolveAccount(ctx, row, domain.FieldAccount)
	if err != nil {
		return fail("account: %s", err)
	}
	if !found {
		if b.template.IgnoreIncompleteMoves {
			return skip("account %s unknown, row skipped", row.value(domain.FieldAccount))
		}
		return fail("account %s unknown", row.value(domain.FieldAccount))
	}
	counter, _, found, err := b.resolveAccount(ctx, row, domain.FieldCounterAccount)
	if err != nil {
		return fail("counter account: %s", err)
	}
	if !found {
		if b.template.IgnoreIncompleteMoves {
			return skip("counter account %s unknown, row skipped", row.value(domain.FieldCounterAccount))
		}
		return fail("counter account %s unknown", row.value(domain.FieldCounterAccount))
	}

	tax, err := b.resolveTax(ctx, row, accountDomain)
	if err != nil {
		return fail("%s", err)
	}

	var discount decimal.Decimal
	if raw := row.value(domain.FieldDiscountAmount); raw != "" {
		discount, err = parseImportDecimal(raw)
		if err != nil {
			return fail("discount amount: %s", err)
		}
		discount = discount.Abs()
	}
	discountAccountID := ""
	if discount.IsPositive() {
		discountAccountID = b.discountAccount(tax, sign)
		if discountAccountID == "" {
			return fail("cash discount of %s booked but no discount account configured", discount.StringFixed(2))
		}
	}

	cost1ID, cost2ID, costLogs := b.resolveCostCenters(ctx, row)
	logs = append(logs, costLogs...)

	move := b.assembleMove(row, sign, amount, discount, date, guid,
		account, counter, discountAccountID, tax, cost1ID, cost2ID)
	return move, logs
}

// assembleMove lays the amounts out over the booking lines: the account line
// net of tax and discount, a tax line, a discount line and the counter line
// carrying the full amount on the other side.
func (b *importRowBuilder) assembleMove(row importRow, sign string, amount, discount decimal.Decimal,
	date time.Time, guid string, account resolvedAccount, counter resolvedAccount,
	discountAccountID string, tax *domain.Tax, cost1ID, cost2ID string) *domain.Move {

	accountNet := amount.Sub(discount)
	var taxAmount decimal.Decimal
	var taxIDs []string
	if tax != nil {
		// Imported amounts are gross, so the tax is carved out.
		base := accountNet.Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(100).Add(tax.Amount)).RoundBank(2)
		taxAmount = accountNet.Sub(base)
		accountNet = base
		taxIDs = []string{tax.TaxID}
	}

	debitSide := sign == "S"
	setAmount := func(line *domain.MoveLine, value decimal.Decimal, onAccountSide bool) {
		if debitSide == onAccountSide {
			line.Debit = value
		} else {
			line.Credit = value
		}
	}

	name := row.value(domain.FieldMoveName)
	lines := []domain.MoveLine{{
		LineID:        uuid.NewString(),
		AccountID:     account.accountID,
		PartnerID:     account.partnerID,
		Name:          name,
		TaxIDs:        taxIDs,
		CostCenter1ID: cost1ID,
		CostCenter2ID: cost2ID,
	}}
	setAmount(&lines[0], accountNet, true)

	if tax != nil && taxAmount.IsPositive() {
		taxLine := domain.MoveLine{
			LineID:       uuid.NewString(),
			AccountID:    tax.TaxAccountID,
			Name:         tax.Name,
			TaxLineTaxID: tax.TaxID,
		}
		setAmount(&taxLine, taxAmount, true)
		lines = append(lines, taxLine)
	}
	if discount.IsPositive() {
		discountLine := domain.MoveLine{
			LineID:    uuid.NewString(),
			AccountID: discountAccountID,
			Name:      "Skonto",
		}
		setAmount(&discountLine, discount, true)
		lines = append(lines, discountLine)
	}
	counterLine := domain.MoveLine{
		LineID:    uuid.NewString(),
		AccountID: counter.accountID,
		PartnerID: counter.partnerID,
		Name:      name,
	}
	setAmount(&counterLine, amount, false)
	lines = append(lines, counterLine)

	currency := row.value(domain.FieldCurrency)
	if currency == b.company.CurrencyCode {
		currency = ""
	}

	now := time.Now()
	move := domain.Move{
		MoveID:       uuid.NewString(),
		CompanyID:    b.company.CompanyID,
		JournalID:    b.run.JournalID,
		Name:         name,
		Ref:          row.value(domain.FieldMoveRef),
		Date:         date,
		MoveType:     domain.MoveEntry,
		State:        domain.MoveDraft,
		PartnerID:    account.partnerID,
		CurrencyCode: currency,
		AmountTotal:  amount,
		ImportRunID:  b.run.ImportRunID,
		ImportGUID:   guid,
		Lines:        lines,
	}
	for i := range move.Lines {
		move.Lines[i].MoveID = move.MoveID
	}
	move.CreatedAt = now
	move.CreatedBy = b.userID
	move.LastUpdatedAt = now
	move.LastUpdatedBy = b.userID
	return &move
}

// resolveAccount turns a raw account column into a ledger account. Codes
// that match no account fall back to partner subledger numbers, yielding the
// partner's open item account.
func (b *importRowBuilder) resolveAccount(ctx context.Context, row importRow, fieldType domain.ImportFieldType) (resolvedAccount, *domain.Account, bool, error) {
	raw := row.value(fieldType)
	mapping, _ := b.mappingByType(fieldType)
	code := raw
	if mapping.Padding > 0 {
		code = zfill(raw, mapping.Padding)
	}

	account, err := b.svc.accountRepo.FindAccountByCode(ctx, b.company.CompanyID, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return resolvedAccount{}, nil, false, err
	}
	if account != nil {
		return resolvedAccount{accountID: account.AccountID}, account, true, nil
	}

	debtors, err := b.svc.partnerRepo.FindPartnersByDebtorNumber(ctx, b.company.CompanyID, code)
	if err != nil {
		return resolvedAccount{}, nil, false, err
	}
	if len(debtors) > 1 {
		return resolvedAccount{}, nil, false, fmt.Errorf("debtor number %s matches %d partners", code, len(debtors))
	}
	if len(debtors) == 1 && debtors[0].ReceivableAccountID != "" {
		return resolvedAccount{accountID: debtors[0].ReceivableAccountID, partnerID: debtors[0].PartnerID}, nil, true, nil
	}

	creditors, err := b.svc.partnerRepo.FindPartnersByCreditorNumber(ctx, b.company.CompanyID, code)
	if err != nil {
		return resolvedAccount{}, nil, false, err
	}
	if len(creditors) > 1 {
		return resolvedAccount{}, nil, false, fmt.Errorf("creditor number %s matches %d partners", code, len(creditors))
	}
	if len(creditors) == 1 && creditors[0].PayableAccountID != "" {
		return resolvedAccount{accountID: creditors[0].PayableAccountID, partnerID: creditors[0].PartnerID}, nil, true, nil
	}

	return resolvedAccount{}, nil, false, nil
}

// resolveTax picks the tax of a row: an explicit posting key wins, the
// no-tax case key suppresses any tax, and automatic accounts fall back to
// their own tax.
func (b *importRowBuilder) resolveTax(ctx context.Context, row importRow, account *domain.Account) (*domain.Tax, error) {
	key := row.value(domain.FieldTaxKey)
	if key != "" && key != caseKeyNoTax {
		tax, err := b.svc.taxRepo.FindTaxByKey(ctx, b.company.CompanyID, key)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("no tax carries posting key %s", key)
			}
			return nil, err
		}
		if tax.TaxAccountID == "" {
			return nil, fmt.Errorf("tax %s has no tax account", tax.Name)
		}
		return tax, nil
	}
	if key == caseKeyNoTax {
		return nil, nil
	}
	if account != nil && account.Automatic && len(account.AutomaticTaxIDs) > 0 {
		tax, err := b.svc.taxRepo.FindTaxByID(ctx, account.AutomaticTaxIDs[0])
		if err != nil {
			return nil, fmt.Errorf("loading automatic tax: %w", err)
		}
		if tax.TaxAccountID == "" {
			return nil, fmt.Errorf("tax %s has no tax account", tax.Name)
		}
		return tax, nil
	}
	return nil, nil
}

// discountAccount picks where a cash discount posts: the tax's own discount
// account first, then the template's income or expense account by side.
func (b *importRowBuilder) discountAccount(tax *domain.Tax, sign string) string {
	if tax != nil && tax.DiscountAccountID != "" {
		return tax.DiscountAccountID
	}
	if sign == "S" {
		return b.template.DiscountAccountExpenseID
	}
	return b.template.DiscountAccountIncomeID
}

// resolveCostCenters looks up the cost center codes of a row. Unknown codes
// are warned about and left off the booking.
func (b *importRowBuilder) resolveCostCenters(ctx context.Context, row importRow) (string, string, []domain.ImportLog) {
	var logs []domain.ImportLog
	lookup := func(fieldType domain.ImportFieldType, target domain.CostCenterTarget) string {
		code := row.value(fieldType)
		if code == "" {
			return ""
		}
		cc, err := b.svc.costCenterRepo.FindCostCenterByCode(ctx, b.company.CompanyID, target, code)
		if err != nil {
			logs = append(logs, rowLog(row.line,
				fmt.Sprintf("cost center %s not found, reference dropped", code), domain.LogWarning))
			return ""
		}
		return cc.CostCenterID
	}
	cost1 := lookup(domain.FieldCost1, domain.CostCenterKost1)
	cost2 := lookup(domain.FieldCost2, domain.CostCenterKost2)
	return cost1, cost2, logs
}

func (b *importRowBuilder) mappingByType(fieldType domain.ImportFieldType) (domain.ImportFieldMapping, bool) {
	for _, m := range b.template.Mappings {
		if m.FieldType == fieldType && !m.Skip {
			return m, true
		}
	}
	return domain.ImportFieldMapping{}, false
}
