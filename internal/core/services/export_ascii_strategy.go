package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	portssvc "github.com/Finterra/ledger_exchange_app/internal/core/ports/services"
	"github.com/Finterra/ledger_exchange_app/internal/datev"
	"github.com/Finterra/ledger_exchange_app/internal/datev/ascii"
	"github.com/Finterra/ledger_exchange_app/internal/middleware"
)

// asciiExportStrategy serializes claimed moves into one booking flat file.
type asciiExportStrategy struct {
	companyRepo  portsrepo.CompanyRepository
	templateRepo portsrepo.ExportTemplateRepository
	loader       batchLoader
}

// NewASCIIExportStrategy creates the booking flat-file export strategy.
func NewASCIIExportStrategy(repos portsrepo.RepositoryProvider) portssvc.ExportStrategy {
	return &asciiExportStrategy{
		companyRepo:  repos.CompanyRepo,
		templateRepo: repos.TemplateRepo,
		loader: batchLoader{
			journalRepo:    repos.JournalRepo,
			accountRepo:    repos.AccountRepo,
			partnerRepo:    repos.PartnerRepo,
			taxRepo:        repos.TaxRepo,
			costCenterRepo: repos.CostCenterRepo,
		},
	}
}

func (s *asciiExportStrategy) Mode() domain.ExportMode { return domain.ModeASCII }

// Generate renders the booking file: the V700 preamble, the template's
// heading row and one record per booking line. Lines of journals with
// grouping enabled are aggregated before rendering.
func (s *asciiExportStrategy) Generate(ctx context.Context, job domain.ExportJob, moves []domain.Move) ([]domain.Artifact, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	company, err := s.companyRepo.FindCompanyByID(ctx, job.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("finding company: %w", err)
	}
	template, err := s.templateRepo.FindTemplateByID(ctx, job.TemplateID)
	if err != nil {
		return nil, fmt.Errorf("finding template: %w", err)
	}
	transformer, err := datev.NewTransformer(template.Lines, logger)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrConfiguration, err)
	}

	batch, err := s.loader.load(ctx, *company, moves)
	if err != nil {
		return nil, err
	}

	if problems := checkBatch(batch, moves); len(problems) > 0 {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrExportBlocked, strings.Join(problems, "; "))
	}

	// Booking lines per journal, in move order, so grouping stays within
	// each journal's flag.
	type journalLines struct {
		journal domain.Journal
		lines   []datev.BookingLine
		ctxs    []map[string]string
	}
	byJournal := map[string]*journalLines{}
	var journalOrder []string
	for _, move := range moves {
		mc, err := batch.contextFor(move.JournalID)
		if err != nil {
			return nil, err
		}
		lines, err := GenerateBookingLines(mc, move)
		if err != nil {
			return nil, fmt.Errorf("move %s: %w", move.Name, err)
		}
		jl, ok := byJournal[move.JournalID]
		if !ok {
			jl = &journalLines{journal: mc.Journal}
			byJournal[move.JournalID] = jl
			journalOrder = append(journalOrder, move.JournalID)
		}
		moveCtx := transformContext(batch, move)
		for _, l := range lines {
			jl.lines = append(jl.lines, l)
			jl.ctxs = append(jl.ctxs, moveCtx)
		}
	}

	// Pinned selections have no period, so the header dates follow the
	// moves themselves.
	if job.PeriodStart.IsZero() || job.PeriodEnd.IsZero() {
		job.PeriodStart, job.PeriodEnd = moveDateRange(moves)
	}

	order := template.FieldOrder()
	w := ascii.NewWriter()
	w.WriteHeader(bookingHeader(*company, job, time.Now()))
	w.WriteRecord(order)

	total := 0
	for _, journalID := range journalOrder {
		jl := byJournal[journalID]
		if jl.journal.GroupLinesEffective(company.Export) {
			// Aggregated lines span moves, so move context no longer
			// applies to them.
			grouped := datev.GroupLines(jl.lines)
			for i := range grouped {
				record := grouped[i].Record(order)
				transformer.ApplyAll(order, record, nil)
				w.WriteRecord(record)
			}
			total += len(grouped)
			continue
		}
		for i := range jl.lines {
			record := jl.lines[i].Record(order)
			transformer.ApplyAll(order, record, jl.ctxs[i])
			w.WriteRecord(record)
		}
		total += len(jl.lines)
	}

	data, err := w.Bytes()
	if err != nil {
		return nil, fmt.Errorf("encoding booking file: %w", err)
	}
	logger.Info("booking file rendered", "exportID", job.ExportID, "moves", len(moves), "records", total)

	return []domain.Artifact{{
		Name:     "EXTF_" + job.Name + ".csv",
		MimeType: "text/csv",
		Data:     data,
	}}, nil
}

// checkBatch runs the export validations over every move and collects the
// findings in a stable order.
func checkBatch(batch *moveBatch, moves []domain.Move) []string {
	var problems []string
	for _, move := range moves {
		mc, err := batch.contextFor(move.JournalID)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %s", move.Name, err))
			continue
		}
		for _, p := range CheckMoveLines(mc, move) {
			problems = append(problems, fmt.Sprintf("%s: %s", move.Name, p))
		}
	}
	sort.Strings(problems)
	return problems
}

// transformContext exposes move fields to template force-value programs.
func transformContext(batch *moveBatch, move domain.Move) map[string]string {
	ctx := map[string]string{
		"move_name": move.Name,
		"ref":       move.Ref,
		"date":      move.Date.Format(datev.DefaultDateLayout),
	}
	if p, ok := batch.partners[move.PartnerID]; ok {
		ctx["partner_name"] = p.Name
	}
	return ctx
}

// moveDateRange returns the earliest and latest booking date of the moves.
func moveDateRange(moves []domain.Move) (time.Time, time.Time) {
	var from, to time.Time
	for _, m := range moves {
		if from.IsZero() || m.Date.Before(from) {
			from = m.Date
		}
		if to.IsZero() || m.Date.After(to) {
			to = m.Date
		}
	}
	return from, to
}

// bookingHeader fills the V700 preamble for a booking batch.
func bookingHeader(company domain.Company, job domain.ExportJob, now time.Time) datev.Header {
	cfg := company.Export
	return datev.Header{
		Category:        datev.CategoryBookings,
		FormatName:      datev.FormatBookings,
		FormatVersion:   datev.FormatVersionBookings,
		CreatedAt:       now,
		ExportedBy:      company.Name,
		Consultant:      cfg.AccountantNumber,
		Client:          cfg.ClientNumber,
		FiscalYearStart: datev.FiscalYearStart(job.PeriodStart, cfg.FiscalYearLastMonthOrDefault()),
		AccountLength:   cfg.AccountCodeLength,
		DateFrom:        job.PeriodStart,
		DateTo:          job.PeriodEnd,
		Description:     job.Name,
		BookingType:     1,
		Locked:          cfg.Locked,
	}
}
