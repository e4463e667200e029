package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	"github.com/Finterra/ledger_exchange_app/internal/models"
)

type PgxCompanyRepository struct {
	pool *pgxpool.Pool
}

func newPgxCompanyRepository(pool *pgxpool.Pool) portsrepo.CompanyRepository {
	return &PgxCompanyRepository{pool: pool}
}

var _ portsrepo.CompanyRepository = (*PgxCompanyRepository)(nil)

func toDomainCompany(m models.Company) domain.Company {
	return domain.Company{
		CompanyID:    m.CompanyID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
		CountryCode:  m.CountryCode,
		VATID:        m.VATID,
		Export: domain.ExportConfig{
			AccountantNumber:    m.AccountantNumber,
			ClientNumber:        m.ClientNumber,
			ExportMethod:        domain.ExportMethod(m.ExportMethod),
			VoucherDateFormat:   m.VoucherDateFormat,
			AccountCodeLength:   m.AccountCodeLength,
			RemoveLeadingZeros:  m.RemoveLeadingZeros,
			GroupLines:          m.GroupLines,
			UseDocumentLink:     m.UseDocumentLink,
			ExportRefAsName:     m.ExportRefAsName,
			FiscalYearLastMonth: m.FiscalYearLastMonth,
			BookingTextSource:   domain.BookingTextSource(m.BookingTextSource),
			Locked:              m.Locked,
			XMLMode:             m.XMLMode,
		},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}

// FindCompanyByID retrieves a company with its export configuration.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, currency_code, country_code, vat_id,
		       accountant_number, client_number, export_method, voucher_date_format,
		       account_code_length, remove_leading_zeros, group_lines, use_document_link,
		       export_ref_as_name, fiscal_year_last_month, booking_text_source, locked, xml_mode,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID, &m.Name, &m.CurrencyCode, &m.CountryCode, &m.VATID,
		&m.AccountantNumber, &m.ClientNumber, &m.ExportMethod, &m.VoucherDateFormat,
		&m.AccountCodeLength, &m.RemoveLeadingZeros, &m.GroupLines, &m.UseDocumentLink,
		&m.ExportRefAsName, &m.FiscalYearLastMonth, &m.BookingTextSource, &m.Locked, &m.XMLMode,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
		}
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	company := toDomainCompany(m)
	return &company, nil
}

// UpdateExportConfig replaces the export configuration of a company.
func (r *PgxCompanyRepository) UpdateExportConfig(ctx context.Context, companyID string, cfg domain.ExportConfig, userID string) error {
	query := `
		UPDATE companies
		SET accountant_number = $2, client_number = $3, export_method = $4,
		    voucher_date_format = $5, account_code_length = $6, remove_leading_zeros = $7,
		    group_lines = $8, use_document_link = $9, export_ref_as_name = $10,
		    fiscal_year_last_month = $11, booking_text_source = $12, locked = $13, xml_mode = $14,
		    last_updated_at = $15, last_updated_by = $16
		WHERE company_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query, companyID,
		cfg.AccountantNumber, cfg.ClientNumber, string(cfg.ExportMethod),
		cfg.VoucherDateFormat, cfg.AccountCodeLength, cfg.RemoveLeadingZeros,
		cfg.GroupLines, cfg.UseDocumentLink, cfg.ExportRefAsName,
		cfg.FiscalYearLastMonth, string(cfg.BookingTextSource), cfg.Locked, cfg.XMLMode,
		time.Now(), userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update export config of company %s: %w", companyID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: company %s", apperrors.ErrNotFound, companyID)
	}
	return nil
}
