package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Finterra/ledger_exchange_app/internal/apperrors"
	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	portsrepo "github.com/Finterra/ledger_exchange_app/internal/core/ports/repositories"
	"github.com/Finterra/ledger_exchange_app/internal/models"
)

type PgxPartnerRepository struct {
	pool *pgxpool.Pool
}

func newPgxPartnerRepository(pool *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{pool: pool}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

func toModelPartner(d domain.Partner) (models.Partner, error) {
	banks, err := json.Marshal(d.Banks)
	if err != nil {
		return models.Partner{}, fmt.Errorf("marshalling banks: %w", err)
	}
	var invoiceAddress []byte
	if d.InvoiceAddress != nil {
		invoiceAddress, err = json.Marshal(d.InvoiceAddress)
		if err != nil {
			return models.Partner{}, fmt.Errorf("marshalling invoice address: %w", err)
		}
	}
	customerTerms, err := json.Marshal(d.CustomerPaymentTerms)
	if err != nil {
		return models.Partner{}, fmt.Errorf("marshalling customer payment terms: %w", err)
	}
	supplierTerms, err := json.Marshal(d.SupplierPaymentTerms)
	if err != nil {
		return models.Partner{}, fmt.Errorf("marshalling supplier payment terms: %w", err)
	}
	return models.Partner{
		PartnerID:                    d.PartnerID,
		CompanyID:                    d.CompanyID,
		Name:                         d.Name,
		IsCompany:                    d.IsCompany,
		Ref:                          d.Ref,
		DebtorNumber:                 d.DebtorNumber,
		CreditorNumber:               d.CreditorNumber,
		CustomerNumber:               d.CustomerNumber,
		SupplierNumber:               d.SupplierNumber,
		VAT:                          d.VAT,
		Street:                       d.Street,
		Street2:                      d.Street2,
		Zip:                          d.Zip,
		City:                         d.City,
		CountryCode:                  d.CountryCode,
		Phone:                        d.Phone,
		Email:                        d.Email,
		Website:                      d.Website,
		Industry:                     d.Industry,
		Title:                        d.Title,
		Banks:                        banks,
		InvoiceAddress:               invoiceAddress,
		ReceivableAccountID:          d.ReceivableAccountID,
		PayableAccountID:             d.PayableAccountID,
		CustomerPaymentTerms:         customerTerms,
		SupplierPaymentTerms:         supplierTerms,
		CustomerPaymentConditionCode: d.CustomerPaymentConditionCode,
		SupplierPaymentConditionCode: d.SupplierPaymentConditionCode,
		SEPAMandateRefs:              d.SEPAMandateRefs,
		Exported:                     d.Exported,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}, nil
}

func toDomainPartner(m models.Partner) (domain.Partner, error) {
	d := domain.Partner{
		PartnerID:                    m.PartnerID,
		CompanyID:                    m.CompanyID,
		Name:                         m.Name,
		IsCompany:                    m.IsCompany,
		Ref:                          m.Ref,
		DebtorNumber:                 m.DebtorNumber,
		CreditorNumber:               m.CreditorNumber,
		CustomerNumber:               m.CustomerNumber,
		SupplierNumber:               m.SupplierNumber,
		VAT:                          m.VAT,
		Street:                       m.Street,
		Street2:                      m.Street2,
		Zip:                          m.Zip,
		City:                         m.City,
		CountryCode:                  m.CountryCode,
		Phone:                        m.Phone,
		Email:                        m.Email,
		Website:                      m.Website,
		Industry:                     m.Industry,
		Title:                        m.Title,
		ReceivableAccountID:          m.ReceivableAccountID,
		PayableAccountID:             m.PayableAccountID,
		CustomerPaymentConditionCode: m.CustomerPaymentConditionCode,
		SupplierPaymentConditionCode: m.SupplierPaymentConditionCode,
		SEPAMandateRefs:              m.SEPAMandateRefs,
		Exported:                     m.Exported,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if len(m.Banks) > 0 {
		if err := json.Unmarshal(m.Banks, &d.Banks); err != nil {
			return domain.Partner{}, fmt.Errorf("unmarshalling banks: %w", err)
		}
	}
	if len(m.InvoiceAddress) > 0 {
		d.InvoiceAddress = &domain.PartnerAddress{}
		if err := json.Unmarshal(m.InvoiceAddress, d.InvoiceAddress); err != nil {
			return domain.Partner{}, fmt.Errorf("unmarshalling invoice address: %w", err)
		}
	}
	if len(m.CustomerPaymentTerms) > 0 {
		if err := json.Unmarshal(m.CustomerPaymentTerms, &d.CustomerPaymentTerms); err != nil {
			return domain.Partner{}, fmt.Errorf("unmarshalling customer payment terms: %w", err)
		}
	}
	if len(m.SupplierPaymentTerms) > 0 {
		if err := json.Unmarshal(m.SupplierPaymentTerms, &d.SupplierPaymentTerms); err != nil {
			return domain.Partner{}, fmt.Errorf("unmarshalling supplier payment terms: %w", err)
		}
	}
	return d, nil
}

const partnerColumns = `partner_id, company_id, name, is_company, ref,
	debtor_number, creditor_number, customer_number, supplier_number,
	vat, street, street2, zip, city, country_code, phone, email, website, industry, title,
	banks, invoice_address, receivable_account_id, payable_account_id,
	customer_payment_terms, supplier_payment_terms,
	customer_payment_condition_code, supplier_payment_condition_code,
	sepa_mandate_refs, exported,
	created_at, created_by, last_updated_at, last_updated_by`

func scanPartner(row pgx.Row) (models.Partner, error) {
	var m models.Partner
	err := row.Scan(
		&m.PartnerID, &m.CompanyID, &m.Name, &m.IsCompany, &m.Ref,
		&m.DebtorNumber, &m.CreditorNumber, &m.CustomerNumber, &m.SupplierNumber,
		&m.VAT, &m.Street, &m.Street2, &m.Zip, &m.City, &m.CountryCode, &m.Phone,
		&m.Email, &m.Website, &m.Industry, &m.Title,
		&m.Banks, &m.InvoiceAddress, &m.ReceivableAccountID, &m.PayableAccountID,
		&m.CustomerPaymentTerms, &m.SupplierPaymentTerms,
		&m.CustomerPaymentConditionCode, &m.SupplierPaymentConditionCode,
		&m.SEPAMandateRefs, &m.Exported,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPartnerRepository) queryPartners(ctx context.Context, query string, args ...any) ([]domain.Partner, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()
	var partners []domain.Partner
	for rows.Next() {
		m, err := scanPartner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner: %w", err)
		}
		d, err := toDomainPartner(m)
		if err != nil {
			return nil, err
		}
		partners = append(partners, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate partners: %w", err)
	}
	return partners, nil
}

// FindPartnerByID retrieves a specific partner by its unique identifier.
func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = $1;`
	m, err := scanPartner(r.pool.QueryRow(ctx, query, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, partnerID)
		}
		return nil, fmt.Errorf("failed to find partner %s: %w", partnerID, err)
	}
	d, err := toDomainPartner(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// FindPartnersByIDs retrieves multiple partners by their IDs.
func (r *PgxPartnerRepository) FindPartnersByIDs(ctx context.Context, partnerIDs []string) (map[string]domain.Partner, error) {
	result := make(map[string]domain.Partner, len(partnerIDs))
	if len(partnerIDs) == 0 {
		return result, nil
	}
	partners, err := r.queryPartners(ctx, `SELECT `+partnerColumns+` FROM partners WHERE partner_id = ANY($1);`, partnerIDs)
	if err != nil {
		return nil, err
	}
	for _, p := range partners {
		result[p.PartnerID] = p
	}
	return result, nil
}

// FindPartnersByDebtorNumber retrieves the partners carrying the given debtor
// number.
func (r *PgxPartnerRepository) FindPartnersByDebtorNumber(ctx context.Context, companyID string, number string) ([]domain.Partner, error) {
	return r.queryPartners(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE company_id = $1 AND debtor_number = $2;`,
		companyID, number)
}

// FindPartnersByCreditorNumber retrieves the partners carrying the given
// creditor number.
func (r *PgxPartnerRepository) FindPartnersByCreditorNumber(ctx context.Context, companyID string, number string) ([]domain.Partner, error) {
	return r.queryPartners(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE company_id = $1 AND creditor_number = $2;`,
		companyID, number)
}

// ListPartnersForMasterDataExport retrieves the partners matching a master
// data export selection.
func (r *PgxPartnerRepository) ListPartnersForMasterDataExport(ctx context.Context, companyID string, sides string, onlyNew bool) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE company_id = $1`
	switch sides {
	case "debit":
		query += ` AND debtor_number <> ''`
	case "credit":
		query += ` AND creditor_number <> ''`
	default:
		query += ` AND (debtor_number <> '' OR creditor_number <> '' OR receivable_account_id <> '' OR payable_account_id <> '')`
	}
	if onlyNew {
		query += ` AND NOT exported`
	}
	query += ` ORDER BY name;`
	return r.queryPartners(ctx, query, companyID)
}

// ListPartners retrieves a paginated list of partners for a company.
func (r *PgxPartnerRepository) ListPartners(ctx context.Context, companyID string, limit int, offset int) ([]domain.Partner, error) {
	return r.queryPartners(ctx,
		`SELECT `+partnerColumns+` FROM partners WHERE company_id = $1 ORDER BY name LIMIT $2 OFFSET $3;`,
		companyID, limit, offset)
}

// SavePartner inserts a new partner.
func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	m, err := toModelPartner(partner)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO partners (` + partnerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17,
		        $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28, $29, $30, $31, $32, $33, $34);
	`
	_, err = r.pool.Exec(ctx, query,
		m.PartnerID, m.CompanyID, m.Name, m.IsCompany, m.Ref,
		m.DebtorNumber, m.CreditorNumber, m.CustomerNumber, m.SupplierNumber,
		m.VAT, m.Street, m.Street2, m.Zip, m.City, m.CountryCode, m.Phone,
		m.Email, m.Website, m.Industry, m.Title,
		m.Banks, m.InvoiceAddress, m.ReceivableAccountID, m.PayableAccountID,
		m.CustomerPaymentTerms, m.SupplierPaymentTerms,
		m.CustomerPaymentConditionCode, m.SupplierPaymentConditionCode,
		m.SEPAMandateRefs, m.Exported,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: partner %s", apperrors.ErrDuplicate, m.PartnerID)
		}
		return fmt.Errorf("failed to save partner %s: %w", m.PartnerID, err)
	}
	return nil
}

// UpdatePartner updates an existing partner's details.
func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	m, err := toModelPartner(partner)
	if err != nil {
		return err
	}
	query := `
		UPDATE partners
		SET name = $2, is_company = $3, ref = $4, debtor_number = $5, creditor_number = $6,
		    customer_number = $7, supplier_number = $8, vat = $9, street = $10, street2 = $11,
		    zip = $12, city = $13, country_code = $14, phone = $15, email = $16, website = $17,
		    industry = $18, title = $19, banks = $20, invoice_address = $21,
		    receivable_account_id = $22, payable_account_id = $23,
		    customer_payment_terms = $24, supplier_payment_terms = $25,
		    customer_payment_condition_code = $26, supplier_payment_condition_code = $27,
		    sepa_mandate_refs = $28, exported = $29, last_updated_at = $30, last_updated_by = $31
		WHERE partner_id = $1;
	`
	tag, err := r.pool.Exec(ctx, query,
		m.PartnerID, m.Name, m.IsCompany, m.Ref, m.DebtorNumber, m.CreditorNumber,
		m.CustomerNumber, m.SupplierNumber, m.VAT, m.Street, m.Street2,
		m.Zip, m.City, m.CountryCode, m.Phone, m.Email, m.Website,
		m.Industry, m.Title, m.Banks, m.InvoiceAddress,
		m.ReceivableAccountID, m.PayableAccountID,
		m.CustomerPaymentTerms, m.SupplierPaymentTerms,
		m.CustomerPaymentConditionCode, m.SupplierPaymentConditionCode,
		m.SEPAMandateRefs, m.Exported, time.Now(), partner.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update partner %s: %w", m.PartnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: partner %s", apperrors.ErrNotFound, m.PartnerID)
	}
	return nil
}

// MarkPartnersExported sets or clears the exported flag on the given
// partners.
func (r *PgxPartnerRepository) MarkPartnersExported(ctx context.Context, partnerIDs []string, exported bool, userID string) error {
	if len(partnerIDs) == 0 {
		return nil
	}
	query := `
		UPDATE partners
		SET exported = $2, last_updated_at = $3, last_updated_by = $4
		WHERE partner_id = ANY($1);
	`
	if _, err := r.pool.Exec(ctx, query, partnerIDs, exported, time.Now(), userID); err != nil {
		return fmt.Errorf("failed to flag partners exported: %w", err)
	}
	return nil
}
