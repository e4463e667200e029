package accounts_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Finterra/ledger_exchange_app/internal/core/domain"
	"github.com/Finterra/ledger_exchange_app/internal/datev/accounts"
)

func TestPartnerNumbers(t *testing.T) {
	tests := []struct {
		name    string
		partner domain.Partner
		filter  accounts.SideFilter
		want    []accounts.PartnerNumber
	}{
		{
			name:    "both sides",
			partner: domain.Partner{DebtorNumber: "10001", CreditorNumber: "70001"},
			filter:  accounts.SidesBoth,
			want: []accounts.PartnerNumber{
				{Side: accounts.Debtor, Number: "10001"},
				{Side: accounts.Creditor, Number: "70001"},
			},
		},
		{
			name:    "debit filter drops creditor",
			partner: domain.Partner{DebtorNumber: "10001", CreditorNumber: "70001"},
			filter:  accounts.SidesDebit,
			want:    []accounts.PartnerNumber{{Side: accounts.Debtor, Number: "10001"}},
		},
		{
			name:    "no numbers fall back to account codes",
			partner: domain.Partner{},
			filter:  accounts.SidesBoth,
			want: []accounts.PartnerNumber{
				{Side: accounts.Debtor, Number: "1400"},
				{Side: accounts.Creditor, Number: "1600"},
			},
		},
		{
			name:    "creditor only partner gets no debtor fallback",
			partner: domain.Partner{CreditorNumber: "70002"},
			filter:  accounts.SidesBoth,
			want:    []accounts.PartnerNumber{{Side: accounts.Creditor, Number: "70002"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := accounts.PartnerNumbers(tt.partner, tt.filter, "1400", "1600")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildRowCompany(t *testing.T) {
	partner := domain.Partner{
		Name:        "Musterfirma Handels GmbH",
		IsCompany:   true,
		VAT:         "DE123456789",
		Street:      "Hauptstraße 1",
		Zip:         "10115",
		City:        "Berlin",
		CountryCode: "DE",
		Email:       "info@musterfirma.example",
		Banks: []domain.PartnerBank{
			{BankName: "Musterbank", IBAN: "DE02120300000000202051", SWIFT: "BYLADEM1001"},
		},
	}
	number := accounts.PartnerNumber{Side: accounts.Debtor, Number: "10001"}
	account := &domain.Account{Code: "0010001"}

	row := accounts.BuildRow(partner, number, account)

	assert.Equal(t, "0010001", row["Konto"])
	assert.Equal(t, "Musterfirma Han", row["Kurzbezeichnung"])
	assert.Equal(t, "Musterfirma Handels GmbH", row["Name (Adressattyp Unternehmen)"])
	assert.Equal(t, "2", row["Adressattyp"])
	assert.Equal(t, "DE", row["EU-Land"])
	assert.Equal(t, "123456789", row["EU-UStID"])
	assert.Equal(t, "STR", row["Adressart"])
	assert.Equal(t, "DE02120300000000202051", row["IBAN-Nr. 1"])
	assert.Equal(t, "1", row["Kennz. Hauptbankverb. 1"])
	assert.Equal(t, "0", row["Diverse-Konto"])
}

func TestBuildRowPerson(t *testing.T) {
	partner := domain.Partner{Name: "Max Muster", Title: "Herr"}
	number := accounts.PartnerNumber{Side: accounts.Debtor, Number: "10002"}

	row := accounts.BuildRow(partner, number, nil)

	assert.Equal(t, "10002", row["Konto"])
	assert.Equal(t, "Max Muster", row["Name (Adressattyp natürl. Person)"])
	assert.Equal(t, "1", row["Adressattyp"])
	assert.Equal(t, "Herr", row["Anrede"])
	assert.Empty(t, row["Name (Adressattyp Unternehmen)"])
}

func TestBuildRowDiverseAccount(t *testing.T) {
	partner := domain.Partner{Name: "Sammeldebitor"}
	number := accounts.PartnerNumber{Side: accounts.Debtor, Number: "69999"}
	account := &domain.Account{Code: "69999", DiverseAccount: true}

	row := accounts.BuildRow(partner, number, account)
	assert.Equal(t, "1", row["Diverse-Konto"])
}

func TestBuildRowPaymentTerms(t *testing.T) {
	partner := domain.Partner{
		Name:         "Lieferant AG",
		DebtorNumber: "10003",
		CustomerPaymentTerms: []domain.PaymentTermLine{
			{Days: 14, DiscountPercent: "2.00"},
			{Days: 30},
		},
	}
	number := accounts.PartnerNumber{Side: accounts.Debtor, Number: "10003"}

	row := accounts.BuildRow(partner, number, nil)
	assert.Equal(t, "30", row["Fälligkeit in Tagen (Debitor)"])
	assert.Equal(t, "2.00", row["Skonto in Prozent (Debitor)"])
}

func TestBuildRowSupplierTerms(t *testing.T) {
	partner := domain.Partner{
		Name:           "Lieferant AG",
		CreditorNumber: "70003",
		SupplierPaymentTerms: []domain.PaymentTermLine{
			{Days: 10, DiscountPercent: "3.00"},
			{Days: 30},
		},
		SupplierPaymentConditionCode: "12",
	}
	number := accounts.PartnerNumber{Side: accounts.Creditor, Number: "70003"}

	row := accounts.BuildRow(partner, number, nil)
	assert.Equal(t, "10", row["Kreditoren-Ziel 1 Tg."])
	assert.Equal(t, "3.00", row["Kreditoren-Skonto 1 %"])
	assert.Equal(t, "30", row["Kreditoren-Ziel 2 Tg."])
	assert.Equal(t, "0.00", row["Kreditoren-Skonto 2 %"])
	assert.Equal(t, "12", row["Zahlungsbedingung"])
}

func TestRowRecord(t *testing.T) {
	row := accounts.Row{"Konto": "10001", "Kurzbezeichnung": "Muster"}
	rec := row.Record()

	require.Len(t, rec, len(accounts.FieldOrder))
	assert.Equal(t, "10001", rec[0])
	assert.Equal(t, "Muster", rec[7])
}
