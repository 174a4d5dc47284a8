package mapping

import (
	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	"github.com/SscSPs/payment_reconciler/internal/models"
)

// ToModelLedgerEntry splits a domain LedgerEntry into its entry and row models
func ToModelLedgerEntry(d domain.LedgerEntry) (models.LedgerEntry, []models.LedgerRow) {
	entry := models.LedgerEntry{
		EntryID:      d.ID,
		EntryDate:    d.EntryDate,
		CurrencyCode: d.CurrencyCode,
		Closed:       d.Closed,
		CreatedAt:    d.CreatedAt,
		ClosedAt:     d.ClosedAt,
	}
	rows := make([]models.LedgerRow, len(d.Rows))
	for i, r := range d.Rows {
		rows[i] = models.LedgerRow{
			EntryID:     d.ID,
			Position:    i + 1,
			Account:     r.Account,
			Description: r.Description,
			Amount:      r.Amount,
			Object:      nullableString(r.Object),
		}
	}
	return entry, rows
}

// ToDomainLedgerEntry joins an entry model with its rows, which must be in position order
func ToDomainLedgerEntry(m models.LedgerEntry, rows []models.LedgerRow) domain.LedgerEntry {
	d := domain.LedgerEntry{
		ID:           m.EntryID,
		EntryDate:    m.EntryDate,
		CurrencyCode: m.CurrencyCode,
		Closed:       m.Closed,
		CreatedAt:    m.CreatedAt,
		ClosedAt:     m.ClosedAt,
		Rows:         make([]domain.AccountingRow, len(rows)),
	}
	for i, r := range rows {
		d.Rows[i] = domain.AccountingRow{
			Account:     r.Account,
			Description: r.Description,
			Amount:      r.Amount,
			Object:      stringOrEmpty(r.Object),
		}
	}
	return d
}
