package repository

import (
	"database/sql"
	"fmt"
	"time"

	"backoffice-recon/internal/domain"
	"backoffice-recon/pkg/logger"
)

type InvoiceRepository interface {
	GetByID(id string) (*domain.Invoice, error)
	// GetUnreconciledExpenseSince returns unreconciled expense-type invoices
	// with a due date on or after the given day. The browse pool has no
	// upper date bound, so neither does the query.
	GetUnreconciledExpenseSince(since time.Time) ([]domain.Invoice, error)
}

type invoiceRepository struct {
	db *sql.DB
}

func NewInvoiceRepository(db *sql.DB) InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceColumns = `
	id, invoice_number, provider_code, description, amount, paid_amount,
	due_date, reconciled, bank_transaction_id, reconciled_amount
`

func (r *invoiceRepository) GetByID(id string) (*domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM ap_invoices
		WHERE id = $1
	`

	var inv domain.Invoice
	err := r.db.QueryRow(query, id).Scan(
		&inv.ID,
		&inv.InvoiceNumber,
		&inv.ProviderCode,
		&inv.Description,
		&inv.Amount,
		&inv.PaidAmount,
		&inv.DueDate,
		&inv.Reconciled,
		&inv.BankTransactionID,
		&inv.ReconciledAmount,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("invoice_id", id).Error("Failed to get invoice")
		return nil, fmt.Errorf("get invoice %s: %w", id, err)
	}

	return &inv, nil
}

func (r *invoiceRepository) GetUnreconciledExpenseSince(since time.Time) ([]domain.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM ap_invoices
		WHERE reconciled = FALSE
		  AND invoice_type = 'EXPENSE'
		  AND due_date >= $1
		ORDER BY due_date
	`

	rows, err := r.db.Query(query, since)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query unreconciled invoices")
		return nil, fmt.Errorf("query unreconciled invoices: %w", err)
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		var inv domain.Invoice
		err := rows.Scan(
			&inv.ID,
			&inv.InvoiceNumber,
			&inv.ProviderCode,
			&inv.Description,
			&inv.Amount,
			&inv.PaidAmount,
			&inv.DueDate,
			&inv.Reconciled,
			&inv.BankTransactionID,
			&inv.ReconciledAmount,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan invoice")
			continue
		}
		invoices = append(invoices, inv)
	}

	return invoices, rows.Err()
}
