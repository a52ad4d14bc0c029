package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"backoffice-recon/internal/domain"
	"backoffice-recon/pkg/logger"
)

type TransactionRepository interface {
	GetByID(id string) (*domain.BankTransaction, error)
	GetUnreconciled(sourceAccounts []string, startDate, endDate time.Time) ([]domain.BankTransaction, error)
	GetUnreconciledExcludingAccount(sourceAccount string, startDate, endDate time.Time) ([]domain.BankTransaction, error)
	List(sourceAccount string, startDate, endDate time.Time, reconciled *bool) ([]domain.BankTransaction, error)
}

type transactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

const transactionColumns = `
	id, source_account, currency, date, description, amount,
	is_reconciled, reconciliation_type, matched_entity_type, matched_entity_id,
	matched_amount, matched_detail, gateway_label, note, reconciled_at,
	created_at, updated_at
`

func (r *transactionRepository) GetByID(id string) (*domain.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE id = $1
	`

	var tx domain.BankTransaction
	err := scanTransaction(r.db.QueryRow(query, id), &tx)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("bank transaction %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", id).Error("Failed to get bank transaction")
		return nil, fmt.Errorf("get bank transaction %s: %w", id, err)
	}

	return &tx, nil
}

func (r *transactionRepository) GetUnreconciled(sourceAccounts []string, startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE is_reconciled = FALSE
		  AND source_account = ANY($1)
		  AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.Query(query, pq.Array(sourceAccounts), startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query unreconciled transactions")
		return nil, fmt.Errorf("query unreconciled transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *transactionRepository) GetUnreconciledExcludingAccount(sourceAccount string, startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE is_reconciled = FALSE
		  AND source_account <> $1
		  AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.Query(query, sourceAccount, startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query other-account transactions")
		return nil, fmt.Errorf("query other-account transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

func (r *transactionRepository) List(sourceAccount string, startDate, endDate time.Time, reconciled *bool) ([]domain.BankTransaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM bank_transactions
		WHERE source_account = $1
		  AND date >= $2 AND date <= $3
		  AND ($4::boolean IS NULL OR is_reconciled = $4)
		ORDER BY date
	`

	rows, err := r.db.Query(query, sourceAccount, startDate, endDate, reconciled)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to list transactions")
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	return collectTransactions(rows)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row rowScanner, tx *domain.BankTransaction) error {
	return row.Scan(
		&tx.ID,
		&tx.SourceAccount,
		&tx.Currency,
		&tx.Date,
		&tx.Description,
		&tx.Amount,
		&tx.IsReconciled,
		&tx.ReconciliationType,
		&tx.MatchedEntityType,
		&tx.MatchedEntityID,
		&tx.MatchedAmount,
		&tx.MatchedDetail,
		&tx.GatewayLabel,
		&tx.Note,
		&tx.ReconciledAt,
		&tx.CreatedAt,
		&tx.UpdatedAt,
	)
}

func collectTransactions(rows *sql.Rows) ([]domain.BankTransaction, error) {
	var transactions []domain.BankTransaction
	for rows.Next() {
		var tx domain.BankTransaction
		if err := scanTransaction(rows, &tx); err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan bank transaction")
			continue
		}
		transactions = append(transactions, tx)
	}
	return transactions, rows.Err()
}
