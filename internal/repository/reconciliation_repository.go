package repository

import (
	"database/sql"
	"fmt"

	"backoffice-recon/internal/domain"
	"backoffice-recon/pkg/logger"
)

// ReconciliationRepository owns every write that changes reconciliation
// state. Each operation runs inside one database transaction so the bank
// side and the ledger side commit or fail together. Ledger updates are
// guarded with `WHERE reconciled = FALSE`; a zero row count means the record
// vanished or lost a race, distinguished by a follow-up existence check.
type ReconciliationRepository interface {
	CommitInvoiceMatch(txID, invoiceID string, update domain.ReconciliationUpdate) error
	CommitOrderMatch(txID, orderID string, source domain.OrderSource, update domain.ReconciliationUpdate) error
	// CommitTransactionOnly marks only the bank transaction. Used for
	// payment-source matches (settlement rows are not individually flagged)
	// and manual-only reconciliations.
	CommitTransactionOnly(txID string, update domain.ReconciliationUpdate) error
	// Revert clears reconciliation state on the bank transaction. The
	// matched ledger record keeps its reconciled flag; see the committer.
	Revert(txID string) error
}

type reconciliationRepository struct {
	db *sql.DB
}

func NewReconciliationRepository(db *sql.DB) ReconciliationRepository {
	return &reconciliationRepository{db: db}
}

func (r *reconciliationRepository) CommitInvoiceMatch(txID, invoiceID string, update domain.ReconciliationUpdate) error {
	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("commit invoice match: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE ap_invoices
		SET reconciled = TRUE, bank_transaction_id = $2, reconciled_amount = $3
		WHERE id = $1 AND reconciled = FALSE
	`
	if err := r.guardedExec(tx, query, "ap_invoices", invoiceID, txID, update.MatchedAmount); err != nil {
		return fmt.Errorf("commit invoice match %s -> %s: %w", txID, invoiceID, err)
	}

	if err := r.markTransaction(tx, txID, update); err != nil {
		return fmt.Errorf("commit invoice match %s -> %s: %w", txID, invoiceID, err)
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return fmt.Errorf("commit invoice match: %w", err)
	}
	return nil
}

func (r *reconciliationRepository) CommitOrderMatch(txID, orderID string, source domain.OrderSource, update domain.ReconciliationUpdate) error {
	table, err := orderTable(source)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("commit order match: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf(`
		UPDATE %s
		SET reconciled = TRUE, bank_transaction_id = $2
		WHERE id = $1 AND reconciled = FALSE
	`, table)
	if err := r.guardedExec(tx, query, table, orderID, txID); err != nil {
		return fmt.Errorf("commit order match %s -> %s: %w", txID, orderID, err)
	}

	if err := r.markTransaction(tx, txID, update); err != nil {
		return fmt.Errorf("commit order match %s -> %s: %w", txID, orderID, err)
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return fmt.Errorf("commit order match: %w", err)
	}
	return nil
}

func (r *reconciliationRepository) CommitTransactionOnly(txID string, update domain.ReconciliationUpdate) error {
	tx, err := r.db.Begin()
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to begin transaction")
		return fmt.Errorf("commit reconciliation: %w", err)
	}
	defer tx.Rollback()

	if err := r.markTransaction(tx, txID, update); err != nil {
		return fmt.Errorf("commit reconciliation %s: %w", txID, err)
	}

	if err := tx.Commit(); err != nil {
		logger.GetLogger().WithError(err).Error("Failed to commit transaction")
		return fmt.Errorf("commit reconciliation: %w", err)
	}
	return nil
}

func (r *reconciliationRepository) Revert(txID string) error {
	query := `
		UPDATE bank_transactions
		SET is_reconciled = FALSE, reconciliation_type = '', matched_entity_type = '',
		    matched_entity_id = NULL, matched_amount = NULL, matched_detail = NULL,
		    gateway_label = NULL, note = NULL, reconciled_at = NULL, updated_at = NOW()
		WHERE id = $1 AND is_reconciled = TRUE
	`

	result, err := r.db.Exec(query, txID)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Failed to revert reconciliation")
		return fmt.Errorf("revert %s: %w", txID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("revert %s: %w", txID, err)
	}
	if affected == 0 {
		exists, err := r.exists("bank_transactions", txID)
		if err != nil {
			return fmt.Errorf("revert %s: %w", txID, err)
		}
		if !exists {
			return fmt.Errorf("revert %s: %w", txID, domain.ErrNotFound)
		}
		return fmt.Errorf("revert %s: %w", txID, domain.ErrNotReconciled)
	}

	return nil
}

// markTransaction performs the guarded bank-side write. The is_reconciled
// predicate is the mutual-exclusion guard against a concurrent commit on the
// same transaction.
func (r *reconciliationRepository) markTransaction(tx *sql.Tx, txID string, update domain.ReconciliationUpdate) error {
	query := `
		UPDATE bank_transactions
		SET is_reconciled = TRUE, reconciliation_type = $2, matched_entity_type = $3,
		    matched_entity_id = $4, matched_amount = $5, matched_detail = $6,
		    gateway_label = $7, note = $8, reconciled_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND is_reconciled = FALSE
	`

	result, err := tx.Exec(
		query,
		txID,
		update.Type,
		update.MatchedEntityType,
		update.MatchedEntityID,
		update.MatchedAmount,
		update.MatchedDetail,
		update.GatewayLabel,
		update.Note,
	)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Failed to mark transaction reconciled")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := r.existsTx(tx, "bank_transactions", txID)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyReconciled
	}

	return nil
}

// guardedExec runs a ledger-side check-and-set update and maps a zero row
// count to the taxonomy.
func (r *reconciliationRepository) guardedExec(tx *sql.Tx, query, table, id string, args ...interface{}) error {
	result, err := tx.Exec(query, append([]interface{}{id}, args...)...)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("id", id).Error("Failed guarded ledger update")
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		exists, err := r.existsTx(tx, table, id)
		if err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrAlreadyReconciled
	}

	return nil
}

func (r *reconciliationRepository) exists(table, id string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	err := r.db.QueryRow(query, id).Scan(&exists)
	return exists, err
}

func (r *reconciliationRepository) existsTx(tx *sql.Tx, table, id string) (bool, error) {
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, table)
	err := tx.QueryRow(query, id).Scan(&exists)
	return exists, err
}
