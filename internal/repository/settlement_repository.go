package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"backoffice-recon/internal/domain"
	"backoffice-recon/pkg/logger"
)

type SettlementRepository interface {
	GetUnreconciled(sources []string, startDate, endDate time.Time) ([]domain.SettlementRow, error)
}

type settlementRepository struct {
	db *sql.DB
}

func NewSettlementRepository(db *sql.DB) SettlementRepository {
	return &settlementRepository{db: db}
}

func (r *settlementRepository) GetUnreconciled(sources []string, startDate, endDate time.Time) ([]domain.SettlementRow, error) {
	query := `
		SELECT id, source, amount, date, disbursement_date, reconciled
		FROM settlement_rows
		WHERE reconciled = FALSE
		  AND source = ANY($1)
		  AND date >= $2 AND date <= $3
		ORDER BY date
	`

	rows, err := r.db.Query(query, pq.Array(sources), startDate, endDate)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to query settlement rows")
		return nil, fmt.Errorf("query settlement rows: %w", err)
	}
	defer rows.Close()

	var settlements []domain.SettlementRow
	for rows.Next() {
		var row domain.SettlementRow
		err := rows.Scan(
			&row.ID,
			&row.Source,
			&row.Amount,
			&row.Date,
			&row.DisbursementDate,
			&row.Reconciled,
		)
		if err != nil {
			logger.GetLogger().WithError(err).Error("Failed to scan settlement row")
			continue
		}
		settlements = append(settlements, row)
	}

	return settlements, rows.Err()
}
