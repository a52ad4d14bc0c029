package repository

import (
	"database/sql"
	"fmt"
	"time"

	"backoffice-recon/internal/domain"
	"backoffice-recon/pkg/logger"
)

type OrderRepository interface {
	GetByID(id string, source domain.OrderSource) (*domain.RevenueOrder, error)
	// GetUnreconciled merges unreconciled rows from the structured AR-invoice
	// table and the generic order feed, tagged with their source.
	GetUnreconciled(startDate, endDate time.Time) ([]domain.RevenueOrder, error)
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

func orderTable(source domain.OrderSource) (string, error) {
	switch source {
	case domain.OrderSourceARInvoice:
		return "ar_invoices", nil
	case domain.OrderSourceFeed:
		return "order_feed", nil
	default:
		return "", fmt.Errorf("unknown order source %q: %w", source, domain.ErrValidation)
	}
}

func (r *orderRepository) GetByID(id string, source domain.OrderSource) (*domain.RevenueOrder, error) {
	table, err := orderTable(source)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, invoice_number, customer_name, amount, order_date,
		       reconciled, bank_transaction_id
		FROM %s
		WHERE id = $1
	`, table)

	var ord domain.RevenueOrder
	err = r.db.QueryRow(query, id).Scan(
		&ord.ID,
		&ord.InvoiceNumber,
		&ord.CustomerName,
		&ord.Amount,
		&ord.OrderDate,
		&ord.Reconciled,
		&ord.BankTransactionID,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s (%s): %w", id, source, domain.ErrNotFound)
	}
	if err != nil {
		logger.GetLogger().WithError(err).WithField("order_id", id).Error("Failed to get order")
		return nil, fmt.Errorf("get order %s: %w", id, err)
	}
	ord.Source = source

	return &ord, nil
}

func (r *orderRepository) GetUnreconciled(startDate, endDate time.Time) ([]domain.RevenueOrder, error) {
	var orders []domain.RevenueOrder

	for _, source := range []domain.OrderSource{domain.OrderSourceARInvoice, domain.OrderSourceFeed} {
		table, err := orderTable(source)
		if err != nil {
			return nil, err
		}

		query := fmt.Sprintf(`
			SELECT id, invoice_number, customer_name, amount, order_date,
			       reconciled, bank_transaction_id
			FROM %s
			WHERE reconciled = FALSE
			  AND order_date >= $1 AND order_date <= $2
			ORDER BY order_date
		`, table)

		rows, err := r.db.Query(query, startDate, endDate)
		if err != nil {
			logger.GetLogger().WithError(err).WithField("table", table).Error("Failed to query unreconciled orders")
			return nil, fmt.Errorf("query unreconciled orders (%s): %w", table, err)
		}

		for rows.Next() {
			var ord domain.RevenueOrder
			err := rows.Scan(
				&ord.ID,
				&ord.InvoiceNumber,
				&ord.CustomerName,
				&ord.Amount,
				&ord.OrderDate,
				&ord.Reconciled,
				&ord.BankTransactionID,
			)
			if err != nil {
				logger.GetLogger().WithError(err).Error("Failed to scan order")
				continue
			}
			ord.Source = source
			orders = append(orders, ord)
		}
		err = rows.Err()
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("read unreconciled orders (%s): %w", table, err)
		}
	}

	return orders, nil
}
