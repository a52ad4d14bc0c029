package service

import (
	"fmt"

	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/repository"
	"backoffice-recon/pkg/logger"
)

// ReconciliationService is the committer: the only component that moves a
// transaction between Unmatched and Reconciled. Every operation re-validates
// the target's reconciled state through guarded writes rather than trusting
// a stale candidate list, and fails without partial application.
type ReconciliationService interface {
	CommitInvoiceMatch(txID, invoiceID, note string) error
	CommitPaymentSourceMatch(txID string, candidate domain.Candidate, note string) error
	CommitRevenueOrderMatch(txID, orderID string, source domain.OrderSource, note string) error
	CommitManualOnly(txID, gatewayLabel, note string) error
	CommitAutomatic(txID string, candidate domain.Candidate) error
	Revert(txID string) error
}

type reconciliationService struct {
	invoiceRepo repository.InvoiceRepository
	orderRepo   repository.OrderRepository
	reconRepo   repository.ReconciliationRepository
}

func NewReconciliationService(
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	reconRepo repository.ReconciliationRepository,
) ReconciliationService {
	return &reconciliationService{
		invoiceRepo: invoiceRepo,
		orderRepo:   orderRepo,
		reconRepo:   reconRepo,
	}
}

func (s *reconciliationService) CommitInvoiceMatch(txID, invoiceID, note string) error {
	return s.commitInvoice(txID, invoiceID, note, domain.ReconciliationManual)
}

func (s *reconciliationService) commitInvoice(txID, invoiceID, note string, reconType domain.ReconciliationType) error {
	invoice, err := s.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return err
	}
	if invoice.Reconciled {
		return fmt.Errorf("invoice %s: %w", invoiceID, domain.ErrAlreadyReconciled)
	}

	amount := invoice.EffectiveAmount()
	detail := fmt.Sprintf("invoice %s (%s)", invoice.InvoiceNumber, invoice.ProviderCode)

	update := domain.ReconciliationUpdate{
		Type:              reconType,
		MatchedEntityType: domain.MatchedInvoice,
		MatchedEntityID:   &invoiceID,
		MatchedAmount:     &amount,
		MatchedDetail:     &detail,
		Note:              optional(note),
	}

	if err := s.reconRepo.CommitInvoiceMatch(txID, invoiceID, update); err != nil {
		return err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"transaction_id": txID,
		"invoice_id":     invoiceID,
		"type":           reconType,
	}).Info("Invoice match committed")
	return nil
}

func (s *reconciliationService) CommitPaymentSourceMatch(txID string, candidate domain.Candidate, note string) error {
	return s.commitPaymentSource(txID, candidate, note, domain.ReconciliationManual)
}

func (s *reconciliationService) commitPaymentSource(txID string, candidate domain.Candidate, note string, reconType domain.ReconciliationType) error {
	if candidate.Kind != domain.CandidatePaymentSource {
		return fmt.Errorf("candidate kind %s is not a payment source: %w", candidate.Kind, domain.ErrValidation)
	}
	if candidate.Source == "" {
		return fmt.Errorf("payment-source candidate has no source: %w", domain.ErrValidation)
	}

	// Settlement rows are not individually flagged reconciled in this
	// variant; only the bank transaction is marked.
	entityID := candidate.Source
	detail := fmt.Sprintf("%s settlement, %d rows", candidate.Source, candidate.TransactionCount)
	if candidate.DisbursementDate != nil {
		entityID = candidate.Source + "|" + candidate.DisbursementDate.Format("2006-01-02")
		detail = fmt.Sprintf("%s disbursement %s, %d rows",
			candidate.Source, candidate.DisbursementDate.Format("2006-01-02"), candidate.TransactionCount)
	}
	amount := candidate.Amount
	gateway := candidate.Source

	update := domain.ReconciliationUpdate{
		Type:              reconType,
		MatchedEntityType: domain.MatchedPaymentSource,
		MatchedEntityID:   &entityID,
		MatchedAmount:     &amount,
		MatchedDetail:     &detail,
		GatewayLabel:      &gateway,
		Note:              optional(note),
	}

	if err := s.reconRepo.CommitTransactionOnly(txID, update); err != nil {
		return err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"transaction_id": txID,
		"source":         candidate.Source,
		"type":           reconType,
	}).Info("Payment-source match committed")
	return nil
}

func (s *reconciliationService) CommitRevenueOrderMatch(txID, orderID string, source domain.OrderSource, note string) error {
	return s.commitOrder(txID, orderID, source, note, domain.ReconciliationManual)
}

func (s *reconciliationService) commitOrder(txID, orderID string, source domain.OrderSource, note string, reconType domain.ReconciliationType) error {
	order, err := s.orderRepo.GetByID(orderID, source)
	if err != nil {
		return err
	}
	if order.Reconciled {
		return fmt.Errorf("order %s: %w", orderID, domain.ErrAlreadyReconciled)
	}

	amount := order.Amount
	detail := fmt.Sprintf("%s, invoice %s", order.CustomerName, order.InvoiceNumber)

	update := domain.ReconciliationUpdate{
		Type:              reconType,
		MatchedEntityType: domain.MatchedOrder,
		MatchedEntityID:   &orderID,
		MatchedAmount:     &amount,
		MatchedDetail:     &detail,
		Note:              optional(note),
	}

	if err := s.reconRepo.CommitOrderMatch(txID, orderID, source, update); err != nil {
		return err
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"transaction_id": txID,
		"order_id":       orderID,
		"type":           reconType,
	}).Info("Revenue-order match committed")
	return nil
}

func (s *reconciliationService) CommitManualOnly(txID, gatewayLabel, note string) error {
	if gatewayLabel == "" && note == "" {
		return fmt.Errorf("manual reconciliation of %s: %w", txID, domain.ErrNoSelection)
	}

	update := domain.ReconciliationUpdate{
		Type:         domain.ReconciliationManual,
		GatewayLabel: optional(gatewayLabel),
		Note:         optional(note),
	}

	if err := s.reconRepo.CommitTransactionOnly(txID, update); err != nil {
		return err
	}

	logger.GetLogger().WithField("transaction_id", txID).Info("Manual-only reconciliation committed")
	return nil
}

// CommitAutomatic applies a candidate with the automatic tag. Used by the
// batch pass for candidates at or above the confidence threshold.
func (s *reconciliationService) CommitAutomatic(txID string, candidate domain.Candidate) error {
	switch candidate.Kind {
	case domain.CandidateExpenseInvoice:
		return s.commitInvoice(txID, candidate.InvoiceID, "", domain.ReconciliationAutomatic)
	case domain.CandidateRevenueOrder:
		return s.commitOrder(txID, candidate.OrderID, candidate.OrderSource, "", domain.ReconciliationAutomatic)
	case domain.CandidatePaymentSource:
		return s.commitPaymentSource(txID, candidate, "", domain.ReconciliationAutomatic)
	default:
		// Intercompany suggestions are informational only.
		return fmt.Errorf("candidate kind %s cannot be committed: %w", candidate.Kind, domain.ErrValidation)
	}
}

// Revert returns a reconciled transaction to the unmatched state. The
// matched ledger record keeps its reconciled flag: whether reverting a bank
// match should also free the invoice is unconfirmed business behavior, so
// the ledger side is left alone.
func (s *reconciliationService) Revert(txID string) error {
	if err := s.reconRepo.Revert(txID); err != nil {
		return err
	}

	logger.GetLogger().WithField("transaction_id", txID).Info("Reconciliation reverted")
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
