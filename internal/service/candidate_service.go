package service

import (
	"fmt"
	"time"

	"backoffice-recon/internal/config"
	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/matcher"
	"backoffice-recon/internal/repository"
	"backoffice-recon/pkg/logger"
)

// CandidateService runs the candidate generators for one transaction.
// Generation is read-only; candidates are transient and never persisted.
type CandidateService interface {
	Suggest(txID string) (*domain.SuggestionSet, error)
	SuggestForTransaction(tx *domain.BankTransaction) (*domain.SuggestionSet, error)
}

type candidateService struct {
	txRepo         repository.TransactionRepository
	invoiceRepo    repository.InvoiceRepository
	orderRepo      repository.OrderRepository
	settlementRepo repository.SettlementRepository
	matching       config.MatchingConfig
	tolerances     matcher.Tolerances
	providerNames  map[string]string
}

func NewCandidateService(
	txRepo repository.TransactionRepository,
	invoiceRepo repository.InvoiceRepository,
	orderRepo repository.OrderRepository,
	settlementRepo repository.SettlementRepository,
	matching config.MatchingConfig,
	providerNames map[string]string,
) CandidateService {
	return &candidateService{
		txRepo:         txRepo,
		invoiceRepo:    invoiceRepo,
		orderRepo:      orderRepo,
		settlementRepo: settlementRepo,
		matching:       matching,
		tolerances:     matching.Tolerances(),
		providerNames:  providerNames,
	}
}

func (s *candidateService) Suggest(txID string) (*domain.SuggestionSet, error) {
	tx, err := s.txRepo.GetByID(txID)
	if err != nil {
		return nil, err
	}
	return s.SuggestForTransaction(tx)
}

func (s *candidateService) SuggestForTransaction(tx *domain.BankTransaction) (*domain.SuggestionSet, error) {
	set := &domain.SuggestionSet{TransactionID: tx.ID}

	// An already-reconciled transaction gets an empty set; that is a normal
	// outcome, not an error.
	if tx.IsReconciled {
		return set, nil
	}

	switch {
	case tx.IsExpense():
		if err := s.suggestExpense(tx, set); err != nil {
			return nil, err
		}
	case tx.IsRevenue():
		if err := s.suggestRevenue(tx, set); err != nil {
			return nil, err
		}
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"transaction_id": tx.ID,
		"invoice_window": len(set.InvoiceWindow),
		"invoice_names":  len(set.InvoiceNameMatches),
		"sources":        len(set.PaymentSources),
		"orders":         len(set.RevenueOrders),
		"intercompany":   len(set.Intercompany),
	}).Debug("Candidate generation completed")

	return set, nil
}

func (s *candidateService) suggestExpense(tx *domain.BankTransaction, set *domain.SuggestionSet) error {
	// One query covers the exact window, the name window, and the pool
	// lookback; the generator applies the individual windows.
	since := addDays(tx.Date, -s.tolerances.InvoicePoolLookbackDays)
	invoices, err := s.invoiceRepo.GetUnreconciledExpenseSince(since)
	if err != nil {
		return fmt.Errorf("suggest for %s: %w", tx.ID, err)
	}

	m := matcher.MatchExpenseInvoices(*tx, invoices, s.providerNames, s.tolerances)
	set.InvoiceWindow = m.Window
	set.InvoiceNameMatches = m.NameMatches
	set.InvoicePool = m.Pool
	return nil
}

func (s *candidateService) suggestRevenue(tx *domain.BankTransaction, set *domain.SuggestionSet) error {
	sources := s.matching.SourcesForCurrency(tx.Currency)
	rows, err := s.settlementRepo.GetUnreconciled(
		sources,
		addDays(tx.Date, -s.tolerances.SettlementWindowDays),
		addDays(tx.Date, s.tolerances.SettlementWindowDays),
	)
	if err != nil {
		return fmt.Errorf("suggest for %s: %w", tx.ID, err)
	}
	set.PaymentSources = matcher.MatchPaymentSources(*tx, rows, s.tolerances)

	orders, err := s.orderRepo.GetUnreconciled(
		addDays(tx.Date, -s.tolerances.OrderDaysBefore),
		addDays(tx.Date, s.tolerances.OrderDaysAfter),
	)
	if err != nil {
		return fmt.Errorf("suggest for %s: %w", tx.ID, err)
	}
	set.RevenueOrders = matcher.MatchRevenueOrders(*tx, orders, s.tolerances)

	others, err := s.txRepo.GetUnreconciledExcludingAccount(
		tx.SourceAccount,
		addDays(tx.Date, -s.tolerances.IntercompanyWindowDays),
		addDays(tx.Date, s.tolerances.IntercompanyWindowDays),
	)
	if err != nil {
		return fmt.Errorf("suggest for %s: %w", tx.ID, err)
	}
	set.Intercompany = matcher.MatchIntercompany(*tx, others, s.tolerances)
	return nil
}

func addDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}
