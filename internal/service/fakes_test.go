package service_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"backoffice-recon/internal/config"
	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/repository"
	"backoffice-recon/internal/service"
)

// memState backs a set of in-memory repository fakes. The write paths follow
// the same guarded semantics as the SQL layer: every state check happens
// before any mutation, so a failing commit leaves nothing half-applied.
type memState struct {
	transactions map[string]*domain.BankTransaction
	invoices     map[string]*domain.Invoice
	orders       map[string]*domain.RevenueOrder
	settlements  []domain.SettlementRow
}

func newMemState() *memState {
	return &memState{
		transactions: make(map[string]*domain.BankTransaction),
		invoices:     make(map[string]*domain.Invoice),
		orders:       make(map[string]*domain.RevenueOrder),
	}
}

func (s *memState) addTransaction(tx domain.BankTransaction) {
	s.transactions[tx.ID] = &tx
}

func (s *memState) addInvoice(inv domain.Invoice) {
	s.invoices[inv.ID] = &inv
}

func (s *memState) addOrder(ord domain.RevenueOrder) {
	s.orders[ord.ID] = &ord
}

func (s *memState) addSettlement(row domain.SettlementRow) {
	s.settlements = append(s.settlements, row)
}

func (s *memState) txRepo() repository.TransactionRepository { return &txRepoFake{s} }
func (s *memState) invoiceRepo() repository.InvoiceRepository {
	return &invoiceRepoFake{s}
}
func (s *memState) orderRepo() repository.OrderRepository { return &orderRepoFake{s} }
func (s *memState) settlementRepo() repository.SettlementRepository {
	return &settlementRepoFake{s}
}
func (s *memState) reconRepo() repository.ReconciliationRepository {
	return &reconRepoFake{s}
}

type txRepoFake struct{ s *memState }

func (r *txRepoFake) GetByID(id string) (*domain.BankTransaction, error) {
	tx, ok := r.s.transactions[id]
	if !ok {
		return nil, fmt.Errorf("bank transaction %s: %w", id, domain.ErrNotFound)
	}
	cp := *tx
	return &cp, nil
}

func (r *txRepoFake) GetUnreconciled(sourceAccounts []string, startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	accounts := make(map[string]bool, len(sourceAccounts))
	for _, a := range sourceAccounts {
		accounts[a] = true
	}

	var out []domain.BankTransaction
	for _, tx := range r.s.transactions {
		if tx.IsReconciled || !accounts[tx.SourceAccount] || !inRange(tx.Date, startDate, endDate) {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (r *txRepoFake) GetUnreconciledExcludingAccount(sourceAccount string, startDate, endDate time.Time) ([]domain.BankTransaction, error) {
	var out []domain.BankTransaction
	for _, tx := range r.s.transactions {
		if tx.IsReconciled || tx.SourceAccount == sourceAccount || !inRange(tx.Date, startDate, endDate) {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

func (r *txRepoFake) List(sourceAccount string, startDate, endDate time.Time, reconciled *bool) ([]domain.BankTransaction, error) {
	var out []domain.BankTransaction
	for _, tx := range r.s.transactions {
		if tx.SourceAccount != sourceAccount || !inRange(tx.Date, startDate, endDate) {
			continue
		}
		if reconciled != nil && tx.IsReconciled != *reconciled {
			continue
		}
		out = append(out, *tx)
	}
	return out, nil
}

type invoiceRepoFake struct{ s *memState }

func (r *invoiceRepoFake) GetByID(id string) (*domain.Invoice, error) {
	inv, ok := r.s.invoices[id]
	if !ok {
		return nil, fmt.Errorf("invoice %s: %w", id, domain.ErrNotFound)
	}
	cp := *inv
	return &cp, nil
}

func (r *invoiceRepoFake) GetUnreconciledExpenseSince(since time.Time) ([]domain.Invoice, error) {
	var out []domain.Invoice
	for _, inv := range r.s.invoices {
		if inv.Reconciled || inv.DueDate.Before(since) {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

type orderRepoFake struct{ s *memState }

func (r *orderRepoFake) GetByID(id string, source domain.OrderSource) (*domain.RevenueOrder, error) {
	if source != domain.OrderSourceARInvoice && source != domain.OrderSourceFeed {
		return nil, fmt.Errorf("unknown order source %q: %w", source, domain.ErrValidation)
	}
	ord, ok := r.s.orders[id]
	if !ok || ord.Source != source {
		return nil, fmt.Errorf("order %s (%s): %w", id, source, domain.ErrNotFound)
	}
	cp := *ord
	return &cp, nil
}

func (r *orderRepoFake) GetUnreconciled(startDate, endDate time.Time) ([]domain.RevenueOrder, error) {
	var out []domain.RevenueOrder
	for _, ord := range r.s.orders {
		if ord.Reconciled || !inRange(ord.OrderDate, startDate, endDate) {
			continue
		}
		out = append(out, *ord)
	}
	return out, nil
}

type settlementRepoFake struct{ s *memState }

func (r *settlementRepoFake) GetUnreconciled(sources []string, startDate, endDate time.Time) ([]domain.SettlementRow, error) {
	allowed := make(map[string]bool, len(sources))
	for _, src := range sources {
		allowed[src] = true
	}

	var out []domain.SettlementRow
	for _, row := range r.s.settlements {
		if row.Reconciled || !allowed[row.Source] || !inRange(row.Date, startDate, endDate) {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

type reconRepoFake struct{ s *memState }

func (r *reconRepoFake) CommitInvoiceMatch(txID, invoiceID string, update domain.ReconciliationUpdate) error {
	inv, ok := r.s.invoices[invoiceID]
	if !ok {
		return fmt.Errorf("commit invoice match %s -> %s: %w", txID, invoiceID, domain.ErrNotFound)
	}
	if inv.Reconciled {
		return fmt.Errorf("commit invoice match %s -> %s: %w", txID, invoiceID, domain.ErrAlreadyReconciled)
	}
	tx, err := r.guardTransaction(txID)
	if err != nil {
		return fmt.Errorf("commit invoice match %s -> %s: %w", txID, invoiceID, err)
	}

	inv.Reconciled = true
	id := txID
	inv.BankTransactionID = &id
	inv.ReconciledAmount = update.MatchedAmount
	markReconciled(tx, update)
	return nil
}

func (r *reconRepoFake) CommitOrderMatch(txID, orderID string, source domain.OrderSource, update domain.ReconciliationUpdate) error {
	ord, ok := r.s.orders[orderID]
	if !ok || ord.Source != source {
		return fmt.Errorf("commit order match %s -> %s: %w", txID, orderID, domain.ErrNotFound)
	}
	if ord.Reconciled {
		return fmt.Errorf("commit order match %s -> %s: %w", txID, orderID, domain.ErrAlreadyReconciled)
	}
	tx, err := r.guardTransaction(txID)
	if err != nil {
		return fmt.Errorf("commit order match %s -> %s: %w", txID, orderID, err)
	}

	ord.Reconciled = true
	id := txID
	ord.BankTransactionID = &id
	markReconciled(tx, update)
	return nil
}

func (r *reconRepoFake) CommitTransactionOnly(txID string, update domain.ReconciliationUpdate) error {
	tx, err := r.guardTransaction(txID)
	if err != nil {
		return fmt.Errorf("commit reconciliation %s: %w", txID, err)
	}
	markReconciled(tx, update)
	return nil
}

func (r *reconRepoFake) Revert(txID string) error {
	tx, ok := r.s.transactions[txID]
	if !ok {
		return fmt.Errorf("revert %s: %w", txID, domain.ErrNotFound)
	}
	if !tx.IsReconciled {
		return fmt.Errorf("revert %s: %w", txID, domain.ErrNotReconciled)
	}

	tx.IsReconciled = false
	tx.ReconciliationType = domain.ReconciliationNone
	tx.MatchedEntityType = domain.MatchedNone
	tx.MatchedEntityID = nil
	tx.MatchedAmount = nil
	tx.MatchedDetail = nil
	tx.GatewayLabel = nil
	tx.Note = nil
	tx.ReconciledAt = nil
	return nil
}

func (r *reconRepoFake) guardTransaction(txID string) (*domain.BankTransaction, error) {
	tx, ok := r.s.transactions[txID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if tx.IsReconciled {
		return nil, domain.ErrAlreadyReconciled
	}
	return tx, nil
}

func markReconciled(tx *domain.BankTransaction, update domain.ReconciliationUpdate) {
	now := time.Now()
	tx.IsReconciled = true
	tx.ReconciliationType = update.Type
	tx.MatchedEntityType = update.MatchedEntityType
	tx.MatchedEntityID = update.MatchedEntityID
	tx.MatchedAmount = update.MatchedAmount
	tx.MatchedDetail = update.MatchedDetail
	tx.GatewayLabel = update.GatewayLabel
	tx.Note = update.Note
	tx.ReconciledAt = &now
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

func day(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func money(value float64) decimal.Decimal {
	return decimal.NewFromFloat(value)
}

func testMatchingConfig() config.MatchingConfig {
	return config.MatchingConfig{
		ExactEpsilon:            0.01,
		InvoiceWindowDays:       3,
		InvoiceAmountTolerance:  0.15,
		InvoiceNameDaysBefore:   30,
		InvoiceNameDaysAfter:    15,
		InvoicePoolLookbackDays: 30,
		SettlementWindowDays:    5,
		SettlementTolerance:     0.03,
		SettlementAbsoluteFloor: 1.00,
		OrderDaysBefore:         30,
		OrderDaysAfter:          5,
		OrderCloseTolerance:     0.05,
		IntercompanyWindowDays:  5,
		IntercompanyTolerance:   0.02,
		AutoCommitThreshold:     90,

		GatewaySourcesUSD:     []string{"braintree", "stripe", "paypal"},
		GatewaySourcesDefault: []string{"braintree", "stripe", "gocardless", "paypal", "adyen"},
	}
}

func newCandidateService(s *memState, providerNames map[string]string) service.CandidateService {
	return service.NewCandidateService(
		s.txRepo(), s.invoiceRepo(), s.orderRepo(), s.settlementRepo(),
		testMatchingConfig(), providerNames,
	)
}

func newReconciliationService(s *memState) service.ReconciliationService {
	return service.NewReconciliationService(s.invoiceRepo(), s.orderRepo(), s.reconRepo())
}
