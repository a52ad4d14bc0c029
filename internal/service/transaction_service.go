package service

import (
	"fmt"
	"time"

	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/matcher"
	"backoffice-recon/internal/repository"
)

// TransactionService is the read surface over the transaction feed.
type TransactionService interface {
	GetByID(id string) (*domain.BankTransaction, error)
	List(sourceAccount string, startDate, endDate time.Time, reconciled *bool) ([]domain.BankTransaction, error)
	DetectGateway(description string) (matcher.GatewayLabel, bool)
}

type transactionService struct {
	repo repository.TransactionRepository
}

func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

func (s *transactionService) GetByID(id string) (*domain.BankTransaction, error) {
	if id == "" {
		return nil, fmt.Errorf("transaction id cannot be empty: %w", domain.ErrValidation)
	}
	return s.repo.GetByID(id)
}

func (s *transactionService) List(sourceAccount string, startDate, endDate time.Time, reconciled *bool) ([]domain.BankTransaction, error) {
	if sourceAccount == "" {
		return nil, fmt.Errorf("source account cannot be empty: %w", domain.ErrValidation)
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date after end date: %w", domain.ErrValidation)
	}
	return s.repo.List(sourceAccount, startDate, endDate, reconciled)
}

func (s *transactionService) DetectGateway(description string) (matcher.GatewayLabel, bool) {
	return matcher.DetectGateway(description)
}
