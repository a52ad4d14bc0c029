package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/repository"
	"backoffice-recon/pkg/logger"
)

// AutoReconcileService is the batch pass: for every unreconciled transaction
// in the window it generates candidates and applies the best one when it
// reaches the confidence threshold. With dryRun the same computation runs
// without writing anything.
type AutoReconcileService interface {
	Run(sourceAccounts []string, startDate, endDate time.Time, dryRun bool) (*domain.AutoReconcileReport, error)
}

type autoReconcileService struct {
	txRepo     repository.TransactionRepository
	candidates CandidateService
	committer  ReconciliationService
	threshold  int
}

func NewAutoReconcileService(
	txRepo repository.TransactionRepository,
	candidates CandidateService,
	committer ReconciliationService,
	threshold int,
) AutoReconcileService {
	return &autoReconcileService{
		txRepo:     txRepo,
		candidates: candidates,
		committer:  committer,
		threshold:  threshold,
	}
}

func (s *autoReconcileService) Run(sourceAccounts []string, startDate, endDate time.Time, dryRun bool) (*domain.AutoReconcileReport, error) {
	if len(sourceAccounts) == 0 {
		return nil, fmt.Errorf("no source accounts given: %w", domain.ErrValidation)
	}
	if startDate.After(endDate) {
		return nil, fmt.Errorf("start date after end date: %w", domain.ErrValidation)
	}

	report := &domain.AutoReconcileReport{
		RunID:     uuid.New().String(),
		DryRun:    dryRun,
		StartDate: startDate,
		EndDate:   endDate,
		PerSource: make(map[string]*domain.AutoSourceSummary, len(sourceAccounts)),
	}

	logger.GetLogger().WithFields(map[string]interface{}{
		"run_id":     report.RunID,
		"accounts":   sourceAccounts,
		"start_date": startDate,
		"end_date":   endDate,
		"dry_run":    dryRun,
	}).Info("Starting automatic reconciliation run")

	for _, account := range sourceAccounts {
		summary := &domain.AutoSourceSummary{}
		report.PerSource[account] = summary

		transactions, err := s.txRepo.GetUnreconciled([]string{account}, startDate, endDate)
		if err != nil {
			return nil, fmt.Errorf("auto-reconcile run %s: %w", report.RunID, err)
		}

		for i := range transactions {
			tx := &transactions[i]
			summary.Total++

			set, err := s.candidates.SuggestForTransaction(tx)
			if err != nil {
				logger.GetLogger().WithError(err).WithField("transaction_id", tx.ID).Warn("Candidate generation failed, skipping")
				summary.Unmatched++
				continue
			}

			best := set.Best()
			if best == nil || best.Score < s.threshold {
				summary.Unmatched++
				continue
			}

			if dryRun {
				summary.Matched++
				continue
			}

			err = s.committer.CommitAutomatic(tx.ID, *best)
			if errors.Is(err, domain.ErrAlreadyReconciled) || errors.Is(err, domain.ErrNotFound) {
				// Lost a race with a manual commit; leave it for review.
				logger.GetLogger().WithError(err).WithField("transaction_id", tx.ID).Warn("Automatic commit skipped")
				summary.Unmatched++
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("auto-reconcile run %s: transaction %s: %w", report.RunID, tx.ID, err)
			}
			summary.Matched++
		}
	}

	logger.GetLogger().WithField("run_id", report.RunID).Info("Automatic reconciliation run completed")
	return report, nil
}
