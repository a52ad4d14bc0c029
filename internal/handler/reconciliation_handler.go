package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"backoffice-recon/internal/domain"
	"backoffice-recon/internal/service"
	"backoffice-recon/pkg/logger"
	"backoffice-recon/pkg/response"
)

type ReconciliationHandler struct {
	reconService service.ReconciliationService
	autoService  service.AutoReconcileService
}

func NewReconciliationHandler(reconService service.ReconciliationService, autoService service.AutoReconcileService) *ReconciliationHandler {
	return &ReconciliationHandler{
		reconService: reconService,
		autoService:  autoService,
	}
}

type InvoiceMatchRequest struct {
	InvoiceID string `json:"invoice_id" binding:"required"`
	Note      string `json:"note"`
}

type PaymentSourceMatchRequest struct {
	Source           string `json:"source" binding:"required"`
	Amount           string `json:"amount" binding:"required"`
	DisbursementDate string `json:"disbursement_date"`
	TransactionCount int    `json:"transaction_count"`
	Note             string `json:"note"`
}

type OrderMatchRequest struct {
	OrderID string `json:"order_id" binding:"required"`
	Source  string `json:"source" binding:"required,oneof=AR_INVOICE ORDER_FEED"`
	Note    string `json:"note"`
}

type ManualMatchRequest struct {
	GatewayLabel string `json:"gateway_label"`
	Note         string `json:"note"`
}

type AutoReconcileRequest struct {
	SourceAccounts []string `json:"source_accounts" binding:"required,min=1"`
	StartDate      string   `json:"start_date" binding:"required"`
	EndDate        string   `json:"end_date" binding:"required"`
	DryRun         bool     `json:"dry_run"`
}

// CommitInvoiceMatch godoc
// @Summary Reconcile a transaction against an AP invoice
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body InvoiceMatchRequest true "Invoice match"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/transactions/{id}/reconcile/invoice [post]
func (h *ReconciliationHandler) CommitInvoiceMatch(c *gin.Context) {
	txID := c.Param("id")

	var req InvoiceMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.reconService.CommitInvoiceMatch(txID, req.InvoiceID, req.Note); err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Invoice match failed")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Invoice match committed", nil)
}

// CommitPaymentSourceMatch godoc
// @Summary Reconcile a transaction against a gateway settlement or disbursement batch
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body PaymentSourceMatchRequest true "Payment-source match"
// @Success 200 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/transactions/{id}/reconcile/payment-source [post]
func (h *ReconciliationHandler) CommitPaymentSourceMatch(c *gin.Context) {
	txID := c.Param("id")

	var req PaymentSourceMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		response.ValidationError(c, "amount must be a decimal number")
		return
	}

	candidate := domain.Candidate{
		Kind:             domain.CandidatePaymentSource,
		Source:           req.Source,
		Amount:           amount,
		TransactionCount: req.TransactionCount,
	}
	if req.DisbursementDate != "" {
		date, err := time.Parse("2006-01-02", req.DisbursementDate)
		if err != nil {
			response.ValidationError(c, "disbursement_date must be YYYY-MM-DD")
			return
		}
		candidate.DisbursementDate = &date
	}

	if err := h.reconService.CommitPaymentSourceMatch(txID, candidate, req.Note); err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Payment-source match failed")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Payment-source match committed", nil)
}

// CommitOrderMatch godoc
// @Summary Reconcile a transaction against an AR order or invoice
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body OrderMatchRequest true "Order match"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/transactions/{id}/reconcile/order [post]
func (h *ReconciliationHandler) CommitOrderMatch(c *gin.Context) {
	txID := c.Param("id")

	var req OrderMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.reconService.CommitRevenueOrderMatch(txID, req.OrderID, domain.OrderSource(req.Source), req.Note); err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Order match failed")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Order match committed", nil)
}

// CommitManualOnly godoc
// @Summary Reconcile a transaction manually with a gateway label and/or note
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body ManualMatchRequest true "Manual reconciliation"
// @Success 200 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/transactions/{id}/reconcile/manual [post]
func (h *ReconciliationHandler) CommitManualOnly(c *gin.Context) {
	txID := c.Param("id")

	var req ManualMatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.reconService.CommitManualOnly(txID, req.GatewayLabel, req.Note); err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Manual reconciliation failed")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Manual reconciliation committed", nil)
}

// Revert godoc
// @Summary Revert a reconciled transaction to the unmatched state
// @Tags reconciliation
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/transactions/{id}/revert [post]
func (h *ReconciliationHandler) Revert(c *gin.Context) {
	txID := c.Param("id")

	if err := h.reconService.Revert(txID); err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", txID).Error("Revert failed")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Reconciliation reverted", nil)
}

// AutoReconcile godoc
// @Summary Run the automatic reconciliation pass
// @Description Generate candidates for every unreconciled transaction in the window and commit those at or above the confidence threshold. With dry_run the matches are computed but nothing is written.
// @Tags reconciliation
// @Accept json
// @Produce json
// @Param request body AutoReconcileRequest true "Auto-reconciliation request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/auto-reconcile [post]
func (h *ReconciliationHandler) AutoReconcile(c *gin.Context) {
	var req AutoReconcileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		response.BadRequest(c, "Invalid start_date format", "Use YYYY-MM-DD format")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		response.BadRequest(c, "Invalid end_date format", "Use YYYY-MM-DD format")
		return
	}

	report, err := h.autoService.Run(req.SourceAccounts, startDate, endDate, req.DryRun)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Automatic reconciliation run failed")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Automatic reconciliation completed", report)
}

// writeDomainError maps the committer's error taxonomy onto HTTP statuses.
func writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, domain.ErrAlreadyReconciled):
		response.Conflict(c, "Target already reconciled", err.Error())
	case errors.Is(err, domain.ErrNoSelection),
		errors.Is(err, domain.ErrNotReconciled),
		errors.Is(err, domain.ErrValidation):
		response.ValidationError(c, err.Error())
	default:
		response.InternalError(c, "Operation failed", err.Error())
	}
}
