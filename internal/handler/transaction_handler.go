package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"backoffice-recon/internal/service"
	"backoffice-recon/pkg/logger"
	"backoffice-recon/pkg/response"
)

type TransactionHandler struct {
	txService        service.TransactionService
	candidateService service.CandidateService
}

func NewTransactionHandler(txService service.TransactionService, candidateService service.CandidateService) *TransactionHandler {
	return &TransactionHandler{
		txService:        txService,
		candidateService: candidateService,
	}
}

// ListTransactions godoc
// @Summary List bank transactions
// @Description List bank transactions for a source account and date range
// @Tags transactions
// @Produce json
// @Param source_account query string true "Source account"
// @Param start_date query string true "Start date (YYYY-MM-DD)"
// @Param end_date query string true "End date (YYYY-MM-DD)"
// @Param reconciled query boolean false "Filter by reconciliation state"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) ListTransactions(c *gin.Context) {
	sourceAccount := c.Query("source_account")
	if sourceAccount == "" {
		response.BadRequest(c, "source_account is required", "")
		return
	}

	startDate, endDate, ok := parseDateRange(c)
	if !ok {
		return
	}

	var reconciled *bool
	if raw := c.Query("reconciled"); raw != "" {
		value, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "Invalid reconciled flag", "Use true or false")
			return
		}
		reconciled = &value
	}

	transactions, err := h.txService.List(sourceAccount, startDate, endDate, reconciled)
	if err != nil {
		logger.GetLogger().WithError(err).Error("Failed to list transactions")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Transactions retrieved successfully", transactions)
}

// GetTransaction godoc
// @Summary Get a bank transaction
// @Description Get a bank transaction by id
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/transactions/{id} [get]
func (h *TransactionHandler) GetTransaction(c *gin.Context) {
	id := c.Param("id")

	tx, err := h.txService.GetByID(id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", id).Error("Failed to get transaction")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Transaction retrieved successfully", tx)
}

// GetCandidates godoc
// @Summary Get match candidates for a transaction
// @Description Run the candidate generators for an unreconciled transaction
// @Tags reconciliation
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/transactions/{id}/candidates [get]
func (h *TransactionHandler) GetCandidates(c *gin.Context) {
	id := c.Param("id")

	set, err := h.candidateService.Suggest(id)
	if err != nil {
		logger.GetLogger().WithError(err).WithField("transaction_id", id).Error("Failed to generate candidates")
		writeDomainError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "Candidates generated successfully", set)
}

func parseDateRange(c *gin.Context) (time.Time, time.Time, bool) {
	startDate, err := time.Parse("2006-01-02", c.Query("start_date"))
	if err != nil {
		response.BadRequest(c, "Invalid start_date format", "Use YYYY-MM-DD format")
		return time.Time{}, time.Time{}, false
	}

	endDate, err := time.Parse("2006-01-02", c.Query("end_date"))
	if err != nil {
		response.BadRequest(c, "Invalid end_date format", "Use YYYY-MM-DD format")
		return time.Time{}, time.Time{}, false
	}

	return startDate, endDate, true
}
