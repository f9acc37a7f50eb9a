package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"metasecure-core/internal/handler/request"
	"metasecure-core/internal/handler/response"
	"metasecure-core/internal/history"
	"metasecure-core/internal/journal"
	"metasecure-core/internal/session"
	"metasecure-core/internal/txcoord"
	"metasecure-core/pkg/errno"
	"metasecure-core/pkg/validator"
)

// TransactionHandler exposes submission and history over HTTP.
type TransactionHandler struct {
	orchestrator *txcoord.Orchestrator
	reconciler   *history.Reconciler
	manager      *session.Manager
	journal      *journal.Journal
}

func NewTransactionHandler(
	orch *txcoord.Orchestrator,
	rec *history.Reconciler,
	manager *session.Manager,
	jnl *journal.Journal,
) *TransactionHandler {
	return &TransactionHandler{
		orchestrator: orch,
		reconciler:   rec,
		manager:      manager,
		journal:      jnl,
	}
}

// Submit godoc
// @Summary Submit a transfer
// @Description Runs the two-phase submit: native transfer, then ledger record
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body request.SubmitTransactionRequest true "transfer draft"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions [post]
func (h *TransactionHandler) Submit(c *gin.Context) {
	var req request.SubmitTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	draft := txcoord.Draft{
		AddressTo: req.AddressTo,
		Amount:    req.Amount,
		Keyword:   req.Keyword,
		Message:   req.Message,
	}
	h.orchestrator.SetDraft(draft)

	hash, err := h.orchestrator.Submit(c.Request.Context(), draft)
	if err != nil {
		var partial *txcoord.PartialError
		if errors.As(err, &partial) {
			// value already moved; hand the client the native hash so the
			// gap can be reconciled later
			response.ErrorWithData(c, errno.ErrPartialSubmission, gin.H{"native_hash": partial.NativeHash})
			return
		}
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"transaction_hash": hash})
}

// UpdateDraft godoc
// @Summary Update one draft field
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body request.UpdateDraftRequest true "field update"
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/draft [patch]
func (h *TransactionHandler) UpdateDraft(c *gin.Context) {
	var req request.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(validator.GetErrorMsg(err)))
		return
	}

	if err := h.orchestrator.UpdateDraft(req.Field, req.Value); err != nil {
		response.Error(c, errno.ErrBind.WithMessage(err.Error()))
		return
	}
	response.Success(c, h.orchestrator.Draft())
}

// List godoc
// @Summary Reconciled transfer history for the active account
// @Description Rebuilds the list from the ledger, most recent first
// @Tags transactions
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/transactions [get]
func (h *TransactionHandler) List(c *gin.Context) {
	records := h.reconciler.Refresh(c.Request.Context(), h.manager.Account())
	response.Success(c, gin.H{"transactions": records, "count": len(records)})
}

// Count godoc
// @Summary Last known ledger transaction count
// @Tags transactions
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/count [get]
func (h *TransactionHandler) Count(c *gin.Context) {
	response.Success(c, gin.H{"transaction_count": h.orchestrator.Count()})
}

// Partials godoc
// @Summary Unreconciled partial submissions
// @Description Journal rows where value moved but no ledger record exists
// @Tags transactions
// @Produce json
// @Success 200 {object} response.Response
// @Router /api/v1/transactions/partials [get]
func (h *TransactionHandler) Partials(c *gin.Context) {
	rows, err := h.journal.Partials(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"partials": rows})
}
