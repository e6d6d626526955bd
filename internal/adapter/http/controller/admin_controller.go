package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/commons"
)

type ReconciliationService interface {
	Approve(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error)
	Reject(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error)
	ResolveBatch(ctx context.Context, req models.ResolveBatchRequest) (commons.Response[models.ResolveBatchResponse], error)
	ListPending(ctx context.Context) (commons.Response[models.TransactionListResponse], error)
}

type AccountStatusService interface {
	UpdateStatus(ctx context.Context, req models.UpdateAccountStatusRequest) (commons.Response[models.AccountResponse], error)
}

// AdminController exposes the operator surface: external-transfer
// reconciliation and account status management. Every route requires an
// authenticated admin.
type AdminController struct {
	reconciliation ReconciliationService
	accounts       AccountStatusService
}

func NewAdminController(reconciliation ReconciliationService, accounts AccountStatusService) *AdminController {
	return &AdminController{reconciliation: reconciliation, accounts: accounts}
}

func (c *AdminController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	register := func(path string, handler http.HandlerFunc) {
		wrapped := middleware.RequireAdmin(handler)
		if authMiddleware != nil {
			wrapped = authMiddleware(wrapped)
		}
		mux.Handle(path, wrapped)
	}

	register("/admin/external-transfers", c.pending)
	register("/admin/external-transfers/approve", c.approve)
	register("/admin/external-transfers/reject", c.reject)
	register("/admin/external-transfers/resolve-batch", c.resolveBatch)
	register("/admin/accounts/status", c.accountStatus)
}

func (c *AdminController) pending(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TransactionListResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	response, err := c.reconciliation.ListPending(r.Context())
	if err != nil {
		logError(r, err, nil)
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AdminController) approve(w http.ResponseWriter, r *http.Request) {
	c.resolveOne(w, r, c.reconciliation.Approve)
}

func (c *AdminController) reject(w http.ResponseWriter, r *http.Request) {
	c.resolveOne(w, r, c.reconciliation.Reject)
}

func (c *AdminController) resolveOne(
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error),
) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ResolveExternalTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.TransactionResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		response := commons.ErrorResponse[models.TransactionResponse]("Validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := run(r.Context(), req.TransactionID)
	if err != nil {
		logError(r, err, nil)
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AdminController) resolveBatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.ResolveBatchResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.ResolveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.ResolveBatchResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		response := commons.ErrorResponse[models.ResolveBatchResponse]("Validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.reconciliation.ResolveBatch(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}

func (c *AdminController) accountStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.AccountResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	var req models.UpdateAccountStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logError(r, err, nil)
		response := commons.ErrorResponse[models.AccountResponse]("invalid request body", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}
	logRequest(r, req)

	if err := req.Validate(); err != nil {
		response := commons.ErrorResponse[models.AccountResponse]("Validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.accounts.UpdateStatus(r.Context(), req)
	if err != nil {
		logError(r, err, nil)
		status := statusForError(err)
		writeJSON(w, status, response)
		logResponse(r, status, response, start)
		return
	}

	writeJSON(w, http.StatusOK, response)
	logResponse(r, http.StatusOK, response, start)
}
