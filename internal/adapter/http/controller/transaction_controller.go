package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
)

type LedgerService interface {
	Deposit(ctx context.Context, userID string, req models.DepositRequest) (commons.Response[models.TransactionResponse], error)
	Withdraw(ctx context.Context, userID string, req models.WithdrawRequest) (commons.Response[models.TransactionResponse], error)
	Transfer(ctx context.Context, userID string, req models.TransferRequest) (commons.Response[models.TransactionResponse], error)
	InitiateExternalTransfer(ctx context.Context, userID string, req models.ExternalTransferRequest) (commons.Response[models.TransactionResponse], error)
	ListTransactions(ctx context.Context, userID string, filter repo_interfaces.TransactionFilter) (commons.Response[models.TransactionListResponse], error)
	Summary(ctx context.Context, userID string) (commons.Response[models.TransactionSummaryResponse], error)
}

type TransactionController struct {
	service LedgerService
}

func NewTransactionController(service LedgerService) *TransactionController {
	return &TransactionController{service: service}
}

func (c *TransactionController) RegisterRoutes(mux *http.ServeMux, authMiddleware func(http.Handler) http.Handler) {
	register := func(path string, handler http.HandlerFunc) {
		var wrapped http.Handler = handler
		if authMiddleware != nil {
			wrapped = authMiddleware(wrapped)
		}
		mux.Handle(path, wrapped)
	}

	register("/transactions/deposit", c.deposit)
	register("/transactions/withdraw", c.withdraw)
	register("/transactions/transfer", c.transfer)
	register("/transactions/external-transfer", c.externalTransfer)
	register("/transactions", c.list)
	register("/transactions/summary", c.summary)
}

func (c *TransactionController) deposit(w http.ResponseWriter, r *http.Request) {
	runMovement(w, r, c.service.Deposit)
}

func (c *TransactionController) withdraw(w http.ResponseWriter, r *http.Request) {
	runMovement(w, r, c.service.Withdraw)
}

func (c *TransactionController) transfer(w http.ResponseWriter, r *http.Request) {
	runMovement(w, r, c.service.Transfer)
}

func (c *TransactionController) externalTransfer(w http.ResponseWriter, r *http.Request) {
	runMovement(w, r, c.service.InitiateExternalTransfer)
}

// runMovement is the shared handler shape for the four money-movement
// endpoints: decode, validate, dispatch under the caller's identity.
func runMovement[R interface{ Validate() error }](
	w http.ResponseWriter,
	r *http.Request,
	run func(ctx context.Context, userID string, req R) (commons.Response[models.TransactionResponse], error),
) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodPost {
		response := commons.ErrorResponse[models.TransactionResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.TransactionResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	var req R
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

	response, err := run(r.Context(), principal.UserID, req)
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

func (c *TransactionController) list(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TransactionListResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.TransactionListResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	filter, err := parseTransactionFilter(r)
	if err != nil {
		response := commons.ErrorResponse[models.TransactionListResponse]("Validation failed", err.Error())
		writeJSON(w, http.StatusBadRequest, response)
		logResponse(r, http.StatusBadRequest, response, start)
		return
	}

	response, err := c.service.ListTransactions(r.Context(), principal.UserID, filter)
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

func (c *TransactionController) summary(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logRequest(r, nil)

	if r.Method != http.MethodGet {
		response := commons.ErrorResponse[models.TransactionSummaryResponse]("method not allowed")
		writeJSON(w, http.StatusMethodNotAllowed, response)
		logResponse(r, http.StatusMethodNotAllowed, response, start)
		return
	}

	principal, ok := middleware.PrincipalFrom(r.Context())
	if !ok {
		response := commons.ErrorResponse[models.TransactionSummaryResponse]("unauthorized")
		writeJSON(w, http.StatusUnauthorized, response)
		logResponse(r, http.StatusUnauthorized, response, start)
		return
	}

	response, err := c.service.Summary(r.Context(), principal.UserID)
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

func parseTransactionFilter(r *http.Request) (repo_interfaces.TransactionFilter, error) {
	var filter repo_interfaces.TransactionFilter

	query := r.URL.Query()
	if raw := strings.ToLower(strings.TrimSpace(query.Get("type"))); raw != "" {
		switch domain.TransactionType(raw) {
		case domain.TransactionTypeDeposit, domain.TransactionTypeWithdrawal,
			domain.TransactionTypeTransfer, domain.TransactionTypeExternal:
			filter.TransactionType = domain.TransactionType(raw)
		default:
			return filter, errors.New("type must be one of deposit, withdrawal, transfer, external")
		}
	}
	if raw := strings.ToLower(strings.TrimSpace(query.Get("status"))); raw != "" {
		switch domain.TransactionStatus(raw) {
		case domain.TransactionStatusPending, domain.TransactionStatusCompleted,
			domain.TransactionStatusFailed, domain.TransactionStatusCancelled:
			filter.Status = domain.TransactionStatus(raw)
		default:
			return filter, errors.New("status must be one of pending, completed, failed, cancelled")
		}
	}
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 {
			return filter, errors.New("limit must be a positive integer")
		}
		filter.Limit = limit
	}

	return filter, nil
}
