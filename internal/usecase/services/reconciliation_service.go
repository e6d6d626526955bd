package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// ReconciliationService settles pending external transfers. Approve marks
// the entry completed; the funds already left the balance at initiation.
// Reject refunds the source account and cancels the entry, in the same unit
// of work, so the refund lands exactly once.
type ReconciliationService struct {
	uow repo_interfaces.UnitOfWork
}

func NewReconciliationService(uow repo_interfaces.UnitOfWork) *ReconciliationService {
	return &ReconciliationService{uow: uow}
}

func (s *ReconciliationService) Approve(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error) {
	logger.Info("reconciliation service approve request", logger.Fields{"transactionId": transactionID})

	entry, _, err := s.resolve(ctx, transactionID, domain.TransactionStatusCompleted)
	if err != nil {
		logger.Error("reconciliation service approve failed", err, logger.Fields{"transactionId": transactionID})
		return failureResponse[models.TransactionResponse]("Approval failed", err), err
	}

	logger.Info("reconciliation service approved", logger.Fields{"reference": entry.ReferenceNumber})
	return commons.SuccessResponse("External transfer approved", models.MapTransaction(entry, nil)), nil
}

func (s *ReconciliationService) Reject(ctx context.Context, transactionID string) (commons.Response[models.TransactionResponse], error) {
	logger.Info("reconciliation service reject request", logger.Fields{"transactionId": transactionID})

	entry, newBalance, err := s.resolve(ctx, transactionID, domain.TransactionStatusCancelled)
	if err != nil {
		logger.Error("reconciliation service reject failed", err, logger.Fields{"transactionId": transactionID})
		return failureResponse[models.TransactionResponse]("Rejection failed", err), err
	}

	logger.Info("reconciliation service rejected", logger.Fields{"reference": entry.ReferenceNumber})
	return commons.SuccessResponse("External transfer rejected and refunded", models.MapTransaction(entry, newBalance)), nil
}

// ResolveBatch applies one action to many transfers. Each ID resolves in
// its own unit of work: entries that lost the race to another resolver (or
// do not exist) are skipped, storage failures are reported per ID, and
// neither stops the rest of the batch.
func (s *ReconciliationService) ResolveBatch(ctx context.Context, request models.ResolveBatchRequest) (commons.Response[models.ResolveBatchResponse], error) {
	logger.Info("reconciliation service batch request", logger.Fields{"count": len(request.TransactionIDs), "action": request.Action})

	if err := request.Validate(); err != nil {
		logger.Error("reconciliation service batch validation failed", err, nil)
		return validationResponse[models.ResolveBatchResponse](err), err
	}

	target := domain.TransactionStatusCompleted
	if strings.EqualFold(strings.TrimSpace(request.Action), "reject") {
		target = domain.TransactionStatusCancelled
	}

	result := models.ResolveBatchResponse{Resolved: make([]models.TransactionResponse, 0, len(request.TransactionIDs))}
	for _, transactionID := range request.TransactionIDs {
		entry, newBalance, err := s.resolve(ctx, transactionID, target)
		switch {
		case err == nil:
			result.Resolved = append(result.Resolved, models.MapTransaction(entry, newBalance))
		case errors.Is(err, domain.ErrAlreadyResolved), errors.Is(err, domain.ErrRecordNotFound):
			result.Skipped = append(result.Skipped, transactionID)
		default:
			logger.Error("reconciliation service batch item failed", err, logger.Fields{"transactionId": transactionID})
			result.Failed = append(result.Failed, transactionID)
		}
	}

	logger.Info("reconciliation service batch completed", logger.Fields{
		"resolved": len(result.Resolved),
		"skipped":  len(result.Skipped),
		"failed":   len(result.Failed),
	})
	return commons.SuccessResponse("Batch processed", result), nil
}

func (s *ReconciliationService) ListPending(ctx context.Context) (commons.Response[models.TransactionListResponse], error) {
	pending, err := s.uow.Transactions().ListPendingExternal(ctx)
	if err != nil {
		logger.Error("reconciliation service list pending failed", err, nil)
		return failureResponse[models.TransactionListResponse]("Unable to list pending transfers", err), err
	}

	response := models.TransactionListResponse{Transactions: make([]models.TransactionResponse, 0, len(pending))}
	for _, transaction := range pending {
		response.Transactions = append(response.Transactions, models.MapTransaction(transaction, nil))
	}
	return commons.SuccessResponse("Pending external transfers retrieved", response), nil
}

// resolve moves one pending external transfer to the target terminal
// status. The funding account row is locked before the entry is re-read, so
// concurrent resolvers serialize there; whichever loses finds the entry no
// longer pending and gets domain.ErrAlreadyResolved.
func (s *ReconciliationService) resolve(ctx context.Context, transactionID string, target domain.TransactionStatus) (domain.Transaction, *decimal.Decimal, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return domain.Transaction{}, nil, domain.ErrRecordNotFound
	}

	var (
		entry      domain.Transaction
		newBalance *decimal.Decimal
	)
	err := s.uow.Do(ctx, func(uow repo_interfaces.UnitOfWork) error {
		probe, err := uow.Transactions().GetByID(ctx, transactionID)
		if err != nil {
			return err
		}
		// Entries of other types never had a pending debit to settle.
		if probe.TransactionType != domain.TransactionTypeExternal || probe.FromAccountID == nil {
			return domain.ErrAlreadyResolved
		}

		account, err := uow.Accounts().GetForUpdate(ctx, *probe.FromAccountID)
		if err != nil {
			return err
		}

		entry, err = uow.Transactions().GetForUpdate(ctx, transactionID)
		if err != nil {
			return err
		}
		if !entry.CanBeResolved() {
			return domain.ErrAlreadyResolved
		}

		if target == domain.TransactionStatusCancelled {
			account.Balance = account.Balance.Add(entry.Amount)
			if err := uow.Accounts().SaveBalance(ctx, account); err != nil {
				return err
			}
			balance := account.Balance
			newBalance = &balance
		}

		if err := uow.Transactions().UpdateStatus(ctx, transactionID, target); err != nil {
			return err
		}
		entry.Status = target
		return nil
	})
	if err != nil {
		return domain.Transaction{}, nil, err
	}
	return entry, newBalance, nil
}
