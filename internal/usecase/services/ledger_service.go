package services

import (
	"context"
	"errors"
	"strings"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/identifier"
	"github.com/api-sage/core-banking-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

// LedgerService is the money-movement engine. Every operation mutates
// balances and appends its ledger entry inside one unit of work, with the
// involved account rows locked for the duration. Preconditions are
// re-checked on the locked rows; the pre-lock reads only resolve
// identifiers.
type LedgerService struct {
	uow repo_interfaces.UnitOfWork
}

func NewLedgerService(uow repo_interfaces.UnitOfWork) *LedgerService {
	return &LedgerService{uow: uow}
}

func (s *LedgerService) Deposit(ctx context.Context, userID string, request models.DepositRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service deposit request", logger.Fields{"userId": userID, "payload": logger.SanitizePayload(request)})

	if !domain.ValidAmount(request.Amount) {
		logger.Error("ledger service deposit rejected", domain.ErrInvalidAmount, logger.Fields{"userId": userID})
		return failureResponse[models.TransactionResponse]("Deposit failed", domain.ErrInvalidAmount), domain.ErrInvalidAmount
	}
	if err := request.Validate(); err != nil {
		logger.Error("ledger service deposit validation failed", err, logger.Fields{"userId": userID})
		return validationResponse[models.TransactionResponse](err), err
	}

	accountID := strings.TrimSpace(request.AccountID)
	description := strings.TrimSpace(request.Description)

	var (
		entry      domain.Transaction
		newBalance decimal.Decimal
	)
	err := s.withReferenceRetry(ctx, domain.TransactionTypeDeposit, func(reference string) error {
		return s.uow.Do(ctx, func(uow repo_interfaces.UnitOfWork) error {
			account, err := ownedForUpdate(ctx, uow, accountID, userID)
			if err != nil {
				return err
			}
			if !account.CanCredit(request.Amount) {
				return domain.ErrAccountNotActive
			}

			account.Balance = account.Balance.Add(request.Amount)
			if err := uow.Accounts().SaveBalance(ctx, account); err != nil {
				return err
			}

			toAccountID := account.ID
			entry, err = uow.Transactions().Insert(ctx, domain.Transaction{
				UserID:          userID,
				ToAccountID:     &toAccountID,
				TransactionType: domain.TransactionTypeDeposit,
				Amount:          request.Amount,
				Description:     description,
				ReferenceNumber: reference,
				Status:          domain.TransactionStatusCompleted,
			})
			if err != nil {
				return err
			}

			newBalance = account.Balance
			return nil
		})
	})
	if err != nil {
		logger.Error("ledger service deposit failed", err, logger.Fields{"userId": userID, "accountId": accountID})
		return failureResponse[models.TransactionResponse]("Deposit failed", err), err
	}

	logger.Info("ledger service deposit completed", logger.Fields{"reference": entry.ReferenceNumber, "accountId": accountID})
	return commons.SuccessResponse("Deposit successful", models.MapTransaction(entry, &newBalance)), nil
}

func (s *LedgerService) Withdraw(ctx context.Context, userID string, request models.WithdrawRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service withdraw request", logger.Fields{"userId": userID, "payload": logger.SanitizePayload(request)})

	if !domain.ValidAmount(request.Amount) {
		logger.Error("ledger service withdraw rejected", domain.ErrInvalidAmount, logger.Fields{"userId": userID})
		return failureResponse[models.TransactionResponse]("Withdrawal failed", domain.ErrInvalidAmount), domain.ErrInvalidAmount
	}
	if err := request.Validate(); err != nil {
		logger.Error("ledger service withdraw validation failed", err, logger.Fields{"userId": userID})
		return validationResponse[models.TransactionResponse](err), err
	}

	accountID := strings.TrimSpace(request.AccountID)
	description := strings.TrimSpace(request.Description)

	var (
		entry      domain.Transaction
		newBalance decimal.Decimal
	)
	err := s.withReferenceRetry(ctx, domain.TransactionTypeWithdrawal, func(reference string) error {
		return s.uow.Do(ctx, func(uow repo_interfaces.UnitOfWork) error {
			account, err := ownedForUpdate(ctx, uow, accountID, userID)
			if err != nil {
				return err
			}
			if err := debitCheck(account, request.Amount); err != nil {
				return err
			}

			account.Balance = account.Balance.Sub(request.Amount)
			if err := uow.Accounts().SaveBalance(ctx, account); err != nil {
				return err
			}

			fromAccountID := account.ID
			entry, err = uow.Transactions().Insert(ctx, domain.Transaction{
				UserID:          userID,
				FromAccountID:   &fromAccountID,
				TransactionType: domain.TransactionTypeWithdrawal,
				Amount:          request.Amount,
				Description:     description,
				ReferenceNumber: reference,
				Status:          domain.TransactionStatusCompleted,
			})
			if err != nil {
				return err
			}

			newBalance = account.Balance
			return nil
		})
	})
	if err != nil {
		logger.Error("ledger service withdraw failed", err, logger.Fields{"userId": userID, "accountId": accountID})
		return failureResponse[models.TransactionResponse]("Withdrawal failed", err), err
	}

	logger.Info("ledger service withdraw completed", logger.Fields{"reference": entry.ReferenceNumber, "accountId": accountID})
	return commons.SuccessResponse("Withdrawal successful", models.MapTransaction(entry, &newBalance)), nil
}

func (s *LedgerService) Transfer(ctx context.Context, userID string, request models.TransferRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service transfer request", logger.Fields{"userId": userID, "payload": logger.SanitizePayload(request)})

	if !domain.ValidAmount(request.Amount) {
		logger.Error("ledger service transfer rejected", domain.ErrInvalidAmount, logger.Fields{"userId": userID})
		return failureResponse[models.TransactionResponse]("Transfer failed", domain.ErrInvalidAmount), domain.ErrInvalidAmount
	}
	if err := request.Validate(); err != nil {
		logger.Error("ledger service transfer validation failed", err, logger.Fields{"userId": userID})
		return validationResponse[models.TransactionResponse](err), err
	}

	fromAccountID := strings.TrimSpace(request.FromAccountID)
	toAccountNumber := strings.TrimSpace(request.ToAccountNumber)
	description := strings.TrimSpace(request.Description)

	var (
		entry      domain.Transaction
		newBalance decimal.Decimal
	)
	err := s.withReferenceRetry(ctx, domain.TransactionTypeTransfer, func(reference string) error {
		return s.uow.Do(ctx, func(uow repo_interfaces.UnitOfWork) error {
			source, err := uow.Accounts().GetByID(ctx, fromAccountID)
			if err != nil {
				return asAccountNotFound(err)
			}
			if source.UserID != userID {
				return domain.ErrAccountNotFound
			}
			destination, err := uow.Accounts().GetByAccountNumber(ctx, toAccountNumber)
			if err != nil {
				return asAccountNotFound(err)
			}
			if source.ID == destination.ID {
				return domain.ErrSameAccountTransfer
			}

			// Both rows are locked in ascending ID order so two opposing
			// transfers never hold one lock each while waiting for the other.
			firstID, secondID := source.ID, destination.ID
			if secondID < firstID {
				firstID, secondID = secondID, firstID
			}
			first, err := uow.Accounts().GetForUpdate(ctx, firstID)
			if err != nil {
				return asAccountNotFound(err)
			}
			second, err := uow.Accounts().GetForUpdate(ctx, secondID)
			if err != nil {
				return asAccountNotFound(err)
			}
			source, destination = first, second
			if source.ID != fromAccountID {
				source, destination = second, first
			}

			// Re-check on the locked rows; the pre-lock reads may be stale.
			if source.UserID != userID {
				return domain.ErrAccountNotFound
			}
			if err := debitCheck(source, request.Amount); err != nil {
				return err
			}
			if !destination.CanCredit(request.Amount) {
				return domain.ErrAccountNotActive
			}

			source.Balance = source.Balance.Sub(request.Amount)
			destination.Balance = destination.Balance.Add(request.Amount)
			if err := uow.Accounts().SaveBalance(ctx, source); err != nil {
				return err
			}
			if err := uow.Accounts().SaveBalance(ctx, destination); err != nil {
				return err
			}

			sourceID, destinationID := source.ID, destination.ID
			entry, err = uow.Transactions().Insert(ctx, domain.Transaction{
				UserID:          userID,
				FromAccountID:   &sourceID,
				ToAccountID:     &destinationID,
				TransactionType: domain.TransactionTypeTransfer,
				Amount:          request.Amount,
				Description:     description,
				ReferenceNumber: reference,
				Status:          domain.TransactionStatusCompleted,
			})
			if err != nil {
				return err
			}

			newBalance = source.Balance
			return nil
		})
	})
	if err != nil {
		logger.Error("ledger service transfer failed", err, logger.Fields{"userId": userID, "fromAccountId": fromAccountID})
		return failureResponse[models.TransactionResponse]("Transfer failed", err), err
	}

	logger.Info("ledger service transfer completed", logger.Fields{"reference": entry.ReferenceNumber, "fromAccountId": fromAccountID})
	return commons.SuccessResponse("Transfer successful", models.MapTransaction(entry, &newBalance)), nil
}

// InitiateExternalTransfer debits the source account immediately and
// records a pending ledger entry; reconciliation later settles or refunds
// it.
func (s *LedgerService) InitiateExternalTransfer(ctx context.Context, userID string, request models.ExternalTransferRequest) (commons.Response[models.TransactionResponse], error) {
	logger.Info("ledger service external transfer request", logger.Fields{"userId": userID, "payload": logger.SanitizePayload(request)})

	if !domain.ValidAmount(request.Amount) {
		logger.Error("ledger service external transfer rejected", domain.ErrInvalidAmount, logger.Fields{"userId": userID})
		return failureResponse[models.TransactionResponse]("External transfer failed", domain.ErrInvalidAmount), domain.ErrInvalidAmount
	}
	if err := request.Validate(); err != nil {
		logger.Error("ledger service external transfer validation failed", err, logger.Fields{"userId": userID})
		return validationResponse[models.TransactionResponse](err), err
	}

	accountID := strings.TrimSpace(request.FromAccountID)
	description := strings.TrimSpace(request.Description)
	bankName := strings.TrimSpace(request.BankName)
	beneficiaryName := strings.TrimSpace(request.BeneficiaryName)
	routingNumber := strings.TrimSpace(request.RoutingNumber)
	beneficiaryAddress := strings.TrimSpace(request.BeneficiaryAddress)

	var (
		entry      domain.Transaction
		newBalance decimal.Decimal
	)
	err := s.withReferenceRetry(ctx, domain.TransactionTypeExternal, func(reference string) error {
		return s.uow.Do(ctx, func(uow repo_interfaces.UnitOfWork) error {
			account, err := ownedForUpdate(ctx, uow, accountID, userID)
			if err != nil {
				return err
			}
			if err := debitCheck(account, request.Amount); err != nil {
				return err
			}

			account.Balance = account.Balance.Sub(request.Amount)
			if err := uow.Accounts().SaveBalance(ctx, account); err != nil {
				return err
			}

			fromAccountID := account.ID
			entry, err = uow.Transactions().Insert(ctx, domain.Transaction{
				UserID:             userID,
				FromAccountID:      &fromAccountID,
				TransactionType:    domain.TransactionTypeExternal,
				Amount:             request.Amount,
				Description:        description,
				ReferenceNumber:    reference,
				Status:             domain.TransactionStatusPending,
				BankName:           &bankName,
				BeneficiaryName:    &beneficiaryName,
				RoutingNumber:      &routingNumber,
				BeneficiaryAddress: &beneficiaryAddress,
			})
			if err != nil {
				return err
			}

			newBalance = account.Balance
			return nil
		})
	})
	if err != nil {
		logger.Error("ledger service external transfer failed", err, logger.Fields{"userId": userID, "accountId": accountID})
		return failureResponse[models.TransactionResponse]("External transfer failed", err), err
	}

	logger.Info("ledger service external transfer initiated", logger.Fields{"reference": entry.ReferenceNumber, "accountId": accountID})
	return commons.SuccessResponse("External transfer initiated", models.MapTransaction(entry, &newBalance)), nil
}

func (s *LedgerService) ListTransactions(ctx context.Context, userID string, filter repo_interfaces.TransactionFilter) (commons.Response[models.TransactionListResponse], error) {
	transactions, err := s.uow.Transactions().ListByUser(ctx, userID, filter)
	if err != nil {
		logger.Error("ledger service list transactions failed", err, logger.Fields{"userId": userID})
		return failureResponse[models.TransactionListResponse]("Unable to list transactions", err), err
	}

	response := models.TransactionListResponse{Transactions: make([]models.TransactionResponse, 0, len(transactions))}
	for _, transaction := range transactions {
		response.Transactions = append(response.Transactions, models.MapTransaction(transaction, nil))
	}
	return commons.SuccessResponse("Transactions retrieved", response), nil
}

func (s *LedgerService) Summary(ctx context.Context, userID string) (commons.Response[models.TransactionSummaryResponse], error) {
	summary, err := s.uow.Transactions().SummarizeByUser(ctx, userID)
	if err != nil {
		logger.Error("ledger service summary failed", err, logger.Fields{"userId": userID})
		return failureResponse[models.TransactionSummaryResponse]("Unable to build summary", err), err
	}

	response := models.TransactionSummaryResponse{
		TotalDeposits:      summary.TotalDeposits,
		TotalWithdrawals:   summary.TotalWithdrawals,
		TotalTransfersSent: summary.TotalTransfersSent,
		TransactionCount:   summary.TransactionCount,
	}
	return commons.SuccessResponse("Summary retrieved", response), nil
}

// withReferenceRetry re-runs the whole unit of work with a fresh reference
// number when the insert collides. The collision aborts the transaction, so
// the retry has to start over rather than re-insert.
func (s *LedgerService) withReferenceRetry(ctx context.Context, transactionType domain.TransactionType, run func(reference string) error) error {
	prefix := domain.ReferencePrefix(transactionType)

	var err error
	for attempt := 1; attempt <= identifier.DefaultAttempts; attempt++ {
		reference := identifier.Reference(prefix)
		err = run(reference)
		if err == nil || !errors.Is(err, domain.ErrDuplicateIdentifier) {
			return err
		}
		logger.Info("ledger service reference collision, regenerating", logger.Fields{"reference": reference, "attempt": attempt})
	}
	return identifier.ErrGenerationExhausted
}

// ownedForUpdate locks the account row and confirms the caller owns it. A
// foreign account reads as absent so account IDs cannot be probed.
func ownedForUpdate(ctx context.Context, uow repo_interfaces.UnitOfWork, accountID, userID string) (domain.Account, error) {
	account, err := uow.Accounts().GetForUpdate(ctx, accountID)
	if err != nil {
		return domain.Account{}, asAccountNotFound(err)
	}
	if account.UserID != userID {
		return domain.Account{}, domain.ErrAccountNotFound
	}
	return account, nil
}

func debitCheck(account domain.Account, amount decimal.Decimal) error {
	if !account.IsActive() {
		return domain.ErrAccountNotActive
	}
	if account.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}
	return nil
}

func asAccountNotFound(err error) error {
	if errors.Is(err, domain.ErrRecordNotFound) {
		return domain.ErrAccountNotFound
	}
	return err
}
