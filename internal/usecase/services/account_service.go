package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/identifier"
	"github.com/api-sage/core-banking-ledger/internal/logger"
	"github.com/shopspring/decimal"
)

type AccountService struct {
	accounts repo_interfaces.AccountRepository
	users    repo_interfaces.UserRepository
}

func NewAccountService(accounts repo_interfaces.AccountRepository, users repo_interfaces.UserRepository) *AccountService {
	return &AccountService{accounts: accounts, users: users}
}

// OpenAccount creates an active zero-balance account with a generated
// 10-digit account number. The number is pre-checked for uniqueness, and a
// lost insert race regenerates it rather than surfacing the collision.
func (s *AccountService) OpenAccount(ctx context.Context, userID string, request models.OpenAccountRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service open account request", logger.Fields{"userId": userID, "payload": logger.SanitizePayload(request)})

	if err := request.Validate(); err != nil {
		logger.Error("account service open account validation failed", err, logger.Fields{"userId": userID})
		return validationResponse[models.AccountResponse](err), err
	}

	accountType := domain.AccountType(strings.ToLower(strings.TrimSpace(request.AccountType)))
	if accountType == "" {
		accountType = domain.AccountTypeSavings
	}

	var (
		created domain.Account
		err     error
	)
	for attempt := 1; attempt <= identifier.DefaultAttempts; attempt++ {
		var number string
		number, err = identifier.Unique(ctx, identifier.DefaultAttempts, identifier.AccountNumber, s.accounts.ExistsByNumber)
		if err != nil {
			break
		}

		created, err = s.accounts.Create(ctx, domain.Account{
			UserID:        userID,
			AccountNumber: number,
			AccountType:   accountType,
			Balance:       decimal.Zero,
			Status:        domain.AccountStatusActive,
		})
		if err == nil || !errors.Is(err, domain.ErrDuplicateIdentifier) {
			break
		}
		logger.Info("account service number collision, regenerating", logger.Fields{"attempt": attempt})
	}
	if err != nil {
		logger.Error("account service open account failed", err, logger.Fields{"userId": userID})
		return failureResponse[models.AccountResponse]("Unable to open account", err), err
	}

	logger.Info("account service account opened", logger.Fields{"accountId": created.ID, "userId": userID})
	return commons.SuccessResponse("Account opened", mapAccount(created)), nil
}

func (s *AccountService) GetAccount(ctx context.Context, userID string, isAdmin bool, accountID string) (commons.Response[models.AccountResponse], error) {
	account, err := s.accounts.GetByID(ctx, strings.TrimSpace(accountID))
	if err != nil {
		err = asAccountNotFound(err)
		logger.Error("account service get account failed", err, logger.Fields{"accountId": accountID})
		return failureResponse[models.AccountResponse]("Account not found", err), err
	}
	if !isAdmin && account.UserID != userID {
		return failureResponse[models.AccountResponse]("Account not found", domain.ErrAccountNotFound), domain.ErrAccountNotFound
	}

	return commons.SuccessResponse("Account retrieved", mapAccount(account)), nil
}

func (s *AccountService) ListAccounts(ctx context.Context, userID string) (commons.Response[models.AccountListResponse], error) {
	accounts, err := s.accounts.ListByUser(ctx, userID)
	if err != nil {
		logger.Error("account service list accounts failed", err, logger.Fields{"userId": userID})
		return failureResponse[models.AccountListResponse]("Unable to list accounts", err), err
	}

	response := models.AccountListResponse{Accounts: make([]models.AccountResponse, 0, len(accounts))}
	for _, account := range accounts {
		response.Accounts = append(response.Accounts, mapAccount(account))
	}
	return commons.SuccessResponse("Accounts retrieved", response), nil
}

func (s *AccountService) UpdateStatus(ctx context.Context, request models.UpdateAccountStatusRequest) (commons.Response[models.AccountResponse], error) {
	logger.Info("account service update status request", logger.Fields{"payload": logger.SanitizePayload(request)})

	if err := request.Validate(); err != nil {
		logger.Error("account service update status validation failed", err, nil)
		return validationResponse[models.AccountResponse](err), err
	}

	accountID := strings.TrimSpace(request.AccountID)
	status := domain.AccountStatus(strings.ToLower(strings.TrimSpace(request.Status)))

	if err := s.accounts.UpdateStatus(ctx, accountID, status); err != nil {
		err = asAccountNotFound(err)
		logger.Error("account service update status failed", err, logger.Fields{"accountId": accountID})
		return failureResponse[models.AccountResponse]("Unable to update account status", err), err
	}

	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		err = asAccountNotFound(err)
		logger.Error("account service reload after status update failed", err, logger.Fields{"accountId": accountID})
		return failureResponse[models.AccountResponse]("Unable to update account status", err), err
	}

	logger.Info("account service status updated", logger.Fields{"accountId": accountID, "status": string(status)})
	return commons.SuccessResponse("Account status updated", mapAccount(account)), nil
}

// LookupRecipient resolves an account number to its owner so a sender can
// confirm the destination before transferring. Inactive accounts read as
// absent.
func (s *AccountService) LookupRecipient(ctx context.Context, accountNumber string) (commons.Response[models.RecipientResponse], error) {
	account, err := s.accounts.GetByAccountNumber(ctx, strings.TrimSpace(accountNumber))
	if err != nil {
		err = asAccountNotFound(err)
		logger.Error("account service recipient lookup failed", err, logger.Fields{"accountNumber": accountNumber})
		return failureResponse[models.RecipientResponse]("Account not found", err), err
	}
	if !account.IsActive() {
		return failureResponse[models.RecipientResponse]("Account not found", domain.ErrAccountNotFound), domain.ErrAccountNotFound
	}

	owner, err := s.users.GetByID(ctx, account.UserID)
	if err != nil {
		logger.Error("account service recipient owner lookup failed", err, logger.Fields{"accountNumber": accountNumber})
		return failureResponse[models.RecipientResponse]("Account not found", err), err
	}

	response := models.RecipientResponse{
		Name:          owner.FullName(),
		Email:         owner.Email,
		AccountNumber: account.AccountNumber,
	}
	return commons.SuccessResponse("Recipient retrieved", response), nil
}

func mapAccount(account domain.Account) models.AccountResponse {
	return models.AccountResponse{
		ID:            account.ID,
		AccountNumber: account.AccountNumber,
		AccountType:   string(account.AccountType),
		Balance:       account.Balance,
		Status:        string(account.Status),
		CreatedAt:     account.CreatedAt.Format(time.RFC3339),
		UpdatedAt:     account.UpdatedAt.Format(time.RFC3339),
	}
}
