package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/middleware"
	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/http/router"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/memory"
	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/api-sage/core-banking-ledger/internal/usecase/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	store *memory.Store
	mux   *http.ServeMux
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore(2 * time.Second)
	userService := services.NewUserService(store.Users())
	accountService := services.NewAccountService(store.Accounts(), store.Users())
	ledgerService := services.NewLedgerService(store)
	reconciliationService := services.NewReconciliationService(store)

	mux := router.New(
		NewUserController(userService),
		NewAccountController(accountService),
		NewTransactionController(ledgerService),
		NewAdminController(reconciliationService, accountService),
		middleware.BasicAuth(userService),
	)

	return &fixture{store: store, mux: mux}
}

func (f *fixture) createUser(t *testing.T, email string) string {
	t.Helper()

	body, _ := json.Marshal(models.CreateUserRequest{
		Email:     email,
		Password:  "correct horse",
		FirstName: "Jordan",
		LastName:  "Reyes",
	})
	recorder := httptest.NewRecorder()
	f.mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body)))
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var response commons.Response[models.CreateUserResponse]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotNil(t, response.Data)
	return response.Data.ID
}

func (f *fixture) seedAccount(t *testing.T, userID, number, balance string) domain.Account {
	t.Helper()

	account, err := f.store.Accounts().Create(context.Background(), domain.Account{
		UserID:        userID,
		AccountNumber: number,
		AccountType:   domain.AccountTypeChecking,
		Balance:       decimal.RequireFromString(balance),
		Status:        domain.AccountStatusActive,
	})
	require.NoError(t, err)
	return account
}

func (f *fixture) do(t *testing.T, method, path, email string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	request := httptest.NewRequest(method, path, body)
	if email != "" {
		request.SetBasicAuth(email, "correct horse")
	}
	recorder := httptest.NewRecorder()
	f.mux.ServeHTTP(recorder, request)
	return recorder
}

func TestDepositEndpoint(t *testing.T) {
	f := newFixture(t)
	userID := f.createUser(t, "jordan@example.com")
	account := f.seedAccount(t, userID, "1000000001", "100.00")

	recorder := f.do(t, http.MethodPost, "/transactions/deposit", "jordan@example.com", models.DepositRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("25.00"),
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response commons.Response[models.TransactionResponse]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.True(t, response.Success)
	require.NotNil(t, response.Data)
	require.NotNil(t, response.Data.NewBalance)
	require.True(t, response.Data.NewBalance.Equal(decimal.RequireFromString("125.00")))
}

func TestDepositEndpointRequiresAuth(t *testing.T) {
	f := newFixture(t)

	recorder := f.do(t, http.MethodPost, "/transactions/deposit", "", models.DepositRequest{
		AccountID: "acc-1",
		Amount:    decimal.RequireFromString("25.00"),
	})
	require.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestDepositEndpointRejectsBadAmount(t *testing.T) {
	f := newFixture(t)
	userID := f.createUser(t, "jordan@example.com")
	account := f.seedAccount(t, userID, "1000000001", "100.00")

	recorder := f.do(t, http.MethodPost, "/transactions/deposit", "jordan@example.com", models.DepositRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("-5.00"),
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code, recorder.Body.String())
}

func TestWithdrawEndpointMapsInsufficientFunds(t *testing.T) {
	f := newFixture(t)
	userID := f.createUser(t, "jordan@example.com")
	account := f.seedAccount(t, userID, "1000000001", "10.00")

	recorder := f.do(t, http.MethodPost, "/transactions/withdraw", "jordan@example.com", models.WithdrawRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("50.00"),
	})
	require.Equal(t, http.StatusUnprocessableEntity, recorder.Code, recorder.Body.String())

	var response commons.Response[models.TransactionResponse]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.False(t, response.Success)
	require.Equal(t, "Insufficient balance", response.Message)
}

func TestTransferEndpointUnknownDestination(t *testing.T) {
	f := newFixture(t)
	userID := f.createUser(t, "jordan@example.com")
	account := f.seedAccount(t, userID, "1000000001", "100.00")

	recorder := f.do(t, http.MethodPost, "/transactions/transfer", "jordan@example.com", models.TransferRequest{
		FromAccountID:   account.ID,
		ToAccountNumber: "9999999999",
		Amount:          decimal.RequireFromString("10.00"),
	})
	require.Equal(t, http.StatusNotFound, recorder.Code, recorder.Body.String())
}

func TestAdminRoutesRejectNonAdmins(t *testing.T) {
	f := newFixture(t)
	f.createUser(t, "jordan@example.com")

	recorder := f.do(t, http.MethodGet, "/admin/external-transfers", "jordan@example.com", nil)
	require.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestExternalTransferEndpoint(t *testing.T) {
	f := newFixture(t)
	userID := f.createUser(t, "jordan@example.com")
	account := f.seedAccount(t, userID, "1000000001", "500.00")

	recorder := f.do(t, http.MethodPost, "/transactions/external-transfer", "jordan@example.com", models.ExternalTransferRequest{
		FromAccountID:      account.ID,
		Amount:             decimal.RequireFromString("120.00"),
		BankName:           "First National",
		BeneficiaryName:    "Jordan Reyes",
		RoutingNumber:      "021000021",
		BeneficiaryAddress: "1 Main St",
	})
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var response commons.Response[models.TransactionResponse]
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	require.NotNil(t, response.Data)
	require.Equal(t, string(domain.TransactionStatusPending), response.Data.Status)
	require.NotNil(t, response.Data.NewBalance)
	require.True(t, response.Data.NewBalance.Equal(decimal.RequireFromString("380.00")))
}
