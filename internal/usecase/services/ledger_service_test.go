package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/http/models"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/memory"
	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newTestStore() *memory.Store {
	return memory.NewStore(2 * time.Second)
}

func seedAccount(t *testing.T, store *memory.Store, userID, number, balance string) domain.Account {
	t.Helper()

	account, err := store.Accounts().Create(context.Background(), domain.Account{
		UserID:        userID,
		AccountNumber: number,
		AccountType:   domain.AccountTypeChecking,
		Balance:       decimal.RequireFromString(balance),
		Status:        domain.AccountStatusActive,
	})
	require.NoError(t, err)
	return account
}

func accountBalance(t *testing.T, store *memory.Store, accountID string) decimal.Decimal {
	t.Helper()

	account, err := store.Accounts().GetByID(context.Background(), accountID)
	require.NoError(t, err)
	return account.Balance
}

func TestDepositIncreasesBalanceAndAppendsEntry(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "100.00")
	service := NewLedgerService(store)

	response, err := service.Deposit(context.Background(), "user-1", models.DepositRequest{
		AccountID:   account.ID,
		Amount:      decimal.RequireFromString("25.50"),
		Description: "payday",
	})
	require.NoError(t, err)
	require.True(t, response.Success)
	require.NotNil(t, response.Data)

	entry := *response.Data
	require.Equal(t, string(domain.TransactionTypeDeposit), entry.TransactionType)
	require.Equal(t, string(domain.TransactionStatusCompleted), entry.Status)
	require.True(t, strings.HasPrefix(entry.ReferenceNumber, "DEP"), entry.ReferenceNumber)
	require.NotNil(t, entry.NewBalance)
	require.True(t, entry.NewBalance.Equal(decimal.RequireFromString("125.50")))

	require.True(t, accountBalance(t, store, account.ID).Equal(decimal.RequireFromString("125.50")))

	entries, err := store.Transactions().ListByUser(context.Background(), "user-1", repo_interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestDepositRejectsInvalidAmounts(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "100.00")
	service := NewLedgerService(store)

	for _, amount := range []string{"0", "-5.00", "10.005"} {
		_, err := service.Deposit(context.Background(), "user-1", models.DepositRequest{
			AccountID: account.ID,
			Amount:    decimal.RequireFromString(amount),
		})
		require.ErrorIs(t, err, domain.ErrInvalidAmount, amount)
	}

	require.True(t, accountBalance(t, store, account.ID).Equal(decimal.RequireFromString("100.00")))

	entries, err := store.Transactions().ListByUser(context.Background(), "user-1", repo_interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDepositHidesForeignAccounts(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "100.00")
	service := NewLedgerService(store)

	_, err := service.Deposit(context.Background(), "user-2", models.DepositRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, err = service.Deposit(context.Background(), "user-1", models.DepositRequest{
		AccountID: "no-such-account",
		Amount:    decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestWithdrawInsufficientFundsLeavesNoTrace(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "50.00")
	service := NewLedgerService(store)

	_, err := service.Withdraw(context.Background(), "user-1", models.WithdrawRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("50.01"),
	})
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	require.True(t, accountBalance(t, store, account.ID).Equal(decimal.RequireFromString("50.00")))

	entries, err := store.Transactions().ListByUser(context.Background(), "user-1", repo_interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestWithdrawRejectsInactiveAccount(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "50.00")
	require.NoError(t, store.Accounts().UpdateStatus(context.Background(), account.ID, domain.AccountStatusFrozen))
	service := NewLedgerService(store)

	_, err := service.Withdraw(context.Background(), "user-1", models.WithdrawRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, domain.ErrAccountNotActive)
}

func TestConcurrentWithdrawalsSpendBalanceOnce(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "100.00")
	service := NewLedgerService(store)

	amount := decimal.RequireFromString("80.00")
	results := make(chan error, 2)

	var group errgroup.Group
	for i := 0; i < 2; i++ {
		group.Go(func() error {
			_, err := service.Withdraw(context.Background(), "user-1", models.WithdrawRequest{
				AccountID: account.ID,
				Amount:    amount,
			})
			results <- err
			return nil
		})
	}
	require.NoError(t, group.Wait())
	close(results)

	var successes, insufficient int
	for err := range results {
		switch {
		case err == nil:
			successes++
		default:
			require.ErrorIs(t, err, domain.ErrInsufficientFunds)
			insufficient++
		}
	}
	require.Equal(t, 1, successes)
	require.Equal(t, 1, insufficient)

	require.True(t, accountBalance(t, store, account.ID).Equal(decimal.RequireFromString("20.00")))

	entries, err := store.Transactions().ListByUser(context.Background(), "user-1", repo_interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestTransferMovesFundsAtomically(t *testing.T) {
	store := newTestStore()
	source := seedAccount(t, store, "user-1", "1000000001", "200.00")
	destination := seedAccount(t, store, "user-2", "1000000002", "10.00")
	service := NewLedgerService(store)

	response, err := service.Transfer(context.Background(), "user-1", models.TransferRequest{
		FromAccountID:   source.ID,
		ToAccountNumber: destination.AccountNumber,
		Amount:          decimal.RequireFromString("75.25"),
		Description:     "rent",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	entry := *response.Data
	require.True(t, strings.HasPrefix(entry.ReferenceNumber, "TRF"), entry.ReferenceNumber)
	require.NotNil(t, entry.FromAccountID)
	require.NotNil(t, entry.ToAccountID)
	require.Equal(t, source.ID, *entry.FromAccountID)
	require.Equal(t, destination.ID, *entry.ToAccountID)
	require.NotNil(t, entry.NewBalance)
	require.True(t, entry.NewBalance.Equal(decimal.RequireFromString("124.75")))

	require.True(t, accountBalance(t, store, source.ID).Equal(decimal.RequireFromString("124.75")))
	require.True(t, accountBalance(t, store, destination.ID).Equal(decimal.RequireFromString("85.25")))

	// One entry, visible to both parties.
	senderView, err := store.Transactions().ListByUser(context.Background(), "user-1", repo_interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, senderView, 1)

	receiverView, err := store.Transactions().ListByUser(context.Background(), "user-2", repo_interfaces.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, receiverView, 1)
}

func TestTransferToSameAccountRejected(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "200.00")
	service := NewLedgerService(store)

	_, err := service.Transfer(context.Background(), "user-1", models.TransferRequest{
		FromAccountID:   account.ID,
		ToAccountNumber: account.AccountNumber,
		Amount:          decimal.RequireFromString("10.00"),
	})
	require.ErrorIs(t, err, domain.ErrSameAccountTransfer)

	require.True(t, accountBalance(t, store, account.ID).Equal(decimal.RequireFromString("200.00")))
}

func TestOpposingConcurrentTransfersConserveTotal(t *testing.T) {
	store := newTestStore()
	first := seedAccount(t, store, "user-1", "1000000001", "150.00")
	second := seedAccount(t, store, "user-2", "1000000002", "150.00")
	service := NewLedgerService(store)

	var group errgroup.Group
	group.Go(func() error {
		_, err := service.Transfer(context.Background(), "user-1", models.TransferRequest{
			FromAccountID:   first.ID,
			ToAccountNumber: second.AccountNumber,
			Amount:          decimal.RequireFromString("30.00"),
		})
		return err
	})
	group.Go(func() error {
		_, err := service.Transfer(context.Background(), "user-2", models.TransferRequest{
			FromAccountID:   second.ID,
			ToAccountNumber: first.AccountNumber,
			Amount:          decimal.RequireFromString("50.00"),
		})
		return err
	})
	require.NoError(t, group.Wait())

	firstBalance := accountBalance(t, store, first.ID)
	secondBalance := accountBalance(t, store, second.ID)
	require.True(t, firstBalance.Equal(decimal.RequireFromString("170.00")), firstBalance.String())
	require.True(t, secondBalance.Equal(decimal.RequireFromString("130.00")), secondBalance.String())
	require.True(t, firstBalance.Add(secondBalance).Equal(decimal.RequireFromString("300.00")))
}

func TestExternalTransferDebitsNowAndStaysPending(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "500.00")
	service := NewLedgerService(store)

	response, err := service.InitiateExternalTransfer(context.Background(), "user-1", models.ExternalTransferRequest{
		FromAccountID:      account.ID,
		Amount:             decimal.RequireFromString("120.00"),
		BankName:           "First National",
		BeneficiaryName:    "Jordan Reyes",
		RoutingNumber:      "021000021",
		BeneficiaryAddress: "1 Main St, Springfield",
		Description:        "invoice 42",
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	entry := *response.Data
	require.Equal(t, string(domain.TransactionStatusPending), entry.Status)
	require.True(t, strings.HasPrefix(entry.ReferenceNumber, "EXT"), entry.ReferenceNumber)
	require.NotNil(t, entry.BankName)
	require.Equal(t, "First National", *entry.BankName)
	require.NotNil(t, entry.NewBalance)
	require.True(t, entry.NewBalance.Equal(decimal.RequireFromString("380.00")))

	require.True(t, accountBalance(t, store, account.ID).Equal(decimal.RequireFromString("380.00")))

	pending, err := store.Transactions().ListPendingExternal(context.Background())
	require.NoError(t, err)
	require.Len(t, pending, 1)
}

func TestSummaryCountsCompletedEntriesOnly(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "500.00")
	service := NewLedgerService(store)

	_, err := service.Deposit(context.Background(), "user-1", models.DepositRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("100.00"),
	})
	require.NoError(t, err)

	_, err = service.Withdraw(context.Background(), "user-1", models.WithdrawRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("40.00"),
	})
	require.NoError(t, err)

	_, err = service.InitiateExternalTransfer(context.Background(), "user-1", models.ExternalTransferRequest{
		FromAccountID:      account.ID,
		Amount:             decimal.RequireFromString("60.00"),
		BankName:           "First National",
		BeneficiaryName:    "Jordan Reyes",
		RoutingNumber:      "021000021",
		BeneficiaryAddress: "1 Main St, Springfield",
	})
	require.NoError(t, err)

	response, err := service.Summary(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, response.Data)

	summary := *response.Data
	require.True(t, summary.TotalDeposits.Equal(decimal.RequireFromString("100.00")))
	require.True(t, summary.TotalWithdrawals.Equal(decimal.RequireFromString("40.00")))
	require.True(t, summary.TotalTransfersSent.Equal(decimal.Zero))
	// The pending external transfer is excluded until reconciled.
	require.Equal(t, 2, summary.TransactionCount)
}

func TestListTransactionsHonorsFilter(t *testing.T) {
	store := newTestStore()
	account := seedAccount(t, store, "user-1", "1000000001", "500.00")
	service := NewLedgerService(store)

	for i := 0; i < 3; i++ {
		_, err := service.Deposit(context.Background(), "user-1", models.DepositRequest{
			AccountID: account.ID,
			Amount:    decimal.RequireFromString("10.00"),
		})
		require.NoError(t, err)
	}
	_, err := service.Withdraw(context.Background(), "user-1", models.WithdrawRequest{
		AccountID: account.ID,
		Amount:    decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	response, err := service.ListTransactions(context.Background(), "user-1", repo_interfaces.TransactionFilter{
		TransactionType: domain.TransactionTypeDeposit,
	})
	require.NoError(t, err)
	require.NotNil(t, response.Data)
	require.Len(t, response.Data.Transactions, 3)

	limited, err := service.ListTransactions(context.Background(), "user-1", repo_interfaces.TransactionFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited.Data.Transactions, 2)
}
