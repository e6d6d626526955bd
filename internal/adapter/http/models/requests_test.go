package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestDepositRequestValidate(t *testing.T) {
	valid := DepositRequest{AccountID: "acc-1", Amount: decimal.RequireFromString("10.00")}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		req  DepositRequest
	}{
		{"missing account", DepositRequest{Amount: decimal.RequireFromString("10.00")}},
		{"zero amount", DepositRequest{AccountID: "acc-1"}},
		{"negative amount", DepositRequest{AccountID: "acc-1", Amount: decimal.RequireFromString("-1")}},
		{"sub-cent amount", DepositRequest{AccountID: "acc-1", Amount: decimal.RequireFromString("1.001")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.req.Validate())
		})
	}
}

func TestTransferRequestValidate(t *testing.T) {
	valid := TransferRequest{
		FromAccountID:   "acc-1",
		ToAccountNumber: "1234567890",
		Amount:          decimal.RequireFromString("10.00"),
	}
	require.NoError(t, valid.Validate())

	badNumber := valid
	badNumber.ToAccountNumber = "12345"
	require.Error(t, badNumber.Validate())

	badNumber.ToAccountNumber = "12345678ab"
	require.Error(t, badNumber.Validate())
}

func TestExternalTransferRequestValidate(t *testing.T) {
	valid := ExternalTransferRequest{
		FromAccountID:      "acc-1",
		Amount:             decimal.RequireFromString("10.00"),
		BankName:           "First National",
		BeneficiaryName:    "Jordan Reyes",
		RoutingNumber:      "021000021",
		BeneficiaryAddress: "1 Main St",
	}
	require.NoError(t, valid.Validate())

	missingBank := valid
	missingBank.BankName = "  "
	require.Error(t, missingBank.Validate())

	missingRouting := valid
	missingRouting.RoutingNumber = ""
	require.Error(t, missingRouting.Validate())
}

func TestCreateUserRequestValidate(t *testing.T) {
	valid := CreateUserRequest{
		Email:     "jordan@example.com",
		Password:  "correct horse",
		FirstName: "Jordan",
		LastName:  "Reyes",
	}
	require.NoError(t, valid.Validate())

	shortPassword := valid
	shortPassword.Password = "short"
	require.Error(t, shortPassword.Validate())

	badEmail := valid
	badEmail.Email = "not-an-email"
	require.Error(t, badEmail.Validate())
}

func TestResolveBatchRequestValidate(t *testing.T) {
	valid := ResolveBatchRequest{TransactionIDs: []string{"txn-1"}, Action: "Approve"}
	require.NoError(t, valid.Validate())

	require.Error(t, ResolveBatchRequest{Action: "approve"}.Validate())
	require.Error(t, ResolveBatchRequest{TransactionIDs: []string{" "}, Action: "approve"}.Validate())
	require.Error(t, ResolveBatchRequest{TransactionIDs: []string{"txn-1"}, Action: "defer"}.Validate())
}

func TestUpdateAccountStatusRequestValidate(t *testing.T) {
	require.NoError(t, UpdateAccountStatusRequest{AccountID: "acc-1", Status: "Frozen"}.Validate())
	require.Error(t, UpdateAccountStatusRequest{AccountID: "acc-1", Status: "paused"}.Validate())
	require.Error(t, UpdateAccountStatusRequest{Status: "active"}.Validate())
}
