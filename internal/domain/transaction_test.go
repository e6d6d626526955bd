package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestValidAmount(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   bool
	}{
		{"minimum unit", "0.01", true},
		{"whole amount", "150", true},
		{"two decimals", "99.99", true},
		{"zero", "0", false},
		{"negative", "-10.00", false},
		{"below minimum", "0.009", false},
		{"sub-cent precision", "10.005", false},
		{"large amount", "9999999.99", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, ValidAmount(decimal.RequireFromString(tc.amount)))
		})
	}
}

func TestReferencePrefix(t *testing.T) {
	require.Equal(t, "DEP", ReferencePrefix(TransactionTypeDeposit))
	require.Equal(t, "WTD", ReferencePrefix(TransactionTypeWithdrawal))
	require.Equal(t, "TRF", ReferencePrefix(TransactionTypeTransfer))
	require.Equal(t, "EXT", ReferencePrefix(TransactionTypeExternal))
	require.Equal(t, "TRX", ReferencePrefix(TransactionType("unknown")))
}

func TestCanBeResolved(t *testing.T) {
	pending := Transaction{TransactionType: TransactionTypeExternal, Status: TransactionStatusPending}
	require.True(t, pending.CanBeResolved())

	completed := Transaction{TransactionType: TransactionTypeExternal, Status: TransactionStatusCompleted}
	require.False(t, completed.CanBeResolved())

	cancelled := Transaction{TransactionType: TransactionTypeExternal, Status: TransactionStatusCancelled}
	require.False(t, cancelled.CanBeResolved())

	deposit := Transaction{TransactionType: TransactionTypeDeposit, Status: TransactionStatusPending}
	require.False(t, deposit.CanBeResolved())
}
