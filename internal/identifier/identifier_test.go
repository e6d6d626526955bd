package identifier

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestAccountNumberIsTenDigits(t *testing.T) {
	for i := 0; i < 200; i++ {
		number := AccountNumber()
		require.Len(t, number, 10)
		for _, ch := range number {
			require.True(t, ch >= '0' && ch <= '9', number)
		}
		// The range starts at 1000000000, so no leading zero.
		require.NotEqual(t, byte('0'), number[0], number)
	}
}

func TestReferenceFormat(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		reference := Reference("TRF")
		require.Len(t, reference, 11)
		require.True(t, strings.HasPrefix(reference, "TRF"), reference)
		require.Equal(t, strings.ToUpper(reference), reference)

		_, dup := seen[reference]
		require.False(t, dup, "duplicate reference %s", reference)
		seen[reference] = struct{}{}
	}
}

func TestUniqueRegeneratesOnCollision(t *testing.T) {
	candidates := []string{"taken-1", "taken-2", "free"}
	calls := 0
	gen := func() string {
		candidate := candidates[calls]
		calls++
		return candidate
	}
	exists := func(_ context.Context, candidate string) (bool, error) {
		return strings.HasPrefix(candidate, "taken"), nil
	}

	got, err := Unique(context.Background(), DefaultAttempts, gen, exists)
	require.NoError(t, err)
	require.Equal(t, "free", got)
	require.Equal(t, 3, calls)
}

func TestUniqueGivesUpAfterAttempts(t *testing.T) {
	gen := func() string { return "always-taken" }
	exists := func(context.Context, string) (bool, error) { return true, nil }

	_, err := Unique(context.Background(), 3, gen, exists)
	require.ErrorIs(t, err, ErrGenerationExhausted)
	require.ErrorIs(t, err, domain.ErrDuplicateIdentifier)
}

func TestUniquePropagatesLookupErrors(t *testing.T) {
	lookupErr := errors.New("store unavailable")
	_, err := Unique(context.Background(), 0, AccountNumber, func(context.Context, string) (bool, error) {
		return false, lookupErr
	})
	require.ErrorIs(t, err, lookupErr)
}
