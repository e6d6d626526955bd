package identifier

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/google/uuid"
)

// DefaultAttempts bounds the collision-retry loop for Unique.
const DefaultAttempts = 5

var ErrGenerationExhausted = fmt.Errorf("identifier generation attempts exhausted: %w", domain.ErrDuplicateIdentifier)

var accountNumberRange = big.NewInt(9_000_000_000)

// AccountNumber returns a 10-digit numeric string drawn uniformly from
// [1000000000, 9999999999]. Uniqueness is the caller's concern; pair with
// Unique and a store-backed existence check.
func AccountNumber() string {
	n, err := rand.Int(rand.Reader, accountNumberRange)
	if err != nil {
		// crypto/rand never fails on supported platforms
		panic(fmt.Sprintf("identifier: read random source: %v", err))
	}
	return fmt.Sprintf("%d", n.Int64()+1_000_000_000)
}

// Reference returns the three-letter type prefix followed by 8 uppercase
// hex characters.
func Reference(prefix string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return prefix + suffix[:8]
}

// Unique draws candidates from gen until exists reports one free,
// regenerating on collision. After attempts tries (DefaultAttempts when
// attempts <= 0) it gives up with ErrGenerationExhausted.
func Unique(ctx context.Context, attempts int, gen func() string, exists func(context.Context, string) (bool, error)) (string, error) {
	if attempts <= 0 {
		attempts = DefaultAttempts
	}

	for i := 0; i < attempts; i++ {
		candidate := gen()
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("check identifier %q: %w", candidate, err)
		}
		if !taken {
			return candidate, nil
		}
	}

	return "", ErrGenerationExhausted
}
