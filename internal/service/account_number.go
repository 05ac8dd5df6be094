package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/set-night/ledgercore/internal/config"
	"github.com/set-night/ledgercore/internal/domain"
)

var accountNumberSpace = big.NewInt(1_000_000_000)

func generateAccountNumber() (string, error) {
	n, err := rand.Int(rand.Reader, accountNumberSpace)
	if err != nil {
		return "", fmt.Errorf("random int: %w", err)
	}
	return fmt.Sprintf("%0*d", config.AccountNumberDigits, n.Int64()), nil
}

// numberExistsFunc reports whether a candidate number is already issued.
type numberExistsFunc func(ctx context.Context, number string) (bool, error)

// generateUniqueAccountNumber draws up to attempts candidates and returns the
// first one not yet issued, with the number of candidates it consumed.
func generateUniqueAccountNumber(ctx context.Context, exists numberExistsFunc, attempts int, next func() (string, error)) (string, int, error) {
	for i := 0; i < attempts; i++ {
		number, err := next()
		if err != nil {
			return "", i + 1, err
		}
		taken, err := exists(ctx, number)
		if err != nil {
			return "", i + 1, fmt.Errorf("check account number: %w", err)
		}
		if !taken {
			return number, i + 1, nil
		}
	}
	return "", attempts, fmt.Errorf("%d attempts: %w", attempts, domain.ErrAccountNumberExhausted)
}
