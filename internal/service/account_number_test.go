package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/set-night/ledgercore/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAccountNumberFormat(t *testing.T) {
	digits := regexp.MustCompile(`^\d{9}$`)
	for i := 0; i < 50; i++ {
		n, err := generateAccountNumber()
		require.NoError(t, err)
		assert.Regexp(t, digits, n)
	}
}

func TestGenerateUniqueAccountNumberStopsOnStoreError(t *testing.T) {
	boom := errors.New("connection reset")
	exists := func(context.Context, string) (bool, error) { return false, boom }

	_, used, err := generateUniqueAccountNumber(context.Background(), exists, 3, generateAccountNumber)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, used)
	assert.NotErrorIs(t, err, domain.ErrAccountNumberExhausted)
}

func TestGenerateUniqueAccountNumberBounded(t *testing.T) {
	calls := 0
	exists := func(context.Context, string) (bool, error) {
		calls++
		return true, nil
	}

	_, used, err := generateUniqueAccountNumber(context.Background(), exists, 4, generateAccountNumber)
	assert.ErrorIs(t, err, domain.ErrAccountNumberExhausted)
	assert.Equal(t, 4, calls)
	assert.Equal(t, 4, used)
}

func TestGenerateUniqueAccountNumberReportsConsumed(t *testing.T) {
	taken := map[string]bool{"000000001": true, "000000002": true}
	candidates := []string{"000000001", "000000002", "000000003"}
	next := func() (string, error) {
		n := candidates[0]
		candidates = candidates[1:]
		return n, nil
	}
	exists := func(_ context.Context, n string) (bool, error) { return taken[n], nil }

	n, used, err := generateUniqueAccountNumber(context.Background(), exists, 5, next)
	require.NoError(t, err)
	assert.Equal(t, "000000003", n)
	assert.Equal(t, 3, used)
}
