package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/set-night/ledgercore/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.Kind
	}{
		{"numeric overflow", &pgconn.PgError{Code: pgNumericOutOfRange}, domain.KindInvalidInput},
		{"lock timeout", &pgconn.PgError{Code: pgLockNotAvailable}, domain.KindConcurrency},
		{"serialization failure", &pgconn.PgError{Code: pgSerializationFailure}, domain.KindConcurrency},
		{"deadlock", fmt.Errorf("exec: %w", &pgconn.PgError{Code: pgDeadlockDetected}), domain.KindConcurrency},
		{"connection exception", &pgconn.PgError{Code: "08006"}, domain.KindUnavailable},
		{"other sql error", &pgconn.PgError{Code: "42P01"}, ""},
		{"canceled", context.Canceled, ""},
		{"network", errors.New("dial tcp: connection refused"), domain.KindUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify("op", tt.err)
			assert.Equal(t, tt.want, domain.KindOf(err))
			assert.ErrorIs(t, err, tt.err)
		})
	}

	assert.ErrorIs(t, classify("save account", &pgconn.PgError{Code: pgNumericOutOfRange}), domain.ErrInvalidAmount)
}
