package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/set-night/ledgercore/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEmitter struct {
	calls int
	err   error
}

func (s *stubEmitter) Emit(context.Context, domain.Event) error {
	s.calls++
	return s.err
}

func TestLogEmitterWritesStructuredLine(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := NewLogEmitter(logger)

	ev := domain.NewEvent(domain.EventBalanceAlert, 7, decimal.RequireFromString("40.00"), "Balance dropped below minimum limit")
	require.NoError(t, e.Emit(context.Background(), ev))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "WARN", line["level"])
	assert.Equal(t, "balance below minimum", line["msg"])
	assert.Equal(t, "BALANCE_ALERT", line["event_type"])
	assert.Equal(t, "40", line["balance"])
	assert.EqualValues(t, 7, line["account_id"])
	assert.Equal(t, "events", line["component"])
}

func TestMultiDeliversToAllSinks(t *testing.T) {
	first := &stubEmitter{err: errors.New("telegram down")}
	second := &stubEmitter{}
	m := Multi{first, nil, second}

	err := m.Emit(context.Background(), domain.NewEvent(domain.EventDeposit, 1, decimal.Zero, ""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram down")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls)
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Emit(context.Background(), domain.Event{}))
}
